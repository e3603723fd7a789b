package dto

// ==================== 商品 ====================

// ProductRow 商品表格行 (仅为内存列表的投影)
type ProductRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"`
	Stock    int    `json:"stock"`
}

// ProductForm 商品编辑弹窗提交内容
// Price/Stock/MaxOrder 为原始输入文本，非整数时回退默认值
type ProductForm struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       FieldText `json:"price"`
	Stock       FieldText `json:"stock"`
	MaxOrder    FieldText `json:"max_order"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Toppings    []string  `json:"toppings"` // 勾选的配料 ID
}

// ToppingOption 配料勾选项
type ToppingOption struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// ProductDraft 商品编辑弹窗的预填内容
type ProductDraft struct {
	Title     string          `json:"title"`
	IsNew     bool            `json:"is_new"`
	Form      ProductForm     `json:"form"`
	Checklist []ToppingOption `json:"checklist"`
}

// ==================== 配料 ====================

type ToppingRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type ToppingForm struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Price FieldText `json:"price"`
}

type ToppingDraft struct {
	Title string      `json:"title"`
	IsNew bool        `json:"is_new"`
	Form  ToppingForm `json:"form"`
}

// DanglingRef 商品引用了不存在的配料
type DanglingRef struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	ToppingIDs  []string `json:"topping_ids"`
}

// ==================== 图片 ====================

// ImageUploadReq 图片导入请求 (JSON 方式)，二选一
type ImageUploadReq struct {
	SourcePath string `json:"source_path"`
	SourceURL  string `json:"source_url"`
	ProductID  string `json:"product_id"`
}

// ImageUploadResp 图片导入结果
// Image 为写入商品 image 字段的值，失败时为源文件绝对路径
type ImageUploadResp struct {
	Image     string `json:"image"`
	MirrorURL string `json:"mirror_url,omitempty"`
}
