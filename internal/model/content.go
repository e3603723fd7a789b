package model

// ==================== 文档文件名 ====================

const (
	LandingPageFile = "landing_page.json"
	ProductsFile    = "products.json"
	ToppingsFile    = "toppings.json"
	StoreFile       = "store.json"
)

// ==================== 商品 ====================

// Product 商品，ID 创建时生成后不可修改
// Toppings 保存配料 ID，引用完整性由编辑器负责
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       int      `json:"price"`
	Stock       int      `json:"stock"`
	MaxOrder    int      `json:"max_order"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Toppings    []string `json:"toppings"`

	src *productSource
}

// Topping 配料
type Topping struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`

	src *toppingSource
}

// ==================== 落地页 ====================

const MaxFeatures = 3

type LandingPage struct {
	Hero     Hero      `json:"hero"`
	About    About     `json:"about"`
	Features []Feature `json:"features"`
	SEO      SEO       `json:"seo"`
	Footer   Footer    `json:"footer"`
}

type Hero struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	ButtonText      string `json:"buttonText"`
	BackgroundImage string `json:"backgroundImage"`
}

type About struct {
	Enabled     bool   `json:"enabled"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

type Footer struct {
	Copyright string `json:"copyright"`
}

// ==================== 店铺 / 主题 ====================

// ThemeColorKeys 主题编辑器识别的颜色键，顺序即表单顺序
var ThemeColorKeys = []string{"primary", "background", "light", "text", "accent"}

const DefaultPickerColor = "#ffffff"
