package service

import (
	"fmt"
	"time"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/model"
	"bitebabe_admin/internal/repository"
	"bitebabe_admin/pkg/logger"
	"bitebabe_admin/pkg/utils"
)

// 输入非整数时的回退值
const (
	defaultPrice    = 0
	defaultStock    = 0
	defaultMaxOrder = model.DefaultMaxOrder
)

// ProductService 商品编辑器
type ProductService struct {
	repo  repository.ContentRepository
	items *workingCopy[model.Product]
	now   func() time.Time
}

func NewProductService(repo repository.ContentRepository) *ProductService {
	return &ProductService{
		repo: repo,
		items: newWorkingCopy(
			func(p model.Product) string { return p.ID },
			repo.LoadProducts,
			repo.SaveProducts,
		),
		now: time.Now,
	}
}

// ==================== 列表 ====================

// Reload 放弃内存修改，重新从文件读取
func (s *ProductService) Reload() []dto.ProductRow {
	return toProductRows(s.items.reload())
}

// List 表格投影
func (s *ProductService) List() []dto.ProductRow {
	return toProductRows(s.items.snapshot())
}

// Snapshot 当前工作副本
func (s *ProductService) Snapshot() []model.Product {
	return s.items.snapshot()
}

// SavedImages products.json 中引用的图片路径
func (s *ProductService) SavedImages() []string {
	return productImages(s.repo.LoadProducts())
}

// Images 工作副本中引用的图片路径
func (s *ProductService) Images() []string {
	return productImages(s.items.snapshot())
}

func productImages(products []model.Product) []string {
	images := make([]string, 0, len(products))
	for _, p := range products {
		if p.Image != "" {
			images = append(images, p.Image)
		}
	}
	return images
}

func (s *ProductService) Get(id string) (*model.Product, error) {
	p, err := s.items.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func toProductRows(products []model.Product) []dto.ProductRow {
	rows := make([]dto.ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, dto.ProductRow{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			Stock:    p.Stock,
		})
	}
	return rows
}

// ==================== 编辑弹窗 ====================

// NewDraft 新建商品的预填内容
func (s *ProductService) NewDraft() *dto.ProductDraft {
	id := utils.TimeID("", s.now(), s.items.has)
	return &dto.ProductDraft{
		Title: "New Product",
		IsNew: true,
		Form: dto.ProductForm{
			ID:       id,
			Price:    dto.Text(defaultPrice),
			Stock:    dto.Text(defaultStock),
			MaxOrder: dto.Text(defaultMaxOrder),
			Toppings: []string{},
		},
		Checklist: s.checklist(nil),
	}
}

// EditDraft 编辑已有商品的预填内容，勾选已关联的配料
func (s *ProductService) EditDraft(id string) (*dto.ProductDraft, error) {
	p, err := s.items.get(id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductDraft{
		Title: "Edit Product",
		Form: dto.ProductForm{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       dto.Text(p.Price),
			Stock:       dto.Text(p.Stock),
			MaxOrder:    dto.Text(p.MaxOrder),
			Description: p.Description,
			Image:       p.Image,
			Toppings:    append([]string{}, p.Toppings...),
		},
		Checklist: s.checklist(p.Toppings),
	}, nil
}

// checklist 每次打开弹窗都重新读取配料文件
func (s *ProductService) checklist(checked []string) []dto.ToppingOption {
	selected := make(map[string]bool, len(checked))
	for _, id := range checked {
		selected[id] = true
	}

	toppings := s.repo.LoadToppings()
	options := make([]dto.ToppingOption, 0, len(toppings))
	for _, t := range toppings {
		options = append(options, dto.ToppingOption{
			ID:      t.ID,
			Label:   toppingLabel(t),
			Checked: selected[t.ID],
		})
	}
	return options
}

func toppingLabel(t model.Topping) string {
	name := t.Name
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf("%s (+%d)", name, t.Price)
}

// ==================== 增删改 ====================

// Add 确认新建，追加到工作副本末尾
// 返回被回退为默认值的字段名
func (s *ProductService) Add(form *dto.ProductForm) (*model.Product, []string, error) {
	if form.ID == "" {
		form.ID = utils.TimeID("", s.now(), s.items.has)
	}
	p, warnings := s.fromForm(form)
	if err := s.items.add(p); err != nil {
		return nil, nil, err
	}
	logger.S().Infof("[Product] 新增商品 %s (%s)", p.ID, p.Name)
	return &p, warnings, nil
}

// Update 确认编辑，原位替换并保留文件中的未知键；ID 以路径参数为准
func (s *ProductService) Update(id string, form *dto.ProductForm) (*model.Product, []string, error) {
	form.ID = id
	p, warnings := s.fromForm(form)
	err := s.items.update(id, func(cur *model.Product) {
		p.KeepSource(*cur)
		*cur = p
	})
	if err != nil {
		return nil, nil, err
	}
	return &p, warnings, nil
}

// Delete 删除需要显式确认
func (s *ProductService) Delete(id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	return s.items.remove(id)
}

// SetImage 把图片路径写入工作副本中的商品
func (s *ProductService) SetImage(id, image string) error {
	return s.items.update(id, func(p *model.Product) {
		p.Image = image
	})
}

// Save 整份写回 products.json
func (s *ProductService) Save() error {
	if err := s.items.persist(); err != nil {
		logger.S().Errorf("[Product] 保存失败: %v", err)
		return fmt.Errorf("保存商品失败: %w", err)
	}
	logger.S().Info("[Product] 商品已保存")
	return nil
}

// fromForm 表单转商品
// 配料按勾选列表的显示顺序排列，不在列表中的 ID 被丢弃
func (s *ProductService) fromForm(form *dto.ProductForm) (model.Product, []string) {
	var warnings []string

	price, ok := form.Price.IntOr(defaultPrice)
	if !ok {
		warnings = append(warnings, "price")
	}
	stock, ok := form.Stock.IntOr(defaultStock)
	if !ok {
		warnings = append(warnings, "stock")
	}
	maxOrder, ok := form.MaxOrder.IntOr(defaultMaxOrder)
	if !ok {
		warnings = append(warnings, "max_order")
	}

	checked := make(map[string]bool, len(form.Toppings))
	for _, id := range form.Toppings {
		checked[id] = true
	}
	toppings := []string{}
	for _, opt := range s.checklist(nil) {
		if checked[opt.ID] {
			toppings = append(toppings, opt.ID)
		}
	}

	return model.Product{
		ID:          form.ID,
		Name:        form.Name,
		Category:    form.Category,
		Price:       price,
		Stock:       stock,
		MaxOrder:    maxOrder,
		Description: form.Description,
		Image:       form.Image,
		Toppings:    toppings,
	}, warnings
}
