package repository

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"bitebabe_admin/internal/model"
	"bitebabe_admin/pkg/jsonstore"
	"bitebabe_admin/pkg/logger"
)

// ==================== 接口定义 ====================

// ContentRepository 站点内容文档仓储
// 每次 Load 读取整份文档，每次 Save 整份覆盖
type ContentRepository interface {
	LoadLanding() model.LandingPage
	SaveLanding(page *model.LandingPage) error

	LoadProducts() []model.Product
	SaveProducts(products []model.Product) error

	LoadToppings() []model.Topping
	SaveToppings(toppings []model.Topping) error

	// 店铺设置以 map 形式读写，保留未知键
	LoadStore() map[string]any
	SaveStore(doc map[string]any) error

	DataDir() string
}

// ==================== 仓储实现 ====================

type contentRepo struct {
	dataDir string
}

// NewContentRepository 创建内容仓储
func NewContentRepository(dataDir string) ContentRepository {
	return &contentRepo{dataDir: dataDir}
}

func (r *contentRepo) DataDir() string {
	return r.dataDir
}

func (r *contentRepo) path(name string) string {
	return filepath.Join(r.dataDir, name)
}

func (r *contentRepo) LoadLanding() model.LandingPage {
	var page model.LandingPage
	if !jsonstore.LoadInto(r.path(model.LandingPageFile), &page) {
		page = model.LandingPage{}
	}
	if page.Features == nil {
		page.Features = []model.Feature{}
	}
	return page
}

func (r *contentRepo) SaveLanding(page *model.LandingPage) error {
	if page.Features == nil {
		page.Features = []model.Feature{}
	}
	return jsonstore.Write(r.path(model.LandingPageFile), page)
}

func (r *contentRepo) LoadProducts() []model.Product {
	return loadRows[model.Product](r.path(model.ProductsFile))
}

func (r *contentRepo) SaveProducts(products []model.Product) error {
	rows := make([]json.RawMessage, 0, len(products))
	for _, p := range products {
		row, err := p.MarshalRow()
		if err != nil {
			return fmt.Errorf("序列化商品 %s 失败: %w", p.ID, err)
		}
		rows = append(rows, row)
	}
	return jsonstore.Write(r.path(model.ProductsFile), rows)
}

func (r *contentRepo) LoadToppings() []model.Topping {
	return loadRows[model.Topping](r.path(model.ToppingsFile))
}

func (r *contentRepo) SaveToppings(toppings []model.Topping) error {
	rows := make([]json.RawMessage, 0, len(toppings))
	for _, t := range toppings {
		row, err := t.MarshalRow()
		if err != nil {
			return fmt.Errorf("序列化配料 %s 失败: %w", t.ID, err)
		}
		rows = append(rows, row)
	}
	return jsonstore.Write(r.path(model.ToppingsFile), rows)
}

// loadRows 逐行解析列表文档，无法解析的行记录日志后跳过
func loadRows[T any](path string) []T {
	rows := jsonstore.LoadRows(path)
	items := make([]T, 0, len(rows))
	for i, row := range rows {
		var item T
		if err := json.Unmarshal(row, &item); err != nil {
			logger.S().Warnf("[Content] %s 第 %d 行无法解析，已跳过: %v", filepath.Base(path), i+1, err)
			continue
		}
		items = append(items, item)
	}
	return items
}

func (r *contentRepo) LoadStore() map[string]any {
	return jsonstore.LoadObject(r.path(model.StoreFile))
}

func (r *contentRepo) SaveStore(doc map[string]any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	return jsonstore.Write(r.path(model.StoreFile), doc)
}
