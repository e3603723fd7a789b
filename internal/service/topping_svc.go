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

const toppingIDPrefix = "top_"

// ToppingService 配料编辑器
type ToppingService struct {
	items *workingCopy[model.Topping]
	now   func() time.Time
}

func NewToppingService(repo repository.ContentRepository) *ToppingService {
	return &ToppingService{
		items: newWorkingCopy(
			func(t model.Topping) string { return t.ID },
			repo.LoadToppings,
			repo.SaveToppings,
		),
		now: time.Now,
	}
}

func (s *ToppingService) Reload() []dto.ToppingRow {
	return toToppingRows(s.items.reload())
}

func (s *ToppingService) List() []dto.ToppingRow {
	return toToppingRows(s.items.snapshot())
}

func toToppingRows(toppings []model.Topping) []dto.ToppingRow {
	rows := make([]dto.ToppingRow, 0, len(toppings))
	for _, t := range toppings {
		rows = append(rows, dto.ToppingRow{ID: t.ID, Name: t.Name, Price: t.Price})
	}
	return rows
}

func (s *ToppingService) NewDraft() *dto.ToppingDraft {
	return &dto.ToppingDraft{
		Title: "New Topping",
		IsNew: true,
		Form: dto.ToppingForm{
			ID:    utils.TimeID(toppingIDPrefix, s.now(), s.items.has),
			Price: dto.Text(defaultPrice),
		},
	}
}

func (s *ToppingService) EditDraft(id string) (*dto.ToppingDraft, error) {
	t, err := s.items.get(id)
	if err != nil {
		return nil, err
	}
	return &dto.ToppingDraft{
		Title: "Edit Topping",
		Form:  dto.ToppingForm{ID: t.ID, Name: t.Name, Price: dto.Text(t.Price)},
	}, nil
}

func (s *ToppingService) Add(form *dto.ToppingForm) (*model.Topping, []string, error) {
	if form.ID == "" {
		form.ID = utils.TimeID(toppingIDPrefix, s.now(), s.items.has)
	}
	t, warnings := toppingFromForm(form)
	if err := s.items.add(t); err != nil {
		return nil, nil, err
	}
	logger.S().Infof("[Topping] 新增配料 %s (%s)", t.ID, t.Name)
	return &t, warnings, nil
}

func (s *ToppingService) Update(id string, form *dto.ToppingForm) (*model.Topping, []string, error) {
	form.ID = id
	t, warnings := toppingFromForm(form)
	err := s.items.update(id, func(cur *model.Topping) {
		t.KeepSource(*cur)
		*cur = t
	})
	if err != nil {
		return nil, nil, err
	}
	return &t, warnings, nil
}

// Delete 不清理商品中的引用，悬挂引用通过 Dangling 查看
func (s *ToppingService) Delete(id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	return s.items.remove(id)
}

func (s *ToppingService) Save() error {
	if err := s.items.persist(); err != nil {
		logger.S().Errorf("[Topping] 保存失败: %v", err)
		return fmt.Errorf("保存配料失败: %w", err)
	}
	logger.S().Info("[Topping] 配料已保存")
	return nil
}

// Dangling 找出引用了当前配料列表中不存在 ID 的商品
func (s *ToppingService) Dangling(products []model.Product) []dto.DanglingRef {
	known := make(map[string]bool)
	for _, t := range s.items.snapshot() {
		known[t.ID] = true
	}

	refs := []dto.DanglingRef{}
	for _, p := range products {
		var missing []string
		for _, id := range p.Toppings {
			if !known[id] {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			refs = append(refs, dto.DanglingRef{ProductID: p.ID, ProductName: p.Name, ToppingIDs: missing})
		}
	}
	return refs
}

func toppingFromForm(form *dto.ToppingForm) (model.Topping, []string) {
	var warnings []string
	price, ok := form.Price.IntOr(defaultPrice)
	if !ok {
		warnings = append(warnings, "price")
	}
	return model.Topping{ID: form.ID, Name: form.Name, Price: price}, warnings
}
