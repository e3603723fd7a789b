package service

import (
	"fmt"
	"sync"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/model"
	"bitebabe_admin/internal/repository"
	"bitebabe_admin/pkg/logger"
)

// ThemeService 店铺与主题设置
// 与其它编辑器不同，保存是合并到打开时读取的文档中，保留未知键
type ThemeService struct {
	repo repository.ContentRepository

	mu  sync.Mutex
	doc map[string]any
}

func NewThemeService(repo repository.ContentRepository) *ThemeService {
	return &ThemeService{repo: repo}
}

// Open 读取完整文档作为工作副本
func (s *ThemeService) Open() *dto.StoreView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = s.repo.LoadStore()
	return viewOf(s.doc)
}

// Save 写回 name/slogan/whatsapp 和五个颜色键，其它键不动
func (s *ThemeService) Save(form *dto.StoreForm) (*dto.StoreView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		s.doc = s.repo.LoadStore()
	}

	s.doc["name"] = form.Name
	s.doc["slogan"] = form.Slogan
	s.doc["whatsapp"] = form.WhatsApp

	theme, ok := s.doc["theme"].(map[string]any)
	if !ok {
		theme = map[string]any{}
		s.doc["theme"] = theme
	}
	for _, key := range model.ThemeColorKeys {
		theme[key] = form.Theme[key]
	}

	if err := s.repo.SaveStore(s.doc); err != nil {
		logger.S().Errorf("[Theme] 保存失败: %v", err)
		return nil, fmt.Errorf("保存店铺设置失败: %w", err)
	}
	logger.S().Info("[Theme] 店铺设置已保存")
	return viewOf(s.doc), nil
}

func viewOf(doc map[string]any) *dto.StoreView {
	view := &dto.StoreView{
		Form: dto.StoreForm{
			Name:     stringField(doc, "name"),
			Slogan:   stringField(doc, "slogan"),
			WhatsApp: stringField(doc, "whatsapp"),
			Theme:    make(map[string]string, len(model.ThemeColorKeys)),
		},
		Colors: make([]dto.ColorField, 0, len(model.ThemeColorKeys)),
	}

	theme, _ := doc["theme"].(map[string]any)
	for _, key := range model.ThemeColorKeys {
		val := stringField(theme, key)
		picker := val
		if picker == "" {
			picker = model.DefaultPickerColor
		}
		view.Form.Theme[key] = val
		view.Colors = append(view.Colors, dto.ColorField{Key: key, Value: val, Picker: picker})
	}
	return view
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
