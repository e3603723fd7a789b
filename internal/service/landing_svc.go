package service

import (
	"fmt"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/model"
	"bitebabe_admin/internal/repository"
	"bitebabe_admin/pkg/logger"
)

// LandingService 落地页编辑器
type LandingService struct {
	repo repository.ContentRepository
}

func NewLandingService(repo repository.ContentRepository) *LandingService {
	return &LandingService{repo: repo}
}

// Open 读取落地页并映射为表单，特性固定 3 个栏位
func (s *LandingService) Open() *dto.LandingForm {
	page := s.repo.LoadLanding()

	form := &dto.LandingForm{
		HeroTitle:       page.Hero.Title,
		HeroSubtitle:    page.Hero.Subtitle,
		HeroButtonText:  page.Hero.ButtonText,
		AboutEnabled:    page.About.Enabled,
		AboutTitle:      page.About.Title,
		AboutDesc:       page.About.Description,
		Features:        make([]dto.FeatureSlot, model.MaxFeatures),
		SEOTitle:        page.SEO.Title,
		SEODescription:  page.SEO.Description,
		FooterCopyright: page.Footer.Copyright,
	}
	for i := 0; i < model.MaxFeatures && i < len(page.Features); i++ {
		f := page.Features[i]
		form.Features[i] = dto.FeatureSlot{Icon: f.Icon, Title: f.Title, Description: f.Description}
	}
	return form
}

// Build 由表单重建整份文档
func (s *LandingService) Build(form *dto.LandingForm) *model.LandingPage {
	page := &model.LandingPage{
		Hero: model.Hero{
			Title:           form.HeroTitle,
			Subtitle:        form.HeroSubtitle,
			ButtonText:      form.HeroButtonText,
			BackgroundImage: "",
		},
		About: model.About{
			Enabled:     form.AboutEnabled,
			Title:       form.AboutTitle,
			Description: form.AboutDesc,
			Image:       "",
		},
		Features: []model.Feature{},
		SEO: model.SEO{
			Title:       form.SEOTitle,
			Description: form.SEODescription,
			Keywords:    "",
		},
		Footer: model.Footer{Copyright: form.FooterCopyright},
	}

	for i, slot := range form.Features {
		if i >= model.MaxFeatures {
			break
		}
		// 标题为空的栏位视为删除
		if slot.Title == "" {
			continue
		}
		page.Features = append(page.Features, model.Feature{
			Icon:        slot.Icon,
			Title:       slot.Title,
			Description: slot.Description,
		})
	}
	return page
}

// Save 整份覆盖 landing_page.json
func (s *LandingService) Save(form *dto.LandingForm) (*model.LandingPage, error) {
	page := s.Build(form)
	if err := s.repo.SaveLanding(page); err != nil {
		logger.S().Errorf("[Landing] 保存失败: %v", err)
		return nil, fmt.Errorf("保存落地页失败: %w", err)
	}
	logger.S().Info("[Landing] 落地页已更新")
	return page, nil
}
