package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/model"
)

func TestLandingService_OpenMissingFile(t *testing.T) {
	svc := NewLandingService(newTestContentRepo(t))

	form := svc.Open()
	assert.Equal(t, "", form.HeroTitle)
	assert.False(t, form.AboutEnabled)
	assert.Len(t, form.Features, model.MaxFeatures)
}

func TestLandingService_OpenShowsFirstThreeFeatures(t *testing.T) {
	repo := newTestContentRepo(t)
	require.NoError(t, repo.SaveLanding(&model.LandingPage{
		Hero: model.Hero{Title: "Fresh cookies", BackgroundImage: "bg.png"},
		Features: []model.Feature{
			{Title: "1"}, {Title: "2"}, {Title: "3"}, {Title: "4"},
		},
	}))

	form := NewLandingService(repo).Open()
	assert.Equal(t, "Fresh cookies", form.HeroTitle)
	require.Len(t, form.Features, 3)
	assert.Equal(t, "3", form.Features[2].Title)
}

func TestLandingService_Save(t *testing.T) {
	repo := newTestContentRepo(t)
	require.NoError(t, repo.SaveLanding(&model.LandingPage{
		Hero:  model.Hero{BackgroundImage: "old-bg.png"},
		About: model.About{Image: "old-about.png"},
		SEO:   model.SEO{Keywords: "cookie, cake"},
	}))
	svc := NewLandingService(repo)

	form := svc.Open()
	form.HeroTitle = "Hello"
	form.AboutEnabled = true
	form.Features = []dto.FeatureSlot{
		{Icon: "🍪", Title: "Homemade", Description: "Baked daily"},
		{Icon: "x", Title: "", Description: "dropped"},
		{Icon: "🚚", Title: "Delivery", Description: "Same day"},
	}

	_, err := svc.Save(form)
	require.NoError(t, err)

	page := repo.LoadLanding()
	assert.Equal(t, "Hello", page.Hero.Title)
	assert.True(t, page.About.Enabled)

	// 表单外的字段总是写空串
	assert.Equal(t, "", page.Hero.BackgroundImage)
	assert.Equal(t, "", page.About.Image)
	assert.Equal(t, "", page.SEO.Keywords)

	require.Len(t, page.Features, 2)
	assert.Equal(t, "Homemade", page.Features[0].Title)
	assert.Equal(t, "Delivery", page.Features[1].Title)
}

func TestLandingService_SaveAllFeaturesBlank(t *testing.T) {
	repo := newTestContentRepo(t)
	svc := NewLandingService(repo)

	_, err := svc.Save(svc.Open())
	require.NoError(t, err)
	assert.Equal(t, []model.Feature{}, repo.LoadLanding().Features)
}
