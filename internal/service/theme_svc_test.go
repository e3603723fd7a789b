package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/model"
	"bitebabe_admin/pkg/jsonstore"
)

func TestThemeService_OpenDefaults(t *testing.T) {
	svc := NewThemeService(newTestContentRepo(t))

	view := svc.Open()
	assert.Equal(t, "", view.Form.Name)
	require.Len(t, view.Colors, len(model.ThemeColorKeys))
	for _, c := range view.Colors {
		assert.Equal(t, "", c.Value)
		assert.Equal(t, "#ffffff", c.Picker)
	}
}

func TestThemeService_SavePreservesUnknownKeys(t *testing.T) {
	repo := newTestContentRepo(t)
	path := repo.DataDir() + "/" + model.StoreFile
	require.NoError(t, jsonstore.Write(path, map[string]any{
		"name":  "BiteBabe",
		"promo": map[string]any{"code": "X", "percent": 15},
		"theme": map[string]any{"primary": "#ff0000", "font": "Poppins"},
	}))

	svc := NewThemeService(repo)
	view := svc.Open()
	assert.Equal(t, "BiteBabe", view.Form.Name)
	assert.Equal(t, "#ff0000", view.Colors[0].Picker)
	assert.Equal(t, "#ffffff", view.Colors[1].Picker)

	form := view.Form
	form.Slogan = "Sweet bites"
	form.Theme["accent"] = "#00ff00"

	_, err := svc.Save(&form)
	require.NoError(t, err)

	doc := repo.LoadStore()
	assert.Equal(t, "Sweet bites", doc["slogan"])

	promo, ok := doc["promo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "X", promo["code"])
	assert.Equal(t, json.Number("15"), promo["percent"])

	theme := doc["theme"].(map[string]any)
	assert.Equal(t, "Poppins", theme["font"])
	assert.Equal(t, "#00ff00", theme["accent"])
	assert.Equal(t, "#ff0000", theme["primary"])
}

func TestThemeService_SaveWithoutOpen(t *testing.T) {
	repo := newTestContentRepo(t)
	svc := NewThemeService(repo)

	view, err := svc.Save(&dto.StoreForm{Name: "Shop", Theme: map[string]string{"primary": "#111111"}})
	require.NoError(t, err)
	assert.Equal(t, "Shop", view.Form.Name)

	theme := repo.LoadStore()["theme"].(map[string]any)
	assert.Equal(t, "#111111", theme["primary"])
	// 未提交的颜色键写为空串
	assert.Equal(t, "", theme["text"])
}
