package repository

import (
	"os"
	"path/filepath"
	"testing"

	"bitebabe_admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepo_MissingFiles(t *testing.T) {
	repo := NewContentRepository(t.TempDir())

	assert.Equal(t, []model.Product{}, repo.LoadProducts())
	assert.Equal(t, []model.Topping{}, repo.LoadToppings())
	assert.Equal(t, map[string]any{}, repo.LoadStore())

	page := repo.LoadLanding()
	assert.Equal(t, "", page.Hero.Title)
	assert.False(t, page.About.Enabled)
	assert.Equal(t, []model.Feature{}, page.Features)
}

func TestContentRepo_MalformedProducts(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, model.ProductsFile), []byte(`[{"id":"1","name":`), 0o644)

	repo := NewContentRepository(dir)
	assert.Equal(t, []model.Product{}, repo.LoadProducts())
}

func TestContentRepo_ProductsRoundTrip(t *testing.T) {
	repo := NewContentRepository(t.TempDir())

	products := []model.Product{
		{ID: "1739000000", Name: "Choco Cookie", Category: "Cookies", Price: 15000, Stock: 5, MaxOrder: 10, Image: "assets/products/cookie.png", Toppings: []string{"top_1"}},
		{ID: "1739000001", Name: "Brownies", Price: 20000, MaxOrder: 4},
	}
	assert.NoError(t, repo.SaveProducts(products))

	loaded := repo.LoadProducts()
	assert.Len(t, loaded, 2)
	assert.Equal(t, "Choco Cookie", loaded[0].Name)
	assert.Equal(t, 15000, loaded[0].Price)
	assert.Equal(t, 5, loaded[0].Stock)
	assert.Equal(t, "assets/products/cookie.png", loaded[0].Image)
	assert.Equal(t, []string{"top_1"}, loaded[0].Toppings)
	assert.Equal(t, 4, loaded[1].MaxOrder)
	assert.Equal(t, []string{}, loaded[1].Toppings)

	raw, _ := os.ReadFile(filepath.Join(repo.DataDir(), model.ProductsFile))
	assert.Contains(t, string(raw), `"toppings": []`)
}

func TestContentRepo_ProductsKeepUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	original := `[{"id":"1","name":"Cookie","price":15000,"stock":5,"toppings":["top_1"],"badge":"new"}]`
	_ = os.WriteFile(filepath.Join(dir, model.ProductsFile), []byte(original), 0o644)
	repo := NewContentRepository(dir)

	loaded := repo.LoadProducts()
	require.Len(t, loaded, 1)
	assert.Equal(t, model.DefaultMaxOrder, loaded[0].MaxOrder)

	require.NoError(t, repo.SaveProducts(loaded))

	raw, err := os.ReadFile(filepath.Join(dir, model.ProductsFile))
	require.NoError(t, err)
	assert.JSONEq(t, original, string(raw))
	assert.NotContains(t, string(raw), "max_order")
}

func TestContentRepo_ProductsBadRowKeepsOthers(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, model.ProductsFile),
		[]byte(`[{"id":"1","price":15000},{"id":"2","price":"20000"},7,{"id":"3","price":"abc"}]`), 0o644)
	repo := NewContentRepository(dir)

	loaded := repo.LoadProducts()
	require.Len(t, loaded, 3)
	assert.Equal(t, "1", loaded[0].ID)
	assert.Equal(t, 20000, loaded[1].Price)
	assert.Equal(t, 0, loaded[2].Price)

	require.NoError(t, repo.SaveProducts(loaded))
	raw, _ := os.ReadFile(filepath.Join(dir, model.ProductsFile))
	assert.JSONEq(t, `[{"id":"1","price":15000},{"id":"2","price":"20000"},{"id":"3","price":"abc"}]`, string(raw))
}

func TestContentRepo_ToppingsKeepUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	original := `[{"id":"top_1","name":"Keju","price":2000,"vegan":false}]`
	_ = os.WriteFile(filepath.Join(dir, model.ToppingsFile), []byte(original), 0o644)
	repo := NewContentRepository(dir)

	require.NoError(t, repo.SaveToppings(repo.LoadToppings()))

	raw, _ := os.ReadFile(filepath.Join(dir, model.ToppingsFile))
	assert.JSONEq(t, original, string(raw))
}

func TestContentRepo_LandingFieldMismatch(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, model.LandingPageFile),
		[]byte(`{"hero":{"title":"Kue","subtitle":false},"about":{"enabled":true},"features":[{"title":1}]}`), 0o644)
	repo := NewContentRepository(dir)

	page := repo.LoadLanding()
	assert.Equal(t, "Kue", page.Hero.Title)
	assert.Equal(t, "", page.Hero.Subtitle)
	assert.True(t, page.About.Enabled)
	require.Len(t, page.Features, 1)
	assert.Equal(t, "1", page.Features[0].Title)
}

func TestContentRepo_LandingRoundTrip(t *testing.T) {
	repo := NewContentRepository(t.TempDir())

	page := model.LandingPage{
		Hero:     model.Hero{Title: "Kue Enak", ButtonText: "Pesan"},
		About:    model.About{Enabled: true, Title: "Tentang"},
		Features: []model.Feature{{Icon: "🍪", Title: "Fresh"}},
		Footer:   model.Footer{Copyright: "© 2026"},
	}
	assert.NoError(t, repo.SaveLanding(&page))
	assert.Equal(t, page, repo.LoadLanding())
}

func TestContentRepo_StoreKeepsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, model.StoreFile), []byte(`{"name":"A","promo":{"active":true,"pct":10}}`), 0o644)
	repo := NewContentRepository(dir)

	doc := repo.LoadStore()
	doc["name"] = "B"
	assert.NoError(t, repo.SaveStore(doc))

	again := repo.LoadStore()
	assert.Equal(t, "B", again["name"])
	assert.Equal(t, doc["promo"], again["promo"])
}
