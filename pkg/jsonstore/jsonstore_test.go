package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"bitebabe_admin/pkg/logger"
)

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()

	list := Load(filepath.Join(dir, "products.json"), ShapeList)
	assert.Equal(t, []any{}, list)

	obj := Load(filepath.Join(dir, "store.json"), ShapeObject)
	assert.Equal(t, map[string]any{}, obj)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "landing_page.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	core, logs := observer.New(zap.WarnLevel)
	logger.Replace(zap.New(core))
	defer logger.Replace(zap.NewNop())

	assert.Equal(t, map[string]any{}, Load(path, ShapeObject))
	assert.Equal(t, []any{}, Load(path, ShapeList))

	// 损坏的文件要留下日志
	assert.NotZero(t, logs.FilterMessageSnippet("landing_page.json").Len())
}

func TestLoad_WrongShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toppings.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, []any{}, Load(path, ShapeList))
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	src := `{"name":"BiteBabe","promo":{"code":"MANIS","discount":15,"big":12345678901234567},"theme":{"primary":"#FF5C9E"}}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded := LoadObject(path)
	assert.True(t, Save(path, loaded))

	reloaded := LoadObject(path)
	assert.Equal(t, loaded, reloaded)

	// 大整数不丢精度
	raw, _ := os.ReadFile(path)
	assert.Contains(t, string(raw), "12345678901234567")
}

func TestMarshal_Format(t *testing.T) {
	data, err := Marshal(map[string]any{"title": "Kue <Enak> & Manis ✨", "b": 1})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "{\n    \"b\": 1,"))
	assert.Contains(t, out, "Kue <Enak> & Manis ✨")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestWrite_CreatesDirAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data", "toppings.json")

	if err := Write(path, []map[string]any{{"id": "top_1", "name": "Keju", "price": 3000}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, entries, 1)

	var got []map[string]any
	raw, _ := os.ReadFile(path)
	assert.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Keju", got[0]["name"])
}

func TestSave_Failure(t *testing.T) {
	dir := t.TempDir()
	// 目标路径是一个已存在的目录，rename 必然失败
	path := filepath.Join(dir, "products.json")
	if err := os.MkdirAll(filepath.Join(path, "x"), 0o755); err != nil {
		t.Fatal(err)
	}

	assert.False(t, Save(path, []any{}))
}

func TestLoadInto(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	type doc struct {
		Name string `json:"name"`
	}

	var d doc
	assert.False(t, LoadInto(path, &d))

	_ = os.WriteFile(path, []byte(`{"name":"x"}`), 0o644)
	assert.True(t, LoadInto(path, &d))
	assert.Equal(t, "x", d.Name)
}

func TestLoadRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.json")

	assert.Empty(t, LoadRows(path))

	_ = os.WriteFile(path, []byte(`[{"id":"1"}, 7, {"id":"2","price":"x"}]`), 0o644)
	rows := LoadRows(path)
	assert.Len(t, rows, 3)
	assert.JSONEq(t, `{"id":"2","price":"x"}`, string(rows[2]))

	_ = os.WriteFile(path, []byte(`{"id":"1"}`), 0o644)
	assert.Empty(t, LoadRows(path))

	_ = os.WriteFile(path, []byte(`[{"id":`), 0o644)
	assert.Empty(t, LoadRows(path))
}
