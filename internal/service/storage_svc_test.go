package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Mock 镜像 ====================

type mockMirror struct {
	uploaded  []string
	deleted   []string
	err       error
	deleteErr map[string]error
}

func (m *mockMirror) Upload(_ context.Context, _ []byte, filename string, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.uploaded = append(m.uploaded, filename)
	return "https://cdn.example.com/" + mirrorKey("", filename), nil
}

func (m *mockMirror) Delete(_ context.Context, filename string) error {
	if err := m.deleteErr[filename]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, filename)
	return nil
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-body")

func writeSource(t *testing.T, name string, data []byte) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(src, data, 0o644))
	return src
}

// ==================== ImportFile ====================

func TestStorageService_ImportFile(t *testing.T) {
	assets := filepath.Join(t.TempDir(), "assets", "products")
	svc := NewStorageService(assets, nil)
	src := writeSource(t, "cookie.png", pngBytes)

	image, mirrorURL, err := svc.ImportFile(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "assets/products/cookie.png", image)
	assert.Empty(t, mirrorURL)

	copied, err := os.ReadFile(filepath.Join(assets, "cookie.png"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(pngBytes, copied))
}

func TestStorageService_ImportFile_Overwrite(t *testing.T) {
	assets := t.TempDir()
	svc := NewStorageService(assets, nil)

	_, _, err := svc.ImportFile(context.Background(), writeSource(t, "a.jpg", []byte("first")))
	require.NoError(t, err)
	_, _, err = svc.ImportFile(context.Background(), writeSource(t, "a.jpg", []byte("second")))
	require.NoError(t, err)

	data, _ := os.ReadFile(filepath.Join(assets, "a.jpg"))
	assert.Equal(t, "second", string(data))
}

func TestStorageService_ImportFile_SameFile(t *testing.T) {
	assets := t.TempDir()
	src := filepath.Join(assets, "cake.webp")
	require.NoError(t, os.WriteFile(src, pngBytes, 0o644))

	image, _, err := NewStorageService(assets, nil).ImportFile(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "assets/products/cake.webp", image)

	data, _ := os.ReadFile(src)
	assert.Equal(t, pngBytes, data)
}

func TestStorageService_ImportFile_Errors(t *testing.T) {
	svc := NewStorageService(t.TempDir(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{name: "空路径", src: "  ", wantErr: ErrEmptySource},
		{name: "不支持的扩展名", src: "/tmp/readme.txt", wantErr: ErrUnsupportedImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.ImportFile(ctx, tt.src)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStorageService_ImportFile_CopyFailureFallsBack(t *testing.T) {
	svc := NewStorageService(t.TempDir(), nil)
	missing := filepath.Join(t.TempDir(), "missing.png")

	image, _, err := svc.ImportFile(context.Background(), missing)
	require.Error(t, err)
	assert.Equal(t, missing, image)
	assert.True(t, filepath.IsAbs(image))
}

func TestStorageService_Mirror(t *testing.T) {
	mirror := &mockMirror{}
	svc := NewStorageService(t.TempDir(), mirror)

	_, mirrorURL, err := svc.ImportFile(context.Background(), writeSource(t, "cookie.png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/assets/products/cookie.png", mirrorURL)
	assert.Equal(t, []string{"cookie.png"}, mirror.uploaded)

	// 镜像失败不影响本地结果
	mirror.err = errors.New("network down")
	image, mirrorURL, err := svc.ImportFile(context.Background(), writeSource(t, "cookie.png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "assets/products/cookie.png", image)
	assert.Empty(t, mirrorURL)
}

// ==================== SaveUpload / ImportURL ====================

func TestStorageService_SaveUpload(t *testing.T) {
	assets := t.TempDir()
	svc := NewStorageService(assets, nil)

	image, _, err := svc.SaveUpload(context.Background(), `C:\Users\me\donut.JPG`, bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "assets/products/donut.JPG", image)
	assert.FileExists(t, filepath.Join(assets, "donut.JPG"))

	_, _, err = svc.SaveUpload(context.Background(), "evil.exe", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestStorageService_ImportURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/img/brownie.png" {
			_, _ = w.Write(pngBytes)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assets := t.TempDir()
	svc := NewStorageService(assets, nil)

	image, _, err := svc.ImportURL(context.Background(), server.URL+"/img/brownie.png")
	require.NoError(t, err)
	assert.Equal(t, "assets/products/brownie.png", image)

	data, _ := os.ReadFile(filepath.Join(assets, "brownie.png"))
	assert.Equal(t, pngBytes, data)

	_, _, err = svc.ImportURL(context.Background(), server.URL+"/img/missing.png")
	assert.Error(t, err)

	_, _, err = svc.ImportURL(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestNewMirrorProvider(t *testing.T) {
	m, err := NewMirrorProvider(&MirrorConfig{})
	assert.NoError(t, err)
	assert.Nil(t, m)

	_, err = NewMirrorProvider(&MirrorConfig{Provider: "ftp"})
	assert.Error(t, err)
}

func TestMirrorKey(t *testing.T) {
	assert.Equal(t, "assets/products/a.png", mirrorKey("", "a.png"))
	assert.Equal(t, "site/assets/products/a.png", mirrorKey("site/", "a.png"))
	assert.Equal(t, "cookie", publicIDOf("cookie.webp"))
}

// ==================== PruneMirror ====================

func TestStorageService_PruneMirror(t *testing.T) {
	mirror := &mockMirror{deleteErr: map[string]error{"broken.png": errors.New("timeout")}}
	svc := NewStorageService(t.TempDir(), mirror)

	before := []string{
		"assets/products/cookie.png",
		"assets/products/old.png",
		"assets/products/old.png",
		"assets/products/broken.png",
		"/home/me/Pictures/fallback.png",
	}
	after := []string{"assets/products/cookie.png", "assets/products/new.png"}

	removed := svc.PruneMirror(context.Background(), before, after)
	assert.Equal(t, []string{"old.png"}, removed)
	assert.Equal(t, []string{"old.png"}, mirror.deleted)
}

func TestStorageService_PruneMirror_NoMirror(t *testing.T) {
	svc := NewStorageService(t.TempDir(), nil)
	assert.Nil(t, svc.PruneMirror(context.Background(), []string{"assets/products/a.png"}, nil))

	var nilSvc *StorageService
	assert.Nil(t, nilSvc.PruneMirror(context.Background(), []string{"assets/products/a.png"}, nil))
}
