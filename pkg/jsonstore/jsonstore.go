package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bitebabe_admin/pkg/logger"
)

// Shape 文档顶层形态
type Shape int

const (
	ShapeObject Shape = iota // 顶层为 {}
	ShapeList                // 顶层为 []
)

const indent = "    "

// Load 读取 JSON 文档为通用值
// 文件不存在：对象文档返回空 map，列表文档返回空切片
// 解析失败：记录日志后同样返回空默认值，不向上抛错
func Load(path string, shape Shape) any {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.S().Warnf("[JSON] 读取 %s 失败: %v", path, err)
		}
		return empty(shape)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		logger.S().Errorf("[JSON] 解析 %s 失败: %v", path, err)
		return empty(shape)
	}

	switch v.(type) {
	case map[string]any:
		if shape == ShapeObject {
			return v
		}
	case []any:
		if shape == ShapeList {
			return v
		}
	}
	logger.S().Errorf("[JSON] %s 顶层类型与预期不符", path)
	return empty(shape)
}

// LoadObject 读取对象文档，返回值保证非 nil
func LoadObject(path string) map[string]any {
	return Load(path, ShapeObject).(map[string]any)
}

// LoadRows 读取列表文档，每行保留原始 JSON 由调用方逐行解析
// 文件不存在、损坏或顶层不是列表时返回空切片
func LoadRows(path string) []json.RawMessage {
	data, ok := readFile(path)
	if !ok {
		return []json.RawMessage{}
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		logger.S().Errorf("[JSON] 解析 %s 失败: %v", path, err)
		return []json.RawMessage{}
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}
	return rows
}

// LoadInto 读取文档到强类型结构
// 返回 false 表示文件不存在或损坏，out 保持调用前的值
func LoadInto(path string, out any) bool {
	data, ok := readFile(path)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.S().Errorf("[JSON] 解析 %s 失败: %v", path, err)
		return false
	}
	return true
}

// Save 序列化并整体覆盖写入，失败时记录日志并返回 false
func Save(path string, v any) bool {
	if err := Write(path, v); err != nil {
		logger.S().Errorf("[JSON] 保存 %s 失败: %v", path, err)
		return false
	}
	return true
}

// Write 与 Save 相同但返回错误
// 先写同目录临时文件再 rename，避免写一半的文档
func Write(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Marshal 4 空格缩进，保留非 ASCII 字符，不转义 HTML
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("JSON 序列化失败: %w", err)
	}
	return buf.Bytes(), nil
}

func readFile(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.S().Warnf("[JSON] 读取 %s 失败: %v", path, err)
		}
		return nil, false
	}
	return data, true
}

func empty(shape Shape) any {
	if shape == ShapeList {
		return []any{}
	}
	return map[string]any{}
}
