package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FieldText 表单输入框的原始文本
// 前端可能传字符串也可能传数字，统一保留为文本，由服务层解析
type FieldText string

func (f *FieldText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FieldText(s)
		return nil
	}
	*f = FieldText(data)
	return nil
}

// IntOr 按整数解析，失败时返回默认值和 false
func (f FieldText) IntOr(def int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return def, false
	}
	return n, true
}

// Text 创建带数值的 FieldText
func Text(n int) FieldText {
	return FieldText(strconv.Itoa(n))
}
