package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldText_Unmarshal(t *testing.T) {
	var form ProductForm
	err := json.Unmarshal([]byte(`{"price":15000,"stock":"7","max_order":null}`), &form)
	assert.NoError(t, err)

	assert.Equal(t, FieldText("15000"), form.Price)
	assert.Equal(t, FieldText("7"), form.Stock)
	assert.Equal(t, FieldText(""), form.MaxOrder)
}

func TestFieldText_IntOr(t *testing.T) {
	n, ok := FieldText(" 42 ").IntOr(0)
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	n, ok = FieldText("abc").IntOr(10)
	assert.False(t, ok)
	assert.Equal(t, 10, n)

	n, ok = FieldText("12.5").IntOr(0)
	assert.False(t, ok)
	assert.Equal(t, 0, n)

	assert.Equal(t, FieldText("10"), Text(10))
}
