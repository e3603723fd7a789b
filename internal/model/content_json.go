package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// DefaultMaxOrder 文件中缺省 max_order 时的取值
const DefaultMaxOrder = 10

var errNotObject = errors.New("不是 JSON 对象")

// ==================== 宽松解析 ====================

// rawObject 按键保存的原始 JSON 对象
// 单个字段类型不符时取默认值，不影响其它字段
type rawObject map[string]json.RawMessage

func parseObject(data []byte) (rawObject, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, errNotObject
	}
	var obj rawObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// text 字符串原样返回，数字取字面量，其它类型为空
func (o rawObject) text(key string) string {
	raw := bytes.TrimSpace(o[key])
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
		return ""
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

// number 接受数字或数字字符串，缺省或无法解析时返回 def
func (o rawObject) number(key string, def int) int {
	s := strings.TrimSpace(o.text(key))
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

func (o rawObject) flag(key string, def bool) bool {
	var b bool
	if json.Unmarshal(o[key], &b) != nil {
		return def
	}
	return b
}

func (o rawObject) object(key string) rawObject {
	obj, err := parseObject(o[key])
	if err != nil {
		return rawObject{}
	}
	return obj
}

func (o rawObject) list(key string) []json.RawMessage {
	var items []json.RawMessage
	if json.Unmarshal(o[key], &items) != nil {
		return nil
	}
	return items
}

// ids 字符串或数字 ID 列表，其它元素跳过
func (o rawObject) ids(key string) []string {
	out := []string{}
	for _, item := range o.list(key) {
		if id := (rawObject{"v": item}).text("v"); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// ==================== 写回 ====================

type rowField struct {
	key     string
	value   any
	changed bool
}

// mergeRow 在原始行上覆盖已修改的字段，其余键原样保留
func mergeRow(raw rawObject, fields []rowField) (json.RawMessage, error) {
	out := make(rawObject, len(raw)+len(fields))
	maps.Copy(out, raw)
	for _, f := range fields {
		if !f.changed {
			continue
		}
		data, err := marshalRaw(f.value)
		if err != nil {
			return nil, err
		}
		out[f.key] = data
	}
	return marshalRaw(out)
}

func marshalRaw(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ==================== 商品 ====================

// productSource 从文件读出的原始行及其解析结果
type productSource struct {
	raw  rawObject
	base Product
}

// UnmarshalJSON 逐字段宽松解析，兼容数字 id 和字符串价格
// 缺省的 max_order 取默认值，但写回时不补写
func (p *Product) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return err
	}
	*p = Product{
		ID:          obj.text("id"),
		Name:        obj.text("name"),
		Category:    obj.text("category"),
		Price:       obj.number("price", 0),
		Stock:       obj.number("stock", 0),
		MaxOrder:    obj.number("max_order", DefaultMaxOrder),
		Description: obj.text("description"),
		Image:       obj.text("image"),
		Toppings:    obj.ids("toppings"),
	}
	p.src = &productSource{raw: obj, base: *p}
	return nil
}

// KeepSource 沿用 prev 对应的文件原始行
func (p *Product) KeepSource(prev Product) {
	p.src = prev.src
}

// MarshalRow 写回 products.json 的一行
// 读自文件的商品保留未知键，未修改的字段保持文件中的原始写法
func (p Product) MarshalRow() (json.RawMessage, error) {
	toppings := p.Toppings
	if toppings == nil {
		toppings = []string{}
	}
	if p.src == nil {
		type alias Product
		a := alias(p)
		a.Toppings = toppings
		return marshalRaw(a)
	}

	b := p.src.base
	return mergeRow(p.src.raw, []rowField{
		{"id", p.ID, p.ID != b.ID},
		{"name", p.Name, p.Name != b.Name},
		{"category", p.Category, p.Category != b.Category},
		{"price", p.Price, p.Price != b.Price},
		{"stock", p.Stock, p.Stock != b.Stock},
		{"max_order", p.MaxOrder, p.MaxOrder != b.MaxOrder},
		{"description", p.Description, p.Description != b.Description},
		{"image", p.Image, p.Image != b.Image},
		{"toppings", toppings, !slices.Equal(p.Toppings, b.Toppings)},
	})
}

// ==================== 配料 ====================

type toppingSource struct {
	raw  rawObject
	base Topping
}

func (t *Topping) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return err
	}
	*t = Topping{
		ID:    obj.text("id"),
		Name:  obj.text("name"),
		Price: obj.number("price", 0),
	}
	t.src = &toppingSource{raw: obj, base: *t}
	return nil
}

func (t *Topping) KeepSource(prev Topping) {
	t.src = prev.src
}

// MarshalRow 写回 toppings.json 的一行
func (t Topping) MarshalRow() (json.RawMessage, error) {
	if t.src == nil {
		type alias Topping
		return marshalRaw(alias(t))
	}
	b := t.src.base
	return mergeRow(t.src.raw, []rowField{
		{"id", t.ID, t.ID != b.ID},
		{"name", t.Name, t.Name != b.Name},
		{"price", t.Price, t.Price != b.Price},
	})
}

// ==================== 落地页 ====================

// UnmarshalJSON 逐字段宽松解析，某个字段类型不符只影响该字段
func (l *LandingPage) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return err
	}
	hero, about := obj.object("hero"), obj.object("about")
	seo, footer := obj.object("seo"), obj.object("footer")

	*l = LandingPage{
		Hero: Hero{
			Title:           hero.text("title"),
			Subtitle:        hero.text("subtitle"),
			ButtonText:      hero.text("buttonText"),
			BackgroundImage: hero.text("backgroundImage"),
		},
		About: About{
			Enabled:     about.flag("enabled", false),
			Title:       about.text("title"),
			Description: about.text("description"),
			Image:       about.text("image"),
		},
		Features: []Feature{},
		SEO: SEO{
			Title:       seo.text("title"),
			Description: seo.text("description"),
			Keywords:    seo.text("keywords"),
		},
		Footer: Footer{Copyright: footer.text("copyright")},
	}
	for _, item := range obj.list("features") {
		f, err := parseObject(item)
		if err != nil {
			continue
		}
		l.Features = append(l.Features, Feature{
			Icon:        f.text("icon"),
			Title:       f.text("title"),
			Description: f.text("description"),
		})
	}
	return nil
}
