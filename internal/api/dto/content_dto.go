package dto

// ==================== 落地页 ====================

// FeatureSlot 特性栏位，标题为空的栏位保存时丢弃
type FeatureSlot struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LandingForm 落地页表单
// backgroundImage / about.image / seo.keywords 不在表单中，保存时写空串
type LandingForm struct {
	HeroTitle       string        `json:"hero_title"`
	HeroSubtitle    string        `json:"hero_subtitle"`
	HeroButtonText  string        `json:"hero_button_text"`
	AboutEnabled    bool          `json:"about_enabled"`
	AboutTitle      string        `json:"about_title"`
	AboutDesc       string        `json:"about_description"`
	Features        []FeatureSlot `json:"features"`
	SEOTitle        string        `json:"seo_title"`
	SEODescription  string        `json:"seo_description"`
	FooterCopyright string        `json:"footer_copyright"`
}

// ==================== 店铺主题 ====================

// ColorField 颜色输入，Picker 为取色器初始值 (为空时白色)
type ColorField struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Picker string `json:"picker"`
}

// StoreForm 店铺设置表单
type StoreForm struct {
	Name     string            `json:"name"`
	Slogan   string            `json:"slogan"`
	WhatsApp string            `json:"whatsapp"`
	Theme    map[string]string `json:"theme"`
}

// StoreView 店铺设置页面数据
type StoreView struct {
	Form   StoreForm    `json:"form"`
	Colors []ColorField `json:"colors"`
}
