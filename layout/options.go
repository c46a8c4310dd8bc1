package layout

// BuildOptions 配置从标记构建视图树所需的依赖。
type BuildOptions struct {
	Typesetter Typesetter
	// Window 为空时使用文档中 window 段声明的尺寸。
	Window Window
	// DPI 用于把 mm/pt 等物理单位换算为像素，<=0 时取 DefaultDPI。
	DPI   float64
	Text  TextOptions
	Debug DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	RawUnits bool // 在调试 JSON 中保留属性的原始写法
}

// GlyphID 是字体内的字形编号，具体含义由排版后端决定。
type GlyphID uint32

// GlyphRun 是共享同一字体的一段字形。
// Offsets 比 Glyphs 多一个元素：Offsets[i] 是第 i 个字形的起点，Offsets[0] 为 0，
// 最后一个元素是整段的宽度。
type GlyphRun struct {
	Typeface string    `json:"typeface"`
	Glyphs   []GlyphID `json:"glyphs"`
	Offsets  []float32 `json:"offsets"`
}

// Width 返回字形段的总宽度。
func (r GlyphRun) Width() float32 {
	if len(r.Offsets) == 0 {
		return 0
	}
	return r.Offsets[len(r.Offsets)-1] - r.Offsets[0]
}

// Slice 返回 [i, j) 范围内的字形，偏移重新以 0 为起点。
func (r GlyphRun) Slice(i, j int) GlyphRun {
	out := GlyphRun{
		Typeface: r.Typeface,
		Glyphs:   append([]GlyphID(nil), r.Glyphs[i:j]...),
		Offsets:  make([]float32, j-i+1),
	}
	base := r.Offsets[i]
	for k := i; k <= j; k++ {
		out.Offsets[k-i] = r.Offsets[k] - base
	}
	return out
}

// FontStyle 选择字体族中的具体字面。
type FontStyle struct {
	Family string
	Weight int // 100-900，0 视为 400
	Italic bool
}

// FontMetrics 是以像素为单位的字体度量，Descent 为正值。
type FontMetrics struct {
	Ascent  float32
	Descent float32
	Leading float32
}

// Typesetter 是外部字体与整形服务。
// Shape 为每个码点返回一个字形，字体回退时可以拆成多段，所有段的字形数之和等于 len(text)。
// 两个方法都应是 (text, style, size) 的纯函数。
type Typesetter interface {
	Shape(text []rune, style FontStyle, size float32) []GlyphRun
	Metrics(style FontStyle, size float32) FontMetrics
}

// FontResource 描述字体资源，src 可以是文件路径、embed:* 或 builtin:* 形式。
type FontResource struct {
	Name      string `json:"name"`
	Src       string `json:"src"`
	Style     string `json:"style"`
	Weight    int    `json:"weight,omitempty"`
	Family    string `json:"family"`
	IsBuiltin bool   `json:"isBuiltin"`
	Fallback  string `json:"fallback,omitempty"`
}

// FontRegistrar 由可以按需加载字体的排版后端实现，Build 会把文档中的 font 资源交给它。
type FontRegistrar interface {
	RegisterFont(font FontResource) error
}
