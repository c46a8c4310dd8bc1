package layout

// TextAlign 是段落的水平对齐方式。
type TextAlign uint8

const (
	TextAlignInherit TextAlign = iota
	TextAlignLeft
	TextAlignCenter
	TextAlignRight
)

// WhiteSpace 决定空白是否合并、换行符是否保留以及是否自动换行。
type WhiteSpace uint8

const (
	WhiteSpaceInherit WhiteSpace = iota
	WhiteSpaceNormal             // 合并空白，自动换行
	WhiteSpaceNoWrap             // 合并空白，不自动换行
	WhiteSpacePre                // 保留空白与换行符，不自动换行
	WhiteSpacePreWrap            // 保留空白与换行符，自动换行
	WhiteSpacePreLine            // 合并空格，保留换行符，自动换行
)

// WordBreak 是自动换行时允许断开的位置。
type WordBreak uint8

const (
	WordBreakInherit WordBreak = iota
	WordBreakNormal
	WordBreakBreakWord
	WordBreakBreakAll
	WordBreakKeepAll
)

// TextOverflow 是不自动换行时超出宽度的处理方式。
type TextOverflow uint8

const (
	TextOverflowInherit TextOverflow = iota
	TextOverflowNormal
	TextOverflowClip
	TextOverflowEllipsis
	TextOverflowEllipsisCenter
)

// Slant 区分正体与斜体，零值表示继承。
type Slant uint8

const (
	SlantInherit Slant = iota
	SlantNormal
	SlantItalic
)

// TextOptions 是文本样式，零值字段从宿主继承。
// Color 的零值（全 0 的透明黑）同样表示继承。
type TextOptions struct {
	Family     string
	FontSize   float32
	Weight     int
	Slant      Slant
	LineHeight LineHeightSpec
	Align      TextAlign
	WhiteSpace WhiteSpace
	WordBreak  WordBreak
	Overflow   TextOverflow
	Color      Color
}

// DefaultTextOptions 返回所有字段都已确定的默认样式。
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Family:     "default",
		FontSize:   16,
		Weight:     400,
		Slant:      SlantNormal,
		LineHeight: LineHeightSpec{Kind: LineHeightAuto},
		Align:      TextAlignLeft,
		WhiteSpace: WhiteSpaceNormal,
		WordBreak:  WordBreakNormal,
		Overflow:   TextOverflowNormal,
		Color:      Color{A: 255},
	}
}

// Inherit 用 parent 填充未设置的字段。
func (o TextOptions) Inherit(parent TextOptions) TextOptions {
	if o.Family == "" {
		o.Family = parent.Family
	}
	if o.FontSize <= 0 {
		o.FontSize = parent.FontSize
	}
	if o.Weight == 0 {
		o.Weight = parent.Weight
	}
	if o.Slant == SlantInherit {
		o.Slant = parent.Slant
	}
	if o.LineHeight.Kind == LineHeightInherit {
		o.LineHeight = parent.LineHeight
	}
	if o.Align == TextAlignInherit {
		o.Align = parent.Align
	}
	if o.WhiteSpace == WhiteSpaceInherit {
		o.WhiteSpace = parent.WhiteSpace
	}
	if o.WordBreak == WordBreakInherit {
		o.WordBreak = parent.WordBreak
	}
	if o.Overflow == TextOverflowInherit {
		o.Overflow = parent.Overflow
	}
	if o.Color == (Color{}) {
		o.Color = parent.Color
	}
	return o
}

// Style 返回交给排版后端的字体选择。
func (o TextOptions) Style() FontStyle {
	return FontStyle{Family: o.Family, Weight: o.Weight, Italic: o.Slant == SlantItalic}
}

// autoWrap 表示该空白策略是否允许自动换行。
func (o TextOptions) autoWrap() bool {
	switch o.WhiteSpace {
	case WhiteSpaceNoWrap, WhiteSpacePre:
		return false
	default:
		return true
	}
}

// collapse 表示连续空白是否合并为一个空格。
func (o TextOptions) collapse() bool {
	switch o.WhiteSpace {
	case WhiteSpacePre, WhiteSpacePreWrap:
		return false
	default:
		return true
	}
}

// lineMetrics 根据行高策略把字体度量拆成基线以上与以下两部分。
func (o TextOptions) lineMetrics(m FontMetrics) (top, bottom float32) {
	if h, ok := o.LineHeight.Resolve(o.FontSize, DefaultDPI); ok {
		half := (h - m.Ascent - m.Descent) / 2
		return m.Ascent + half, m.Descent + half
	}
	return m.Ascent + m.Leading/2, m.Descent + m.Leading/2
}

var textAlignNames = map[string]TextAlign{
	"left": TextAlignLeft, "center": TextAlignCenter, "right": TextAlignRight,
}

var whiteSpaceNames = map[string]WhiteSpace{
	"normal": WhiteSpaceNormal, "nowrap": WhiteSpaceNoWrap, "no-wrap": WhiteSpaceNoWrap,
	"pre": WhiteSpacePre, "pre-wrap": WhiteSpacePreWrap, "pre-line": WhiteSpacePreLine,
}

var wordBreakNames = map[string]WordBreak{
	"normal": WordBreakNormal, "break-word": WordBreakBreakWord,
	"break-all": WordBreakBreakAll, "keep-all": WordBreakKeepAll,
}

var overflowNames = map[string]TextOverflow{
	"normal": TextOverflowNormal, "clip": TextOverflowClip,
	"ellipsis": TextOverflowEllipsis, "ellipsis-center": TextOverflowEllipsisCenter,
}

// ParseTextAlign 等函数解析标记与配置文件中的取值，未知值返回 ok=false。
func ParseTextAlign(s string) (TextAlign, bool) {
	v, ok := textAlignNames[s]
	return v, ok
}

func ParseWhiteSpace(s string) (WhiteSpace, bool) {
	v, ok := whiteSpaceNames[s]
	return v, ok
}

func ParseWordBreak(s string) (WordBreak, bool) {
	v, ok := wordBreakNames[s]
	return v, ok
}

func ParseTextOverflow(s string) (TextOverflow, bool) {
	v, ok := overflowNames[s]
	return v, ok
}
