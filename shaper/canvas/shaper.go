// Package canvas 使用 github.com/tdewolff/canvas 的字体族测量文本。
// 字体面按 pt 创建，1px 对应 1pt，canvas 返回的毫米值再换算回像素。
package canvas

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/quill/debug"
	"github.com/ByLCY/quill/fonts"
	"github.com/ByLCY/quill/layout"
)

// DefaultFamily 是内置回退字体族。
const DefaultFamily = "Go"

// Shaper 通过 canvas.FontFamily 实现 layout.Typesetter。
type Shaper struct {
	baseDir string

	fontMu    sync.Mutex
	families  map[string]*fontFamilyEntry
	fallbacks map[string]string
	faces     map[string]*faceEntry
}

var (
	_ layout.Typesetter     = (*Shaper)(nil)
	_ layout.FontRegistrar = (*Shaper)(nil)
)

type fontFamilyEntry struct {
	name   string
	family *canvas.FontFamily
	styles []canvas.FontStyle
	loaded map[string]bool
}

// faceEntry 缓存某个字面在固定字号下的逐字宽度。
type faceEntry struct {
	name   string
	face   *canvas.FontFace
	widths map[rune]float32
}

// Options 配置 Shaper。
type Options struct {
	BaseDir string
}

// New 创建 Shaper，内置 Go 字体族作为回退。
func New(opts Options) (*Shaper, error) {
	s := &Shaper{
		baseDir:   opts.BaseDir,
		families:  map[string]*fontFamilyEntry{},
		fallbacks: map[string]string{},
		faces:     map[string]*faceEntry{},
	}
	for _, res := range []layout.FontResource{
		{Name: "goregular", Family: DefaultFamily, Src: "builtin:goregular"},
		{Name: "gobold", Family: DefaultFamily, Src: "builtin:gobold", Style: "bold"},
		{Name: "goitalic", Family: DefaultFamily, Src: "builtin:goitalic", Style: "italic"},
		{Name: "gobolditalic", Family: DefaultFamily, Src: "builtin:gobolditalic", Style: "bold italic"},
	} {
		if err := s.RegisterFont(res); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RegisterFont 把字体资源载入对应的字体族，同一资源只载入一次。
func (s *Shaper) RegisterFont(font layout.FontResource) error {
	s.fontMu.Lock()
	defer s.fontMu.Unlock()

	entry := s.ensureFontFamily(font)
	key := fontCacheKey(font)
	if entry.loaded[key] {
		return nil
	}
	style := parseFontStyle(font.Style)
	if font.Weight > 0 {
		style = styleForWeight(font.Weight) | style&canvas.FontItalic
	}
	data, err := fonts.Load(font.Src, s.baseDir)
	if err != nil {
		return err
	}
	if err := entry.family.LoadFont(data, 0, style); err != nil {
		return fmt.Errorf("载入字体 %s 失败: %w", font.Name, err)
	}
	entry.loaded[key] = true
	entry.styles = append(entry.styles, style)
	if font.Fallback != "" {
		s.fallbacks[strings.ToLower(entry.name)] = strings.ToLower(font.Fallback)
	}
	// 新字面可能改变已缓存的匹配结果
	clear(s.faces)
	debug.Logf("canvas: 注册字体 %s (%s)", font.Name, entry.name)
	return nil
}

func (s *Shaper) ensureFontFamily(font layout.FontResource) *fontFamilyEntry {
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = DefaultFamily
	}
	key := strings.ToLower(familyName)
	if entry, ok := s.families[key]; ok {
		return entry
	}
	entry := &fontFamilyEntry{
		name:   familyName,
		family: canvas.NewFontFamily(familyName),
		loaded: map[string]bool{},
	}
	s.families[key] = entry
	return entry
}

// lookup 沿回退链找到第一个已载入字面的族。
func (s *Shaper) lookup(family string) *fontFamilyEntry {
	seen := map[string]bool{}
	key := strings.ToLower(family)
	for key != "" && !seen[key] {
		seen[key] = true
		if entry, ok := s.families[key]; ok && len(entry.styles) > 0 {
			return entry
		}
		key = s.fallbacks[key]
	}
	return s.families[strings.ToLower(DefaultFamily)]
}

// face 返回 style 在 size 下的字面，调用方持有 fontMu。
func (s *Shaper) face(style layout.FontStyle, size float32) *faceEntry {
	entry := s.lookup(style.Family)
	want := styleForWeight(style.Weight)
	if style.Italic {
		want |= canvas.FontItalic
	}
	fs := closestStyle(entry.styles, want)
	key := fmt.Sprintf("%s|%d|%g", entry.name, fs, size)
	if f, ok := s.faces[key]; ok {
		return f
	}
	f := &faceEntry{
		name:   fmt.Sprintf("%s/%d", entry.name, styleWeight(fs)),
		face:   entry.family.Face(float64(size), color.Black, fs, canvas.FontNormal),
		widths: map[rune]float32{},
	}
	if fs&canvas.FontItalic != 0 {
		f.name += "i"
	}
	s.faces[key] = f
	return f
}

// Shape 逐码点测量宽度；字形编号取码点本身，由绘制端按字体面重新映射。
func (s *Shaper) Shape(text []rune, style layout.FontStyle, size float32) []layout.GlyphRun {
	if len(text) == 0 {
		return nil
	}
	s.fontMu.Lock()
	defer s.fontMu.Unlock()

	f := s.face(style, size)
	run := layout.GlyphRun{
		Typeface: f.name,
		Glyphs:   make([]layout.GlyphID, len(text)),
		Offsets:  make([]float32, len(text)+1),
	}
	for i, r := range text {
		w, ok := f.widths[r]
		if !ok {
			w = float32(f.face.TextWidth(string(r)) * layout.MmToPt)
			f.widths[r] = w
		}
		run.Glyphs[i] = layout.GlyphID(r)
		run.Offsets[i+1] = run.Offsets[i] + w
	}
	return []layout.GlyphRun{run}
}

// Metrics 返回以像素为单位的字体度量。
func (s *Shaper) Metrics(style layout.FontStyle, size float32) layout.FontMetrics {
	s.fontMu.Lock()
	defer s.fontMu.Unlock()

	m := s.face(style, size).face.Metrics()
	ascent := float32(abs(m.Ascent) * layout.MmToPt)
	descent := float32(abs(m.Descent) * layout.MmToPt)
	leading := float32(m.LineHeight*layout.MmToPt) - ascent - descent
	return layout.FontMetrics{Ascent: ascent, Descent: descent, Leading: max(leading, 0)}
}

// styleWords 按匹配优先级排列，extrabold 必须排在 bold 之前。
var styleWords = []struct {
	word  string
	style canvas.FontStyle
}{
	{"black", canvas.FontBlack},
	{"extrabold", canvas.FontExtraBold},
	{"semibold", canvas.FontSemiBold},
	{"demibold", canvas.FontSemiBold},
	{"bold", canvas.FontBold},
	{"medium", canvas.FontMedium},
	{"extralight", canvas.FontExtraLight},
	{"light", canvas.FontLight},
	{"thin", canvas.FontThin},
}

// parseFontStyle 把 "SemiBold Italic" 之类的描述转换为 canvas 字体样式。
func parseFontStyle(desc string) canvas.FontStyle {
	s := strings.ToLower(strings.ReplaceAll(desc, " ", ""))
	out := canvas.FontRegular
	for _, w := range styleWords {
		if strings.Contains(s, w.word) {
			out = w.style
			break
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		out |= canvas.FontItalic
	}
	return out
}

func styleForWeight(weight int) canvas.FontStyle {
	switch {
	case weight <= 0:
		return canvas.FontRegular
	case weight <= 300:
		return canvas.FontLight
	case weight < 500:
		return canvas.FontRegular
	case weight < 600:
		return canvas.FontMedium
	case weight < 700:
		return canvas.FontSemiBold
	case weight < 800:
		return canvas.FontBold
	case weight < 900:
		return canvas.FontExtraBold
	default:
		return canvas.FontBlack
	}
}

func styleWeight(style canvas.FontStyle) int {
	switch style &^ canvas.FontItalic {
	case canvas.FontLight:
		return 300
	case canvas.FontMedium:
		return 500
	case canvas.FontSemiBold:
		return 600
	case canvas.FontBold:
		return 700
	case canvas.FontExtraBold:
		return 800
	case canvas.FontBlack:
		return 900
	default:
		return 400
	}
}

// closestStyle 在已载入的字面中选择最接近 want 的一个，斜体匹配优先。
func closestStyle(styles []canvas.FontStyle, want canvas.FontStyle) canvas.FontStyle {
	best := canvas.FontRegular
	bestScore := -1
	for _, st := range styles {
		score := abs(float64(styleWeight(st) - styleWeight(want)))
		if st&canvas.FontItalic != want&canvas.FontItalic {
			score += 1000
		}
		if bestScore < 0 || int(score) < bestScore {
			best, bestScore = st, int(score)
		}
	}
	return best
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s|%d", font.Name, font.Src, font.Style, font.Weight)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
