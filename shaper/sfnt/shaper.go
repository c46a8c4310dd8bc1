// Package sfnt 基于 golang.org/x/image/font/sfnt 实现 layout.Typesetter。
// 字体按族名分组，同一族内按字重与斜体选择字面，缺字时沿回退链查找。
package sfnt

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/quill/debug"
	"github.com/ByLCY/quill/fonts"
	"github.com/ByLCY/quill/layout"
)

// DefaultFamily 是内置 Go 字体的族名，也是最后一级回退。
const DefaultFamily = "Go"

type face struct {
	name   string
	font   *sfnt.Font
	weight int
	italic bool
}

// Shaper 是线程安全的 sfnt 排版后端。sfnt.Buffer 不能并发使用，所有查询都在 mu 下进行。
type Shaper struct {
	baseDir string
	kerning bool

	mu        sync.Mutex
	buf       sfnt.Buffer
	families  map[string][]*face
	fallbacks map[string]string
}

var (
	_ layout.Typesetter     = (*Shaper)(nil)
	_ layout.FontRegistrar = (*Shaper)(nil)
)

// Options 配置 Shaper。
type Options struct {
	// BaseDir 用于解析字体资源中的相对路径。
	BaseDir string
	// Kerning 为 true 时在同一段内的相邻字形之间应用字偶距。
	Kerning bool
}

// New 创建 Shaper，并预先注册内置的 Go 与 Go Mono 字体族。
func New(opts Options) (*Shaper, error) {
	s := &Shaper{
		baseDir:   opts.BaseDir,
		kerning:   opts.Kerning,
		families:  map[string][]*face{},
		fallbacks: map[string]string{},
	}
	builtins := []layout.FontResource{
		{Name: "goregular", Family: DefaultFamily, Src: "builtin:goregular", Weight: 400},
		{Name: "gomedium", Family: DefaultFamily, Src: "builtin:gomedium", Weight: 500},
		{Name: "gobold", Family: DefaultFamily, Src: "builtin:gobold", Weight: 700},
		{Name: "goitalic", Family: DefaultFamily, Src: "builtin:goitalic", Weight: 400, Style: "italic"},
		{Name: "gobolditalic", Family: DefaultFamily, Src: "builtin:gobolditalic", Weight: 700, Style: "bold italic"},
		{Name: "gomono", Family: "Go Mono", Src: "builtin:gomono", Weight: 400},
	}
	for _, res := range builtins {
		if err := s.RegisterFont(res); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RegisterFont 加载字体资源并加入其所属的族。
func (s *Shaper) RegisterFont(res layout.FontResource) error {
	data, err := fonts.Load(res.Src, s.baseDir)
	if err != nil {
		return err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("解析字体 %s 失败: %w", res.Name, err)
	}
	family := res.Family
	if family == "" {
		family = res.Name
	}
	weight := res.Weight
	if weight == 0 {
		weight = weightFromStyle(res.Style)
	}
	style := strings.ToLower(res.Style)
	fc := &face{
		name:   fmt.Sprintf("%s/%d", family, weight),
		font:   f,
		weight: weight,
		italic: strings.Contains(style, "italic") || strings.Contains(style, "oblique"),
	}
	if fc.italic {
		fc.name += "i"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(family)
	faces := s.families[key]
	for i, old := range faces {
		if old.weight == fc.weight && old.italic == fc.italic {
			faces[i] = fc
			fc = nil
			break
		}
	}
	if fc != nil {
		s.families[key] = append(faces, fc)
	}
	if res.Fallback != "" {
		s.fallbacks[key] = strings.ToLower(res.Fallback)
	}
	debug.Logf("sfnt: 注册字体 %s (%s)", res.Name, family)
	return nil
}

// Families 返回已注册的族数量。
func (s *Shaper) Families() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.families)
}

// pick 在族中选出与 style 最接近的字面；斜体匹配优先于字重。
func pick(faces []*face, style layout.FontStyle) *face {
	want := style.Weight
	if want == 0 {
		want = 400
	}
	var best *face
	bestScore := math.MaxInt
	for _, f := range faces {
		score := abs(f.weight - want)
		if f.italic != style.Italic {
			score += 1000
		}
		if score < bestScore {
			best, bestScore = f, score
		}
	}
	return best
}

// chain 返回 style 对应的字面以及沿回退链得到的后备字面，默认族总在最后。
func (s *Shaper) chain(style layout.FontStyle) []*face {
	var out []*face
	seen := map[string]bool{}
	key := strings.ToLower(style.Family)
	for key != "" && !seen[key] {
		seen[key] = true
		if f := pick(s.families[key], style); f != nil {
			out = append(out, f)
		}
		key = s.fallbacks[key]
	}
	def := strings.ToLower(DefaultFamily)
	if !seen[def] {
		if f := pick(s.families[def], style); f != nil {
			out = append(out, f)
		}
	}
	return out
}

func ppemOf(size float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(size) * 64))
}

func toFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }

// Shape 为每个码点找到第一个含有该字形的字面，连续使用同一字面的码点合成一段。
func (s *Shaper) Shape(text []rune, style layout.FontStyle, size float32) []layout.GlyphRun {
	if len(text) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.chain(style)
	if len(chain) == 0 {
		return nil
	}
	ppem := ppemOf(size)

	var runs []layout.GlyphRun
	var cur *layout.GlyphRun
	var curFace *face
	var prev sfnt.GlyphIndex
	for _, r := range text {
		fc, gi := chain[0], sfnt.GlyphIndex(0)
		for _, f := range chain {
			idx, err := f.font.GlyphIndex(&s.buf, r)
			if err == nil && idx != 0 {
				fc, gi = f, idx
				break
			}
		}
		if fc != curFace {
			runs = append(runs, layout.GlyphRun{Typeface: fc.name, Offsets: []float32{0}})
			cur = &runs[len(runs)-1]
			curFace = fc
			prev = 0
		}
		adv, err := fc.font.GlyphAdvance(&s.buf, gi, ppem, font.HintingNone)
		if err != nil {
			adv = 0
		}
		x := cur.Offsets[len(cur.Offsets)-1]
		if s.kerning && len(cur.Glyphs) > 0 {
			if k, err := fc.font.Kern(&s.buf, prev, gi, ppem, font.HintingNone); err == nil {
				x += toFloat(k)
				cur.Offsets[len(cur.Offsets)-1] = x
			} else if !errors.Is(err, sfnt.ErrNotFound) {
				debug.Logf("sfnt: 读取字偶距失败: %v", err)
			}
		}
		cur.Glyphs = append(cur.Glyphs, layout.GlyphID(gi))
		cur.Offsets = append(cur.Offsets, x+toFloat(adv))
		prev = gi
	}
	return runs
}

// Metrics 返回主字面在 size 下的上升、下降与行距。
func (s *Shaper) Metrics(style layout.FontStyle, size float32) layout.FontMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.chain(style)
	if len(chain) == 0 {
		return layout.FontMetrics{Ascent: size * 0.8, Descent: size * 0.2}
	}
	m, err := chain[0].font.Metrics(&s.buf, ppemOf(size), font.HintingNone)
	if err != nil {
		debug.Logf("sfnt: 读取字体度量失败: %v", err)
		return layout.FontMetrics{Ascent: size * 0.8, Descent: size * 0.2}
	}
	ascent, descent := toFloat(m.Ascent), toFloat(m.Descent)
	return layout.FontMetrics{
		Ascent:  ascent,
		Descent: descent,
		Leading: max(toFloat(m.Height)-ascent-descent, 0),
	}
}

func weightFromStyle(style string) int {
	s := strings.ToLower(style)
	switch {
	case strings.Contains(s, "black"):
		return 900
	case strings.Contains(s, "extrabold"):
		return 800
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		return 600
	case strings.Contains(s, "bold"):
		return 700
	case strings.Contains(s, "medium"):
		return 500
	case strings.Contains(s, "light"):
		return 300
	case strings.Contains(s, "thin"):
		return 100
	}
	return 400
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
