// Package cell 把文本排在等宽字符网格上：每个码点占 runewidth 给出的列数，
// 一列的宽度与行高固定，与字号无关，适合终端或字符界面预览。
package cell

import (
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/quill/layout"
)

// Shaper 以列为单位测量文本。
type Shaper struct {
	// Column 是一列的像素宽度。
	Column float32
	// Row 是一行的像素高度，基线位于 Ascent 处。
	Row    float32
	Ascent float32
	cond   *runewidth.Condition
}

var _ layout.Typesetter = (*Shaper)(nil)

// New 返回一列宽 column、一行高 row 的 Shaper；eastAsian 为 true 时歧义宽度字符按两列计算。
func New(column, row float32, eastAsian bool) *Shaper {
	if column <= 0 {
		column = 1
	}
	if row <= 0 {
		row = 1
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsian
	return &Shaper{Column: column, Row: row, Ascent: row - row/4, cond: cond}
}

// Columns 返回 s 占用的列数。
func (s *Shaper) Columns(text string) int {
	return s.cond.StringWidth(text)
}

func (s *Shaper) Shape(text []rune, style layout.FontStyle, size float32) []layout.GlyphRun {
	if len(text) == 0 {
		return nil
	}
	run := layout.GlyphRun{
		Typeface: "cell",
		Glyphs:   make([]layout.GlyphID, len(text)),
		Offsets:  make([]float32, len(text)+1),
	}
	for i, r := range text {
		run.Glyphs[i] = layout.GlyphID(r)
		run.Offsets[i+1] = run.Offsets[i] + float32(s.cond.RuneWidth(r))*s.Column
	}
	return []layout.GlyphRun{run}
}

func (s *Shaper) Metrics(style layout.FontStyle, size float32) layout.FontMetrics {
	return layout.FontMetrics{Ascent: s.Ascent, Descent: s.Row - s.Ascent}
}
