package layout

// monoTypesetter 给每个码点 10px 的前进宽度，度量固定为 8/2，便于精确断言。
type monoTypesetter struct{}

const monoAdvance = 10

func (monoTypesetter) Shape(text []rune, style FontStyle, size float32) []GlyphRun {
	run := GlyphRun{
		Typeface: "mono",
		Glyphs:   make([]GlyphID, len(text)),
		Offsets:  make([]float32, len(text)+1),
	}
	for i, r := range text {
		run.Glyphs[i] = GlyphID(r)
		run.Offsets[i+1] = float32(i+1) * monoAdvance
	}
	return []GlyphRun{run}
}

func (monoTypesetter) Metrics(style FontStyle, size float32) FontMetrics {
	return FontMetrics{Ascent: 8, Descent: 2}
}

func newTestPreRender(w, h float32) *PreRender {
	return NewPreRender(StaticWindow{Width: w, Height: h}, monoTypesetter{})
}

// newTestText 在 Root 下创建一个宽度固定的 Text 并完成求解。
func newTestText(width BoxSize, opts TextOptions, value string) (*PreRender, *Text) {
	pre := newTestPreRender(400, 400)
	txt := NewText()
	pre.Root().Append(txt, true)
	txt.SetWidth(width, true)
	txt.SetTextOptions(opts, true)
	txt.SetValue(value, true)
	pre.Solve()
	return pre, txt
}

func lineWidths(l *TextLines) []float32 {
	out := make([]float32, 0, l.Len())
	for _, line := range l.Lines() {
		out = append(out, line.Width)
	}
	return out
}
