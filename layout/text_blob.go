package layout

// TextBlob 是一行内连续、同字体的一段字形。OriginX 相对所在行的起点，
// Ascent 为基线以上的高度，Height 为整段高度。
type TextBlob struct {
	Ascent       float32  `json:"ascent"`
	Height       float32  `json:"height"`
	OriginX      float32  `json:"originX"`
	LineIndex    int      `json:"line"`
	UnicharIndex int      `json:"unichar"`
	Run          GlyphRun `json:"run"`
}

// preTextBlob 是当前行尚未提交的字形片段，换行时可能被去掉行尾空格。
type preTextBlob struct {
	run      GlyphRun
	spaces   []bool
	originX  float32
	unichar  int
	top      float32
	bottom   float32
	collapse bool
}

func (p *preTextBlob) end() float32 { return p.originX + p.run.Width() }

// trimTrailingSpaces 去掉末尾的空格字形，返回去掉的宽度。
func (p *preTextBlob) trimTrailingSpaces() float32 {
	n := len(p.run.Glyphs)
	k := n
	for k > 0 && p.spaces[k-1] {
		k--
	}
	if k == n {
		return 0
	}
	w := p.run.Width()
	p.run = p.run.Slice(0, k)
	p.spaces = p.spaces[:k]
	return w - p.run.Width()
}

// addTextBlob 追加一段字形；与上一段同字体、同行、同度量时合并为一段，
// 新字形的偏移按两段起点之差平移。
func addTextBlob(blobs []TextBlob, blob TextBlob) []TextBlob {
	if len(blob.Run.Glyphs) == 0 {
		return blobs
	}
	if n := len(blobs); n > 0 {
		last := &blobs[n-1]
		if last.Run.Typeface == blob.Run.Typeface && last.LineIndex == blob.LineIndex &&
			last.Ascent == blob.Ascent && last.Height == blob.Height {
			shift := blob.OriginX - last.OriginX
			offsets := last.Run.Offsets[:len(last.Run.Offsets)-1]
			for _, o := range blob.Run.Offsets {
				offsets = append(offsets, o+shift)
			}
			last.Run.Offsets = offsets
			last.Run.Glyphs = append(last.Run.Glyphs, blob.Run.Glyphs...)
			return blobs
		}
	}
	return append(blobs, blob)
}
