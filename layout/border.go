package layout

// border 只在第一次写入非默认值时分配，绝大多数视图没有边框。
type border struct {
	widths [4]float32 // top right bottom left
	colors [4]Color
}

// SetBorder 设置四边边框宽度（上、右、下、左）。
func (b *Box) SetBorder(widths [4]float32, isRt bool) {
	b.rt(isRt, func() {
		for i := range widths {
			widths[i] = clampZero(widths[i])
		}
		if b.border == nil {
			if widths == ([4]float32{}) {
				return
			}
			b.border = &border{}
		}
		if b.border.widths == widths {
			return
		}
		b.border.widths = widths
		b.markLayout(MarkLayoutSize)
		b.markRender(MarkRecursiveTransform)
	})
}

// SetBorderColor 设置四边边框颜色，不影响布局。
func (b *Box) SetBorderColor(colors [4]Color, isRt bool) {
	b.rt(isRt, func() {
		if b.border == nil {
			if colors == ([4]Color{}) {
				return
			}
			b.border = &border{}
		}
		if b.border.colors != colors {
			b.border.colors = colors
			b.markRender(MarkRecursiveVisibleRegion)
		}
	})
}

// Border 返回边框宽度，未分配时全为 0。
func (b *Box) Border() [4]float32 {
	if b.border == nil {
		return [4]float32{}
	}
	return b.border.widths
}

func (b *Box) BorderColor() [4]Color {
	if b.border == nil {
		return [4]Color{}
	}
	return b.border.colors
}

// HasBorder 表示边框块是否已分配。
func (b *Box) HasBorder() bool { return b.border != nil }
