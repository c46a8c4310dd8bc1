package layout

// Image 是带固有尺寸的 Box：仍为 wrap 的轴取图像源尺寸，只有一个轴确定时保持宽高比。
type Image struct {
	Box
	source Vec2
	src    string
}

func NewImage() *Image {
	m := &Image{}
	m.initBox(m)
	return m
}

func (m *Image) Kind() string { return "image" }

func (m *Image) Src() string      { return m.src }
func (m *Image) SourceSize() Vec2 { return m.source }

// SetSource 设置图像地址与像素尺寸，图像解码不在布局范围内。
func (m *Image) SetSource(src string, width, height float32, isRt bool) {
	m.rt(isRt, func() {
		size := Vec2{clampZero(width), clampZero(height)}
		m.src = src
		if m.source == size {
			return
		}
		m.source = size
		m.markLayout(MarkLayoutTypesetting)
	})
}

func (m *Image) intrinsic() Vec2 {
	s := m.source
	switch {
	case m.wrapX && m.wrapY:
		return s
	case m.wrapX:
		if s.Y > 0 {
			return Vec2{m.contentSize.Y * s.X / s.Y, m.contentSize.Y}
		}
	case m.wrapY:
		if s.X > 0 {
			return Vec2{m.contentSize.X, m.contentSize.X * s.Y / s.X}
		}
	}
	return m.contentSize
}

func (m *Image) LayoutReverse(mark Mark) bool {
	if mark&MarkLayoutTypesetting == 0 {
		return true
	}
	if !m.IsReadyLayoutTypesetting() {
		return false
	}
	m.unmarkLayout(MarkLayoutTypesetting)
	if m.wrapX || m.wrapY {
		m.setWrapContent(m.intrinsic())
	}
	m.alignChildren()
	return true
}
