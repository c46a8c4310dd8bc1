package layout

// Box 是盒模型视图，也是其余视图类型共享的默认实现。
// 四边数组的顺序统一为 top、right、bottom、left。
type Box struct {
	Node

	margin  [4]float32
	padding [4]float32
	border  *border

	width       BoxSize
	height      BoxSize
	widthLimit  BoxSize
	heightLimit BoxSize

	contentSize  Vec2
	clientSize   Vec2
	layoutSize   Vec2
	layoutOffset Vec2
	limitSize    Vec2
	wrapX        bool
	wrapY        bool

	align  Align
	weight float32
	clip   bool

	matrix        Mat
	vertex        [4]Vec2
	visibleRegion bool
	lastClip      Region
}

// NewBox 创建一个尺寸由内容决定的 Box。
func NewBox() *Box {
	b := &Box{}
	b.initBox(b)
	return b
}

func (b *Box) initBox(self View) {
	b.Node.init(self)
	b.wrapX, b.wrapY = true, true
	b.limitSize = Vec2{inf, inf}
	b.matrix = Identity()
}

func (b *Box) box() *Box { return b }

func (b *Box) Kind() string { return "box" }

// ---- 属性 ----

func (b *Box) Width() BoxSize       { return b.width }
func (b *Box) Height() BoxSize      { return b.height }
func (b *Box) WidthLimit() BoxSize  { return b.widthLimit }
func (b *Box) HeightLimit() BoxSize { return b.heightLimit }
func (b *Box) Margin() [4]float32   { return b.margin }
func (b *Box) Padding() [4]float32  { return b.padding }
func (b *Box) Clip() bool           { return b.clip }

func (b *Box) LayoutAlign() Align    { return b.align }
func (b *Box) LayoutWeight() float32 { return b.weight }

// ContentSize 是去掉 padding、border、margin 之后的内容尺寸。
func (b *Box) ContentSize() Vec2 { return b.contentSize }

// ClientSize = content + padding + border。
func (b *Box) ClientSize() Vec2 { return b.clientSize }

// LayoutSize = client + margin，是父视图排版时使用的外部尺寸。
func (b *Box) LayoutSize() Vec2 { return b.layoutSize }

// LayoutOffset 是相对父视图内容区原点的偏移。
func (b *Box) LayoutOffset() Vec2 { return b.layoutOffset }

// LimitSize 是求解后的尺寸上限，+Inf 表示不限制。
func (b *Box) LimitSize() Vec2 { return b.limitSize }

// IsWrap 返回两个轴是否仍由内容决定。
func (b *Box) IsWrap() (x, y bool) { return b.wrapX, b.wrapY }

func (b *Box) Matrix() Mat         { return b.matrix }
func (b *Box) Vertex() [4]Vec2     { return b.vertex }
func (b *Box) VisibleRegion() bool { return b.visibleRegion }

func (b *Box) SetWidth(v BoxSize, isRt bool) {
	b.rt(isRt, func() {
		if b.width != v {
			b.width = v
			b.markLayout(MarkLayoutSizeWidth)
		}
	})
}

func (b *Box) SetHeight(v BoxSize, isRt bool) {
	b.rt(isRt, func() {
		if b.height != v {
			b.height = v
			b.markLayout(MarkLayoutSizeHeight)
		}
	})
}

func (b *Box) SetWidthLimit(v BoxSize, isRt bool) {
	b.rt(isRt, func() {
		if b.widthLimit != v {
			b.widthLimit = v
			b.markLayout(MarkLayoutSizeWidth)
		}
	})
}

func (b *Box) SetHeightLimit(v BoxSize, isRt bool) {
	b.rt(isRt, func() {
		if b.heightLimit != v {
			b.heightLimit = v
			b.markLayout(MarkLayoutSizeHeight)
		}
	})
}

func (b *Box) SetMargin(v [4]float32, isRt bool) {
	b.rt(isRt, func() {
		if b.margin != v {
			b.margin = v
			b.markLayout(MarkLayoutSize)
			b.markRender(MarkRecursiveTransform)
		}
	})
}

func (b *Box) SetPadding(v [4]float32, isRt bool) {
	b.rt(isRt, func() {
		for i := range v {
			v[i] = clampZero(v[i])
		}
		if b.padding != v {
			b.padding = v
			b.markLayout(MarkLayoutSize)
			// 内边距决定子视图的平移，总尺寸不变时矩阵同样过期。
			b.markRender(MarkRecursiveTransform)
		}
	})
}

func (b *Box) SetAlign(v Align, isRt bool) {
	b.rt(isRt, func() {
		if b.align != v {
			b.align = v
			if p := b.parent; p != nil {
				p.OnChildLayoutChange(b.self, ChildLayoutAlign)
			}
		}
	})
}

func (b *Box) SetWeight(v float32, isRt bool) {
	b.rt(isRt, func() {
		v = clampZero(v)
		if b.weight != v {
			b.weight = v
			if p := b.parent; p != nil {
				p.OnChildLayoutChange(b.self, ChildLayoutWeight)
			}
		}
	})
}

func (b *Box) SetClip(v bool, isRt bool) {
	b.rt(isRt, func() {
		if b.clip != v {
			b.clip = v
			b.markRender(MarkRecursiveTransform)
		}
	})
}

func (b *Box) SetVisible(v bool, isRt bool) {
	b.rt(isRt, func() {
		if b.visible == v {
			return
		}
		b.visible = v
		if v {
			b.markLayout(MarkLayout)
		}
		b.markRender(MarkRecursiveTransform)
		if p := b.parent; p != nil {
			p.OnChildLayoutChange(b.self, ChildLayoutVisible)
		}
	})
}

// ---- 尺寸求解 ----

func (b *Box) borderWidths() [4]float32 {
	if b.border == nil {
		return [4]float32{}
	}
	return b.border.widths
}

func (b *Box) edgeX() float32 {
	bw := b.borderWidths()
	return b.margin[1] + b.margin[3] + b.padding[1] + b.padding[3] + bw[1] + bw[3]
}

func (b *Box) edgeY() float32 {
	bw := b.borderWidths()
	return b.margin[0] + b.margin[2] + b.padding[0] + b.padding[2] + bw[0] + bw[2]
}

// contentInset 是内容区相对 client 区原点的偏移。
func (b *Box) contentInset() Vec2 {
	bw := b.borderWidths()
	return Vec2{b.padding[3] + bw[3], b.padding[0] + bw[0]}
}

func (b *Box) SolveContentWidth(parent *Size) float32 {
	return solveAxis(b.width, parent.Content.X, &parent.WrapX, b.edgeX())
}

func (b *Box) SolveContentHeight(parent *Size) float32 {
	return solveAxis(b.height, parent.Content.Y, &parent.WrapY, b.edgeY())
}

func (b *Box) parentSize() Size {
	if p := b.parent; p != nil {
		pb := p.box()
		return Size{Layout: pb.layoutSize, Content: pb.contentSize, WrapX: pb.wrapX, WrapY: pb.wrapY}
	}
	return Size{WrapX: true, WrapY: true}
}

func (b *Box) setContentX(v float32, wrap bool) bool {
	changed := b.wrapX != wrap
	b.wrapX = wrap
	if !wrap && b.contentSize.X != v {
		b.contentSize.X = v
		changed = true
	}
	return changed
}

func (b *Box) setContentY(v float32, wrap bool) bool {
	changed := b.wrapY != wrap
	b.wrapY = wrap
	if !wrap && b.contentSize.Y != v {
		b.contentSize.Y = v
		changed = true
	}
	return changed
}

// updateLayoutSize 同时重新推导 client 与 layout 尺寸，返回 layout 尺寸是否变化。
func (b *Box) updateLayoutSize() bool {
	bw := b.borderWidths()
	b.clientSize = Vec2{
		X: b.contentSize.X + b.padding[1] + b.padding[3] + bw[1] + bw[3],
		Y: b.contentSize.Y + b.padding[0] + b.padding[2] + bw[0] + bw[2],
	}
	size := Vec2{
		X: b.clientSize.X + b.margin[1] + b.margin[3],
		Y: b.clientSize.Y + b.margin[0] + b.margin[2],
	}
	if size == b.layoutSize {
		return false
	}
	b.layoutSize = size
	b.markRender(MarkRecursiveTransform)
	return true
}

func (b *Box) setLayoutOffset(v Vec2) {
	if b.layoutOffset != v {
		b.layoutOffset = v
		b.markRender(MarkRecursiveTransform)
	}
}

func (b *Box) notifyParentSize() {
	if p := b.parent; p != nil {
		p.OnChildLayoutChange(b.self, ChildLayoutSize)
	}
}

// solveSize 求解被标记的轴。内容尺寸变化时标记自身排版并通知子视图。
func (b *Box) solveSize(mark Mark) {
	ps := b.parentSize()
	changed, typesetting := false, false

	if mark&MarkLayoutSizeWidth != 0 {
		s := ps
		w := b.self.SolveContentWidth(&s)
		limit := solveLimit(b.widthLimit, ps.Content.X, ps.WrapX, b.edgeX())
		if !s.WrapX && w > limit {
			w = limit
		}
		if b.limitSize.X != limit {
			b.limitSize.X = limit
			typesetting = typesetting || s.WrapX
		}
		changed = b.setContentX(w, s.WrapX) || changed
	}
	if mark&MarkLayoutSizeHeight != 0 {
		s := ps
		h := b.self.SolveContentHeight(&s)
		limit := solveLimit(b.heightLimit, ps.Content.Y, ps.WrapY, b.edgeY())
		if !s.WrapY && h > limit {
			h = limit
		}
		if b.limitSize.Y != limit {
			b.limitSize.Y = limit
			typesetting = typesetting || s.WrapY
		}
		changed = b.setContentY(h, s.WrapY) || changed
	}

	if changed {
		for c := b.first; c != nil; c = c.node().next {
			c.OnParentLayoutContentSizeChange(b.self, mark&MarkLayoutSize)
		}
	}
	if changed || typesetting {
		b.markLayout(MarkLayoutTypesetting)
	}
	if b.updateLayoutSize() {
		b.notifyParentSize()
	}
}

// lockLayoutSize 由锁定子视图尺寸的父视图在排版时调用：
// 主轴的布局尺寸由父视图分配，交叉轴仍按自身约束求解。
func (b *Box) lockLayoutSize(horizontal bool, layout float32, ps Size) {
	changed := false
	if horizontal {
		changed = b.setContentX(clampZero(layout-b.edgeX()), false)
		s := ps
		h := b.self.SolveContentHeight(&s)
		limit := solveLimit(b.heightLimit, ps.Content.Y, ps.WrapY, b.edgeY())
		if !s.WrapY && h > limit {
			h = limit
		}
		b.limitSize.Y = limit
		changed = b.setContentY(h, s.WrapY) || changed
	} else {
		changed = b.setContentY(clampZero(layout-b.edgeY()), false)
		s := ps
		w := b.self.SolveContentWidth(&s)
		limit := solveLimit(b.widthLimit, ps.Content.X, ps.WrapX, b.edgeX())
		if !s.WrapX && w > limit {
			w = limit
		}
		b.limitSize.X = limit
		changed = b.setContentX(w, s.WrapX) || changed
	}
	if changed {
		b.markLayout(MarkLayoutTypesetting)
		for c := b.first; c != nil; c = c.node().next {
			c.OnParentLayoutContentSizeChange(b.self, MarkLayoutSize)
		}
	}
	b.updateLayoutSize()
}

// setWrapContent 用子视图或内容推导出的尺寸回填仍为 wrap 的轴，结果不超过上限。
func (b *Box) setWrapContent(size Vec2) {
	changed := false
	if b.wrapX {
		w := min(clampZero(size.X), b.limitSize.X)
		if w != b.contentSize.X {
			b.contentSize.X = w
			changed = true
		}
	}
	if b.wrapY {
		h := min(clampZero(size.Y), b.limitSize.Y)
		if h != b.contentSize.Y {
			b.contentSize.Y = h
			changed = true
		}
	}
	if changed && b.updateLayoutSize() {
		b.notifyParentSize()
	}
}

// childrenExtent 返回可见子视图布局尺寸的最大值。
func (b *Box) childrenExtent() Vec2 {
	var size Vec2
	for c := b.first; c != nil; c = c.node().next {
		if !c.Visible() {
			continue
		}
		s := c.box().layoutSize
		size.X = max(size.X, s.X)
		size.Y = max(size.Y, s.Y)
	}
	return size
}

// alignChildren 按九宫格对齐放置每个可见子视图。
func (b *Box) alignChildren() {
	inner := b.contentSize
	for c := b.first; c != nil; c = c.node().next {
		if !c.Visible() {
			continue
		}
		cb := c.box()
		fx, fy := c.LayoutAlign().factors()
		cb.setLayoutOffset(Vec2{
			X: (inner.X - cb.layoutSize.X) * fx,
			Y: (inner.Y - cb.layoutSize.Y) * fy,
		})
	}
}

func (b *Box) LayoutForward(mark Mark) bool {
	if mark&MarkLayoutSize != 0 {
		b.unmarkLayout(MarkLayoutSize)
		if p := b.parent; p != nil && p.IsLockChildLayoutSize(b.self) {
			// 尺寸由父视图在排版时分配
			p.OnChildLayoutChange(b.self, ChildLayoutSize)
		} else {
			b.solveSize(mark)
		}
	}
	return b.mark&MarkLayoutTypesetting == 0
}

// IsReadyLayoutTypesetting 在父视图锁定了子视图尺寸且自身还待排版时返回 false。
func (b *Box) IsReadyLayoutTypesetting() bool {
	p := b.parent
	if p == nil || !p.IsLockChildLayoutSize(b.self) {
		return true
	}
	return p.node().mark&MarkLayoutTypesetting == 0
}

func (b *Box) LayoutReverse(mark Mark) bool {
	if mark&MarkLayoutTypesetting == 0 {
		return true
	}
	if !b.IsReadyLayoutTypesetting() {
		return false
	}
	b.unmarkLayout(MarkLayoutTypesetting)
	if b.wrapX || b.wrapY {
		b.setWrapContent(b.childrenExtent())
	}
	b.alignChildren()
	return true
}

// LayoutText 默认作为内联视图浮动在宿主文本的当前行上。
func (b *Box) LayoutText(lines *TextLines, host *Text) {
	lines.AddView(b.self, host.autoWrap())
}

func (b *Box) IsLockChildLayoutSize(child View) bool { return false }

func (b *Box) OnChildLayoutChange(child View, mark Mark) {
	if mark&(ChildLayoutSize|ChildLayoutVisible|ChildLayoutAlign|ChildLayoutWeight|ChildLayoutText) != 0 {
		b.markLayout(MarkLayoutTypesetting)
	}
}

func (b *Box) OnParentLayoutContentSizeChange(parent View, mark Mark) {
	var m Mark
	if b.width.dependsOnParent() || b.widthLimit.dependsOnParent() {
		m |= MarkLayoutSizeWidth
	}
	if b.height.dependsOnParent() || b.heightLimit.dependsOnParent() {
		m |= MarkLayoutSizeHeight
	}
	if m != 0 {
		b.markLayout(m)
	}
}

// ---- 可见性 ----

func (b *Box) solveMatrix(parent Mat) Mat {
	o := b.layoutOffset
	if p := b.parent; p != nil {
		o = o.Add(p.box().contentInset())
	}
	return parent.Mul(Translate(o.X+b.margin[3], o.Y+b.margin[0]))
}

func (b *Box) SolveVisibleRegion(mat Mat, clip Region) bool {
	b.vertex = quadOf(mat, Region{End: b.clientSize})
	b.visibleRegion = overlaps(boundsOfQuad(b.vertex), clip)
	return b.visibleRegion
}

// bounds 返回最近一次求解得到的屏幕空间包围盒。
func (b *Box) bounds() Region { return boundsOfQuad(b.vertex) }

// OverlapTest 判断屏幕空间中的点是否落在视图的四边形内，用于命中测试。
func (b *Box) OverlapTest(point Vec2) bool {
	return quadContains(b.vertex, point)
}
