package layout

// Flex 沿主轴依次排列子视图。weight > 0 的子视图在主轴尺寸确定时由 Flex 锁定尺寸，
// 按权重分配剩余空间；其余子视图使用自身尺寸，并在交叉轴上按各自的对齐方式放置。
type Flex struct {
	Box
	direction Direction
}

func NewFlex() *Flex {
	f := &Flex{}
	f.initBox(f)
	return f
}

func (f *Flex) Kind() string { return "flex" }

func (f *Flex) Direction() Direction { return f.direction }

func (f *Flex) SetDirection(d Direction, isRt bool) {
	f.rt(isRt, func() {
		if f.direction == d {
			return
		}
		f.direction = d
		f.markLayout(MarkLayoutTypesetting)
		f.markWeightedChildren()
	})
}

func (f *Flex) horizontal() bool { return f.direction == DirectionRow }

func (f *Flex) IsLockChildLayoutSize(child View) bool {
	if child.LayoutWeight() <= 0 {
		return false
	}
	if f.horizontal() {
		return !f.wrapX
	}
	return !f.wrapY
}

func (f *Flex) OnChildLayoutChange(child View, mark Mark) {
	if mark&ChildLayoutWeight != 0 {
		// 权重变化可能改变锁定关系
		child.node().markLayout(MarkLayoutSize)
	}
	f.Box.OnChildLayoutChange(child, mark)
}

func (f *Flex) markWeightedChildren() {
	for c := f.first; c != nil; c = c.node().next {
		if c.LayoutWeight() > 0 {
			c.node().markLayout(MarkLayoutSize)
		}
	}
}

func (f *Flex) LayoutForward(mark Mark) bool {
	wasX, wasY := f.wrapX, f.wrapY
	done := f.Box.LayoutForward(mark)
	if f.horizontal() && wasX != f.wrapX || !f.horizontal() && wasY != f.wrapY {
		// 主轴在 wrap 与确定之间切换，锁定关系随之改变
		f.markWeightedChildren()
	}
	return done
}

func (f *Flex) LayoutReverse(mark Mark) bool {
	if mark&MarkLayoutTypesetting == 0 {
		return true
	}
	if !f.IsReadyLayoutTypesetting() {
		return false
	}
	f.unmarkLayout(MarkLayoutTypesetting)

	horizontal := f.horizontal()
	mainOf := func(v Vec2) float32 {
		if horizontal {
			return v.X
		}
		return v.Y
	}
	crossOf := func(v Vec2) float32 {
		if horizontal {
			return v.Y
		}
		return v.X
	}

	var fixed, weights float32
	for c := f.first; c != nil; c = c.node().next {
		if !c.Visible() {
			continue
		}
		if f.IsLockChildLayoutSize(c) {
			weights += c.LayoutWeight()
		} else {
			fixed += mainOf(c.box().layoutSize)
		}
	}
	if weights > 0 {
		remain := clampZero(mainOf(f.contentSize) - fixed)
		ps := Size{Layout: f.layoutSize, Content: f.contentSize, WrapX: f.wrapX, WrapY: f.wrapY}
		for c := f.first; c != nil; c = c.node().next {
			if c.Visible() && f.IsLockChildLayoutSize(c) {
				c.box().lockLayoutSize(horizontal, remain*c.LayoutWeight()/weights, ps)
			}
		}
	}

	var main, cross float32
	for c := f.first; c != nil; c = c.node().next {
		if !c.Visible() {
			continue
		}
		s := c.box().layoutSize
		main += mainOf(s)
		cross = max(cross, crossOf(s))
	}
	if f.wrapX || f.wrapY {
		if horizontal {
			f.setWrapContent(Vec2{main, cross})
		} else {
			f.setWrapContent(Vec2{cross, main})
		}
	}

	inner := crossOf(f.contentSize)
	var pos float32
	for c := f.first; c != nil; c = c.node().next {
		if !c.Visible() {
			continue
		}
		cb := c.box()
		fx, fy := c.LayoutAlign().factors()
		if horizontal {
			cb.setLayoutOffset(Vec2{pos, (inner - cb.layoutSize.Y) * fy})
		} else {
			cb.setLayoutOffset(Vec2{(inner - cb.layoutSize.X) * fx, pos})
		}
		pos += mainOf(cb.layoutSize)
	}
	return true
}
