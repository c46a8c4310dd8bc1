package layout

// Text 是承载段落的 Box：自身的文本、内联的 Label 以及其他子视图一起参与断行。
// 仍为 wrap 的轴取排版结果的尺寸；宽度为 wrap 时以宽度上限作为行宽。
type Text struct {
	Box
	value []rune
	opts  TextOptions
	lines *TextLines
	blobs []TextBlob
}

func NewText() *Text {
	t := &Text{}
	t.initBox(t)
	return t
}

func (t *Text) Kind() string { return "text" }

func (t *Text) Value() string            { return string(t.value) }
func (t *Text) TextOptions() TextOptions { return t.opts }
func (t *Text) Lines() *TextLines        { return t.lines }
func (t *Text) Blobs() []TextBlob        { return t.blobs }

func (t *Text) SetValue(s string, isRt bool) {
	t.rt(isRt, func() {
		if string(t.value) == s {
			return
		}
		t.value = []rune(s)
		t.markLayout(MarkLayoutTypesetting)
	})
}

func (t *Text) SetTextOptions(o TextOptions, isRt bool) {
	t.rt(isRt, func() {
		if t.opts != o {
			t.opts = o
			t.markLayout(MarkLayoutTypesetting)
		}
	})
}

// resolved 返回与 PreRender 默认样式合并后的样式。
func (t *Text) resolved() TextOptions {
	base := DefaultTextOptions()
	if pre := t.preRender(); pre != nil {
		base = pre.textDefaults
	}
	return t.opts.Inherit(base)
}

func (t *Text) autoWrap() bool { return t.resolved().autoWrap() }

func (t *Text) typesetter() Typesetter {
	pre := t.preRender()
	if pre == nil {
		return nil
	}
	return pre.typesetter
}

func (t *Text) LayoutReverse(mark Mark) bool {
	if mark&MarkLayoutTypesetting == 0 {
		return true
	}
	if !t.IsReadyLayoutTypesetting() {
		return false
	}
	t.unmarkLayout(MarkLayoutTypesetting)
	t.layoutTypesetting()
	return true
}

func (t *Text) layoutTypesetting() {
	opts := t.resolved()
	limit := t.contentSize.X
	if t.wrapX {
		limit = t.limitSize.X
	}
	lines := NewTextLines(t, limit, t.wrapX, opts.Align)
	if ts := t.typesetter(); ts != nil {
		b := newBlobBuilder(lines, ts, opts)
		lines.SetInitLineHeight(b.top, b.bottom)
		b.Make(t.value)
	}
	for c := t.first; c != nil; c = c.node().next {
		if c.Visible() {
			c.LayoutText(lines, t)
		}
	}
	lines.Finish()
	t.lines = lines
	t.blobs = lines.Blobs()

	var size Vec2
	if len(t.value) > 0 || t.first != nil {
		size = Vec2{lines.MaxWidth(), lines.MaxHeight()}
	}
	t.setWrapContent(size)
	// 新的行默认不可见，尺寸不变时也要重新裁剪。
	t.markRender(MarkRecursiveVisibleRegion)
}

func (t *Text) SolveVisibleRegion(mat Mat, clip Region) bool {
	visible := t.Box.SolveVisibleRegion(mat, clip)
	if t.lines == nil {
		return visible
	}
	if visible {
		in := t.contentInset()
		t.lines.SolveVisible(mat.Mul(Translate(in.X, in.Y)), clip)
	} else {
		for i := range t.lines.lines {
			t.lines.lines[i].Visible = false
		}
	}
	return visible
}

// Label 是宿主 Text 中的一段内联文本，未设置的样式从宿主继承。
// Label 没有自己的盒子，属性变化只会让宿主重新排版。
type Label struct {
	Box
	value []rune
	opts  TextOptions
}

func NewLabel() *Label {
	l := &Label{}
	l.initBox(l)
	return l
}

func (l *Label) Kind() string { return "label" }

func (l *Label) Value() string            { return string(l.value) }
func (l *Label) TextOptions() TextOptions { return l.opts }

func (l *Label) notifyHost() {
	if p := l.parent; p != nil {
		p.OnChildLayoutChange(l.self, ChildLayoutText)
	}
}

func (l *Label) SetValue(s string, isRt bool) {
	l.rt(isRt, func() {
		if string(l.value) != s {
			l.value = []rune(s)
			l.notifyHost()
		}
	})
}

func (l *Label) SetTextOptions(o TextOptions, isRt bool) {
	l.rt(isRt, func() {
		if l.opts != o {
			l.opts = o
			l.notifyHost()
		}
	})
}

func (l *Label) LayoutForward(mark Mark) bool {
	l.unmarkLayout(MarkLayout)
	return true
}

func (l *Label) LayoutReverse(mark Mark) bool {
	l.unmarkLayout(MarkLayout)
	return true
}

func (l *Label) OnChildLayoutChange(child View, mark Mark) {
	l.notifyHost()
}

func (l *Label) LayoutText(lines *TextLines, host *Text) {
	opts := l.opts.Inherit(host.resolved())
	if ts := host.typesetter(); ts != nil {
		newBlobBuilder(lines, ts, opts).Make(l.value)
	}
	for c := l.first; c != nil; c = c.node().next {
		if c.Visible() {
			c.LayoutText(lines, host)
		}
	}
}

func (l *Label) SolveVisibleRegion(mat Mat, clip Region) bool {
	l.visibleRegion = false
	return false
}
