package layout

// Line 是段落中的一行，纵向坐标相对宿主内容区顶部，Origin 是对齐后的行首横坐标。
type Line struct {
	StartY    float32 `json:"startY"`
	EndY      float32 `json:"endY"`
	Width     float32 `json:"width"`
	Baseline  float32 `json:"baseline"`
	Top       float32 `json:"top"`
	Bottom    float32 `json:"bottom"`
	Origin    float32 `json:"origin"`
	LineIndex int     `json:"index"`
	Visible   bool    `json:"visible"`
}

type inlineView struct {
	view View
	x    float32
}

// TextLines 累积一个段落的行、提交的字形段以及浮动在行内的视图。
// 行只追加，Finish 之后不再变化。
type TextLines struct {
	host   View
	limitX float32
	wrapX  bool
	align  TextAlign

	lines []Line
	views [][]inlineView
	blobs []TextBlob

	pre    []preTextBlob
	cursor float32

	initTop    float32
	initBottom float32
	hasInit    bool

	maxWidth float32
	finished bool
}

// NewTextLines 创建只有一个空行的段落。limitX 为 +Inf 表示不限制行宽；
// wrapX 表示宿主宽度由内容决定，对齐时以最宽的行为准。
func NewTextLines(host View, limitX float32, wrapX bool, align TextAlign) *TextLines {
	l := &TextLines{host: host, limitX: clampZero(limitX), wrapX: wrapX, align: align}
	l.lines = append(l.lines, Line{})
	l.views = append(l.views, nil)
	return l
}

// SetInitLineHeight 设置每个新行的初始度量，空行也会得到这个高度。
func (l *TextLines) SetInitLineHeight(top, bottom float32) {
	l.initTop, l.initBottom, l.hasInit = top, bottom, true
	l.SetLineHeight(top, bottom)
}

func (l *TextLines) Limit() float32    { return l.limitX }
func (l *TextLines) Cursor() float32   { return l.cursor }
func (l *TextLines) Lines() []Line     { return l.lines }
func (l *TextLines) Blobs() []TextBlob { return l.blobs }
func (l *TextLines) Len() int          { return len(l.lines) }

// Views 返回第 i 行上的内联视图。
func (l *TextLines) Views(i int) []View {
	out := make([]View, 0, len(l.views[i]))
	for _, iv := range l.views[i] {
		out = append(out, iv.view)
	}
	return out
}

func (l *TextLines) last() *Line { return &l.lines[len(l.lines)-1] }

// LineEmpty 表示当前行还没有任何字形或视图。
func (l *TextLines) LineEmpty() bool {
	return len(l.pre) == 0 && len(l.views[len(l.views)-1]) == 0
}

// endsWithSpace 表示当前行最后一个字形是可合并的空格。
func (l *TextLines) endsWithSpace() bool {
	if len(l.pre) == 0 {
		return false
	}
	p := &l.pre[len(l.pre)-1]
	n := len(p.spaces)
	return n > 0 && p.spaces[n-1] && p.end() == l.cursor
}

// SetLineHeight 把度量合并进当前行，只增不减。
func (l *TextLines) SetLineHeight(top, bottom float32) {
	line := l.last()
	if top > line.Top {
		line.Top = top
	}
	if bottom > line.Bottom {
		line.Bottom = bottom
	}
	line.Baseline = line.StartY + line.Top
	line.EndY = line.Baseline + line.Bottom
}

// stage 在当前行末尾暂存一段字形。
func (l *TextLines) stage(p preTextBlob) {
	l.stageAt(p, l.cursor)
}

// stageAt 把字形暂存在行内的指定位置，光标移到它的末尾。
func (l *TextLines) stageAt(p preTextBlob, x float32) {
	if len(p.run.Glyphs) == 0 {
		return
	}
	p.originX = x
	l.pre = append(l.pre, p)
	l.cursor = p.end()
	l.SetLineHeight(p.top, p.bottom)
}

// commit 把暂存的字形提交为 TextBlob；trim 时先去掉行尾可合并的空格。
func (l *TextLines) commit(trim bool) {
	if trim {
		for len(l.pre) > 0 {
			p := &l.pre[len(l.pre)-1]
			if !p.collapse || p.end() != l.cursor {
				break
			}
			l.cursor -= p.trimTrailingSpaces()
			if len(p.run.Glyphs) > 0 {
				break
			}
			l.pre = l.pre[:len(l.pre)-1]
		}
	}
	idx := len(l.lines) - 1
	for _, p := range l.pre {
		l.blobs = addTextBlob(l.blobs, TextBlob{
			Ascent:       p.top,
			Height:       p.top + p.bottom,
			OriginX:      p.originX,
			LineIndex:    idx,
			UnicharIndex: p.unichar,
			Run:          p.run,
		})
	}
	l.pre = l.pre[:0]
}

// FinishLine 确定当前行宽度，并把行内视图按各自的垂直对齐并入行高。
func (l *TextLines) FinishLine() {
	line := l.last()
	line.Width = l.cursor
	for _, iv := range l.views[len(l.views)-1] {
		h := iv.view.box().layoutSize.Y
		switch _, fy := iv.view.LayoutAlign().factors(); {
		case iv.view.LayoutAlign() == AlignAuto:
			l.SetLineHeight(h, 0)
		case fy == 0:
			l.SetLineHeight(0, h-line.Top)
		case fy == 1:
			l.SetLineHeight(h-line.Bottom, 0)
		default:
			if extra := h - line.Top - line.Bottom; extra > 0 {
				l.SetLineHeight(line.Top+extra/2, line.Bottom+extra/2)
			}
		}
	}
	l.maxWidth = max(l.maxWidth, line.Width)
}

// Push 结束当前行并开始新的一行，新行从上一行的 EndY 开始。
func (l *TextLines) Push(trim bool) {
	l.commit(trim)
	l.FinishLine()
	prev := l.last()
	l.lines = append(l.lines, Line{
		StartY:    prev.EndY,
		EndY:      prev.EndY,
		Baseline:  prev.EndY,
		LineIndex: len(l.lines),
	})
	l.views = append(l.views, nil)
	l.cursor = 0
	if l.hasInit {
		l.SetLineHeight(l.initTop, l.initBottom)
	}
}

// AddView 把视图浮动到当前行末尾，放不下且允许换行时先换行。
func (l *TextLines) AddView(v View, wrap bool) {
	w := v.box().layoutSize.X
	if wrap && !l.LineEmpty() && l.cursor+w > l.limitX {
		l.Push(true)
	}
	i := len(l.views) - 1
	l.views[i] = append(l.views[i], inlineView{view: v, x: l.cursor})
	l.cursor += w
}

// Finish 提交最后一行，按对齐方式确定每行的 Origin，并放置所有行内视图。
func (l *TextLines) Finish() {
	if l.finished {
		return
	}
	l.finished = true
	l.commit(true)
	l.FinishLine()

	width := l.limitX
	if l.wrapX || isInf(width) {
		width = l.maxWidth
	}
	var factor float32
	switch l.align {
	case TextAlignCenter:
		factor = 0.5
	case TextAlignRight:
		factor = 1
	}
	for i := range l.lines {
		line := &l.lines[i]
		line.Origin = clampZero((width - line.Width) * factor)
		for _, iv := range l.views[i] {
			b := iv.view.box()
			h := b.layoutSize.Y
			var y float32
			_, fy := iv.view.LayoutAlign().factors()
			switch {
			case iv.view.LayoutAlign() == AlignAuto:
				y = line.Baseline - h
			case fy == 0:
				y = line.StartY
			case fy == 1:
				y = line.EndY - h
			default:
				y = line.StartY + (line.EndY-line.StartY-h)/2
			}
			b.setLayoutOffset(Vec2{line.Origin + iv.x, y})
		}
	}
}

// MaxWidth 返回最宽一行的宽度。
func (l *TextLines) MaxWidth() float32 { return l.maxWidth }

// MaxHeight 返回最后一行的 EndY。
func (l *TextLines) MaxHeight() float32 { return l.last().EndY }

// SolveVisible 用宿主内容区的矩阵逐行计算可见性，返回可见行数。
func (l *TextLines) SolveVisible(mat Mat, clip Region) int {
	n := 0
	for i := range l.lines {
		line := &l.lines[i]
		r := Region{
			Origin: Vec2{line.Origin, line.StartY},
			End:    Vec2{line.Origin + line.Width, line.EndY},
		}
		line.Visible = overlaps(boundsOfQuad(quadOf(mat, r)), clip)
		if line.Visible {
			n++
		}
	}
	return n
}
