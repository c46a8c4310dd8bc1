package layout

import "github.com/go-text/typesetting/segmenter"

// shapedRow 是整形后的一行：chars[i] 对应 runs[run[i]] 的第 glyph[i] 个字形，
// x[i] 是第 i 个字形在行内的起点，x 比 chars 多一个元素。
type shapedRow struct {
	chars  []unichar
	text   []rune
	runs   []GlyphRun
	run    []int
	glyph  []int
	x      []float32
	bounds []bool // 字素簇边界，按需计算
}

func (s *shapedRow) width(i, j int) float32 { return s.x[j] - s.x[i] }

// fit 返回从 start 起宽度不超过 avail 的最长前缀的结束位置。
func (s *shapedRow) fit(start, end int, avail float32) int {
	j := start
	for j < end && s.width(start, j+1) <= avail {
		j++
	}
	return j
}

// blobBuilder 把文本分行整形、断行，写入 TextLines。
type blobBuilder struct {
	lines  *TextLines
	ts     Typesetter
	opts   TextOptions
	top    float32
	bottom float32
	seg    segmenter.Segmenter
}

// newBlobBuilder 的 opts 必须已经完成继承，所有字段都有确定值。
func newBlobBuilder(lines *TextLines, ts Typesetter, opts TextOptions) *blobBuilder {
	b := &blobBuilder{lines: lines, ts: ts, opts: opts}
	b.top, b.bottom = opts.lineMetrics(ts.Metrics(opts.Style(), opts.FontSize))
	return b
}

// Make 排版一段文本，从 TextLines 的当前行接着写。
func (b *blobBuilder) Make(text []rune) {
	rows := toUnicharLines(text, b.opts.WhiteSpace)
	for i, row := range rows {
		if i > 0 {
			b.lines.Push(true)
		}
		b.lines.SetLineHeight(b.top, b.bottom)
		if len(row) == 0 {
			continue
		}
		s := b.shape(row)
		switch {
		case !b.opts.autoWrap() || isInf(b.lines.Limit()):
			b.asNoAutoWrap(s)
		case b.opts.WordBreak == WordBreakBreakAll:
			b.asBreakAll(s)
		default:
			b.asNormal(s)
		}
	}
}

func advance(r GlyphRun, g int) float32 {
	if g+1 < len(r.Offsets) {
		return r.Offsets[g+1] - r.Offsets[g]
	}
	return 0
}

// shape 调用排版后端并把结果规范化：偏移从 0 开始累加，字形总数与码点数一致。
func (b *blobBuilder) shape(row []unichar) *shapedRow {
	n := len(row)
	s := &shapedRow{
		chars: row,
		text:  make([]rune, n),
		run:   make([]int, n),
		glyph: make([]int, n),
		x:     make([]float32, n+1),
	}
	for i, c := range row {
		s.text[i] = c.r
	}
	i := 0
	var x float32
	for _, r := range b.ts.Shape(s.text, b.opts.Style(), b.opts.FontSize) {
		out := GlyphRun{Typeface: r.Typeface, Offsets: []float32{0}}
		var rx float32
		for g := 0; g < len(r.Glyphs) && i < n; g++ {
			adv := advance(r, g)
			rx += adv
			x += adv
			s.run[i], s.glyph[i] = len(s.runs), len(out.Glyphs)
			s.x[i+1] = x
			out.Glyphs = append(out.Glyphs, r.Glyphs[g])
			out.Offsets = append(out.Offsets, rx)
			i++
		}
		if len(out.Glyphs) > 0 {
			s.runs = append(s.runs, out)
		}
	}
	if i < n {
		// 后端少返回的码点按零宽的 0 号字形补齐
		pad := GlyphRun{Glyphs: make([]GlyphID, n-i), Offsets: make([]float32, n-i+1)}
		for g := 0; i < n; i, g = i+1, g+1 {
			s.run[i], s.glyph[i] = len(s.runs), g
			s.x[i+1] = x
		}
		s.runs = append(s.runs, pad)
	}
	return s
}

// graphemes 返回字素簇边界，bounds[i] 表示可以在第 i 个码点之前断开。
func (b *blobBuilder) graphemes(s *shapedRow) []bool {
	if s.bounds != nil {
		return s.bounds
	}
	s.bounds = make([]bool, len(s.text)+1)
	b.seg.Init(s.text)
	it := b.seg.GraphemeIterator()
	for it.Next() {
		s.bounds[it.Grapheme().Offset] = true
	}
	s.bounds[len(s.text)] = true
	return s.bounds
}

// emitAt 把 [i, j) 按字体段拆开暂存到当前行，第一个字形放在 x。
func (b *blobBuilder) emitAt(s *shapedRow, i, j int, x float32) {
	collapse := b.opts.collapse()
	for i < j {
		r := s.run[i]
		k := i + 1
		for k < j && s.run[k] == r {
			k++
		}
		g := s.glyph[i]
		spaces := make([]bool, k-i)
		for t := i; t < k; t++ {
			spaces[t-i] = s.chars[t].kind == kindSpace
		}
		b.lines.stageAt(preTextBlob{
			run:      s.runs[r].Slice(g, g+k-i),
			spaces:   spaces,
			unichar:  s.chars[i].index,
			top:      b.top,
			bottom:   b.bottom,
			collapse: collapse,
		}, x)
		x += s.width(i, k)
		i = k
	}
}

func (b *blobBuilder) emit(s *shapedRow, i, j int) {
	b.emitAt(s, i, j, b.lines.Cursor())
}

// skipCollapsed 在行首或紧跟空格时跳过可合并的空格。
func (b *blobBuilder) skipCollapsed(s *shapedRow, i int) int {
	if !b.opts.collapse() || !(b.lines.LineEmpty() || b.lines.endsWithSpace()) {
		return i
	}
	for i < len(s.chars) && s.chars[i].kind == kindSpace {
		i++
	}
	return i
}

// asNormal 按词换行：词宽（不含尾部空格）超出行宽且当前行非空时先换行；
// 行首放不下的词强制放在该行，BreakWord 会先尝试在词内的软断点处截断。
func (b *blobBuilder) asNormal(s *shapedRow) {
	limit := b.lines.Limit()
	for _, tk := range tokenize(s.chars, b.opts.WordBreak) {
		start := tk.start
		if start == tk.word {
			if start = b.skipCollapsed(s, start); start == tk.end {
				continue
			}
		}
		wordW := s.width(start, tk.word)
		if !b.lines.LineEmpty() && b.lines.Cursor()+wordW > limit {
			b.lines.Push(true)
		}
		if b.opts.WordBreak == WordBreakBreakWord && b.lines.LineEmpty() && wordW > limit {
			start = b.breakWord(s, start, tk.word)
		}
		b.emit(s, start, tk.end)
	}
}

// breakWord 在空行上截断超长的词，只在软断点且是字素簇边界的位置断开，
// 返回剩余部分的起点。没有可用断点时剩余部分整体溢出。
func (b *blobBuilder) breakWord(s *shapedRow, start, word int) int {
	limit := b.lines.Limit()
	bounds := b.graphemes(s)
	for s.width(start, word) > limit {
		cut := -1
		for i := start + 1; i < word && s.width(start, i) <= limit; i++ {
			if bounds[i] && softBreak(s.chars, i) {
				cut = i
			}
		}
		if cut < 0 {
			break
		}
		b.emit(s, start, cut)
		b.lines.Push(true)
		start = cut
	}
	return start
}

// asBreakAll 逐个字素簇换行：第一个超出行宽的字素簇移到下一行，空格不触发换行但在换行处被丢弃。
// 空行上的第一个字素簇总会被放下。
func (b *blobBuilder) asBreakAll(s *shapedRow) {
	limit := b.lines.Limit()
	bounds := b.graphemes(s)
	n := len(s.chars)
	for i := 0; i < n; {
		if i = b.skipCollapsed(s, i); i >= n {
			break
		}
		base := b.lines.Cursor()
		j := i
		for j < n {
			k := j + 1
			for k < n && !bounds[k] {
				k++
			}
			if s.chars[j].kind != kindSpace && base+s.width(i, k) > limit &&
				(j > i || !b.lines.LineEmpty()) {
				break
			}
			j = k
		}
		// 换行处的行尾空格全部丢弃，最后一段只丢弃超出行宽的空格，
		// 不可合并的空格同样如此，行宽停在最后一个非空格字形。
		end := j
		for end > i && s.chars[end-1].kind == kindSpace && (j < n || base+s.width(i, end) > limit) {
			end--
		}
		b.emit(s, i, end)
		if j >= n {
			break
		}
		b.lines.Push(true)
		i = j
	}
}

// ellipsis 整形三个点，索引指向被截断的码点。
func (b *blobBuilder) ellipsis(index int) *shapedRow {
	row := make([]unichar, 3)
	for i := range row {
		row[i] = unichar{r: '.', kind: kindPunctuation, index: index}
	}
	return b.shape(row)
}

// asNoAutoWrap 处理不自动换行的一行，超出宽度时按 overflow 裁剪或加省略号。
// 省略号总是放在恰好结束于行宽的位置。
func (b *blobBuilder) asNoAutoWrap(s *shapedRow) {
	n := len(s.chars)
	start := b.skipCollapsed(s, 0)
	if start >= n {
		return
	}
	base := b.lines.Cursor()
	limit := b.lines.Limit()
	if isInf(limit) || base+s.width(start, n) <= limit {
		b.emit(s, start, n)
		return
	}
	avail := limit - base
	switch b.opts.Overflow {
	case TextOverflowClip:
		b.emit(s, start, s.fit(start, n, avail))
	case TextOverflowEllipsis:
		j := s.fit(start, n, avail)
		ell := b.ellipsis(s.chars[j].index)
		limit2 := avail - ell.width(0, 3)
		if limit2 < 0 {
			b.emit(s, start, j)
			return
		}
		j = s.fit(start, n, limit2)
		b.emit(s, start, j)
		b.emitAt(ell, 0, 3, base+limit2)
	case TextOverflowEllipsisCenter:
		ell := b.ellipsis(s.chars[start].index)
		ellW := ell.width(0, 3)
		limit2 := avail - ellW
		if limit2 < 0 {
			b.emit(s, start, s.fit(start, n, avail))
			return
		}
		head := s.fit(start, n, limit2/2)
		rest := limit2 - s.width(start, head)
		tail := n
		for tail > head && s.width(tail-1, n) <= rest {
			tail--
		}
		tailX := base + avail - s.width(tail, n)
		b.emit(s, start, head)
		ell.chars[0].index = s.chars[head].index
		b.emitAt(ell, 0, 3, tailX-ellW)
		b.emitAt(s, tail, n, tailX)
	default:
		b.emit(s, start, n)
	}
}
