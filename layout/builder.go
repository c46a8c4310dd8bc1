package layout

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/quill/binding"
	"github.com/ByLCY/quill/debug"
	"github.com/ByLCY/quill/dsl"
)

// Build 根据 DSL AST 创建视图树并完成第一次求解。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	meta := collectMeta(doc)
	section := doc.Window()
	if section == nil {
		return nil, fmt.Errorf("文档中缺少 window 段落")
	}
	window, rootAttrs, err := resolveWindow(section.Spec, dpi)
	if err != nil {
		return nil, err
	}

	if reg, ok := opts.Typesetter.(FontRegistrar); ok {
		for _, name := range slices.Sorted(maps.Keys(res.Fonts)) {
			if err := reg.RegisterFont(res.Fonts[name]); err != nil {
				return nil, fmt.Errorf("注册字体 %s 失败: %w", name, err)
			}
		}
	}

	var w Window = window
	if opts.Window != nil {
		w = opts.Window
	}
	pre := NewPreRender(w, opts.Typesetter)
	pre.SetTextDefaults(opts.Text)

	result := &Result{
		Window:    window,
		Meta:      meta,
		Resources: res,
		PreRender: pre,
		views:     map[string]View{},
		ids:       map[View]string{},
		raws:      map[View]map[string]string{},
		rawUnits:  opts.Debug.RawUnits,
	}
	b := &builder{
		res:       res,
		templates: doc.Templates(),
		data:      data,
		dpi:       dpi,
		result:    result,
		using:     map[string]bool{},
	}
	if err := b.apply(pre.Root(), rootAttrs); err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	if err := b.children(section.Block, pre.Root()); err != nil {
		return nil, err
	}
	result.Solve()
	return result, nil
}

type builder struct {
	res       ResourceSet
	templates map[string]*dsl.TemplateSection
	data      any
	dpi       float64
	result    *Result
	using     map[string]bool
}

// textBinding 记录一段含占位符的文本，Result.Bind 用它重新求值。
type textBinding struct {
	tpl *binding.Template
	set func(string, bool)
}

// children 把 block 中的命令依次挂到 parent 下。
func (b *builder) children(block *dsl.Block, parent View) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		switch {
		case stmt.Command != nil:
			if err := b.command(stmt.Command, parent); err != nil {
				return err
			}
		case stmt.Text != nil:
			return fmt.Errorf("%s: %s 中不能直接写文本，请放在 text 或 label 中", stmt.Pos, parent.Kind())
		case stmt.Assignment != nil:
			debug.Logf("builder: 忽略 %s 中的赋值 %s", parent.Kind(), stmt.Assignment.Key)
		}
	}
	return nil
}

// textChildren 处理 text/label 的内容：第一个命令之前的字面量是自身的文本，
// 之后出现的字面量变成匿名 Label，保持与书写顺序一致的排版顺序。
// setValue 为 nil 时所有字面量都变成匿名 Label。
func (b *builder) textChildren(block *dsl.Block, host View, setValue func(string, bool)) error {
	if block == nil {
		return nil
	}
	var own strings.Builder
	seenCommand := setValue == nil
	for _, stmt := range block.Statements {
		switch {
		case stmt.Text != nil && !seenCommand:
			own.WriteString(string(stmt.Text.Value))
		case stmt.Text != nil:
			label := NewLabel()
			host.node().Append(label, true)
			b.bindText(string(stmt.Text.Value), label.SetValue)
		case stmt.Command != nil:
			seenCommand = true
			if err := b.command(stmt.Command, host); err != nil {
				return err
			}
		}
	}
	if own.Len() > 0 {
		b.bindText(own.String(), setValue)
	}
	return nil
}

func (b *builder) bindText(text string, set func(string, bool)) {
	tpl := binding.Compile(text)
	set(tpl.Execute(b.data), true)
	if !tpl.IsStatic() {
		b.result.bindings = append(b.result.bindings, textBinding{tpl: tpl, set: set})
	}
}

func (b *builder) command(cmd *dsl.Command, parent View) error {
	if cmd.Name == "use" {
		return b.use(cmd, parent)
	}

	var view View
	switch cmd.Name {
	case "box":
		view = NewBox()
	case "flex":
		view = NewFlex()
	case "text":
		view = NewText()
	case "label":
		if !insideText(parent) {
			return fmt.Errorf("%s: label 只能出现在 text 中", cmd.Pos)
		}
		view = NewLabel()
	case "image":
		view = NewImage()
	case "transform":
		view = NewTransform()
	default:
		return fmt.Errorf("%s: 未知的视图类型 %s", cmd.Pos, cmd.Name)
	}
	parent.node().Append(view, true)

	style, inline := parseArgs(cmd.Args)
	if style != "" {
		if _, ok := b.res.Styles[style]; !ok {
			return fmt.Errorf("%s: style %s 未定义", cmd.Pos, style)
		}
	}
	if s, ok := inline["style"]; ok {
		style = s
		delete(inline, "style")
	}
	attrs := mergeStyleAttributes(style, inline, b.res.Styles)
	for k, v := range attrs {
		attrs[k] = binding.Interpolate(v, b.data)
	}
	if err := b.apply(view, attrs); err != nil {
		return fmt.Errorf("%s: %s: %w", cmd.Pos, cmd.Name, err)
	}

	switch v := view.(type) {
	case *Text:
		if val, ok := attrs["value"]; ok {
			b.bindText(val, v.SetValue)
		}
		return b.textChildren(cmd.Block, v, v.SetValue)
	case *Label:
		if val, ok := attrs["value"]; ok {
			b.bindText(val, v.SetValue)
		}
		return b.textChildren(cmd.Block, v, v.SetValue)
	default:
		return b.children(cmd.Block, view)
	}
}

// use 把模板中的语句展开到 parent 下。
func (b *builder) use(cmd *dsl.Command, parent View) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("%s: use 缺少模板名", cmd.Pos)
	}
	name := cmd.Args[0].Value
	tpl, ok := b.templates[name]
	if !ok {
		return fmt.Errorf("%s: template %s 未定义", cmd.Pos, name)
	}
	if b.using[name] {
		return fmt.Errorf("%s: template %s 存在循环引用", cmd.Pos, name)
	}
	b.using[name] = true
	defer delete(b.using, name)
	if insideText(parent) {
		return b.textChildren(tpl.Block, parent, nil)
	}
	return b.children(tpl.Block, parent)
}

func insideText(v View) bool { return textHost(v) != nil }

func textHost(v View) *Text {
	switch t := v.(type) {
	case *Text:
		return t
	case *Label:
		if p := t.parent; p != nil {
			return textHost(p)
		}
	}
	return nil
}

// apply 把属性写入视图，未知属性只记录调试日志。
func (b *builder) apply(view View, attrs map[string]string) error {
	box := view.box()
	var text *TextOptions
	var opts TextOptions
	switch v := view.(type) {
	case *Text:
		opts = v.opts
		text = &opts
	case *Label:
		opts = v.opts
		text = &opts
	}

	var raw map[string]string
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		val := attrs[key]
		handled, err := b.applyBox(box, key, val)
		if err == nil && !handled && text != nil {
			handled, err = b.applyText(text, key, val)
		}
		if err == nil && !handled {
			handled, err = b.applyKind(view, key, val)
		}
		if err != nil {
			return fmt.Errorf("属性 %s=%q: %w", key, val, err)
		}
		if !handled {
			debug.Logf("builder: %s 忽略未知属性 %s", view.Kind(), key)
			continue
		}
		if raw == nil {
			raw = map[string]string{}
		}
		raw[key] = val
	}
	if raw != nil {
		b.result.raws[view] = raw
	}

	switch v := view.(type) {
	case *Text:
		v.SetTextOptions(opts, true)
	case *Label:
		v.SetTextOptions(opts, true)
	}
	return nil
}

func (b *builder) applyBox(box *Box, key, val string) (bool, error) {
	switch key {
	case "id":
		b.result.views[val] = box.self
		b.result.ids[box.self] = val
	case "width", "height", "width-limit", "height-limit":
		size, err := ParseBoxSize(val, b.dpi)
		if err != nil {
			return true, err
		}
		switch key {
		case "width":
			box.SetWidth(size, true)
		case "height":
			box.SetHeight(size, true)
		case "width-limit":
			box.SetWidthLimit(size, true)
		default:
			box.SetHeightLimit(size, true)
		}
	case "margin", "padding", "border":
		edges, err := parseEdges(val, b.dpi)
		if err != nil {
			return true, err
		}
		switch key {
		case "margin":
			box.SetMargin(edges, true)
		case "padding":
			box.SetPadding(edges, true)
		default:
			box.SetBorder(edges, true)
		}
	case "border-color":
		colors, err := b.parseEdgeColors(val)
		if err != nil {
			return true, err
		}
		box.SetBorderColor(colors, true)
	case "align":
		a, ok := ParseAlign(val)
		if !ok {
			return true, fmt.Errorf("未知的对齐方式")
		}
		box.SetAlign(a, true)
	case "weight":
		// Text/Label 的 weight 是字重，由 applyText 处理。
		switch box.self.(type) {
		case *Text, *Label:
			return false, nil
		}
		f, err := strconv.ParseFloat(val, 32)
		if err != nil {
			return true, err
		}
		box.SetWeight(float32(f), true)
	case "flex":
		f, err := strconv.ParseFloat(val, 32)
		if err != nil {
			return true, err
		}
		box.SetWeight(float32(f), true)
	case "clip":
		v, err := parseBool(val)
		if err != nil {
			return true, err
		}
		box.SetClip(v, true)
	case "visible":
		v, err := parseBool(val)
		if err != nil {
			return true, err
		}
		box.SetVisible(v, true)
	default:
		return false, nil
	}
	return true, nil
}

func (b *builder) applyText(o *TextOptions, key, val string) (bool, error) {
	switch key {
	case "font", "family":
		o.Family = val
		if f, ok := b.res.Fonts[val]; ok && f.Family != "" {
			o.Family = f.Family
		}
	case "size", "font-size":
		l, err := ParseRawLengthStr(val)
		if err != nil {
			return true, err
		}
		o.FontSize = float32(l.ToPX(b.dpi))
	case "weight", "font-weight":
		w, err := parseFontWeight(val)
		if err != nil {
			return true, err
		}
		o.Weight = w
	case "italic":
		v, err := parseBool(val)
		if err != nil {
			return true, err
		}
		o.Slant = SlantNormal
		if v {
			o.Slant = SlantItalic
		}
	case "line-height":
		spec, err := ParseLineHeight(val)
		if err != nil {
			return true, err
		}
		// 绝对行高在这里换算成像素，之后与 DPI 无关。
		if spec.Kind == LineHeightAbsolute {
			spec.Len = Length{Value: spec.Len.ToPX(b.dpi), Unit: UnitPX}
		}
		o.LineHeight = spec
	case "text-align":
		v, ok := ParseTextAlign(val)
		if !ok {
			return true, fmt.Errorf("未知的 text-align")
		}
		o.Align = v
	case "white-space":
		v, ok := ParseWhiteSpace(val)
		if !ok {
			return true, fmt.Errorf("未知的 white-space")
		}
		o.WhiteSpace = v
	case "word-break":
		v, ok := ParseWordBreak(val)
		if !ok {
			return true, fmt.Errorf("未知的 word-break")
		}
		o.WordBreak = v
	case "overflow", "text-overflow":
		v, ok := ParseTextOverflow(val)
		if !ok {
			return true, fmt.Errorf("未知的 overflow")
		}
		o.Overflow = v
	case "color":
		c, err := resolveColor(val, b.res)
		if err != nil {
			return true, err
		}
		o.Color = c
	case "value":
		// 由 command 在创建完成后绑定。
	default:
		return false, nil
	}
	return true, nil
}

func (b *builder) applyKind(view View, key, val string) (bool, error) {
	switch v := view.(type) {
	case *Flex:
		if key != "direction" {
			return false, nil
		}
		switch strings.ToLower(val) {
		case "row", "horizontal":
			v.SetDirection(DirectionRow, true)
		case "column", "vertical":
			v.SetDirection(DirectionColumn, true)
		default:
			return true, fmt.Errorf("未知的方向")
		}
	case *Image:
		switch key {
		case "src":
			v.SetSource(val, v.source.X, v.source.Y, true)
		case "source-width", "source-height":
			l, err := ParseRawLengthStr(val)
			if err != nil {
				return true, err
			}
			px := float32(l.ToPX(b.dpi))
			if key == "source-width" {
				v.SetSource(v.src, px, v.source.Y, true)
			} else {
				v.SetSource(v.src, v.source.X, px, true)
			}
		default:
			return false, nil
		}
	case *Transform:
		switch key {
		case "translate", "origin":
			p, err := parsePair(val, b.dpi, true, 0)
			if err != nil {
				return true, err
			}
			if key == "translate" {
				v.SetTranslate(p, true)
			} else {
				v.SetOrigin(p, true)
			}
		case "scale":
			p, err := parsePair(val, 0, false, 1)
			if err != nil {
				return true, err
			}
			v.SetScale(p, true)
		case "rotate":
			f, err := strconv.ParseFloat(strings.TrimSuffix(val, "deg"), 32)
			if err != nil {
				return true, err
			}
			v.SetRotate(float32(f), true)
		case "skew":
			p, err := parsePair(val, 0, false, 0)
			if err != nil {
				return true, err
			}
			v.SetSkew(p, true)
		default:
			return false, nil
		}
	default:
		return false, nil
	}
	return true, nil
}

// resolveWindow 解析 window 宽 高 [scale s] [属性 值]...，其余属性作用于 Root。
func resolveWindow(spec dsl.WindowSpec, dpi float64) (StaticWindow, map[string]string, error) {
	params := spec.Params
	if len(params) < 2 {
		return StaticWindow{}, nil, fmt.Errorf("window 需要宽度与高度")
	}
	var dims [2]float32
	for i := range dims {
		l, err := ParseRawLengthStr(params[i].Value)
		if err != nil {
			return StaticWindow{}, nil, fmt.Errorf("window 尺寸: %w", err)
		}
		dims[i] = float32(l.ToPX(dpi))
	}
	w := StaticWindow{Width: dims[0], Height: dims[1], PixelScale: 1}
	attrs := map[string]string{}
	for i := 2; i+1 < len(params); i += 2 {
		key, val := params[i].Value, params[i+1].Value
		if key == "scale" {
			f, err := strconv.ParseFloat(strings.TrimSuffix(val, "x"), 32)
			if err != nil || f <= 0 {
				return StaticWindow{}, nil, fmt.Errorf("window scale %q 无效", val)
			}
			w.PixelScale = float32(f)
			continue
		}
		attrs[key] = val
	}
	return w, attrs, nil
}

// parseArgs 把命令参数拆成样式名与键值对；参数个数为奇数且首个是标识符时视为样式名。
func parseArgs(args []*dsl.Lexeme) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}

	cursor := 0
	var style string
	if len(args)%2 == 1 && args[0].Type == "Ident" {
		style = args[0].Value
		cursor = 1
	}

	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return style, result
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if style != "" {
		if s, ok := styles[style]; ok {
			maps.Copy(out, s.Props)
		}
	}
	maps.Copy(out, inline)
	return out
}

// ---- 取值解析 ----

// parseEdges 解析 1~4 个长度，顺序与 CSS 相同：上 右 下 左。
func parseEdges(value string, dpi float64) ([4]float32, error) {
	var vals []float32
	for _, f := range strings.Fields(value) {
		l, err := ParseRawLengthStr(f)
		if err != nil {
			return [4]float32{}, err
		}
		vals = append(vals, float32(l.ToPX(dpi)))
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return [4]float32{v, v, v, v}, nil
	case 2:
		return [4]float32{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return [4]float32{vals[0], vals[1], vals[2], vals[1]}, nil
	case 4:
		return [4]float32{vals[0], vals[1], vals[2], vals[3]}, nil
	default:
		return [4]float32{}, fmt.Errorf("需要 1 到 4 个长度")
	}
}

func (b *builder) parseEdgeColors(value string) ([4]Color, error) {
	var out [4]Color
	fields := strings.Fields(value)
	if len(fields) != 1 && len(fields) != 4 {
		return out, fmt.Errorf("需要 1 个或 4 个颜色")
	}
	for i := range out {
		f := fields[0]
		if len(fields) == 4 {
			f = fields[i]
		}
		c, err := resolveColor(f, b.res)
		if err != nil {
			return out, err
		}
		out[i] = c
	}
	return out, nil
}

// parsePair 解析 "x y" 或单个值；只有一个值时 y 取相同的值。
func parsePair(value string, dpi float64, length bool, def float32) (Vec2, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 || len(fields) > 2 {
		return Vec2{def, def}, fmt.Errorf("需要 1 个或 2 个数值")
	}
	var out [2]float32
	for i := range out {
		f := fields[0]
		if len(fields) == 2 {
			f = fields[i]
		}
		if length {
			l, err := ParseRawLengthStr(f)
			if err != nil {
				return Vec2{def, def}, err
			}
			out[i] = float32(l.ToPX(dpi))
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(f, "deg"), 32)
		if err != nil {
			return Vec2{def, def}, err
		}
		out[i] = float32(v)
	}
	return Vec2{out[0], out[1]}, nil
}

// ParseAlign 解析 left-top 之类的九宫格写法，以及 center、top、bottom 等简写。
func ParseAlign(value string) (Align, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	for a, name := range alignNames {
		if name == v {
			return a, true
		}
	}
	switch v {
	case "center", "middle":
		return AlignCenterMiddle, true
	case "left":
		return AlignLeftMiddle, true
	case "right":
		return AlignRightMiddle, true
	case "top":
		return AlignCenterTop, true
	case "bottom":
		return AlignCenterBottom, true
	case "baseline":
		return AlignAuto, true
	}
	return AlignAuto, false
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("无法解析布尔值 %q", value)
}
