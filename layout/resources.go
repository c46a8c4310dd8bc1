package layout

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/quill/debug"
	"github.com/ByLCY/quill/dsl"
)

// resourceReader 汇总所有 resources 段；同名资源以后出现的为准。
type resourceReader struct {
	set    ResourceSet
	styles map[string]Style
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	r := &resourceReader{
		set: ResourceSet{
			Fonts:  map[string]FontResource{},
			Colors: map[string]Color{},
		},
		styles: map[string]Style{},
	}
	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil || len(stmt.Command.Args) == 0 {
				continue
			}
			if err := r.read(stmt.Command); err != nil {
				return r.set, err
			}
		}
	}
	styles, err := flattenStyles(r.styles)
	if err != nil {
		return r.set, err
	}
	r.set.Styles = styles
	return r.set, nil
}

func (r *resourceReader) read(cmd *dsl.Command) error {
	name := cmd.Args[0].Value
	switch cmd.Name {
	case "font":
		r.set.Fonts[name] = readFont(name, cmd.Block)
	case "color":
		// color 名称 [=] 值
		if len(cmd.Args) < 2 {
			return fmt.Errorf("color %s 缺少取值", name)
		}
		c, err := parseColor(cmd.Args[len(cmd.Args)-1].Value)
		if err != nil {
			return fmt.Errorf("color %s: %w", name, err)
		}
		r.set.Colors[name] = c
	case "style":
		style := Style{Name: name, Props: assignments(cmd.Block)}
		if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
			style.Extends = cmd.Args[2].Value
		}
		r.styles[name] = style
	default:
		debug.Logf("builder: 忽略未知资源 %s %s", cmd.Name, name)
	}
	return nil
}

// assignments 取出块中的 key: value，空值忽略。
func assignments(block *dsl.Block) map[string]string {
	out := map[string]string{}
	if block == nil {
		return out
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		if v := stmt.Assignment.Value.Text(); v != "" {
			out[stmt.Assignment.Key] = v
		}
	}
	return out
}

// readFont 解析 font 名称 { src family style weight fallback }，family 默认为名称本身。
func readFont(name string, block *dsl.Block) FontResource {
	props := assignments(block)
	font := FontResource{
		Name:     name,
		Family:   name,
		Src:      props["src"],
		Style:    props["style"],
		Fallback: props["fallback"],
	}
	font.IsBuiltin = strings.HasPrefix(font.Src, "builtin:")
	if family := props["family"]; family != "" {
		font.Family = family
	}
	if w, err := parseFontWeight(props["weight"]); err == nil {
		font.Weight = w
	}
	return font
}

// flattenStyles 沿 extends 链向上合并属性，子样式覆盖父样式。
func flattenStyles(raw map[string]Style) (map[string]Style, error) {
	out := make(map[string]Style, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		var chain []Style
		seen := map[string]bool{}
		for cur := name; cur != ""; {
			if seen[cur] {
				return nil, fmt.Errorf("style 继承存在循环：%s", cur)
			}
			seen[cur] = true
			s, ok := raw[cur]
			if !ok {
				return nil, fmt.Errorf("style %s 未定义", cur)
			}
			chain = append(chain, s)
			cur = s.Extends
		}
		props := map[string]string{}
		for i := len(chain) - 1; i >= 0; i-- {
			maps.Copy(props, chain[i].Props)
		}
		flat := raw[name]
		flat.Props = props
		out[name] = flat
	}
	return out, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{Creator: "Quill"}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			a := stmt.Assignment
			if a == nil {
				continue
			}
			switch strings.ToLower(a.Key) {
			case "title":
				meta.Title = a.Value.Text()
			case "author":
				meta.Author = a.Value.Text()
			case "subject":
				meta.Subject = a.Value.Text()
			case "creator":
				meta.Creator = a.Value.Text()
			case "keywords":
				meta.Keywords = a.Value.List()
			default:
				debug.Logf("builder: 忽略未知元信息 %s", a.Key)
			}
		}
	}
	return meta
}

var fontWeights = map[string]int{
	"thin":       100,
	"extralight": 200,
	"light":      300,
	"normal":     400,
	"regular":    400,
	"medium":     500,
	"semibold":   600,
	"bold":       700,
	"extrabold":  800,
	"black":      900,
}

func parseFontWeight(value string) (int, error) {
	if w, ok := fontWeights[strings.ToLower(value)]; ok {
		return w, nil
	}
	w, err := strconv.Atoi(value)
	if err != nil || w < 1 || w > 1000 {
		return 0, fmt.Errorf("无法解析字重 %q", value)
	}
	return w, nil
}

// resolveColor 先查颜色资源，再按 #RGB、#RRGGBB、#RRGGBBAA 解析。
func resolveColor(value string, res ResourceSet) (Color, error) {
	if c, ok := res.Colors[value]; ok {
		return c, nil
	}
	if strings.HasPrefix(value, "#") {
		return parseColor(value)
	}
	return Color{}, fmt.Errorf("未定义的颜色 %s", value)
}

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 8 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return Color{R: int(v >> 24), G: int(v >> 16 & 0xff), B: int(v >> 8 & 0xff), A: int(v & 0xff)}, nil
}
