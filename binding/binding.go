package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Template 是预先切分好的插值文本，可以对不同的数据多次求值。
type Template struct {
	source string
	parts  []part
}

// part 是字面量或占位符；占位符的 steps 在编译时解析，路径非法时 ok 为 false。
type part struct {
	literal string
	path    string
	steps   []step
	ok      bool
}

// Compile 把文本切分为字面量与 ${path} 占位符。
func Compile(text string) *Template {
	t := &Template{source: text}
	last := 0
	for _, loc := range exprPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			t.parts = append(t.parts, part{literal: text[last:loc[0]]})
		}
		raw := text[loc[0]:loc[1]]
		path := strings.TrimSpace(text[loc[2]:loc[3]])
		if path == "" {
			t.parts = append(t.parts, part{literal: raw})
			last = loc[1]
			continue
		}
		steps, ok := splitPath(path)
		t.parts = append(t.parts, part{literal: raw, path: path, steps: steps, ok: ok})
		last = loc[1]
	}
	if last < len(text) {
		t.parts = append(t.parts, part{literal: text[last:]})
	}
	return t
}

// Source 返回编译前的原文。
func (t *Template) Source() string { return t.source }

// Paths 返回模板引用的数据路径，按出现顺序排列。
func (t *Template) Paths() []string {
	var out []string
	for _, p := range t.parts {
		if p.path != "" {
			out = append(out, p.path)
		}
	}
	return out
}

// IsStatic 表示模板不包含任何占位符。
func (t *Template) IsStatic() bool { return len(t.Paths()) == 0 }

// Execute 用 data 求值。路径不存在时保留原占位符。
func (t *Template) Execute(data any) string {
	var out strings.Builder
	for _, p := range t.parts {
		if p.path != "" && p.ok && data != nil {
			if v, found := walk(data, p.steps); found {
				fmt.Fprint(&out, v)
				continue
			}
		}
		out.WriteString(p.literal)
	}
	return out.String()
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return Compile(text).Execute(data)
}

// Lookup 按 a.b[0].c 形式的路径在 data 中取值。
func Lookup(data any, path string) (any, bool) {
	steps, ok := splitPath(path)
	if !ok {
		return nil, false
	}
	return walk(data, steps)
}

// step 是路径中的一级：键名或下标。
type step struct {
	key   string
	index int
}

func (s step) isIndex() bool { return s.key == "" }

func splitPath(path string) ([]step, bool) {
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, indexed := strings.Cut(segment, "[")
		if name != "" {
			steps = append(steps, step{key: name})
		}
		if !indexed {
			continue
		}
		// rest 形如 0]、0][1]
		for rest != "" {
			idx, tail, found := strings.Cut(rest, "]")
			if !found {
				return nil, false
			}
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: n})
			if tail == "" {
				break
			}
			if tail[0] != '[' {
				return nil, false
			}
			rest = tail[1:]
		}
	}
	return steps, true
}

func walk(current any, steps []step) (any, bool) {
	for _, s := range steps {
		var ok bool
		if s.isIndex() {
			current, ok = element(current, s.index)
		} else {
			current, ok = field(current, s.key)
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func field(current any, key string) (any, bool) {
	switch c := current.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case map[string]string:
		v, ok := c[key]
		return v, ok
	}
	rv := reflect.Indirect(reflect.ValueOf(current))
	if rv.Kind() == reflect.Map {
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(kt))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	// 结构体字段名不区分大小写
	f := rv.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, key) })
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

func element(current any, idx int) (any, bool) {
	if list, ok := current.([]any); ok {
		if idx < 0 || idx >= len(list) {
			return nil, false
		}
		return list[idx], true
	}
	rv := reflect.Indirect(reflect.ValueOf(current))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	}
	return nil, false
}
