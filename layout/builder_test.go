package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/quill/dsl"
)

const builderDSL = `
view Demo v1 {
  meta {
    title: "Demo"
    keywords: ["layout", "text"]
  }

  resources {
    font Body {
      src: "builtin:goregular"
      family: "Go"
    }
    color Accent = #0F62FE
    style Base {
      font: Body
      color: Accent
    }
    style Title extends Base {
      size: 20px
      weight: bold
    }
  }

  template Row {
    box id row width 20 height 10
  }

  window 200 100 padding 0 {
    flex id col direction column width match padding 10 {
      text Title id title width match { "Hi ${user.name}" }
      use Row
    }
  }
}
`

// registrarTypesetter 记录 Build 注册过的字体。
type registrarTypesetter struct {
	monoTypesetter
	fonts []FontResource
}

func (r *registrarTypesetter) RegisterFont(font FontResource) error {
	r.fonts = append(r.fonts, font)
	return nil
}

func buildFromDSL(t *testing.T, src string, data any, opts BuildOptions) *Result {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	if opts.Typesetter == nil {
		opts.Typesetter = monoTypesetter{}
	}
	res, err := Build(doc, data, opts)
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	return res
}

func TestBuildCreatesTree(t *testing.T) {
	ts := &registrarTypesetter{}
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	res := buildFromDSL(t, builderDSL, data, BuildOptions{Typesetter: ts})

	if res.Meta.Title != "Demo" || len(res.Meta.Keywords) != 2 {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}
	if res.Window.Width != 200 || res.Window.Height != 100 {
		t.Fatalf("unexpected window: %+v", res.Window)
	}
	if len(ts.fonts) != 1 || ts.fonts[0].Family != "Go" || !ts.fonts[0].IsBuiltin {
		t.Fatalf("font resource should be registered, got %+v", ts.fonts)
	}
	if got := res.Resources.Styles["Title"].Props["color"]; got != "Accent" {
		t.Fatalf("style should inherit from Base, got %q", got)
	}

	col, ok := res.View("col").(*Flex)
	if !ok {
		t.Fatalf("expected flex with id col, got %T", res.View("col"))
	}
	if col.Direction() != DirectionColumn {
		t.Fatalf("flex direction should be column")
	}
	if got := col.ContentSize().X; got != 180 {
		t.Fatalf("flex content width should be 180, got %g", got)
	}

	title, ok := res.View("title").(*Text)
	if !ok {
		t.Fatalf("expected text with id title, got %T", res.View("title"))
	}
	if title.Value() != "Hi Ada" {
		t.Fatalf("text should be interpolated, got %q", title.Value())
	}
	opts := title.TextOptions()
	if opts.FontSize != 20 || opts.Weight != 700 || opts.Family != "Go" {
		t.Fatalf("style attributes not applied: %+v", opts)
	}
	if opts.Color != (Color{R: 0x0F, G: 0x62, B: 0xFE, A: 255}) {
		t.Fatalf("color resource not resolved: %+v", opts.Color)
	}

	row := res.View("row")
	if row == nil {
		t.Fatalf("template should be expanded")
	}
	if got := row.box().LayoutOffset(); got != (Vec2{0, 10}) {
		t.Fatalf("row should be stacked below the title, got %+v", got)
	}

	snap := res.Tree.Find("title")
	if snap == nil || snap.Value != "Hi Ada" || len(snap.Lines) != 1 {
		t.Fatalf("snapshot should carry the title, got %+v", snap)
	}
}

func TestBindUpdatesTextOnNextSolve(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	res := buildFromDSL(t, builderDSL, data, BuildOptions{})
	title := res.View("title").(*Text)

	res.Bind(map[string]any{"user": map[string]any{"name": "Grace"}})
	if title.Value() != "Hi Ada" {
		t.Fatalf("bound value should wait for Solve, got %q", title.Value())
	}
	res.Solve()
	if title.Value() != "Hi Grace" {
		t.Fatalf("bound value should apply after Solve, got %q", title.Value())
	}
	if got := res.Tree.Find("title").Value; got != "Hi Grace" {
		t.Fatalf("snapshot should be refreshed, got %q", got)
	}
}

func TestBuildMixedTextCreatesLabels(t *testing.T) {
	res := buildFromDSL(t, `view T v1 {
  window 300 100 {
    text id para { "ab " label weight 700 { "cd" } " ef" }
  }
}`, nil, BuildOptions{})

	para := res.View("para").(*Text)
	if para.Value() != "ab " {
		t.Fatalf("leading literal should be the text value, got %q", para.Value())
	}
	var labels []*Label
	for c := para.First(); c != nil; c = c.node().next {
		if l, ok := c.(*Label); ok {
			labels = append(labels, l)
		}
	}
	if len(labels) != 2 || labels[0].Value() != "cd" || labels[1].Value() != " ef" {
		t.Fatalf("unexpected labels %+v", labels)
	}
	if labels[0].TextOptions().Weight != 700 {
		t.Fatalf("label weight should be font weight")
	}
	if got := lineWidths(para.Lines()); len(got) != 1 || got[0] != 80 {
		t.Fatalf("labels should share the host line, got %v", got)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]string{
		"label outside text": `view T v1 { window 10 10 { label { "x" } } }`,
		"unknown template":   `view T v1 { window 10 10 { use Missing } }`,
		"unknown view":       `view T v1 { window 10 10 { table } }`,
		"bad size":           `view T v1 { window 10 10 { box width abc } }`,
		"style cycle": `view T v1 {
  resources {
    style A extends B { size: 1 }
    style B extends A { size: 2 }
  }
  window 10 10 { }
}`,
		"recursive template": `view T v1 {
  template Loop { box { use Loop } }
  window 10 10 { use Loop }
}`,
		"missing window": `view T v1 { meta { title: "x" } }`,
	}
	for name, src := range cases {
		doc, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", name, err)
		}
		if _, err := Build(doc, nil, BuildOptions{Typesetter: monoTypesetter{}}); err == nil {
			t.Fatalf("%s: expected build error", name)
		}
	}
	if _, err := Build(nil, nil, BuildOptions{Typesetter: monoTypesetter{}}); err == nil {
		t.Fatalf("nil document should fail")
	}
}

func TestBuildUnitsUseDPI(t *testing.T) {
	res := buildFromDSL(t, `view T v1 {
  window 1in 1in {
    box id b width 0.5in height 36pt
  }
}`, nil, BuildOptions{DPI: 192})

	if res.Window.Width != 192 {
		t.Fatalf("window width should scale with dpi, got %g", res.Window.Width)
	}
	b := res.View("b").box()
	if got := b.ContentSize(); got != (Vec2{96, 96}) {
		t.Fatalf("unexpected size at 192dpi: %+v", got)
	}
}

func TestWriteDebugJSONRawUnits(t *testing.T) {
	res := buildFromDSL(t, `view T v1 {
  window 100 100 {
    box id b width 50% height 20!
  }
}`, nil, BuildOptions{Debug: DebugOptions{RawUnits: true}})

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("write debug json: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read debug json: %v", err)
	}
	var decoded struct {
		Tree NodeSnapshot `json:"tree"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode debug json: %v", err)
	}
	b := decoded.Tree.Find("b")
	if b == nil {
		t.Fatalf("box b missing from snapshot")
	}
	if b.Raw["width"] != "50%" || b.Width != "50%" || b.Height != "20!" {
		t.Fatalf("raw units should be preserved, got raw=%v width=%s height=%s", b.Raw, b.Width, b.Height)
	}
	if b.LayoutSize != (Vec2{50, 80}) {
		t.Fatalf("unexpected layout size %+v", b.LayoutSize)
	}
}
