package layout

import (
	"reflect"
	"testing"

	"github.com/ByLCY/quill/dsl"
)

func TestParseColorForms(t *testing.T) {
	cases := map[string]Color{
		"#abc":      {R: 0xaa, G: 0xbb, B: 0xcc, A: 255},
		"#0F62FE":   {R: 0x0f, G: 0x62, B: 0xfe, A: 255},
		"#11223344": {R: 0x11, G: 0x22, B: 0x33, A: 0x44},
	}
	for in, want := range cases {
		got, err := parseColor(in)
		if err != nil || got != want {
			t.Fatalf("parseColor(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"#12", "#12345", "#ggg", "#+12345"} {
		if _, err := parseColor(bad); err == nil {
			t.Fatalf("parseColor(%q) should fail", bad)
		}
	}
}

func TestCollectResourcesFlattensStyles(t *testing.T) {
	doc, err := dsl.ParseString(`view T v1 {
  resources {
    font Code { src: "builtin:gomono"; weight: semibold }
    color Ink #111
    style A { color: Ink; size: 12px }
    style B extends A { size: 14px }
    style C extends B { align: center }
  }
}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := collectResources(doc)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if f := res.Fonts["Code"]; !f.IsBuiltin || f.Weight != 600 || f.Family != "Code" {
		t.Fatalf("unexpected font %+v", f)
	}
	if res.Colors["Ink"] != (Color{R: 0x11, G: 0x11, B: 0x11, A: 255}) {
		t.Fatalf("unexpected color %+v", res.Colors["Ink"])
	}
	want := map[string]string{"color": "Ink", "size": "14px", "align": "center"}
	if got := res.Styles["C"].Props; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected flattened props %v", got)
	}
	if res.Styles["C"].Extends != "B" {
		t.Fatalf("extends should be kept, got %q", res.Styles["C"].Extends)
	}
}

func TestFlattenStylesErrors(t *testing.T) {
	if _, err := flattenStyles(map[string]Style{"A": {Name: "A", Extends: "Missing"}}); err == nil {
		t.Fatalf("missing parent should fail")
	}
	loop := map[string]Style{
		"A": {Name: "A", Extends: "B"},
		"B": {Name: "B", Extends: "A"},
	}
	if _, err := flattenStyles(loop); err == nil {
		t.Fatalf("cycle should fail")
	}
}
