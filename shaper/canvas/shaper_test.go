package canvas

import (
	"math"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/quill/layout"
	"github.com/ByLCY/quill/shaper/sfnt"
)

func newShaper(t *testing.T) *Shaper {
	t.Helper()
	s, err := New(Options{})
	if err != nil {
		t.Fatalf("new shaper: %v", err)
	}
	return s
}

func TestShapeMeasuresEachRune(t *testing.T) {
	s := newShaper(t)
	runs := s.Shape([]rune("ab"), layout.FontStyle{}, 16)
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	run := runs[0]
	if run.Glyphs[0] != layout.GlyphID('a') || run.Glyphs[1] != layout.GlyphID('b') {
		t.Fatalf("glyphs should carry the code points, got %v", run.Glyphs)
	}
	if !(0 < run.Offsets[1] && run.Offsets[1] < run.Offsets[2]) {
		t.Fatalf("offsets must increase: %v", run.Offsets)
	}
	if run.Typeface != "Go/400" {
		t.Fatalf("unexpected typeface %q", run.Typeface)
	}
}

func TestWidthsAgreeWithSfnt(t *testing.T) {
	s := newShaper(t)
	ref, err := sfnt.New(sfnt.Options{})
	if err != nil {
		t.Fatalf("sfnt shaper: %v", err)
	}
	for _, size := range []float32{10, 24} {
		got := s.Shape([]rune("W"), layout.FontStyle{}, size)[0].Width()
		want := ref.Shape([]rune("W"), layout.FontStyle{}, size)[0].Width()
		if math.Abs(float64(got-want)) > 0.1 {
			t.Fatalf("size %g: canvas width %g, sfnt width %g", size, got, want)
		}
	}
}

func TestStyleSelection(t *testing.T) {
	s := newShaper(t)
	cases := []struct {
		style layout.FontStyle
		want  string
	}{
		{layout.FontStyle{Weight: 700}, "Go/700"},
		{layout.FontStyle{Weight: 900}, "Go/700"},
		{layout.FontStyle{Italic: true}, "Go/400i"},
		{layout.FontStyle{Weight: 700, Italic: true}, "Go/700i"},
		{layout.FontStyle{Family: "missing"}, "Go/400"},
	}
	for _, c := range cases {
		if got := s.Shape([]rune("a"), c.style, 12)[0].Typeface; got != c.want {
			t.Fatalf("style %+v: got %s, want %s", c.style, got, c.want)
		}
	}
}

func TestRegisterFont(t *testing.T) {
	s := newShaper(t)
	res := layout.FontResource{Name: "Code", Family: "Code", Src: "builtin:gomono", Fallback: "Go"}
	if err := s.RegisterFont(res); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.RegisterFont(res); err != nil {
		t.Fatalf("registering twice should be a no-op: %v", err)
	}
	run := s.Shape([]rune("il"), layout.FontStyle{Family: "code"}, 12)[0]
	if run.Typeface != "Code/400" {
		t.Fatalf("unexpected typeface %q", run.Typeface)
	}
	if a, b := run.Offsets[1], run.Offsets[2]-run.Offsets[1]; math.Abs(float64(a-b)) > 1e-4 {
		t.Fatalf("mono font should have equal advances: %g vs %g", a, b)
	}
	if err := s.RegisterFont(layout.FontResource{Name: "Bad", Src: "builtin:nope"}); err == nil {
		t.Fatalf("unknown builtin should fail")
	}
}

func TestMetricsInPixels(t *testing.T) {
	s := newShaper(t)
	m := s.Metrics(layout.FontStyle{}, 20)
	if m.Ascent <= m.Descent || m.Descent <= 0 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	if m.Ascent+m.Descent > 30 {
		t.Fatalf("metrics should scale with a 20px font, got %+v", m)
	}
}

func TestParseFontStyle(t *testing.T) {
	if parseFontStyle("SemiBold Italic") != canvas.FontSemiBold|canvas.FontItalic {
		t.Fatalf("semibold italic not parsed")
	}
	if parseFontStyle("") != parseFontStyle("regular") {
		t.Fatalf("empty style should be regular")
	}
}
