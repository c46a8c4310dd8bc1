package sfnt

import (
	"math"
	"testing"

	"github.com/ByLCY/quill/layout"
)

func newShaper(t *testing.T) *Shaper {
	t.Helper()
	s, err := New(Options{Kerning: true})
	if err != nil {
		t.Fatalf("new shaper: %v", err)
	}
	return s
}

func TestShapeProducesOneGlyphPerRune(t *testing.T) {
	s := newShaper(t)
	runs := s.Shape([]rune("Hello"), layout.FontStyle{Family: "Go"}, 16)
	if len(runs) != 1 {
		t.Fatalf("expected a single run, got %d", len(runs))
	}
	run := runs[0]
	if len(run.Glyphs) != 5 || len(run.Offsets) != 6 {
		t.Fatalf("unexpected run shape: %d glyphs, %d offsets", len(run.Glyphs), len(run.Offsets))
	}
	for i := 1; i < len(run.Offsets); i++ {
		if run.Offsets[i] <= run.Offsets[i-1] {
			t.Fatalf("offsets must increase: %v", run.Offsets)
		}
	}
	if run.Typeface != "Go/400" {
		t.Fatalf("unexpected typeface %q", run.Typeface)
	}
}

func TestAdvanceScalesWithSize(t *testing.T) {
	s := newShaper(t)
	small := s.Shape([]rune("m"), layout.FontStyle{}, 10)[0].Width()
	large := s.Shape([]rune("m"), layout.FontStyle{}, 20)[0].Width()
	if math.Abs(float64(large-2*small)) > 0.1 {
		t.Fatalf("advance should scale linearly: %g vs %g", small, large)
	}
}

func TestMonoFamilyHasEqualAdvances(t *testing.T) {
	s := newShaper(t)
	run := s.Shape([]rune("il"), layout.FontStyle{Family: "go mono"}, 12)[0]
	if run.Typeface != "Go Mono/400" {
		t.Fatalf("family lookup should ignore case, got %q", run.Typeface)
	}
	if a, b := run.Offsets[1], run.Offsets[2]-run.Offsets[1]; a != b {
		t.Fatalf("mono advances differ: %g vs %g", a, b)
	}
}

func TestFacePicksWeightAndItalic(t *testing.T) {
	s := newShaper(t)
	cases := []struct {
		style layout.FontStyle
		want  string
	}{
		{layout.FontStyle{Weight: 650}, "Go/700"},
		{layout.FontStyle{Weight: 520}, "Go/500"},
		{layout.FontStyle{Italic: true}, "Go/400i"},
		{layout.FontStyle{Weight: 800, Italic: true}, "Go/700i"},
		{layout.FontStyle{Family: "Unknown"}, "Go/400"},
	}
	for _, c := range cases {
		if got := s.Shape([]rune("a"), c.style, 10)[0].Typeface; got != c.want {
			t.Fatalf("style %+v: got %s, want %s", c.style, got, c.want)
		}
	}
}

func TestRegisteredFamilyWithFallback(t *testing.T) {
	s := newShaper(t)
	err := s.RegisterFont(layout.FontResource{Name: "Code", Src: "builtin:gomono", Fallback: "Go"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := s.Shape([]rune("x"), layout.FontStyle{Family: "Code"}, 10)[0].Typeface; got != "Code/400" {
		t.Fatalf("registered family should be used, got %s", got)
	}
	if got := s.chain(layout.FontStyle{Family: "Code"}); len(got) != 2 {
		t.Fatalf("fallback chain should be Code then Go, got %d faces", len(got))
	}
	if err := s.RegisterFont(layout.FontResource{Name: "Broken", Src: "builtin:none"}); err == nil {
		t.Fatalf("unknown builtin should fail")
	}
}

func TestMissingGlyphKeepsCount(t *testing.T) {
	s := newShaper(t)
	runs := s.Shape([]rune("a汉b"), layout.FontStyle{}, 10)
	var n int
	for _, r := range runs {
		n += len(r.Glyphs)
	}
	if n != 3 {
		t.Fatalf("every rune needs a glyph, got %d", n)
	}
}

func TestMetrics(t *testing.T) {
	s := newShaper(t)
	m := s.Metrics(layout.FontStyle{}, 20)
	if m.Ascent <= 0 || m.Descent <= 0 || m.Ascent <= m.Descent {
		t.Fatalf("unexpected metrics %+v", m)
	}
	if m.Ascent+m.Descent > 30 {
		t.Fatalf("metrics should be in pixels at size 20, got %+v", m)
	}
}
