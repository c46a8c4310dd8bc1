package cell

import (
	"reflect"
	"testing"

	"github.com/ByLCY/quill/layout"
)

func TestWideRunesTakeTwoColumns(t *testing.T) {
	s := New(8, 16, false)
	run := s.Shape([]rune("a汉b"), layout.FontStyle{}, 12)[0]
	if want := []float32{0, 8, 24, 32}; !reflect.DeepEqual(run.Offsets, want) {
		t.Fatalf("offsets %v, want %v", run.Offsets, want)
	}
	if s.Columns("a汉b") != 4 {
		t.Fatalf("expected 4 columns")
	}
}

func TestZeroWidthRunes(t *testing.T) {
	s := New(8, 16, false)
	run := s.Shape([]rune("e\u0301"), layout.FontStyle{}, 12)[0]
	if run.Width() != 8 || len(run.Glyphs) != 2 {
		t.Fatalf("combining mark should not advance, got %+v", run)
	}
}

func TestMetricsIgnoreFontSize(t *testing.T) {
	s := New(8, 20, false)
	if s.Metrics(layout.FontStyle{}, 10) != s.Metrics(layout.FontStyle{}, 40) {
		t.Fatalf("cell metrics should not depend on font size")
	}
	m := s.Metrics(layout.FontStyle{}, 10)
	if m.Ascent+m.Descent != 20 {
		t.Fatalf("ascent + descent should equal the row height, got %+v", m)
	}
}

func TestCellShaperDrivesLayout(t *testing.T) {
	pre := layout.NewPreRender(layout.StaticWindow{Width: 80, Height: 48}, New(8, 16, false))
	txt := layout.NewText()
	pre.Root().Append(txt, true)
	txt.SetWidth(layout.MatchSize, true)
	txt.SetValue("hello terminal grid", true)
	pre.Solve()

	lines := txt.Lines().Lines()
	if len(lines) != 3 {
		t.Fatalf("expected three lines in a 10 column window, got %+v", lines)
	}
	if lines[0].Width != 40 || lines[1].Width != 64 || lines[2].Width != 32 {
		t.Fatalf("unexpected line widths %g, %g, %g", lines[0].Width, lines[1].Width, lines[2].Width)
	}
	if got := txt.ContentSize().Y; got != 48 {
		t.Fatalf("three rows of 16px expected, got %g", got)
	}
}
