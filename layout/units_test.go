package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthToPX 覆盖 Length 在常见单位上换算到像素的结果。
func TestLengthToPX(t *testing.T) {
	cases := []struct {
		in   Length
		dpi  float64
		want float64
	}{
		{Length{Value: 1, Unit: UnitIN}, 0, 96},
		{Length{Value: 2.54, Unit: UnitCM}, 96, 96},
		{Length{Value: 25.4, Unit: UnitMM}, 300, 300},
		{Length{Value: 72, Unit: UnitPT}, 96, 96},
		{Length{Value: 14, Unit: UnitPX}, 300, 14},
		{Length{Value: 14}, 300, 14},
	}
	for _, c := range cases {
		if got := c.in.ToPX(c.dpi); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%s @%gdpi 期望 %g，实际 %g", c.in, c.dpi, c.want, got)
		}
	}
	if got := (Length{Value: 1, Unit: UnitIN}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
}

func TestParseBoxSize(t *testing.T) {
	cases := map[string]BoxSize{
		"":      {},
		"none":  {},
		"wrap":  WrapSize,
		"auto":  WrapSize,
		"match": MatchSize,
		"50%":   RatioOf(0.5),
		"20!":   MinusOf(20),
		"120":   Px(120),
		"1in":   Px(96),
	}
	for in, want := range cases {
		got, err := ParseBoxSize(in, DefaultDPI)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
	if _, err := ParseBoxSize("abc", DefaultDPI); err == nil {
		t.Fatalf("expected error for invalid size")
	}
	if got := RatioOf(0.5).String(); got != "50%" {
		t.Fatalf("ratio string: %s", got)
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	factor, err := ParseLineHeight("1.5x")
	if err != nil {
		t.Fatalf("parse factor: %v", err)
	}
	if px, ok := factor.Resolve(20, DefaultDPI); !ok || px != 30 {
		t.Fatalf("1.5x of 20px should be 30, got %g %v", px, ok)
	}
	abs, err := ParseLineHeight("18pt")
	if err != nil {
		t.Fatalf("parse absolute: %v", err)
	}
	if px, ok := abs.Resolve(20, DefaultDPI); !ok || px != 24 {
		t.Fatalf("18pt at 96dpi should be 24px, got %g %v", px, ok)
	}
	auto, err := ParseLineHeight("auto")
	if err != nil {
		t.Fatalf("parse auto: %v", err)
	}
	if _, ok := auto.Resolve(20, DefaultDPI); ok {
		t.Fatalf("auto line height should defer to font metrics")
	}
}
