package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit 记录长度在标记中书写时的单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位，按像素处理
	UnitPX
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	// DefaultDPI 是 CSS 参考像素密度。
	DefaultDPI = 96.0
)

var unitNames = [...]string{UnitNone: "", UnitPX: "px", UnitMM: "mm", UnitCM: "cm", UnitIN: "in", UnitPT: "pt"}

// perInch 是每英寸包含多少个该单位；像素没有固定值，取决于 dpi。
var perInch = map[Unit]float64{UnitMM: 25.4, UnitCM: 2.54, UnitIN: 1, UnitPT: 72}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return ""
	}
	return unitNames[u]
}

// Length 保留数值与原始单位，直到知道 dpi 时才换算。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPX 按 dpi 换算为像素，dpi<=0 时使用 DefaultDPI。
func (l Length) ToPX(dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	n, ok := perInch[l.Unit]
	if !ok {
		return l.Value
	}
	return l.Value / n * dpi
}

// ToMM 换算为毫米，像素按 DefaultDPI 计算。
func (l Length) ToMM() float64 {
	if n, ok := perInch[l.Unit]; ok {
		return l.Value / n * 25.4
	}
	return l.Value / DefaultDPI * 25.4
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseRawLengthStr 解析 12、12px、3mm 等长度，保留原始单位。
func ParseRawLengthStr(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	for u := UnitPX; u <= UnitPT; u++ {
		if num, found := strings.CutSuffix(v, u.String()); found {
			unit, v = u, strings.TrimSpace(num)
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseBoxSize parses wrap|auto、match|full、none、50%、20!、120、12mm。
func ParseBoxSize(value string, dpi float64) (BoxSize, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "none":
		return BoxSize{}, nil
	case "wrap", "auto":
		return WrapSize, nil
	case "match", "full":
		return MatchSize, nil
	}
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return BoxSize{}, fmt.Errorf("无法解析比例 %q: %w", value, err)
		}
		return RatioOf(float32(f / 100)), nil
	}
	if strings.HasSuffix(v, "!") {
		l, err := ParseRawLengthStr(strings.TrimSuffix(v, "!"))
		if err != nil {
			return BoxSize{}, err
		}
		return MinusOf(float32(l.ToPX(dpi))), nil
	}
	l, err := ParseRawLengthStr(v)
	if err != nil {
		return BoxSize{}, err
	}
	return Px(float32(l.ToPX(dpi))), nil
}

// LineHeightKind 区分行高来源：继承、字体度量、倍数或绝对长度。
type LineHeightKind int

const (
	LineHeightInherit LineHeightKind = iota
	LineHeightAuto
	LineHeightFactor
	LineHeightAbsolute
)

// LineHeightSpec 保留书写时的意图，1.2x 记为倍数，18pt 记为绝对长度。
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// Resolve 按字号（px）求出行高；auto 与继承时 ok 为 false，由字体度量决定。
func (s LineHeightSpec) Resolve(fontSize float32, dpi float64) (px float32, ok bool) {
	switch s.Kind {
	case LineHeightFactor:
		return fontSize * float32(s.Factor), true
	case LineHeightAbsolute:
		return float32(s.Len.ToPX(dpi)), true
	default:
		return 0, false
	}
}

// ParseLineHeight parses auto、1.2x 或绝对长度。
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "" || v == "inherit":
		return LineHeightSpec{}, nil
	case v == "auto" || v == "normal":
		return LineHeightSpec{Kind: LineHeightAuto}, nil
	case strings.HasSuffix(v, "x"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, fmt.Errorf("无法解析行高倍数 %q", value)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, nil
	default:
		l, err := ParseRawLengthStr(v)
		if err != nil {
			return LineHeightSpec{}, err
		}
		return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
	}
}
