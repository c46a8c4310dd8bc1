package layout

import "strconv"

// BoxSizeKind 描述一个轴向尺寸约束的求解方式。
type BoxSizeKind uint8

const (
	None  BoxSizeKind = iota // 未设置；尺寸按 Wrap 处理，限制值表示不限制
	Wrap                     // 由内容决定
	Pixel                    // 固定像素值
	Match                    // 填满父视图内容区（扣除自身 margin/padding/border）
	Ratio                    // 父视图内容尺寸 × Value
	Minus                    // 父视图内容尺寸 − Value
)

func (k BoxSizeKind) String() string {
	switch k {
	case Wrap:
		return "wrap"
	case Pixel:
		return "pixel"
	case Match:
		return "match"
	case Ratio:
		return "ratio"
	case Minus:
		return "minus"
	default:
		return "none"
	}
}

// BoxSize 是不可变的尺寸约束值，可直接用 == 比较以识别无效写入。
type BoxSize struct {
	Kind  BoxSizeKind `json:"kind"`
	Value float32     `json:"value"`
}

var (
	WrapSize  = BoxSize{Kind: Wrap}
	MatchSize = BoxSize{Kind: Match}
)

// Px 返回固定像素约束。
func Px(v float32) BoxSize { return BoxSize{Kind: Pixel, Value: v} }

// RatioOf 返回比例约束，v 为 0~1 的系数。
func RatioOf(v float32) BoxSize { return BoxSize{Kind: Ratio, Value: v} }

// MinusOf 返回差值约束。
func MinusOf(v float32) BoxSize { return BoxSize{Kind: Minus, Value: v} }

// String 输出与标记语言一致的写法：wrap、match、50%、20!、120。
func (s BoxSize) String() string {
	switch s.Kind {
	case Wrap:
		return "wrap"
	case Match:
		return "match"
	case Pixel:
		return strconv.FormatFloat(float64(s.Value), 'f', -1, 32)
	case Ratio:
		return strconv.FormatFloat(float64(s.Value*100), 'f', -1, 32) + "%"
	case Minus:
		return strconv.FormatFloat(float64(s.Value), 'f', -1, 32) + "!"
	default:
		return "none"
	}
}

// dependsOnParent 表示该约束的结果随父视图内容尺寸变化。
func (s BoxSize) dependsOnParent() bool {
	return s.Kind == Match || s.Kind == Ratio || s.Kind == Minus
}

// Size 是前向遍历中父视图传给子视图的临时尺寸描述。
// WrapX/WrapY 在一次求解调用中被读写：读到的是父视图是否仍不确定，
// 写回的是当前视图该轴是否仍不确定。
type Size struct {
	Layout  Vec2
	Content Vec2
	WrapX   bool
	WrapY   bool
}

// solveAxis 按 BoxSize 求解单个轴的内容尺寸。
// edges 为该轴上 margin + padding + border 之和，仅 Match 使用。
func solveAxis(s BoxSize, parent float32, wrap *bool, edges float32) float32 {
	switch s.Kind {
	case Pixel:
		*wrap = false
		return clampZero(s.Value)
	case Match:
		if *wrap {
			return 0
		}
		return clampZero(parent - edges)
	case Ratio:
		if *wrap {
			return 0
		}
		return clampZero(parent * s.Value)
	case Minus:
		if *wrap {
			return 0
		}
		return clampZero(parent - s.Value)
	default: // Wrap, None
		*wrap = true
		return 0
	}
}

// solveLimit 求解尺寸上限，无法确定时返回 +Inf。
func solveLimit(s BoxSize, parent float32, parentWrap bool, edges float32) float32 {
	switch s.Kind {
	case Pixel:
		return clampZero(s.Value)
	case Match, Ratio, Minus:
		if parentWrap {
			return inf
		}
		wrap := false
		return solveAxis(s, parent, &wrap, edges)
	default:
		return inf
	}
}
