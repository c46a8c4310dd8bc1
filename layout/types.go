package layout

import "math"

// 该文件定义布局计算共用的基础值类型：向量、矩形、仿射矩阵与对齐方式。

// Vec2 是二维向量，单位为像素。
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Region 是轴对齐矩形，Origin 为最小点，End 为最大点。
type Region struct {
	Origin Vec2 `json:"origin"`
	End    Vec2 `json:"end"`
}

// Intersect 返回两个矩形的交集，不相交时结果的宽或高为 0。
func (r Region) Intersect(o Region) Region {
	out := Region{
		Origin: Vec2{max(r.Origin.X, o.Origin.X), max(r.Origin.Y, o.Origin.Y)},
		End:    Vec2{min(r.End.X, o.End.X), min(r.End.Y, o.End.Y)},
	}
	if out.End.X < out.Origin.X {
		out.End.X = out.Origin.X
	}
	if out.End.Y < out.Origin.Y {
		out.End.Y = out.Origin.Y
	}
	return out
}

// Mat 是 2x3 仿射矩阵：x' = A*x + B*y + C，y' = D*x + E*y + F。
type Mat struct {
	A, B, C float32
	D, E, F float32
}

// Identity 返回单位矩阵。
func Identity() Mat { return Mat{A: 1, E: 1} }

// Translate 返回平移矩阵。
func Translate(x, y float32) Mat { return Mat{A: 1, C: x, E: 1, F: y} }

// Scale 返回缩放矩阵。
func Scale(x, y float32) Mat { return Mat{A: x, E: y} }

// Rotate 返回绕原点旋转 deg 度的矩阵。
func Rotate(deg float32) Mat {
	rad := float64(deg) * math.Pi / 180
	s, c := float32(math.Sin(rad)), float32(math.Cos(rad))
	return Mat{A: c, B: -s, D: s, E: c}
}

// Skew 返回错切矩阵，参数为角度。
func Skew(x, y float32) Mat {
	tx := float32(math.Tan(float64(x) * math.Pi / 180))
	ty := float32(math.Tan(float64(y) * math.Pi / 180))
	return Mat{A: 1, B: tx, D: ty, E: 1}
}

// Mul 返回 m × o，即先应用 o 再应用 m。
func (m Mat) Mul(o Mat) Mat {
	return Mat{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Apply 变换一个点。
func (m Mat) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Align 是九宫格对齐方式，AlignAuto 按 LeftTop 处理。
// 作为文本内联视图时，只使用其垂直分量，AlignAuto 表示基线对齐。
type Align uint8

const (
	AlignAuto Align = iota
	AlignLeftTop
	AlignCenterTop
	AlignRightTop
	AlignLeftMiddle
	AlignCenterMiddle
	AlignRightMiddle
	AlignLeftBottom
	AlignCenterBottom
	AlignRightBottom
)

var alignNames = map[Align]string{
	AlignAuto:         "auto",
	AlignLeftTop:      "left-top",
	AlignCenterTop:    "center-top",
	AlignRightTop:     "right-top",
	AlignLeftMiddle:   "left-middle",
	AlignCenterMiddle: "center-middle",
	AlignRightMiddle:  "right-middle",
	AlignLeftBottom:   "left-bottom",
	AlignCenterBottom: "center-bottom",
	AlignRightBottom:  "right-bottom",
}

func (a Align) String() string {
	if s, ok := alignNames[a]; ok {
		return s
	}
	return "auto"
}

// factors 返回水平与垂直方向的对齐系数（0、0.5 或 1）。
func (a Align) factors() (fx, fy float32) {
	if a == AlignAuto {
		return 0, 0
	}
	i := int(a) - 1
	return float32(i%3) * 0.5, float32(i/3) * 0.5
}

// withVertical 保留水平分量，替换垂直分量（0 上、1 中、2 下）。
func (a Align) withVertical(v int) Align {
	h := 0
	if a != AlignAuto {
		h = (int(a) - 1) % 3
	}
	return Align(1 + v*3 + h)
}

// withHorizontal 保留垂直分量，替换水平分量（0 左、1 中、2 右）。
func (a Align) withHorizontal(h int) Align {
	v := 0
	if a != AlignAuto {
		v = (int(a) - 1) / 3
	}
	return Align(1 + v*3 + h)
}

// Direction 是 Flex 的主轴方向。
type Direction uint8

const (
	DirectionRow Direction = iota
	DirectionColumn
)

func (d Direction) String() string {
	if d == DirectionColumn {
		return "column"
	}
	return "row"
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

func clampZero(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}

var inf = float32(math.Inf(1))

func isInf(v float32) bool { return math.IsInf(float64(v), 1) }
