package layout

// quadOf 把局部矩形经 mat 投影为四个顶点：左上、右上、右下、左下。
func quadOf(mat Mat, r Region) [4]Vec2 {
	return [4]Vec2{
		mat.Apply(r.Origin),
		mat.Apply(Vec2{r.End.X, r.Origin.Y}),
		mat.Apply(r.End),
		mat.Apply(Vec2{r.Origin.X, r.End.Y}),
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// boundsOfQuad 由四边形求轴对齐包围盒：先用水平跨度较大的一条对角线确定初始范围，
// 再并入另一条对角线的两个顶点。结果总是包含整个四边形。
func boundsOfQuad(v [4]Vec2) Region {
	a, b, c, d := v[0], v[2], v[1], v[3]
	if abs32(c.X-d.X) > abs32(a.X-b.X) {
		a, b, c, d = c, d, a, b
	}
	r := Region{
		Origin: Vec2{min(a.X, b.X), min(a.Y, b.Y)},
		End:    Vec2{max(a.X, b.X), max(a.Y, b.Y)},
	}
	for _, p := range [2]Vec2{c, d} {
		r.Origin.X = min(r.Origin.X, p.X)
		r.Origin.Y = min(r.Origin.Y, p.Y)
		r.End.X = max(r.End.X, p.X)
		r.End.Y = max(r.End.Y, p.Y)
	}
	return r
}

// overlaps 对两个轴分别做一维区间相交测试，仅接触边界不算相交。
func overlaps(a, b Region) bool {
	return a.Origin.X < b.End.X && b.Origin.X < a.End.X &&
		a.Origin.Y < b.End.Y && b.Origin.Y < a.End.Y
}

func cross(o, a, p Vec2) float32 {
	return (a.X-o.X)*(p.Y-o.Y) - (a.Y-o.Y)*(p.X-o.X)
}

// quadContains 判断点是否在凸四边形内：
// 对边 v0v1 与 v2v3、v1v2 与 v3v0 的叉积符号分别相同时点在内部。
func quadContains(v [4]Vec2, p Vec2) bool {
	if cross(v[0], v[1], p)*cross(v[2], v[3], p) < 0 {
		return false
	}
	return cross(v[1], v[2], p)*cross(v[3], v[0], p) >= 0
}
