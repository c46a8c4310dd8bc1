package layout

// Transform 在 Box 的基础上叠加平移、缩放、旋转与错切，变换绕 origin 进行。
// 变换只影响矩阵与可见区域，不影响父视图的排版。
type Transform struct {
	Box
	translate Vec2
	scale     Vec2
	rotate    float32
	skew      Vec2
	origin    Vec2
}

func NewTransform() *Transform {
	t := &Transform{scale: Vec2{1, 1}}
	t.initBox(t)
	return t
}

func (t *Transform) Kind() string { return "transform" }

func (t *Transform) Translate() Vec2 { return t.translate }
func (t *Transform) Scale() Vec2     { return t.scale }
func (t *Transform) Rotate() float32 { return t.rotate }
func (t *Transform) Skew() Vec2      { return t.skew }
func (t *Transform) Origin() Vec2    { return t.origin }

func (t *Transform) set(apply func() bool, isRt bool) {
	t.rt(isRt, func() {
		if apply() {
			t.markRender(MarkRecursiveTransform)
		}
	})
}

func (t *Transform) SetTranslate(v Vec2, isRt bool) {
	t.set(func() bool {
		changed := t.translate != v
		t.translate = v
		return changed
	}, isRt)
}

func (t *Transform) SetScale(v Vec2, isRt bool) {
	t.set(func() bool {
		changed := t.scale != v
		t.scale = v
		return changed
	}, isRt)
}

// SetRotate 设置旋转角度（度）。
func (t *Transform) SetRotate(deg float32, isRt bool) {
	t.set(func() bool {
		changed := t.rotate != deg
		t.rotate = deg
		return changed
	}, isRt)
}

// SetSkew 设置两个方向的错切角度（度）。
func (t *Transform) SetSkew(v Vec2, isRt bool) {
	t.set(func() bool {
		changed := t.skew != v
		t.skew = v
		return changed
	}, isRt)
}

// SetOrigin 设置变换原点，相对 client 区左上角。
func (t *Transform) SetOrigin(v Vec2, isRt bool) {
	t.set(func() bool {
		changed := t.origin != v
		t.origin = v
		return changed
	}, isRt)
}

func (t *Transform) solveMatrix(parent Mat) Mat {
	m := t.Box.solveMatrix(parent)
	o := t.origin
	m = m.Mul(Translate(t.translate.X+o.X, t.translate.Y+o.Y))
	m = m.Mul(Rotate(t.rotate))
	m = m.Mul(Skew(t.skew.X, t.skew.Y))
	m = m.Mul(Scale(t.scale.X, t.scale.Y))
	return m.Mul(Translate(-o.X, -o.Y))
}
