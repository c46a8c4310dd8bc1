package layout

// Window 提供窗口尺寸、设备缩放与当前裁剪区域，布局只读取它。
type Window interface {
	// Size 返回逻辑像素尺寸。
	Size() Vec2
	Scale() float32
	// ClipRegion 返回设备像素坐标下的裁剪矩形。
	ClipRegion() Region
}

// StaticWindow 是固定尺寸的 Window，用于命令行与测试。
type StaticWindow struct {
	Width      float32
	Height     float32
	PixelScale float32
}

func (w StaticWindow) Size() Vec2 { return Vec2{w.Width, w.Height} }

func (w StaticWindow) Scale() float32 {
	if w.PixelScale <= 0 {
		return 1
	}
	return w.PixelScale
}

func (w StaticWindow) ClipRegion() Region {
	s := w.Scale()
	return Region{End: Vec2{w.Width * s, w.Height * s}}
}

// Root 是视图树的根，层级固定为 1，内容尺寸取窗口尺寸减去自身边距。
type Root struct {
	Box
}

func newRoot(p *PreRender) *Root {
	r := &Root{}
	r.initBox(r)
	r.width, r.height = MatchSize, MatchSize
	r.level = 1
	r.owner.Store(p)
	r.markLayout(MarkLayout)
	return r
}

func (r *Root) Kind() string { return "root" }

func (r *Root) SolveContentWidth(parent *Size) float32 {
	parent.WrapX = false
	return clampZero(r.preRender().window.Size().X - r.edgeX())
}

func (r *Root) SolveContentHeight(parent *Size) float32 {
	parent.WrapY = false
	return clampZero(r.preRender().window.Size().Y - r.edgeY())
}

// Remove 与 Destroy 对 Root 无效。
func (r *Root) Remove(isRt bool)  {}
func (r *Root) Destroy(isRt bool) {}
