package layout

import (
	"fmt"
	"sync"

	"github.com/ByLCY/quill/debug"
)

// Debug 打开后结构性断言失败会 panic，否则只写调试日志。
var Debug bool

func assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if Debug {
		panic("layout: " + msg)
	}
	debug.Logf("layout: assert: %s", msg)
}

// maxSolveRounds 限制一次 SolveMarks 的前向/反向轮数，超过说明约束在振荡。
const maxSolveRounds = 256

// Task 是非渲染线程提交的延迟修改，在下一次 Solve 开始时执行一次。
type Task struct {
	target *Node
	apply  func()
}

// PreRender 按树深度保存脏节点，并驱动前向/反向遍历直到不动点。
// 除 Post 外的方法都只能在渲染线程上调用。
type PreRender struct {
	window     Window
	typesetter Typesetter
	root       *Root

	textDefaults TextOptions

	marks       [][]*Node
	markTotal   int
	solving     bool
	renderDirty bool

	mu    sync.Mutex
	tasks []Task
}

// NewPreRender 创建调度器及其 Root 视图。
func NewPreRender(window Window, ts Typesetter) *PreRender {
	p := &PreRender{
		window:       window,
		typesetter:   ts,
		textDefaults: DefaultTextOptions(),
		renderDirty:  true,
	}
	p.root = newRoot(p)
	return p
}

func (p *PreRender) Root() *Root            { return p.root }
func (p *PreRender) Window() Window         { return p.window }
func (p *PreRender) Typesetter() Typesetter { return p.typesetter }
func (p *PreRender) MarkTotal() int         { return p.markTotal }

// TextDefaults 返回 Text 视图继承的默认样式。
func (p *PreRender) TextDefaults() TextOptions { return p.textDefaults }

// SetTextDefaults 设置默认样式，未设置的字段取 DefaultTextOptions。
// 只影响之后的排版，已完成排版的 Text 不会被重新标记。
func (p *PreRender) SetTextDefaults(o TextOptions) {
	p.textDefaults = o.Inherit(DefaultTextOptions())
}

// SetWindow 替换窗口，Root 会在下一次求解时重新计算尺寸。
func (p *PreRender) SetWindow(w Window, isRt bool) {
	p.root.rt(isRt, func() {
		p.window = w
		p.root.markLayout(MarkLayoutSize)
		p.root.markRender(MarkRecursiveTransform)
	})
}

// Post 把任务加入队列，可在任意 goroutine 调用。
func (p *PreRender) Post(t Task) {
	p.mu.Lock()
	p.tasks = append(p.tasks, t)
	p.mu.Unlock()
}

// drainTasks 取出并执行所有挂起任务，执行期间不持有锁；目标已销毁的任务被丢弃。
func (p *PreRender) drainTasks() int {
	p.mu.Lock()
	tasks := p.tasks
	p.tasks = nil
	p.mu.Unlock()

	n := 0
	for _, t := range tasks {
		if t.target != nil && t.target.destroyed {
			continue
		}
		t.apply()
		n++
	}
	return n
}

func (p *PreRender) mark(n *Node, level int) {
	assert(n.markIndex < 0, "节点重复标记")
	if n.parent != nil {
		assert(n.parent.node().level+1 == level, "节点层级 %d 与父节点 %d 不一致", level, n.parent.node().level)
	}
	for len(p.marks) <= level {
		p.marks = append(p.marks, nil)
	}
	n.markIndex = len(p.marks[level])
	p.marks[level] = append(p.marks[level], n)
	p.markTotal++
}

// unmark 把节点从所在层级移除：末尾元素移到空位，O(1)。
func (p *PreRender) unmark(n *Node, level int) {
	if n.markIndex < 0 {
		return
	}
	if level >= len(p.marks) {
		assert(false, "层级 %d 不存在", level)
		return
	}
	bucket := p.marks[level]
	i := n.markIndex
	if i >= len(bucket) || bucket[i] != n {
		assert(false, "节点不在层级 %d 的队列中", level)
		return
	}
	last := len(bucket) - 1
	bucket[i] = bucket[last]
	bucket[i].markIndex = i
	bucket[last] = nil
	p.marks[level] = bucket[:last]
	n.markIndex = -1
	p.markTotal--
	assert(p.markTotal >= 0, "待处理数量为负")
}

// SolveMarks 交替执行前向（浅到深）与反向（深到浅）遍历，直到没有脏节点。
// 遍历中产生的新标记在同一轮或下一轮被处理；重入调用直接返回。
func (p *PreRender) SolveMarks() {
	if p.solving {
		return
	}
	p.solving = true
	defer func() { p.solving = false }()

	for round := 0; p.markTotal > 0; round++ {
		if round >= maxSolveRounds {
			debug.Logf("prerender: %d 轮后仍有 %d 个脏节点", round, p.markTotal)
			assert(false, "布局未收敛")
			return
		}
		for level := 0; level < len(p.marks); level++ {
			for i := 0; i < len(p.marks[level]); {
				n := p.marks[level][i]
				if n.self.LayoutForward(n.mark) && n.mark&MarkLayout == 0 {
					p.unmark(n, level)
					continue
				}
				i++
			}
		}
		for level := len(p.marks) - 1; level >= 0; level-- {
			for i := 0; i < len(p.marks[level]); {
				n := p.marks[level][i]
				if n.mark&MarkLayoutSize != 0 {
					// 尺寸还没在前向遍历中求解
					i++
					continue
				}
				if n.self.LayoutReverse(n.mark) && n.mark&MarkLayout == 0 {
					p.unmark(n, level)
					continue
				}
				i++
			}
		}
	}
}

// Solve 是每帧的入口：执行挂起任务、求解布局、更新可见区域。
// 返回 true 表示有需要重新绘制的变化。
func (p *PreRender) Solve() bool {
	if n := p.drainTasks(); n > 0 {
		debug.Logf("prerender: 执行了 %d 个任务", n)
	}
	p.SolveMarks()
	if !p.renderDirty {
		return false
	}
	p.renderDirty = false
	clip := p.window.ClipRegion()
	p.solveVisible(p.root, Scale(p.window.Scale(), p.window.Scale()), clip, false)
	return true
}

// solveVisible 自上而下重新计算矩阵与可见区域，clip 视图会收窄子树的裁剪区域。
func (p *PreRender) solveVisible(v View, parent Mat, clip Region, force bool) {
	n := v.node()
	b := v.box()
	if !n.visible {
		b.visibleRegion = false
		n.mark &^= markRender
		return
	}
	force = force || n.mark&MarkRecursiveTransform != 0
	if force {
		b.matrix = v.solveMatrix(parent)
	}
	if force || n.mark&MarkRecursiveVisibleRegion != 0 || clip != b.lastClip {
		b.lastClip = clip
		v.SolveVisibleRegion(b.matrix, clip)
	}
	n.mark &^= markRender

	childClip := clip
	if b.clip {
		childClip = clip.Intersect(b.bounds())
	}
	for c := n.first; c != nil; c = c.node().next {
		p.solveVisible(c, b.matrix, childClip, force)
	}
}
