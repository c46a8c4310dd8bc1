package layout

import "sync/atomic"

// View 是视图树协议与布局虚表。
// 所有具体视图（Box、Flex、Image、Text、Label、Transform、Root）都直接实现该接口，
// 共享的默认实现位于 *Box，其余类型显式地委托给它。接口包含未导出方法，集合是封闭的。
type View interface {
	node() *Node
	box() *Box

	// Kind 返回视图类型名，用于调试输出。
	Kind() string

	SolveContentWidth(parent *Size) float32
	SolveContentHeight(parent *Size) float32
	// LayoutForward 返回 true 表示本轮前向工作已完成。
	LayoutForward(mark Mark) bool
	// LayoutReverse 返回 true 表示排版已完成，可以移出调度队列。
	LayoutReverse(mark Mark) bool
	// LayoutText 让视图参与宿主 Text 的行排版。
	LayoutText(lines *TextLines, host *Text)
	IsLockChildLayoutSize(child View) bool
	OnChildLayoutChange(child View, mark Mark)
	OnParentLayoutContentSizeChange(parent View, mark Mark)
	SolveVisibleRegion(mat Mat, clip Region) bool
	solveMatrix(parent Mat) Mat

	LayoutAlign() Align
	LayoutWeight() float32
	Visible() bool
}

// Node 保存树链接、层级与脏标记状态，嵌入在每个视图中。
type Node struct {
	self   View
	parent View
	first  View
	last   View
	prev   View
	next   View

	level     int // 0 表示未挂载到 Root
	mark      Mark
	markIndex int
	visible   bool
	destroyed bool
	// owner 在第一次挂载时由渲染线程写入，其他线程只通过 rt 读取。
	// 挂载之前节点归创建它的 goroutine 独占。
	owner atomic.Pointer[PreRender]
}

func (n *Node) init(self View) {
	n.self = self
	n.markIndex = -1
	n.visible = true
}

func (n *Node) node() *Node { return n }

func (n *Node) Parent() View { return n.parent }
func (n *Node) First() View  { return n.first }
func (n *Node) Last() View   { return n.last }
func (n *Node) Next() View   { return n.next }
func (n *Node) Prev() View   { return n.prev }

// Level 返回节点深度，Root 为 1，未挂载为 0。
func (n *Node) Level() int { return n.level }

// LayoutMark 返回当前脏标记。
func (n *Node) LayoutMark() Mark { return n.mark }

func (n *Node) Visible() bool { return n.visible }

// Destroyed 表示节点已被销毁，挂起的任务将被丢弃。
func (n *Node) Destroyed() bool { return n.destroyed }

func (n *Node) preRender() *PreRender { return n.owner.Load() }

// rt 在渲染线程上直接执行 apply，否则包装为任务投递到 PreRender 队列。
// 从未挂载过的节点直接执行。
func (n *Node) rt(isRt bool, apply func()) {
	pre := n.preRender()
	if isRt || pre == nil {
		apply()
		return
	}
	pre.Post(Task{target: n, apply: apply})
}

func (n *Node) markLayout(mark Mark) {
	n.mark |= mark
	if pre := n.preRender(); n.markIndex < 0 && n.level > 0 && pre != nil {
		pre.mark(n, n.level)
	}
}

func (n *Node) unmarkLayout(mark Mark) {
	n.mark &^= mark
}

func (n *Node) markRender(mark Mark) {
	n.mark |= mark & markRender
	if pre := n.preRender(); pre != nil {
		pre.renderDirty = true
	}
}

// Append 把 child 加为最后一个子视图。
func (n *Node) Append(child View, isRt bool) {
	n.rt(isRt, func() { n.link(child, false) })
}

// Prepend 把 child 加为第一个子视图。
func (n *Node) Prepend(child View, isRt bool) {
	n.rt(isRt, func() { n.link(child, true) })
}

// Remove 把节点从父视图移除。
func (n *Node) Remove(isRt bool) {
	n.rt(isRt, n.unlink)
}

// Destroy 移除节点并把整棵子树标记为已销毁。
func (n *Node) Destroy(isRt bool) {
	n.rt(isRt, func() {
		n.unlink()
		n.destroy()
	})
}

func (n *Node) destroy() {
	n.destroyed = true
	for c := n.first; c != nil; c = c.node().next {
		c.node().destroy()
	}
}

func (n *Node) link(child View, front bool) {
	c := child.node()
	if c.destroyed || n.destroyed {
		return
	}
	for p := n.self; p != nil; p = p.node().parent {
		if p == child {
			assert(false, "视图不能挂载到自己的子树中")
			return
		}
	}
	if c.parent != nil {
		c.unlink()
	}
	var prev, next View
	if front {
		next = n.first
	} else {
		prev = n.last
	}
	c.parent = n.self
	c.prev = prev
	c.next = next
	if prev != nil {
		prev.node().next = child
	} else {
		n.first = child
	}
	if next != nil {
		next.node().prev = child
	} else {
		n.last = child
	}
	level := 0
	if n.level > 0 {
		level = n.level + 1
	}
	c.setLevel(level, n.preRender())
	c.markLayout(MarkLayout)
	c.markRender(MarkRecursiveTransform)
	n.self.OnChildLayoutChange(child, ChildLayoutVisible)
}

func (n *Node) unlink() {
	p := n.parent
	if p == nil {
		return
	}
	pn := p.node()
	if n.prev != nil {
		n.prev.node().next = n.next
	} else {
		pn.first = n.next
	}
	if n.next != nil {
		n.next.node().prev = n.prev
	} else {
		pn.last = n.prev
	}
	n.parent, n.prev, n.next = nil, nil, nil
	n.setLevel(0, nil)
	p.OnChildLayoutChange(n.self, ChildLayoutVisible)
}

func (n *Node) setLevel(level int, pre *PreRender) {
	if old := n.preRender(); n.markIndex >= 0 && old != nil {
		old.unmark(n, n.level)
	}
	n.level = level
	// 卸载后保留 owner，其他线程对已卸载节点的写入仍然排队。
	if pre != nil {
		n.owner.Store(pre)
	}
	if level > 0 && pre != nil && n.mark&MarkLayout != 0 {
		pre.mark(n, level)
	}
	child := 0
	if level > 0 {
		child = level + 1
	}
	for c := n.first; c != nil; c = c.node().next {
		c.node().setLevel(child, pre)
	}
}
