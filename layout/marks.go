package layout

// Mark 是互相正交的脏标记位，用按位或组合。
// 标记只表达“需要做什么”，先后顺序由 PreRender 的前向/反向两阶段遍历保证。
type Mark uint32

const (
	MarkNone Mark = 0

	MarkLayoutSizeWidth   Mark = 1 << 0 // 需要重新求解宽度
	MarkLayoutSizeHeight  Mark = 1 << 1 // 需要重新求解高度
	MarkLayoutTypesetting Mark = 1 << 2 // 子视图需要重新排列

	MarkRecursiveTransform     Mark = 1 << 3 // 自身及子树矩阵需要重新计算
	MarkRecursiveVisibleRegion Mark = 1 << 4 // 自身可见区域需要重新计算

	MarkLayoutSize = MarkLayoutSizeWidth | MarkLayoutSizeHeight
	MarkLayout     = MarkLayoutSize | MarkLayoutTypesetting
	markRender     = MarkRecursiveTransform | MarkRecursiveVisibleRegion
)

// 子视图通知父视图时携带的变化类型。
const (
	ChildLayoutSize    Mark = 1 << 8
	ChildLayoutVisible Mark = 1 << 9
	ChildLayoutAlign   Mark = 1 << 10
	ChildLayoutWeight  Mark = 1 << 11
	ChildLayoutText    Mark = 1 << 12
)
