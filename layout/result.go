package layout

// Result 是 Build 的输出：求解完成的视图树、文档元信息与资源表。
type Result struct {
	Window    StaticWindow `json:"window"`
	Meta      DocumentMeta `json:"meta"`
	Resources ResourceSet  `json:"resources"`
	Tree      NodeSnapshot `json:"tree"`

	PreRender *PreRender `json:"-"`

	views    map[string]View
	ids      map[View]string
	raws     map[View]map[string]string
	bindings []textBinding
	rawUnits bool
}

// DocumentMeta 记录 meta 段中的元信息。
type DocumentMeta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// ResourceSet 汇总 resources 段中声明的字体、颜色与样式。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]Color        `json:"colors"`
	Styles map[string]Style        `json:"styles"`
}

// Style 是一组可复用的属性，Extends 指向被继承的样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// Root 返回视图树的根。
func (r *Result) Root() *Root { return r.PreRender.Root() }

// View 按 id 属性查找视图。
func (r *Result) View(id string) View { return r.views[id] }

// Solve 执行挂起的任务并求解布局，然后刷新 Tree 快照。
func (r *Result) Solve() bool {
	changed := r.PreRender.Solve()
	r.Tree = r.snapshot(r.PreRender.Root())
	return changed
}

// Bind 用新的数据重新计算所有带 ${...} 的文本。可以在任意 goroutine 调用，
// 修改以任务的形式进入队列，在下一次 Solve 时生效。
func (r *Result) Bind(data any) {
	for _, b := range r.bindings {
		b.set(b.tpl.Execute(data), false)
	}
}
