package layout

import (
	"encoding/json"
	"os"
)

// NodeSnapshot 是某个视图在求解之后的只读快照，用于调试输出与测试。
type NodeSnapshot struct {
	Kind          string            `json:"kind"`
	ID            string            `json:"id,omitempty"`
	Width         string            `json:"width"`
	Height        string            `json:"height"`
	ContentSize   Vec2              `json:"contentSize"`
	ClientSize    Vec2              `json:"clientSize"`
	LayoutSize    Vec2              `json:"layoutSize"`
	LayoutOffset  Vec2              `json:"layoutOffset"`
	Margin        [4]float32        `json:"margin"`
	Padding       [4]float32        `json:"padding"`
	Border        *[4]float32       `json:"border,omitempty"`
	Visible       bool              `json:"visible"`
	VisibleRegion bool              `json:"visibleRegion"`
	Vertex        [4]Vec2           `json:"vertex"`
	Value         string            `json:"value,omitempty"`
	Lines         []Line            `json:"lines,omitempty"`
	Blobs         []TextBlob        `json:"blobs,omitempty"`
	Raw           map[string]string `json:"raw,omitempty"`
	Children      []NodeSnapshot    `json:"children,omitempty"`
}

// Snapshot 递归地记录 v 及其子树的布局状态。
func Snapshot(v View) NodeSnapshot {
	return snapshotView(v, nil)
}

func (r *Result) snapshot(v View) NodeSnapshot {
	return snapshotView(v, func(v View, s *NodeSnapshot) {
		s.ID = r.ids[v]
		if r.rawUnits {
			s.Raw = r.raws[v]
		}
	})
}

func snapshotView(v View, annotate func(View, *NodeSnapshot)) NodeSnapshot {
	b := v.box()
	s := NodeSnapshot{
		Kind:          v.Kind(),
		Width:         b.width.String(),
		Height:        b.height.String(),
		ContentSize:   b.contentSize,
		ClientSize:    b.clientSize,
		LayoutSize:    b.layoutSize,
		LayoutOffset:  b.layoutOffset,
		Margin:        b.margin,
		Padding:       b.padding,
		Visible:       v.Visible(),
		VisibleRegion: b.visibleRegion,
		Vertex:        b.vertex,
	}
	if b.HasBorder() {
		border := b.Border()
		s.Border = &border
	}
	switch t := v.(type) {
	case *Text:
		s.Value = t.Value()
		if t.lines != nil {
			s.Lines = t.lines.Lines()
		}
		s.Blobs = t.blobs
	case *Label:
		s.Value = t.Value()
	}
	if annotate != nil {
		annotate(v, &s)
	}
	for c := v.node().first; c != nil; c = c.node().next {
		s.Children = append(s.Children, snapshotView(c, annotate))
	}
	return s
}

// Find 深度优先查找第一个 ID 匹配的快照。
func (s *NodeSnapshot) Find(id string) *NodeSnapshot {
	if s.ID == id {
		return s
	}
	for i := range s.Children {
		if f := s.Children[i].Find(id); f != nil {
			return f
		}
	}
	return nil
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
