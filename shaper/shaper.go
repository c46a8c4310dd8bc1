// Package shaper 按名称创建 layout.Typesetter 的具体实现。
package shaper

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ByLCY/quill/layout"
	"github.com/ByLCY/quill/shaper/canvas"
	"github.com/ByLCY/quill/shaper/cell"
	"github.com/ByLCY/quill/shaper/sfnt"
)

const (
	KindSFNT   = "sfnt"
	KindCanvas = "canvas"
	KindCell   = "cell"
)

// Options 是各后端共用的配置。
type Options struct {
	BaseDir string
	// Fonts 是额外注册的字体，键为族名，值为 src（路径或 builtin:*）。
	Fonts   map[string]string
	Kerning bool
	// CellWidth/CellHeight 只对 cell 后端有效。
	CellWidth  float32
	CellHeight float32
	EastAsian  bool
}

// New 根据 kind 创建排版后端，kind 为空时使用 sfnt。
func New(kind string, opts Options) (layout.Typesetter, error) {
	var ts layout.Typesetter
	switch strings.ToLower(kind) {
	case "", KindSFNT:
		s, err := sfnt.New(sfnt.Options{BaseDir: opts.BaseDir, Kerning: opts.Kerning})
		if err != nil {
			return nil, err
		}
		ts = s
	case KindCanvas:
		s, err := canvas.New(canvas.Options{BaseDir: opts.BaseDir})
		if err != nil {
			return nil, err
		}
		ts = s
	case KindCell:
		w, h := opts.CellWidth, opts.CellHeight
		if w <= 0 {
			w = 8
		}
		if h <= 0 {
			h = 16
		}
		return cell.New(w, h, opts.EastAsian), nil
	default:
		return nil, fmt.Errorf("未知的排版后端 %q", kind)
	}

	reg, ok := ts.(layout.FontRegistrar)
	if !ok {
		return ts, nil
	}
	for _, family := range slices.Sorted(maps.Keys(opts.Fonts)) {
		font := layout.FontResource{Name: family, Family: family, Src: opts.Fonts[family]}
		if err := reg.RegisterFont(font); err != nil {
			return nil, fmt.Errorf("注册字体 %s 失败: %w", family, err)
		}
	}
	return ts, nil
}
