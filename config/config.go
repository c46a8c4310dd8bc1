// Package config 读取 quill.toml。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ByLCY/quill/layout"
)

// FileName 是默认的配置文件名。
const FileName = "quill.toml"

// Config 对应 quill.toml 的全部内容。
type Config struct {
	Window WindowConfig      `toml:"window"`
	Text   TextConfig        `toml:"text"`
	Fonts  map[string]string `toml:"fonts"`
	Shaper ShaperConfig      `toml:"shaper"`
	Debug  DebugConfig       `toml:"debug"`
}

// WindowConfig 覆盖文档 window 段的尺寸；Width/Height 为 0 时沿用文档。
type WindowConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
	Scale  float32 `toml:"scale"`
	DPI    float64 `toml:"dpi"`
}

// TextConfig 是根级别的默认文本样式，写法与标记中的属性相同。
type TextConfig struct {
	Font       string `toml:"font"`
	Size       string `toml:"size"`
	LineHeight string `toml:"line_height"`
	Align      string `toml:"align"`
	WhiteSpace string `toml:"white_space"`
	WordBreak  string `toml:"word_break"`
	Overflow   string `toml:"overflow"`
}

type ShaperConfig struct {
	// Kind 为 sfnt、canvas 或 cell
	Kind       string  `toml:"kind"`
	Kerning    bool    `toml:"kerning"`
	CellWidth  float32 `toml:"cell_width"`
	CellHeight float32 `toml:"cell_height"`
	EastAsian  bool    `toml:"east_asian"`
}

type DebugConfig struct {
	// Log 是调试日志文件路径，为空时不记录
	Log      string `toml:"log"`
	RawUnits bool   `toml:"raw_units"`
}

// DefaultConfig 返回未提供配置文件时使用的默认值。
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Scale: 1,
			DPI:   layout.DefaultDPI,
		},
		Text: TextConfig{
			Size:       "16px",
			WhiteSpace: "normal",
			WordBreak:  "normal",
			Overflow:   "normal",
		},
		Fonts: map[string]string{},
		Shaper: ShaperConfig{
			Kind:       "sfnt",
			Kerning:    true,
			CellWidth:  8,
			CellHeight: 16,
		},
	}
}

// Load 读取 path 处的配置；文件不存在时返回默认配置。
func Load(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("解析 %s 失败: %w", path, err)
	}

	// 空值回落到默认值
	if config.Window.Scale <= 0 {
		config.Window.Scale = 1
	}
	if config.Window.DPI <= 0 {
		config.Window.DPI = layout.DefaultDPI
	}
	if config.Shaper.Kind == "" {
		config.Shaper.Kind = "sfnt"
	}
	if config.Fonts == nil {
		config.Fonts = map[string]string{}
	}
	return config, nil
}

// Save 把配置写回 path。
func Save(path string, config Config) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

// TextOptions 把 [text] 段转换为默认文本样式，未填写的字段保持零值（继承）。
func (c Config) TextOptions() (layout.TextOptions, error) {
	var o layout.TextOptions
	t := c.Text
	o.Family = t.Font
	if t.Size != "" {
		l, err := layout.ParseRawLengthStr(t.Size)
		if err != nil {
			return o, fmt.Errorf("text.size: %w", err)
		}
		o.FontSize = float32(l.ToPX(c.Window.DPI))
	}
	if t.LineHeight != "" {
		spec, err := layout.ParseLineHeight(t.LineHeight)
		if err != nil {
			return o, fmt.Errorf("text.line_height: %w", err)
		}
		if spec.Kind == layout.LineHeightAbsolute {
			spec.Len = layout.Length{Value: spec.Len.ToPX(c.Window.DPI), Unit: layout.UnitPX}
		}
		o.LineHeight = spec
	}
	var ok bool
	if t.Align != "" {
		if o.Align, ok = layout.ParseTextAlign(t.Align); !ok {
			return o, fmt.Errorf("text.align: 未知的取值 %q", t.Align)
		}
	}
	if t.WhiteSpace != "" {
		if o.WhiteSpace, ok = layout.ParseWhiteSpace(t.WhiteSpace); !ok {
			return o, fmt.Errorf("text.white_space: 未知的取值 %q", t.WhiteSpace)
		}
	}
	if t.WordBreak != "" {
		if o.WordBreak, ok = layout.ParseWordBreak(t.WordBreak); !ok {
			return o, fmt.Errorf("text.word_break: 未知的取值 %q", t.WordBreak)
		}
	}
	if t.Overflow != "" {
		if o.Overflow, ok = layout.ParseTextOverflow(strings.ToLower(t.Overflow)); !ok {
			return o, fmt.Errorf("text.overflow: 未知的取值 %q", t.Overflow)
		}
	}
	return o, nil
}

// LayoutWindow 在配置了宽高时返回覆盖文档的窗口，否则返回 nil。
func (c Config) LayoutWindow() layout.Window {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return nil
	}
	return layout.StaticWindow{Width: c.Window.Width, Height: c.Window.Height, PixelScale: c.Window.Scale}
}
