package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/quill/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.Shaper.Kind != "sfnt" || cfg.Window.DPI != layout.DefaultDPI || cfg.Text.Size != "16px" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LayoutWindow() != nil {
		t.Fatalf("default config should not override the document window")
	}
}

func TestLoadOverridesAndFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 320
height = 240
dpi = 0

[text]
font = "Go Mono"
size = "12pt"
line_height = "1.5x"
word_break = "break-word"

[fonts]
Code = "builtin:gomono"

[shaper]
kind = "cell"

[debug]
log = "quill.log"
raw_units = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.DPI != layout.DefaultDPI || cfg.Window.Scale != 1 {
		t.Fatalf("empty values should fall back to defaults: %+v", cfg.Window)
	}
	if cfg.Shaper.Kind != "cell" || cfg.Fonts["Code"] != "builtin:gomono" {
		t.Fatalf("unexpected shaper/fonts: %+v %+v", cfg.Shaper, cfg.Fonts)
	}
	if !cfg.Debug.RawUnits || cfg.Debug.Log != "quill.log" {
		t.Fatalf("unexpected debug section %+v", cfg.Debug)
	}
	if cfg.Text.WhiteSpace != "normal" {
		t.Fatalf("unset keys keep their defaults, got %q", cfg.Text.WhiteSpace)
	}

	w := cfg.LayoutWindow()
	if w == nil || w.Size() != (layout.Vec2{X: 320, Y: 240}) {
		t.Fatalf("configured window expected, got %+v", w)
	}

	opts, err := cfg.TextOptions()
	if err != nil {
		t.Fatalf("text options: %v", err)
	}
	if opts.Family != "Go Mono" || opts.FontSize != 16 || opts.WordBreak != layout.WordBreakBreakWord {
		t.Fatalf("unexpected text options %+v", opts)
	}
	if opts.LineHeight.Kind != layout.LineHeightFactor || opts.LineHeight.Factor != 1.5 {
		t.Fatalf("unexpected line height %+v", opts.LineHeight)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	if _, err := Load(writeConfig(t, "[window\nwidth = ")); err == nil {
		t.Fatalf("malformed toml should fail")
	}
}

func TestTextOptionsRejectsUnknownValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text.WordBreak = "sometimes"
	if _, err := cfg.TextOptions(); err == nil {
		t.Fatalf("unknown word_break should fail")
	}
}

func TestSaveThenLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = 640
	cfg.Window.Height = 480
	cfg.Fonts["Body"] = "fonts/body.ttf"
	path := filepath.Join(t.TempDir(), FileName)
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Window.Width != 640 || got.Fonts["Body"] != "fonts/body.ttf" || got.Shaper.Kind != "sfnt" {
		t.Fatalf("saved config not restored: %+v", got)
	}
}
