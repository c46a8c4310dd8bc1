package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/quill/config"
	"github.com/ByLCY/quill/layout"
)

func TestRunDemoWithEveryShaper(t *testing.T) {
	for _, kind := range []string{"sfnt", "canvas", "cell"} {
		cfg := config.DefaultConfig()
		cfg.Shaper.Kind = kind
		data := map[string]any{"user": map[string]any{"name": "Ada", "role": "admin"}}
		result, err := run(filepath.Join("examples", "demo.quill"), cfg, data, nil)
		if err != nil {
			t.Fatalf("%s: run demo: %v", kind, err)
		}
		title, ok := result.View("title").(*layout.Text)
		if !ok || title.Value() != "Hello, Ada" {
			t.Fatalf("%s: unexpected title %+v", kind, result.View("title"))
		}
		if off := result.Tree.Find("offscreen"); off == nil || off.VisibleRegion {
			t.Fatalf("%s: offscreen box should be culled", kind)
		}
		if body := result.Tree.Find("body"); body == nil || len(body.Lines) == 0 {
			t.Fatalf("%s: body text should be typeset", kind)
		}
	}
}

func TestRunRebindsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.quill")
	src := `view T v1 {
  window 200 100 {
    text id greet width match { "Hi ${name}" }
  }
}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write view: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Shaper.Kind = "cell"
	result, err := run(path, cfg, map[string]any{"name": "Ada"}, map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := result.Tree.Find("greet").Value; got != "Hi Grace" {
		t.Fatalf("rebind should update the text, got %q", got)
	}

	var out bytes.Buffer
	printSummary(&out, result)
	if !strings.Contains(out.String(), "200x100") || !strings.Contains(out.String(), "文本行：1") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}
}

func TestRunReportsErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := run(filepath.Join(t.TempDir(), "missing.quill"), cfg, nil, nil); err == nil {
		t.Fatalf("missing input should fail")
	}
	cfg.Shaper.Kind = "unknown"
	if _, err := run(filepath.Join("examples", "demo.quill"), cfg, nil, nil); err == nil {
		t.Fatalf("unknown shaper should fail")
	}
}
