package fonts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadBuiltin(t *testing.T) {
	data, err := Load("builtin:goregular", "")
	if err != nil {
		t.Fatalf("load builtin: %v", err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Fatalf("builtin:goregular should return the Go Regular font")
	}
	if _, err := Load("built-in:GoMono", ""); err != nil {
		t.Fatalf("legacy prefix and case should be accepted: %v", err)
	}
	if _, err := Load("builtin:missing", ""); err == nil {
		t.Fatalf("unknown builtin should fail")
	}
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.ttf"), []byte("font"), 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	data, err := Load("a.ttf", dir)
	if err != nil || string(data) != "font" {
		t.Fatalf("relative path should resolve against baseDir, got %q, %v", data, err)
	}
	if _, err := Load("a.ttf", ""); err == nil {
		t.Fatalf("relative path without baseDir should fail")
	}
	if _, err := Load("", dir); err == nil {
		t.Fatalf("empty src should fail")
	}
}

func TestBuiltinNamesSorted(t *testing.T) {
	names := Builtin()
	if len(names) != 6 || names[0] != "gobold" || names[len(names)-1] != "goregular" {
		t.Fatalf("unexpected builtin names %v", names)
	}
}
