package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogfWritesAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "d.log")
	if err := Init(path); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer Close()
	if !Enabled() {
		t.Fatalf("expected enabled after Init")
	}
	Logf("solve round %d", 3)
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "solve round 3") {
		t.Fatalf("log missing line: %q", b)
	}
}

func TestLogfDisabledIsNoop(t *testing.T) {
	Close()
	Logf("nothing %s", "here")
}
