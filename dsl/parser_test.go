package dsl_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/quill/dsl"
)

const sampleDSL = `
view Demo v1 {
  meta {
    title: "Demo"
    keywords: [
      "ui"
      "layout"
    ]
  }

  resources {
    font Body {
      src: "builtin:goregular"
    }

    color Accent = #0F62FE
  }

  template Card {
    box width 120 height 40 padding 8
  }

  window 800 600 scale 2 {
    flex direction column width match {
      text Body size 14px width-limit 200 { "Hello, ${user.name}!" }
      use Card
      box width 50% height 20! margin "4 8"
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Demo" {
		t.Fatalf("expected document name Demo, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}
	kinds := []string{"meta", "resources", "template", "window"}
	for i, k := range kinds {
		if got := doc.Sections[i].Kind(); got != k {
			t.Fatalf("section %d: expected %s, got %s", i, k, got)
		}
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || string(*title.Value.String) != "Demo" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	templates := doc.Templates()
	card, ok := templates["Card"]
	if !ok || len(card.Block.Statements) != 1 || card.Block.Statements[0].Command.Name != "box" {
		t.Fatalf("template Card not captured: %+v", templates)
	}

	win := doc.Window()
	if win == nil {
		t.Fatalf("window section missing")
	}
	if got := tokensToString(win.Spec.Params); got != "800 600 scale 2" {
		t.Fatalf("unexpected window params: %s", got)
	}

	flex := win.Block.Statements[0].Command
	if flex == nil || flex.Name != "flex" {
		t.Fatalf("expected flex command, got %+v", win.Block.Statements[0])
	}
	if len(flex.Block.Statements) != 3 {
		t.Fatalf("expected 3 children in flex, got %d", len(flex.Block.Statements))
	}

	text := flex.Block.Statements[0].Command
	if text == nil || text.Name != "text" {
		t.Fatalf("expected text command, got %+v", flex.Block.Statements[0])
	}
	if got := tokensToString(text.Args); got != "Body size 14px width-limit 200" {
		t.Fatalf("unexpected text args: %s", got)
	}
	if got := text.Block.Text(); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	use := flex.Block.Statements[1].Command
	if use == nil || use.Name != "use" || use.Args[0].Value != "Card" {
		t.Fatalf("expected use Card, got %+v", flex.Block.Statements[1])
	}

	box := flex.Block.Statements[2].Command
	if got := tokensToString(box.Args); got != "width 50% height 20! margin 4 8" {
		t.Fatalf("unexpected box args: %s", got)
	}
	if box.Args[5].Type != "String" {
		t.Fatalf("margin value should stay a string token, got %s", box.Args[5].Type)
	}
}

func TestParseMixedTextBlock(t *testing.T) {
	doc, err := dsl.ParseString(`view T v1 {
  window 100 100 {
    text { "Hello " label weight 700 { "bold" } " world" }
  }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	text := doc.Window().Block.Statements[0].Command
	stmts := text.Block.Statements
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if stmts[0].Text == nil || stmts[1].Command == nil || stmts[2].Text == nil {
		t.Fatalf("unexpected statement kinds: %+v", stmts)
	}
	if got := stmts[1].Command.Block.Text(); got != "bold" {
		t.Fatalf("label text mismatch: %q", got)
	}
}

func TestParseErrorHasPosition(t *testing.T) {
	_, err := dsl.ParseString("view Broken v1 {\n  window 10 10 {\n    box width 10 {\n}")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	var syn *dsl.SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("expected *dsl.SyntaxError, got %T", err)
	}
	if syn.Pos.Line < 2 {
		t.Fatalf("error should point past the header, got %s", syn.Pos)
	}
}

func TestParseFileNamesPositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.quill")
	if err := os.WriteFile(path, []byte("view X {"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := dsl.ParseFile(path)
	if err == nil || !strings.Contains(err.Error(), "broken.quill") {
		t.Fatalf("error should carry the file name, got %v", err)
	}
	if _, err := dsl.ParseFile(filepath.Join(t.TempDir(), "none.quill")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestColorsAndValues(t *testing.T) {
	doc, err := dsl.ParseString(`view T v1 {
  resources {
    color A = #0F62FE
    color B = #abc
    color C = #11223344
    style S {
      weight: bold
      fill: rgb(1, 2, 3)
      tags: [a, b]
    }
  }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	stmts := doc.Sections[0].Resources.Block.Statements
	for i, want := range []string{"#0F62FE", "#abc", "#11223344"} {
		args := stmts[i].Command.Args
		last := args[len(args)-1]
		if last.Type != "Color" || last.Value != want {
			t.Fatalf("color %d: got %s %q", i, last.Type, last.Value)
		}
	}
	style := stmts[3].Command.Block.Statements
	if got := style[0].Assignment.Value.Text(); got != "bold" {
		t.Fatalf("identifier value: got %q", got)
	}
	if got := style[1].Assignment.Value.Text(); got != "rgb(1,2,3)" {
		t.Fatalf("expression should keep its tokens, got %q", got)
	}
	if got := style[2].Assignment.Value.List(); len(got) != 2 || got[1] != "b" {
		t.Fatalf("array value: got %v", got)
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
