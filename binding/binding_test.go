package binding

import (
	"reflect"
	"testing"
)

func TestInterpolateResolvesNestedPaths(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{
			"name": "Ada",
			"tags": []any{"admin", "ops"},
		},
	}
	got := Interpolate("hi ${user.name}, ${ user.tags[1] }!", data)
	if got != "hi Ada, ops!" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestInterpolateKeepsMissingPlaceholders(t *testing.T) {
	got := Interpolate("value: ${missing.path}", map[string]any{})
	if got != "value: ${missing.path}" {
		t.Fatalf("missing path should stay untouched, got %q", got)
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data should return text as-is, got %q", got)
	}
}

func TestTemplatePathsAndReuse(t *testing.T) {
	tpl := Compile("${title} (${count})")
	if !reflect.DeepEqual(tpl.Paths(), []string{"title", "count"}) {
		t.Fatalf("unexpected paths: %v", tpl.Paths())
	}
	if tpl.IsStatic() {
		t.Fatalf("template with placeholders is not static")
	}
	if got := tpl.Execute(map[string]any{"title": "Inbox", "count": 3}); got != "Inbox (3)" {
		t.Fatalf("first execute: %q", got)
	}
	if got := tpl.Execute(map[string]any{"title": "Sent", "count": 0}); got != "Sent (0)" {
		t.Fatalf("second execute: %q", got)
	}
	if !Compile("plain").IsStatic() {
		t.Fatalf("plain text should be static")
	}
}

func TestLookupStructFields(t *testing.T) {
	type item struct{ Label string }
	data := struct {
		Items []item
	}{Items: []item{{Label: "first"}}}
	v, ok := Lookup(data, "items[0].label")
	if !ok || v != "first" {
		t.Fatalf("expected struct lookup to succeed, got %v %v", v, ok)
	}
	if _, ok := Lookup(data, "items[3]"); ok {
		t.Fatalf("out of range index should fail")
	}
}

func TestLookupRejectsMalformedIndexes(t *testing.T) {
	data := map[string]any{"rows": []any{[]any{"a", "b"}}}
	if v, ok := Lookup(data, "rows[0][1]"); !ok || v != "b" {
		t.Fatalf("nested index should resolve, got %v %v", v, ok)
	}
	for _, path := range []string{"rows[x]", "rows[0", "rows[0]x", "rows[]"} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("path %q should not resolve", path)
		}
	}
	if got := Interpolate("${rows[x]}", data); got != "${rows[x]}" {
		t.Fatalf("malformed placeholder should stay untouched, got %q", got)
	}
}
