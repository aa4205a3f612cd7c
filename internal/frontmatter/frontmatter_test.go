package frontmatter

import (
	"reflect"
	"testing"
)

func TestSplit_FenceBlock(t *testing.T) {
	text := "---\ntitle: Hello\ntags: [\"a\", \"b\"]\n---\n# Hello\nBody text.\n"
	meta, body := Split(text)
	if meta["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", meta["title"])
	}
	if !reflect.DeepEqual(meta["tags"], []any{"a", "b"}) {
		t.Errorf("tags = %v", meta["tags"])
	}
	if body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_JSONBlock(t *testing.T) {
	text := "{\n  \"title\": \"Hello\",\n  \"draft\": true\n}\nBody.\n"
	meta, body := Split(text)
	if meta["title"] != "Hello" {
		t.Errorf("title = %v", meta["title"])
	}
	if meta["draft"] != true {
		t.Errorf("draft = %v", meta["draft"])
	}
	if body != "Body.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_NoBlock(t *testing.T) {
	text := "# Just a heading\nSome text.\n"
	meta, body := Split(text)
	if len(meta) != 0 {
		t.Errorf("expected empty mapping, got %v", meta)
	}
	if body != text {
		t.Errorf("body = %q, want full input", body)
	}
}

func TestSplit_UnclosedFence(t *testing.T) {
	text := "---\ntitle: oops\nno closing fence\n"
	meta, body := Split(text)
	if len(meta) != 0 {
		t.Errorf("expected empty mapping, got %v", meta)
	}
	if body != text {
		t.Errorf("body = %q, want full input", body)
	}
}

func TestSplit_MalformedJSONFallsBack(t *testing.T) {
	text := "{\n  \"title\": oops,\n}\nBody.\n"
	meta, body := Split(text)
	if len(meta) != 0 {
		t.Errorf("expected empty mapping on bad JSON, got %v", meta)
	}
	if body != text {
		t.Errorf("body = %q, want full input", body)
	}
}

func TestSplit_FenceMustOpenDocument(t *testing.T) {
	text := "\n---\ntitle: late\n---\nbody\n"
	meta, _ := Split(text)
	if len(meta) != 0 {
		t.Errorf("block not at document start should be ignored, got %v", meta)
	}
}

func TestSplit_CRLFInput(t *testing.T) {
	text := "---\r\ntitle: Win\r\n---\r\nbody\r\n"
	meta, _ := Split(text)
	if meta["title"] != "Win" {
		t.Errorf("title = %v, want Win", meta["title"])
	}
}
