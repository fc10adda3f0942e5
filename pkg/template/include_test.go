package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandIncludes(t *testing.T) {
	ldr := MemoryLoader{"navbar.html": "<nav>{{ title }}</nav>"}
	out, err := ExpandIncludes(`<body>{% include "navbar.html" %}</body>`, ldr)
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}
	if out != "<body><nav>{{ title }}</nav></body>" {
		t.Fatalf("got %q", out)
	}
}

func TestExpandIncludesSharesContext(t *testing.T) {
	// Included text is parsed and rendered with the including template's
	// context.
	ldr := MemoryLoader{"partial": "{{ title }}"}
	expanded, err := ExpandIncludes("[{% include 'partial' %}]", ldr)
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}
	doc, err := Parse(expanded)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if out := Render(doc, MappingValue{"title": StringValue("T")}); out != "[T]" {
		t.Fatalf("got %q", out)
	}
}

func TestExpandIncludesTransitive(t *testing.T) {
	ldr := MemoryLoader{
		"a": "A({% include 'b' %})",
		"b": "B",
	}
	out, err := ExpandIncludes("{% include 'a' %}", ldr)
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}
	if out != "A(B)" {
		t.Fatalf("got %q", out)
	}
}

func TestExpandIncludesLeavesOtherTags(t *testing.T) {
	src := "{%1 if x %}{{ y }}{%1 endif %}"
	out, err := ExpandIncludes(src, nil)
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}
	if out != src {
		t.Fatalf("non-include tags altered: %q", out)
	}
}

func TestExpandIncludesCycle(t *testing.T) {
	ldr := MemoryLoader{
		"a": "{% include 'b' %}",
		"b": "{% include 'a' %}",
	}
	if _, err := ExpandIncludes("{% include 'a' %}", ldr); err == nil {
		t.Fatal("want error on include cycle")
	}
}

func TestExpandIncludesMissingTemplate(t *testing.T) {
	_, err := ExpandIncludes("{% include 'ghost' %}", MemoryLoader{})
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("want not-found error naming the template, got %v", err)
	}
}

func TestExpandIncludesUnquotedName(t *testing.T) {
	if _, err := ExpandIncludes("{% include navbar %}", MemoryLoader{}); err == nil {
		t.Fatal("want error for unquoted include name")
	}
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.html"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ldr := DirLoader{Dir: dir}
	s, err := ldr.Load("page.html")
	if err != nil || s != "hi" {
		t.Fatalf("load: %q, %v", s, err)
	}
	if _, err := ldr.Load("missing.html"); err == nil {
		t.Fatal("want error for missing template")
	}
	if _, err := ldr.Load("../escape"); err == nil {
		t.Fatal("want error for path escaping the directory")
	}
}
