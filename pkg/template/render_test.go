package template

import (
	"strings"
	"testing"
)

func renderSrc(t *testing.T, src string, ctx MappingValue) string {
	t.Helper()
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Render(doc, ctx)
}

func TestRenderLiteralRoundTrip(t *testing.T) {
	src := "plain text\n  with   spacing\nand newlines\n"
	if out := renderSrc(t, src, MappingValue{}); out != src {
		t.Fatalf("literal text altered: %q", out)
	}
}

func TestRenderVariable(t *testing.T) {
	out := renderSrc(t, "Hello {{ name }}!", MappingValue{"name": StringValue("world")})
	if out != "Hello world!" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderDefaultFallback(t *testing.T) {
	src := "{{ user.name | default:'Guest' }}"
	if out := renderSrc(t, src, MappingValue{}); out != "Guest" {
		t.Fatalf("missing key: got %q", out)
	}
	ctx := MappingValue{"user": MappingValue{"name": StringValue("Alice")}}
	if out := renderSrc(t, src, ctx); out != "Alice" {
		t.Fatalf("present key: got %q", out)
	}
}

func TestRenderDefaultOnFalsyValue(t *testing.T) {
	ctx := MappingValue{"nickname": StringValue("")}
	if out := renderSrc(t, "{{ nickname | default:'none set' }}", ctx); out != "none set" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderMissingWithoutDefault(t *testing.T) {
	if out := renderSrc(t, "[{{ nickname }}]", MappingValue{}); out != "[]" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderFalsyScalarWithoutDefault(t *testing.T) {
	// A present-but-falsy value renders its canonical form.
	ctx := MappingValue{"count": IntValue(0)}
	if out := renderSrc(t, "{{ count }}", ctx); out != "0" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderStructuralValueSubstitutesEmpty(t *testing.T) {
	ctx := MappingValue{
		"m": MappingValue{"a": IntValue(1)},
		"s": SequenceValue{IntValue(1)},
	}
	if out := renderSrc(t, "[{{ m }}|{{ s }}]", ctx); out != "[|]" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderLoop(t *testing.T) {
	ctx := MappingValue{"sections": SequenceValue{
		MappingValue{"name": StringValue("Home")},
		MappingValue{"name": StringValue("About")},
	}}
	src := "{%1 for s in sections %}<h2>{{ s.name }}</h2>{%1 endfor %}"
	if out := renderSrc(t, src, ctx); out != "<h2>Home</h2><h2>About</h2>" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderLoopOverMissingOrScalar(t *testing.T) {
	src := "a{%1 for x in items %}{{ x }}{%1 endfor %}b"
	if out := renderSrc(t, src, MappingValue{}); out != "ab" {
		t.Fatalf("missing target: got %q", out)
	}
	ctx := MappingValue{"items": StringValue("not a list")}
	if out := renderSrc(t, src, ctx); out != "ab" {
		t.Fatalf("scalar target: got %q", out)
	}
}

func TestRenderNestedLoops(t *testing.T) {
	ctx := MappingValue{"rows": SequenceValue{
		MappingValue{"cells": SequenceValue{StringValue("a"), StringValue("b")}},
		MappingValue{"cells": SequenceValue{StringValue("c")}},
	}}
	src := "{%1 for row in rows %}[{%2 for c in row.cells %}{{ c }}{%2 endfor %}]{%1 endfor %}"
	if out := renderSrc(t, src, ctx); out != "[ab][c]" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderLoopShadowing(t *testing.T) {
	// The loop variable shadows a context key of the same name and the
	// original context is untouched afterwards.
	ctx := MappingValue{
		"x":     StringValue("outer"),
		"items": SequenceValue{StringValue("inner")},
	}
	src := "{%1 for x in items %}{{ x }}{%1 endfor %}{{ x }}"
	if out := renderSrc(t, src, ctx); out != "innerouter" {
		t.Fatalf("got %q", out)
	}
	if ctx["x"] != StringValue("outer") {
		t.Fatalf("context mutated: %#v", ctx["x"])
	}
}

func TestRenderConditionComparison(t *testing.T) {
	src := "{%1 if age >= 18 %}A{%1 else %}B{%1 endif %}"
	if out := renderSrc(t, src, MappingValue{"age": IntValue(20)}); out != "A" {
		t.Fatalf("age 20: got %q", out)
	}
	if out := renderSrc(t, src, MappingValue{"age": IntValue(15)}); out != "B" {
		t.Fatalf("age 15: got %q", out)
	}
}

func TestRenderConditionOperators(t *testing.T) {
	cases := []struct {
		cond string
		want bool
	}{
		{"n == 5", true},
		{"n != 5", false},
		{"n < 6", true},
		{"n <= 5", true},
		{"n > 5", false},
		{"n >= 6", false},
		{"name == 'Alice'", true},
		{"name != 'Bob'", true},
		{"name == 'ALICE'", true}, // string comparison is case-insensitive
		{"name < 'Bob'", false},   // ordering is numeric-only
	}
	ctx := MappingValue{"n": IntValue(5), "name": StringValue("Alice")}
	for _, c := range cases {
		src := "{%1 if " + c.cond + " %}T{%1 else %}F{%1 endif %}"
		want := "F"
		if c.want {
			want = "T"
		}
		if out := renderSrc(t, src, ctx); out != want {
			t.Fatalf("cond %q: got %q", c.cond, out)
		}
	}
}

func TestRenderConditionTruthiness(t *testing.T) {
	src := "{%1 if items %}some{%1 else %}none{%1 endif %}"
	if out := renderSrc(t, src, MappingValue{"items": SequenceValue{IntValue(1)}}); out != "some" {
		t.Fatalf("non-empty: got %q", out)
	}
	if out := renderSrc(t, src, MappingValue{"items": SequenceValue{}}); out != "none" {
		t.Fatalf("empty: got %q", out)
	}
	if out := renderSrc(t, src, MappingValue{}); out != "none" {
		t.Fatalf("missing: got %q", out)
	}
}

func TestRenderConditionMissingOperand(t *testing.T) {
	// Comparing against an absent path degrades to false, not an error.
	src := "{%1 if ghost > 3 %}T{%1 else %}F{%1 endif %}"
	if out := renderSrc(t, src, MappingValue{}); out != "F" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderConditionBooleanLiteral(t *testing.T) {
	if out := renderSrc(t, "{%1 if true %}T{%1 endif %}", MappingValue{}); out != "T" {
		t.Fatalf("got %q", out)
	}
	if out := renderSrc(t, "{%1 if false %}T{%1 else %}F{%1 endif %}", MappingValue{}); out != "F" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderIfWithoutElse(t *testing.T) {
	src := "a{%1 if flag %}X{%1 endif %}b"
	if out := renderSrc(t, src, MappingValue{}); out != "ab" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderDeterministic(t *testing.T) {
	doc, err := Parse("{%1 for s in xs %}{{ s }}-{%1 endfor %}{{ t | default:'d' }}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ctx := MappingValue{"xs": SequenceValue{IntValue(1), IntValue(2), IntValue(3)}}
	first := Render(doc, ctx)
	for i := 0; i < 10; i++ {
		if out := Render(doc, ctx); out != first {
			t.Fatalf("render %d differs: %q vs %q", i, out, first)
		}
	}
}

func TestRenderTreeReuseAcrossContexts(t *testing.T) {
	doc, err := Parse("{{ name }}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if out := Render(doc, MappingValue{"name": StringValue("a")}); out != "a" {
		t.Fatalf("got %q", out)
	}
	if out := Render(doc, MappingValue{"name": StringValue("b")}); out != "b" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderConcurrent(t *testing.T) {
	doc, err := Parse("{%1 for s in xs %}{{ s.v }}{%1 endfor %}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ctx := MappingValue{"xs": SequenceValue{
		MappingValue{"v": StringValue("x")},
		MappingValue{"v": StringValue("y")},
	}}
	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- Render(doc, ctx) }()
	}
	for i := 0; i < 8; i++ {
		if out := <-done; out != "xy" {
			t.Fatalf("concurrent render got %q", out)
		}
	}
}

func TestRenderEscapeHook(t *testing.T) {
	doc, err := Parse("<p>{{ body }}</p>")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	r := Renderer{Escape: func(s string) string {
		return strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(s)
	}}
	out := r.Render(doc, MappingValue{"body": StringValue("<b>hi</b>")})
	// literal text passes through, substituted text is escaped
	if out != "<p>&lt;b&gt;hi&lt;/b&gt;</p>" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderSequenceIndexPath(t *testing.T) {
	ctx := MappingValue{"education": SequenceValue{
		MappingValue{"institute": StringValue("First")},
		MappingValue{"institute": StringValue("Second")},
	}}
	out := renderSrc(t, `{{ education.1.institute | default:'N/A' }}`, ctx)
	if out != "Second" {
		t.Fatalf("got %q", out)
	}
	out = renderSrc(t, `{{ education.7.institute | default:'N/A' }}`, ctx)
	if out != "N/A" {
		t.Fatalf("got %q", out)
	}
}

func TestPretty(t *testing.T) {
	doc, err := Parse("A{{ x }}{%1 if x %}B{%1 endif %}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	s := Pretty(doc)
	for _, want := range []string{"Document", "Variable(x)", "If[1](x)"} {
		if !strings.Contains(s, want) {
			t.Fatalf("pretty output missing %q:\n%s", want, s)
		}
	}
}
