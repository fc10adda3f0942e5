package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader supplies raw template text by name. The engine itself never reads
// files; the caller chooses the loader and performs include expansion
// before parsing.
type Loader interface {
	Load(name string) (string, error)
}

// MemoryLoader serves templates from an in-memory map, mainly for tests.
type MemoryLoader map[string]string

func (m MemoryLoader) Load(name string) (string, error) {
	if s, ok := m[name]; ok {
		return s, nil
	}
	return "", ErrTemplateNotFound{name}
}

// DirLoader serves templates from a directory on disk. Names are resolved
// relative to Dir and may not escape it.
type DirLoader struct {
	Dir string
}

func (d DirLoader) Load(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("template name %q escapes template directory", name)
	}
	b, err := os.ReadFile(filepath.Join(d.Dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrTemplateNotFound{name}
		}
		return "", err
	}
	return string(b), nil
}

type ErrTemplateNotFound struct{ Name string }

func (e ErrTemplateNotFound) Error() string { return "template not found: " + e.Name }

// maxIncludeDepth bounds transitive include expansion. Cycles are caught
// earlier by the visiting set; this guards degenerate deep chains.
const maxIncludeDepth = 16

// ExpandIncludes textually splices {% include "name" %} tags before
// parsing: each include is replaced by the named template's raw text,
// itself expanded recursively, so the included content is parsed and
// rendered with the same context as the including template. Tags other
// than include pass through untouched.
func ExpandIncludes(src string, l Loader) (string, error) {
	return expandIncludes(src, l, map[string]bool{}, 0)
}

func expandIncludes(src string, l Loader, visiting map[string]bool, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("include nesting exceeds %d levels", maxIncludeDepth)
	}
	var out strings.Builder
	for {
		i := strings.Index(src, "{%")
		if i < 0 {
			out.WriteString(src)
			return out.String(), nil
		}
		j := strings.Index(src[i+2:], "%}")
		if j < 0 {
			// unterminated tag: leave it for the lexer to report
			out.WriteString(src)
			return out.String(), nil
		}
		inner := strings.TrimSpace(src[i+2 : i+2+j])
		rest := src[i+2+j+2:]
		if !strings.HasPrefix(inner, "include") {
			out.WriteString(src[:i+2+j+2])
			src = rest
			continue
		}
		name, ok := parseQuoted(strings.TrimSpace(strings.TrimPrefix(inner, "include")))
		if !ok || name == "" {
			return "", fmt.Errorf("include expects a quoted template name at offset %d", i)
		}
		if visiting[name] {
			return "", fmt.Errorf("include cycle through %q", name)
		}
		if l == nil {
			return "", fmt.Errorf("include %q requires a loader", name)
		}
		text, err := l.Load(name)
		if err != nil {
			return "", fmt.Errorf("including %q: %w", name, err)
		}
		visiting[name] = true
		expanded, err := expandIncludes(text, l, visiting, depth+1)
		delete(visiting, name)
		if err != nil {
			return "", err
		}
		out.WriteString(src[:i])
		out.WriteString(expanded)
		src = rest
	}
}

func parseQuoted(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return "", false
	}
	return s[1 : len(s)-1], true
}
