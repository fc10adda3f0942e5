// Package content loads structured content documents — the value trees that
// templates are rendered against. A document is authored as YAML, or as a
// Starlark script whose exported globals become the context.
package content

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/monolith-gen/monolith/pkg/template"
)

// Conventional document keys that steer output, with their built-in
// defaults. Any other key is caller-defined context data.
const (
	KeyTemplate    = "template"
	KeyTemplateDir = "template_path"
	KeyOutputDir   = "outpath"
	KeyOutputFile  = "render"

	DefaultTemplate    = "base.html"
	DefaultTemplateDir = "templates"
	DefaultOutputDir   = "output"
	DefaultOutputFile  = "render.html"
)

// Document is a loaded content document. Context holds the full mapping,
// conventional keys included, and is what the renderer receives.
type Document struct {
	Path    string
	Context template.MappingValue
}

// Load reads a content document, dispatching on the file extension:
// .star is evaluated as a Starlark script, everything else parses as YAML.
func Load(path string) (*Document, error) {
	if filepath.Ext(path) == ".star" {
		return LoadStarlark(path)
	}
	return LoadYAML(path)
}

// LoadYAML reads and decodes a YAML content document.
func LoadYAML(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening content document: %w", err)
	}
	defer f.Close()
	doc, err := DecodeYAML(f)
	if err != nil {
		return nil, fmt.Errorf("content document %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// DecodeYAML decodes a YAML content document from r. The top level must be
// a mapping.
func DecodeYAML(r io.Reader) (*Document, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("document is empty")
		}
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	ctx, ok := template.FromGo(raw).(template.MappingValue)
	if !ok {
		return nil, fmt.Errorf("top level is not a mapping")
	}
	doc := &Document{Context: ctx}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Lookup returns the string value of a conventional key and whether the
// document sets it explicitly.
func (d *Document) Lookup(key string) (string, bool) {
	v, ok := d.Context[key]
	if !ok {
		return "", false
	}
	s, ok := v.(template.StringValue)
	if !ok || s == "" {
		return "", false
	}
	return string(s), true
}

// Validate checks the conventional keys: when present they must be plain
// non-empty strings carrying no template markup, since they name files and
// directories rather than renderable content.
func (d *Document) Validate() error {
	for _, key := range []string{KeyTemplate, KeyTemplateDir, KeyOutputDir, KeyOutputFile} {
		v, ok := d.Context[key]
		if !ok {
			continue
		}
		s, ok := v.(template.StringValue)
		if !ok {
			return fmt.Errorf("key %q must be a string", key)
		}
		if err := all(
			notEmpty(string(s), key),
			noTemplateMarkup(string(s), key),
		); err != nil {
			return err
		}
	}
	return nil
}

func all(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func notEmpty(field, description string) error {
	if strings.TrimSpace(field) == "" {
		return fmt.Errorf("%s must not be empty", description)
	}
	return nil
}

func noTemplateMarkup(field, description string) error {
	if strings.Contains(field, "{{") || strings.Contains(field, "{%") {
		return fmt.Errorf("%s must not contain template markup", description)
	}
	return nil
}
