package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	"github.com/monolith-gen/monolith/pkg/content"
	"github.com/monolith-gen/monolith/pkg/template"
)

// Generator renders one content document to its output file.
type Generator struct {
	cfg Config
	log zerolog.Logger
}

// New returns a Generator. The logger may be zerolog.Nop().
func New(cfg Config, log zerolog.Logger) *Generator {
	return &Generator{cfg: cfg, log: log}
}

// Result describes a completed generation.
type Result struct {
	TemplatePath string
	OutputPath   string
	Bytes        int
}

// Generate runs the full pipeline for one content document: load the
// document, read the template it names, splice includes, parse, render
// against the document's context, and write the output file atomically.
// Structural template defects abort with a position-tagged error; missing
// data fields never do.
func (g *Generator) Generate(contentPath string) (*Result, error) {
	doc, err := content.Load(contentPath)
	if err != nil {
		return nil, err
	}

	templateDir := pick(doc, content.KeyTemplateDir, g.cfg.TemplateDir, content.DefaultTemplateDir)
	templateName := pick(doc, content.KeyTemplate, "", content.DefaultTemplate)
	outputDir := pick(doc, content.KeyOutputDir, g.cfg.OutputDir, content.DefaultOutputDir)
	outputFile := pick(doc, content.KeyOutputFile, "", content.DefaultOutputFile)

	templatePath := filepath.Join(templateDir, templateName)
	g.log.Debug().
		Str("content", contentPath).
		Str("template", templatePath).
		Msg("generating")

	loader := template.DirLoader{Dir: templateDir}
	raw, err := loader.Load(templateName)
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", templatePath, err)
	}
	expanded, err := template.ExpandIncludes(raw, loader)
	if err != nil {
		return nil, fmt.Errorf("expanding includes in %s: %w", templatePath, err)
	}
	tree, err := template.Parse(expanded)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", templatePath, err)
	}

	out := template.Render(tree, doc.Context)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}
	outputPath := filepath.Join(outputDir, outputFile)
	if err := atomic.WriteFile(outputPath, strings.NewReader(out)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outputPath, err)
	}

	g.log.Info().
		Str("output", outputPath).
		Int("bytes", len(out)).
		Msg("site generated")

	return &Result{
		TemplatePath: templatePath,
		OutputPath:   outputPath,
		Bytes:        len(out),
	}, nil
}

// pick resolves a path setting: explicit document key, then config value,
// then built-in default.
func pick(doc *content.Document, key, fromConfig, fallback string) string {
	if v, ok := doc.Lookup(key); ok {
		return v
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fallback
}
