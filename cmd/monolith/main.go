package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/monolith-gen/monolith/pkg/site"
	"github.com/monolith-gen/monolith/pkg/template"
)

var (
	configPath string
	verbosity  int

	logger zerolog.Logger
)

var rootCmd = cobra.Command{
	Use:   "monolith",
	Short: "Render templated documents from structured content",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = setupLogger(verbosity)
	},
}

var generateCmd = cobra.Command{
	Use:   "generate [content-file]",
	Short: "Generate the output file for a content document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := site.LoadConfig(configPath)
		if err != nil {
			return err
		}
		contentPath := filepath.Join("content", "content.yaml")
		if cfg.ContentDir != "" {
			contentPath = filepath.Join(cfg.ContentDir, "content.yaml")
		}
		if len(args) == 1 {
			contentPath = args[0]
		}

		res, err := site.New(cfg, logger).Generate(contentPath)
		if err != nil {
			return err
		}
		fmt.Printf("Site generated successfully...\nFile saved at: %s\n", res.OutputPath)
		return nil
	},
}

var checkCmd = cobra.Command{
	Use:   "check <template-file>",
	Short: "Validate a template's structure without rendering it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := parseTemplateFile(args[0])
		if err != nil {
			return err
		}
		var count int
		countVisitor := visitorFunc(func(n template.Node) error {
			count++
			return nil
		})
		if err := template.Walk(countVisitor, tree); err != nil {
			return err
		}
		fmt.Printf("%s: ok (%d nodes)\n", args[0], count-1)
		return nil
	},
}

var astCmd = cobra.Command{
	Use:   "ast <template-file>",
	Short: "Print the parse tree of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := parseTemplateFile(args[0])
		if err != nil {
			return err
		}
		fmt.Print(template.Pretty(tree))
		return nil
	},
}

// parseTemplateFile reads, include-expands, and parses one template,
// wrapping structural errors with the template identity so authors can
// locate the defect.
func parseTemplateFile(path string) (*template.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	loader := template.DirLoader{Dir: filepath.Dir(path)}
	expanded, err := template.ExpandIncludes(string(b), loader)
	if err != nil {
		return nil, fmt.Errorf("expanding includes in %s: %w", path, err)
	}
	tree, err := template.Parse(expanded)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tree, nil
}

type visitorFunc func(template.Node) error

func (f visitorFunc) Visit(n template.Node) error { return f(n) }

func setupLogger(verbosity int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity == 1:
		level = zerolog.InfoLevel
	case verbosity >= 2:
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a monolith.yaml config file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	rootCmd.AddCommand(&generateCmd)
	rootCmd.AddCommand(&checkCmd)
	rootCmd.AddCommand(&astCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
