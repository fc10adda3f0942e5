// Package site wires the template engine to the filesystem: it loads a
// content document, resolves the template and output paths, and writes the
// rendered file.
package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config carries generator settings that would otherwise live in implicit
// globals. Document keys take precedence over these; these take precedence
// over the built-in defaults.
type Config struct {
	TemplateDir string `yaml:"template_dir,omitempty"`
	OutputDir   string `yaml:"output_dir,omitempty"`
	ContentDir  string `yaml:"content_dir,omitempty"`
}

const configFileName = "monolith.yaml"

// LoadConfig reads the generator config. With an explicit path the file
// must exist; with an empty path it searches the working directory and
// then the XDG config directory, and a missing file simply yields the
// zero config.
func LoadConfig(path string) (Config, error) {
	if path != "" {
		return readConfig(path)
	}
	if _, err := os.Stat(configFileName); err == nil {
		return readConfig(configFileName)
	}
	if p, err := xdg.SearchConfigFile(filepath.Join("monolith", configFileName)); err == nil {
		return readConfig(p)
	}
	return Config{}, nil
}

func readConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, nil
}
