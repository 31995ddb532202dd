package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DocPage is one page of the documentation site exported alongside the
// data.
type DocPage struct {
	Title   string `yaml:"title"`
	Path    string `yaml:"path"`
	Content string `yaml:"content,omitempty"`
}

// DocConfig is the optional documentation configuration document.
type DocConfig struct {
	Pages []DocPage `yaml:"pages"`
}

// LoadDocConfig reads the YAML documentation configuration.  A missing
// file is not an error; the export simply omits the doc pages.
func LoadDocConfig(path string) (*DocConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &DocConfig{}, nil
		}
		return nil, fmt.Errorf("read doc config %s: %w", path, err)
	}
	var cfg DocConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse doc config %s: %w", path, err)
	}
	return &cfg, nil
}
