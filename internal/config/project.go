package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents a .pyslice.yaml file in a repository
type ProjectConfig struct {
	Version string `yaml:"version"`

	// File patterns used when scanning a tree
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// Index settings
	Index IndexConfig `yaml:"index,omitempty"`

	// Describe output settings
	Describe DescribeConfig `yaml:"describe,omitempty"`
}

// IndexConfig holds module-index preferences
type IndexConfig struct {
	// PrefixTopLevel qualifies top-level entries with the module name
	PrefixTopLevel bool `yaml:"prefix_top_level,omitempty"`
}

// DescribeConfig holds describe output preferences
type DescribeConfig struct {
	ShowSig   *bool `yaml:"show_sig,omitempty"`
	ShowDoc   *bool `yaml:"show_doc,omitempty"`
	ShowDecor *bool `yaml:"show_decor,omitempty"`
	ShowBody  *bool `yaml:"show_body,omitempty"`
	Quiet     *bool `yaml:"quiet,omitempty"`
	Header    *bool `yaml:"header,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version: "1.0",
		Include: []string{"**/*.py"},
		Exclude: []string{
			"**/.git/**",
			"**/__pycache__/**",
			"**/.venv/**",
			"**/venv/**",
		},
	}
}

// LoadProjectConfig loads a .pyslice.yaml from the given directory.
// A missing file yields the defaults.
func LoadProjectConfig(repoPath string) (*ProjectConfig, error) {
	configPath := filepath.Join(repoPath, ".pyslice.yaml")

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultProjectConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays non-empty fields from other onto the receiver
func (p *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}
	if other.Version != "" {
		p.Version = other.Version
	}
	if len(other.Include) > 0 {
		p.Include = other.Include
	}
	if len(other.Exclude) > 0 {
		p.Exclude = other.Exclude
	}
	if other.Index.PrefixTopLevel {
		p.Index.PrefixTopLevel = true
	}
	mergeBool := func(dst **bool, src *bool) {
		if src != nil {
			*dst = src
		}
	}
	mergeBool(&p.Describe.ShowSig, other.Describe.ShowSig)
	mergeBool(&p.Describe.ShowDoc, other.Describe.ShowDoc)
	mergeBool(&p.Describe.ShowDecor, other.Describe.ShowDecor)
	mergeBool(&p.Describe.ShowBody, other.Describe.ShowBody)
	mergeBool(&p.Describe.Quiet, other.Describe.Quiet)
	mergeBool(&p.Describe.Header, other.Describe.Header)
}
