package kgraph

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no config file is found walking up
// from a starting directory.
var ErrConfigNotFound = errors.New("kgraph: no .kgraph.yaml found")

// Config is the .kgraph.yaml configuration file: which edge files to
// register with the store, the store's connection string, and the
// edge-reader's shape policy defaults.
type Config struct {
	Store     StoreConfig      `yaml:"store"`
	EdgeFiles []EdgeFileConfig `yaml:"edge_files,omitempty"`
}

// StoreConfig names the relational backend the compiler should address.
type StoreConfig struct {
	// DSN is the backend's connection string, e.g. a SQLite file path or
	// ":memory:".
	DSN string `yaml:"dsn"`
}

// EdgeFileConfig describes one registered edge file and its shape policy.
type EdgeFileConfig struct {
	Path string `yaml:"path"`

	// Separator defaults to a tab when empty.
	Separator string `yaml:"separator,omitempty"`

	RequireAllColumns    bool `yaml:"require_all_columns,omitempty"`
	ProhibitExtraColumns bool `yaml:"prohibit_extra_columns,omitempty"`
	FillMissingColumns   bool `yaml:"fill_missing_columns,omitempty"`
	GunzipInParallel     bool `yaml:"gunzip_in_parallel,omitempty"`
}

// Paths returns the configured edge files' paths, in configuration order —
// the order the graph resolver uses to pick a default graph and to match
// unresolved handles.
func (c *Config) Paths() []string {
	paths := make([]string, len(c.EdgeFiles))
	for i, f := range c.EdgeFiles {
		paths[i] = f.Path
	}

	return paths
}

// DefaultConfigNames are the filenames LoadConfig and FindConfig search for.
var DefaultConfigNames = []string{".kgraph.yaml", ".kgraph.yml", "kgraph.yaml", "kgraph.yml"}

// LoadConfig finds and loads the nearest config file walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up
// to the filesystem root.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
