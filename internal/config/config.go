package config

import (
	"fmt"
	"path/filepath"

	"github.com/soerengrunewald/pkgconf-mangler/internal/storage"
)

const FileName = ".pkgconf-mangler.yaml"

type BatchConfig struct {
	Patterns    []string `yaml:"patterns"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// Config holds per-project defaults. Explicit command-line flags always
// win over values read from here.
type Config struct {
	MergePrivate bool         `yaml:"merge_private"`
	RemoveRPath  bool         `yaml:"remove_rpath"`
	Batch        *BatchConfig `yaml:"batch"`
}

// Default is the config written by `pkgconf-mangler init`: both rewrite
// operations on, standard file selection.
func Default() *Config {
	return &Config{
		MergePrivate: true,
		RemoveRPath:  true,
		Batch: &BatchConfig{
			Patterns:    []string{"**/*.pc"},
			ExcludeDirs: []string{".git", ".cache", "node_modules"},
		},
	}
}

// Save writes the config. An empty path means the default file name in
// the current directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = FileName
	}
	return storage.NewYAMLFile(path).Save(cfg)
}

// Load reads the config at the given path. An empty path means the
// default file name in the current directory; a missing default file
// yields the zero config, but a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	file := storage.NewYAMLFile(path)
	if !file.Exists() {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return &Config{}, nil
	}

	var cfg Config
	if err := file.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}
