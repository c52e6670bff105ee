package pcdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Directory names never descended into when looking for .pc files.
var DefaultExcludeDirs = []string{
	".git",
	".cache",
	"node_modules",
}

func DefaultPatterns() []string {
	return []string{"**/*.pc"}
}

// List walks root and returns every file whose root-relative path matches
// one of the doublestar patterns, skipping excluded directory names.
// Results are absolute paths in sorted order.
func List(root string, patterns, excludeDirs []string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	if excludeDirs == nil {
		excludeDirs = DefaultExcludeDirs
	}

	excludeSet := make(map[string]bool)
	for _, d := range excludeDirs {
		excludeSet[d] = true
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && excludeSet[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesAny(rel, patterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func matchesAny(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		pattern := filepath.ToSlash(p)

		matched, err := doublestar.Match(pattern, relPath)
		if err == nil && matched {
			return true
		}

		// Bare patterns like "*.pc" should also match in subdirectories.
		if !strings.Contains(pattern, "/") {
			matched, err = doublestar.Match(pattern, filepath.Base(relPath))
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
