package analysis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNoInputs means the input directory holds no files matching the pattern
var ErrNoInputs = errors.New("no input files found")

// FindInputs lists the regular files in dir whose names match pattern, in
// lexicographic order so runs and legends are reproducible.
func FindInputs(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, path := range matches {
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s matching %q", ErrNoInputs, dir, pattern)
	}

	return SortInputs(files), nil
}

// SortInputs returns paths in lexicographic order without modifying the argument
func SortInputs(paths []string) []string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return sorted
}
