package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover returns the regular files in dir matching pattern, sorted by path.
func Discover(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", pattern, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoFiles, pattern, dir)
	}
	sort.Strings(files)
	return files, nil
}
