// Package walker discovers Python source files under a root directory
// using doublestar include/exclude patterns on root-relative paths.
package walker

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// File describes one discovered source file
type File struct {
	Path    string
	RelPath string
	Size    int64
	ModTime time.Time
}

// Walker filters a directory tree down to matching files
type Walker struct {
	includes []string
	excludes []string
}

// DefaultIncludes matches Python sources
var DefaultIncludes = []string{"**/*.py"}

// DefaultExcludes skips the usual vendored and generated trees
var DefaultExcludes = []string{
	"**/.git/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/venv/**",
	"**/node_modules/**",
}

// New creates a walker. Empty include/exclude lists fall back to defaults.
func New(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	if len(excludes) == 0 {
		excludes = DefaultExcludes
	}
	return &Walker{includes: includes, excludes: excludes}
}

// Walk returns the matching files under root, in directory-walk order
func (w *Walker) Walk(root string) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && w.matches(w.excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.matches(w.includes, rel) || w.matches(w.excludes, rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{
			Path:    path,
			RelPath: rel,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})

	return files, err
}

func (w *Walker) matches(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ModuleName derives a dotted module name from a root-relative path:
// pkg/sub/mod.py becomes pkg.sub.mod.
func ModuleName(rel string) string {
	rel = filepath.ToSlash(rel)
	ext := filepath.Ext(rel)
	if ext != "" {
		rel = rel[:len(rel)-len(ext)]
	}
	return strings.ReplaceAll(rel, "/", ".")
}
