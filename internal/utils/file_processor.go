package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Generated file naming
const (
	GeneratedPrefix     = "autogen_"
	CreatorFileSuffix   = "_creator.go"
	ApplicationFileName = "autogen_application.go"
)

// CreatorFileName returns the generated creator file name for a controller type
func CreatorFileName(controllerName string) string {
	return GeneratedPrefix + strings.ToLower(controllerName) + CreatorFileSuffix
}

// IsGeneratedFile reports whether name is a file written by the generator
func IsGeneratedFile(name string) bool {
	if name == ApplicationFileName {
		return true
	}
	return strings.HasPrefix(name, GeneratedPrefix) && strings.HasSuffix(name, CreatorFileSuffix)
}

// FileFilter decides whether a directory entry should be processed
type FileFilter func(path string, entry fs.DirEntry) bool

// DefaultGoFileFilter accepts .go files except tests and generated files
func DefaultGoFileFilter() FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		if entry.IsDir() {
			return false
		}
		name := entry.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, GeneratedPrefix)
	}
}

// GeneratedFileFilter accepts files written by the generator
func GeneratedFileFilter() FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		return !entry.IsDir() && IsGeneratedFile(entry.Name())
	}
}

var skippedDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
}

// SkipDirectory reports whether a directory is never scanned: hidden,
// underscore-prefixed, vendor, node_modules and testdata
func SkipDirectory(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || skippedDirs[name]
}

// FileProcessor walks source trees for the generator
type FileProcessor struct {
	fileFilter FileFilter
}

// NewFileProcessor creates a processor using DefaultGoFileFilter
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{fileFilter: DefaultGoFileFilter()}
}

// PackageDirectories returns every directory under roots holding at least one
// source file, sorted and without duplicates
func (fp *FileProcessor) PackageDirectories(roots []string) ([]string, error) {
	found := make(map[string]bool)

	for _, root := range roots {
		if root == "" {
			root = "."
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot scan %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("cannot scan %s: not a directory", root)
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if path != root && SkipDirectory(entry.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if fp.fileFilter(path, entry) {
				found[filepath.Clean(filepath.Dir(path))] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	dirs := make([]string, 0, len(found))
	for dir := range found {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// CleanGenerated removes generated files under roots and returns their paths
func (fp *FileProcessor) CleanGenerated(roots []string) ([]string, error) {
	filter := GeneratedFileFilter()
	var removed []string

	for _, root := range roots {
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if entry.IsDir() {
				if path != root && SkipDirectory(entry.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !filter(path, entry) {
				return nil
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
			removed = append(removed, path)
			return nil
		})
		if err != nil {
			return removed, err
		}
	}

	sort.Strings(removed)
	return removed, nil
}
