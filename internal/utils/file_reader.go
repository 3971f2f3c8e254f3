package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReader reads files and caches their contents until they change on disk
type FileReader struct {
	contents *FileCache[string]
}

// NewFileReader creates a FileReader with an empty cache
func NewFileReader() *FileReader {
	return &FileReader{
		contents: NewFileCache[string](),
	}
}

// ReadFile returns the contents of path
func (fr *FileReader) ReadFile(path string) (string, error) {
	if err := NotEmpty("path")(path); err != nil {
		return "", err
	}
	cleanPath := filepath.Clean(path)

	if cached, ok := fr.contents.Get(cleanPath); ok {
		return cached, nil
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	content := string(data)
	// a file removed between read and stat simply stays uncached
	_ = fr.contents.Set(cleanPath, content)
	return content, nil
}

// Exists reports whether path exists and is a regular file
func (fr *FileReader) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Invalidate drops the cached contents of path
func (fr *FileReader) Invalidate(path string) {
	fr.contents.Delete(filepath.Clean(path))
}

// Stats returns cache statistics
func (fr *FileReader) Stats() CacheStats {
	return fr.contents.Stats()
}
