package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/utils"
)

// DirectoryScanner finds the package directories below the configured roots
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories returns every directory below rootDirs that holds Go source.
// Go-style patterns like "./..." are accepted; scanning is always recursive.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	roots, err := NormalizeRoots(rootDirs)
	if err != nil {
		return nil, err
	}
	return s.fileProcessor.PackageDirectories(roots)
}

// NormalizeRoots strips /... suffixes and resolves roots to absolute paths
func NormalizeRoots(rootDirs []string) ([]string, error) {
	roots := make([]string, 0, len(rootDirs))
	for _, rootDir := range rootDirs {
		base := strings.TrimSuffix(filepath.ToSlash(rootDir), "...")
		base = strings.TrimSuffix(base, "/")
		if base == "" {
			base = "."
		}

		abs, err := filepath.Abs(filepath.FromSlash(base))
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", rootDir), err)
		}
		roots = append(roots, abs)
	}
	return roots, nil
}
