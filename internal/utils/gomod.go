package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// GoModParser locates go.mod files and derives import paths from them
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a parser sharing fileReader's cache
func NewGoModParser(fileReader *FileReader) *GoModParser {
	if fileReader == nil {
		fileReader = NewFileReader()
	}
	return &GoModParser{fileReader: fileReader}
}

// ParseModuleName returns the module path declared in goModPath
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	if filepath.Base(goModPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modulePath := modfile.ModulePath([]byte(content))
	if modulePath == "" {
		return "", fmt.Errorf("no module declaration found in %s", goModPath)
	}
	if err := module.CheckImportPath(modulePath); err != nil {
		return "", fmt.Errorf("invalid module path in %s: %w", goModPath, err)
	}
	return modulePath, nil
}

// FindGoModFile walks up from startDir to the nearest go.mod
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, "go.mod")
		if p.fileReader.Exists(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod file not found above %s", startDir)
		}
		dir = parent
	}
}

// ImportPath returns the import path of the package in dir: the module path
// of the nearest go.mod joined with dir's location relative to it
func (p *GoModParser) ImportPath(dir string) (string, error) {
	goModPath, err := p.FindGoModFile(dir)
	if err != nil {
		return "", err
	}
	modulePath, err := p.ParseModuleName(goModPath)
	if err != nil {
		return "", err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(filepath.Dir(goModPath), absDir)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return modulePath, nil
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside module %s", dir, modulePath)
	}
	return path.Join(modulePath, filepath.ToSlash(rel)), nil
}
