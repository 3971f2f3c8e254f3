package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/loom/internal/creator"
	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/scanner"
	"github.com/toyz/loom/internal/utils"
)

// GenerationSummary reports what one run did
type GenerationSummary struct {
	RunID             string
	PackagesProcessed int
	Shells            int
	Controllers       int
	Composites        int
	Written           []string
	Unchanged         []string
	Removed           []string
	Duration          time.Duration
}

// Generator coordinates the CLI generation process: discovery, scanning,
// creator generation and writing
type Generator struct {
	config      *Config
	diagnostics *utils.DiagnosticSystem
	scanner     *DirectoryScanner
	goMod       *utils.GoModParser
	loader      *discovery.Loader
	creator     *creator.Generator
}

// NewGenerator creates a new CLI generator
func NewGenerator(config *Config, diagnostics *utils.DiagnosticSystem) (*Generator, error) {
	if config == nil {
		defaults := DefaultConfig()
		config = &defaults
	}
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}

	codeGenerator, err := creator.NewGenerator()
	if err != nil {
		return nil, err
	}

	return &Generator{
		config:      config,
		diagnostics: diagnostics,
		scanner:     NewDirectoryScanner(),
		goMod:       utils.NewGoModParser(utils.NewFileReader()),
		loader:      discovery.NewLoader(nil),
		creator:     codeGenerator,
	}, nil
}

// Run executes the complete generation process. Nothing is written unless
// every package scans and validates cleanly.
func (g *Generator) Run(ctx context.Context) (*GenerationSummary, error) {
	started := time.Now()
	summary := &GenerationSummary{RunID: uuid.NewString()}
	g.diagnostics.Verbose("generation run %s", summary.RunID)
	g.diagnostics.Debug("scanning directories: %v", g.config.Directories)

	dirs, err := g.scanner.ScanDirectories(g.config.Directories)
	if err != nil {
		return nil, err
	}

	universe, packageDirs, err := g.loadUniverse(ctx, dirs)
	if err != nil {
		return nil, err
	}
	summary.PackagesProcessed = len(packageDirs)
	g.diagnostics.Done("discovered %d packages", summary.PackagesProcessed)

	processor, err := scanner.New(scanner.Config{Diagnostics: g.diagnostics})
	if err != nil {
		return nil, err
	}
	meta, err := processor.Process(universe)
	if err != nil {
		return nil, err
	}
	summary.Shells = len(meta.Shells)
	summary.Controllers = len(meta.Controllers)
	summary.Composites = len(meta.Composites)
	g.diagnostics.Done("scanned %d shells, %d controllers, %d composites",
		summary.Shells, summary.Controllers, summary.Composites)

	files, err := g.creator.Generate(meta)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.writeFiles(files, packageDirs, summary); err != nil {
		return nil, err
	}
	if g.config.PruneStale {
		if err := g.pruneStale(files, packageDirs, summary); err != nil {
			return nil, err
		}
	}

	summary.Duration = time.Since(started)
	return summary, nil
}

// loadUniverse parses every package directory. The returned map goes from
// import path to directory.
func (g *Generator) loadUniverse(ctx context.Context, dirs []string) (*discovery.Universe, map[string]string, error) {
	universe, err := discovery.NewUniverse()
	if err != nil {
		return nil, nil, err
	}
	packageDirs := make(map[string]string, len(dirs))

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		importPath, err := g.goMod.ImportPath(dir)
		if err != nil {
			return nil, nil, errors.WrapWithOperation("resolve import path of", dir, err)
		}
		pkg, err := g.loader.LoadDirectory(dir, importPath)
		if err != nil {
			return nil, nil, err
		}
		if pkg == nil {
			continue
		}
		if err := universe.Add(pkg); err != nil {
			return nil, nil, err
		}
		packageDirs[importPath] = dir
		g.diagnostics.Debug("loaded %s from %s", importPath, dir)
	}
	return universe, packageDirs, nil
}

func (g *Generator) writeFiles(files []*creator.GeneratedFile, packageDirs map[string]string, summary *GenerationSummary) error {
	for _, file := range files {
		dir, ok := packageDirs[file.PackagePath]
		if !ok {
			return errors.Newf(errors.GenerationErrorCode, "no directory scanned for package %s", file.PackagePath)
		}
		path := filepath.Join(dir, file.FileName)

		if g.config.DryRun {
			g.diagnostics.Info("would write %s", path)
			summary.Written = append(summary.Written, path)
			continue
		}

		changed, err := utils.WriteFileIfChanged(path, file.Content)
		if err != nil {
			return errors.WrapFileSystemError("write", path, err)
		}
		if changed {
			g.diagnostics.Verbose("wrote %s", path)
			summary.Written = append(summary.Written, path)
		} else {
			g.diagnostics.Debug("unchanged %s", path)
			summary.Unchanged = append(summary.Unchanged, path)
		}
	}
	return nil
}

// pruneStale removes generated files in scanned packages that this run did
// not produce, such as creators of deleted controllers
func (g *Generator) pruneStale(files []*creator.GeneratedFile, packageDirs map[string]string, summary *GenerationSummary) error {
	expected := make(map[string]bool, len(files))
	for _, file := range files {
		expected[filepath.Join(packageDirs[file.PackagePath], file.FileName)] = true
	}

	dirs := make([]string, 0, len(packageDirs))
	for _, dir := range packageDirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return errors.WrapFileSystemError("read", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !utils.IsGeneratedFile(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if expected[path] {
				continue
			}
			if g.config.DryRun {
				g.diagnostics.Info("would remove %s", path)
			} else if err := os.Remove(path); err != nil {
				return errors.WrapFileSystemError("remove", path, err)
			} else {
				g.diagnostics.Verbose("removed stale %s", path)
			}
			summary.Removed = append(summary.Removed, path)
		}
	}
	return nil
}
