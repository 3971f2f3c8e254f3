package cli

import (
	"fmt"

	"github.com/toyz/loom/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
	diagnostics   *utils.DiagnosticSystem
}

// NewCleaner creates a new cleaner
func NewCleaner(diagnostics *utils.DiagnosticSystem) *Cleaner {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
		diagnostics:   diagnostics,
	}
}

// CleanGeneratedFiles removes every autogen_* file below directories and
// returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	roots, err := NormalizeRoots(directories)
	if err != nil {
		return nil, err
	}

	removed, err := c.fileProcessor.CleanGenerated(roots)
	if err != nil {
		return removed, fmt.Errorf("failed to clean generated files: %w", err)
	}
	for _, path := range removed {
		c.diagnostics.Verbose("removed %s", path)
	}
	return removed, nil
}
