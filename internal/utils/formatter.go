package utils

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
)

// FormatGoSource formats generated Go code. On failure the error carries the
// numbered source so template bugs are easy to locate.
func FormatGoSource(source []byte) ([]byte, error) {
	formatted, err := format.Source(source)
	if err != nil {
		return nil, fmt.Errorf("generated code does not compile: %w\n%s", err, numberLines(source))
	}
	return formatted, nil
}

func numberLines(source []byte) string {
	var buf bytes.Buffer
	for i, line := range bytes.Split(source, []byte("\n")) {
		fmt.Fprintf(&buf, "%4d  %s\n", i+1, line)
	}
	return buf.String()
}

// WriteFileIfChanged writes content to path unless the file already holds
// exactly that content. It reports whether the file was written.
func WriteFileIfChanged(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".loom-*.tmp")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}
