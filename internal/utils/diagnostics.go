package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	loomerrors "github.com/toyz/loom/internal/errors"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// ParseDiagnosticLevel converts a configured level name
func ParseDiagnosticLevel(name string) (DiagnosticLevel, error) {
	switch strings.ToLower(name) {
	case "silent":
		return DiagnosticSilent, nil
	case "error":
		return DiagnosticError, nil
	case "warn", "warning":
		return DiagnosticWarn, nil
	case "", "info":
		return DiagnosticInfo, nil
	case "verbose":
		return DiagnosticVerbose, nil
	case "debug":
		return DiagnosticDebug, nil
	}
	return DiagnosticInfo, fmt.Errorf("unknown diagnostic level %q", name)
}

// DiagnosticSystem prints generator progress and errors
type DiagnosticSystem struct {
	level    DiagnosticLevel
	output   io.Writer
	errorOut io.Writer
	indent   int

	errorColor   *color.Color
	warnColor    *color.Color
	infoColor    *color.Color
	successColor *color.Color
	detailColor  *color.Color
	headerColor  *color.Color
}

// NewDiagnosticSystem creates a diagnostic system writing to stdout and stderr
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return NewDiagnosticSystemWithWriters(level, os.Stdout, os.Stderr)
}

// NewDiagnosticSystemWithWriters creates a diagnostic system with explicit writers
func NewDiagnosticSystemWithWriters(level DiagnosticLevel, output, errorOut io.Writer) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:        level,
		output:       output,
		errorOut:     errorOut,
		errorColor:   color.New(color.FgRed, color.Bold),
		warnColor:    color.New(color.FgYellow),
		infoColor:    color.New(color.FgBlue),
		successColor: color.New(color.FgGreen),
		detailColor:  color.New(color.FgHiBlack),
		headerColor:  color.New(color.FgCyan, color.Bold),
	}
}

// SetColors forces colored output on or off; by default fatih/color
// follows NO_COLOR and terminal detection
func (d *DiagnosticSystem) SetColors(enabled bool) {
	for _, c := range []*color.Color{d.errorColor, d.warnColor, d.infoColor, d.successColor, d.detailColor, d.headerColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.write(d.errorOut, d.errorColor, "ERROR", format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.write(d.output, d.warnColor, "WARN", format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.write(d.output, d.infoColor, "INFO", format, args...)
	}
}

// Verbose outputs detailed messages
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.write(d.output, d.detailColor, "VERBOSE", format, args...)
	}
}

// Debug outputs debug messages
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.write(d.output, d.detailColor, "DEBUG", format, args...)
	}
}

// Header prints the tool banner line
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo {
		d.headerColor.Fprintf(d.output, "Loom: %s\n", message)
	}
}

// Phase prints a phase heading and indents what follows
func (d *DiagnosticSystem) Phase(title string) {
	if d.level >= DiagnosticInfo {
		d.indent = 0
		d.infoColor.Fprintf(d.output, "%s:\n", title)
		d.indent = 1
	}
}

// Done prints a completed item
func (d *DiagnosticSystem) Done(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		fmt.Fprint(d.output, d.prefix())
		d.successColor.Fprint(d.output, "✓ ")
		fmt.Fprintf(d.output, format+"\n", args...)
	}
}

// Summary prints statistics sorted by key
func (d *DiagnosticSystem) Summary(title string, stats map[string]int) {
	if d.level < DiagnosticInfo {
		return
	}
	d.indent = 0
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintln(d.output)
	d.successColor.Fprintln(d.output, title)
	for _, key := range keys {
		fmt.Fprintf(d.output, "   %s: %d\n", key, stats[key])
	}
}

// ReportError prints err, expanding loom errors into location, context and hints
func (d *DiagnosticSystem) ReportError(err error) {
	if err == nil || d.level < DiagnosticError {
		return
	}

	var multi *loomerrors.MultipleErrors
	if errors.As(err, &multi) {
		for _, e := range multi.Errors {
			d.ReportError(e)
		}
		return
	}

	var loomErr loomerrors.LoomError
	if !errors.As(err, &loomErr) {
		d.Error("%v", err)
		return
	}

	d.Error("[%s] %s", loomErr.ErrorCode(), loomErr.Error())
	ctx := loomErr.Context()
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		d.detailColor.Fprintf(d.errorOut, "    %s: %v\n", key, ctx[key])
	}
	for _, hint := range loomErr.Suggestions() {
		d.warnColor.Fprintf(d.errorOut, "    hint: %s\n", hint)
	}
}

func (d *DiagnosticSystem) write(w io.Writer, c *color.Color, level, format string, args ...interface{}) {
	fmt.Fprint(w, d.prefix())
	c.Fprintf(w, "[%s]", level)
	fmt.Fprintf(w, " %s\n", fmt.Sprintf(format, args...))
}

func (d *DiagnosticSystem) prefix() string {
	return strings.Repeat("  ", d.indent)
}
