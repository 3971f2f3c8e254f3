package loom

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger receives the creation trace written by generated creators.
// depth is the nesting level of the message inside the creation flow.
type Logger interface {
	LogSimple(message string, depth int)
	LogDetailed(message string, depth int)
}

// CharmLogger writes simple messages at info level and detailed messages at debug level
type CharmLogger struct {
	logger *log.Logger
}

// NewCharmLogger creates a logger writing to w. Detailed messages are only
// emitted when detailed is true.
func NewCharmLogger(w io.Writer, detailed bool) *CharmLogger {
	if w == nil {
		w = os.Stderr
	}

	level := log.InfoLevel
	if detailed {
		level = log.DebugLevel
	}

	return &CharmLogger{
		logger: log.NewWithOptions(w, log.Options{
			Prefix: "loom",
			Level:  level,
		}),
	}
}

// LogSimple implements Logger
func (l *CharmLogger) LogSimple(message string, depth int) {
	l.logger.Info(indent(message, depth))
}

// LogDetailed implements Logger
func (l *CharmLogger) LogDetailed(message string, depth int) {
	l.logger.Debug(indent(message, depth))
}

func indent(message string, depth int) string {
	if depth <= 0 {
		return message
	}
	return strings.Repeat("  ", depth) + message
}

// NopLogger discards every message
type NopLogger struct{}

// LogSimple implements Logger
func (NopLogger) LogSimple(string, int) {}

// LogDetailed implements Logger
func (NopLogger) LogDetailed(string, int) {}

// LogEntry is one message captured by a MemoryLogger
type LogEntry struct {
	Message  string
	Depth    int
	Detailed bool
}

// MemoryLogger records messages in order. Useful in tests.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMemoryLogger creates an empty recording logger
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

// LogSimple implements Logger
func (l *MemoryLogger) LogSimple(message string, depth int) {
	l.record(LogEntry{Message: message, Depth: depth})
}

// LogDetailed implements Logger
func (l *MemoryLogger) LogDetailed(message string, depth int) {
	l.record(LogEntry{Message: message, Depth: depth, Detailed: true})
}

func (l *MemoryLogger) record(entry LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the recorded messages
func (l *MemoryLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// Messages returns the recorded message texts
func (l *MemoryLogger) Messages() []string {
	entries := l.Entries()
	messages := make([]string, len(entries))
	for i, e := range entries {
		messages[i] = e.Message
	}
	return messages
}

// Reset drops all recorded messages
func (l *MemoryLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
