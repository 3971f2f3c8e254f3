package utils

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/loom/internal/errors"
)

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("name"), IsValidGoIdentifier("name"))
	chain.Add(HasPrefix("name", "Set"))
	assert.Equal(t, 3, chain.Len())

	assert.NoError(t, chain.Validate("SetHome"))

	err := chain.Validate("")
	require.Error(t, err)
	assert.Equal(t, "validation error for field 'name': cannot be empty", err.Error())

	assert.Len(t, chain.ValidateAll(""), 3)
	assert.Len(t, chain.ValidateAll("home"), 1)
	assert.Len(t, chain.ValidateAll("func"), 2, "keywords are not identifiers")
}

func TestValidators(t *testing.T) {
	assert.Error(t, HasPrefix("route", "/")("main"))
	assert.NoError(t, HasPrefix("route", "/")("/main"))

	onlyLong := Conditional(func(s string) bool { return len(s) > 3 }, HasPrefix("x", "New"))
	assert.NoError(t, onlyLong("abc"))
	assert.Error(t, onlyLong("abcd"))

	err := IsValidGoIdentifier("shell")("9lives")
	require.Error(t, err)
	assert.Equal(t, "validation error for field 'shell': must be a valid Go identifier", err.Error())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[int]("templates")
	r.SetValidator(func(key string, value int) error {
		if value < 0 {
			return fmt.Errorf("negative")
		}
		return nil
	})

	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("a", 1))

	assert.EqualError(t, r.Register("a", 3), `templates: "a" already registered`)
	assert.EqualError(t, r.Register("c", -1), `templates: "c": negative`)
	assert.Error(t, r.Register("", 1))

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	assert.Equal(t, 2, r.Len())

	v, err := r.MustGet("b")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	_, err = r.MustGet("z")
	assert.EqualError(t, err, `templates: "z" not registered`)
}

func TestDiagnosticSystem(t *testing.T) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystemWithWriters(DiagnosticInfo, &out, &errOut)
	d.SetColors(false)

	d.Header("generating")
	d.Phase("Scanning")
	d.Done("found %d controllers", 2)
	d.Verbose("hidden")
	d.Summary("Done", map[string]int{"files": 3, "controllers": 2})

	assert.Contains(t, out.String(), "Loom: generating")
	assert.Contains(t, out.String(), "  ✓ found 2 controllers")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "   controllers: 2\n   files: 3\n")

	err := errors.NewDuplicateNameError("shell", "main", "example.com/app.App").
		WithPrevious(errors.SourceLocation{File: "app.go", Line: 4})
	multi := errors.NewMultipleErrors()
	multi.Add(err)
	d.ReportError(multi)

	assert.Contains(t, errOut.String(), "[ERROR] [DuplicateNameError]")
	assert.Contains(t, errOut.String(), "previous: app.go:4")
	assert.Contains(t, errOut.String(), "hint:")
}

func TestParseDiagnosticLevel(t *testing.T) {
	level, err := ParseDiagnosticLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DiagnosticDebug, level)

	level, err = ParseDiagnosticLevel("")
	require.NoError(t, err)
	assert.Equal(t, DiagnosticInfo, level)

	_, err = ParseDiagnosticLevel("loud")
	assert.Error(t, err)
}
