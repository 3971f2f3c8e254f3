package markers

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/loom/internal/errors"
)

var testLoc = errors.SourceLocation{File: "app.go", Line: 10, Column: 1}

func TestIsMarker(t *testing.T) {
	tests := []struct {
		comment string
		want    bool
	}{
		{"//loom::controller -Route=/main/home", true},
		{"// loom::shells main=MainShell", true},
		{"  //loom::component", true},
		{"// regular comment", false},
		{"/* loom::controller */", false},
		{"//axon::controller", false},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarker(tt.comment))
		})
	}
}

func TestParser_Parse(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		name    string
		comment string
		check   func(t *testing.T, m *Marker)
	}{
		{
			name:    "application with context and start route",
			comment: "//loom::application -Context=AppContext -StartRoute=/main/home",
			check: func(t *testing.T, m *Marker) {
				assert.Equal(t, ApplicationMarker, m.Kind)
				assert.Equal(t, "AppContext", m.GetString("Context"))
				assert.Equal(t, "/main/home", m.GetString("StartRoute"))
				assert.Empty(t, m.Entries)
			},
		},
		{
			name:    "shells keep declaration order",
			comment: "//loom::shells main=MainShell admin=admin.AdminShell",
			check: func(t *testing.T, m *Marker) {
				assert.Equal(t, ShellsMarker, m.Kind)
				assert.Equal(t, []Entry{
					{Name: "main", Value: "MainShell", HasValue: true},
					{Name: "admin", Value: "admin.AdminShell", HasValue: true},
				}, m.Entries)
			},
		},
		{
			name:    "controller with flag and route parameters",
			comment: "//loom::controller -Route=/main/detail/:id/:tab -Cache -Constructor=NewDetail",
			check: func(t *testing.T, m *Marker) {
				assert.Equal(t, "/main/detail/:id/:tab", m.GetString("Route"))
				assert.True(t, m.GetBool("Cache"))
				assert.Equal(t, "NewDetail", m.GetString("Constructor"))
			},
		},
		{
			name:    "controller cache defaults to false",
			comment: "//loom::controller -Route=/main/home",
			check: func(t *testing.T, m *Marker) {
				assert.False(t, m.Has("Cache"))
				assert.False(t, m.GetBool("Cache"))
			},
		},
		{
			name:    "explicit bool value",
			comment: "//loom::controller -Route=/main/home -Cache=false",
			check: func(t *testing.T, m *Marker) {
				assert.True(t, m.Has("Cache"))
				assert.False(t, m.GetBool("Cache", true))
			},
		},
		{
			name:    "composite with quoted selector",
			comment: `//loom::composite -Name=summary -Component=SummaryComponent -Setter=SetSummary -Selector="summary panel"`,
			check: func(t *testing.T, m *Marker) {
				assert.Equal(t, CompositeMarker, m.Kind)
				assert.Equal(t, "summary panel", m.GetString("Selector"))
				assert.Equal(t, "SetSummary", m.GetString("Setter"))
			},
		},
		{
			name:    "parameter entry",
			comment: "//loom::parameter id",
			check: func(t *testing.T, m *Marker) {
				assert.Equal(t, ParameterMarker, m.Kind)
				assert.Equal(t, []Entry{{Name: "id"}}, m.Entries)
			},
		},
		{
			name:    "space after comment slashes",
			comment: "// loom::component",
			check: func(t *testing.T, m *Marker) {
				assert.Equal(t, ComponentMarker, m.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := p.Parse(tt.comment, "Target", testLoc)
			require.NoError(t, err)
			assert.Equal(t, "Target", m.Target)
			assert.Equal(t, testLoc, m.Location)
			tt.check(t, m)
		})
	}
}

func TestParser_Errors(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		name     string
		comment  string
		code     errors.ErrorCode
		contains string
	}{
		{"unknown kind", "//loom::service", errors.SyntaxErrorCode, "unknown marker kind"},
		{"garbage", "//loom::controller -Route=/a ===", errors.SyntaxErrorCode, "malformed marker"},
		{"unknown parameter", "//loom::controller -Route=/main/a -Mode=x", errors.ValidationErrorCode, `"Mode": unknown parameter`},
		{"missing required", "//loom::controller -Cache", errors.ValidationErrorCode, `"Route": is required`},
		{"bad route", "//loom::controller -Route=main", errors.ValidationErrorCode, "must start with '/'"},
		{"bad route parameter", "//loom::controller -Route=/main/:1x", errors.ValidationErrorCode, "route parameter"},
		{"string flag without value", "//loom::controller -Route=/main/a -Constructor", errors.ValidationErrorCode, "requires a string value"},
		{"bad bool", "//loom::controller -Route=/main/a -Cache=maybe", errors.ValidationErrorCode, "expected bool"},
		{"repeated option", "//loom::controller -Route=/main/a -Route=/main/b", errors.ValidationErrorCode, "declared more than once"},
		{"empty shells", "//loom::shells", errors.ValidationErrorCode, "expected at least 1"},
		{"shell without type", "//loom::shells main", errors.ValidationErrorCode, "requires a value"},
		{"parameter with value", "//loom::parameter id=x", errors.ValidationErrorCode, "does not take a value"},
		{"two parameters", "//loom::parameter id tab", errors.ValidationErrorCode, "expected at most 1"},
		{"positional on controller", "//loom::controller home -Route=/main/a", errors.ValidationErrorCode, "positional arguments"},
		{"bad type reference", "//loom::composite -Name=a -Component=a.b.C -Setter=SetA", errors.ValidationErrorCode, "type reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.comment, "Target", testLoc)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "app.go:10")
		})
	}
}

func TestParser_SyntaxErrorCarriesCause(t *testing.T) {
	_, err := NewParser(nil).Parse("//loom::", "X", testLoc)
	require.Error(t, err)

	var syntaxErr *errors.SyntaxError
	require.True(t, stderrors.As(err, &syntaxErr))
	assert.Equal(t, "//loom::", syntaxErr.Raw)
	assert.NotNil(t, syntaxErr.Unwrap())
}
