package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{StructuralErrorCode, "StructuralError"},
		{DuplicateNameErrorCode, "DuplicateNameError"},
		{UnresolvedReferenceErrorCode, "UnresolvedReferenceError"},
		{SyntaxErrorCode, "SyntaxError"},
		{ConfigurationErrorCode, "ConfigurationError"},
		{ErrorCode(999), "UnknownError"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "app.go", SourceLocation{File: "app.go"}.String())
	assert.Equal(t, "app.go:4", SourceLocation{File: "app.go", Line: 4}.String())
	assert.Equal(t, "app.go:4:2", SourceLocation{File: "app.go", Line: 4, Column: 2}.String())
}

func TestDuplicateNameError(t *testing.T) {
	err := NewDuplicateNameError("shell", "main", "example.com/app.App").
		At(SourceLocation{File: "app.go", Line: 7}).
		WithPrevious(SourceLocation{File: "app.go", Line: 6})

	assert.Equal(t, DuplicateNameErrorCode, err.ErrorCode())
	assert.Contains(t, err.Error(), `"main"`)
	assert.Contains(t, err.Error(), "example.com/app.App")
	assert.Contains(t, err.Error(), "app.go:7")
	assert.Equal(t, "app.go:6", err.Context()["previous"])
	assert.NotEmpty(t, err.Suggestions())

	wrapped := fmt.Errorf("scan failed: %w", err)
	var dup *DuplicateNameError
	require.True(t, stderrors.As(wrapped, &dup))
	assert.Equal(t, "main", dup.Name)
	assert.Equal(t, DuplicateNameErrorCode, CodeOf(wrapped))
}

func TestStructuralError(t *testing.T) {
	err := NewStructuralError("app.Home", "controller", "must embed loom.BaseController").
		At(SourceLocation{File: "home.go", Line: 3})

	assert.Equal(t, StructuralErrorCode, err.ErrorCode())
	assert.Equal(t, "home.go:3: type app.Home cannot carry loom::controller: must embed loom.BaseController", err.Error())
}

func TestUnresolvedReferenceError(t *testing.T) {
	err := NewUnresolvedReferenceError("admin.Shell", "app.App", "unknown package alias admin")
	assert.Equal(t, UnresolvedReferenceErrorCode, CodeOf(err))
	assert.Equal(t, "admin.Shell", err.Reference)
}

func TestBaseError_WrapIncludesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := WrapFileSystemError("write", "out.go", cause)

	assert.Equal(t, "failed to write file 'out.go': disk full", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
}

func TestMultipleErrors(t *testing.T) {
	multi := NewMultipleErrors()
	assert.Nil(t, multi.ErrorOrNil())

	first := NewStructuralError("a.A", "component", "not a struct")
	second := NewDuplicateNameError("route", "/main/x", "a.B")
	multi.Add(first)
	multi.Add(second)

	require.Error(t, multi.ErrorOrNil())
	assert.Equal(t, StructuralErrorCode, multi.ErrorCode())
	assert.True(t, multi.HasCode(DuplicateNameErrorCode))
	assert.Contains(t, multi.Error(), "multiple errors (2 total)")

	var dup *DuplicateNameError
	assert.True(t, stderrors.As(multi, &dup))
	assert.Equal(t, StructuralErrorCode, CodeOf(multi))
}
