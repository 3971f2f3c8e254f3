package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/model"
)

const rulesSource = `package app

import (
	"example.com/other"
	"github.com/toyz/loom/pkg/loom"
)

type Ctx struct{}

type Good struct {
	loom.BaseController[*Ctx]
}

type Foreign struct {
	loom.BaseController[*other.Ctx]
}

func NewGood() *Good { return &Good{} }

func (g *Good) SetName(name string) error { return nil }

func (g *Good) SetMany(a, b string) {}

func (g *Good) SetCount(n int) {}

type ByPointer struct {
	*loom.BaseComponent[*Good]
}

func NewByPointer(x int) *ByPointer { return nil }

type Bare struct{}

func (b *Bare) Render() error { return nil }

func (b *Bare) Bind(x int) {}

type Alias = Bare
`

func loadTypes(t *testing.T) *discovery.Package {
	t.Helper()
	pkg, err := discovery.NewLoader(nil).LoadSource("example.com/app", "app.go", rulesSource)
	require.NoError(t, err)
	return pkg
}

func typeOf(t *testing.T, pkg *discovery.Package, name string) *discovery.Type {
	t.Helper()
	typ, ok := pkg.Type(name)
	require.True(t, ok, name)
	return typ
}

func TestTypeRules(t *testing.T) {
	pkg := loadTypes(t)

	tests := []struct {
		name    string
		rule    TypeRule
		typ     string
		wantErr string
	}{
		{name: "struct", rule: IsStruct("component"), typ: "Bare"},
		{name: "alias is not a struct", rule: IsStruct("component"), typ: "Alias", wantErr: "only struct types are supported"},
		{name: "embeds base", rule: EmbedsRuntimeBase("controller", "BaseController", "loom.BaseController[*Ctx]"), typ: "Good"},
		{name: "missing base", rule: EmbedsRuntimeBase("controller", "BaseController", "loom.BaseController[*Ctx]"), typ: "Bare", wantErr: "must embed loom.BaseController"},
		{name: "pointer base", rule: EmbedsRuntimeBase("component", "BaseComponent", "loom.BaseComponent[*Good]"), typ: "ByPointer", wantErr: "loom.BaseComponent must be embedded by value"},
		{name: "lifecycle returning error", rule: HasLifecycleMethod("component", "Render"), typ: "Bare"},
		{name: "lifecycle with parameters", rule: HasLifecycleMethod("component", "Bind"), typ: "Bare", wantErr: "method Bind must have no parameters"},
		{name: "lifecycle missing", rule: HasLifecycleMethod("component", "Render"), typ: "Good", wantErr: "missing method Render()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule(typeOf(t, pkg, tt.typ))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.StructuralErrorCode, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckSetter(t *testing.T) {
	good := typeOf(t, loadTypes(t), "Good")

	method, err := CheckSetter(good, "composite", "SetName", "composite name")
	require.NoError(t, err)
	assert.True(t, method.ReturnsError)

	_, err = CheckSetter(good, "composite", "SetMissing", "composite x")
	assert.ErrorContains(t, err, "setter SetMissing for composite x is not declared")

	_, err = CheckSetter(good, "composite", "SetMany", "composite x")
	assert.ErrorContains(t, err, "must take exactly one argument")

	setCount, ok := good.Method("SetCount")
	require.True(t, ok)
	assert.ErrorContains(t, CheckParameterSetter(good, setCount), "must take a single string")

	setName, ok := good.Method("SetName")
	require.True(t, ok)
	assert.NoError(t, CheckParameterSetter(good, setName))
}

func TestCheckContextArgument(t *testing.T) {
	pkg := loadTypes(t)
	ctx := model.NewClassName("example.com/app", "Ctx")

	assert.NoError(t, CheckContextArgument(typeOf(t, pkg, "Good"), ctx))
	assert.NoError(t, CheckContextArgument(typeOf(t, pkg, "Bare"), ctx), "types without the base are left to EmbedsRuntimeBase")
	assert.NoError(t, CheckContextArgument(typeOf(t, pkg, "Foreign"), model.NewClassName("example.com/other", "Ctx")))

	err := CheckContextArgument(typeOf(t, pkg, "Good"), model.NewClassName("example.com/app", "Session"))
	assert.ErrorContains(t, err, "loom.BaseController[*Ctx] does not match the application context example.com/app.Session")

	err = CheckContextArgument(typeOf(t, pkg, "Foreign"), ctx)
	require.Error(t, err)
	assert.Equal(t, errors.StructuralErrorCode, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "loom.BaseController[*other.Ctx] does not match the application context example.com/app.Ctx")
}

func TestPointerTo(t *testing.T) {
	scope := discovery.Scope{
		PackagePath: "example.com/app",
		Imports:     map[string]string{"widgets": "example.com/widgets", "ui": "example.com/app/ui"},
	}
	card := model.NewClassName("example.com/widgets", "Card")
	localCard := model.NewClassName("example.com/app", "Card")

	tests := []struct {
		name      string
		expr      string
		className model.ClassName
		want      bool
	}{
		{name: "qualified", expr: "*widgets.Card", className: card, want: true},
		{name: "local", expr: "*Card", className: localCard, want: true},
		{name: "value", expr: "widgets.Card", className: card},
		{name: "other name", expr: "*widgets.Cards", className: card},
		{name: "local type named like the import", expr: "*Card", className: card},
		{name: "imported type named like the local one", expr: "*widgets.Card", className: localCard},
		{name: "same name in another import", expr: "*ui.Card", className: card},
		{name: "unknown alias", expr: "*other.Card", className: card},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointerTo(scope, tt.expr, tt.className))
		})
	}
}

func TestCheckConstructor(t *testing.T) {
	pkg := loadTypes(t)

	fn, err := CheckConstructor(typeOf(t, pkg, "Good"), "controller", "NewGood")
	require.NoError(t, err)
	assert.False(t, fn.ReturnsError)

	_, err = CheckConstructor(typeOf(t, pkg, "ByPointer"), "component", "NewByPointer")
	assert.ErrorContains(t, err, "constructor NewByPointer must have signature func() *ByPointer")

	_, err = CheckConstructor(typeOf(t, pkg, "Good"), "controller", "NewMissing")
	require.Error(t, err)
	assert.Equal(t, errors.UnresolvedReferenceErrorCode, errors.CodeOf(err))
}

func TestShellNameValidator(t *testing.T) {
	meta := model.New()
	meta.AddShells(&model.ShellModel{Name: "main", ClassName: model.NewClassName("example.com/app", "Main")})

	v := NewShellNameValidator(meta, "example.com/app.App")
	assert.NoError(t, v.Accept("admin", errors.SourceLocation{Line: 3}))

	err := v.Accept("main", errors.SourceLocation{Line: 3})
	require.Error(t, err)
	assert.Equal(t, errors.DuplicateNameErrorCode, errors.CodeOf(err))

	err = v.Accept("admin", errors.SourceLocation{Line: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin")
}
