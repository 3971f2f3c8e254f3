package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/markers"
	"github.com/toyz/loom/internal/model"
)

// Universe holds every package scanned in one compilation round
type Universe struct {
	packages map[string]*Package
}

// NewUniverse creates a universe from packages
func NewUniverse(packages ...*Package) (*Universe, error) {
	u := &Universe{packages: make(map[string]*Package)}
	for _, pkg := range packages {
		if err := u.Add(pkg); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Add registers a package
func (u *Universe) Add(pkg *Package) error {
	if pkg == nil {
		return nil
	}
	if _, exists := u.packages[pkg.ImportPath]; exists {
		return fmt.Errorf("package %s loaded twice", pkg.ImportPath)
	}
	u.packages[pkg.ImportPath] = pkg
	return nil
}

// Packages returns the packages ordered by import path
func (u *Universe) Packages() []*Package {
	paths := make([]string, 0, len(u.packages))
	for p := range u.packages {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	result := make([]*Package, len(paths))
	for i, p := range paths {
		result[i] = u.packages[p]
	}
	return result
}

// Package returns the scanned package with importPath
func (u *Universe) Package(importPath string) (*Package, bool) {
	pkg, ok := u.packages[importPath]
	return pkg, ok
}

// TypesWithMarker returns the types carrying kind in deterministic order:
// import path, then file name, then declaration order
func (u *Universe) TypesWithMarker(kind markers.Kind) []*Type {
	var result []*Type
	for _, pkg := range u.Packages() {
		for _, t := range pkg.Types {
			if t.HasMarker(kind) {
				result = append(result, t)
			}
		}
	}
	return result
}

// LookupType returns the scanned type named by className
func (u *Universe) LookupType(className model.ClassName) (*Type, bool) {
	pkg, ok := u.packages[className.PackagePath]
	if !ok {
		return nil, false
	}
	return pkg.Type(className.Name)
}

// ResolveReference turns Name or alias.Name written in a marker on owner into a ClassName.
// References into scanned packages must name a declared type; references into other
// packages are trusted. Errors are reported at the marker location at.
func (u *Universe) ResolveReference(owner *Type, reference string, at errors.SourceLocation) (model.ClassName, error) {
	className, ok := owner.Scope().Resolve(reference)
	if !ok {
		i := strings.LastIndex(reference, ".")
		return model.ClassName{}, errors.NewUnresolvedReferenceError(reference, owner.QualifiedName(),
			fmt.Sprintf("package %s is not imported by %s", reference[:i], owner.File)).
			At(at).
			Hint(fmt.Sprintf("add an import for the package providing %s", reference[i+1:]))
	}

	if _, scanned := u.packages[className.PackagePath]; scanned {
		if _, ok := u.LookupType(className); !ok {
			return model.ClassName{}, errors.NewUnresolvedReferenceError(reference, owner.QualifiedName(),
				fmt.Sprintf("no type %s declared in %s", className.Name, className.PackagePath)).
				At(at)
		}
	}

	return className, nil
}
