package model

import "path"

// ClassName is a fully qualified type reference: package import path plus type name.
// It is a plain value so the generator never needs live type information.
type ClassName struct {
	PackagePath string
	Name        string
}

// NewClassName creates a ClassName
func NewClassName(packagePath, name string) ClassName {
	return ClassName{PackagePath: packagePath, Name: name}
}

// String returns the fully qualified name used as the runtime store key
func (c ClassName) String() string {
	if c.PackagePath == "" {
		return c.Name
	}
	return c.PackagePath + "." + c.Name
}

// PackageName returns the last element of the package path
func (c ClassName) PackageName() string {
	return path.Base(c.PackagePath)
}

// IsZero reports whether the reference is empty
func (c ClassName) IsZero() bool {
	return c.Name == ""
}
