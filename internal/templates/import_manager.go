package templates

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// ImportManager collects the imports of one generated file and assigns each
// package a unique alias
type ImportManager struct {
	localPath string
	aliases   map[string]string // path -> alias
	taken     map[string]string // alias -> path
}

// NewImportManager creates a manager for a file in the package at localPath
func NewImportManager(localPath string) *ImportManager {
	return &ImportManager{
		localPath: localPath,
		aliases:   make(map[string]string),
		taken:     make(map[string]string),
	}
}

// Reserve marks identifiers that imports must not shadow
func (im *ImportManager) Reserve(names ...string) {
	for _, name := range names {
		if _, exists := im.taken[name]; !exists {
			im.taken[name] = ""
		}
	}
}

// Add imports importPath and returns the alias to qualify it with. The local
// package needs no import and yields "".
func (im *ImportManager) Add(importPath string) string {
	if importPath == "" || importPath == im.localPath {
		return ""
	}
	if alias, exists := im.aliases[importPath]; exists {
		return alias
	}

	base := defaultAlias(importPath)
	alias := base
	for i := 2; ; i++ {
		if _, taken := im.taken[alias]; !taken {
			break
		}
		alias = fmt.Sprintf("%s%d", base, i)
	}

	im.aliases[importPath] = alias
	im.taken[alias] = importPath
	return alias
}

// Qualify returns the type expression for name declared in importPath
func (im *ImportManager) Qualify(importPath, name string) string {
	if alias := im.Add(importPath); alias != "" {
		return alias + "." + name
	}
	return name
}

// Imports returns the imports sorted by path
func (im *ImportManager) Imports() []Import {
	result := make([]Import, 0, len(im.aliases))
	for p, alias := range im.aliases {
		imp := Import{Path: p}
		if alias != path.Base(p) {
			imp.Alias = alias
		}
		result = append(result, imp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// Block renders the import declaration, standard library first
func (im *ImportManager) Block() string {
	imports := im.Imports()
	if len(imports) == 0 {
		return ""
	}

	var std, other []string
	for _, imp := range imports {
		line := imp.String()
		if isStandardLibrary(imp.Path) {
			std = append(std, line)
		} else {
			other = append(other, line)
		}
	}

	if len(imports) == 1 {
		return "import " + imports[0].String() + "\n"
	}

	var b strings.Builder
	b.WriteString("import (\n")
	for _, line := range std {
		b.WriteString("\t" + line + "\n")
	}
	if len(std) > 0 && len(other) > 0 {
		b.WriteString("\n")
	}
	for _, line := range other {
		b.WriteString("\t" + line + "\n")
	}
	b.WriteString(")\n")
	return b.String()
}

// Import is one entry of an import block
type Import struct {
	Alias string
	Path  string
}

func (i Import) String() string {
	if i.Alias != "" {
		return fmt.Sprintf("%s %q", i.Alias, i.Path)
	}
	return fmt.Sprintf("%q", i.Path)
}

// defaultAlias derives an identifier from the last path element, skipping a
// major version suffix
func defaultAlias(importPath string) string {
	elems := strings.Split(importPath, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "pkg" + name
	}
	return name
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}
	for _, r := range elem[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isStandardLibrary(importPath string) bool {
	first := strings.SplitN(importPath, "/", 2)[0]
	return !strings.Contains(first, ".")
}
