package discovery

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/markers"
	"github.com/toyz/loom/internal/utils"
)

// Loader parses Go packages and extracts loom markers from doc comments
type Loader struct {
	fileSet    *token.FileSet
	parser     *markers.Parser
	fileReader *utils.FileReader
	fileFilter utils.FileFilter
}

// NewLoader creates a loader. A nil parser uses the builtin marker schemas.
func NewLoader(markerParser *markers.Parser) *Loader {
	if markerParser == nil {
		markerParser = markers.NewParser(nil)
	}
	return &Loader{
		fileSet:    token.NewFileSet(),
		parser:     markerParser,
		fileReader: utils.NewFileReader(),
		fileFilter: utils.DefaultGoFileFilter(),
	}
}

// LoadSource parses a single source file as a package, for tests and tooling
func (l *Loader) LoadSource(importPath, filename, source string) (*Package, error) {
	return l.LoadSources(importPath, map[string]string{filename: source})
}

// LoadSources parses several in-memory files as one package
func (l *Loader) LoadSources(importPath string, sources map[string]string) (*Package, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]*ast.File, 0, len(names))
	for _, name := range names {
		file, err := parser.ParseFile(l.fileSet, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(errors.SyntaxErrorCode, err, "failed to parse %s", name)
		}
		files = append(files, file)
	}

	return l.buildPackage(importPath, "", names, files)
}

// LoadDirectory parses the non-test, non-generated Go files of dir
func (l *Loader) LoadDirectory(dir, importPath string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", dir, err)
	}

	var names []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if l.fileFilter(full, entry) {
			names = append(names, full)
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, nil
	}

	files := make([]*ast.File, 0, len(names))
	for _, name := range names {
		content, err := l.fileReader.ReadFile(name)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", name, err)
		}
		file, err := parser.ParseFile(l.fileSet, name, content, parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(errors.SyntaxErrorCode, err, "failed to parse %s", filepath.Base(name))
		}
		files = append(files, file)
	}

	return l.buildPackage(importPath, dir, names, files)
}

func (l *Loader) buildPackage(importPath, dir string, names []string, files []*ast.File) (*Package, error) {
	pkg := &Package{
		ImportPath: importPath,
		Dir:        dir,
		Files:      names,
		Functions:  make(map[string]*Function),
		typeIndex:  make(map[string]*Type),
	}

	collected := errors.NewMultipleErrors()
	methods := make(map[string][]*Method)

	for i, file := range files {
		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		} else if pkg.Name != file.Name.Name {
			return nil, errors.Newf(errors.StructuralErrorCode,
				"multiple packages in %s: %s and %s", importPath, pkg.Name, file.Name.Name)
		}

		imports := fileImports(file)
		insp := inspector.New([]*ast.File{file})

		// top level declarations only: children are never visited
		insp.Nodes([]ast.Node{(*ast.GenDecl)(nil), (*ast.FuncDecl)(nil)}, func(n ast.Node, push bool) bool {
			if !push {
				return false
			}
			switch decl := n.(type) {
			case *ast.GenDecl:
				if decl.Tok == token.TYPE {
					l.collectTypes(pkg, decl, names[i], imports, collected)
				}
			case *ast.FuncDecl:
				if decl.Recv == nil {
					fn := l.function(decl)
					pkg.Functions[fn.Name] = fn
					return false
				}
				receiver, pointer := receiverName(decl.Recv.List[0].Type)
				method := l.method(decl, pointer, receiver, collected)
				method.Scope = Scope{PackagePath: importPath, Imports: imports}
				methods[receiver] = append(methods[receiver], method)
			}
			return false
		})
	}

	for _, t := range pkg.Types {
		t.Methods = methods[t.Name]
	}

	if !collected.IsEmpty() {
		return nil, collected
	}
	return pkg, nil
}

func (l *Loader) collectTypes(pkg *Package, decl *ast.GenDecl, fileName string, imports map[string]string, collected *errors.MultipleErrors) {
	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		doc := typeSpec.Doc
		if doc == nil && len(decl.Specs) == 1 {
			doc = decl.Doc
		}

		t := &Type{
			Name:     typeSpec.Name.Name,
			Package:  pkg,
			File:     fileName,
			Imports:  imports,
			Location: l.location(typeSpec.Pos()),
		}

		switch st := typeSpec.Type.(type) {
		case *ast.StructType:
			t.Kind = StructKind
			t.Embeds = embeddedTypes(st, pkg.ImportPath, imports)
		case *ast.InterfaceType:
			t.Kind = InterfaceKind
		default:
			t.Kind = OtherKind
		}

		t.Markers = l.parseMarkers(doc, t.Name, collected)

		pkg.Types = append(pkg.Types, t)
		pkg.typeIndex[t.Name] = t
	}
}

func (l *Loader) method(decl *ast.FuncDecl, pointer bool, receiver string, collected *errors.MultipleErrors) *Method {
	params, results := signature(decl.Type)
	return &Method{
		Name:            decl.Name.Name,
		Params:          params,
		Results:         results,
		ReturnsError:    returnsError(results),
		PointerReceiver: pointer,
		Markers:         l.parseMarkers(decl.Doc, receiver+"."+decl.Name.Name, collected),
		Location:        l.location(decl.Pos()),
	}
}

func (l *Loader) function(decl *ast.FuncDecl) *Function {
	params, results := signature(decl.Type)
	return &Function{
		Name:         decl.Name.Name,
		Params:       params,
		Results:      results,
		ReturnsError: returnsError(results),
		Location:     l.location(decl.Pos()),
	}
}

func (l *Loader) parseMarkers(doc *ast.CommentGroup, target string, collected *errors.MultipleErrors) []*markers.Marker {
	if doc == nil {
		return nil
	}

	var result []*markers.Marker
	for _, comment := range doc.List {
		if !markers.IsMarker(comment.Text) {
			continue
		}
		marker, err := l.parser.Parse(comment.Text, target, l.location(comment.Pos()))
		if err != nil {
			if loomErr, ok := err.(errors.LoomError); ok {
				collected.Add(loomErr)
			} else {
				collected.Add(errors.Wrap(errors.SyntaxErrorCode, "invalid marker", err))
			}
			continue
		}
		result = append(result, marker)
	}
	return result
}

func (l *Loader) location(pos token.Pos) errors.SourceLocation {
	p := l.fileSet.Position(pos)
	return errors.SourceLocation{File: p.Filename, Line: p.Line, Column: p.Column}
}

// fileImports maps each import's local name to its path
func fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		alias := defaultImportName(importPath)
		if spec.Name != nil {
			alias = spec.Name.Name
		}
		if alias == "_" || alias == "." {
			continue
		}
		imports[alias] = importPath
	}
	return imports
}

// defaultImportName guesses the package name of an import path, skipping major version suffixes
func defaultImportName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && isDigits(base[1:]) {
		if parent := path.Dir(importPath); parent != "." {
			base = path.Base(parent)
		}
	}
	return strings.ReplaceAll(base, "-", "_")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func embeddedTypes(st *ast.StructType, pkgPath string, imports map[string]string) []Embed {
	var embeds []Embed
	for _, field := range st.Fields.List {
		if len(field.Names) > 0 {
			continue
		}

		expr := field.Type
		embed := Embed{}
		if star, ok := expr.(*ast.StarExpr); ok {
			embed.Pointer = true
			expr = star.X
		}

		switch generic := expr.(type) {
		case *ast.IndexExpr:
			embed.TypeArgs = []string{typeString(generic.Index)}
			expr = generic.X
		case *ast.IndexListExpr:
			for _, index := range generic.Indices {
				embed.TypeArgs = append(embed.TypeArgs, typeString(index))
			}
			expr = generic.X
		}

		switch named := expr.(type) {
		case *ast.Ident:
			embed.PackagePath = pkgPath
			embed.Name = named.Name
		case *ast.SelectorExpr:
			ident, ok := named.X.(*ast.Ident)
			if !ok {
				continue
			}
			embed.PackagePath = imports[ident.Name]
			embed.Name = named.Sel.Name
		default:
			continue
		}
		embeds = append(embeds, embed)
	}
	return embeds
}

// receiverName returns the receiver type name without pointer or type parameters
func receiverName(expr ast.Expr) (string, bool) {
	pointer := false
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.IndexExpr:
		expr = t.X
	case *ast.IndexListExpr:
		expr = t.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name, pointer
	}
	return "", pointer
}

func signature(ft *ast.FuncType) (params, results []string) {
	params = fieldTypes(ft.Params)
	results = fieldTypes(ft.Results)
	return params, results
}

// fieldTypes expands grouped fields such as (a, b string) into one entry per value
func fieldTypes(list *ast.FieldList) []string {
	if list == nil {
		return nil
	}
	var types []string
	for _, field := range list.List {
		typ := typeString(field.Type)
		count := len(field.Names)
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			types = append(types, typ)
		}
	}
	return types
}

func returnsError(results []string) bool {
	return len(results) > 0 && results[len(results)-1] == "error"
}

func typeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeString(t.X)
	case *ast.SelectorExpr:
		return typeString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + typeString(t.Elt)
	case *ast.MapType:
		return "map[" + typeString(t.Key) + "]" + typeString(t.Value)
	case *ast.Ellipsis:
		return "..." + typeString(t.Elt)
	case *ast.IndexExpr:
		return typeString(t.X) + "[" + typeString(t.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(t.Indices))
		for i, index := range t.Indices {
			args[i] = typeString(index)
		}
		return typeString(t.X) + "[" + strings.Join(args, ", ") + "]"
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}"
		}
		return "interface{...}"
	case *ast.FuncType:
		return "func"
	case *ast.ChanType:
		return "chan " + typeString(t.Value)
	default:
		return fmt.Sprintf("%T", expr)
	}
}
