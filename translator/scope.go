package translator

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/dhamidi/fusion/ast"
	"github.com/dhamidi/fusion/java"
)

// scope collects what one module refers to while its members are
// translated.
type scope struct {
	class *java.ClassModel
	// dir is the slash-separated output directory of the module.
	dir string
	// taken maps import symbols to the class they stand for.
	taken   map[string]string
	symbols map[string]ast.Ident
	imports []ast.Import
	deps    []string
}

// newScope reserves own, the name the module itself declares.
func newScope(class *java.ClassModel, modulePath string, own ast.Ident) *scope {
	return &scope{
		class:   class,
		dir:     path.Dir(modulePath),
		taken:   map[string]string{own.Name(): class.Name},
		symbols: make(map[string]ast.Ident),
	}
}

// reference returns the symbol under which the class called name is known
// in this module, importing it on first use.
func (s *scope) reference(name string) ast.Ident {
	if id, ok := s.symbols[name]; ok {
		return id
	}

	simple := simpleName(name)
	symbol := simple
	if owner, ok := s.taken[symbol]; ok && owner != name {
		symbol = strcase.ToCamel(packageName(name) + "." + simple)
	}
	id := ast.NewIdent(symbol)
	s.taken[symbol] = name
	s.symbols[name] = id

	s.imports = append(s.imports, ast.NewImport(id, importSource(s.dir, StructPath(name))))
	s.deps = append(s.deps, name)
	return id
}

// sortedImports orders imports by source. Each class is imported once, so
// sources are unique.
func (s *scope) sortedImports() []ast.Import {
	imports := append([]ast.Import(nil), s.imports...)
	sort.Slice(imports, func(i, j int) bool {
		return imports[i].Source() < imports[j].Source()
	})
	return imports
}

// StructPath is the output path, relative to the output root, of the
// struct or enum module generated for the class called name.
func StructPath(name string) string {
	return path.Join(strings.ReplaceAll(packageName(name), ".", "/"), simpleName(name)+".ts")
}

// EndpointPath is the output path of the endpoint module called name.
func EndpointPath(name string) string {
	return name + ".ts"
}

// importSource is the relative module specifier of target as seen from a
// module in dir.
func importSource(dir, target string) string {
	target = strings.TrimSuffix(target, ".ts")
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(target))
	if err != nil {
		return "./" + target
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}

func packageName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return ""
}

// simpleName strips the package and any enclosing classes.
func simpleName(name string) string {
	name = name[strings.LastIndex(name, ".")+1:]
	return name[strings.LastIndex(name, "$")+1:]
}
