// Package translator turns class models into TypeScript modules.
//
// Endpoint classes become endpoint modules, enums become enum modules and
// every other class or record becomes a struct module. Classes referenced
// by a module are imported from their own module and reported as
// dependencies, so that a driver can translate them in turn.
package translator

import (
	"slices"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/fusion/ast"
	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/java"
)

var log = commonlog.GetLogger("fusion.translator")

// DefaultEndpointAnnotations mark a class as an endpoint.
var DefaultEndpointAnnotations = []string{
	"dev.hilla.Endpoint",
	"com.vaadin.hilla.Endpoint",
	"com.vaadin.fusion.Endpoint",
	"com.vaadin.flow.server.connect.Endpoint",
}

// DefaultNonNullAnnotations are matched by simple name, so that any
// package's Nonnull, NonNull or NotNull makes a member required.
var DefaultNonNullAnnotations = []string{"Nonnull", "NonNull", "NotNull"}

const jsonIgnore = "com.fasterxml.jackson.annotation.JsonIgnore"

type Options struct {
	// EndpointAnnotations extends DefaultEndpointAnnotations.
	EndpointAnnotations []string
	// NonNullAnnotations extends DefaultNonNullAnnotations. Entries may be
	// simple or fully qualified names.
	NonNullAnnotations []string
}

type Translator struct {
	endpoints []string
	nonNull   map[string]bool
}

func New(opts Options) *Translator {
	t := &Translator{
		endpoints: append(slices.Clone(DefaultEndpointAnnotations), opts.EndpointAnnotations...),
		nonNull:   make(map[string]bool),
	}
	for _, name := range append(slices.Clone(DefaultNonNullAnnotations), opts.NonNullAnnotations...) {
		t.nonNull[name] = true
	}
	return t
}

// Result is a translated class.
type Result struct {
	Module ast.Module
	// Path is the slash-separated output path relative to the output root.
	Path string
	// Source is the binary name of the translated class.
	Source string
	// Dependencies are the binary names of the classes the module imports,
	// in order of first use.
	Dependencies []string
}

// EndpointName reports whether class is an endpoint and under which name
// it is called.
func (t *Translator) EndpointName(class *java.ClassModel) (string, bool) {
	ann, ok := class.Annotation(t.endpoints...)
	if !ok {
		return "", false
	}
	if name := ann.String("value"); name != "" {
		return name, true
	}
	return class.SimpleName, true
}

func (t *Translator) Translate(class *java.ClassModel) (*Result, error) {
	if name, ok := t.EndpointName(class); ok {
		return t.endpoint(class, name)
	}

	switch class.Kind {
	case java.ClassKindEnum:
		return t.enum(class), nil
	case java.ClassKindRecord, java.ClassKindClass:
		return t.structure(class)
	}
	return nil, errors.Translationf(class.Name, "cannot translate %s %s", class.Kind, class.Name)
}

func (t *Translator) endpoint(class *java.ClassModel, name string) (*Result, error) {
	modulePath := EndpointPath(name)
	id := ast.NewIdent(name)
	s := newScope(class, modulePath, id)

	var methods []ast.Method
	seen := make(map[string]bool)
	for _, m := range class.Methods {
		if m.Visibility != java.VisibilityPublic || m.IsStatic || m.IsSynthetic || m.IsConstructor {
			continue
		}
		if seen[m.Name] {
			return nil, s.fail(m.Name, "overloaded endpoint method %s is not supported", m.Name)
		}
		seen[m.Name] = true

		returns, err := s.typeOf(m.ReturnType, !t.isNonNull(m.Annotations), m.Name)
		if err != nil {
			return nil, err
		}
		params := make([]ast.Parameter, 0, len(m.Parameters))
		for _, p := range m.Parameters {
			member := m.Name + "(" + p.Name + ")"
			pt, err := s.typeOf(p.Type, !t.isNonNull(p.Annotations), member)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.NewParameter(ast.NewIdent(p.Name), pt))
		}
		methods = append(methods, ast.NewMethod(ast.NewIdent(m.Name), returns, params...))
	}

	log.Debugf("%s: endpoint %s with %d methods", class.Name, name, len(methods))
	return &Result{
		Module:       ast.NewEndpointModule(id, s.sortedImports(), methods),
		Path:         modulePath,
		Source:       class.Name,
		Dependencies: s.deps,
	}, nil
}

func (t *Translator) enum(class *java.ClassModel) *Result {
	id := ast.NewIdent(simpleName(class.Name))
	variants := make([]ast.EnumVariant, len(class.EnumConstants))
	for i, c := range class.EnumConstants {
		variants[i] = ast.NewEnumVariant(ast.NewIdent(c.Name))
	}
	enum := ast.NewEnum(id, variants...)

	log.Debugf("%s: enum with %d constants", class.Name, len(variants))
	return &Result{
		Module: ast.NewEnumModule(id, &enum),
		Path:   StructPath(class.Name),
		Source: class.Name,
	}
}

func (t *Translator) structure(class *java.ClassModel) (*Result, error) {
	modulePath := StructPath(class.Name)
	id := ast.NewIdent(simpleName(class.Name))
	s := newScope(class, modulePath, id)
	s.symbols[class.Name] = id

	var fields []ast.Field
	add := func(name string, typ java.TypeModel, anns []java.AnnotationModel) error {
		ft, err := s.typeOf(typ, !t.isNonNull(anns), name)
		if err != nil {
			return err
		}
		fields = append(fields, ast.NewField(ast.NewIdent(name), ft))
		return nil
	}

	if class.Kind == java.ClassKindRecord {
		for _, c := range class.RecordComponents {
			if err := add(c.Name, c.Type, c.Annotations); err != nil {
				return nil, err
			}
		}
	} else {
		for _, f := range class.Fields {
			if f.IsStatic || f.IsTransient || f.IsSynthetic || hasAnnotation(f.Annotations, jsonIgnore) {
				continue
			}
			if err := add(f.Name, f.Type, f.Annotations); err != nil {
				return nil, err
			}
		}
	}

	decl := ast.NewStruct(id, fields...)
	log.Debugf("%s: struct with %d fields", class.Name, len(fields))
	return &Result{
		Module:       ast.NewStructModule(id, s.sortedImports(), &decl),
		Path:         modulePath,
		Source:       class.Name,
		Dependencies: s.deps,
	}, nil
}

func (t *Translator) isNonNull(anns []java.AnnotationModel) bool {
	for _, a := range anns {
		if t.nonNull[a.Type] || t.nonNull[a.SimpleName()] {
			return true
		}
	}
	return false
}

func hasAnnotation(anns []java.AnnotationModel, name string) bool {
	for _, a := range anns {
		if a.Type == name {
			return true
		}
	}
	return false
}
