package translator

import (
	"github.com/dhamidi/fusion/ast"
	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/java"
)

var (
	tsBoolean = ast.NewIdent("boolean")
	tsNumber  = ast.NewIdent("number")
	tsString  = ast.NewIdent("string")
	tsUnknown = ast.NewIdent("unknown")
	tsVoid    = ast.NewIdent("void")
	tsArray   = ast.NewIdent("Array")
	tsRecord  = ast.NewIdent("Record")
)

var primitives = map[string]ast.Ident{
	"boolean": tsBoolean,
	"byte":    tsNumber,
	"short":   tsNumber,
	"int":     tsNumber,
	"long":    tsNumber,
	"float":   tsNumber,
	"double":  tsNumber,
	"char":    tsString,
}

// builtins are classes with a fixed TypeScript counterpart.
var builtins = map[string]ast.Ident{
	"java.lang.Boolean":        tsBoolean,
	"java.lang.Byte":           tsNumber,
	"java.lang.Short":          tsNumber,
	"java.lang.Integer":        tsNumber,
	"java.lang.Long":           tsNumber,
	"java.lang.Float":          tsNumber,
	"java.lang.Double":         tsNumber,
	"java.lang.Number":         tsNumber,
	"java.math.BigInteger":     tsNumber,
	"java.math.BigDecimal":     tsNumber,
	"java.util.OptionalInt":    tsNumber,
	"java.util.OptionalLong":   tsNumber,
	"java.util.OptionalDouble": tsNumber,

	"java.lang.String":         tsString,
	"java.lang.Character":      tsString,
	"java.lang.CharSequence":   tsString,
	"java.util.UUID":           tsString,
	"java.util.Date":           tsString,
	"java.time.LocalDate":      tsString,
	"java.time.LocalTime":      tsString,
	"java.time.LocalDateTime":  tsString,
	"java.time.Instant":        tsString,
	"java.time.ZonedDateTime":  tsString,
	"java.time.OffsetDateTime": tsString,

	"java.lang.Object": tsUnknown,
}

// alwaysOptional are builtins whose absence is part of the type.
var alwaysOptional = map[string]bool{
	"java.util.OptionalInt":    true,
	"java.util.OptionalLong":   true,
	"java.util.OptionalDouble": true,
}

var collections = map[string]bool{
	"java.lang.Iterable":                 true,
	"java.util.Collection":               true,
	"java.util.List":                     true,
	"java.util.ArrayList":                true,
	"java.util.LinkedList":               true,
	"java.util.Set":                      true,
	"java.util.HashSet":                  true,
	"java.util.LinkedHashSet":            true,
	"java.util.SortedSet":                true,
	"java.util.NavigableSet":             true,
	"java.util.TreeSet":                  true,
	"java.util.Queue":                    true,
	"java.util.Deque":                    true,
	"java.util.ArrayDeque":               true,
	"java.util.stream.Stream":            true,
	"java.util.concurrent.BlockingQueue": true,
}

var maps = map[string]bool{
	"java.util.Map":                          true,
	"java.util.HashMap":                      true,
	"java.util.LinkedHashMap":                true,
	"java.util.SortedMap":                    true,
	"java.util.NavigableMap":                 true,
	"java.util.TreeMap":                      true,
	"java.util.concurrent.ConcurrentMap":     true,
	"java.util.concurrent.ConcurrentHashMap": true,
}

const optionalClass = "java.util.Optional"

// typeOf maps a Java type use to a TypeScript type. optional is the
// optionality of the outermost type; nested reference types are always
// optional.
func (s *scope) typeOf(t java.TypeModel, optional bool, member string) (ast.Type, error) {
	if t.IsPrimitive() {
		return ast.NewType(primitives[t.Name], false), nil
	}
	if t.IsVoid() {
		return ast.NewType(tsVoid, false), nil
	}
	if t.IsArray() {
		elem := t.ElementType()
		et, err := s.typeOf(elem, !elem.IsPrimitive(), member)
		if err != nil {
			return ast.Type{}, err
		}
		return ast.NewType(tsArray, optional, et), nil
	}
	if t.IsTypeVariable {
		return ast.Type{}, s.fail(member, "type variable %s is not supported", t.Name)
	}

	if name, ok := builtins[t.Name]; ok {
		return ast.NewType(name, optional || alwaysOptional[t.Name]), nil
	}

	switch {
	case t.Name == optionalClass:
		args, err := s.typeArguments(t, 1, member)
		if err != nil {
			return ast.Type{}, err
		}
		return args[0].AsOptional(true), nil

	case collections[t.Name]:
		args, err := s.typeArguments(t, 1, member)
		if err != nil {
			return ast.Type{}, err
		}
		return ast.NewType(tsArray, optional, args...), nil

	case maps[t.Name]:
		args, err := s.typeArguments(t, 2, member)
		if err != nil {
			return ast.Type{}, err
		}
		return ast.NewType(tsRecord, optional, ast.NewType(tsString, false), args[1]), nil
	}

	if len(t.TypeArguments) > 0 {
		return ast.Type{}, s.fail(member, "generic type %s is not supported", t)
	}
	return ast.NewType(s.reference(t.Name), optional), nil
}

// typeArguments maps the n type arguments of a parameterised builtin.
// Every argument is optional.
func (s *scope) typeArguments(t java.TypeModel, n int, member string) ([]ast.Type, error) {
	if len(t.TypeArguments) == 0 {
		return nil, s.fail(member, "raw type %s is not supported", t.Name)
	}
	if len(t.TypeArguments) != n {
		return nil, s.fail(member, "%s has %d type arguments, want %d", t.Name, len(t.TypeArguments), n)
	}

	out := make([]ast.Type, n)
	for i, arg := range t.TypeArguments {
		var use *java.TypeModel
		switch {
		case !arg.IsWildcard:
			use = arg.Type
		case arg.Bound != nil:
			use = arg.Bound
		default:
			return nil, s.fail(member, "unbounded wildcard in %s is not supported", t)
		}
		at, err := s.typeOf(*use, true, member)
		if err != nil {
			return nil, err
		}
		out[i] = at
	}
	return out, nil
}

func (s *scope) fail(member, format string, args ...any) error {
	return errors.Wrapf(errors.Translationf(s.class.Name, format, args...), "%s", member)
}
