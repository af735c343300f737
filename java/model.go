// Package java describes compiled Java classes as plain values: the
// classes, their members and their generic types, decoded from class files.
package java

import "strings"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
	ClassKindModule     ClassKind = "module"
)

type ClassModel struct {
	// Name is the dotted binary name, e.g. com.example.Outer$Inner.
	Name string
	// InternalName is the slashed form used by the class file format.
	InternalName     string
	SimpleName       string
	Package          string
	SuperClass       string
	Interfaces       []string
	Visibility       Visibility
	Kind             ClassKind
	IsFinal          bool
	IsAbstract       bool
	IsSynthetic      bool
	IsDeprecated     bool
	MajorVersion     uint16
	Signature        string
	SourceFile       string
	TypeParameters   []TypeParameterModel
	Annotations      []AnnotationModel
	EnumConstants    []EnumConstantModel
	RecordComponents []RecordComponentModel
	Fields           []FieldModel
	Methods          []MethodModel
}

// Annotation returns the first annotation whose type is one of names.
func (c *ClassModel) Annotation(names ...string) (AnnotationModel, bool) {
	return findAnnotation(c.Annotations, names)
}

type EnumConstantModel struct {
	Name string
}

type FieldModel struct {
	Name         string
	Type         TypeModel
	Visibility   Visibility
	IsStatic     bool
	IsFinal      bool
	IsTransient  bool
	IsSynthetic  bool
	IsEnum       bool
	IsDeprecated bool
	Signature    string
	Annotations  []AnnotationModel
}

type MethodModel struct {
	Name           string
	ReturnType     TypeModel
	Parameters     []ParameterModel
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsBridge       bool
	IsVarargs      bool
	IsSynthetic    bool
	IsConstructor  bool
	IsDeprecated   bool
	Signature      string
	Annotations    []AnnotationModel
	Exceptions     []string
	TypeParameters []TypeParameterModel
}

type ParameterModel struct {
	Name        string
	Type        TypeModel
	Annotations []AnnotationModel
}

type RecordComponentModel struct {
	Name        string
	Type        TypeModel
	Annotations []AnnotationModel
}

// TypeModel is a use of a type. Name is a primitive keyword, "void", a
// dotted class name or, when IsTypeVariable is set, a type variable name.
type TypeModel struct {
	Name           string
	ArrayDepth     int
	TypeArguments  []TypeArgumentModel
	IsTypeVariable bool
}

func (t TypeModel) IsPrimitive() bool {
	if t.ArrayDepth > 0 {
		return false
	}
	switch t.Name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

func (t TypeModel) IsArray() bool { return t.ArrayDepth > 0 }
func (t TypeModel) IsVoid() bool  { return t.Name == "void" && t.ArrayDepth == 0 }

// ElementType strips one array dimension.
func (t TypeModel) ElementType() TypeModel {
	if t.ArrayDepth > 0 {
		t.ArrayDepth--
	}
	return t
}

func (t TypeModel) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.TypeArguments) > 0 {
		sb.WriteByte('<')
		for i, arg := range t.TypeArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteByte('>')
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// TypeArgumentModel is either an exact Type or a wildcard with an optional
// Bound.
type TypeArgumentModel struct {
	Type       *TypeModel
	IsWildcard bool
	BoundKind  string // "extends", "super", or "" for unbounded
	Bound      *TypeModel
}

func (a TypeArgumentModel) String() string {
	switch {
	case !a.IsWildcard:
		return a.Type.String()
	case a.Bound == nil:
		return "?"
	}
	return "? " + a.BoundKind + " " + a.Bound.String()
}

type TypeParameterModel struct {
	Name   string
	Bounds []TypeModel
}

type AnnotationModel struct {
	// Type is the dotted name of the annotation interface.
	Type   string
	Values map[string]any
}

// SimpleName returns the annotation type without its package.
func (a AnnotationModel) SimpleName() string {
	if i := strings.LastIndexAny(a.Type, ".$"); i >= 0 {
		return a.Type[i+1:]
	}
	return a.Type
}

// String returns the named element as a string, or "" if it is absent or
// not a string.
func (a AnnotationModel) String(name string) string {
	s, _ := a.Values[name].(string)
	return s
}

// EnumValue is an enum constant used as an annotation element.
type EnumValue struct {
	Type string
	Name string
}

func findAnnotation(anns []AnnotationModel, names []string) (AnnotationModel, bool) {
	for _, a := range anns {
		for _, name := range names {
			if a.Type == name {
				return a, true
			}
		}
	}
	return AnnotationModel{}, false
}
