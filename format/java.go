package format

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dhamidi/fusion/java"
)

// JavaEncoder prints a class as a Java declaration without method bodies.
type JavaEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w}
}

func (e *JavaEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	if c.Package != "" {
		sb.WriteString("package ")
		sb.WriteString(c.Package)
		sb.WriteString(";\n\n")
	}

	e.writeClassDeclaration(&sb)
	sb.WriteString(" {\n")
	e.writeEnumConstants(&sb)
	e.writeFields(&sb)
	e.writeMethods(&sb)
	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (e *JavaEncoder) writeClassDeclaration(sb *strings.Builder) {
	c := e.class
	writeAnnotations(sb, c.Annotations, "\n")
	writeVisibility(sb, c.Visibility)

	if c.IsAbstract && c.Kind == java.ClassKindClass {
		sb.WriteString("abstract ")
	}
	if c.IsFinal && c.Kind == java.ClassKindClass {
		sb.WriteString("final ")
	}
	switch c.Kind {
	case java.ClassKindAnnotation:
		sb.WriteString("@interface ")
	case java.ClassKindEnum, java.ClassKindRecord, java.ClassKindInterface:
		sb.WriteString(string(c.Kind))
		sb.WriteByte(' ')
	default:
		sb.WriteString("class ")
	}
	sb.WriteString(c.SimpleName)

	if c.Kind == java.ClassKindRecord {
		sb.WriteByte('(')
		for i, rc := range c.RecordComponents {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(rc.Type.String())
			sb.WriteByte(' ')
			sb.WriteString(rc.Name)
		}
		sb.WriteByte(')')
	}

	switch c.SuperClass {
	case "", "java.lang.Object", "java.lang.Record", "java.lang.Enum":
	default:
		sb.WriteString(" extends ")
		sb.WriteString(c.SuperClass)
	}
	if len(c.Interfaces) > 0 {
		if c.Kind == java.ClassKindInterface {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		sb.WriteString(strings.Join(c.Interfaces, ", "))
	}
}

func (e *JavaEncoder) writeEnumConstants(sb *strings.Builder) {
	if len(e.class.EnumConstants) == 0 {
		return
	}
	names := make([]string, len(e.class.EnumConstants))
	for i, ec := range e.class.EnumConstants {
		names[i] = ec.Name
	}
	sb.WriteString("    ")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(";\n\n")
}

func (e *JavaEncoder) writeFields(sb *strings.Builder) {
	written := false
	for _, f := range e.class.Fields {
		if f.IsEnum {
			continue
		}
		sb.WriteString("    ")
		writeAnnotations(sb, f.Annotations, "\n    ")
		writeVisibility(sb, f.Visibility)
		for _, mod := range fieldModifiers(f) {
			sb.WriteString(mod)
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Type.String())
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
		sb.WriteString(";\n")
		written = true
	}
	if written && len(e.class.Methods) > 0 {
		sb.WriteString("\n")
	}
}

func (e *JavaEncoder) writeMethods(sb *strings.Builder) {
	for i, m := range e.class.Methods {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("    ")
		writeAnnotations(sb, m.Annotations, "\n    ")
		writeVisibility(sb, m.Visibility)
		if m.IsStatic {
			sb.WriteString("static ")
		}
		if m.IsAbstract && e.class.Kind != java.ClassKindInterface {
			sb.WriteString("abstract ")
		}

		if m.IsConstructor {
			sb.WriteString(e.class.SimpleName)
		} else {
			sb.WriteString(m.ReturnType.String())
			sb.WriteByte(' ')
			sb.WriteString(m.Name)
		}
		sb.WriteByte('(')
		for j, p := range m.Parameters {
			if j > 0 {
				sb.WriteString(", ")
			}
			writeAnnotations(sb, p.Annotations, " ")
			sb.WriteString(p.Type.String())
			sb.WriteByte(' ')
			sb.WriteString(p.Name)
		}
		sb.WriteByte(')')
		if len(m.Exceptions) > 0 {
			sb.WriteString(" throws ")
			sb.WriteString(strings.Join(m.Exceptions, ", "))
		}
		if m.IsAbstract {
			sb.WriteString(";\n")
		} else {
			sb.WriteString(" { }\n")
		}
	}
}

func writeVisibility(sb *strings.Builder, v java.Visibility) {
	if v != "" && v != java.VisibilityPackage {
		sb.WriteString(string(v))
		sb.WriteByte(' ')
	}
}

// writeAnnotations follows each annotation with sep.
func writeAnnotations(sb *strings.Builder, anns []java.AnnotationModel, sep string) {
	for _, a := range anns {
		writeAnnotation(sb, a)
		sb.WriteString(sep)
	}
}

func writeAnnotation(sb *strings.Builder, a java.AnnotationModel) {
	sb.WriteByte('@')
	sb.WriteString(a.Type)
	if len(a.Values) == 0 {
		return
	}
	sb.WriteByte('(')
	if v, ok := a.Values["value"]; ok && len(a.Values) == 1 {
		writeAnnotationValue(sb, v)
	} else {
		for i, name := range sortedKeys(a.Values) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(name)
			sb.WriteString(" = ")
			writeAnnotationValue(sb, a.Values[name])
		}
	}
	sb.WriteByte(')')
}

func writeAnnotationValue(sb *strings.Builder, v any) {
	switch val := v.(type) {
	case string:
		sb.WriteString(strconv.Quote(val))
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case int32:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
		sb.WriteByte('L')
	case float32:
		sb.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 32))
		sb.WriteByte('f')
	case float64:
		sb.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case java.EnumValue:
		sb.WriteString(val.Type)
		sb.WriteByte('.')
		sb.WriteString(val.Name)
	case java.AnnotationModel:
		writeAnnotation(sb, val)
	case []any:
		sb.WriteByte('{')
		for i, elem := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeAnnotationValue(sb, elem)
		}
		sb.WriteByte('}')
	default:
		sb.WriteByte('?')
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
