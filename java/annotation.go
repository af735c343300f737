package java

import "github.com/dhamidi/fusion/classfile"

func annotationsFromClassfile(anns []classfile.Annotation) []AnnotationModel {
	if len(anns) == 0 {
		return nil
	}
	result := make([]AnnotationModel, len(anns))
	for i, a := range anns {
		result[i] = annotationFromClassfile(a)
	}
	return result
}

func annotationFromClassfile(a classfile.Annotation) AnnotationModel {
	model := AnnotationModel{
		Type:   descriptorToTypeName(a.Type),
		Values: make(map[string]any, len(a.Elements)),
	}
	for _, e := range a.Elements {
		model.Values[e.Name] = elementValueToGo(e.Value)
	}
	return model
}

// elementValueToGo converts an element to string, int32, int64, float32,
// float64, bool, EnumValue, AnnotationModel, or []any. Class literals
// become their dotted type name.
func elementValueToGo(ev classfile.ElementValue) any {
	switch ev.Tag {
	case 'Z':
		if v, ok := ev.Const.(int32); ok {
			return v != 0
		}
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 's':
		return ev.Const
	case 'e':
		return EnumValue{Type: descriptorToTypeName(ev.EnumType), Name: ev.EnumConst}
	case 'c':
		return descriptorToTypeName(ev.Class)
	case '@':
		if ev.Annotation != nil {
			return annotationFromClassfile(*ev.Annotation)
		}
	case '[':
		result := make([]any, len(ev.Array))
		for i, v := range ev.Array {
			result[i] = elementValueToGo(v)
		}
		return result
	}
	return nil
}

func descriptorToTypeName(desc string) string {
	if len(desc) == 0 {
		return ""
	}
	if desc[0] == 'L' && desc[len(desc)-1] == ';' {
		return classfile.InternalToSourceName(desc[1 : len(desc)-1])
	}
	return desc
}
