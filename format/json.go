package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/fusion/java"
)

type JSONEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildClassData(), "", "  ")
}

type jsonClass struct {
	Name          string           `json:"name"`
	SimpleName    string           `json:"simpleName"`
	Package       string           `json:"package,omitempty"`
	SuperClass    string           `json:"superClass,omitempty"`
	Interfaces    []string         `json:"interfaces,omitempty"`
	Visibility    string           `json:"visibility"`
	Kind          string           `json:"kind"`
	Modifiers     []string         `json:"modifiers,omitempty"`
	MajorVersion  uint16           `json:"majorVersion"`
	Annotations   []jsonAnnotation `json:"annotations,omitempty"`
	EnumConstants []string         `json:"enumConstants,omitempty"`
	Components    []jsonParameter  `json:"recordComponents,omitempty"`
	Fields        []jsonField      `json:"fields,omitempty"`
	Methods       []jsonMethod     `json:"methods,omitempty"`
}

type jsonAnnotation struct {
	Type   string         `json:"type"`
	Values map[string]any `json:"values,omitempty"`
}

type jsonField struct {
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Visibility  string           `json:"visibility"`
	Modifiers   []string         `json:"modifiers,omitempty"`
	Annotations []jsonAnnotation `json:"annotations,omitempty"`
}

type jsonMethod struct {
	Name        string           `json:"name"`
	ReturnType  string           `json:"returnType"`
	Parameters  []jsonParameter  `json:"parameters,omitempty"`
	Visibility  string           `json:"visibility"`
	Modifiers   []string         `json:"modifiers,omitempty"`
	Annotations []jsonAnnotation `json:"annotations,omitempty"`
}

type jsonParameter struct {
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Annotations []jsonAnnotation `json:"annotations,omitempty"`
}

func (e *JSONEncoder) buildClassData() jsonClass {
	c := e.class
	data := jsonClass{
		Name:         c.Name,
		SimpleName:   c.SimpleName,
		Package:      c.Package,
		SuperClass:   c.SuperClass,
		Interfaces:   c.Interfaces,
		Visibility:   string(c.Visibility),
		Kind:         string(c.Kind),
		MajorVersion: c.MajorVersion,
		Annotations:  buildAnnotations(c.Annotations),
	}
	if c.IsFinal {
		data.Modifiers = append(data.Modifiers, "final")
	}
	if c.IsAbstract {
		data.Modifiers = append(data.Modifiers, "abstract")
	}
	if c.IsDeprecated {
		data.Modifiers = append(data.Modifiers, "deprecated")
	}
	for _, ec := range c.EnumConstants {
		data.EnumConstants = append(data.EnumConstants, ec.Name)
	}
	for _, rc := range c.RecordComponents {
		data.Components = append(data.Components, jsonParameter{Name: rc.Name, Type: rc.Type.String(), Annotations: buildAnnotations(rc.Annotations)})
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:        f.Name,
			Type:        f.Type.String(),
			Visibility:  string(f.Visibility),
			Modifiers:   fieldModifiers(f),
			Annotations: buildAnnotations(f.Annotations),
		})
	}
	for _, m := range c.Methods {
		jm := jsonMethod{
			Name:        m.Name,
			ReturnType:  m.ReturnType.String(),
			Visibility:  string(m.Visibility),
			Modifiers:   methodModifiers(m),
			Annotations: buildAnnotations(m.Annotations),
		}
		for _, p := range m.Parameters {
			jm.Parameters = append(jm.Parameters, jsonParameter{Name: p.Name, Type: p.Type.String(), Annotations: buildAnnotations(p.Annotations)})
		}
		data.Methods = append(data.Methods, jm)
	}
	return data
}

func buildAnnotations(anns []java.AnnotationModel) []jsonAnnotation {
	var result []jsonAnnotation
	for _, a := range anns {
		ja := jsonAnnotation{Type: a.Type}
		if len(a.Values) > 0 {
			ja.Values = make(map[string]any, len(a.Values))
			for k, v := range a.Values {
				ja.Values[k] = jsonValue(v)
			}
		}
		result = append(result, ja)
	}
	return result
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case java.EnumValue:
		return val.Type + "." + val.Name
	case java.AnnotationModel:
		return buildAnnotations([]java.AnnotationModel{val})[0]
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = jsonValue(elem)
		}
		return out
	}
	return v
}

func fieldModifiers(f java.FieldModel) []string {
	var mods []string
	if f.IsStatic {
		mods = append(mods, "static")
	}
	if f.IsFinal {
		mods = append(mods, "final")
	}
	if f.IsTransient {
		mods = append(mods, "transient")
	}
	if f.IsEnum {
		mods = append(mods, "enum")
	}
	return mods
}

func methodModifiers(m java.MethodModel) []string {
	var mods []string
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsFinal {
		mods = append(mods, "final")
	}
	if m.IsAbstract {
		mods = append(mods, "abstract")
	}
	if m.IsVarargs {
		mods = append(mods, "varargs")
	}
	return mods
}
