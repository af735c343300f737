package classfile

import "bytes"

// Attributes holds the decoded attributes of a class, member or record
// component. Attributes this package does not interpret are kept in Raw.
type Attributes struct {
	Signature  string
	SourceFile string
	Deprecated bool
	Synthetic  bool

	VisibleAnnotations            []Annotation
	InvisibleAnnotations          []Annotation
	VisibleParameterAnnotations   [][]Annotation
	InvisibleParameterAnnotations [][]Annotation

	// Methods only.
	MethodParameters []MethodParameter
	LocalVariables   []LocalVariable
	Exceptions       []string

	// Record is set when a Record attribute was present, even an empty one.
	Record           bool
	RecordComponents []RecordComponent

	Raw []RawAttribute
}

// Annotations returns the visible and invisible annotations together.
func (a *Attributes) Annotations() []Annotation {
	out := make([]Annotation, 0, len(a.VisibleAnnotations)+len(a.InvisibleAnnotations))
	out = append(out, a.VisibleAnnotations...)
	return append(out, a.InvisibleAnnotations...)
}

// ParameterAnnotations returns the annotations on parameter i, visible first.
func (a *Attributes) ParameterAnnotations(i int) []Annotation {
	var out []Annotation
	if i < len(a.VisibleParameterAnnotations) {
		out = append(out, a.VisibleParameterAnnotations[i]...)
	}
	if i < len(a.InvisibleParameterAnnotations) {
		out = append(out, a.InvisibleParameterAnnotations[i]...)
	}
	return out
}

type RawAttribute struct {
	Name string
	Info []byte
}

type MethodParameter struct {
	// Name is empty for parameters compiled without a name.
	Name        string
	AccessFlags AccessFlags
}

// LocalVariable is an entry of a LocalVariableTable nested in Code.
type LocalVariable struct {
	StartPC    uint16
	Length     uint16
	Name       string
	Descriptor string
	Index      uint16
}

type RecordComponent struct {
	Name       string
	Descriptor string
	Attributes Attributes
}

// Annotation is a decoded annotation. Type is a field descriptor such as
// Ldev/hilla/Endpoint;.
type Annotation struct {
	Type     string
	Elements []ElementValuePair
}

// Element returns the value of the named element, if present.
func (a Annotation) Element(name string) (ElementValue, bool) {
	for _, e := range a.Elements {
		if e.Name == name {
			return e.Value, true
		}
	}
	return ElementValue{}, false
}

type ElementValuePair struct {
	Name  string
	Value ElementValue
}

// ElementValue is one annotation element. Tag selects the populated field:
// B C D F I J S Z s use Const, e uses EnumType and EnumConst, c uses Class,
// @ uses Annotation and [ uses Array.
type ElementValue struct {
	Tag        byte
	Const      any
	EnumType   string
	EnumConst  string
	Class      string
	Annotation *Annotation
	Array      []ElementValue
}

// String returns the value of a string element, or "".
func (v ElementValue) String() string {
	if s, ok := v.Const.(string); ok && v.Tag == 's' {
		return s
	}
	return ""
}

const maxAttributeLength = 1 << 26

func readAttributes(r *reader, cp ConstantPool) Attributes {
	var attrs Attributes
	count := r.readU2()
	for i := uint16(0); i < count && r.err == nil; i++ {
		nameIndex := r.readU2()
		length := r.readU4()
		if length > maxAttributeLength {
			r.fail("attribute length %d too large", length)
			return attrs
		}
		info := r.readBytes(int(length))
		if r.err != nil {
			return attrs
		}
		name, ok := cp.Utf8(nameIndex)
		if !ok {
			r.fail("attribute name index %d is not a Utf8 entry", nameIndex)
			return attrs
		}

		sub := &reader{r: bytes.NewReader(info)}
		decodeAttribute(sub, cp, name, info, &attrs)
		if sub.err != nil {
			r.fail("attribute %s: %v", name, sub.err)
		}
	}
	return attrs
}

func decodeAttribute(r *reader, cp ConstantPool, name string, info []byte, a *Attributes) {
	switch name {
	case "Signature":
		a.Signature = utf8At(r, cp, r.readU2())
	case "SourceFile":
		a.SourceFile = utf8At(r, cp, r.readU2())
	case "Deprecated":
		a.Deprecated = true
	case "Synthetic":
		a.Synthetic = true
	case "RuntimeVisibleAnnotations":
		a.VisibleAnnotations = readAnnotations(r, cp)
	case "RuntimeInvisibleAnnotations":
		a.InvisibleAnnotations = readAnnotations(r, cp)
	case "RuntimeVisibleParameterAnnotations":
		a.VisibleParameterAnnotations = readParameterAnnotations(r, cp)
	case "RuntimeInvisibleParameterAnnotations":
		a.InvisibleParameterAnnotations = readParameterAnnotations(r, cp)
	case "MethodParameters":
		count := r.readU1()
		a.MethodParameters = make([]MethodParameter, count)
		for i := range a.MethodParameters {
			nameIndex := r.readU2()
			if nameIndex != 0 {
				a.MethodParameters[i].Name = utf8At(r, cp, nameIndex)
			}
			a.MethodParameters[i].AccessFlags = AccessFlags(r.readU2())
		}
	case "Exceptions":
		count := r.readU2()
		a.Exceptions = make([]string, count)
		for i := range a.Exceptions {
			idx := r.readU2()
			name, ok := cp.ClassName(idx)
			if !ok {
				r.fail("exception index %d is not a class entry", idx)
			}
			a.Exceptions[i] = name
		}
	case "Code":
		r.readU2() // max_stack
		r.readU2() // max_locals
		r.skip(int64(r.readU4()))
		r.skip(int64(r.readU2()) * 8)
		nested := readAttributes(r, cp)
		a.LocalVariables = nested.LocalVariables
	case "LocalVariableTable":
		count := r.readU2()
		a.LocalVariables = make([]LocalVariable, count)
		for i := range a.LocalVariables {
			v := &a.LocalVariables[i]
			v.StartPC = r.readU2()
			v.Length = r.readU2()
			v.Name = utf8At(r, cp, r.readU2())
			v.Descriptor = utf8At(r, cp, r.readU2())
			v.Index = r.readU2()
		}
	case "Record":
		a.Record = true
		count := r.readU2()
		a.RecordComponents = make([]RecordComponent, count)
		for i := range a.RecordComponents {
			c := &a.RecordComponents[i]
			c.Name = utf8At(r, cp, r.readU2())
			c.Descriptor = utf8At(r, cp, r.readU2())
			c.Attributes = readAttributes(r, cp)
		}
	default:
		a.Raw = append(a.Raw, RawAttribute{Name: name, Info: info})
	}
}

func utf8At(r *reader, cp ConstantPool, index uint16) string {
	if r.err != nil {
		return ""
	}
	s, ok := cp.Utf8(index)
	if !ok {
		r.fail("index %d is not a Utf8 entry", index)
	}
	return s
}

func readAnnotations(r *reader, cp ConstantPool) []Annotation {
	count := r.readU2()
	out := make([]Annotation, 0, count)
	for i := uint16(0); i < count && r.err == nil; i++ {
		out = append(out, readAnnotation(r, cp))
	}
	return out
}

func readParameterAnnotations(r *reader, cp ConstantPool) [][]Annotation {
	count := r.readU1()
	out := make([][]Annotation, count)
	for i := range out {
		out[i] = readAnnotations(r, cp)
	}
	return out
}

func readAnnotation(r *reader, cp ConstantPool) Annotation {
	ann := Annotation{Type: utf8At(r, cp, r.readU2())}
	count := r.readU2()
	for i := uint16(0); i < count && r.err == nil; i++ {
		name := utf8At(r, cp, r.readU2())
		ann.Elements = append(ann.Elements, ElementValuePair{Name: name, Value: readElementValue(r, cp)})
	}
	return ann
}

func readElementValue(r *reader, cp ConstantPool) ElementValue {
	v := ElementValue{Tag: r.readU1()}
	if r.err != nil {
		return v
	}

	switch v.Tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		idx := r.readU2()
		c, ok := cp.Literal(idx)
		if !ok {
			r.fail("element constant index %d is not a literal", idx)
		}
		v.Const = c
	case 's':
		v.Const = utf8At(r, cp, r.readU2())
	case 'e':
		v.EnumType = utf8At(r, cp, r.readU2())
		v.EnumConst = utf8At(r, cp, r.readU2())
	case 'c':
		v.Class = utf8At(r, cp, r.readU2())
	case '@':
		ann := readAnnotation(r, cp)
		v.Annotation = &ann
	case '[':
		count := r.readU2()
		for i := uint16(0); i < count && r.err == nil; i++ {
			v.Array = append(v.Array, readElementValue(r, cp))
		}
	default:
		r.fail("unknown element value tag %q", v.Tag)
	}
	return v
}
