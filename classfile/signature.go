package classfile

import (
	"strings"

	"github.com/dhamidi/fusion/errors"
)

type TypeKind uint8

const (
	BaseKind TypeKind = iota + 1
	ClassKind
	ArrayKind
	TypeVariableKind
	VoidKind
)

// TypeSignature is a decoded field descriptor or generic type signature.
type TypeSignature struct {
	Kind TypeKind
	// BaseType is the Java keyword of a primitive, e.g. "int".
	BaseType string
	// ClassName is the internal name of a class type. Inner classes are
	// joined with '$' as in their binary name.
	ClassName string
	// TypeArguments belong to the innermost class of ClassName.
	TypeArguments []TypeArgument
	Elem          *TypeSignature
	// Name is the name of a type variable.
	Name string
}

// TypeArgument is one argument of a parameterized type. Wildcard is 0 for
// an exact type, '+' for extends, '-' for super and '*' for an unbounded
// wildcard, in which case Type is nil.
type TypeArgument struct {
	Wildcard byte
	Type     *TypeSignature
}

type TypeParameter struct {
	Name   string
	Bounds []*TypeSignature
}

type MethodSignature struct {
	TypeParameters []TypeParameter
	Parameters     []*TypeSignature
	Result         *TypeSignature
	Throws         []*TypeSignature
}

type ClassSignature struct {
	TypeParameters []TypeParameter
	SuperClass     *TypeSignature
	Interfaces     []*TypeSignature
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// String renders t in Java source form, e.g. java.util.List<? extends java.lang.Number>[].
func (t *TypeSignature) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *TypeSignature) write(sb *strings.Builder) {
	switch t.Kind {
	case BaseKind:
		sb.WriteString(t.BaseType)
	case VoidKind:
		sb.WriteString("void")
	case TypeVariableKind:
		sb.WriteString(t.Name)
	case ArrayKind:
		t.Elem.write(sb)
		sb.WriteString("[]")
	case ClassKind:
		sb.WriteString(InternalToSourceName(t.ClassName))
		if len(t.TypeArguments) == 0 {
			return
		}
		sb.WriteByte('<')
		for i, arg := range t.TypeArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			switch arg.Wildcard {
			case '*':
				sb.WriteByte('?')
				continue
			case '+':
				sb.WriteString("? extends ")
			case '-':
				sb.WriteString("? super ")
			}
			arg.Type.write(sb)
		}
		sb.WriteByte('>')
	}
}

func (t *TypeSignature) IsPrimitive() bool { return t.Kind == BaseKind }
func (t *TypeSignature) IsReference() bool { return t.Kind == ClassKind || t.Kind == ArrayKind }

// SlotSize is the number of local variable slots a value of type t takes.
func (t *TypeSignature) SlotSize() int {
	if t.Kind == BaseKind && (t.BaseType == "long" || t.BaseType == "double") {
		return 2
	}
	return 1
}

type sigParser struct {
	s       string
	pos     int
	generic bool
}

func (p *sigParser) errorf(format string, args ...any) error {
	return errors.Mark(errors.Newf("signature %q at %d: "+format, append([]any{p.s, p.pos}, args...)...), ErrFormat)
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *sigParser) done() error {
	if p.pos != len(p.s) {
		return p.errorf("trailing characters")
	}
	return nil
}

// identifier reads up to one of the terminators that end a name in a
// signature.
func (p *sigParser) identifier() (string, error) {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(".;[/<>:", rune(p.s[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.s[start:p.pos], nil
}

func (p *sigParser) fieldType() (*TypeSignature, error) {
	c := p.peek()
	if base, ok := baseTypes[c]; ok {
		p.pos++
		return &TypeSignature{Kind: BaseKind, BaseType: base}, nil
	}
	return p.referenceType()
}

func (p *sigParser) referenceType() (*TypeSignature, error) {
	switch p.peek() {
	case 'L':
		return p.classType()
	case '[':
		p.pos++
		elem, err := p.fieldType()
		if err != nil {
			return nil, err
		}
		return &TypeSignature{Kind: ArrayKind, Elem: elem}, nil
	case 'T':
		if !p.generic {
			break
		}
		p.pos++
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		return &TypeSignature{Kind: TypeVariableKind, Name: name}, nil
	}
	return nil, p.errorf("unexpected %q", p.peek())
}

func (p *sigParser) classType() (*TypeSignature, error) {
	if err := p.expect('L'); err != nil {
		return nil, err
	}
	t := &TypeSignature{Kind: ClassKind}

	var name strings.Builder
	for {
		part, err := p.identifier()
		if err != nil {
			return nil, err
		}
		name.WriteString(part)
		if p.peek() != '/' {
			break
		}
		name.WriteByte('/')
		p.pos++
	}

	for {
		if p.peek() == '<' {
			if !p.generic {
				return nil, p.errorf("type arguments in descriptor")
			}
			args, err := p.typeArguments()
			if err != nil {
				return nil, err
			}
			t.TypeArguments = args
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
		inner, err := p.identifier()
		if err != nil {
			return nil, err
		}
		name.WriteByte('$')
		name.WriteString(inner)
		t.TypeArguments = nil
	}

	if err := p.expect(';'); err != nil {
		return nil, err
	}
	t.ClassName = name.String()
	return t, nil
}

func (p *sigParser) typeArguments() ([]TypeArgument, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var args []TypeArgument
	for p.peek() != '>' {
		if p.pos >= len(p.s) {
			return nil, p.errorf("unterminated type arguments")
		}
		var arg TypeArgument
		switch p.peek() {
		case '*':
			p.pos++
			args = append(args, TypeArgument{Wildcard: '*'})
			continue
		case '+', '-':
			arg.Wildcard = p.peek()
			p.pos++
		}
		t, err := p.referenceType()
		if err != nil {
			return nil, err
		}
		arg.Type = t
		args = append(args, arg)
	}
	p.pos++
	if len(args) == 0 {
		return nil, p.errorf("empty type arguments")
	}
	return args, nil
}

func (p *sigParser) typeParameters() ([]TypeParameter, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var params []TypeParameter
	for p.peek() != '>' {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		param := TypeParameter{Name: name}
		// Class bound, possibly empty, then any number of interface bounds.
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		if c := p.peek(); c != ':' && c != '>' {
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			param.Bounds = append(param.Bounds, bound)
		}
		for p.peek() == ':' {
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			param.Bounds = append(param.Bounds, bound)
		}
		params = append(params, param)
	}
	p.pos++
	return params, nil
}

func (p *sigParser) method() (*MethodSignature, error) {
	var (
		m   MethodSignature
		err error
	)
	if p.generic {
		if m.TypeParameters, err = p.typeParameters(); err != nil {
			return nil, err
		}
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek() != ')' {
		if p.pos >= len(p.s) {
			return nil, p.errorf("unterminated parameter list")
		}
		t, err := p.fieldType()
		if err != nil {
			return nil, err
		}
		m.Parameters = append(m.Parameters, t)
	}
	p.pos++

	if p.peek() == 'V' {
		p.pos++
		m.Result = &TypeSignature{Kind: VoidKind}
	} else if m.Result, err = p.fieldType(); err != nil {
		return nil, err
	}

	for p.generic && p.peek() == '^' {
		p.pos++
		t, err := p.referenceType()
		if err != nil {
			return nil, err
		}
		m.Throws = append(m.Throws, t)
	}
	return &m, p.done()
}

// ParseFieldDescriptor decodes a field descriptor such as [Ljava/lang/String;.
func ParseFieldDescriptor(desc string) (*TypeSignature, error) {
	p := &sigParser{s: desc}
	t, err := p.fieldType()
	if err != nil {
		return nil, err
	}
	return t, p.done()
}

// ParseMethodDescriptor decodes a method descriptor such as (IJ)V.
func ParseMethodDescriptor(desc string) (*MethodSignature, error) {
	p := &sigParser{s: desc}
	return p.method()
}

// ParseFieldSignature decodes the generic signature of a field or record
// component.
func ParseFieldSignature(sig string) (*TypeSignature, error) {
	p := &sigParser{s: sig, generic: true}
	t, err := p.referenceType()
	if err != nil {
		return nil, err
	}
	return t, p.done()
}

func ParseMethodSignature(sig string) (*MethodSignature, error) {
	p := &sigParser{s: sig, generic: true}
	return p.method()
}

func ParseClassSignature(sig string) (*ClassSignature, error) {
	p := &sigParser{s: sig, generic: true}
	var (
		c   ClassSignature
		err error
	)
	if c.TypeParameters, err = p.typeParameters(); err != nil {
		return nil, err
	}
	if c.SuperClass, err = p.classType(); err != nil {
		return nil, err
	}
	for p.pos < len(p.s) {
		t, err := p.classType()
		if err != nil {
			return nil, err
		}
		c.Interfaces = append(c.Interfaces, t)
	}
	return &c, nil
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// SimpleName returns the unqualified name of a binary class name, with any
// enclosing class names removed: com/example/Outer$Inner becomes Inner.
func SimpleName(name string) string {
	if i := strings.LastIndexAny(name, "/."); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '$'); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	return name
}

// PackageName returns the internal package of a binary class name, e.g.
// com/example for com/example/Foo.
func PackageName(name string) string {
	name = SourceToInternalName(name)
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[:i]
	}
	return ""
}
