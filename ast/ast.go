// Package ast defines the intermediate representation of generated
// TypeScript modules and renders it to source text.
//
// Nodes are immutable values. Constructors copy the slices they are given,
// so a node can be shared between any number of parents and rendered
// concurrently. Nil and empty lists are equivalent.
package ast

import "slices"

// Node is implemented by every node type in this package and by no other
// type. See Codegen for the exhaustive dispatch over the set.
type Node interface {
	node()
}

// Module is one generated source unit.
type Module interface {
	Node
	ModuleName() Ident
	// TS renders the module, prefixed by header when header is not empty.
	TS(header string) string
}

type Ident struct {
	name string
}

// NewIdent panics on an empty name.
func NewIdent(name string) Ident {
	if name == "" {
		panic("ast: empty identifier")
	}
	return Ident{name: name}
}

func (i Ident) Name() string { return i.name }

// IsZero reports whether i is the zero Ident, which is never a valid name.
func (i Ident) IsZero() bool { return i.name == "" }

// Import pulls the default export of another module in as a type.
type Import struct {
	symbol Ident
	source string
}

func NewImport(symbol Ident, source string) Import {
	return Import{symbol: symbol, source: source}
}

func (i Import) Symbol() Ident  { return i.symbol }
func (i Import) Source() string { return i.source }

// Type is a possibly generic, possibly optional type reference.
type Type struct {
	name     Ident
	optional bool
	args     []Type
}

func NewType(name Ident, optional bool, args ...Type) Type {
	return Type{name: name, optional: optional, args: clone(args)}
}

func (t Type) Name() Ident     { return t.name }
func (t Type) Optional() bool  { return t.optional }
func (t Type) Args() []Type    { return slices.Clone(t.args) }
func (t Type) IsGeneric() bool { return len(t.args) > 0 }

// AsOptional returns a copy of t with the optional flag set to optional.
func (t Type) AsOptional(optional bool) Type {
	t.optional = optional
	return t
}

// Field is a named, typed member of a Struct.
type Field struct {
	name Ident
	typ  Type
}

func NewField(name Ident, typ Type) Field {
	return Field{name: name, typ: typ}
}

func (f Field) Name() Ident { return f.name }
func (f Field) Type() Type  { return f.typ }

// Struct is a data-transfer record rendered as a default-exported interface.
type Struct struct {
	name   Ident
	fields []Field
}

func NewStruct(name Ident, fields ...Field) Struct {
	return Struct{name: name, fields: clone(fields)}
}

func (s Struct) Name() Ident     { return s.name }
func (s Struct) Fields() []Field { return slices.Clone(s.fields) }

type Parameter struct {
	name Ident
	typ  Type
}

func NewParameter(name Ident, typ Type) Parameter {
	return Parameter{name: name, typ: typ}
}

func (p Parameter) Name() Ident { return p.name }
func (p Parameter) Type() Type  { return p.typ }

// Method is one endpoint operation. It only renders in the context of an
// enclosing endpoint, see Method.TS.
type Method struct {
	name       Ident
	parameters []Parameter
	returns    Type
}

func NewMethod(name Ident, returns Type, parameters ...Parameter) Method {
	return Method{name: name, returns: returns, parameters: clone(parameters)}
}

func (m Method) Name() Ident             { return m.name }
func (m Method) Parameters() []Parameter { return slices.Clone(m.parameters) }
func (m Method) Returns() Type           { return m.returns }

type EnumVariant struct {
	name Ident
}

func NewEnumVariant(name Ident) EnumVariant {
	return EnumVariant{name: name}
}

func (v EnumVariant) Name() Ident { return v.name }

type Enum struct {
	name     Ident
	variants []EnumVariant
}

func NewEnum(name Ident, variants ...EnumVariant) Enum {
	return Enum{name: name, variants: clone(variants)}
}

func (e Enum) Name() Ident             { return e.name }
func (e Enum) Variants() []EnumVariant { return slices.Clone(e.variants) }

// StructModule holds a single Struct and the imports its fields need.
type StructModule struct {
	name    Ident
	imports []Import
	content *Struct
}

// NewStructModule builds a module; a nil content renders an empty body.
func NewStructModule(name Ident, imports []Import, content *Struct) StructModule {
	m := StructModule{name: name, imports: clone(imports)}
	if content != nil {
		c := *content
		m.content = &c
	}
	return m
}

func (m StructModule) ModuleName() Ident { return m.name }
func (m StructModule) Imports() []Import { return slices.Clone(m.imports) }

// Content returns the module's Struct, if it has one.
func (m StructModule) Content() (Struct, bool) {
	if m.content == nil {
		return Struct{}, false
	}
	return *m.content, true
}

// EndpointModule holds the client stubs of one endpoint.
type EndpointModule struct {
	name    Ident
	imports []Import
	methods []Method
}

func NewEndpointModule(name Ident, imports []Import, methods []Method) EndpointModule {
	return EndpointModule{name: name, imports: clone(imports), methods: clone(methods)}
}

func (m EndpointModule) ModuleName() Ident { return m.name }
func (m EndpointModule) Imports() []Import { return slices.Clone(m.imports) }
func (m EndpointModule) Methods() []Method { return slices.Clone(m.methods) }

// EnumModule holds a single Enum. Enums never need imports.
type EnumModule struct {
	name    Ident
	content *Enum
}

func NewEnumModule(name Ident, content *Enum) EnumModule {
	m := EnumModule{name: name}
	if content != nil {
		c := *content
		m.content = &c
	}
	return m
}

func (m EnumModule) ModuleName() Ident { return m.name }

func (m EnumModule) Content() (Enum, bool) {
	if m.content == nil {
		return Enum{}, false
	}
	return *m.content, true
}

func (Ident) node()          {}
func (Import) node()         {}
func (Type) node()           {}
func (Field) node()          {}
func (Struct) node()         {}
func (Parameter) node()      {}
func (Method) node()         {}
func (EnumVariant) node()    {}
func (Enum) node()           {}
func (StructModule) node()   {}
func (EndpointModule) node() {}
func (EnumModule) node()     {}

func clone[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s)
}
