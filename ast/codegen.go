package ast

import (
	"fmt"
	"strings"
)

func (i Ident) TS() string { return i.name }

func (i Import) TS() string {
	return "import type " + i.symbol.name + " from \"" + i.source + "\";"
}

// TS renders t in full form: optional types carry a " | undefined" suffix.
func (t Type) TS() string {
	if !t.optional {
		return t.RequiredTS()
	}
	return t.RequiredTS() + " | undefined"
}

// RequiredTS renders t without its own optional suffix. Generic arguments
// are always rendered in full form.
func (t Type) RequiredTS() string {
	var b strings.Builder
	b.WriteString(t.name.name)
	if len(t.args) > 0 {
		b.WriteByte('<')
		for i, arg := range t.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.TS())
		}
		b.WriteByte('>')
	}
	return b.String()
}

// TS renders the field as an interface member. Optionality is expressed by
// the "?" marker, so the type itself is rendered in required form.
func (f Field) TS() string {
	marker := ""
	if f.typ.optional {
		marker = "?"
	}
	return "  " + f.name.name + marker + ": " + f.typ.RequiredTS() + ";"
}

func (s Struct) TS() string {
	var b strings.Builder
	b.WriteString("export default interface ")
	b.WriteString(s.name.name)
	b.WriteString(" {\n")
	for i, f := range s.fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.TS())
	}
	b.WriteString("\n}")
	return b.String()
}

func (p Parameter) TS() string {
	return p.name.name + ": " + p.typ.TS()
}

// TS renders the client stub of m. The stub calls the endpoint by name, so
// rendering a method without its endpoint is a programming error and panics.
func (m Method) TS(endpoint Ident) string {
	if endpoint.IsZero() {
		panic(fmt.Sprintf("ast: method %s rendered without an endpoint name", m.name.name))
	}

	var b strings.Builder
	b.WriteString("function _")
	b.WriteString(m.name.name)
	b.WriteByte('(')
	for i, p := range m.parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.TS())
	}
	b.WriteString("): Promise<")
	b.WriteString(m.returns.TS())
	b.WriteString("> {\n")
	b.WriteString("  client.call(\"")
	b.WriteString(endpoint.name)
	b.WriteString("\", \"")
	b.WriteString(m.name.name)
	b.WriteByte('"')
	if len(m.parameters) > 0 {
		b.WriteString(", {")
		for i, p := range m.parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.name.name)
		}
		b.WriteByte('}')
	}
	b.WriteString(");\n}")
	return b.String()
}

func (v EnumVariant) TS() string {
	return v.name.name + " = '" + v.name.name + "'"
}

func (e Enum) TS() string {
	var b strings.Builder
	b.WriteString("export default enum ")
	b.WriteString(e.name.name)
	b.WriteString(" {\n")
	for i, v := range e.variants {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		b.WriteString(v.TS())
		b.WriteByte(',')
	}
	b.WriteString("\n}")
	return b.String()
}

func writeHeader(b *strings.Builder, header string) {
	if header != "" {
		b.WriteString(header)
		b.WriteByte('\n')
	}
}

func writeImports(b *strings.Builder, imports []Import) {
	if len(imports) == 0 {
		return
	}
	for i, imp := range imports {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(imp.TS())
	}
	b.WriteString("\n\n")
}

func (m StructModule) TS(header string) string {
	var b strings.Builder
	writeHeader(&b, header)
	writeImports(&b, m.imports)
	if m.content != nil {
		b.WriteString(m.content.TS())
	}
	return b.String()
}

func (m EndpointModule) TS(header string) string {
	var b strings.Builder
	writeHeader(&b, header)
	writeImports(&b, m.imports)
	if len(m.methods) == 0 {
		return b.String()
	}

	for i, method := range m.methods {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(method.TS(m.name))
	}
	b.WriteString("\n\nexport {\n")
	for _, method := range m.methods {
		fmt.Fprintf(&b, "  _%s as %s,\n", method.name.name, method.name.name)
	}
	b.WriteString("};")
	return b.String()
}

func (m EnumModule) TS(header string) string {
	var b strings.Builder
	writeHeader(&b, header)
	b.WriteByte('\n')
	if m.content != nil {
		b.WriteString(m.content.TS())
	}
	return b.String()
}

type renderOptions struct {
	header   string
	endpoint Ident
	required bool
}

// Option adjusts how Codegen renders a node.
type Option func(*renderOptions)

// WithHeader prefixes rendered modules with header.
func WithHeader(header string) Option {
	return func(o *renderOptions) { o.header = header }
}

// WithEndpoint names the endpoint a Method belongs to.
func WithEndpoint(endpoint Ident) Option {
	return func(o *renderOptions) { o.endpoint = endpoint }
}

// WithoutOptional renders a Type in required form.
func WithoutOptional() Option {
	return func(o *renderOptions) { o.required = true }
}

// Codegen renders any node. Options that do not apply to n are ignored.
// Rendering a Method without WithEndpoint panics.
func Codegen(n Node, opts ...Option) string {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch n := n.(type) {
	case Ident:
		return n.TS()
	case Import:
		return n.TS()
	case Type:
		if o.required {
			return n.RequiredTS()
		}
		return n.TS()
	case Field:
		return n.TS()
	case Struct:
		return n.TS()
	case Parameter:
		return n.TS()
	case Method:
		return n.TS(o.endpoint)
	case EnumVariant:
		return n.TS()
	case Enum:
		return n.TS()
	case StructModule:
		return n.TS(o.header)
	case EndpointModule:
		return n.TS(o.header)
	case EnumModule:
		return n.TS(o.header)
	}
	panic(fmt.Sprintf("ast: unknown node %T", n))
}
