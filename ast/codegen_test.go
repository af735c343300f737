package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "/**\n * Some header\n */"

func id(name string) Ident { return NewIdent(name) }

func TestStructModule(t *testing.T) {
	number := NewType(id("number"), true)
	content := NewStruct(id("ChartSeries"),
		NewField(id("data"), NewType(id("Array"), true, number)),
		NewField(id("name"), NewType(id("string"), false)),
	)
	module := NewStructModule(id("ChartSeries"), nil, &content)

	want := "/**\n * Some header\n */\n" +
		"export default interface ChartSeries {\n" +
		"  data?: Array<number | undefined>;\n" +
		"  name: string;\n" +
		"}"
	assert.Equal(t, want, module.TS(header))
	assert.Equal(t, want, Codegen(module, WithHeader(header)))
}

func TestEndpointModule(t *testing.T) {
	imports := []Import{
		NewImport(id("ChartsSeries"), "./com/example/application/views/dashboard/ChartSeries"),
		NewImport(id("HealthGridItem"), "./com/example/application/views/dashboard/HealthGridItem"),
	}
	methods := []Method{
		NewMethod(id("healthGridItems"),
			NewType(id("Array"), false, NewType(id("HealthGridItem"), false))),
		NewMethod(id("monthlyVisitorSeries"),
			NewType(id("Array"), true, NewType(id("ChartsSeries"), true)),
			NewParameter(id("id"), NewType(id("number"), true)),
			NewParameter(id("optional"), NewType(id("boolean"), false)),
		),
	}
	module := NewEndpointModule(id("DashboardEndpoint"), imports, methods)

	want := "/**\n * Some header\n */\n" +
		"import type ChartsSeries from \"./com/example/application/views/dashboard/ChartSeries\";\n" +
		"import type HealthGridItem from \"./com/example/application/views/dashboard/HealthGridItem\";\n" +
		"\n" +
		"function _healthGridItems(): Promise<Array<HealthGridItem>> {\n" +
		"  client.call(\"DashboardEndpoint\", \"healthGridItems\");\n" +
		"}\n" +
		"\n" +
		"function _monthlyVisitorSeries(id: number | undefined, optional: boolean): Promise<Array<ChartsSeries | undefined> | undefined> {\n" +
		"  client.call(\"DashboardEndpoint\", \"monthlyVisitorSeries\", {id, optional});\n" +
		"}\n" +
		"\n" +
		"export {\n" +
		"  _healthGridItems as healthGridItems,\n" +
		"  _monthlyVisitorSeries as monthlyVisitorSeries,\n" +
		"};"
	assert.Equal(t, want, module.TS(header))
}

func TestEnumModule(t *testing.T) {
	content := NewEnum(id("MyEnum"),
		NewEnumVariant(id("VAL1")),
		NewEnumVariant(id("VAL2")),
		NewEnumVariant(id("VAL3")),
	)
	module := NewEnumModule(id("MyEnum"), &content)

	want := "/**\n * Some header\n */\n" +
		"\n" +
		"export default enum MyEnum {\n" +
		"  VAL1 = 'VAL1',\n" +
		"  VAL2 = 'VAL2',\n" +
		"  VAL3 = 'VAL3',\n" +
		"}"
	assert.Equal(t, want, module.TS(header))
}

func TestOptionalRendering(t *testing.T) {
	tests := []struct {
		typ      Type
		full     string
		required string
	}{
		{NewType(id("string"), false), "string", "string"},
		{NewType(id("string"), true), "string | undefined", "string"},
		{
			NewType(id("Record"), true, NewType(id("string"), false), NewType(id("Foo"), true)),
			"Record<string, Foo | undefined> | undefined",
			"Record<string, Foo | undefined>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			assert.Equal(t, tt.full, tt.typ.TS())
			assert.Equal(t, tt.required, tt.typ.RequiredTS())
			assert.Equal(t, tt.required, Codegen(tt.typ, WithoutOptional()))
			if tt.typ.Optional() {
				assert.Equal(t, tt.typ.RequiredTS()+" | undefined", tt.typ.TS())
			}
		})
	}
}

func TestFieldMarkerExclusive(t *testing.T) {
	for _, optional := range []bool{true, false} {
		out := NewField(id("x"), NewType(id("Foo"), optional)).TS()
		hasMarker := strings.Contains(out, "?:")
		hasSuffix := strings.HasSuffix(strings.TrimSuffix(out, ";"), " | undefined")
		assert.Equal(t, optional, hasMarker, out)
		assert.False(t, hasSuffix, out)
	}
}

func TestOrderPreserved(t *testing.T) {
	content := NewEnum(id("Letters"),
		NewEnumVariant(id("C")), NewEnumVariant(id("A")), NewEnumVariant(id("B")))
	out := content.TS()

	assert.Less(t, strings.Index(out, "C = 'C'"), strings.Index(out, "A = 'A'"))
	assert.Less(t, strings.Index(out, "A = 'A'"), strings.Index(out, "B = 'B'"))

	str := NewStruct(id("S"),
		NewField(id("b"), NewType(id("string"), false)),
		NewField(id("a"), NewType(id("number"), true)))
	assert.Equal(t, "export default interface S {\n  b: string;\n  a?: number;\n}", str.TS())

	num := NewType(id("number"), false)
	m := NewMethod(id("move"), NewType(id("void"), false),
		NewParameter(id("y"), num), NewParameter(id("x"), num))
	assert.Equal(t,
		"function _move(y: number, x: number): Promise<void> {\n"+
			"  client.call(\"Grid\", \"move\", {y, x});\n"+
			"}",
		m.TS(id("Grid")))

	mod := NewEndpointModule(id("Grid"), nil, []Method{
		NewMethod(id("zoom"), NewType(id("void"), false)),
		NewMethod(id("pan"), NewType(id("void"), false)),
	})
	out = mod.TS("")
	assert.Less(t, strings.Index(out, "function _zoom"), strings.Index(out, "function _pan"))
	assert.True(t, strings.HasSuffix(out, "export {\n  _zoom as zoom,\n  _pan as pan,\n};"), out)
}

func TestTextIsNotEscaped(t *testing.T) {
	imp := NewImport(id("Foo"), `..\win\Foo`)
	assert.Equal(t, `import type Foo from "..\win\Foo";`, imp.TS())

	m := NewMethod(id("get"), NewType(id("void"), false))
	assert.Equal(t,
		"function _get(): Promise<void> {\n  client.call(\"Win\\Grid\", \"get\");\n}",
		m.TS(id(`Win\Grid`)))
}

func TestEmptyContent(t *testing.T) {
	assert.Equal(t, "", NewStructModule(id("Foo"), nil, nil).TS(""))
	assert.Equal(t, "\n", NewEnumModule(id("Foo"), nil).TS(""))
	assert.Equal(t, "", NewEndpointModule(id("FooEndpoint"), nil, nil).TS(""))
	assert.Equal(t, "h\n", NewEndpointModule(id("FooEndpoint"), []Import{}, []Method{}).TS("h"))

	empty := NewStruct(id("Empty"))
	assert.Equal(t, "export default interface Empty {\n\n}", empty.TS())
}

func TestMethodWithoutEndpointPanics(t *testing.T) {
	m := NewMethod(id("ping"), NewType(id("void"), false))

	assert.Panics(t, func() { m.TS(Ident{}) })
	assert.Panics(t, func() { Codegen(m) })
	require.NotPanics(t, func() { Codegen(m, WithEndpoint(id("PingEndpoint"))) })
}

func TestNodesAreIndependentOfInputs(t *testing.T) {
	fields := []Field{NewField(id("a"), NewType(id("string"), false))}
	s := NewStruct(id("S"), fields...)
	fields[0] = NewField(id("b"), NewType(id("number"), false))

	assert.Equal(t, "export default interface S {\n  a: string;\n}", s.TS())
}

func TestNewIdentRejectsEmpty(t *testing.T) {
	assert.Panics(t, func() { NewIdent("") })
}
