package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/fusion/errors"
)

type module struct {
	path, text string
	err        error
}

// fakeRenderer serves fixed modules and reports every other name as
// missing from the classpath.
type fakeRenderer struct {
	modules map[string]module
	asked   []string
}

func (r *fakeRenderer) Render(name string) (string, string, error) {
	r.asked = append(r.asked, name)
	m, ok := r.modules[name]
	if !ok {
		return "", "", errors.DependencyNotResolved(classpathName(name))
	}
	return m.path, m.text, m.err
}

const source = `package com.example.app;

import java.util.List;
import com.example.charts.ChartSeries;
import com.example.model.*;
import static java.util.Collections.emptyList;

public class Dashboard {
    private ChartSeries series;
    private List<Order.Status> states;
    private Order order;
}
`

func TestIdentifierAt(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		line, char int
		want       string
		start, end uint32
	}{
		{"inside", "    private ChartSeries series;", 0, 15, "ChartSeries", 12, 23},
		{"at end", "    private ChartSeries series;", 0, 23, "ChartSeries", 12, 23},
		{"at start", "    private ChartSeries series;", 0, 12, "ChartSeries", 12, 23},
		{"qualified", "import com.example.Foo;", 0, 10, "com.example.Foo", 7, 22},
		{"nested", "List<Order.Status> s", 0, 8, "Order.Status", 5, 17},
		{"second line", "a\n  Foo x", 1, 3, "Foo", 2, 5},
		{"wide runes", "😀 Foo", 0, 3, "Foo", 3, 6},
		{"crlf", "Foo\r\nBar", 0, 3, "Foo", 0, 3},
		{"accented start", "new Über()", 0, 5, "Über", 4, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rng, ok := identifierAt(tt.text, tt.line, tt.char)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, protocol.Range{
				Start: protocol.Position{Line: uint32(tt.line), Character: tt.start},
				End:   protocol.Position{Line: uint32(tt.line), Character: tt.end},
			}, rng)
		})
	}
}

func TestIdentifierAtMiss(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		line, char int
	}{
		{"between words", "a  b", 0, 2},
		{"line out of range", "Foo", 3, 0},
		{"empty line", "", 0, 0},
		{"number", "x = 42;", 0, 5},
		{"operator", "a + b", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := identifierAt(tt.text, tt.line, tt.char)
			assert.False(t, ok)
		})
	}
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{
		"com.example.charts.ChartSeries",
		"com.example.app.ChartSeries",
		"com.example.model.ChartSeries",
		"java.lang.ChartSeries",
	}, candidates(source, "ChartSeries"))

	assert.Equal(t, []string{
		"com.example.app.Order$Status",
		"com.example.model.Order$Status",
		"java.lang.Order$Status",
	}, candidates(source, "Order.Status"))

	assert.Equal(t, []string{"com.example.Foo"}, candidates(source, "com.example.Foo"))
	assert.Equal(t, []string{"A", "java.lang.A"}, candidates("class A {}", "A"))

	assert.Equal(t, []string{"élan.Foo"}, candidates(source, "élan.Foo"))
	assert.Equal(t, []string{"com.example.app.Ärger", "java.lang.Ärger"}, candidates("package com.example.app;", "Ärger"))
}

func TestHover(t *testing.T) {
	r := &fakeRenderer{modules: map[string]module{
		"com.example.model.Order": {path: "com/example/model/Order.ts", text: "export default interface Order {\n\n}"},
	}}
	s := New(r, "test")

	h := s.hover(source, 10, 14)
	require.NotNil(t, h)
	assert.Equal(t, protocol.MarkupContent{
		Kind:  protocol.MarkupKindMarkdown,
		Value: "**com/example/model/Order.ts**\n\n```typescript\nexport default interface Order {\n\n}\n```",
	}, h.Contents)
	assert.Equal(t, protocol.Position{Line: 10, Character: 12}, h.Range.Start)
	assert.Equal(t, []string{"com.example.app.Order", "com.example.model.Order"}, r.asked)
}

func TestHoverUnresolved(t *testing.T) {
	r := &fakeRenderer{}
	s := New(r, "test")

	assert.Nil(t, s.hover(source, 8, 18))
	assert.Len(t, r.asked, 4)
}

func TestHoverShowsTranslationErrors(t *testing.T) {
	r := &fakeRenderer{modules: map[string]module{
		"com.example.charts.ChartSeries": {err: errors.Translationf("com.example.charts.ChartSeries", "generic type %s is not supported", "Box")},
	}}
	s := New(r, "test")

	h := s.hover(source, 8, 18)
	require.NotNil(t, h)
	content := h.Contents.(protocol.MarkupContent)
	assert.Contains(t, content.Value, "**com.example.charts.ChartSeries**")
	assert.Contains(t, content.Value, "generic type Box is not supported")
}

func TestDocuments(t *testing.T) {
	r := &fakeRenderer{modules: map[string]module{
		"com.example.model.Order": {path: "com/example/model/Order.ts", text: "export default interface Order {\n\n}"},
	}}
	s := New(r, "test")
	uri := "file:///src/Dashboard.java"

	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Text: "package x;"},
	}))
	require.NoError(t, s.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: source}},
	}))

	params := &protocol.HoverParams{TextDocumentPositionParams: protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: 10, Character: 14},
	}}
	h, err := s.textDocumentHover(nil, params)
	require.NoError(t, err)
	require.NotNil(t, h)

	require.NoError(t, s.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	h, err = s.textDocumentHover(nil, params)
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///home/me/My%20Project/A.java")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/My Project/A.java", path)

	path, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", path)
}
