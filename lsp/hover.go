package lsp

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/fusion/errors"
)

var (
	packagePattern = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)
	importPattern  = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+?)(\.\*)?\s*;`)
)

// hover renders the first candidate class for the identifier at line and
// character (zero-based, UTF-16 columns as sent by the client).
func (s *Server) hover(text string, line, character int) *protocol.Hover {
	ident, rng, ok := identifierAt(text, line, character)
	if !ok {
		return nil
	}
	for _, name := range candidates(text, ident) {
		path, module, err := s.renderer.Render(name)
		if errors.KindOf(err) == errors.KindDependencyNotResolved && errors.NameOf(err) == classpathName(name) {
			continue
		}
		var value string
		if err != nil {
			log.Infof("hover %s: %s", name, err)
			value = fmt.Sprintf("**%s**\n\n%s", name, err)
		} else {
			value = fmt.Sprintf("**%s**\n\n```typescript\n%s\n```", path, module)
		}
		return &protocol.Hover{
			Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value},
			Range:    &rng,
		}
	}
	return nil
}

// identifierAt returns the dotted Java name around the cursor and its
// range. A trailing dot is dropped.
func identifierAt(text string, line, character int) (string, protocol.Range, bool) {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return "", protocol.Range{}, false
	}
	runes := []rune(strings.TrimSuffix(lines[line], "\r"))

	// Map the UTF-16 column onto a rune index.
	at, units := 0, 0
	for at < len(runes) && units < character {
		units += utf16.RuneLen(runes[at])
		at++
	}
	if at == len(runes) || !isNameRune(runes[at]) {
		if at == 0 || !isNameRune(runes[at-1]) {
			return "", protocol.Range{}, false
		}
		at--
	}

	start, end := at, at
	for start > 0 && isNameRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isNameRune(runes[end]) {
		end++
	}
	name := strings.Trim(string(runes[start:end]), ".")
	if name == "" || !isJavaStart(firstRune(name)) {
		return "", protocol.Range{}, false
	}

	col := func(i int) protocol.UInteger {
		return protocol.UInteger(len(utf16.Encode(runes[:i])))
	}
	return name, protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: col(start)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: col(end)},
	}, true
}

// candidates lists the binary names ident may refer to in a compilation
// unit, most likely first: a qualified name as written, then single-type
// imports, the unit's own package, on-demand imports and java.lang.
// Nested names (Outer.Inner) resolve Outer and append $Inner. Static
// imports are ignored.
func candidates(text, ident string) []string {
	parts := strings.Split(ident, ".")
	if unicode.IsLower(firstRune(parts[0])) {
		return []string{ident}
	}
	simple, nested := parts[0], ""
	if len(parts) > 1 {
		nested = "$" + strings.Join(parts[1:], "$")
	}

	var exact, onDemand []string
	for _, m := range importPattern.FindAllStringSubmatch(text, -1) {
		switch {
		case m[2] != "":
			onDemand = append(onDemand, m[1]+"."+simple)
		case m[1] == simple || strings.HasSuffix(m[1], "."+simple):
			exact = append(exact, m[1])
		}
	}

	var pkg string
	if m := packagePattern.FindStringSubmatch(text); m != nil {
		pkg = m[1] + "."
	}

	names := append(exact, pkg+simple)
	names = append(names, onDemand...)
	names = append(names, "java.lang."+simple)
	for i := range names {
		names[i] += nested
	}
	return names
}

// classpathName is the slashed form carried by resolution errors.
func classpathName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

func isNameRune(r rune) bool {
	return r == '.' || r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isJavaStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
