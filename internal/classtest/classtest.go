// Package classtest assembles class files and archives for tests, so that
// tests can describe the classes they need instead of shipping binaries.
package classtest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Access flags, as they appear in the class file.
const (
	Public    uint16 = 0x0001
	Private   uint16 = 0x0002
	Protected uint16 = 0x0004
	Static    uint16 = 0x0008
	Final     uint16 = 0x0010
	Super     uint16 = 0x0020
	Transient uint16 = 0x0080
	Interface uint16 = 0x0200
	Abstract  uint16 = 0x0400
	Synthetic uint16 = 0x1000
	AnnoFlag  uint16 = 0x2000
	Enum      uint16 = 0x4000
)

// Class describes a class file. Zero values give a public class extending
// java/lang/Object.
type Class struct {
	Name       string
	Super      string
	NoSuper    bool
	Flags      uint16
	Interfaces []string
	Signature  string

	Annotations []Annotation
	Fields      []Field
	Methods     []Method

	// Record writes a Record attribute listing Components.
	Record     bool
	Components []Field
}

type Field struct {
	Flags       uint16
	Name        string
	Descriptor  string
	Signature   string
	Annotations []Annotation
}

type Method struct {
	Flags                uint16
	Name                 string
	Descriptor           string
	Signature            string
	Annotations          []Annotation
	ParameterAnnotations [][]Annotation
	// ParameterNames writes a MethodParameters attribute.
	ParameterNames []string
	// LocalVariables writes a Code attribute with a LocalVariableTable.
	LocalVariables []LocalVariable
}

type LocalVariable struct {
	Name       string
	Descriptor string
	Index      uint16
}

// Annotation is written as RuntimeVisibleAnnotations unless Invisible.
type Annotation struct {
	Type      string
	Invisible bool
	Elements  []Element
}

// Element values may be string, int32, bool or []string.
type Element struct {
	Name  string
	Value any
}

// Bytes assembles the class file.
func (c *Class) Bytes() []byte {
	p := newPool()
	var body bytes.Buffer

	flags := c.Flags
	if flags == 0 {
		flags = Public | Super
	}
	u2(&body, flags)
	u2(&body, p.class(c.Name))
	switch {
	case c.NoSuper:
		u2(&body, 0)
	case c.Super != "":
		u2(&body, p.class(c.Super))
	default:
		u2(&body, p.class("java/lang/Object"))
	}
	u2(&body, uint16(len(c.Interfaces)))
	for _, i := range c.Interfaces {
		u2(&body, p.class(i))
	}

	u2(&body, uint16(len(c.Fields)))
	for _, f := range c.Fields {
		u2(&body, f.Flags)
		u2(&body, p.utf8(f.Name))
		u2(&body, p.utf8(f.Descriptor))
		writeAttributes(&body, p, memberAttributes(p, f.Signature, f.Annotations))
	}

	u2(&body, uint16(len(c.Methods)))
	for _, m := range c.Methods {
		u2(&body, m.Flags)
		u2(&body, p.utf8(m.Name))
		u2(&body, p.utf8(m.Descriptor))
		writeAttributes(&body, p, methodAttributes(p, m))
	}

	attrs := memberAttributes(p, c.Signature, c.Annotations)
	if c.Record {
		var rec bytes.Buffer
		u2(&rec, uint16(len(c.Components)))
		for _, f := range c.Components {
			u2(&rec, p.utf8(f.Name))
			u2(&rec, p.utf8(f.Descriptor))
			writeAttributes(&rec, p, memberAttributes(p, f.Signature, f.Annotations))
		}
		attrs = append(attrs, attribute{"Record", rec.Bytes()})
	}
	writeAttributes(&body, p, attrs)

	var out bytes.Buffer
	u4(&out, 0xCAFEBABE)
	u2(&out, 0)
	u2(&out, 61)
	p.writeTo(&out)
	out.Write(body.Bytes())
	return out.Bytes()
}

type attribute struct {
	name string
	info []byte
}

func writeAttributes(w *bytes.Buffer, p *pool, attrs []attribute) {
	u2(w, uint16(len(attrs)))
	for _, a := range attrs {
		u2(w, p.utf8(a.name))
		u4(w, uint32(len(a.info)))
		w.Write(a.info)
	}
}

func memberAttributes(p *pool, signature string, annotations []Annotation) []attribute {
	var attrs []attribute
	if signature != "" {
		var b bytes.Buffer
		u2(&b, p.utf8(signature))
		attrs = append(attrs, attribute{"Signature", b.Bytes()})
	}

	var visible, invisible []Annotation
	for _, a := range annotations {
		if a.Invisible {
			invisible = append(invisible, a)
		} else {
			visible = append(visible, a)
		}
	}
	if len(visible) > 0 {
		attrs = append(attrs, attribute{"RuntimeVisibleAnnotations", annotationsInfo(p, visible)})
	}
	if len(invisible) > 0 {
		attrs = append(attrs, attribute{"RuntimeInvisibleAnnotations", annotationsInfo(p, invisible)})
	}
	return attrs
}

func methodAttributes(p *pool, m Method) []attribute {
	attrs := memberAttributes(p, m.Signature, m.Annotations)

	if len(m.ParameterAnnotations) > 0 {
		var b bytes.Buffer
		b.WriteByte(byte(len(m.ParameterAnnotations)))
		for _, anns := range m.ParameterAnnotations {
			b.Write(annotationsInfo(p, anns))
		}
		attrs = append(attrs, attribute{"RuntimeVisibleParameterAnnotations", b.Bytes()})
	}

	if m.ParameterNames != nil {
		var b bytes.Buffer
		b.WriteByte(byte(len(m.ParameterNames)))
		for _, name := range m.ParameterNames {
			if name == "" {
				u2(&b, 0)
			} else {
				u2(&b, p.utf8(name))
			}
			u2(&b, 0)
		}
		attrs = append(attrs, attribute{"MethodParameters", b.Bytes()})
	}

	if len(m.LocalVariables) > 0 {
		var lvt bytes.Buffer
		u2(&lvt, uint16(len(m.LocalVariables)))
		maxLocals := uint16(1)
		for _, v := range m.LocalVariables {
			u2(&lvt, 0)
			u2(&lvt, 1)
			u2(&lvt, p.utf8(v.Name))
			u2(&lvt, p.utf8(v.Descriptor))
			u2(&lvt, v.Index)
			if v.Index+2 > maxLocals {
				maxLocals = v.Index + 2
			}
		}

		var code bytes.Buffer
		u2(&code, 1)
		u2(&code, maxLocals)
		u4(&code, 1)
		code.WriteByte(0xb1) // return
		u2(&code, 0)
		writeAttributes(&code, p, []attribute{{"LocalVariableTable", lvt.Bytes()}})
		attrs = append(attrs, attribute{"Code", code.Bytes()})
	}
	return attrs
}

func annotationsInfo(p *pool, anns []Annotation) []byte {
	var b bytes.Buffer
	u2(&b, uint16(len(anns)))
	for _, a := range anns {
		u2(&b, p.utf8(a.Type))
		u2(&b, uint16(len(a.Elements)))
		for _, e := range a.Elements {
			u2(&b, p.utf8(e.Name))
			writeElementValue(&b, p, e.Value)
		}
	}
	return b.Bytes()
}

func writeElementValue(b *bytes.Buffer, p *pool, v any) {
	switch v := v.(type) {
	case string:
		b.WriteByte('s')
		u2(b, p.utf8(v))
	case int32:
		b.WriteByte('I')
		u2(b, p.integer(v))
	case bool:
		b.WriteByte('Z')
		if v {
			u2(b, p.integer(1))
		} else {
			u2(b, p.integer(0))
		}
	case []string:
		b.WriteByte('[')
		u2(b, uint16(len(v)))
		for _, s := range v {
			writeElementValue(b, p, s)
		}
	default:
		panic("classtest: unsupported element value")
	}
}

type poolKey struct {
	tag   byte
	value string
	num   int32
}

type pool struct {
	entries bytes.Buffer
	next    uint16
	index   map[poolKey]uint16
}

func newPool() *pool {
	return &pool{next: 1, index: make(map[poolKey]uint16)}
}

func (p *pool) add(key poolKey, write func(*bytes.Buffer)) uint16 {
	if i, ok := p.index[key]; ok {
		return i
	}
	i := p.next
	p.next++
	p.entries.WriteByte(key.tag)
	write(&p.entries)
	p.index[key] = i
	return i
}

func (p *pool) utf8(s string) uint16 {
	return p.add(poolKey{tag: 1, value: s}, func(b *bytes.Buffer) {
		u2(b, uint16(len(s)))
		b.WriteString(s)
	})
}

func (p *pool) integer(v int32) uint16 {
	return p.add(poolKey{tag: 3, num: v}, func(b *bytes.Buffer) {
		u4(b, uint32(v))
	})
}

func (p *pool) class(name string) uint16 {
	nameIndex := p.utf8(name)
	return p.add(poolKey{tag: 7, value: name}, func(b *bytes.Buffer) {
		u2(b, nameIndex)
	})
}

func (p *pool) writeTo(w *bytes.Buffer) {
	u2(w, p.next)
	w.Write(p.entries.Bytes())
}

func u2(w *bytes.Buffer, v uint16) { _ = binary.Write(w, binary.BigEndian, v) }
func u4(w *bytes.Buffer, v uint32) { _ = binary.Write(w, binary.BigEndian, v) }

// WriteDir writes each class below root at <Name>.class.
func WriteDir(tb testing.TB, root string, classes ...*Class) {
	tb.Helper()
	for _, c := range classes {
		WriteFile(tb, filepath.Join(root, filepath.FromSlash(c.Name)+".class"), c.Bytes())
	}
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(tb testing.TB, path string, data []byte) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}

// WriteJar writes a jar at path holding each class at <Name>.class.
func WriteJar(tb testing.TB, path string, classes ...*Class) {
	tb.Helper()
	entries := make(map[string][]byte, len(classes))
	for _, c := range classes {
		entries[c.Name+".class"] = c.Bytes()
	}
	WriteZip(tb, path, entries)
}

// WriteZip writes a zip archive with the given entries in name order.
func WriteZip(tb testing.TB, path string, entries map[string][]byte) {
	tb.Helper()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			tb.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("zip close: %v", err)
	}
	WriteFile(tb, path, buf.Bytes())
}
