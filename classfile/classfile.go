// Package classfile decodes JVM class files into the subset of structure
// needed to describe a class's API: names, flags, members, generic
// signatures, annotations and parameter names.
package classfile

import "github.com/dhamidi/fusion/errors"

// ErrFormat marks every error returned by Parse. Callers classify parse
// failures with errors.Is(err, ErrFormat).
var ErrFormat = errors.New("malformed class file")

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   Attributes
}

// Member is a field or a method with its names resolved.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Attributes  Attributes
}

func (m *Member) IsConstructor() bool       { return m.Name == "<init>" }
func (m *Member) IsStaticInitializer() bool { return m.Name == "<clinit>" }

// ClassName returns the internal name of the class, e.g. com/example/Foo.
func (cf *ClassFile) ClassName() string {
	name, _ := cf.ConstantPool.ClassName(cf.ThisClass)
	return name
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	name, _ := cf.ConstantPool.ClassName(cf.SuperClass)
	return name
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i], _ = cf.ConstantPool.ClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.AccessFlags.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.AccessFlags.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.AccessFlags.IsModule() }

// IsRecord reports whether the class is a record: it extends java.lang.Record
// and carries a Record attribute.
func (cf *ClassFile) IsRecord() bool {
	return cf.SuperClassName() == "java/lang/Record" && cf.Attributes.Record
}

func (cf *ClassFile) Field(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// Method returns the first method called name. An empty descriptor matches
// any overload.
func (cf *ClassFile) Method(name, descriptor string) *Member {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name == name && (descriptor == "" || m.Descriptor == descriptor) {
			return m
		}
	}
	return nil
}
