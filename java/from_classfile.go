package java

import (
	"fmt"
	"io"

	"github.com/dhamidi/fusion/classfile"
	"github.com/dhamidi/fusion/errors"
)

func ClassModelFromReader(r io.Reader) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf)
}

// ClassModelFromClassFile builds the model of cf. Generic signatures are
// preferred over descriptors when they describe the same members. Errors
// are malformed descriptors and are marked with classfile.ErrFormat.
func ClassModelFromClassFile(cf *classfile.ClassFile) (*ClassModel, error) {
	internal := cf.ClassName()

	model := &ClassModel{
		Name:         classfile.InternalToSourceName(internal),
		InternalName: internal,
		SimpleName:   classfile.SimpleName(internal),
		Package:      classfile.InternalToSourceName(classfile.PackageName(internal)),
		MajorVersion: cf.MajorVersion,
		Visibility:   visibilityFromAccessFlags(cf.AccessFlags),
		Kind:         classKindFromClassFile(cf),
		IsFinal:      cf.AccessFlags.IsFinal(),
		IsAbstract:   cf.AccessFlags.IsAbstract(),
		IsSynthetic:  cf.AccessFlags.IsSynthetic(),
		IsDeprecated: cf.Attributes.Deprecated,
		Signature:    cf.Attributes.Signature,
		SourceFile:   cf.Attributes.SourceFile,
		Annotations:  annotationsFromClassfile(cf.Attributes.Annotations()),
	}

	if cf.SuperClass != 0 {
		model.SuperClass = classfile.InternalToSourceName(cf.SuperClassName())
	}
	for _, iface := range cf.InterfaceNames() {
		model.Interfaces = append(model.Interfaces, classfile.InternalToSourceName(iface))
	}

	if model.Signature != "" {
		if sig, err := classfile.ParseClassSignature(model.Signature); err == nil {
			model.TypeParameters = typeParametersFromSignature(sig.TypeParameters)
		}
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.AccessFlags.IsSynthetic() {
			continue
		}
		field, err := fieldModelFromMember(f)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		model.Fields = append(model.Fields, field)
		if field.IsEnum {
			model.EnumConstants = append(model.EnumConstants, EnumConstantModel{Name: field.Name})
		}
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.AccessFlags.IsSynthetic() || m.AccessFlags.IsBridge() || m.IsStaticInitializer() {
			continue
		}
		method, err := methodModelFromMember(m)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s", m.Name)
		}
		model.Methods = append(model.Methods, method)
	}

	for _, c := range cf.Attributes.RecordComponents {
		typ, err := memberType(c.Descriptor, c.Attributes.Signature)
		if err != nil {
			return nil, errors.Wrapf(err, "record component %s", c.Name)
		}
		model.RecordComponents = append(model.RecordComponents, RecordComponentModel{
			Name:        c.Name,
			Type:        typ,
			Annotations: annotationsFromClassfile(c.Attributes.Annotations()),
		})
	}

	return model, nil
}

func visibilityFromAccessFlags(flags classfile.AccessFlags) Visibility {
	if flags.IsPublic() {
		return VisibilityPublic
	}
	if flags.IsProtected() {
		return VisibilityProtected
	}
	if flags.IsPrivate() {
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func classKindFromClassFile(cf *classfile.ClassFile) ClassKind {
	switch {
	case cf.IsModule():
		return ClassKindModule
	case cf.IsAnnotation():
		return ClassKindAnnotation
	case cf.IsEnum():
		return ClassKindEnum
	case cf.IsInterface():
		return ClassKindInterface
	case cf.IsRecord():
		return ClassKindRecord
	}
	return ClassKindClass
}

func fieldModelFromMember(f *classfile.Member) (FieldModel, error) {
	typ, err := memberType(f.Descriptor, f.Attributes.Signature)
	if err != nil {
		return FieldModel{}, err
	}
	return FieldModel{
		Name:         f.Name,
		Type:         typ,
		Visibility:   visibilityFromAccessFlags(f.AccessFlags),
		IsStatic:     f.AccessFlags.IsStatic(),
		IsFinal:      f.AccessFlags.IsFinal(),
		IsTransient:  f.AccessFlags.IsTransient(),
		IsSynthetic:  f.AccessFlags.IsSynthetic(),
		IsEnum:       f.AccessFlags.IsEnum(),
		IsDeprecated: f.Attributes.Deprecated,
		Signature:    f.Attributes.Signature,
		Annotations:  annotationsFromClassfile(f.Attributes.Annotations()),
	}, nil
}

// memberType decodes the type of a field or record component, using the
// generic signature when it parses.
func memberType(descriptor, signature string) (TypeModel, error) {
	if signature != "" {
		if sig, err := classfile.ParseFieldSignature(signature); err == nil {
			return typeModelFromSignature(sig), nil
		}
	}
	sig, err := classfile.ParseFieldDescriptor(descriptor)
	if err != nil {
		return TypeModel{}, err
	}
	return typeModelFromSignature(sig), nil
}

func methodModelFromMember(m *classfile.Member) (MethodModel, error) {
	desc, err := classfile.ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		return MethodModel{}, err
	}

	model := MethodModel{
		Name:          m.Name,
		Visibility:    visibilityFromAccessFlags(m.AccessFlags),
		IsStatic:      m.AccessFlags.IsStatic(),
		IsFinal:       m.AccessFlags.IsFinal(),
		IsAbstract:    m.AccessFlags.IsAbstract(),
		IsBridge:      m.AccessFlags.IsBridge(),
		IsVarargs:     m.AccessFlags.IsVarargs(),
		IsSynthetic:   m.AccessFlags.IsSynthetic(),
		IsConstructor: m.IsConstructor(),
		IsDeprecated:  m.Attributes.Deprecated,
		Signature:     m.Attributes.Signature,
		Annotations:   annotationsFromClassfile(m.Attributes.Annotations()),
		Exceptions:    make([]string, 0, len(m.Attributes.Exceptions)),
	}
	for _, e := range m.Attributes.Exceptions {
		model.Exceptions = append(model.Exceptions, classfile.InternalToSourceName(e))
	}

	// Signatures omit synthetic parameters such as an inner class's outer
	// instance, so they are only used when the arity matches.
	params, result := desc.Parameters, desc.Result
	if m.Attributes.Signature != "" {
		if sig, err := classfile.ParseMethodSignature(m.Attributes.Signature); err == nil && len(sig.Parameters) == len(params) {
			params, result = sig.Parameters, sig.Result
			model.TypeParameters = typeParametersFromSignature(sig.TypeParameters)
		}
	}

	model.ReturnType = typeModelFromSignature(result)
	names := parameterNames(m, desc.Parameters)
	for i, p := range params {
		model.Parameters = append(model.Parameters, ParameterModel{
			Name:        names[i],
			Type:        typeModelFromSignature(p),
			Annotations: annotationsFromClassfile(m.Attributes.ParameterAnnotations(i)),
		})
	}
	return model, nil
}

// parameterNames recovers source parameter names from MethodParameters,
// then from the LocalVariableTable, and falls back to arg0, arg1, ...
func parameterNames(m *classfile.Member, params []*classfile.TypeSignature) []string {
	names := make([]string, len(params))

	if mp := m.Attributes.MethodParameters; len(mp) == len(params) {
		complete := true
		for i, p := range mp {
			names[i] = p.Name
			complete = complete && p.Name != ""
		}
		if complete {
			return names
		}
	}

	slots := make(map[uint16]string, len(m.Attributes.LocalVariables))
	for _, v := range m.Attributes.LocalVariables {
		if v.StartPC == 0 {
			slots[v.Index] = v.Name
		}
	}

	slot := uint16(0)
	if !m.AccessFlags.IsStatic() {
		slot = 1
	}
	for i, p := range params {
		if name := slots[slot]; name != "" {
			names[i] = name
		} else if names[i] == "" {
			names[i] = fmt.Sprintf("arg%d", i)
		}
		slot += uint16(p.SlotSize())
	}
	return names
}

func typeModelFromSignature(sig *classfile.TypeSignature) TypeModel {
	var model TypeModel
	for sig.Kind == classfile.ArrayKind {
		model.ArrayDepth++
		sig = sig.Elem
	}

	switch sig.Kind {
	case classfile.BaseKind:
		model.Name = sig.BaseType
	case classfile.VoidKind:
		model.Name = "void"
	case classfile.TypeVariableKind:
		model.Name = sig.Name
		model.IsTypeVariable = true
	case classfile.ClassKind:
		model.Name = classfile.InternalToSourceName(sig.ClassName)
		for _, arg := range sig.TypeArguments {
			model.TypeArguments = append(model.TypeArguments, typeArgumentFromSignature(arg))
		}
	}
	return model
}

func typeArgumentFromSignature(arg classfile.TypeArgument) TypeArgumentModel {
	switch arg.Wildcard {
	case '*':
		return TypeArgumentModel{IsWildcard: true}
	case '+', '-':
		bound := typeModelFromSignature(arg.Type)
		kind := "extends"
		if arg.Wildcard == '-' {
			kind = "super"
		}
		return TypeArgumentModel{IsWildcard: true, BoundKind: kind, Bound: &bound}
	}
	t := typeModelFromSignature(arg.Type)
	return TypeArgumentModel{Type: &t}
}

func typeParametersFromSignature(params []classfile.TypeParameter) []TypeParameterModel {
	var out []TypeParameterModel
	for _, p := range params {
		tp := TypeParameterModel{Name: p.Name}
		for _, b := range p.Bounds {
			tp.Bounds = append(tp.Bounds, typeModelFromSignature(b))
		}
		out = append(out, tp)
	}
	return out
}
