package classfile

import (
	"bytes"
	"testing"

	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/internal/classtest"
)

func parseClass(t *testing.T, c *classtest.Class) *ClassFile {
	t.Helper()
	cf, err := Parse(bytes.NewReader(c.Bytes()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cf
}

func TestParseClassFile(t *testing.T) {
	cf := parseClass(t, &classtest.Class{
		Name:       "com/example/Person",
		Interfaces: []string{"java/io/Serializable"},
		Signature:  "Ljava/lang/Object;Ljava/io/Serializable;",
		Fields: []classtest.Field{
			{Flags: classtest.Private, Name: "name", Descriptor: "Ljava/lang/String;"},
			{Flags: classtest.Private | classtest.Transient, Name: "cache", Descriptor: "Ljava/lang/Object;"},
			{Flags: classtest.Public | classtest.Static | classtest.Final, Name: "MAX", Descriptor: "I"},
		},
		Methods: []classtest.Method{
			{Flags: classtest.Public, Name: "<init>", Descriptor: "()V"},
			{Flags: classtest.Public, Name: "getName", Descriptor: "()Ljava/lang/String;"},
		},
	})

	t.Run("class name", func(t *testing.T) {
		if got, want := cf.ClassName(), "com/example/Person"; got != want {
			t.Errorf("ClassName() = %q, want %q", got, want)
		}
	})

	t.Run("super class", func(t *testing.T) {
		if got, want := cf.SuperClassName(), "java/lang/Object"; got != want {
			t.Errorf("SuperClassName() = %q, want %q", got, want)
		}
	})

	t.Run("interfaces", func(t *testing.T) {
		interfaces := cf.InterfaceNames()
		if len(interfaces) != 1 || interfaces[0] != "java/io/Serializable" {
			t.Errorf("InterfaceNames() = %v, want [java/io/Serializable]", interfaces)
		}
	})

	t.Run("kind", func(t *testing.T) {
		if cf.IsInterface() || cf.IsEnum() || cf.IsRecord() || cf.IsAnnotation() {
			t.Error("expected a plain class")
		}
		if !cf.AccessFlags.IsPublic() {
			t.Error("expected class to be public")
		}
	})

	t.Run("fields", func(t *testing.T) {
		if len(cf.Fields) != 3 {
			t.Fatalf("expected 3 fields, got %d", len(cf.Fields))
		}
		name := cf.Field("name")
		if name == nil {
			t.Fatal("expected to find field name")
		}
		if name.Descriptor != "Ljava/lang/String;" {
			t.Errorf("name descriptor = %q, want %q", name.Descriptor, "Ljava/lang/String;")
		}
		if !cf.Field("cache").AccessFlags.IsTransient() {
			t.Error("cache should be transient")
		}
		constant := cf.Field("MAX")
		if !constant.AccessFlags.IsStatic() || !constant.AccessFlags.IsFinal() {
			t.Error("MAX should be static final")
		}
	})

	t.Run("methods", func(t *testing.T) {
		ctor := cf.Method("<init>", "")
		if ctor == nil || !ctor.IsConstructor() {
			t.Fatal("expected a constructor")
		}
		if cf.Method("getName", "()Ljava/lang/String;") == nil {
			t.Error("expected to find getName")
		}
		if cf.Method("getName", "()V") != nil {
			t.Error("descriptor should restrict the match")
		}
	})

	t.Run("signature", func(t *testing.T) {
		if got, want := cf.Attributes.Signature, "Ljava/lang/Object;Ljava/io/Serializable;"; got != want {
			t.Errorf("Signature = %q, want %q", got, want)
		}
	})
}

func TestParseAnnotations(t *testing.T) {
	cf := parseClass(t, &classtest.Class{
		Name: "com/example/HelloEndpoint",
		Annotations: []classtest.Annotation{
			{Type: "Ldev/hilla/Endpoint;", Elements: []classtest.Element{{Name: "value", Value: "Hello"}}},
			{Type: "Lcom/example/Internal;", Invisible: true},
		},
		Methods: []classtest.Method{{
			Flags:      classtest.Public,
			Name:       "greet",
			Descriptor: "(Ljava/lang/String;I)Ljava/lang/String;",
			Annotations: []classtest.Annotation{
				{Type: "Ljakarta/annotation/Nonnull;"},
			},
			ParameterAnnotations: [][]classtest.Annotation{
				{{Type: "Ljakarta/annotation/Nonnull;"}},
				nil,
			},
			ParameterNames: []string{"name", "times"},
		}},
	})

	anns := cf.Attributes.Annotations()
	if len(anns) != 2 {
		t.Fatalf("expected 2 class annotations, got %d", len(anns))
	}
	if anns[0].Type != "Ldev/hilla/Endpoint;" {
		t.Errorf("annotation type = %q, want %q", anns[0].Type, "Ldev/hilla/Endpoint;")
	}
	value, ok := anns[0].Element("value")
	if !ok || value.String() != "Hello" {
		t.Errorf("value element = %q, want %q", value.String(), "Hello")
	}
	if len(cf.Attributes.InvisibleAnnotations) != 1 {
		t.Errorf("expected 1 invisible annotation, got %d", len(cf.Attributes.InvisibleAnnotations))
	}

	greet := cf.Method("greet", "")
	if greet == nil {
		t.Fatal("expected to find greet")
	}
	if len(greet.Attributes.VisibleAnnotations) != 1 {
		t.Errorf("expected 1 method annotation, got %d", len(greet.Attributes.VisibleAnnotations))
	}
	if got := greet.Attributes.ParameterAnnotations(0); len(got) != 1 {
		t.Errorf("parameter 0 annotations = %d, want 1", len(got))
	}
	if got := greet.Attributes.ParameterAnnotations(1); len(got) != 0 {
		t.Errorf("parameter 1 annotations = %d, want 0", len(got))
	}
	params := greet.Attributes.MethodParameters
	if len(params) != 2 || params[0].Name != "name" || params[1].Name != "times" {
		t.Errorf("MethodParameters = %+v", params)
	}
}

func TestParseLocalVariableTable(t *testing.T) {
	cf := parseClass(t, &classtest.Class{
		Name: "com/example/Calc",
		Methods: []classtest.Method{{
			Flags:      classtest.Public,
			Name:       "add",
			Descriptor: "(JI)J",
			LocalVariables: []classtest.LocalVariable{
				{Name: "this", Descriptor: "Lcom/example/Calc;", Index: 0},
				{Name: "a", Descriptor: "J", Index: 1},
				{Name: "b", Descriptor: "I", Index: 3},
			},
		}},
	})

	vars := cf.Method("add", "").Attributes.LocalVariables
	if len(vars) != 3 {
		t.Fatalf("expected 3 local variables, got %d", len(vars))
	}
	if vars[2].Name != "b" || vars[2].Index != 3 {
		t.Errorf("vars[2] = %+v, want b at slot 3", vars[2])
	}
}

func TestParseRecordAndEnum(t *testing.T) {
	rec := parseClass(t, &classtest.Class{
		Name:   "com/example/Point",
		Super:  "java/lang/Record",
		Flags:  classtest.Public | classtest.Final | classtest.Super,
		Record: true,
		Components: []classtest.Field{
			{Name: "x", Descriptor: "I"},
			{Name: "tags", Descriptor: "Ljava/util/List;", Signature: "Ljava/util/List<Ljava/lang/String;>;"},
		},
	})
	if !rec.IsRecord() {
		t.Fatal("expected a record")
	}
	comps := rec.Attributes.RecordComponents
	if len(comps) != 2 || comps[1].Attributes.Signature != "Ljava/util/List<Ljava/lang/String;>;" {
		t.Errorf("RecordComponents = %+v", comps)
	}

	enum := parseClass(t, &classtest.Class{
		Name:  "com/example/Color",
		Super: "java/lang/Enum",
		Flags: classtest.Public | classtest.Final | classtest.Super | classtest.Enum,
		Fields: []classtest.Field{
			{Flags: classtest.Public | classtest.Static | classtest.Final | classtest.Enum, Name: "RED", Descriptor: "Lcom/example/Color;"},
		},
	})
	if !enum.IsEnum() || !enum.Fields[0].AccessFlags.IsEnum() {
		t.Error("expected an enum with an enum constant")
	}
}

func TestParseErrors(t *testing.T) {
	valid := (&classtest.Class{Name: "com/example/Foo"}).Bytes()

	badPool := append([]byte{}, valid[:10]...)
	badPool = append(badPool, 99)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 61}},
		{"truncated header", valid[:6]},
		{"truncated body", valid[:len(valid)-3]},
		{"unknown constant tag", badPool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("Parse() expected an error")
			}
			if !errors.Is(err, ErrFormat) {
				t.Errorf("Parse() error = %v, want it marked ErrFormat", err)
			}
		})
	}
}

func TestModifiedUtf8(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("hello"), "hello"},
		{[]byte{0xC0, 0x80}, "\x00"},
		{[]byte{0xC3, 0xA9}, "é"},
		{[]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "\U0001F600"},
	}
	for _, tt := range tests {
		if got := decodeModifiedUtf8(tt.in); got != tt.want {
			t.Errorf("decodeModifiedUtf8(%x) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
