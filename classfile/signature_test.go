package classfile

import "testing"

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"I", "int"},
		{"J", "long"},
		{"Z", "boolean"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[I", "int[]"},
		{"[[Ljava/lang/Object;", "java.lang.Object[][]"},
		{"Lcom/example/Outer$Inner;", "com.example.Outer$Inner"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft, err := ParseFieldDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseFieldDescriptor(%q) error = %v", tt.desc, err)
			}
			if got := ft.String(); got != tt.want {
				t.Errorf("ParseFieldDescriptor(%q) = %q, want %q", tt.desc, got, tt.want)
			}
		})
	}
}

func TestParseFieldDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "X", "Ljava/lang/String", "II", "Ljava/util/List<Ljava/lang/String;>;", "TT;"} {
		if _, err := ParseFieldDescriptor(desc); err == nil {
			t.Errorf("ParseFieldDescriptor(%q) expected an error", desc)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	md, err := ParseMethodDescriptor("(IJLjava/lang/String;[D)V")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor() error = %v", err)
	}
	if len(md.Parameters) != 4 {
		t.Fatalf("expected 4 parameters, got %d", len(md.Parameters))
	}
	want := []string{"int", "long", "java.lang.String", "double[]"}
	for i, p := range md.Parameters {
		if p.String() != want[i] {
			t.Errorf("parameter %d = %q, want %q", i, p.String(), want[i])
		}
	}
	if md.Result.Kind != VoidKind {
		t.Errorf("Result = %q, want void", md.Result.String())
	}
	if md.Parameters[1].SlotSize() != 2 || md.Parameters[0].SlotSize() != 1 {
		t.Error("long should take two slots, int one")
	}
}

func TestParseFieldSignature(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"Ljava/util/List<Ljava/lang/String;>;", "java.util.List<java.lang.String>"},
		{"Ljava/util/Map<Ljava/lang/String;Ljava/util/List<Ljava/lang/Integer;>;>;", "java.util.Map<java.lang.String, java.util.List<java.lang.Integer>>"},
		{"Ljava/util/List<+Ljava/lang/Number;>;", "java.util.List<? extends java.lang.Number>"},
		{"Ljava/util/List<-Ljava/lang/Integer;>;", "java.util.List<? super java.lang.Integer>"},
		{"Ljava/util/List<*>;", "java.util.List<?>"},
		{"TT;", "T"},
		{"[TT;", "T[]"},
		{"Lcom/example/Outer<TT;>.Inner<Ljava/lang/String;>;", "com.example.Outer$Inner<java.lang.String>"},
	}

	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			sig, err := ParseFieldSignature(tt.sig)
			if err != nil {
				t.Fatalf("ParseFieldSignature(%q) error = %v", tt.sig, err)
			}
			if got := sig.String(); got != tt.want {
				t.Errorf("ParseFieldSignature(%q) = %q, want %q", tt.sig, got, tt.want)
			}
		})
	}
}

func TestParseMethodSignature(t *testing.T) {
	ms, err := ParseMethodSignature("<T:Ljava/lang/Object;>(Ljava/util/List<TT;>;I)Ljava/util/Optional<TT;>;^Ljava/io/IOException;")
	if err != nil {
		t.Fatalf("ParseMethodSignature() error = %v", err)
	}
	if len(ms.TypeParameters) != 1 || ms.TypeParameters[0].Name != "T" {
		t.Errorf("TypeParameters = %+v", ms.TypeParameters)
	}
	if got := ms.Parameters[0].String(); got != "java.util.List<T>" {
		t.Errorf("parameter 0 = %q", got)
	}
	if got := ms.Result.String(); got != "java.util.Optional<T>" {
		t.Errorf("Result = %q", got)
	}
	if len(ms.Throws) != 1 || ms.Throws[0].ClassName != "java/io/IOException" {
		t.Errorf("Throws = %+v", ms.Throws)
	}
}

func TestParseClassSignature(t *testing.T) {
	cs, err := ParseClassSignature("<K::Ljava/lang/Comparable<TK;>;V:Ljava/lang/Object;>Ljava/util/AbstractMap<TK;TV;>;Ljava/io/Serializable;")
	if err != nil {
		t.Fatalf("ParseClassSignature() error = %v", err)
	}
	if len(cs.TypeParameters) != 2 {
		t.Fatalf("expected 2 type parameters, got %d", len(cs.TypeParameters))
	}
	if got := cs.TypeParameters[0].Bounds[0].String(); got != "java.lang.Comparable<K>" {
		t.Errorf("K bound = %q", got)
	}
	if got := cs.SuperClass.String(); got != "java.util.AbstractMap<K, V>" {
		t.Errorf("SuperClass = %q", got)
	}
	if len(cs.Interfaces) != 1 {
		t.Errorf("expected 1 interface, got %d", len(cs.Interfaces))
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		name, simple, pkg string
	}{
		{"com/example/Foo", "Foo", "com/example"},
		{"com.example.Foo", "Foo", "com/example"},
		{"com/example/Outer$Inner", "Inner", "com/example"},
		{"Foo", "Foo", ""},
	}
	for _, tt := range tests {
		if got := SimpleName(tt.name); got != tt.simple {
			t.Errorf("SimpleName(%q) = %q, want %q", tt.name, got, tt.simple)
		}
		if got := PackageName(tt.name); got != tt.pkg {
			t.Errorf("PackageName(%q) = %q, want %q", tt.name, got, tt.pkg)
		}
	}
}
