package classfile

// Constant is one constant pool entry. Which fields are meaningful depends
// on Tag:
//
//	Utf8                     Value is the decoded string
//	Integer Float Long Double Value is int32, float32, int64 or float64
//	Class String MethodType  Ref1 indexes a Utf8 entry
//	Module Package           Ref1 indexes a Utf8 entry
//	NameAndType              Ref1 is the name, Ref2 the descriptor
//	*ref                     Ref1 is the class, Ref2 the NameAndType
//	MethodHandle             Kind is the reference kind, Ref1 the member
//	Dynamic InvokeDynamic    Ref1 is the bootstrap method, Ref2 the NameAndType
type Constant struct {
	Tag   ConstantTag
	Value any
	Ref1  uint16
	Ref2  uint16
	Kind  uint8
}

// ConstantPool is indexed the way the class file indexes it: entry 0 and
// the second slot of wide constants are zero Constants.
type ConstantPool []Constant

// At returns the entry at index, or false when index does not name one.
func (cp ConstantPool) At(index uint16) (Constant, bool) {
	if index == 0 || int(index) >= len(cp) || cp[index].Tag == 0 {
		return Constant{}, false
	}
	return cp[index], true
}

func (cp ConstantPool) Utf8(index uint16) (string, bool) {
	c, ok := cp.At(index)
	if !ok || c.Tag != ConstantUtf8 {
		return "", false
	}
	return c.Value.(string), true
}

// ClassName returns the internal name referenced by the Class entry at index.
func (cp ConstantPool) ClassName(index uint16) (string, bool) {
	c, ok := cp.At(index)
	if !ok || c.Tag != ConstantClass {
		return "", false
	}
	return cp.Utf8(c.Ref1)
}

// Literal returns the value of a loadable numeric or string constant.
func (cp ConstantPool) Literal(index uint16) (any, bool) {
	c, ok := cp.At(index)
	if !ok {
		return nil, false
	}
	switch c.Tag {
	case ConstantInteger, ConstantFloat, ConstantLong, ConstantDouble, ConstantUtf8:
		return c.Value, true
	case ConstantString:
		return cp.Utf8(c.Ref1)
	}
	return nil, false
}

// check verifies that every cross reference in the pool points at an entry
// of the right kind.
func (cp ConstantPool) check() error {
	for i := 1; i < len(cp); i++ {
		c := cp[i]
		var ok bool
		switch c.Tag {
		case 0, ConstantUtf8, ConstantInteger, ConstantFloat, ConstantLong, ConstantDouble, ConstantMethodHandle:
			ok = true
		case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
			_, ok = cp.Utf8(c.Ref1)
		case ConstantNameAndType:
			_, ok1 := cp.Utf8(c.Ref1)
			_, ok2 := cp.Utf8(c.Ref2)
			ok = ok1 && ok2
		case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref:
			_, ok1 := cp.ClassName(c.Ref1)
			nt, ok2 := cp.At(c.Ref2)
			ok = ok1 && ok2 && nt.Tag == ConstantNameAndType
		case ConstantDynamic, ConstantInvokeDynamic:
			nt, found := cp.At(c.Ref2)
			ok = found && nt.Tag == ConstantNameAndType
		}
		if !ok {
			return formatErrorf("constant pool entry %d (tag %d) has an invalid reference", i, c.Tag)
		}
	}
	return nil
}
