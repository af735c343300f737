package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dhamidi/fusion/errors"
)

// reader decodes big-endian values. The first failure sticks: later reads
// return zero values and err keeps the original cause.
type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) skip(n int64) {
	if r.err != nil {
		return
	}
	var copied int64
	copied, r.err = io.CopyN(io.Discard, r.r, n)
	if r.err == nil && copied < n {
		r.err = io.ErrUnexpectedEOF
	}
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}

func formatErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrFormat)
}

func formatError(err error, context string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = errors.New("unexpected end of data")
	}
	return errors.Mark(errors.Wrap(err, context), ErrFormat)
}

func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read class file")
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a class file. Every error it returns is marked with
// ErrFormat, including truncation of the input.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, formatError(r.err, "read magic")
	}
	if magic != Magic {
		return nil, formatErrorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}

	count := r.readU2()
	if r.err != nil {
		return nil, formatError(r.err, "read version")
	}
	if count == 0 {
		return nil, formatErrorf("constant pool count is zero")
	}

	cf.ConstantPool = make(ConstantPool, count)
	for i := uint16(1); i < count; i++ {
		c := readConstant(r)
		if r.err != nil {
			return nil, formatError(r.err, fmt.Sprintf("read constant pool entry %d", i))
		}
		cf.ConstantPool[i] = c
		if c.Tag.Wide() {
			i++
		}
	}
	if err := cf.ConstantPool.check(); err != nil {
		return nil, err
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()
	interfacesCount := r.readU2()
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, formatError(r.err, "read class info")
	}
	if _, ok := cf.ConstantPool.ClassName(cf.ThisClass); !ok {
		return nil, formatErrorf("this_class index %d is not a class entry", cf.ThisClass)
	}
	if _, ok := cf.ConstantPool.ClassName(cf.SuperClass); cf.SuperClass != 0 && !ok {
		return nil, formatErrorf("super_class index %d is not a class entry", cf.SuperClass)
	}
	for _, idx := range cf.Interfaces {
		if _, ok := cf.ConstantPool.ClassName(idx); !ok {
			return nil, formatErrorf("interface index %d is not a class entry", idx)
		}
	}

	var err error
	if cf.Fields, err = readMembers(r, cf.ConstantPool, "field"); err != nil {
		return nil, err
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool, "method"); err != nil {
		return nil, err
	}

	cf.Attributes = readAttributes(r, cf.ConstantPool)
	if r.err != nil {
		return nil, formatError(r.err, "read class attributes")
	}

	return cf, nil
}

func readConstant(r *reader) Constant {
	c := Constant{Tag: ConstantTag(r.readU1())}
	if r.err != nil {
		return c
	}

	switch c.Tag {
	case ConstantUtf8:
		length := r.readU2()
		c.Value = decodeModifiedUtf8(r.readBytes(int(length)))
	case ConstantInteger:
		c.Value = int32(r.readU4())
	case ConstantFloat:
		c.Value = math.Float32frombits(r.readU4())
	case ConstantLong:
		high := r.readU4()
		low := r.readU4()
		c.Value = int64(uint64(high)<<32 | uint64(low))
	case ConstantDouble:
		high := r.readU4()
		low := r.readU4()
		c.Value = math.Float64frombits(uint64(high)<<32 | uint64(low))
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		c.Ref1 = r.readU2()
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		c.Ref1 = r.readU2()
		c.Ref2 = r.readU2()
	case ConstantMethodHandle:
		c.Kind = r.readU1()
		c.Ref1 = r.readU2()
	default:
		r.fail("unknown constant pool tag: %d", c.Tag)
	}
	return c
}

func readMembers(r *reader, cp ConstantPool, what string) ([]Member, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, formatError(r.err, "read "+what+" count")
	}

	members := make([]Member, count)
	for i := range members {
		m := &members[i]
		m.AccessFlags = AccessFlags(r.readU2())
		nameIndex := r.readU2()
		descriptorIndex := r.readU2()
		if r.err != nil {
			return nil, formatError(r.err, fmt.Sprintf("read %s %d", what, i))
		}

		var ok bool
		if m.Name, ok = cp.Utf8(nameIndex); !ok {
			return nil, formatErrorf("%s %d: name index %d is not a Utf8 entry", what, i, nameIndex)
		}
		if m.Descriptor, ok = cp.Utf8(descriptorIndex); !ok {
			return nil, formatErrorf("%s %s: descriptor index %d is not a Utf8 entry", what, m.Name, descriptorIndex)
		}

		m.Attributes = readAttributes(r, cp)
		if r.err != nil {
			return nil, formatError(r.err, fmt.Sprintf("read attributes of %s %s", what, m.Name))
		}
	}
	return members, nil
}

func decodeModifiedUtf8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
			// Supplementary characters are stored as two encoded surrogates.
			if r >= 0xD800 && r <= 0xDBFF && i+2 < len(b) && b[i] == 0xED {
				low := rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					r = 0x10000 + (r-0xD800)<<10 + (low - 0xDC00)
					i += 3
				}
			}
			runes = append(runes, r)
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
