package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Magic is the first four bytes of every class file.
const Magic uint32 = 0xCAFEBABE

var (
	ErrInvalidMagic    = errors.New("invalid magic number: expected 0xCAFEBABE")
	ErrUnexpectedEOF   = errors.New("unexpected end of class file")
	ErrUnknownConstant = errors.New("unknown constant pool tag")
	ErrBadIndex        = errors.New("constant pool index out of range")
	ErrTrailingData    = errors.New("trailing data after class file")
)

// reader walks a class file byte slice.
type reader struct {
	data   []byte
	offset int
}

func (r *reader) need(n int, what string) error {
	if r.offset+n > len(r.data) {
		return fmt.Errorf("%w reading %s at offset %d", ErrUnexpectedEOF, what, r.offset)
	}
	return nil
}

func (r *reader) u1(what string) (uint8, error) {
	if err := r.need(1, what); err != nil {
		return 0, err
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

func (r *reader) u2(what string) (uint16, error) {
	if err := r.need(2, what); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.offset:])
	r.offset += 2
	return v, nil
}

func (r *reader) u4(what string) (uint32, error) {
	if err := r.need(4, what); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

func (r *reader) bytes(n int, what string) ([]byte, error) {
	if err := r.need(n, what); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.data[r.offset:r.offset+n])
	r.offset += n
	return b, nil
}

// ParseFile reads and decodes a class file from disk.
func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	cf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cf, nil
}

// Parse decodes a class file. It checks the structure of the file but not
// the meaning of the references inside it.
func Parse(data []byte) (*ClassFile, error) {
	r := &reader{data: data}

	magic, err := r.u4("magic")
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: got 0x%08X", ErrInvalidMagic, magic)
	}

	cf := &ClassFile{}
	if cf.MinorVersion, err = r.u2("minor version"); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.u2("major version"); err != nil {
		return nil, err
	}

	if cf.Constants, err = r.constantPool(); err != nil {
		return nil, err
	}

	if cf.AccessFlags, err = r.u2("access flags"); err != nil {
		return nil, err
	}
	if cf.ThisClass, err = r.u2("this_class"); err != nil {
		return nil, err
	}
	if cf.SuperClass, err = r.u2("super_class"); err != nil {
		return nil, err
	}

	ifaceCount, err := r.u2("interface count")
	if err != nil {
		return nil, err
	}
	cf.Interfaces = make([]uint16, ifaceCount)
	for i := range cf.Interfaces {
		if cf.Interfaces[i], err = r.u2("interface index"); err != nil {
			return nil, err
		}
	}

	fieldCount, err := r.u2("field count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(fieldCount); i++ {
		f, err := r.field(cf)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		cf.Fields = append(cf.Fields, f)
	}

	methodCount, err := r.u2("method count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(methodCount); i++ {
		m, err := r.method(cf)
		if err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
		cf.Methods = append(cf.Methods, m)
	}

	// Class attributes (SourceFile, InnerClasses, ...) are skipped.
	if err := r.skipAttributes(); err != nil {
		return nil, err
	}

	if r.offset != len(r.data) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(r.data)-r.offset)
	}
	return cf, nil
}

func (r *reader) constantPool() ([]Constant, error) {
	count, err := r.u2("constant pool count")
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: constant pool count is 0", ErrBadIndex)
	}

	pool := make([]Constant, count)
	for i := 1; i < int(count); i++ {
		k, err := r.constant()
		if err != nil {
			return nil, fmt.Errorf("constant #%d: %w", i, err)
		}
		pool[i] = k
		if k.Tag.wide() {
			// The slot after a long or double is unusable.
			i++
			if i >= int(count) {
				return nil, fmt.Errorf("constant #%d: %w: %s entry in last slot", i-1, ErrBadIndex, k.Tag)
			}
		}
	}
	return pool, nil
}

func (r *reader) constant() (Constant, error) {
	tag, err := r.u1("constant tag")
	if err != nil {
		return Constant{}, err
	}
	k := Constant{Tag: ConstantTag(tag)}

	switch k.Tag {
	case ConstantUtf8:
		n, err := r.u2("utf8 length")
		if err != nil {
			return k, err
		}
		b, err := r.bytes(int(n), "utf8 bytes")
		if err != nil {
			return k, err
		}
		k.Utf8 = string(b)

	case ConstantInteger, ConstantFloat:
		v, err := r.u4("integer value")
		if err != nil {
			return k, err
		}
		if k.Tag == ConstantInteger {
			k.Int = int64(int32(v))
		} else {
			k.Int = int64(v)
		}

	case ConstantLong, ConstantDouble:
		hi, err := r.u4("long high bytes")
		if err != nil {
			return k, err
		}
		lo, err := r.u4("long low bytes")
		if err != nil {
			return k, err
		}
		k.Int = int64(uint64(hi)<<32 | uint64(lo))

	case ConstantClass, ConstantString, ConstantModule, ConstantPackage:
		if k.NameIndex, err = r.u2("name index"); err != nil {
			return k, err
		}

	case ConstantFieldRef, ConstantMethodRef, ConstantInterfaceMethodRef:
		if k.ClassIndex, err = r.u2("class index"); err != nil {
			return k, err
		}
		if k.NameAndTypeIndex, err = r.u2("name and type index"); err != nil {
			return k, err
		}

	case ConstantNameAndType:
		if k.NameIndex, err = r.u2("name index"); err != nil {
			return k, err
		}
		if k.DescriptorIndex, err = r.u2("descriptor index"); err != nil {
			return k, err
		}

	case ConstantMethodHandle:
		if k.ReferenceKind, err = r.u1("reference kind"); err != nil {
			return k, err
		}
		if k.ReferenceIndex, err = r.u2("reference index"); err != nil {
			return k, err
		}

	case ConstantMethodType:
		if k.DescriptorIndex, err = r.u2("descriptor index"); err != nil {
			return k, err
		}

	case ConstantDynamic, ConstantInvokeDynamic:
		if k.BootstrapMethodIndex, err = r.u2("bootstrap method index"); err != nil {
			return k, err
		}
		if k.NameAndTypeIndex, err = r.u2("name and type index"); err != nil {
			return k, err
		}

	default:
		return k, fmt.Errorf("%w %d at offset %d", ErrUnknownConstant, tag, r.offset-1)
	}
	return k, nil
}

// utf8 resolves a name or descriptor index while decoding members.
func (r *reader) utf8(cf *ClassFile, index uint16, what string) (string, error) {
	s, ok := cf.Utf8(index)
	if !ok {
		return "", fmt.Errorf("%w: %s #%d is not a Utf8 entry", ErrBadIndex, what, index)
	}
	return s, nil
}

func (r *reader) memberHeader(cf *ClassFile) (flags uint16, name, desc string, err error) {
	if flags, err = r.u2("access flags"); err != nil {
		return
	}
	nameIdx, err := r.u2("name index")
	if err != nil {
		return
	}
	descIdx, err := r.u2("descriptor index")
	if err != nil {
		return
	}
	if name, err = r.utf8(cf, nameIdx, "name"); err != nil {
		return
	}
	desc, err = r.utf8(cf, descIdx, "descriptor")
	return
}

func (r *reader) field(cf *ClassFile) (*Field, error) {
	flags, name, desc, err := r.memberHeader(cf)
	if err != nil {
		return nil, err
	}
	if err := r.skipAttributes(); err != nil {
		return nil, err
	}
	return &Field{AccessFlags: flags, Name: name, Descriptor: desc}, nil
}

func (r *reader) method(cf *ClassFile) (*Method, error) {
	flags, name, desc, err := r.memberHeader(cf)
	if err != nil {
		return nil, err
	}
	m := &Method{AccessFlags: flags, Name: name, Descriptor: desc}

	attrCount, err := r.u2("attribute count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		nameIdx, err := r.u2("attribute name")
		if err != nil {
			return nil, err
		}
		length, err := r.u4("attribute length")
		if err != nil {
			return nil, err
		}
		body, err := r.bytes(int(length), "attribute body")
		if err != nil {
			return nil, err
		}
		if attrName, _ := cf.Utf8(nameIdx); attrName == "Code" {
			if m.Code, err = parseCode(body); err != nil {
				return nil, fmt.Errorf("%s%s: %w", name, desc, err)
			}
		}
	}
	return m, nil
}

func (r *reader) skipAttributes() error {
	count, err := r.u2("attribute count")
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := r.u2("attribute name"); err != nil {
			return err
		}
		length, err := r.u4("attribute length")
		if err != nil {
			return err
		}
		if err := r.need(int(length), "attribute body"); err != nil {
			return err
		}
		r.offset += int(length)
	}
	return nil
}

// parseCode decodes a Code attribute body. The exception table and nested
// attributes are skipped.
func parseCode(body []byte) (*Code, error) {
	r := &reader{data: body}
	c := &Code{}
	var err error
	if c.MaxStack, err = r.u2("max_stack"); err != nil {
		return nil, err
	}
	if c.MaxLocals, err = r.u2("max_locals"); err != nil {
		return nil, err
	}
	codeLen, err := r.u4("code length")
	if err != nil {
		return nil, err
	}
	if c.Bytecode, err = r.bytes(int(codeLen), "code"); err != nil {
		return nil, err
	}
	handlers, err := r.u2("exception table length")
	if err != nil {
		return nil, err
	}
	if err := r.need(int(handlers)*8, "exception table"); err != nil {
		return nil, err
	}
	r.offset += int(handlers) * 8
	if err := r.skipAttributes(); err != nil {
		return nil, err
	}
	return c, nil
}
