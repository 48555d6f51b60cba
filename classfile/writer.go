package classfile

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes the class back into class file format. Methods with code
// get a single Code attribute with an empty exception table; the "Code"
// Utf8 entry is added to the pool if it is missing.
func (c *ClassFile) Encode() ([]byte, error) {
	pool := c.Constants
	codeName := uint16(0)
	for i, k := range pool {
		if k.Tag == ConstantUtf8 && k.Utf8 == "Code" {
			codeName = uint16(i)
			break
		}
	}

	// Names and descriptors are stored as strings on members, so they need
	// pool entries of their own when encoding.
	index := make(map[string]uint16)
	for i, k := range pool {
		if k.Tag == ConstantUtf8 {
			if _, seen := index[k.Utf8]; !seen {
				index[k.Utf8] = uint16(i)
			}
		}
	}
	if len(pool) == 0 {
		pool = append(pool, Constant{})
	}
	utf8 := func(s string) uint16 {
		if idx, ok := index[s]; ok {
			return idx
		}
		idx := uint16(len(pool))
		pool = append(pool, Constant{Tag: ConstantUtf8, Utf8: s})
		index[s] = idx
		return idx
	}
	for _, m := range c.Methods {
		utf8(m.Name)
		utf8(m.Descriptor)
		if m.Code != nil && codeName == 0 {
			codeName = utf8("Code")
		}
	}
	for _, f := range c.Fields {
		utf8(f.Name)
		utf8(f.Descriptor)
	}
	if len(pool) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d constants", ErrBadIndex, len(pool))
	}

	buf := make([]byte, 0, 256)
	buf = binary.BigEndian.AppendUint32(buf, Magic)
	buf = binary.BigEndian.AppendUint16(buf, c.MinorVersion)
	buf = binary.BigEndian.AppendUint16(buf, c.MajorVersion)

	buf = binary.BigEndian.AppendUint16(buf, uint16(len(pool)))
	for i := 1; i < len(pool); i++ {
		k := pool[i]
		var err error
		if buf, err = appendConstant(buf, k); err != nil {
			return nil, fmt.Errorf("constant #%d: %w", i, err)
		}
		if k.Tag.wide() {
			i++
		}
	}

	buf = binary.BigEndian.AppendUint16(buf, c.AccessFlags)
	buf = binary.BigEndian.AppendUint16(buf, c.ThisClass)
	buf = binary.BigEndian.AppendUint16(buf, c.SuperClass)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Interfaces)))
	for _, iface := range c.Interfaces {
		buf = binary.BigEndian.AppendUint16(buf, iface)
	}

	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Fields)))
	for _, f := range c.Fields {
		buf = binary.BigEndian.AppendUint16(buf, f.AccessFlags)
		buf = binary.BigEndian.AppendUint16(buf, index[f.Name])
		buf = binary.BigEndian.AppendUint16(buf, index[f.Descriptor])
		buf = binary.BigEndian.AppendUint16(buf, 0)
	}

	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Methods)))
	for _, m := range c.Methods {
		buf = binary.BigEndian.AppendUint16(buf, m.AccessFlags)
		buf = binary.BigEndian.AppendUint16(buf, index[m.Name])
		buf = binary.BigEndian.AppendUint16(buf, index[m.Descriptor])
		if m.Code == nil {
			buf = binary.BigEndian.AppendUint16(buf, 0)
			continue
		}
		buf = binary.BigEndian.AppendUint16(buf, 1)
		buf = binary.BigEndian.AppendUint16(buf, codeName)
		// max_stack, max_locals, code_length, code, exception table, attributes
		buf = binary.BigEndian.AppendUint32(buf, uint32(2+2+4+len(m.Code.Bytecode)+2+2))
		buf = binary.BigEndian.AppendUint16(buf, m.Code.MaxStack)
		buf = binary.BigEndian.AppendUint16(buf, m.Code.MaxLocals)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(m.Code.Bytecode)))
		buf = append(buf, m.Code.Bytecode...)
		buf = binary.BigEndian.AppendUint16(buf, 0)
		buf = binary.BigEndian.AppendUint16(buf, 0)
	}

	// No class attributes.
	buf = binary.BigEndian.AppendUint16(buf, 0)
	return buf, nil
}

func appendConstant(buf []byte, k Constant) ([]byte, error) {
	buf = append(buf, byte(k.Tag))
	switch k.Tag {
	case ConstantUtf8:
		if len(k.Utf8) > 0xFFFF {
			return nil, fmt.Errorf("utf8 entry too long: %d bytes", len(k.Utf8))
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(k.Utf8)))
		buf = append(buf, k.Utf8...)
	case ConstantInteger, ConstantFloat:
		buf = binary.BigEndian.AppendUint32(buf, uint32(k.Int))
	case ConstantLong, ConstantDouble:
		buf = binary.BigEndian.AppendUint64(buf, uint64(k.Int))
	case ConstantClass, ConstantString, ConstantModule, ConstantPackage:
		buf = binary.BigEndian.AppendUint16(buf, k.NameIndex)
	case ConstantFieldRef, ConstantMethodRef, ConstantInterfaceMethodRef:
		buf = binary.BigEndian.AppendUint16(buf, k.ClassIndex)
		buf = binary.BigEndian.AppendUint16(buf, k.NameAndTypeIndex)
	case ConstantNameAndType:
		buf = binary.BigEndian.AppendUint16(buf, k.NameIndex)
		buf = binary.BigEndian.AppendUint16(buf, k.DescriptorIndex)
	case ConstantMethodHandle:
		buf = append(buf, k.ReferenceKind)
		buf = binary.BigEndian.AppendUint16(buf, k.ReferenceIndex)
	case ConstantMethodType:
		buf = binary.BigEndian.AppendUint16(buf, k.DescriptorIndex)
	case ConstantDynamic, ConstantInvokeDynamic:
		buf = binary.BigEndian.AppendUint16(buf, k.BootstrapMethodIndex)
		buf = binary.BigEndian.AppendUint16(buf, k.NameAndTypeIndex)
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownConstant, k.Tag)
	}
	return buf, nil
}
