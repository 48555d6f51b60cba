// Package classfile models decoded class files: the constant pool, methods
// and their code attributes. Descriptors are produced by Parse, by the
// Builder, or by decoding a bundle; nothing in this package validates that
// constant pool references point at entries of the right kind. Consumers
// check every hop themselves.
package classfile

// Access flags used on classes and methods.
const (
	AccPublic    uint16 = 0x0001
	AccPrivate   uint16 = 0x0002
	AccProtected uint16 = 0x0004
	AccStatic    uint16 = 0x0008
	AccFinal     uint16 = 0x0010
	AccSuper     uint16 = 0x0020
	AccNative    uint16 = 0x0100
	AccAbstract  uint16 = 0x0400
)

// ClassFile is one decoded class.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16

	// Constants is indexed exactly like the class file constant pool:
	// entry 0 is unused and long/double entries are followed by an unusable slot.
	Constants []Constant

	AccessFlags uint16
	ThisClass   uint16
	SuperClass  uint16
	Interfaces  []uint16
	Fields      []*Field
	Methods     []*Method
}

// Field is a declared field. Fields are decoded but not interpreted.
type Field struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
}

// Method is a declared method with its optional code attribute.
type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Code        *Code // nil for abstract and native methods
}

// Code is the body of a method.
type Code struct {
	MaxStack  uint16
	MaxLocals uint16
	Bytecode  []byte
}

// Signature parses the method's descriptor.
func (m *Method) Signature() (Signature, error) {
	return ParseMethodDescriptor(m.Descriptor)
}

// IsStatic reports whether the method is declared static.
func (m *Method) IsStatic() bool {
	return m.AccessFlags&AccStatic != 0
}

// String returns "name descriptor".
func (m *Method) String() string {
	return m.Name + m.Descriptor
}

// Name returns the class name from this_class, or "" if the reference is broken.
func (c *ClassFile) Name() string {
	name, _ := c.ClassName(c.ThisClass)
	return name
}

// SuperName returns the super class name, or "" for java/lang/Object and
// broken references.
func (c *ClassFile) SuperName() string {
	name, _ := c.ClassName(c.SuperClass)
	return name
}

// Constant returns the entry at index. Index 0, out-of-range indices and
// unusable slots report false.
func (c *ClassFile) Constant(index uint16) (Constant, bool) {
	if index == 0 || int(index) >= len(c.Constants) {
		return Constant{}, false
	}
	k := c.Constants[index]
	if k.Tag == ConstantUnusable {
		return Constant{}, false
	}
	return k, true
}

// Utf8 returns the text of the Utf8 entry at index.
func (c *ClassFile) Utf8(index uint16) (string, bool) {
	k, ok := c.Constant(index)
	if !ok || k.Tag != ConstantUtf8 {
		return "", false
	}
	return k.Utf8, true
}

// ClassName follows a Class entry to its name.
func (c *ClassFile) ClassName(index uint16) (string, bool) {
	k, ok := c.Constant(index)
	if !ok || k.Tag != ConstantClass {
		return "", false
	}
	return c.Utf8(k.NameIndex)
}

// NameAndType follows a NameAndType entry to its name and descriptor.
func (c *ClassFile) NameAndType(index uint16) (name, descriptor string, ok bool) {
	k, found := c.Constant(index)
	if !found || k.Tag != ConstantNameAndType {
		return "", "", false
	}
	if name, ok = c.Utf8(k.NameIndex); !ok {
		return "", "", false
	}
	if descriptor, ok = c.Utf8(k.DescriptorIndex); !ok {
		return "", "", false
	}
	return name, descriptor, true
}

// FindMethod returns the method with the given name and descriptor.
func (c *ClassFile) FindMethod(name, descriptor string) *Method {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m
		}
	}
	return nil
}

// MethodNamed returns the first method with the given name, ignoring the descriptor.
func (c *ClassFile) MethodNamed(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MethodFromNameAndType resolves a NameAndType entry against this class's methods.
func (c *ClassFile) MethodFromNameAndType(index uint16) (*Method, bool) {
	name, desc, ok := c.NameAndType(index)
	if !ok {
		return nil, false
	}
	m := c.FindMethod(name, desc)
	return m, m != nil
}
