package classfile

import "fmt"

// ConstantTag identifies the kind of a constant pool entry.
// Values match the tags used in the class file format.
type ConstantTag uint8

const (
	// ConstantUnusable marks index 0 and the second slot of long/double entries.
	ConstantUnusable ConstantTag = 0

	ConstantUtf8               ConstantTag = 1
	ConstantInteger            ConstantTag = 3
	ConstantFloat              ConstantTag = 4
	ConstantLong               ConstantTag = 5
	ConstantDouble             ConstantTag = 6
	ConstantClass              ConstantTag = 7
	ConstantString             ConstantTag = 8
	ConstantFieldRef           ConstantTag = 9
	ConstantMethodRef          ConstantTag = 10
	ConstantInterfaceMethodRef ConstantTag = 11
	ConstantNameAndType        ConstantTag = 12
	ConstantMethodHandle       ConstantTag = 15
	ConstantMethodType         ConstantTag = 16
	ConstantDynamic            ConstantTag = 17
	ConstantInvokeDynamic      ConstantTag = 18
	ConstantModule             ConstantTag = 19
	ConstantPackage            ConstantTag = 20
)

var constantTagNames = map[ConstantTag]string{
	ConstantUnusable:           "Unusable",
	ConstantUtf8:               "Utf8",
	ConstantInteger:            "Integer",
	ConstantFloat:              "Float",
	ConstantLong:               "Long",
	ConstantDouble:             "Double",
	ConstantClass:              "Class",
	ConstantString:             "String",
	ConstantFieldRef:           "Fieldref",
	ConstantMethodRef:          "Methodref",
	ConstantInterfaceMethodRef: "InterfaceMethodref",
	ConstantNameAndType:        "NameAndType",
	ConstantMethodHandle:       "MethodHandle",
	ConstantMethodType:         "MethodType",
	ConstantDynamic:            "Dynamic",
	ConstantInvokeDynamic:      "InvokeDynamic",
	ConstantModule:             "Module",
	ConstantPackage:            "Package",
}

// String returns the class-file name of the tag.
func (t ConstantTag) String() string {
	if name, ok := constantTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ConstantTag(%d)", uint8(t))
}

// wide reports whether the entry occupies two constant pool slots.
func (t ConstantTag) wide() bool {
	return t == ConstantLong || t == ConstantDouble
}

// Constant is one constant pool entry. Only the fields relevant to Tag are set.
type Constant struct {
	Tag ConstantTag

	// Utf8 holds the text of a Utf8 entry.
	Utf8 string

	// Int holds Integer and Long values. Float and Double keep their raw IEEE bits here.
	Int int64

	// NameIndex points at a Utf8 entry: the name of a Class, Module or Package,
	// the text of a String, or the name half of a NameAndType.
	NameIndex uint16

	// ClassIndex and NameAndTypeIndex are set on Fieldref, Methodref and
	// InterfaceMethodref entries.
	ClassIndex       uint16
	NameAndTypeIndex uint16

	// DescriptorIndex is the descriptor half of a NameAndType, or the
	// descriptor of a MethodType.
	DescriptorIndex uint16

	// MethodHandle
	ReferenceKind  uint8
	ReferenceIndex uint16

	// Dynamic and InvokeDynamic
	BootstrapMethodIndex uint16
}

// String renders the entry the way javap does, without resolving indices.
func (c Constant) String() string {
	switch c.Tag {
	case ConstantUtf8:
		return fmt.Sprintf("Utf8 %q", c.Utf8)
	case ConstantInteger, ConstantLong:
		return fmt.Sprintf("%s %d", c.Tag, c.Int)
	case ConstantFloat, ConstantDouble:
		return fmt.Sprintf("%s bits=0x%x", c.Tag, uint64(c.Int))
	case ConstantClass, ConstantString, ConstantModule, ConstantPackage:
		return fmt.Sprintf("%s #%d", c.Tag, c.NameIndex)
	case ConstantFieldRef, ConstantMethodRef, ConstantInterfaceMethodRef:
		return fmt.Sprintf("%s #%d.#%d", c.Tag, c.ClassIndex, c.NameAndTypeIndex)
	case ConstantNameAndType:
		return fmt.Sprintf("%s #%d:#%d", c.Tag, c.NameIndex, c.DescriptorIndex)
	case ConstantMethodHandle:
		return fmt.Sprintf("%s %d:#%d", c.Tag, c.ReferenceKind, c.ReferenceIndex)
	case ConstantMethodType:
		return fmt.Sprintf("%s #%d", c.Tag, c.DescriptorIndex)
	case ConstantDynamic, ConstantInvokeDynamic:
		return fmt.Sprintf("%s #%d:#%d", c.Tag, c.BootstrapMethodIndex, c.NameAndTypeIndex)
	default:
		return c.Tag.String()
	}
}
