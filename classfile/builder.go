package classfile

// Builder assembles a ClassFile in memory. Pool entries are deduplicated
// the same way javac does it, so building the same reference twice returns
// the same index.
type Builder struct {
	cf    *ClassFile
	utf8  map[string]uint16
	class map[string]uint16
	nat   map[[2]string]uint16
	ref   map[[3]string]uint16
}

// NewBuilder starts a public class with the given internal name
// (e.g. "com/example/Main") extending java/lang/Object.
func NewBuilder(name string) *Builder {
	b := &Builder{
		cf: &ClassFile{
			MajorVersion: 52,
			Constants:    []Constant{{}},
			AccessFlags:  AccPublic | AccSuper,
		},
		utf8:  make(map[string]uint16),
		class: make(map[string]uint16),
		nat:   make(map[[2]string]uint16),
		ref:   make(map[[3]string]uint16),
	}
	b.cf.ThisClass = b.Class(name)
	b.cf.SuperClass = b.Class("java/lang/Object")
	return b
}

func (b *Builder) add(k Constant) uint16 {
	idx := uint16(len(b.cf.Constants))
	b.cf.Constants = append(b.cf.Constants, k)
	if k.Tag.wide() {
		b.cf.Constants = append(b.cf.Constants, Constant{})
	}
	return idx
}

// Utf8 adds a Utf8 entry.
func (b *Builder) Utf8(s string) uint16 {
	if idx, ok := b.utf8[s]; ok {
		return idx
	}
	idx := b.add(Constant{Tag: ConstantUtf8, Utf8: s})
	b.utf8[s] = idx
	return idx
}

// Class adds a Class entry and its name.
func (b *Builder) Class(name string) uint16 {
	if idx, ok := b.class[name]; ok {
		return idx
	}
	idx := b.add(Constant{Tag: ConstantClass, NameIndex: b.Utf8(name)})
	b.class[name] = idx
	return idx
}

// NameAndType adds a NameAndType entry.
func (b *Builder) NameAndType(name, descriptor string) uint16 {
	key := [2]string{name, descriptor}
	if idx, ok := b.nat[key]; ok {
		return idx
	}
	idx := b.add(Constant{Tag: ConstantNameAndType, NameIndex: b.Utf8(name), DescriptorIndex: b.Utf8(descriptor)})
	b.nat[key] = idx
	return idx
}

// MethodRef adds a Methodref entry for owner.name descriptor.
func (b *Builder) MethodRef(owner, name, descriptor string) uint16 {
	key := [3]string{owner, name, descriptor}
	if idx, ok := b.ref[key]; ok {
		return idx
	}
	idx := b.add(Constant{
		Tag:              ConstantMethodRef,
		ClassIndex:       b.Class(owner),
		NameAndTypeIndex: b.NameAndType(name, descriptor),
	})
	b.ref[key] = idx
	return idx
}

// Integer adds an Integer entry.
func (b *Builder) Integer(v int32) uint16 {
	return b.add(Constant{Tag: ConstantInteger, Int: int64(v)})
}

// Long adds a Long entry, which takes two pool slots.
func (b *Builder) Long(v int64) uint16 {
	return b.add(Constant{Tag: ConstantLong, Int: v})
}

// String adds a String entry.
func (b *Builder) String(s string) uint16 {
	return b.add(Constant{Tag: ConstantString, NameIndex: b.Utf8(s)})
}

// Method adds a method with a code body.
func (b *Builder) Method(flags uint16, name, descriptor string, maxStack, maxLocals uint16, code ...byte) *Method {
	b.Utf8(name)
	b.Utf8(descriptor)
	m := &Method{
		AccessFlags: flags,
		Name:        name,
		Descriptor:  descriptor,
		Code: &Code{
			MaxStack:  maxStack,
			MaxLocals: maxLocals,
			Bytecode:  code,
		},
	}
	b.cf.Methods = append(b.cf.Methods, m)
	return m
}

// StaticMethod is Method with public static access.
func (b *Builder) StaticMethod(name, descriptor string, maxStack, maxLocals uint16, code ...byte) *Method {
	return b.Method(AccPublic|AccStatic, name, descriptor, maxStack, maxLocals, code...)
}

// AbstractMethod adds a method without code.
func (b *Builder) AbstractMethod(name, descriptor string) *Method {
	b.Utf8(name)
	b.Utf8(descriptor)
	m := &Method{AccessFlags: AccPublic | AccAbstract, Name: name, Descriptor: descriptor}
	b.cf.Methods = append(b.cf.Methods, m)
	return m
}

// Build returns the assembled class. The builder must not be used afterwards.
func (b *Builder) Build() *ClassFile {
	return b.cf
}
