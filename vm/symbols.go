package vm

import "github.com/chazu/kaffee/classfile"

// SymbolTable maps the class index of a method reference, as it appears in
// one class's constant pool, to the name of the referenced class.
type SymbolTable struct {
	names map[uint16]string
}

// BuildSymbolTable scans the constant pool of cf once. References whose
// chain cannot be followed to a class name are left out; invoking one later
// fails with ErrClassNotFound.
func BuildSymbolTable(cf *classfile.ClassFile) *SymbolTable {
	st := &SymbolTable{names: make(map[uint16]string)}
	for _, k := range cf.Constants {
		if k.Tag != classfile.ConstantMethodRef && k.Tag != classfile.ConstantInterfaceMethodRef {
			continue
		}
		if name, ok := cf.ClassName(k.ClassIndex); ok {
			st.names[k.ClassIndex] = name
		}
	}
	return st
}

// Lookup returns the class name recorded for a class index.
func (st *SymbolTable) Lookup(classIndex uint16) (string, bool) {
	name, ok := st.names[classIndex]
	return name, ok
}

// Len returns the number of resolved class indices.
func (st *SymbolTable) Len() int {
	return len(st.names)
}
