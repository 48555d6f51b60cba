package vm

import (
	"testing"

	"github.com/chazu/kaffee/classfile"
)

func TestBuildSymbolTable(t *testing.T) {
	b := classfile.NewBuilder("demo/Main")
	self := b.MethodRef("demo/Main", "f", "()I")
	other := b.MethodRef("demo/Util", "g", "()I")
	cf := b.Build()

	st := BuildSymbolTable(cf)
	selfRef, _ := cf.Constant(self)
	otherRef, _ := cf.Constant(other)

	if name, ok := st.Lookup(selfRef.ClassIndex); !ok || name != "demo/Main" {
		t.Errorf("Lookup(self) = %q, %v", name, ok)
	}
	if name, ok := st.Lookup(otherRef.ClassIndex); !ok || name != "demo/Util" {
		t.Errorf("Lookup(other) = %q, %v", name, ok)
	}
	if st.Len() != 2 {
		t.Errorf("Len() = %d, want 2", st.Len())
	}
}

func TestBuildSymbolTableSkipsBrokenChains(t *testing.T) {
	cf := &classfile.ClassFile{
		Constants: []classfile.Constant{
			{},
			{Tag: classfile.ConstantUtf8, Utf8: "demo/Main"},
			{Tag: classfile.ConstantClass, NameIndex: 1},
			// class index points at a Utf8 entry
			{Tag: classfile.ConstantMethodRef, ClassIndex: 1, NameAndTypeIndex: 9},
			// class index out of range
			{Tag: classfile.ConstantMethodRef, ClassIndex: 40},
			// Class entry whose name is not Utf8
			{Tag: classfile.ConstantClass, NameIndex: 2},
			{Tag: classfile.ConstantMethodRef, ClassIndex: 5},
			// valid
			{Tag: classfile.ConstantInterfaceMethodRef, ClassIndex: 2},
		},
		ThisClass: 2,
	}

	st := BuildSymbolTable(cf)
	if st.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", st.Len())
	}
	for _, idx := range []uint16{1, 40, 5} {
		if _, ok := st.Lookup(idx); ok {
			t.Errorf("Lookup(%d) resolved a broken chain", idx)
		}
	}
	if name, _ := st.Lookup(2); name != "demo/Main" {
		t.Errorf("Lookup(2) = %q", name)
	}
}
