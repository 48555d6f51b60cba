package classfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleClass() *ClassFile {
	b := NewBuilder("demo/Main")
	add := b.MethodRef("demo/Main", "add1", "(I)I")
	b.Long(1 << 40)
	b.Integer(-7)
	b.StaticMethod("main", "()I", 2, 0, 0x07, 0xB8, byte(add>>8), byte(add), 0xAC)
	b.StaticMethod("add1", "(I)I", 2, 1, 0x1A, 0x04, 0x60, 0xAC)
	b.AbstractMethod("run", "()V")
	return b.Build()
}

func TestBuilderResolvesNames(t *testing.T) {
	cf := sampleClass()

	if got := cf.Name(); got != "demo/Main" {
		t.Errorf("Name() = %q, want demo/Main", got)
	}
	if got := cf.SuperName(); got != "java/lang/Object" {
		t.Errorf("SuperName() = %q, want java/lang/Object", got)
	}

	m := cf.MethodNamed("add1")
	if m == nil || m.Descriptor != "(I)I" || !m.IsStatic() {
		t.Fatalf("MethodNamed(add1) = %+v", m)
	}
	if cf.FindMethod("add1", "(J)J") != nil {
		t.Error("FindMethod matched a different descriptor")
	}
}

func TestBuilderDeduplicatesPoolEntries(t *testing.T) {
	b := NewBuilder("A")
	first := b.MethodRef("A", "f", "()V")
	second := b.MethodRef("A", "f", "()V")
	if first != second {
		t.Errorf("MethodRef returned %d then %d", first, second)
	}
	if b.Class("A") != b.Build().ThisClass {
		t.Error("Class(A) does not reuse this_class")
	}
}

func TestLongTakesTwoSlots(t *testing.T) {
	b := NewBuilder("A")
	idx := b.Long(42)
	next := b.Integer(1)
	if next != idx+2 {
		t.Fatalf("entry after long at %d, want %d", next, idx+2)
	}
	cf := b.Build()
	if _, ok := cf.Constant(idx + 1); ok {
		t.Error("slot after long should be unusable")
	}
}

func TestConstantLookupsRejectWrongKinds(t *testing.T) {
	cf := sampleClass()
	add := cf.MethodNamed("main").Code.Bytecode
	ref := uint16(add[2])<<8 | uint16(add[3])

	if _, ok := cf.Constant(0); ok {
		t.Error("index 0 must not resolve")
	}
	if _, ok := cf.Constant(uint16(len(cf.Constants))); ok {
		t.Error("index past the end must not resolve")
	}
	if _, ok := cf.Utf8(ref); ok {
		t.Error("Utf8 resolved a Methodref")
	}
	if _, ok := cf.ClassName(ref); ok {
		t.Error("ClassName resolved a Methodref")
	}

	k, _ := cf.Constant(ref)
	m, ok := cf.MethodFromNameAndType(k.NameAndTypeIndex)
	if !ok || m.Name != "add1" {
		t.Errorf("MethodFromNameAndType = %v, %v", m, ok)
	}
	if _, ok := cf.MethodFromNameAndType(ref); ok {
		t.Error("MethodFromNameAndType accepted a Methodref index")
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	cf := sampleClass()
	data, err := cf.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Name() != "demo/Main" {
		t.Errorf("Name() = %q", got.Name())
	}
	if len(got.Methods) != 3 {
		t.Fatalf("got %d methods, want 3", len(got.Methods))
	}

	add1 := got.FindMethod("add1", "(I)I")
	if add1 == nil || add1.Code == nil {
		t.Fatal("add1 lost its code")
	}
	if add1.Code.MaxLocals != 1 || add1.Code.MaxStack != 2 {
		t.Errorf("add1 limits = %d/%d", add1.Code.MaxStack, add1.Code.MaxLocals)
	}
	if string(add1.Code.Bytecode) != string([]byte{0x1A, 0x04, 0x60, 0xAC}) {
		t.Errorf("add1 bytecode = % x", add1.Code.Bytecode)
	}
	if run := got.MethodNamed("run"); run == nil || run.Code != nil {
		t.Errorf("abstract method decoded as %+v", run)
	}

	var sawNegative bool
	for _, k := range got.Constants {
		if k.Tag == ConstantInteger && k.Int == -7 {
			sawNegative = true
		}
	}
	if !sawNegative {
		t.Error("negative Integer constant was not sign-extended")
	}
}

func TestParseErrors(t *testing.T) {
	valid, err := sampleClass().Encode()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrUnexpectedEOF},
		{"bad magic", []byte{0xCA, 0xFE, 0xD0, 0x0D, 0, 0, 0, 52}, ErrInvalidMagic},
		{"truncated", valid[:len(valid)/2], ErrUnexpectedEOF},
		{"trailing", append(append([]byte{}, valid...), 0), ErrTrailingData},
		{"unknown tag", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 0, 0, 52, 0, 2, 99}, ErrUnknownConstant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	data, err := sampleClass().Encode()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "Main.class")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cf, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if cf.Name() != "demo/Main" {
		t.Errorf("Name() = %q", cf.Name())
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.class")); err == nil {
		t.Error("ParseFile on a missing file succeeded")
	}
}
