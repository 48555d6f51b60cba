package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/chazu/kaffee/classfile"
	"github.com/chazu/kaffee/pkg/bytecode"
)

// handleDisasmCommand processes the `kaffee disasm` subcommand.
// Usage:
//
//	kaffee disasm Main.class
//	kaffee disasm -m main Main.class
func handleDisasmCommand(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("disasm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	method := fs.String("m", "", "Only disassemble methods with this name")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: kaffee disasm [-m method] <file.class>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("disasm takes one class file")
	}

	cf, err := classfile.ParseFile(fs.Arg(0))
	if err != nil {
		return err
	}
	return disassembleClass(stdout, cf, *method)
}

func disassembleClass(w io.Writer, cf *classfile.ClassFile, only string) error {
	fmt.Fprintf(w, "class %s", cf.Name())
	if super := cf.SuperName(); super != "" {
		fmt.Fprintf(w, " extends %s", super)
	}
	fmt.Fprintf(w, " (version %d.%d, %d constants)\n", cf.MajorVersion, cf.MinorVersion, len(cf.Constants)-1)

	found := false
	for _, m := range cf.Methods {
		if only != "" && m.Name != only {
			continue
		}
		found = true
		fmt.Fprintln(w)
		if m.Code == nil {
			fmt.Fprintf(w, "; === %s === (no code)\n", m)
			continue
		}
		fmt.Fprintf(w, "; max stack %d, max locals %d\n", m.Code.MaxStack, m.Code.MaxLocals)
		fmt.Fprint(w, bytecode.DisassembleWithName(m.String(), m.Code.Bytecode, constantNote(cf)))
	}
	if only != "" && !found {
		return fmt.Errorf("class %s has no method %q", cf.Name(), only)
	}
	return nil
}

// constantNote resolves the constant pool operand of an instruction to text.
func constantNote(cf *classfile.ClassFile) func(bytecode.Instruction) string {
	return func(ins bytecode.Instruction) string {
		switch ins.Op.Format() {
		case bytecode.FormatConst8, bytecode.FormatConst16, bytecode.FormatInterface,
			bytecode.FormatDynamic, bytecode.FormatMultiArray:
		default:
			return ""
		}
		index := uint16(ins.Operand)
		k, ok := cf.Constant(index)
		if !ok {
			return fmt.Sprintf("#%d out of range", index)
		}
		switch k.Tag {
		case classfile.ConstantClass:
			name, _ := cf.ClassName(index)
			return "class " + name
		case classfile.ConstantString:
			s, _ := cf.Utf8(k.NameIndex)
			return fmt.Sprintf("string %q", s)
		case classfile.ConstantFieldRef, classfile.ConstantMethodRef, classfile.ConstantInterfaceMethodRef:
			owner, _ := cf.ClassName(k.ClassIndex)
			name, desc, _ := cf.NameAndType(k.NameAndTypeIndex)
			return fmt.Sprintf("%s %s.%s%s", k.Tag, owner, name, desc)
		default:
			return k.String()
		}
	}
}
