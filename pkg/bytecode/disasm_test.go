package bytecode

import (
	"fmt"
	"strings"
	"testing"
)

func TestDisassembleSimple(t *testing.T) {
	output := Disassemble([]byte{0x05, 0x06, 0x60, 0xAC})

	for _, want := range []string{"; 4 bytes", "iconst_2", "iconst_3", "iadd", "0003    3  ireturn"} {
		if !strings.Contains(output, want) {
			t.Errorf("listing missing %q:\n%s", want, output)
		}
	}
}

func TestDisassembleBranches(t *testing.T) {
	output := Disassemble(countLoop)

	if !strings.Contains(output, "if_icmpge +9 (-> 000D)") {
		t.Errorf("forward branch not rendered:\n%s", output)
	}
	if !strings.Contains(output, "goto -8 (-> 0002)") {
		t.Errorf("backward branch not rendered:\n%s", output)
	}
	if !strings.Contains(output, "iinc 0 1") {
		t.Errorf("iinc not rendered:\n%s", output)
	}
}

func TestDisassembleWithName(t *testing.T) {
	annotate := func(ins Instruction) string {
		if ins.Op == OpInvokestatic {
			return fmt.Sprintf("Method #%d", ins.Operand)
		}
		return ""
	}
	output := DisassembleWithName("Main.main()I", []byte{0xB8, 0x00, 0x02, 0xAC}, annotate)

	if !strings.HasPrefix(output, "; === Main.main()I ===\n") {
		t.Errorf("missing header:\n%s", output)
	}
	if !strings.Contains(output, "; Method #2") {
		t.Errorf("missing annotation:\n%s", output)
	}
}

func TestDisassembleInvalid(t *testing.T) {
	output := Disassemble([]byte{0xA7, 0x00, 0x01})
	if !strings.Contains(output, "; error:") {
		t.Errorf("decode error not reported:\n%s", output)
	}
}
