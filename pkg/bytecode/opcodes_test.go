package bytecode

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode 0x%02X has no metadata", byte(op))
		}
	}
}

func TestOpcodeCount(t *testing.T) {
	// 0x00-0xC9 plus breakpoint, impdep1, impdep2
	if got := OpcodeCount(); got != 205 {
		t.Errorf("OpcodeCount() = %d, want 205", got)
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpNop, "nop"},
		{OpIconstM1, "iconst_m1"},
		{OpIload0, "iload_0"},
		{OpIadd, "iadd"},
		{OpIfIcmpge, "if_icmpge"},
		{OpGotoW, "goto_w"},
		{OpInvokestatic, "invokestatic"},
		{OpIreturn, "ireturn"},
		{OpReturn, "return"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(0x%02X).String() = %q, want %q", byte(tt.op), got, tt.want)
		}
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	op := Opcode(0xEE)
	if op.IsDefined() {
		t.Fatal("0xEE should not be defined")
	}
	if got := op.String(); got != "UNKNOWN(0xEE)" {
		t.Errorf("String() = %q", got)
	}
}

func TestOpcodePredicates(t *testing.T) {
	tests := []struct {
		op                       Opcode
		branch, isReturn, invoke bool
	}{
		{OpIadd, false, false, false},
		{OpIfeq, true, false, false},
		{OpGoto, true, false, false},
		{OpGotoW, true, false, false},
		{OpIfnonnull, true, false, false},
		{OpTableswitch, false, false, false},
		{OpIreturn, false, true, false},
		{OpReturn, false, true, false},
		{OpInvokestatic, false, false, true},
		{OpInvokedynamic, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := tt.op.IsBranch(); got != tt.branch {
				t.Errorf("IsBranch() = %v", got)
			}
			if got := tt.op.IsReturn(); got != tt.isReturn {
				t.Errorf("IsReturn() = %v", got)
			}
			if got := tt.op.IsInvoke(); got != tt.invoke {
				t.Errorf("IsInvoke() = %v", got)
			}
		})
	}
}

func TestOperandLen(t *testing.T) {
	tests := map[Opcode]int{
		OpIadd:            0,
		OpBipush:          1,
		OpIload:           1,
		OpSipush:          2,
		OpLdcW:            2,
		OpGoto:            2,
		OpGotoW:           4,
		OpIinc:            2,
		OpInvokestatic:    2,
		OpInvokeinterface: 4,
		OpInvokedynamic:   4,
		OpMultianewarray:  3,
		OpTableswitch:     0,
		OpWide:            0,
	}
	for op, want := range tests {
		if got := op.OperandLen(); got != want {
			t.Errorf("%s.OperandLen() = %d, want %d", op, got, want)
		}
	}
}
