package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a method body.
func Disassemble(code []byte) string {
	return DisassembleWithName("", code, nil)
}

// DisassembleWithName returns a listing with a name header. annotate, when
// not nil, supplies a trailing comment for an instruction (typically the
// constant pool entry it references).
func DisassembleWithName(name string, code []byte, annotate func(Instruction) string) string {
	var sb strings.Builder

	// Header
	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d bytes\n", len(code)))

	instrs, err := Decode(code)
	if err != nil {
		sb.WriteString(fmt.Sprintf("; error: %v\n", err))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("; %d instructions\n", len(instrs)))

	for _, line := range Lines(instrs, annotate) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Lines renders decoded instructions one per line, prefixed with their byte
// offset. Branch targets are shown as byte offsets.
func Lines(instrs []Instruction, annotate func(Instruction) string) []string {
	lines := make([]string, 0, len(instrs))
	for i, ins := range instrs {
		text := formatInstruction(instrs, ins)
		if annotate != nil {
			if note := annotate(ins); note != "" {
				text = fmt.Sprintf("%-30s ; %s", text, note)
			}
		}
		lines = append(lines, fmt.Sprintf("%04X  %3d  %s", ins.Offset, i, text))
	}
	return lines
}

func formatInstruction(instrs []Instruction, ins Instruction) string {
	offsetOf := func(idx int) int {
		if idx >= 0 && idx < len(instrs) {
			return instrs[idx].Offset
		}
		return -1
	}

	if ins.Op.IsBranch() {
		return fmt.Sprintf("%s %+d (-> %04X)", ins.Op, ins.Operand, offsetOf(ins.Target))
	}
	if ins.Switch != nil {
		var sb strings.Builder
		sb.WriteString(ins.Op.String())
		sb.WriteString(" {")
		for i, k := range ins.Switch.Keys {
			sb.WriteString(fmt.Sprintf(" %d: %04X,", k, offsetOf(ins.Switch.Targets[i])))
		}
		sb.WriteString(fmt.Sprintf(" default: %04X }", offsetOf(ins.Switch.Default)))
		return sb.String()
	}
	return ins.String()
}
