package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrTruncated       = errors.New("unexpected end of bytecode")
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrBadWide         = errors.New("wide prefix on an instruction that cannot be widened")
	ErrBadBranchTarget = errors.New("branch target is not an instruction boundary")
	ErrBadSwitch       = errors.New("malformed switch")
)

// NoTarget marks an instruction without a branch target.
const NoTarget = -1

// Instruction is one decoded instruction. Instructions are addressed by their
// position in the slice returned by Decode; branch offsets are resolved to
// those positions.
type Instruction struct {
	Op     Opcode
	Offset int  // byte offset of the opcode (of the wide prefix when Wide)
	Wide   bool // operands were widened by a wide prefix

	// Operand holds the slot, immediate, constant index or raw branch
	// offset. Operand2 holds the iinc delta, the invokeinterface count or
	// the multianewarray dimensions.
	Operand  int32
	Operand2 int32

	// Target is the instruction index a branch transfers to, or NoTarget.
	Target int
	Switch *Switch
}

// Switch holds the resolved jump table of a tableswitch or lookupswitch.
type Switch struct {
	Default int
	Keys    []int32
	Targets []int

	defaultOffset int32
	offsets       []int32
}

// Lookup returns the instruction index to jump to for key.
func (s *Switch) Lookup(key int64) int {
	for i, k := range s.Keys {
		if int64(k) == key {
			return s.Targets[i]
		}
	}
	return s.Default
}

func (ins Instruction) String() string {
	name := ins.Op.String()
	if ins.Wide {
		name = "wide " + name
	}
	switch ins.Op.Format() {
	case FormatNone:
		return name
	case FormatIinc:
		return fmt.Sprintf("%s %d %d", name, ins.Operand, ins.Operand2)
	case FormatConst8, FormatConst16, FormatDynamic:
		return fmt.Sprintf("%s #%d", name, ins.Operand)
	case FormatInterface:
		return fmt.Sprintf("%s #%d, %d", name, ins.Operand, ins.Operand2)
	case FormatMultiArray:
		return fmt.Sprintf("%s #%d, %d", name, ins.Operand, ins.Operand2)
	case FormatBranch16, FormatBranch32:
		return fmt.Sprintf("%s -> %d", name, ins.Target)
	case FormatTableSwitch, FormatLookupSwitch:
		if ins.Switch == nil {
			return name
		}
		return fmt.Sprintf("%s (%d cases, default -> %d)", name, len(ins.Switch.Keys), ins.Switch.Default)
	default:
		return fmt.Sprintf("%s %d", name, ins.Operand)
	}
}

// decoder walks a method body.
type decoder struct {
	code   []byte
	offset int
}

func (d *decoder) need(n int, what string) error {
	if d.offset+n > len(d.code) {
		return fmt.Errorf("%w reading %s at offset %d", ErrTruncated, what, d.offset)
	}
	return nil
}

func (d *decoder) u1(what string) (uint8, error) {
	if err := d.need(1, what); err != nil {
		return 0, err
	}
	v := d.code[d.offset]
	d.offset++
	return v, nil
}

func (d *decoder) u2(what string) (uint16, error) {
	if err := d.need(2, what); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(d.code[d.offset:])
	d.offset += 2
	return v, nil
}

func (d *decoder) s4(what string) (int32, error) {
	if err := d.need(4, what); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(d.code[d.offset:]))
	d.offset += 4
	return v, nil
}

// Decode turns a method body into an index-stable instruction list. Every
// branch offset is resolved to the index of the instruction it lands on.
func Decode(code []byte) ([]Instruction, error) {
	d := &decoder{code: code}
	var out []Instruction
	index := make(map[int]int)

	for d.offset < len(code) {
		ins, err := d.next()
		if err != nil {
			return nil, err
		}
		index[ins.Offset] = len(out)
		out = append(out, ins)
	}

	resolve := func(ins *Instruction, rel int32) (int, error) {
		abs := ins.Offset + int(rel)
		i, ok := index[abs]
		if !ok {
			return NoTarget, fmt.Errorf("%w: %s at offset %d jumps to %d", ErrBadBranchTarget, ins.Op, ins.Offset, abs)
		}
		return i, nil
	}

	for i := range out {
		ins := &out[i]
		var err error
		switch {
		case ins.Op.IsBranch():
			ins.Target, err = resolve(ins, ins.Operand)
		case ins.Switch != nil:
			sw := ins.Switch
			if sw.Default, err = resolve(ins, sw.defaultOffset); err != nil {
				break
			}
			sw.Targets = make([]int, len(sw.offsets))
			for j, rel := range sw.offsets {
				if sw.Targets[j], err = resolve(ins, rel); err != nil {
					break
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) next() (Instruction, error) {
	ins := Instruction{Offset: d.offset, Target: NoTarget}
	b, _ := d.u1("opcode")
	ins.Op = Opcode(b)
	if !ins.Op.IsDefined() {
		return ins, fmt.Errorf("%w: 0x%02x at offset %d", ErrUnknownOpcode, b, ins.Offset)
	}

	if ins.Op == OpWide {
		return d.wide(ins)
	}
	if err := d.need(ins.Op.OperandLen(), "operands"); err != nil {
		return ins, fmt.Errorf("%s: %w", ins.Op, err)
	}

	var err error
	switch ins.Op.Format() {
	case FormatNone:
	case FormatLocal, FormatConst8:
		var v uint8
		v, err = d.u1("operand")
		ins.Operand = int32(v)
	case FormatByte:
		var v uint8
		v, err = d.u1("operand")
		ins.Operand = int32(int8(v))
	case FormatShort, FormatBranch16:
		var v uint16
		v, err = d.u2("operand")
		ins.Operand = int32(int16(v))
	case FormatConst16:
		var v uint16
		v, err = d.u2("constant index")
		ins.Operand = int32(v)
	case FormatBranch32:
		ins.Operand, err = d.s4("branch offset")
	case FormatIinc:
		var slot, delta uint8
		if slot, err = d.u1("iinc slot"); err == nil {
			delta, err = d.u1("iinc delta")
		}
		ins.Operand, ins.Operand2 = int32(slot), int32(int8(delta))
	case FormatInterface, FormatMultiArray, FormatDynamic:
		var idx uint16
		var extra uint8
		if idx, err = d.u2("constant index"); err == nil {
			extra, err = d.u1("operand")
		}
		if err == nil && ins.Op.Format() != FormatMultiArray {
			_, err = d.u1("padding")
		}
		ins.Operand = int32(idx)
		if ins.Op.Format() != FormatDynamic {
			ins.Operand2 = int32(extra)
		}
	case FormatTableSwitch, FormatLookupSwitch:
		ins.Switch, err = d.switchTable(ins)
	}
	if err != nil {
		return ins, fmt.Errorf("%s: %w", ins.Op, err)
	}
	return ins, nil
}

func (d *decoder) wide(ins Instruction) (Instruction, error) {
	b, err := d.u1("widened opcode")
	if err != nil {
		return ins, err
	}
	ins.Op = Opcode(b)
	ins.Wide = true
	switch ins.Op.Format() {
	case FormatLocal:
		v, err := d.u2("wide slot")
		if err != nil {
			return ins, err
		}
		ins.Operand = int32(v)
	case FormatIinc:
		slot, err := d.u2("wide iinc slot")
		if err != nil {
			return ins, err
		}
		delta, err := d.u2("wide iinc delta")
		if err != nil {
			return ins, err
		}
		ins.Operand, ins.Operand2 = int32(slot), int32(int16(delta))
	default:
		return ins, fmt.Errorf("%w: %s at offset %d", ErrBadWide, ins.Op, ins.Offset)
	}
	return ins, nil
}

// switchTable reads the padded operands of tableswitch and lookupswitch.
// Offsets are kept relative until Decode resolves them.
func (d *decoder) switchTable(ins Instruction) (*Switch, error) {
	pad := (4 - d.offset%4) % 4
	if err := d.need(pad, "switch padding"); err != nil {
		return nil, err
	}
	d.offset += pad

	sw := &Switch{}
	var err error
	if sw.defaultOffset, err = d.s4("default offset"); err != nil {
		return nil, err
	}

	if ins.Op == OpTableswitch {
		low, err := d.s4("low")
		if err != nil {
			return nil, err
		}
		high, err := d.s4("high")
		if err != nil {
			return nil, err
		}
		if high < low {
			return nil, fmt.Errorf("%w: high %d below low %d", ErrBadSwitch, high, low)
		}
		n := int64(high) - int64(low) + 1
		if err := d.need(int(min(n, int64(len(d.code))))*4, "jump table"); err != nil {
			return nil, err
		}
		for i := int64(0); i < n; i++ {
			rel, err := d.s4("jump offset")
			if err != nil {
				return nil, err
			}
			sw.Keys = append(sw.Keys, int32(int64(low)+i))
			sw.offsets = append(sw.offsets, rel)
		}
		return sw, nil
	}

	npairs, err := d.s4("pair count")
	if err != nil {
		return nil, err
	}
	if npairs < 0 {
		return nil, fmt.Errorf("%w: negative pair count %d", ErrBadSwitch, npairs)
	}
	if err := d.need(int(min(int64(npairs), int64(len(d.code))))*8, "match pairs"); err != nil {
		return nil, err
	}
	for i := int32(0); i < npairs; i++ {
		key, err := d.s4("match")
		if err != nil {
			return nil, err
		}
		rel, err := d.s4("jump offset")
		if err != nil {
			return nil, err
		}
		sw.Keys = append(sw.Keys, key)
		sw.offsets = append(sw.offsets, rel)
	}
	return sw, nil
}
