package bytecode

import "fmt"

// Opcode is a JVM instruction byte.
type Opcode byte

const (
	// ========================================================================
	// Constants (0x00-0x14)
	// ========================================================================

	OpNop        Opcode = 0x00
	OpAconstNull Opcode = 0x01
	OpIconstM1   Opcode = 0x02
	OpIconst0    Opcode = 0x03
	OpIconst1    Opcode = 0x04
	OpIconst2    Opcode = 0x05
	OpIconst3    Opcode = 0x06
	OpIconst4    Opcode = 0x07
	OpIconst5    Opcode = 0x08
	OpLconst0    Opcode = 0x09
	OpLconst1    Opcode = 0x0A
	OpFconst0    Opcode = 0x0B
	OpFconst1    Opcode = 0x0C
	OpFconst2    Opcode = 0x0D
	OpDconst0    Opcode = 0x0E
	OpDconst1    Opcode = 0x0F
	OpBipush     Opcode = 0x10 // bipush <value:s8>
	OpSipush     Opcode = 0x11 // sipush <value:s16>
	OpLdc        Opcode = 0x12 // ldc <index:u8>
	OpLdcW       Opcode = 0x13 // ldc_w <index:u16>
	OpLdc2W      Opcode = 0x14 // ldc2_w <index:u16>

	// ========================================================================
	// Loads (0x15-0x35)
	// ========================================================================

	OpIload   Opcode = 0x15 // iload <slot:u8>
	OpLload   Opcode = 0x16
	OpFload   Opcode = 0x17
	OpDload   Opcode = 0x18
	OpAload   Opcode = 0x19 // aload <slot:u8>
	OpIload0  Opcode = 0x1A
	OpIload1  Opcode = 0x1B
	OpIload2  Opcode = 0x1C
	OpIload3  Opcode = 0x1D
	OpLload0  Opcode = 0x1E
	OpLload1  Opcode = 0x1F
	OpLload2  Opcode = 0x20
	OpLload3  Opcode = 0x21
	OpFload0  Opcode = 0x22
	OpFload1  Opcode = 0x23
	OpFload2  Opcode = 0x24
	OpFload3  Opcode = 0x25
	OpDload0  Opcode = 0x26
	OpDload1  Opcode = 0x27
	OpDload2  Opcode = 0x28
	OpDload3  Opcode = 0x29
	OpAload0  Opcode = 0x2A
	OpAload1  Opcode = 0x2B
	OpAload2  Opcode = 0x2C
	OpAload3  Opcode = 0x2D
	OpIaload  Opcode = 0x2E
	OpLaload  Opcode = 0x2F
	OpFaload  Opcode = 0x30
	OpDaload  Opcode = 0x31
	OpAaload  Opcode = 0x32
	OpBaload  Opcode = 0x33
	OpCaload  Opcode = 0x34
	OpSaload  Opcode = 0x35

	// ========================================================================
	// Stores (0x36-0x56)
	// ========================================================================

	OpIstore  Opcode = 0x36 // istore <slot:u8>
	OpLstore  Opcode = 0x37
	OpFstore  Opcode = 0x38
	OpDstore  Opcode = 0x39
	OpAstore  Opcode = 0x3A // astore <slot:u8>
	OpIstore0 Opcode = 0x3B
	OpIstore1 Opcode = 0x3C
	OpIstore2 Opcode = 0x3D
	OpIstore3 Opcode = 0x3E
	OpLstore0 Opcode = 0x3F
	OpLstore1 Opcode = 0x40
	OpLstore2 Opcode = 0x41
	OpLstore3 Opcode = 0x42
	OpFstore0 Opcode = 0x43
	OpFstore1 Opcode = 0x44
	OpFstore2 Opcode = 0x45
	OpFstore3 Opcode = 0x46
	OpDstore0 Opcode = 0x47
	OpDstore1 Opcode = 0x48
	OpDstore2 Opcode = 0x49
	OpDstore3 Opcode = 0x4A
	OpAstore0 Opcode = 0x4B
	OpAstore1 Opcode = 0x4C
	OpAstore2 Opcode = 0x4D
	OpAstore3 Opcode = 0x4E
	OpIastore Opcode = 0x4F
	OpLastore Opcode = 0x50
	OpFastore Opcode = 0x51
	OpDastore Opcode = 0x52
	OpAastore Opcode = 0x53
	OpBastore Opcode = 0x54
	OpCastore Opcode = 0x55
	OpSastore Opcode = 0x56

	// ========================================================================
	// Stack manipulation (0x57-0x5F)
	// ========================================================================

	OpPop    Opcode = 0x57
	OpPop2   Opcode = 0x58
	OpDup    Opcode = 0x59
	OpDupX1  Opcode = 0x5A
	OpDupX2  Opcode = 0x5B
	OpDup2   Opcode = 0x5C
	OpDup2X1 Opcode = 0x5D
	OpDup2X2 Opcode = 0x5E
	OpSwap   Opcode = 0x5F

	// ========================================================================
	// Arithmetic and logic (0x60-0x84)
	// ========================================================================

	OpIadd  Opcode = 0x60
	OpLadd  Opcode = 0x61
	OpFadd  Opcode = 0x62
	OpDadd  Opcode = 0x63
	OpIsub  Opcode = 0x64
	OpLsub  Opcode = 0x65
	OpFsub  Opcode = 0x66
	OpDsub  Opcode = 0x67
	OpImul  Opcode = 0x68
	OpLmul  Opcode = 0x69
	OpFmul  Opcode = 0x6A
	OpDmul  Opcode = 0x6B
	OpIdiv  Opcode = 0x6C
	OpLdiv  Opcode = 0x6D
	OpFdiv  Opcode = 0x6E
	OpDdiv  Opcode = 0x6F
	OpIrem  Opcode = 0x70
	OpLrem  Opcode = 0x71
	OpFrem  Opcode = 0x72
	OpDrem  Opcode = 0x73
	OpIneg  Opcode = 0x74
	OpLneg  Opcode = 0x75
	OpFneg  Opcode = 0x76
	OpDneg  Opcode = 0x77
	OpIshl  Opcode = 0x78
	OpLshl  Opcode = 0x79
	OpIshr  Opcode = 0x7A
	OpLshr  Opcode = 0x7B
	OpIushr Opcode = 0x7C
	OpLushr Opcode = 0x7D
	OpIand  Opcode = 0x7E
	OpLand  Opcode = 0x7F
	OpIor   Opcode = 0x80
	OpLor   Opcode = 0x81
	OpIxor  Opcode = 0x82
	OpLxor  Opcode = 0x83
	OpIinc  Opcode = 0x84 // iinc <slot:u8> <delta:s8>

	// ========================================================================
	// Conversions and comparisons (0x85-0x98)
	// ========================================================================

	OpI2l   Opcode = 0x85
	OpI2f   Opcode = 0x86
	OpI2d   Opcode = 0x87
	OpL2i   Opcode = 0x88
	OpL2f   Opcode = 0x89
	OpL2d   Opcode = 0x8A
	OpF2i   Opcode = 0x8B
	OpF2l   Opcode = 0x8C
	OpF2d   Opcode = 0x8D
	OpD2i   Opcode = 0x8E
	OpD2l   Opcode = 0x8F
	OpD2f   Opcode = 0x90
	OpI2b   Opcode = 0x91
	OpI2c   Opcode = 0x92
	OpI2s   Opcode = 0x93
	OpLcmp  Opcode = 0x94
	OpFcmpl Opcode = 0x95
	OpFcmpg Opcode = 0x96
	OpDcmpl Opcode = 0x97
	OpDcmpg Opcode = 0x98

	// ========================================================================
	// Control flow (0x99-0xB1)
	// ========================================================================

	OpIfeq         Opcode = 0x99 // ifeq <offset:s16>
	OpIfne         Opcode = 0x9A
	OpIflt         Opcode = 0x9B
	OpIfge         Opcode = 0x9C
	OpIfgt         Opcode = 0x9D
	OpIfle         Opcode = 0x9E
	OpIfIcmpeq     Opcode = 0x9F
	OpIfIcmpne     Opcode = 0xA0
	OpIfIcmplt     Opcode = 0xA1
	OpIfIcmpge     Opcode = 0xA2
	OpIfIcmpgt     Opcode = 0xA3
	OpIfIcmple     Opcode = 0xA4
	OpIfAcmpeq     Opcode = 0xA5
	OpIfAcmpne     Opcode = 0xA6
	OpGoto         Opcode = 0xA7
	OpJsr          Opcode = 0xA8
	OpRet          Opcode = 0xA9
	OpTableswitch  Opcode = 0xAA
	OpLookupswitch Opcode = 0xAB
	OpIreturn      Opcode = 0xAC
	OpLreturn      Opcode = 0xAD
	OpFreturn      Opcode = 0xAE
	OpDreturn      Opcode = 0xAF
	OpAreturn      Opcode = 0xB0
	OpReturn       Opcode = 0xB1

	// ========================================================================
	// References (0xB2-0xC3)
	// ========================================================================

	OpGetstatic       Opcode = 0xB2
	OpPutstatic       Opcode = 0xB3
	OpGetfield        Opcode = 0xB4
	OpPutfield        Opcode = 0xB5
	OpInvokevirtual   Opcode = 0xB6
	OpInvokespecial   Opcode = 0xB7
	OpInvokestatic    Opcode = 0xB8 // invokestatic <methodref:u16>
	OpInvokeinterface Opcode = 0xB9
	OpInvokedynamic   Opcode = 0xBA
	OpNew             Opcode = 0xBB
	OpNewarray        Opcode = 0xBC
	OpAnewarray       Opcode = 0xBD
	OpArraylength     Opcode = 0xBE
	OpAthrow          Opcode = 0xBF
	OpCheckcast       Opcode = 0xC0
	OpInstanceof      Opcode = 0xC1
	OpMonitorenter    Opcode = 0xC2
	OpMonitorexit     Opcode = 0xC3

	// ========================================================================
	// Extended (0xC4-0xC9) and reserved
	// ========================================================================

	OpWide           Opcode = 0xC4
	OpMultianewarray Opcode = 0xC5
	OpIfnull         Opcode = 0xC6
	OpIfnonnull      Opcode = 0xC7
	OpGotoW          Opcode = 0xC8 // goto_w <offset:s32>
	OpJsrW           Opcode = 0xC9
	OpBreakpoint     Opcode = 0xCA
	OpImpdep1        Opcode = 0xFE
	OpImpdep2        Opcode = 0xFF
)

// Format describes how an instruction's operands are laid out after the opcode.
type Format uint8

const (
	FormatNone        Format = iota // no operands
	FormatLocal                     // u8 local slot (u16 under wide)
	FormatByte                      // s8 immediate
	FormatShort                     // s16 immediate
	FormatConst8                    // u8 constant pool index
	FormatConst16                   // u16 constant pool index
	FormatBranch16                  // s16 branch offset
	FormatBranch32                  // s32 branch offset
	FormatIinc                      // u8 slot, s8 delta (u16, s16 under wide)
	FormatInterface                 // u16 index, u8 count, u8 zero
	FormatDynamic                   // u16 index, two zero bytes
	FormatMultiArray                // u16 index, u8 dimensions
	FormatTableSwitch               // padded, variable length
	FormatLookupSwitch              // padded, variable length
	FormatWide                      // prefix modifying the next instruction
)

// operandLen is the fixed operand length for each format; variable-length
// formats report 0 and are measured by the decoder.
var operandLen = map[Format]int{
	FormatNone:         0,
	FormatLocal:        1,
	FormatByte:         1,
	FormatShort:        2,
	FormatConst8:       1,
	FormatConst16:      2,
	FormatBranch16:     2,
	FormatBranch32:     4,
	FormatIinc:         2,
	FormatInterface:    4,
	FormatDynamic:      4,
	FormatMultiArray:   3,
	FormatTableSwitch:  0,
	FormatLookupSwitch: 0,
	FormatWide:         0,
}

// OpcodeInfo provides metadata about each opcode for decoding and disassembly.
type OpcodeInfo struct {
	Name   string // mnemonic as printed by javap
	Format Format
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	// Constants
	OpNop:        {"nop", FormatNone},
	OpAconstNull: {"aconst_null", FormatNone},
	OpIconstM1:   {"iconst_m1", FormatNone},
	OpIconst0:    {"iconst_0", FormatNone},
	OpIconst1:    {"iconst_1", FormatNone},
	OpIconst2:    {"iconst_2", FormatNone},
	OpIconst3:    {"iconst_3", FormatNone},
	OpIconst4:    {"iconst_4", FormatNone},
	OpIconst5:    {"iconst_5", FormatNone},
	OpLconst0:    {"lconst_0", FormatNone},
	OpLconst1:    {"lconst_1", FormatNone},
	OpFconst0:    {"fconst_0", FormatNone},
	OpFconst1:    {"fconst_1", FormatNone},
	OpFconst2:    {"fconst_2", FormatNone},
	OpDconst0:    {"dconst_0", FormatNone},
	OpDconst1:    {"dconst_1", FormatNone},
	OpBipush:     {"bipush", FormatByte},
	OpSipush:     {"sipush", FormatShort},
	OpLdc:        {"ldc", FormatConst8},
	OpLdcW:       {"ldc_w", FormatConst16},
	OpLdc2W:      {"ldc2_w", FormatConst16},

	// Loads
	OpIload:  {"iload", FormatLocal},
	OpLload:  {"lload", FormatLocal},
	OpFload:  {"fload", FormatLocal},
	OpDload:  {"dload", FormatLocal},
	OpAload:  {"aload", FormatLocal},
	OpIload0: {"iload_0", FormatNone},
	OpIload1: {"iload_1", FormatNone},
	OpIload2: {"iload_2", FormatNone},
	OpIload3: {"iload_3", FormatNone},
	OpLload0: {"lload_0", FormatNone},
	OpLload1: {"lload_1", FormatNone},
	OpLload2: {"lload_2", FormatNone},
	OpLload3: {"lload_3", FormatNone},
	OpFload0: {"fload_0", FormatNone},
	OpFload1: {"fload_1", FormatNone},
	OpFload2: {"fload_2", FormatNone},
	OpFload3: {"fload_3", FormatNone},
	OpDload0: {"dload_0", FormatNone},
	OpDload1: {"dload_1", FormatNone},
	OpDload2: {"dload_2", FormatNone},
	OpDload3: {"dload_3", FormatNone},
	OpAload0: {"aload_0", FormatNone},
	OpAload1: {"aload_1", FormatNone},
	OpAload2: {"aload_2", FormatNone},
	OpAload3: {"aload_3", FormatNone},
	OpIaload: {"iaload", FormatNone},
	OpLaload: {"laload", FormatNone},
	OpFaload: {"faload", FormatNone},
	OpDaload: {"daload", FormatNone},
	OpAaload: {"aaload", FormatNone},
	OpBaload: {"baload", FormatNone},
	OpCaload: {"caload", FormatNone},
	OpSaload: {"saload", FormatNone},

	// Stores
	OpIstore:  {"istore", FormatLocal},
	OpLstore:  {"lstore", FormatLocal},
	OpFstore:  {"fstore", FormatLocal},
	OpDstore:  {"dstore", FormatLocal},
	OpAstore:  {"astore", FormatLocal},
	OpIstore0: {"istore_0", FormatNone},
	OpIstore1: {"istore_1", FormatNone},
	OpIstore2: {"istore_2", FormatNone},
	OpIstore3: {"istore_3", FormatNone},
	OpLstore0: {"lstore_0", FormatNone},
	OpLstore1: {"lstore_1", FormatNone},
	OpLstore2: {"lstore_2", FormatNone},
	OpLstore3: {"lstore_3", FormatNone},
	OpFstore0: {"fstore_0", FormatNone},
	OpFstore1: {"fstore_1", FormatNone},
	OpFstore2: {"fstore_2", FormatNone},
	OpFstore3: {"fstore_3", FormatNone},
	OpDstore0: {"dstore_0", FormatNone},
	OpDstore1: {"dstore_1", FormatNone},
	OpDstore2: {"dstore_2", FormatNone},
	OpDstore3: {"dstore_3", FormatNone},
	OpAstore0: {"astore_0", FormatNone},
	OpAstore1: {"astore_1", FormatNone},
	OpAstore2: {"astore_2", FormatNone},
	OpAstore3: {"astore_3", FormatNone},
	OpIastore: {"iastore", FormatNone},
	OpLastore: {"lastore", FormatNone},
	OpFastore: {"fastore", FormatNone},
	OpDastore: {"dastore", FormatNone},
	OpAastore: {"aastore", FormatNone},
	OpBastore: {"bastore", FormatNone},
	OpCastore: {"castore", FormatNone},
	OpSastore: {"sastore", FormatNone},

	// Stack manipulation
	OpPop:    {"pop", FormatNone},
	OpPop2:   {"pop2", FormatNone},
	OpDup:    {"dup", FormatNone},
	OpDupX1:  {"dup_x1", FormatNone},
	OpDupX2:  {"dup_x2", FormatNone},
	OpDup2:   {"dup2", FormatNone},
	OpDup2X1: {"dup2_x1", FormatNone},
	OpDup2X2: {"dup2_x2", FormatNone},
	OpSwap:   {"swap", FormatNone},

	// Arithmetic and logic
	OpIadd:  {"iadd", FormatNone},
	OpLadd:  {"ladd", FormatNone},
	OpFadd:  {"fadd", FormatNone},
	OpDadd:  {"dadd", FormatNone},
	OpIsub:  {"isub", FormatNone},
	OpLsub:  {"lsub", FormatNone},
	OpFsub:  {"fsub", FormatNone},
	OpDsub:  {"dsub", FormatNone},
	OpImul:  {"imul", FormatNone},
	OpLmul:  {"lmul", FormatNone},
	OpFmul:  {"fmul", FormatNone},
	OpDmul:  {"dmul", FormatNone},
	OpIdiv:  {"idiv", FormatNone},
	OpLdiv:  {"ldiv", FormatNone},
	OpFdiv:  {"fdiv", FormatNone},
	OpDdiv:  {"ddiv", FormatNone},
	OpIrem:  {"irem", FormatNone},
	OpLrem:  {"lrem", FormatNone},
	OpFrem:  {"frem", FormatNone},
	OpDrem:  {"drem", FormatNone},
	OpIneg:  {"ineg", FormatNone},
	OpLneg:  {"lneg", FormatNone},
	OpFneg:  {"fneg", FormatNone},
	OpDneg:  {"dneg", FormatNone},
	OpIshl:  {"ishl", FormatNone},
	OpLshl:  {"lshl", FormatNone},
	OpIshr:  {"ishr", FormatNone},
	OpLshr:  {"lshr", FormatNone},
	OpIushr: {"iushr", FormatNone},
	OpLushr: {"lushr", FormatNone},
	OpIand:  {"iand", FormatNone},
	OpLand:  {"land", FormatNone},
	OpIor:   {"ior", FormatNone},
	OpLor:   {"lor", FormatNone},
	OpIxor:  {"ixor", FormatNone},
	OpLxor:  {"lxor", FormatNone},
	OpIinc:  {"iinc", FormatIinc},

	// Conversions and comparisons
	OpI2l:   {"i2l", FormatNone},
	OpI2f:   {"i2f", FormatNone},
	OpI2d:   {"i2d", FormatNone},
	OpL2i:   {"l2i", FormatNone},
	OpL2f:   {"l2f", FormatNone},
	OpL2d:   {"l2d", FormatNone},
	OpF2i:   {"f2i", FormatNone},
	OpF2l:   {"f2l", FormatNone},
	OpF2d:   {"f2d", FormatNone},
	OpD2i:   {"d2i", FormatNone},
	OpD2l:   {"d2l", FormatNone},
	OpD2f:   {"d2f", FormatNone},
	OpI2b:   {"i2b", FormatNone},
	OpI2c:   {"i2c", FormatNone},
	OpI2s:   {"i2s", FormatNone},
	OpLcmp:  {"lcmp", FormatNone},
	OpFcmpl: {"fcmpl", FormatNone},
	OpFcmpg: {"fcmpg", FormatNone},
	OpDcmpl: {"dcmpl", FormatNone},
	OpDcmpg: {"dcmpg", FormatNone},

	// Control flow
	OpIfeq:         {"ifeq", FormatBranch16},
	OpIfne:         {"ifne", FormatBranch16},
	OpIflt:         {"iflt", FormatBranch16},
	OpIfge:         {"ifge", FormatBranch16},
	OpIfgt:         {"ifgt", FormatBranch16},
	OpIfle:         {"ifle", FormatBranch16},
	OpIfIcmpeq:     {"if_icmpeq", FormatBranch16},
	OpIfIcmpne:     {"if_icmpne", FormatBranch16},
	OpIfIcmplt:     {"if_icmplt", FormatBranch16},
	OpIfIcmpge:     {"if_icmpge", FormatBranch16},
	OpIfIcmpgt:     {"if_icmpgt", FormatBranch16},
	OpIfIcmple:     {"if_icmple", FormatBranch16},
	OpIfAcmpeq:     {"if_acmpeq", FormatBranch16},
	OpIfAcmpne:     {"if_acmpne", FormatBranch16},
	OpGoto:         {"goto", FormatBranch16},
	OpJsr:          {"jsr", FormatBranch16},
	OpRet:          {"ret", FormatLocal},
	OpTableswitch:  {"tableswitch", FormatTableSwitch},
	OpLookupswitch: {"lookupswitch", FormatLookupSwitch},
	OpIreturn:      {"ireturn", FormatNone},
	OpLreturn:      {"lreturn", FormatNone},
	OpFreturn:      {"freturn", FormatNone},
	OpDreturn:      {"dreturn", FormatNone},
	OpAreturn:      {"areturn", FormatNone},
	OpReturn:       {"return", FormatNone},

	// References
	OpGetstatic:       {"getstatic", FormatConst16},
	OpPutstatic:       {"putstatic", FormatConst16},
	OpGetfield:        {"getfield", FormatConst16},
	OpPutfield:        {"putfield", FormatConst16},
	OpInvokevirtual:   {"invokevirtual", FormatConst16},
	OpInvokespecial:   {"invokespecial", FormatConst16},
	OpInvokestatic:    {"invokestatic", FormatConst16},
	OpInvokeinterface: {"invokeinterface", FormatInterface},
	OpInvokedynamic:   {"invokedynamic", FormatDynamic},
	OpNew:             {"new", FormatConst16},
	OpNewarray:        {"newarray", FormatByte},
	OpAnewarray:       {"anewarray", FormatConst16},
	OpArraylength:     {"arraylength", FormatNone},
	OpAthrow:          {"athrow", FormatNone},
	OpCheckcast:       {"checkcast", FormatConst16},
	OpInstanceof:      {"instanceof", FormatConst16},
	OpMonitorenter:    {"monitorenter", FormatNone},
	OpMonitorexit:     {"monitorexit", FormatNone},

	// Extended and reserved
	OpWide:           {"wide", FormatWide},
	OpMultianewarray: {"multianewarray", FormatMultiArray},
	OpIfnull:         {"ifnull", FormatBranch16},
	OpIfnonnull:      {"ifnonnull", FormatBranch16},
	OpGotoW:          {"goto_w", FormatBranch32},
	OpJsrW:           {"jsr_w", FormatBranch32},
	OpBreakpoint:     {"breakpoint", FormatNone},
	OpImpdep1:        {"impdep1", FormatNone},
	OpImpdep2:        {"impdep2", FormatNone},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns an OpcodeInfo named "UNKNOWN(0x..)" if the opcode is not defined.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op)), Format: FormatNone}
}

// IsDefined reports whether op is a JVM opcode.
func (op Opcode) IsDefined() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Format returns the operand layout of the opcode.
func (op Opcode) Format() Format {
	return GetOpcodeInfo(op).Format
}

// OperandLen returns the number of operand bytes following the opcode, or 0
// for opcodes without operands and for the variable-length switches and wide.
func (op Opcode) OperandLen() int {
	return operandLen[op.Format()]
}

// IsBranch reports whether the opcode carries a branch offset.
func (op Opcode) IsBranch() bool {
	f := op.Format()
	return f == FormatBranch16 || f == FormatBranch32
}

// IsReturn reports whether this opcode terminates the method.
func (op Opcode) IsReturn() bool {
	return op >= OpIreturn && op <= OpReturn
}

// IsInvoke reports whether this opcode invokes a method.
func (op Opcode) IsInvoke() bool {
	return op >= OpInvokevirtual && op <= OpInvokedynamic
}

// AllOpcodes returns a slice of all defined opcodes.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
