// Package bytecode decodes JVM method bodies into an index-stable list of
// instructions and renders them as listings.
//
// The class file stores branch operands as signed offsets relative to the
// byte offset of the branching opcode. Decode resolves every offset to the
// index of the instruction it lands on, so an interpreter can drive a plain
// program counter over the returned slice:
//
//	instrs, err := bytecode.Decode(method.Code.Bytecode)
//	...
//	for pc := 0; pc < len(instrs); {
//		ins := instrs[pc]
//		pc++
//		if ins.Op == bytecode.OpGoto {
//			pc = ins.Target
//		}
//	}
//
// A branch whose target falls inside another instruction's operands is
// rejected at decode time with ErrBadBranchTarget.
package bytecode
