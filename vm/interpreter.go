package vm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/kaffee/classfile"
	"github.com/chazu/kaffee/pkg/bytecode"
	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Loaded classes
// ---------------------------------------------------------------------------

// loadedClass is a registry entry: the class descriptor, its symbol table
// and the decoded bodies of the methods that have run so far.
type loadedClass struct {
	file    *classfile.ClassFile
	name    string
	symbols *SymbolTable

	mu   sync.Mutex
	code map[*classfile.Method][]bytecode.Instruction
}

func newLoadedClass(cf *classfile.ClassFile) *loadedClass {
	return &loadedClass{
		file:    cf,
		name:    cf.Name(),
		symbols: BuildSymbolTable(cf),
		code:    make(map[*classfile.Method][]bytecode.Instruction),
	}
}

// instructions decodes a method body on first use.
func (c *loadedClass) instructions(m *classfile.Method) ([]bytecode.Instruction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if instrs, ok := c.code[m]; ok {
		return instrs, nil
	}
	instrs, err := bytecode.Decode(m.Code.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}
	c.code[m] = instrs
	return instrs, nil
}

// ---------------------------------------------------------------------------
// Activation: one method call
// ---------------------------------------------------------------------------

// activation interprets one method against one frame. Calls recurse on the
// Go stack; depth counts the activations below this one.
type activation struct {
	rt     *Runtime
	class  *loadedClass
	method *classfile.Method
	sig    classfile.Signature
	code   []bytecode.Instruction
	frame  *Frame
	depth  int
	log    commonlog.Logger

	pc        int
	done      bool
	result    Value
	hasResult bool
}

// invoke runs method m of class c with args in declaration order and
// returns its result. hasValue is false for void methods.
func (rt *Runtime) invoke(c *loadedClass, m *classfile.Method, args []Value, depth int) (Value, bool, error) {
	located := func(err error) error {
		return &RuntimeError{Class: c.name, Method: m.String(), PC: -1, Err: err}
	}

	if depth > rt.maxCallDepth() {
		return Value{}, false, located(fmt.Errorf("%w: limit is %d", ErrCallDepthExceeded, rt.maxCallDepth()))
	}
	if m.Code == nil {
		return Value{}, false, located(fmt.Errorf("%w: %s has no code", ErrMethodNotFound, m))
	}
	sig, err := m.Signature()
	if err != nil {
		return Value{}, false, located(fmt.Errorf("%w: %v", ErrInvalidCode, err))
	}
	code, err := c.instructions(m)
	if err != nil {
		return Value{}, false, located(err)
	}
	if len(args) > int(m.Code.MaxLocals) {
		return Value{}, false, located(fmt.Errorf("%w: %d arguments but %d local slots", ErrSlotOutOfRange, len(args), m.Code.MaxLocals))
	}

	a := &activation{
		rt:     rt,
		class:  c,
		method: m,
		sig:    sig,
		code:   code,
		frame:  FrameForMethod(m, args),
		depth:  depth,
		log:    rt.logger(),
	}
	a.log.Debugf("enter %s.%s depth=%d args=%v", c.name, m, depth, args)

	if err := a.run(); err != nil {
		return Value{}, false, err
	}
	if err := a.verifyReturn(); err != nil {
		return Value{}, false, located(err)
	}
	a.log.Debugf("leave %s.%s -> %s", c.name, m, a.describeResult())
	return a.result, a.hasResult, nil
}

// run is the fetch-decode-execute loop. It stops at the first return
// instruction, at the first failure, or when the program counter moves past
// the last instruction.
func (a *activation) run() error {
	trace := a.rt.Trace && a.log.AllowLevel(commonlog.Debug)
	for !a.done && a.pc < len(a.code) {
		pc := a.pc
		ins := a.code[pc]
		a.pc++

		if trace {
			a.log.Debugf("%s.%s %4d: %-24s %s", a.class.name, a.method.Name, pc, ins, a.frame)
		}

		if err := a.step(ins); err != nil {
			var located *RuntimeError
			if errors.As(err, &located) {
				// Already located by a callee.
				return err
			}
			return &RuntimeError{
				Class:  a.class.name,
				Method: a.method.String(),
				PC:     pc,
				Op:     ins.Op,
				Err:    err,
			}
		}
	}
	return nil
}

// verifyReturn checks the produced value against the declared return type.
func (a *activation) verifyReturn() error {
	ret := a.sig.ReturnType
	switch {
	case ret == classfile.TypeVoid:
		if a.hasResult {
			return fmt.Errorf("%w: void method produced %s", ErrReturnTypeMismatch, a.result)
		}
	case ret.IsInteger():
		if !a.hasResult || !(a.result.IsInteger() || a.result.IsNull()) {
			return fmt.Errorf("%w: %s method produced %s", ErrReturnTypeMismatch, ret, a.describeResult())
		}
	case ret.IsReference():
		if !a.hasResult || !a.result.IsNull() {
			return fmt.Errorf("%w: %s method produced %s", ErrReturnTypeMismatch, ret, a.describeResult())
		}
	default:
		return fmt.Errorf("%w: %s return type", ErrUnsupportedInstruction, ret)
	}
	return nil
}

func (a *activation) describeResult() string {
	if !a.hasResult {
		return "no value"
	}
	return a.result.String()
}

// ---------------------------------------------------------------------------
// Stack helpers
// ---------------------------------------------------------------------------

func (a *activation) popInt() (int64, error) {
	v, err := a.frame.Pop()
	if err != nil {
		return 0, err
	}
	n, ok := v.Integer()
	if !ok {
		return 0, wrongType(ErrWrongStackType, KindInteger, v)
	}
	return n, nil
}

// popInts pops the right operand, then the left.
func (a *activation) popInts() (left, right int64, err error) {
	if right, err = a.popInt(); err != nil {
		return
	}
	left, err = a.popInt()
	return
}

func (a *activation) load(slot int, want Kind) error {
	v, err := a.frame.Slot(slot)
	if err != nil {
		return err
	}
	if v.IsUninitialized() {
		return fmt.Errorf("%w: slot %d", ErrUndefinedSlot, slot)
	}
	if v.Kind() != want {
		return fmt.Errorf("slot %d: %w", slot, wrongType(ErrWrongSlotType, want, v))
	}
	a.frame.Push(v)
	return nil
}

func (a *activation) store(slot int, want Kind) error {
	v, err := a.frame.Pop()
	if err != nil {
		return err
	}
	if v.Kind() != want {
		return wrongType(ErrWrongStackType, want, v)
	}
	return a.frame.SetSlot(slot, v)
}

func (a *activation) ret(want Kind) error {
	v, err := a.frame.Pop()
	if err != nil {
		return err
	}
	if v.Kind() != want {
		return wrongType(ErrWrongStackType, want, v)
	}
	a.result, a.hasResult, a.done = v, true, true
	return nil
}

// ---------------------------------------------------------------------------
// Instruction semantics
// ---------------------------------------------------------------------------

func (a *activation) step(ins bytecode.Instruction) error {
	op := ins.Op
	switch {
	case op >= bytecode.OpIconstM1 && op <= bytecode.OpIconst5:
		a.frame.Push(Int(int64(op) - int64(bytecode.OpIconst0)))
		return nil
	case op >= bytecode.OpIload0 && op <= bytecode.OpIload3:
		return a.load(int(op-bytecode.OpIload0), KindInteger)
	case op >= bytecode.OpAload0 && op <= bytecode.OpAload3:
		return a.load(int(op-bytecode.OpAload0), KindNull)
	case op >= bytecode.OpIstore0 && op <= bytecode.OpIstore3:
		return a.store(int(op-bytecode.OpIstore0), KindInteger)
	case op >= bytecode.OpAstore0 && op <= bytecode.OpAstore3:
		return a.store(int(op-bytecode.OpAstore0), KindNull)
	}

	switch op {
	case bytecode.OpNop:
		return nil

	// Constants
	case bytecode.OpAconstNull:
		a.frame.Push(Null())
		return nil
	case bytecode.OpBipush, bytecode.OpSipush:
		a.frame.Push(Int(int64(ins.Operand)))
		return nil
	case bytecode.OpLdc, bytecode.OpLdcW:
		return a.ldc(uint16(ins.Operand))

	// Locals
	case bytecode.OpIload:
		return a.load(int(ins.Operand), KindInteger)
	case bytecode.OpAload:
		return a.load(int(ins.Operand), KindNull)
	case bytecode.OpIstore:
		return a.store(int(ins.Operand), KindInteger)
	case bytecode.OpAstore:
		return a.store(int(ins.Operand), KindNull)
	case bytecode.OpIinc:
		slot := int(ins.Operand)
		v, err := a.frame.Slot(slot)
		if err != nil {
			return err
		}
		if v.IsUninitialized() {
			return fmt.Errorf("%w: slot %d", ErrUndefinedSlot, slot)
		}
		n, ok := v.Integer()
		if !ok {
			return fmt.Errorf("slot %d: %w", slot, wrongType(ErrWrongSlotType, KindInteger, v))
		}
		return a.frame.SetSlot(slot, Int(n+int64(ins.Operand2)))

	// Stack
	case bytecode.OpPop:
		_, err := a.frame.Pop()
		return err
	case bytecode.OpDup:
		v, err := a.frame.Peek()
		if err != nil {
			return err
		}
		a.frame.Push(v)
		return nil
	case bytecode.OpSwap:
		top, err := a.frame.Pop()
		if err != nil {
			return err
		}
		under, err := a.frame.Pop()
		if err != nil {
			return err
		}
		a.frame.Push(top)
		a.frame.Push(under)
		return nil

	// Arithmetic
	case bytecode.OpIadd, bytecode.OpIsub, bytecode.OpImul, bytecode.OpIdiv, bytecode.OpIrem,
		bytecode.OpIand, bytecode.OpIor, bytecode.OpIxor,
		bytecode.OpIshl, bytecode.OpIshr, bytecode.OpIushr:
		left, right, err := a.popInts()
		if err != nil {
			return err
		}
		n, err := arith(op, left, right)
		if err != nil {
			return err
		}
		a.frame.Push(Int(n))
		return nil
	case bytecode.OpIneg:
		n, err := a.popInt()
		if err != nil {
			return err
		}
		a.frame.Push(Int(-n))
		return nil

	// Branches
	case bytecode.OpIfeq, bytecode.OpIfne, bytecode.OpIflt, bytecode.OpIfge, bytecode.OpIfgt, bytecode.OpIfle:
		n, err := a.popInt()
		if err != nil {
			return err
		}
		if compare(op-bytecode.OpIfeq, n, 0) {
			a.pc = ins.Target
		}
		return nil
	case bytecode.OpIfIcmpeq, bytecode.OpIfIcmpne, bytecode.OpIfIcmplt,
		bytecode.OpIfIcmpge, bytecode.OpIfIcmpgt, bytecode.OpIfIcmple:
		left, right, err := a.popInts()
		if err != nil {
			return err
		}
		if compare(op-bytecode.OpIfIcmpeq, left, right) {
			a.pc = ins.Target
		}
		return nil
	case bytecode.OpIfnull, bytecode.OpIfnonnull:
		v, err := a.frame.Pop()
		if err != nil {
			return err
		}
		if v.IsUninitialized() {
			return fmt.Errorf("%w: found %s", ErrWrongStackType, v)
		}
		if v.IsNull() == (op == bytecode.OpIfnull) {
			a.pc = ins.Target
		}
		return nil
	case bytecode.OpGoto, bytecode.OpGotoW:
		a.pc = ins.Target
		return nil
	case bytecode.OpTableswitch, bytecode.OpLookupswitch:
		n, err := a.popInt()
		if err != nil {
			return err
		}
		a.pc = ins.Switch.Lookup(n)
		return nil

	// Returns
	case bytecode.OpIreturn:
		return a.ret(KindInteger)
	case bytecode.OpAreturn:
		return a.ret(KindNull)
	case bytecode.OpReturn:
		a.done = true
		return nil

	// Invocation
	case bytecode.OpInvokestatic:
		return a.invokeStatic(uint16(ins.Operand))
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, op)
}

// arith applies a binary integer operator with 64-bit wraparound.
func arith(op bytecode.Opcode, left, right int64) (int64, error) {
	switch op {
	case bytecode.OpIadd:
		return left + right, nil
	case bytecode.OpIsub:
		return left - right, nil
	case bytecode.OpImul:
		return left * right, nil
	case bytecode.OpIdiv, bytecode.OpIrem:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		if op == bytecode.OpIdiv {
			return left / right, nil
		}
		return left % right, nil
	case bytecode.OpIand:
		return left & right, nil
	case bytecode.OpIor:
		return left | right, nil
	case bytecode.OpIxor:
		return left ^ right, nil
	case bytecode.OpIshl:
		return left << (right & 63), nil
	case bytecode.OpIshr:
		return left >> (right & 63), nil
	case bytecode.OpIushr:
		return int64(uint64(left) >> (right & 63)), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedInstruction, op)
}

// compare evaluates the condition at position cond of the eq, ne, lt, ge,
// gt, le family.
func compare(cond bytecode.Opcode, left, right int64) bool {
	switch cond {
	case 0:
		return left == right
	case 1:
		return left != right
	case 2:
		return left < right
	case 3:
		return left >= right
	case 4:
		return left > right
	default:
		return left <= right
	}
}

func (a *activation) ldc(index uint16) error {
	k, ok := a.class.file.Constant(index)
	if !ok {
		return fmt.Errorf("%w: #%d", ErrConstantOutOfRange, index)
	}
	if k.Tag != classfile.ConstantInteger {
		return fmt.Errorf("%w: ldc of %s constant #%d", ErrUnsupportedInstruction, k.Tag, index)
	}
	a.frame.Push(Int(k.Int))
	return nil
}

// ---------------------------------------------------------------------------
// Static invocation
// ---------------------------------------------------------------------------

// resolveStatic follows a Methodref to the target class and method.
func (a *activation) resolveStatic(index uint16) (*loadedClass, *classfile.Method, error) {
	cf := a.class.file
	k, ok := cf.Constant(index)
	if !ok {
		return nil, nil, fmt.Errorf("%w: #%d", ErrConstantOutOfRange, index)
	}
	if k.Tag != classfile.ConstantMethodRef && k.Tag != classfile.ConstantInterfaceMethodRef {
		return nil, nil, fmt.Errorf("%w: #%d is a %s, not a method reference", ErrUnresolvedReference, index, k.Tag)
	}

	owner, ok := a.class.symbols.Lookup(k.ClassIndex)
	if !ok {
		return nil, nil, fmt.Errorf("%w: class #%d of method reference #%d", ErrClassNotFound, k.ClassIndex, index)
	}

	if owner == a.class.name {
		m, ok := cf.MethodFromNameAndType(k.NameAndTypeIndex)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s does not declare method reference #%d", ErrMethodNotFound, owner, index)
		}
		return a.class, m, nil
	}

	name, desc, ok := cf.NameAndType(k.NameAndTypeIndex)
	if !ok {
		return nil, nil, fmt.Errorf("%w: name and type #%d", ErrUnresolvedReference, k.NameAndTypeIndex)
	}
	target, err := a.rt.lookup(owner)
	if err != nil {
		return nil, nil, err
	}
	m := target.file.FindMethod(name, desc)
	if m == nil {
		return nil, nil, fmt.Errorf("%w: %s.%s%s", ErrMethodNotFound, owner, name, desc)
	}
	return target, m, nil
}

func (a *activation) invokeStatic(index uint16) error {
	target, m, err := a.resolveStatic(index)
	if err != nil {
		return err
	}
	if !m.IsStatic() {
		return fmt.Errorf("%w: %s is not static", ErrMethodNotFound, m)
	}
	sig, err := m.Signature()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}

	n := len(sig.Arguments)
	if a.frame.Depth() < n {
		return fmt.Errorf("%w: %s needs %d arguments, stack holds %d", ErrEmptyStack, m, n, a.frame.Depth())
	}
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i], _ = a.frame.Pop()
	}
	for i, t := range sig.Arguments {
		if err := checkArgument(t, args[i]); err != nil {
			return fmt.Errorf("argument %d of %s: %w", i, m, err)
		}
	}

	v, hasValue, err := a.rt.invoke(target, m, args, a.depth+1)
	if err != nil {
		return err
	}
	if hasValue {
		a.frame.Push(v)
	}
	return nil
}

func checkArgument(t classfile.ValueType, v Value) error {
	switch {
	case t.IsInteger():
		if !v.IsInteger() {
			return wrongType(ErrWrongStackType, KindInteger, v)
		}
	case t.IsReference():
		if !v.IsNull() {
			return wrongType(ErrWrongStackType, KindNull, v)
		}
	default:
		return fmt.Errorf("%w: %s parameter", ErrUnsupportedInstruction, t)
	}
	return nil
}
