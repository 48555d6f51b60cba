package vm

import (
	"fmt"
	"strings"

	"github.com/chazu/kaffee/classfile"
)

// Frame holds the local-variable slots and operand stack of one method
// call. A Frame never outlives the call that created it.
type Frame struct {
	slots []Value
	stack []Value
}

// NewFrame allocates a frame with the given number of slots, all
// Uninitialized, and an empty operand stack. stackHint only sizes the
// initial allocation; the stack grows as needed.
func NewFrame(slotCount, stackHint int) *Frame {
	return &Frame{
		slots: make([]Value, max(slotCount, 0)),
		stack: make([]Value, 0, max(stackHint, 0)),
	}
}

// FrameForMethod allocates a frame shaped by the method's Code and copies
// args into the low slots in order. Passing more arguments than the method
// has slots is a caller bug and panics.
func FrameForMethod(m *classfile.Method, args []Value) *Frame {
	var locals, stack int
	if m.Code != nil {
		locals, stack = int(m.Code.MaxLocals), int(m.Code.MaxStack)
	}
	if len(args) > locals {
		panic(fmt.Sprintf("vm: %d arguments for %s with %d local slots", len(args), m, locals))
	}
	f := NewFrame(locals, stack)
	copy(f.slots, args)
	return f
}

// SlotCount returns the number of local-variable slots.
func (f *Frame) SlotCount() int {
	return len(f.slots)
}

// Slot returns the value in slot i.
func (f *Frame) Slot(i int) (Value, error) {
	if i < 0 || i >= len(f.slots) {
		return Value{}, fmt.Errorf("%w: slot %d of %d", ErrSlotOutOfRange, i, len(f.slots))
	}
	return f.slots[i], nil
}

// SetSlot stores v in slot i.
func (f *Frame) SetSlot(i int, v Value) error {
	if i < 0 || i >= len(f.slots) {
		return fmt.Errorf("%w: slot %d of %d", ErrSlotOutOfRange, i, len(f.slots))
	}
	f.slots[i] = v
	return nil
}

// Push pushes v onto the operand stack.
func (f *Frame) Push(v Value) {
	f.stack = append(f.stack, v)
}

// Pop removes and returns the top of the operand stack.
func (f *Frame) Pop() (Value, error) {
	if len(f.stack) == 0 {
		return Value{}, ErrEmptyStack
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v, nil
}

// Peek returns the top of the operand stack without removing it.
func (f *Frame) Peek() (Value, error) {
	if len(f.stack) == 0 {
		return Value{}, ErrEmptyStack
	}
	return f.stack[len(f.stack)-1], nil
}

// Depth returns the operand stack height.
func (f *Frame) Depth() int {
	return len(f.stack)
}

// String renders the frame for trace output.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.WriteString("slots=[")
	for i, v := range f.slots {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString("] stack=[")
	for i, v := range f.stack {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString("]")
	return sb.String()
}
