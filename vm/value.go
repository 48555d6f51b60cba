package vm

import "fmt"

// Kind is the tag of a Value.
type Kind uint8

const (
	KindUninitialized Kind = iota
	KindNull
	KindInteger
)

var kindNames = [...]string{
	KindUninitialized: "Uninitialized",
	KindNull:          "Null",
	KindInteger:       "Integer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is the tagged value held by local-variable slots and operand-stack
// entries. The zero Value is Uninitialized.
type Value struct {
	kind Kind
	n    int64
}

// Int returns an Integer value.
func Int(n int64) Value {
	return Value{kind: KindInteger, n: n}
}

// Null returns the null reference.
func Null() Value {
	return Value{kind: KindNull}
}

// Kind returns the tag of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Integer returns the payload of an Integer value. ok is false for any
// other tag.
func (v Value) Integer() (n int64, ok bool) {
	return v.n, v.kind == KindInteger
}

// IsInteger reports whether v is an Integer.
func (v Value) IsInteger() bool { return v.kind == KindInteger }

// IsNull reports whether v is the null reference.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsUninitialized reports whether v was never written.
func (v Value) IsUninitialized() bool { return v.kind == KindUninitialized }

func (v Value) String() string {
	if v.kind == KindInteger {
		return fmt.Sprintf("Integer(%d)", v.n)
	}
	return v.kind.String()
}
