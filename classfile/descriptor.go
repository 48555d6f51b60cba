package classfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDescriptor is returned for malformed field or method descriptors.
var ErrInvalidDescriptor = errors.New("invalid descriptor")

// ValueType is the type of a method parameter or return value as declared
// by its descriptor.
type ValueType uint8

const (
	TypeVoid ValueType = iota
	TypeBoolean
	TypeByte
	TypeChar
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeReference
	TypeArray
)

func (t ValueType) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeBoolean:
		return "boolean"
	case TypeByte:
		return "byte"
	case TypeChar:
		return "char"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeReference:
		return "reference"
	case TypeArray:
		return "array"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// IsInteger reports whether values of this type are carried as integers.
func (t ValueType) IsInteger() bool {
	switch t {
	case TypeBoolean, TypeByte, TypeChar, TypeShort, TypeInt, TypeLong:
		return true
	}
	return false
}

// IsReference reports whether values of this type are object or array references.
func (t ValueType) IsReference() bool {
	return t == TypeReference || t == TypeArray
}

// Signature is a parsed method descriptor.
type Signature struct {
	Arguments  []ValueType
	ReturnType ValueType
}

// String renders the signature as "(int, int) -> int".
func (s Signature) String() string {
	parts := make([]string, len(s.Arguments))
	for i, a := range s.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), s.ReturnType)
}

// ParseMethodDescriptor parses a descriptor such as "(ILjava/lang/String;[J)V".
func ParseMethodDescriptor(desc string) (Signature, error) {
	var sig Signature
	if len(desc) == 0 || desc[0] != '(' {
		return sig, fmt.Errorf("%w: %q does not start with '('", ErrInvalidDescriptor, desc)
	}

	pos := 1
	for {
		if pos >= len(desc) {
			return sig, fmt.Errorf("%w: %q has no closing ')'", ErrInvalidDescriptor, desc)
		}
		if desc[pos] == ')' {
			pos++
			break
		}
		t, n, err := parseFieldType(desc, pos)
		if err != nil {
			return sig, err
		}
		sig.Arguments = append(sig.Arguments, t)
		pos = n
	}

	if pos < len(desc) && desc[pos] == 'V' {
		sig.ReturnType = TypeVoid
		pos++
	} else {
		t, n, err := parseFieldType(desc, pos)
		if err != nil {
			return sig, err
		}
		sig.ReturnType = t
		pos = n
	}

	if pos != len(desc) {
		return sig, fmt.Errorf("%w: trailing characters in %q", ErrInvalidDescriptor, desc)
	}
	return sig, nil
}

// parseFieldType parses one field type starting at pos and returns the
// position just after it.
func parseFieldType(desc string, pos int) (ValueType, int, error) {
	if pos >= len(desc) {
		return 0, pos, fmt.Errorf("%w: %q ends inside a type", ErrInvalidDescriptor, desc)
	}
	switch desc[pos] {
	case 'Z':
		return TypeBoolean, pos + 1, nil
	case 'B':
		return TypeByte, pos + 1, nil
	case 'C':
		return TypeChar, pos + 1, nil
	case 'S':
		return TypeShort, pos + 1, nil
	case 'I':
		return TypeInt, pos + 1, nil
	case 'J':
		return TypeLong, pos + 1, nil
	case 'F':
		return TypeFloat, pos + 1, nil
	case 'D':
		return TypeDouble, pos + 1, nil
	case 'L':
		end := strings.IndexByte(desc[pos:], ';')
		if end <= 1 {
			return 0, pos, fmt.Errorf("%w: unterminated class type in %q", ErrInvalidDescriptor, desc)
		}
		return TypeReference, pos + end + 1, nil
	case '[':
		_, n, err := parseFieldType(desc, pos+1)
		if err != nil {
			return 0, pos, err
		}
		return TypeArray, n, nil
	default:
		return 0, pos, fmt.Errorf("%w: unexpected %q at %d in %q", ErrInvalidDescriptor, desc[pos], pos, desc)
	}
}
