// Package value implements Loom's tagged runtime value type.
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindObjectRef
	KindArrayRef
	KindFunctionRef
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindObjectRef:
		return "object"
	case KindArrayRef:
		return "array"
	case KindFunctionRef:
		return "function"
	default:
		return "?"
	}
}

// Value is a tagged sum of Loom's primitive and reference variants. The
// zero Value is Null. Values are freely copyable by assignment; copying a
// reference variant does not adjust the heap entry's reference count —
// retention is explicit (see the heap package).
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	ref  uint64
}

// Int constructs an Integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float constructs a Float value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Bool constructs a Boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// String constructs a String value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Null is the singular Null value.
var Null = Value{kind: KindNull}

// ObjectRef constructs a reference to an object heap entry by ID.
func ObjectRef(id uint64) Value { return Value{kind: KindObjectRef, ref: id} }

// ArrayRef constructs a reference to an array heap entry by ID.
func ArrayRef(id uint64) Value { return Value{kind: KindArrayRef, ref: id} }

// FunctionRef constructs a function-reference value. Unused by the dispatch
// loop today; present for forward compatibility per §3.
func FunctionRef(id uint64) Value { return Value{kind: KindFunctionRef, ref: id} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsRef reports whether v is one of the reference variants (object, array,
// or function).
func (v Value) IsRef() bool {
	switch v.kind {
	case KindObjectRef, KindArrayRef, KindFunctionRef:
		return true
	default:
		return false
	}
}

// RefID returns the heap ID carried by a reference variant. Panics if v is
// not a reference variant — callers must check IsRef or Kind first.
func (v Value) RefID() uint64 {
	if !v.IsRef() {
		panic("value: RefID called on non-reference Value")
	}
	return v.ref
}

// AsInt returns the Integer payload and whether v is an Integer.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the Float payload and whether v is a Float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsNumber returns v widened to float64 for any numeric variant.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsBool returns the Boolean payload and whether v is a Boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsString returns the String payload and whether v is a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// TypeName reports one of int|float|bool|string|null|object|function|array
// per §3. Total — never fails.
func (v Value) TypeName() string { return v.kind.String() }

// IsTruthy implements §3's truthiness rules: false, null, integer 0, float
// 0.0, and the empty string are falsy; everything else (including every
// reference variant) is truthy. Total and deterministic.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNull:
		return false
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	default:
		return true
	}
}

// Render formats v per §3's string-rendering rules: numbers in their
// natural textual form, booleans as true/false, null as "null", references
// as "<kind>#<id>".
func (v Value) Render() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindString:
		return v.s
	case KindNull:
		return "null"
	case KindObjectRef:
		return fmt.Sprintf("object#%d", v.ref)
	case KindArrayRef:
		return fmt.Sprintf("array#%d", v.ref)
	case KindFunctionRef:
		return fmt.Sprintf("function#%d", v.ref)
	default:
		return "?"
	}
}

// Equal implements §4.E's structural-for-primitives, identity-for-references
// equality: false across differing variants, including int vs float. Only
// the ordering comparisons (LT/LE/GT/GE) widen mixed numeric operands; EQ/NE
// do not.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindNull:
		return true
	case KindObjectRef, KindArrayRef, KindFunctionRef:
		return v.ref == other.ref
	default:
		return false
	}
}
