package engine

import (
	"math"

	"github.com/loom-lang/loomvm/bytecode"
	"github.com/loom-lang/loomvm/value"
	"github.com/loom-lang/loomvm/vmerr"
)

// arith implements ADD/SUB/MUL/DIV/MOD per §4.E: integer⊗integer stays
// integer, any float operand widens the whole operation to float. This is
// the corrected numeric path — the source funnels everything through an
// integer operator and truncates floats first; that defect is not
// reproduced here.
func arith(op bytecode.OpCode, l, r value.Value) (value.Value, error) {
	li, lIsInt := l.AsInt()
	ri, rIsInt := r.AsInt()
	if lIsInt && rIsInt {
		switch op {
		case bytecode.OP_ADD:
			return value.Int(li + ri), nil
		case bytecode.OP_SUB:
			return value.Int(li - ri), nil
		case bytecode.OP_MUL:
			return value.Int(li * ri), nil
		case bytecode.OP_DIV:
			if ri == 0 {
				return value.Null, vmerr.New(vmerr.DivisionByZero, "integer division by zero")
			}
			return value.Int(li / ri), nil
		case bytecode.OP_MOD:
			if ri == 0 {
				return value.Null, vmerr.New(vmerr.DivisionByZero, "integer modulo by zero")
			}
			return value.Int(li % ri), nil
		}
	}

	lf, lok := l.AsNumber()
	rf, rok := r.AsNumber()
	if !lok || !rok {
		return value.Null, vmerr.Newf(vmerr.TypeError, "%s requires numeric operands, got %s and %s", op, l.TypeName(), r.TypeName())
	}
	switch op {
	case bytecode.OP_ADD:
		return value.Float(lf + rf), nil
	case bytecode.OP_SUB:
		return value.Float(lf - rf), nil
	case bytecode.OP_MUL:
		return value.Float(lf * rf), nil
	case bytecode.OP_DIV:
		if rf == 0 {
			return value.Null, vmerr.New(vmerr.DivisionByZero, "float division by zero")
		}
		return value.Float(lf / rf), nil
	case bytecode.OP_MOD:
		if rf == 0 {
			return value.Null, vmerr.New(vmerr.DivisionByZero, "float modulo by zero")
		}
		return value.Float(math.Mod(lf, rf)), nil
	}
	return value.Null, vmerr.Newf(vmerr.Runtime, "arith: unexpected opcode %s", op)
}

// negate implements NEG.
func negate(x value.Value) (value.Value, error) {
	if i, ok := x.AsInt(); ok {
		return value.Int(-i), nil
	}
	if f, ok := x.AsFloat(); ok {
		return value.Float(-f), nil
	}
	return value.Null, vmerr.Newf(vmerr.TypeError, "NEG requires a numeric operand, got %s", x.TypeName())
}

// compareOrder implements LT/LE/GT/GE: numeric operands widen per ADD's
// rule, strings compare lexicographically, anything else is TypeError.
func compareOrder(op bytecode.OpCode, l, r value.Value) (value.Value, error) {
	if lf, lok := l.AsNumber(); lok {
		if rf, rok := r.AsNumber(); rok {
			return value.Bool(orderNumeric(op, lf, rf)), nil
		}
	}
	if ls, lok := l.AsString(); lok {
		if rs, rok := r.AsString(); rok {
			return value.Bool(orderString(op, ls, rs)), nil
		}
	}
	return value.Null, vmerr.Newf(vmerr.TypeError, "%s requires two numbers or two strings, got %s and %s", op, l.TypeName(), r.TypeName())
}

func orderNumeric(op bytecode.OpCode, l, r float64) bool {
	switch op {
	case bytecode.OP_LT:
		return l < r
	case bytecode.OP_LE:
		return l <= r
	case bytecode.OP_GT:
		return l > r
	case bytecode.OP_GE:
		return l >= r
	default:
		return false
	}
}

func orderString(op bytecode.OpCode, l, r string) bool {
	switch op {
	case bytecode.OP_LT:
		return l < r
	case bytecode.OP_LE:
		return l <= r
	case bytecode.OP_GT:
		return l > r
	case bytecode.OP_GE:
		return l >= r
	default:
		return false
	}
}
