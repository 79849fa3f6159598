package bytecode

import (
	"fmt"

	"github.com/loom-lang/loomvm/value"
)

// OpCode identifies a Loom instruction. Grouped the way the teacher's
// runtime/bytecode.go groups its OpCode iota block: core opcodes first,
// then the families §4.E describes.
type OpCode uint8

const (
	// Stack.
	OP_PUSH OpCode = iota
	OP_POP
	OP_DUP
	OP_SWAP

	// Constants & variables.
	OP_LOAD_CONST
	OP_LOAD_VAR
	OP_STORE_VAR

	// Arithmetic.
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_NEG

	// Comparison.
	OP_EQ
	OP_NE
	OP_LT
	OP_LE
	OP_GT
	OP_GE

	// Logical.
	OP_AND
	OP_OR
	OP_NOT

	// Control flow.
	OP_JMP
	OP_JMP_IF
	OP_JMP_IF_FALSE

	// Function calls.
	OP_CALL
	OP_CALL_NATIVE
	OP_RETURN

	// Object/array operations.
	OP_NEW
	OP_GET_FIELD
	OP_SET_FIELD
	OP_NEW_ARRAY
	OP_GET_ELEMENT
	OP_SET_ELEMENT
	OP_GET_LENGTH

	// Type operations.
	OP_IS_NULL
	OP_IS_TYPE
	OP_CAST

	// Debug and control.
	OP_TRACE
	OP_BREAKPOINT
	OP_HALT
	OP_NOOP

	// Reserved, no coherent engine semantics (§9 "Unused slots"). Decoded
	// successfully so a program containing them loads; executing one
	// raises InvalidInstruction.
	OP_ALLOC
	OP_FREE
	OP_GET_METHOD
)

var opNames = map[OpCode]string{
	OP_PUSH:         "PUSH",
	OP_POP:          "POP",
	OP_DUP:          "DUP",
	OP_SWAP:         "SWAP",
	OP_LOAD_CONST:   "LOAD_CONST",
	OP_LOAD_VAR:     "LOAD_VAR",
	OP_STORE_VAR:    "STORE_VAR",
	OP_ADD:          "ADD",
	OP_SUB:          "SUB",
	OP_MUL:          "MUL",
	OP_DIV:          "DIV",
	OP_MOD:          "MOD",
	OP_NEG:          "NEG",
	OP_EQ:           "EQ",
	OP_NE:           "NE",
	OP_LT:           "LT",
	OP_LE:           "LE",
	OP_GT:           "GT",
	OP_GE:           "GE",
	OP_AND:          "AND",
	OP_OR:           "OR",
	OP_NOT:          "NOT",
	OP_JMP:          "JMP",
	OP_JMP_IF:       "JMP_IF",
	OP_JMP_IF_FALSE: "JMP_IF_FALSE",
	OP_CALL:         "CALL",
	OP_CALL_NATIVE:  "CALL_NATIVE",
	OP_RETURN:       "RETURN",
	OP_NEW:          "NEW",
	OP_GET_FIELD:    "GET_FIELD",
	OP_SET_FIELD:    "SET_FIELD",
	OP_NEW_ARRAY:    "NEW_ARRAY",
	OP_GET_ELEMENT:  "GET_ELEMENT",
	OP_SET_ELEMENT:  "SET_ELEMENT",
	OP_GET_LENGTH:   "GET_LENGTH",
	OP_IS_NULL:      "IS_NULL",
	OP_IS_TYPE:      "IS_TYPE",
	OP_CAST:         "CAST",
	OP_TRACE:        "TRACE",
	OP_BREAKPOINT:   "BREAKPOINT",
	OP_HALT:         "HALT",
	OP_NOOP:         "NOOP",
	OP_ALLOC:        "ALLOC",
	OP_FREE:         "FREE",
	OP_GET_METHOD:   "GET_METHOD",
}

func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "?"
}

var opByName = func() map[string]OpCode {
	m := make(map[string]OpCode, len(opNames))
	for op, name := range opNames {
		m[name] = op
	}
	return m
}()

// MarshalJSON renders the opcode by name, keeping the textual encoding of
// §6 human-readable rather than a bare integer.
func (op OpCode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + op.String() + `"`), nil
}

// UnmarshalJSON parses the opcode by name.
func (op *OpCode) UnmarshalJSON(data []byte) error {
	name := string(data)
	name = name[1 : len(name)-1] // strip surrounding quotes
	decoded, ok := opByName[name]
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %q", name)
	}
	*op = decoded
	return nil
}

// Instruction is one decoded bytecode instruction: an opcode plus its
// operands. Operands are interpreted per-opcode: an index into the
// constant pool (LOAD_CONST), a variable/field/class/native name
// (LOAD_VAR, STORE_VAR, GET_FIELD, SET_FIELD, NEW, CALL, CALL_NATIVE,
// IS_TYPE, CAST), an absolute instruction offset (JMP, JMP_IF,
// JMP_IF_FALSE), a literal (PUSH, NEW_ARRAY size), or nothing at all.
type Instruction struct {
	Op      OpCode
	Const   int          // constant-pool index, where applicable
	Name    string       // variable/field/class/function/native name, where applicable
	Target  int          // absolute jump target, where applicable
	Literal value.Value  // inline literal for PUSH
	Size    int          // element count for NEW_ARRAY
}

// Push builds a PUSH instruction carrying a literal value.
func Push(v value.Value) Instruction { return Instruction{Op: OP_PUSH, Literal: v} }

// LoadConst builds a LOAD_CONST instruction.
func LoadConst(idx int) Instruction { return Instruction{Op: OP_LOAD_CONST, Const: idx} }

// Jump builds a JMP/JMP_IF/JMP_IF_FALSE instruction to an absolute offset.
func Jump(op OpCode, target int) Instruction { return Instruction{Op: op, Target: target} }

// Named builds an instruction whose sole operand is a name (LOAD_VAR,
// STORE_VAR, CALL, CALL_NATIVE, NEW, GET_FIELD, SET_FIELD, IS_TYPE, CAST).
func Named(op OpCode, name string) Instruction { return Instruction{Op: op, Name: name} }

// Sized builds a NEW_ARRAY instruction with the requested element count.
func Sized(size int) Instruction { return Instruction{Op: OP_NEW_ARRAY, Size: size} }

// NativeCall builds a CALL_NATIVE instruction. §4.E leaves the native's
// argument count to be "determined by the native"; since the dispatch loop
// cannot inspect a Go closure's arity, the compiler that emits this
// instruction is required to encode it here, in Size, alongside the name.
func NativeCall(name string, argc int) Instruction {
	return Instruction{Op: OP_CALL_NATIVE, Name: name, Size: argc}
}

// Simple builds a zero-operand instruction (POP, DUP, SWAP, arithmetic,
// comparison, logical, RETURN, GET_LENGTH, IS_NULL, TRACE, BREAKPOINT,
// HALT, NOOP).
func Simple(op OpCode) Instruction { return Instruction{Op: op} }
