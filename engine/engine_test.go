package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loomvm/builtin"
	"github.com/loom-lang/loomvm/bytecode"
	"github.com/loom-lang/loomvm/engine"
	"github.com/loom-lang/loomvm/heap"
	"github.com/loom-lang/loomvm/value"
	"github.com/loom-lang/loomvm/vmerr"
)

func run(t *testing.T, fn bytecode.Function) (value.Value, error, *heap.Heap) {
	t.Helper()
	prog := &bytecode.Program{
		Name:      "test",
		Version:   1,
		Main:      "main",
		Functions: map[string]bytecode.Function{"main": fn},
	}
	h := heap.New()
	vm := engine.New(prog, h, builtin.NewRegistry())
	result, err := vm.Execute(context.Background())
	return result, err, h
}

func mainFn(instrs ...bytecode.Instruction) bytecode.Function {
	return bytecode.Function{Name: "main", Instructions: instrs}
}

// Scenario 1: arithmetic.
func TestArithmeticScenario(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.Int(3)),
		bytecode.Push(value.Int(4)),
		bytecode.Simple(bytecode.OP_ADD),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	result, err, _ := run(t, fn)
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(7), n)
}

// Scenario 2: control flow.
func TestControlFlowScenario(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.Bool(true)), // 0
		bytecode.Jump(bytecode.OP_JMP_IF_FALSE, 4), // 1
		bytecode.Push(value.Int(1)),     // 2
		bytecode.Jump(bytecode.OP_JMP, 5), // 3
		bytecode.Push(value.Int(2)),     // 4
		bytecode.Simple(bytecode.OP_RETURN), // 5
	)
	result, err, _ := run(t, fn)
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(1), n)
}

// Scenario 3: object round-trip.
func TestObjectRoundTripScenario(t *testing.T) {
	fn := mainFn(
		bytecode.Named(bytecode.OP_NEW, "Point"),
		bytecode.Simple(bytecode.OP_DUP),
		bytecode.Push(value.Int(5)),
		bytecode.Named(bytecode.OP_SET_FIELD, "x"),
		bytecode.Simple(bytecode.OP_POP),
		bytecode.Named(bytecode.OP_GET_FIELD, "x"),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	result, err, h := run(t, fn)
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(5), n)
	assert.Equal(t, 0, h.Stats().LiveObjects, "the object should have been released once unreferenced")
}

// Scenario 4: array write-then-read.
func TestArrayWriteThenReadScenario(t *testing.T) {
	fn := mainFn(
		bytecode.Sized(3),
		bytecode.Simple(bytecode.OP_DUP),
		bytecode.Push(value.Int(1)),
		bytecode.Push(value.Int(42)),
		bytecode.Simple(bytecode.OP_SET_ELEMENT),
		bytecode.Simple(bytecode.OP_POP),
		bytecode.Push(value.Int(1)),
		bytecode.Simple(bytecode.OP_GET_ELEMENT),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	result, err, h := run(t, fn)
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(42), n)
	assert.Equal(t, 0, h.Stats().LiveArrays)
}

// Scenario 5: division by zero.
func TestDivisionByZeroScenario(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.Int(10)),
		bytecode.Push(value.Int(0)),
		bytecode.Simple(bytecode.OP_DIV),
	)
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.DivisionByZero, ve.Kind())
}

// Scenario 6: native call.
func TestNativeCallScenario(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.String("hi")),
		bytecode.NativeCall("toUpperCase", 1),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	result, err, _ := run(t, fn)
	require.NoError(t, err)
	s, _ := result.AsString()
	assert.Equal(t, "HI", s)
}

func TestPopOnEmptyStackIsStackUnderflow(t *testing.T) {
	fn := mainFn(bytecode.Simple(bytecode.OP_POP))
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.StackUnderflow, ve.Kind())
}

func TestModByZeroIsDivisionByZero(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.Int(10)),
		bytecode.Push(value.Int(0)),
		bytecode.Simple(bytecode.OP_MOD),
	)
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.DivisionByZero, ve.Kind())
}

func TestGetElementOutOfBoundsIsRuntime(t *testing.T) {
	fn := mainFn(
		bytecode.Sized(2),
		bytecode.Push(value.Int(5)),
		bytecode.Simple(bytecode.OP_GET_ELEMENT),
	)
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.Runtime, ve.Kind())
}

func TestCallUndeclaredFunctionIsUndefinedFunction(t *testing.T) {
	fn := mainFn(bytecode.Named(bytecode.OP_CALL, "missing"))
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.UndefinedFunction, ve.Kind())
}

func TestLoadVarUndeclaredIsUndefinedVariable(t *testing.T) {
	fn := mainFn(bytecode.Named(bytecode.OP_LOAD_VAR, "missing"))
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.UndefinedVariable, ve.Kind())
}

func TestLoadConstOutOfRangeIsRuntime(t *testing.T) {
	fn := mainFn(bytecode.LoadConst(0))
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.Runtime, ve.Kind())
}

func TestStoreVarNeverWritesGlobals(t *testing.T) {
	prog := &bytecode.Program{
		Name: "test",
		Main: "main",
		Globals: map[string]value.Value{"x": value.Int(1)},
		Functions: map[string]bytecode.Function{
			"main": mainFn(
				bytecode.Push(value.Int(99)),
				bytecode.Named(bytecode.OP_STORE_VAR, "x"),
				bytecode.Named(bytecode.OP_LOAD_VAR, "x"),
				bytecode.Simple(bytecode.OP_RETURN),
			),
		},
	}
	h := heap.New()
	vm := engine.New(prog, h, builtin.NewRegistry())
	result, err := vm.Execute(context.Background())
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(99), n, "STORE_VAR writes locals, which shadow the global of the same name")
}

func TestFloatArithmeticIsNotTruncated(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.Float(1.5)),
		bytecode.Push(value.Float(1.5)),
		bytecode.Simple(bytecode.OP_ADD),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	result, err, _ := run(t, fn)
	require.NoError(t, err)
	f, _ := result.AsFloat()
	assert.Equal(t, 3.0, f, "float operands must not be truncated to integer before arithmetic")
}

func TestAddTwoStringsIsTypeError(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.String("a")),
		bytecode.Push(value.String("b")),
		bytecode.Simple(bytecode.OP_ADD),
	)
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.TypeError, ve.Kind(), "ADD is not defined for two strings at the instruction level")
}

func TestReservedOpcodeIsInvalidInstruction(t *testing.T) {
	fn := mainFn(bytecode.Simple(bytecode.OP_ALLOC))
	_, err, _ := run(t, fn)
	require.Error(t, err)
	var ve *vmerr.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, vmerr.InvalidInstruction, ve.Kind())
	assert.Equal(t, 0, ve.Offset())
}

func TestCastIsNoop(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.Int(9)),
		bytecode.Named(bytecode.OP_CAST, "int"),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	result, err, _ := run(t, fn)
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(9), n)
}

func TestUserFunctionCallBindsParamsByName(t *testing.T) {
	prog := &bytecode.Program{
		Name: "test",
		Main: "main",
		Functions: map[string]bytecode.Function{
			"main": mainFn(
				bytecode.Push(value.Int(10)),
				bytecode.Push(value.Int(32)),
				bytecode.Named(bytecode.OP_CALL, "add"),
				bytecode.Simple(bytecode.OP_RETURN),
			),
			"add": {
				Name:   "add",
				Params: []string{"a", "b"},
				Instructions: []bytecode.Instruction{
					bytecode.Named(bytecode.OP_LOAD_VAR, "a"),
					bytecode.Named(bytecode.OP_LOAD_VAR, "b"),
					bytecode.Simple(bytecode.OP_ADD),
					bytecode.Simple(bytecode.OP_RETURN),
				},
			},
		},
	}
	h := heap.New()
	vm := engine.New(prog, h, builtin.NewRegistry())
	result, err := vm.Execute(context.Background())
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(42), n)
}

func TestHaltTerminatesImmediately(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.Int(1)),
		bytecode.Simple(bytecode.OP_HALT),
		bytecode.Push(value.Int(2)), // never reached
		bytecode.Simple(bytecode.OP_RETURN),
	)
	result, err, _ := run(t, fn)
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(1), n)
}

func TestTraceLogRecordsWithoutConsumingStack(t *testing.T) {
	fn := mainFn(
		bytecode.Push(value.Int(7)),
		bytecode.Simple(bytecode.OP_TRACE),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	prog := &bytecode.Program{Name: "test", Main: "main", Functions: map[string]bytecode.Function{"main": fn}}
	vm := engine.New(prog, heap.New(), builtin.NewRegistry())
	vm.SetTrace(true)
	result, err := vm.Execute(context.Background())
	require.NoError(t, err)
	n, _ := result.AsInt()
	assert.Equal(t, int64(7), n)
	require.Len(t, vm.TraceLog(), 1)
	assert.Equal(t, "7", vm.TraceLog()[0].Top)
}
