// Package engine implements Loom's execution engine (§4.E): the operand
// stack, call frames, locals/globals scoping, and the instruction dispatch
// loop tying the value model, bytecode format, heap, and built-in registry
// together.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/loom-lang/loomvm/builtin"
	"github.com/loom-lang/loomvm/bytecode"
	"github.com/loom-lang/loomvm/heap"
	"github.com/loom-lang/loomvm/value"
	"github.com/loom-lang/loomvm/vmerr"
)

// defaultMaxCallDepth bounds call-stack depth so runaway recursion surfaces
// as StackOverflow (§5 "Resource policy") instead of exhausting memory.
const defaultMaxCallDepth = 2048

// TraceEntry is one recorded TRACE instruction: the instruction pointer it
// fired at, the active function, and the operand-stack top's rendering.
// Consumed by hosts (e.g. a step-debugger) via VM.TraceLog.
type TraceEntry struct {
	Function string
	IP       int
	Top      string
}

// maxTraceEntries bounds the in-memory trace log; older entries are
// dropped once a run accumulates more than this many TRACE firings.
const maxTraceEntries = 2048

// VM holds all execution state for one program run: the operand stack, the
// call stack, globals, and the heap/registry it was constructed with.
// Grounded on the teacher's runtime VM: a growable stack, a slice of call
// frames, and a dispatch loop that walks one function's instructions until
// RETURN/HALT or an unrecovered failure.
type VM struct {
	program *bytecode.Program
	heap    *heap.Heap
	natives *builtin.Registry

	stack []value.Value
	sp    int
	frames []*frame

	globals map[string]value.Value

	trace        bool
	traceLog     []TraceEntry
	maxCallDepth int
	onBreakpoint func(ip int, function string)
}

// New constructs a VM bound to program, heap, and native registry. Globals
// are seeded from the program's Globals table; reference-valued globals are
// retained once, since the globals map is itself a holder.
func New(program *bytecode.Program, h *heap.Heap, natives *builtin.Registry) *VM {
	vm := &VM{
		program:      program,
		heap:         h,
		natives:      natives,
		globals:      make(map[string]value.Value, len(program.Globals)),
		maxCallDepth: defaultMaxCallDepth,
	}
	for name, v := range program.Globals {
		h.Retain(v)
		vm.globals[name] = v
	}
	return vm
}

// SetTrace toggles whether TRACE instructions are logged. They are recorded
// in TraceLog whether or not tracing is on.
func (vm *VM) SetTrace(on bool) { vm.trace = on }

// SetMaxCallDepth overrides the call-stack depth at which StackOverflow is
// raised. Zero or negative values are ignored.
func (vm *VM) SetMaxCallDepth(n int) {
	if n > 0 {
		vm.maxCallDepth = n
	}
}

// SetBreakpointHook installs a callback invoked by BREAKPOINT instructions,
// for an attached step-debugger. Nil disables the hook (BREAKPOINT becomes
// a no-op, per §4.E).
func (vm *VM) SetBreakpointHook(fn func(ip int, function string)) { vm.onBreakpoint = fn }

// TraceLog returns the TRACE instructions recorded so far, oldest first.
func (vm *VM) TraceLog() []TraceEntry { return vm.traceLog }

// MemoryStats reports the bound heap's live/peak object and array counts,
// the host-facing "query memory statistics" entry point of §6.
func (vm *VM) MemoryStats() heap.Stats { return vm.heap.Stats() }

// Execute runs the program's entry function (Program.Main) to completion
// and returns its result, or the first unrecovered failure per §7's
// propagation rule: any failure unwinds the dispatch loop immediately,
// abandoning remaining instructions and pending frames, and heap entries
// allocated before the failure remain allocated (a documented leak, not a
// bug). ctx is checked between instructions so a host can abandon a
// hanging run; this is a Go-idiomatic addition layered on top of the core
// loop, not a cancellation surface the engine itself defines (§5).
func (vm *VM) Execute(ctx context.Context) (value.Value, error) {
	if err := vm.Start(); err != nil {
		return value.Null, err
	}
	for {
		running, result, err := vm.StepOnce(ctx)
		if err != nil {
			return value.Null, err
		}
		if !running {
			return result, nil
		}
	}
}

// Start pushes the entry function's initial frame, without running any
// instructions. Exposed alongside StepOnce so a host (the step-debugger) can
// drive execution one instruction at a time instead of through Execute's
// run-to-completion loop. Calling Start when frames are already active is a
// no-op.
func (vm *VM) Start() error {
	if len(vm.frames) > 0 {
		return nil
	}
	fn, ok := vm.program.Functions[vm.program.Main]
	if !ok {
		return vmerr.Newf(vmerr.Runtime, "entry function %q not found", vm.program.Main)
	}
	vm.frames = append(vm.frames, &frame{
		name:   vm.program.Main,
		fn:     &fn,
		locals: make(map[string]value.Value, len(fn.Locals)),
		base:   vm.sp,
	})
	return nil
}

// StepOnce runs exactly one dispatch-loop tick: either one instruction, or
// (at the end of a function body) the implicit return it falls off into.
// running reports whether execution continues; once running is false,
// result is the program's final value and no further call to StepOnce is
// valid without calling Start again.
func (vm *VM) StepOnce(ctx context.Context) (running bool, result value.Value, err error) {
	if len(vm.frames) == 0 {
		return false, value.Null, nil
	}
	if e := ctx.Err(); e != nil {
		return false, value.Null, vmerr.Wrap(vmerr.Runtime, "execution canceled", e)
	}

	cur := vm.frames[len(vm.frames)-1]
	if cur.ip >= len(cur.fn.Instructions) {
		ret, top, e := vm.doReturn(cur)
		if e != nil {
			return false, value.Null, e
		}
		if top {
			return false, ret, nil
		}
		vm.push(ret)
		return true, value.Null, nil
	}

	instr := cur.fn.Instructions[cur.ip]
	cur.ip++

	ret, done, e := vm.step(cur, instr)
	if e != nil {
		return false, value.Null, e
	}
	if done {
		return false, ret, nil
	}
	return true, value.Null, nil
}

// CurrentFrame reports the active frame's function name and instruction
// pointer, for a host inspecting a paused VM. ok is false once execution has
// finished.
func (vm *VM) CurrentFrame() (name string, ip int, ok bool) {
	if len(vm.frames) == 0 {
		return "", 0, false
	}
	cur := vm.frames[len(vm.frames)-1]
	return cur.name, cur.ip, true
}

// OperandStack returns a snapshot of the live operand stack, bottom first.
func (vm *VM) OperandStack() []value.Value {
	out := make([]value.Value, vm.sp)
	copy(out, vm.stack[:vm.sp])
	return out
}

// Locals returns a snapshot of the active frame's locals, or nil once
// execution has finished.
func (vm *VM) Locals() map[string]value.Value {
	if len(vm.frames) == 0 {
		return nil
	}
	cur := vm.frames[len(vm.frames)-1]
	out := make(map[string]value.Value, len(cur.locals))
	for k, v := range cur.locals {
		out[k] = v
	}
	return out
}

// step executes one instruction against frame cur. done reports that
// Execute should return immediately with ret (HALT, or RETURN from the
// outermost frame).
func (vm *VM) step(cur *frame, instr bytecode.Instruction) (ret value.Value, done bool, err error) {
	switch instr.Op {

	case bytecode.OP_PUSH:
		v := instr.Literal
		vm.heap.Retain(v)
		vm.push(v)

	case bytecode.OP_POP:
		v, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		vm.heap.Release(v)

	case bytecode.OP_DUP:
		v, e := vm.peek()
		if e != nil {
			return value.Null, false, e
		}
		vm.heap.Retain(v)
		vm.push(v)

	case bytecode.OP_SWAP:
		b, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		a, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		vm.push(b)
		vm.push(a)

	case bytecode.OP_LOAD_CONST:
		if instr.Const < 0 || instr.Const >= len(vm.program.Constants) {
			return value.Null, false, vmerr.Newf(vmerr.Runtime, "LOAD_CONST %d out of range (pool has %d entries)", instr.Const, len(vm.program.Constants))
		}
		v := vm.program.Constants[instr.Const]
		vm.heap.Retain(v)
		vm.push(v)

	case bytecode.OP_LOAD_VAR:
		v, ok := cur.locals[instr.Name]
		if !ok {
			v, ok = vm.globals[instr.Name]
		}
		if !ok {
			return value.Null, false, vmerr.Newf(vmerr.UndefinedVariable, "undefined variable %q", instr.Name)
		}
		vm.heap.Retain(v)
		vm.push(v)

	case bytecode.OP_STORE_VAR:
		v, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		old, had := cur.locals[instr.Name]
		vm.heap.Retain(v)            // new locals holder
		cur.locals[instr.Name] = v
		vm.heap.Release(v)           // vacated stack holder
		if had {
			vm.heap.Release(old) // overwritten locals holder
		}

	case bytecode.OP_ADD, bytecode.OP_SUB, bytecode.OP_MUL, bytecode.OP_DIV, bytecode.OP_MOD:
		r, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		l, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		result, e := arith(instr.Op, l, r)
		if e != nil {
			return value.Null, false, e
		}
		vm.push(result)

	case bytecode.OP_NEG:
		x, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		result, e := negate(x)
		if e != nil {
			return value.Null, false, e
		}
		vm.push(result)

	case bytecode.OP_EQ, bytecode.OP_NE:
		r, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		l, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		eq := l.Equal(r)
		if instr.Op == bytecode.OP_NE {
			eq = !eq
		}
		vm.heap.Release(l)
		vm.heap.Release(r)
		vm.push(value.Bool(eq))

	case bytecode.OP_LT, bytecode.OP_LE, bytecode.OP_GT, bytecode.OP_GE:
		r, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		l, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		result, e := compareOrder(instr.Op, l, r)
		if e != nil {
			return value.Null, false, e
		}
		vm.push(result)

	case bytecode.OP_AND, bytecode.OP_OR:
		r, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		l, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		lb, lok := l.AsBool()
		rb, rok := r.AsBool()
		if !lok || !rok {
			return value.Null, false, vmerr.Newf(vmerr.TypeError, "%s requires two booleans, got %s and %s", instr.Op, l.TypeName(), r.TypeName())
		}
		var result bool
		if instr.Op == bytecode.OP_AND {
			result = lb && rb
		} else {
			result = lb || rb
		}
		vm.push(value.Bool(result))

	case bytecode.OP_NOT:
		x, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		b, ok := x.AsBool()
		if !ok {
			return value.Null, false, vmerr.Newf(vmerr.TypeError, "NOT requires a boolean, got %s", x.TypeName())
		}
		vm.push(value.Bool(!b))

	case bytecode.OP_JMP:
		if e := vm.jumpTo(cur, instr.Target); e != nil {
			return value.Null, false, e
		}

	case bytecode.OP_JMP_IF, bytecode.OP_JMP_IF_FALSE:
		v, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		truthy := v.IsTruthy()
		vm.heap.Release(v)
		want := truthy
		if instr.Op == bytecode.OP_JMP_IF_FALSE {
			want = !truthy
		}
		if want {
			if e := vm.jumpTo(cur, instr.Target); e != nil {
				return value.Null, false, e
			}
		}

	case bytecode.OP_CALL:
		if e := vm.call(instr.Name); e != nil {
			return value.Null, false, e
		}

	case bytecode.OP_CALL_NATIVE:
		if e := vm.callNative(instr.Name, instr.Size); e != nil {
			return value.Null, false, e
		}

	case bytecode.OP_RETURN:
		r, top, e := vm.doReturn(cur)
		if e != nil {
			return value.Null, false, e
		}
		if top {
			return r, true, nil
		}
		vm.push(r)

	case bytecode.OP_NEW:
		vm.push(vm.heap.AllocateObject(instr.Name))

	case bytecode.OP_GET_FIELD:
		if e := vm.getField(instr.Name); e != nil {
			return value.Null, false, e
		}

	case bytecode.OP_SET_FIELD:
		if e := vm.setField(instr.Name); e != nil {
			return value.Null, false, e
		}

	case bytecode.OP_NEW_ARRAY:
		vm.push(vm.heap.AllocateArray("", instr.Size))

	case bytecode.OP_GET_ELEMENT:
		if e := vm.getElement(); e != nil {
			return value.Null, false, e
		}

	case bytecode.OP_SET_ELEMENT:
		if e := vm.setElement(); e != nil {
			return value.Null, false, e
		}

	case bytecode.OP_GET_LENGTH:
		if e := vm.getLength(); e != nil {
			return value.Null, false, e
		}

	case bytecode.OP_IS_NULL:
		v, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		isNull := v.Kind() == value.KindNull
		vm.heap.Release(v)
		vm.push(value.Bool(isNull))

	case bytecode.OP_IS_TYPE:
		v, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		matches := v.TypeName() == instr.Name
		vm.heap.Release(v)
		vm.push(value.Bool(matches))

	case bytecode.OP_CAST:
		// No-op: per §9's resolved open question, CAST re-pushes its input
		// unchanged, so there is nothing to pop or push at all.

	case bytecode.OP_TRACE:
		vm.recordTrace(cur)

	case bytecode.OP_BREAKPOINT:
		if vm.onBreakpoint != nil {
			vm.onBreakpoint(cur.ip-1, cur.name)
		}

	case bytecode.OP_HALT:
		r := vm.drainAll()
		return r, true, nil

	case bytecode.OP_NOOP:
		// nothing

	case bytecode.OP_ALLOC, bytecode.OP_FREE, bytecode.OP_GET_METHOD:
		return value.Null, false, vmerr.NewAt(cur.ip-1, "reserved opcode "+instr.Op.String()+" has no engine semantics")

	default:
		return value.Null, false, vmerr.NewAt(cur.ip-1, "unrecognized opcode")
	}
	return value.Null, false, nil
}

// jumpTo validates and applies a branch target.
func (vm *VM) jumpTo(cur *frame, target int) error {
	if target < 0 || target > len(cur.fn.Instructions) {
		return vmerr.NewAt(cur.ip-1, "jump target out of range")
	}
	cur.ip = target
	return nil
}

// call implements CALL: resolve, bind stack-passed arguments to locals by
// declared parameter name, and push a new frame.
func (vm *VM) call(name string) error {
	fn, ok := vm.program.Functions[name]
	if !ok {
		return vmerr.Newf(vmerr.UndefinedFunction, "undefined function %q", name)
	}
	if len(vm.frames) >= vm.maxCallDepth {
		return vmerr.Newf(vmerr.StackOverflow, "call depth exceeded %d", vm.maxCallDepth)
	}
	argc := len(fn.Params)
	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, e := vm.pop()
		if e != nil {
			return e
		}
		args[i] = v
	}
	locals := make(map[string]value.Value, len(fn.Locals)+argc)
	for i, param := range fn.Params {
		v := args[i]
		vm.heap.Retain(v)  // new locals holder
		locals[param] = v
		vm.heap.Release(v) // vacated stack holder
	}
	vm.frames = append(vm.frames, &frame{name: name, fn: &fn, locals: locals, base: vm.sp})
	Logger().Debug("call", zap.String("function", name), zap.Int("depth", len(vm.frames)))
	return nil
}

// callNative implements CALL_NATIVE: pop argc stack-passed arguments
// left-to-right and route them through the built-in registry.
func (vm *VM) callNative(name string, argc int) error {
	if vm.sp < argc {
		return vmerr.New(vmerr.StackUnderflow, "operand stack underflow")
	}
	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, e := vm.pop()
		if e != nil {
			return e
		}
		args[i] = v
		vm.heap.Release(v) // consumed by the native, no engine-side holder remains
	}
	result, err := vm.natives.Call(name, args)
	if err != nil {
		return err
	}
	vm.heap.Retain(result)
	vm.push(result)
	return nil
}

// doReturn tears down frame cur: the return value is the top of its
// operand-stack region (or Null if empty), any excess intermediate values
// left on the stack and every local are released (frame teardown per the
// Addendum to §9), and the frame is popped. top reports whether this was
// the outermost frame.
func (vm *VM) doReturn(cur *frame) (ret value.Value, top bool, err error) {
	ret = value.Null
	if vm.sp > cur.base {
		v, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		ret = v
	}
	for vm.sp > cur.base {
		v, e := vm.pop()
		if e != nil {
			return value.Null, false, e
		}
		vm.heap.Release(v)
	}
	for _, v := range cur.locals {
		vm.heap.Release(v)
	}
	vm.frames = vm.frames[:len(vm.frames)-1]
	Logger().Debug("return", zap.String("function", cur.name), zap.String("value", ret.Render()))
	return ret, len(vm.frames) == 0, nil
}

// drainAll implements HALT's "immediate orderly termination of the
// outermost execution": release every remaining operand-stack value and
// every active frame's locals, then stop.
func (vm *VM) drainAll() value.Value {
	ret := value.Null
	if vm.sp > 0 {
		ret, _ = vm.pop()
	}
	for vm.sp > 0 {
		v, _ := vm.pop()
		vm.heap.Release(v)
	}
	for _, fr := range vm.frames {
		for _, v := range fr.locals {
			vm.heap.Release(v)
		}
	}
	vm.frames = nil
	return ret
}

func (vm *VM) getField(name string) error {
	objRef, e := vm.pop()
	if e != nil {
		return e
	}
	if objRef.Kind() != value.KindObjectRef {
		return vmerr.Newf(vmerr.TypeError, "GET_FIELD requires an object reference, got %s", objRef.TypeName())
	}
	obj, ok := vm.heap.GetObject(objRef.RefID())
	if !ok {
		return vmerr.Newf(vmerr.Runtime, "dereference of dangling object reference #%d", objRef.RefID())
	}
	fieldVal, ok := obj.Fields[name]
	if !ok {
		return vmerr.Newf(vmerr.Runtime, "object #%d has no field %q", objRef.RefID(), name)
	}
	vm.heap.Retain(fieldVal)
	vm.push(fieldVal)
	vm.heap.Release(objRef)
	return nil
}

func (vm *VM) setField(name string) error {
	val, e := vm.pop()
	if e != nil {
		return e
	}
	objRef, e := vm.pop()
	if e != nil {
		return e
	}
	if objRef.Kind() != value.KindObjectRef {
		return vmerr.Newf(vmerr.TypeError, "SET_FIELD requires an object reference, got %s", objRef.TypeName())
	}
	obj, ok := vm.heap.GetObject(objRef.RefID())
	if !ok {
		return vmerr.Newf(vmerr.Runtime, "dereference of dangling object reference #%d", objRef.RefID())
	}
	old, had := obj.Fields[name]
	vm.heap.Retain(val) // new field holder
	obj.Fields[name] = val
	if e := vm.heap.UpdateObject(obj); e != nil {
		return e
	}
	vm.heap.Retain(val) // re-pushed holder
	vm.push(val)
	vm.heap.Release(val) // vacated original stack holder
	if had {
		vm.heap.Release(old)
	}
	vm.heap.Release(objRef)
	return nil
}

func (vm *VM) getElement() error {
	idx, e := vm.pop()
	if e != nil {
		return e
	}
	arrRef, e := vm.pop()
	if e != nil {
		return e
	}
	if arrRef.Kind() != value.KindArrayRef {
		return vmerr.Newf(vmerr.TypeError, "GET_ELEMENT requires an array reference, got %s", arrRef.TypeName())
	}
	i, ok := idx.AsInt()
	if !ok {
		return vmerr.Newf(vmerr.TypeError, "GET_ELEMENT index must be an integer, got %s", idx.TypeName())
	}
	arr, ok := vm.heap.GetArray(arrRef.RefID())
	if !ok {
		return vmerr.Newf(vmerr.Runtime, "dereference of dangling array reference #%d", arrRef.RefID())
	}
	if i < 0 || int(i) >= len(arr.Elements) {
		return vmerr.Newf(vmerr.Runtime, "array index %d out of bounds (length %d)", i, len(arr.Elements))
	}
	val := arr.Elements[i]
	vm.heap.Retain(val)
	vm.push(val)
	vm.heap.Release(arrRef)
	return nil
}

func (vm *VM) setElement() error {
	val, e := vm.pop()
	if e != nil {
		return e
	}
	idx, e := vm.pop()
	if e != nil {
		return e
	}
	arrRef, e := vm.pop()
	if e != nil {
		return e
	}
	if arrRef.Kind() != value.KindArrayRef {
		return vmerr.Newf(vmerr.TypeError, "SET_ELEMENT requires an array reference, got %s", arrRef.TypeName())
	}
	i, ok := idx.AsInt()
	if !ok {
		return vmerr.Newf(vmerr.TypeError, "SET_ELEMENT index must be an integer, got %s", idx.TypeName())
	}
	arr, ok := vm.heap.GetArray(arrRef.RefID())
	if !ok {
		return vmerr.Newf(vmerr.Runtime, "dereference of dangling array reference #%d", arrRef.RefID())
	}
	if i < 0 || int(i) >= len(arr.Elements) {
		return vmerr.Newf(vmerr.Runtime, "array index %d out of bounds (length %d)", i, len(arr.Elements))
	}
	old := arr.Elements[i]
	vm.heap.Retain(val) // new element holder
	arr.Elements[i] = val
	if e := vm.heap.UpdateArray(arr); e != nil {
		return e
	}
	vm.heap.Retain(val) // re-pushed holder
	vm.push(val)
	vm.heap.Release(val) // vacated original stack holder
	vm.heap.Release(old)
	vm.heap.Release(arrRef)
	return nil
}

func (vm *VM) getLength() error {
	arrRef, e := vm.pop()
	if e != nil {
		return e
	}
	if arrRef.Kind() != value.KindArrayRef {
		return vmerr.Newf(vmerr.TypeError, "GET_LENGTH requires an array reference, got %s", arrRef.TypeName())
	}
	arr, ok := vm.heap.GetArray(arrRef.RefID())
	if !ok {
		return vmerr.Newf(vmerr.Runtime, "dereference of dangling array reference #%d", arrRef.RefID())
	}
	vm.heap.Release(arrRef)
	vm.push(value.Int(int64(len(arr.Elements))))
	return nil
}

func (vm *VM) recordTrace(cur *frame) {
	top := "<empty>"
	if vm.sp > 0 {
		top = vm.stack[vm.sp-1].Render()
	}
	entry := TraceEntry{Function: cur.name, IP: cur.ip - 1, Top: top}
	if vm.trace {
		Logger().Debug("trace", zap.String("function", entry.Function), zap.Int("ip", entry.IP), zap.String("top", entry.Top))
	}
	vm.traceLog = append(vm.traceLog, entry)
	if len(vm.traceLog) > maxTraceEntries {
		vm.traceLog = vm.traceLog[len(vm.traceLog)-maxTraceEntries:]
	}
}

// push grows the operand stack as needed.
func (vm *VM) push(v value.Value) {
	if vm.sp == len(vm.stack) {
		vm.stack = append(vm.stack, v)
	} else {
		vm.stack[vm.sp] = v
	}
	vm.sp++
}

// pop removes and returns the top of the operand stack, or StackUnderflow
// if empty. Callers are responsible for any heap retain/release bookkeeping
// the popped value's removal implies.
func (vm *VM) pop() (value.Value, error) {
	if vm.sp == 0 {
		return value.Null, vmerr.New(vmerr.StackUnderflow, "operand stack underflow")
	}
	vm.sp--
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = value.Null
	return v, nil
}

// peek returns the top of the operand stack without removing it.
func (vm *VM) peek() (value.Value, error) {
	if vm.sp == 0 {
		return value.Null, vmerr.New(vmerr.StackUnderflow, "operand stack underflow")
	}
	return vm.stack[vm.sp-1], nil
}
