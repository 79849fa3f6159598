package engine

import (
	"github.com/loom-lang/loomvm/bytecode"
	"github.com/loom-lang/loomvm/value"
)

// frame is one function invocation's bookkeeping per §4.E: the function
// being run, the instruction pointer into it, the locals map for this
// invocation, and the operand-stack height at entry, which RETURN unwinds
// the shared stack back down to. Stack pops do not check this base, so an
// instruction in this frame can still pop values below it.
type frame struct {
	name   string
	fn     *bytecode.Function
	ip     int
	locals map[string]value.Value
	base   int
}
