// Package builtin implements the native registry and calling contract of
// §4.D: a name-to-native mapping invoked by CALL_NATIVE, with arity and
// type errors the native's own responsibility.
package builtin

import (
	"bufio"
	"os"

	"go.uber.org/zap"

	"github.com/loom-lang/loomvm/value"
	"github.com/loom-lang/loomvm/vmerr"
)

// Native is the uniform calling contract of §4.D: an ordered Value
// sequence in, a Value or a failure kind out.
type Native func(args []value.Value) (value.Value, error)

// Registry is a name -> Native mapping, populated at VM construction with
// the documented set of §4.D (console I/O, arithmetic/transcendentals,
// string operations, type predicates, and utilities).
type Registry struct {
	fns   map[string]Native
	stdin *bufio.Reader
}

// NewRegistry builds the default registry, grounded in the teacher's
// libraries/fmaths.go and libraries/time.go registration idiom — the
// concrete list is SPEC_FULL.md's Addendum to §4.D.
func NewRegistry() *Registry {
	r := &Registry{
		fns:   make(map[string]Native),
		stdin: bufio.NewReader(os.Stdin),
	}
	r.registerConsole()
	r.registerMath()
	r.registerStrings()
	r.registerTypes()
	r.registerUtil()
	Logger().Debug("native registry built", zap.Int("count", len(r.fns)))
	return r
}

// Register installs a native function under name, overwriting any
// previous registration. Exposed so a host can extend the registry
// without the core needing to know the concrete library (§1 scope: "the
// concrete list of built-in library functions... is out of scope").
func (r *Registry) Register(name string, fn Native) {
	r.fns[name] = fn
}

// Lookup resolves name to a Native, or reports it is undefined.
func (r *Registry) Lookup(name string) (Native, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Call resolves name and invokes it, converting an unknown name into a
// Runtime error that names what it tried to resolve (CALL_NATIVE's own
// resolution failure is distinct from UndefinedFunction, which is
// reserved for CALL against the user function table per §7).
func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	fn, ok := r.fns[name]
	if !ok {
		Logger().Warn("unknown native function", zap.String("name", name))
		return value.Null, vmerr.Newf(vmerr.Runtime, "unknown native function %q", name)
	}
	return fn(args)
}

func arityError(name string, want int, got int) error {
	return vmerr.Newf(vmerr.Runtime, "%s expects %d argument(s), got %d", name, want, got)
}

func typeError(name string, detail string) error {
	return vmerr.Newf(vmerr.TypeError, "%s: %s", name, detail)
}

func requireArity(name string, args []value.Value, n int) error {
	if len(args) != n {
		return arityError(name, n, len(args))
	}
	return nil
}

func requireNumber(name string, v value.Value) (float64, error) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, typeError(name, "expected a number, got "+v.TypeName())
	}
	return n, nil
}

func requireString(name string, v value.Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", typeError(name, "expected a string, got "+v.TypeName())
	}
	return s, nil
}
