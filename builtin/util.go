package builtin

import (
	"math/rand/v2"
	"time"

	"github.com/loom-lang/loomvm/value"
)

// registerUtil installs the utility natives of §4.D's addendum, grounded
// in the teacher's libraries/time.go (now/sleep registration idiom).
func (r *Registry) registerUtil() {
	r.fns["random"] = func(args []value.Value) (value.Value, error) {
		return value.Float(rand.Float64()), nil
	}

	r.fns["now"] = func(args []value.Value) (value.Value, error) {
		return value.Float(float64(time.Now().UnixNano()) / 1e9), nil
	}

	r.fns["sleep"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("sleep", args, 1); err != nil {
			return value.Null, err
		}
		seconds, err := requireNumber("sleep", args[0])
		if err != nil {
			return value.Null, err
		}
		time.Sleep(time.Duration(seconds * float64(time.Second)))
		return value.Null, nil
	}
}
