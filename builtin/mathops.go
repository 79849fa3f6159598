package builtin

import (
	"math"

	"github.com/loom-lang/loomvm/value"
)

// registerMath installs arithmetic/transcendental natives, grounded in the
// teacher's libraries/fmaths.go (one closure per function, arity/type
// checked the same way the teacher checks NumberVal assertions).
func (r *Registry) registerMath() {
	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"sqrt":  math.Sqrt,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"log":   math.Log,
		"log2":  math.Log2,
		"log10": math.Log10,
		"exp":   math.Exp,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
	}
	for name, fn := range unary {
		name, fn := name, fn
		r.fns[name] = func(args []value.Value) (value.Value, error) {
			if err := requireArity(name, args, 1); err != nil {
				return value.Null, err
			}
			x, err := requireNumber(name, args[0])
			if err != nil {
				return value.Null, err
			}
			return value.Float(fn(x)), nil
		}
	}

	r.fns["pow"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("pow", args, 2); err != nil {
			return value.Null, err
		}
		x, err := requireNumber("pow", args[0])
		if err != nil {
			return value.Null, err
		}
		y, err := requireNumber("pow", args[1])
		if err != nil {
			return value.Null, err
		}
		return value.Float(math.Pow(x, y)), nil
	}

	r.fns["min"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("min", args, 2); err != nil {
			return value.Null, err
		}
		x, err := requireNumber("min", args[0])
		if err != nil {
			return value.Null, err
		}
		y, err := requireNumber("min", args[1])
		if err != nil {
			return value.Null, err
		}
		return value.Float(math.Min(x, y)), nil
	}

	r.fns["max"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("max", args, 2); err != nil {
			return value.Null, err
		}
		x, err := requireNumber("max", args[0])
		if err != nil {
			return value.Null, err
		}
		y, err := requireNumber("max", args[1])
		if err != nil {
			return value.Null, err
		}
		return value.Float(math.Max(x, y)), nil
	}
}
