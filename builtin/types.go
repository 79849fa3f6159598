package builtin

import "github.com/loom-lang/loomvm/value"

// registerTypes installs the type-predicate natives of §4.D's addendum.
func (r *Registry) registerTypes() {
	predicate := map[string]value.Kind{
		"isNumber":  value.KindFloat, // checked specially below (int or float)
		"isString":  value.KindString,
		"isBoolean": value.KindBool,
		"isNull":    value.KindNull,
		"isObject":  value.KindObjectRef,
		"isArray":   value.KindArrayRef,
	}
	for name, kind := range predicate {
		name, kind := name, kind
		r.fns[name] = func(args []value.Value) (value.Value, error) {
			if err := requireArity(name, args, 1); err != nil {
				return value.Null, err
			}
			if name == "isNumber" {
				_, ok := args[0].AsNumber()
				return value.Bool(ok), nil
			}
			return value.Bool(args[0].Kind() == kind), nil
		}
	}

	r.fns["typeOf"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("typeOf", args, 1); err != nil {
			return value.Null, err
		}
		return value.String(args[0].TypeName()), nil
	}
}
