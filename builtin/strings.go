package builtin

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/loom-lang/loomvm/value"
	"github.com/loom-lang/loomvm/vmerr"
)

// registerStrings installs the string natives of §4.D's addendum.
// toUpperCase/toLowerCase go through golang.org/x/text/cases for
// Unicode-correct folding rather than strings.ToUpper/ToLower's
// byte-oriented simple mapping.
func (r *Registry) registerStrings() {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	r.fns["length"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("length", args, 1); err != nil {
			return value.Null, err
		}
		s, err := requireString("length", args[0])
		if err != nil {
			return value.Null, err
		}
		return value.Int(int64(len([]rune(s)))), nil
	}

	r.fns["toUpperCase"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("toUpperCase", args, 1); err != nil {
			return value.Null, err
		}
		s, err := requireString("toUpperCase", args[0])
		if err != nil {
			return value.Null, err
		}
		return value.String(upper.String(s)), nil
	}

	r.fns["toLowerCase"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("toLowerCase", args, 1); err != nil {
			return value.Null, err
		}
		s, err := requireString("toLowerCase", args[0])
		if err != nil {
			return value.Null, err
		}
		return value.String(lower.String(s)), nil
	}

	r.fns["substring"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("substring", args, 3); err != nil {
			return value.Null, err
		}
		s, err := requireString("substring", args[0])
		if err != nil {
			return value.Null, err
		}
		start, err := requireNumber("substring", args[1])
		if err != nil {
			return value.Null, err
		}
		end, err := requireNumber("substring", args[2])
		if err != nil {
			return value.Null, err
		}
		runes := []rune(s)
		lo, hi := int(start), int(end)
		if lo < 0 || hi > len(runes) || lo > hi {
			return value.Null, vmerr.New(vmerr.Runtime, "substring: index out of bounds")
		}
		return value.String(string(runes[lo:hi])), nil
	}

	r.fns["indexOf"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("indexOf", args, 2); err != nil {
			return value.Null, err
		}
		s, err := requireString("indexOf", args[0])
		if err != nil {
			return value.Null, err
		}
		sub, err := requireString("indexOf", args[1])
		if err != nil {
			return value.Null, err
		}
		byteIdx := strings.Index(s, sub)
		if byteIdx < 0 {
			return value.Int(-1), nil
		}
		// Re-expressed as a rune index, not a byte offset, so it composes
		// directly with length/substring's rune-based indexing.
		return value.Int(int64(utf8.RuneCountInString(s[:byteIdx]))), nil
	}

	r.fns["replace"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("replace", args, 3); err != nil {
			return value.Null, err
		}
		s, err := requireString("replace", args[0])
		if err != nil {
			return value.Null, err
		}
		old, err := requireString("replace", args[1])
		if err != nil {
			return value.Null, err
		}
		repl, err := requireString("replace", args[2])
		if err != nil {
			return value.Null, err
		}
		return value.String(strings.ReplaceAll(s, old, repl)), nil
	}

	r.fns["trim"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("trim", args, 1); err != nil {
			return value.Null, err
		}
		s, err := requireString("trim", args[0])
		if err != nil {
			return value.Null, err
		}
		return value.String(strings.TrimSpace(s)), nil
	}

	r.fns["isEmpty"] = func(args []value.Value) (value.Value, error) {
		if err := requireArity("isEmpty", args, 1); err != nil {
			return value.Null, err
		}
		s, err := requireString("isEmpty", args[0])
		if err != nil {
			return value.Null, err
		}
		return value.Bool(s == ""), nil
	}

	// concat is the built-in's own string+string support, distinct from
	// the ADD instruction which raises TypeError on two strings (§9).
	r.fns["concat"] = func(args []value.Value) (value.Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteString(a.Render())
		}
		return value.String(b.String()), nil
	}
}
