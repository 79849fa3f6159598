package builtin

import (
	"fmt"
	"strings"

	"github.com/loom-lang/loomvm/value"
)

// registerConsole installs print/println/printf/read_line, grounded in the
// teacher's libraries/time.go registration pattern (plain closures over
// host resources, no interpreter coupling).
func (r *Registry) registerConsole() {
	r.fns["print"] = func(args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Render()
		}
		fmt.Print(strings.Join(parts, ""))
		return value.Null, nil
	}

	r.fns["println"] = func(args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Render()
		}
		fmt.Println(strings.Join(parts, ""))
		return value.Null, nil
	}

	// printf substitutes "{}" placeholders left-to-right, teacher-style,
	// not Go %v verbs.
	r.fns["printf"] = func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Null, arityError("printf", 1, 0)
		}
		format, err := requireString("printf", args[0])
		if err != nil {
			return value.Null, err
		}
		rest := args[1:]
		var b strings.Builder
		argIdx := 0
		for i := 0; i < len(format); i++ {
			if format[i] == '{' && i+1 < len(format) && format[i+1] == '}' {
				if argIdx < len(rest) {
					b.WriteString(rest[argIdx].Render())
					argIdx++
				}
				i++
				continue
			}
			b.WriteByte(format[i])
		}
		fmt.Print(b.String())
		return value.Null, nil
	}

	r.fns["read_line"] = func(args []value.Value) (value.Value, error) {
		line, err := r.stdin.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil && line == "" {
			return value.String(""), nil
		}
		return value.String(line), nil
	}
}
