package bytecode

import (
	"sort"

	"github.com/loom-lang/loomvm/value"
)

// programWire is the canonical on-disk shape of Program (§6 addendum):
// every map (Functions, Classes, Globals, and Class's own Fields/Methods)
// is flattened into a name-sorted slice before encoding. encoding/gob
// iterates Go maps in unspecified order, so gob-encoding a Program's maps
// directly would make the binary artifact's byte layout nondeterministic
// across re-encodes of the very same program — breaking §8's "loading a
// saved artifact then re-saving via the same codec yields a
// byte-identical artifact" property and Checksum's stability. Sorting by
// name before encoding makes both the binary and textual forms
// deterministic.
type programWire struct {
	Name      string
	Version   uint32
	Constants []value.Value
	Functions []namedFunction
	Classes   []namedClass
	Main      string
	Globals   []namedGlobal
}

type namedFunction struct {
	Name     string
	Function Function
}

type namedClass struct {
	Name  string
	Class classWire
}

type namedGlobal struct {
	Name  string
	Value value.Value
}

type namedField struct {
	Name  string
	Field Field
}

// classWire mirrors Class with Fields/Methods flattened the same way.
type classWire struct {
	Name        string
	Parent      string
	Fields      []namedField
	Methods     []namedFunction
	Constructor *Function
}

func toProgramWire(prog *Program) programWire {
	w := programWire{
		Name:      prog.Name,
		Version:   prog.Version,
		Constants: prog.Constants,
		Main:      prog.Main,
	}
	for name, fn := range prog.Functions {
		w.Functions = append(w.Functions, namedFunction{Name: name, Function: fn})
	}
	sort.Slice(w.Functions, func(i, j int) bool { return w.Functions[i].Name < w.Functions[j].Name })

	for name, cls := range prog.Classes {
		w.Classes = append(w.Classes, namedClass{Name: name, Class: toClassWire(cls)})
	}
	sort.Slice(w.Classes, func(i, j int) bool { return w.Classes[i].Name < w.Classes[j].Name })

	for name, v := range prog.Globals {
		w.Globals = append(w.Globals, namedGlobal{Name: name, Value: v})
	}
	sort.Slice(w.Globals, func(i, j int) bool { return w.Globals[i].Name < w.Globals[j].Name })

	return w
}

func toClassWire(c Class) classWire {
	w := classWire{Name: c.Name, Parent: c.Parent, Constructor: c.Constructor}
	for name, f := range c.Fields {
		w.Fields = append(w.Fields, namedField{Name: name, Field: f})
	}
	sort.Slice(w.Fields, func(i, j int) bool { return w.Fields[i].Name < w.Fields[j].Name })

	for name, fn := range c.Methods {
		w.Methods = append(w.Methods, namedFunction{Name: name, Function: fn})
	}
	sort.Slice(w.Methods, func(i, j int) bool { return w.Methods[i].Name < w.Methods[j].Name })

	return w
}

func fromProgramWire(w programWire) *Program {
	prog := &Program{
		Name:      w.Name,
		Version:   w.Version,
		Constants: w.Constants,
		Main:      w.Main,
		Functions: make(map[string]Function, len(w.Functions)),
		Classes:   make(map[string]Class, len(w.Classes)),
		Globals:   make(map[string]value.Value, len(w.Globals)),
	}
	for _, nf := range w.Functions {
		prog.Functions[nf.Name] = nf.Function
	}
	for _, nc := range w.Classes {
		prog.Classes[nc.Name] = fromClassWire(nc.Class)
	}
	for _, ng := range w.Globals {
		prog.Globals[ng.Name] = ng.Value
	}
	return prog
}

func fromClassWire(w classWire) Class {
	c := Class{
		Name:        w.Name,
		Parent:      w.Parent,
		Constructor: w.Constructor,
		Fields:      make(map[string]Field, len(w.Fields)),
		Methods:     make(map[string]Function, len(w.Methods)),
	}
	for _, nf := range w.Fields {
		c.Fields[nf.Name] = nf.Field
	}
	for _, nm := range w.Methods {
		c.Methods[nm.Name] = nm.Function
	}
	return c
}
