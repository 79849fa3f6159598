package bytecode

import (
	"fmt"

	"github.com/loom-lang/loomvm/value"
)

// Access is function/field visibility metadata. The engine never enforces
// it (§3, §9 "Access control") — it is carried for host tooling only.
type Access uint8

const (
	Public Access = iota
	Private
	Protected
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return "public"
	}
}

// MarshalJSON renders Access by name for the textual encoding of §6.
func (a Access) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON parses Access by name.
func (a *Access) UnmarshalJSON(data []byte) error {
	name := string(data)
	name = name[1 : len(name)-1]
	switch name {
	case "public":
		*a = Public
	case "private":
		*a = Private
	case "protected":
		*a = Protected
	default:
		return fmt.Errorf("bytecode: unknown access level %q", name)
	}
	return nil
}

// Function is a named, compiled function: its declared parameters and
// locals, its instruction sequence, and access metadata the engine does
// not enforce.
type Function struct {
	Name         string
	Params       []string
	Locals       []string
	Instructions []Instruction
	ReturnType   string // optional; empty means unspecified
	Access       Access
}

// Field is a class field descriptor. Metadata only — the instruction set
// never consults it (§3 "Classes are metadata").
type Field struct {
	TypeName string
	Access   Access
	Final    bool
	Default  value.Value
	HasDefault bool
}

// Class is metadata only in the core: the dispatch loop never queries it
// for field validation or method dispatch (§3, §9 "Classes are metadata").
// It is still decoded and carried because GET_METHOD is a reserved opcode
// a future richer VM would wire to it.
type Class struct {
	Name        string
	Parent      string // empty means no parent
	Fields      map[string]Field
	Methods     map[string]Function
	Constructor *Function // nil if none declared
}

// Program is the decoded artifact: everything §3/§6 says a Loom program
// file carries.
type Program struct {
	Name      string
	Version   uint32
	Constants []value.Value
	Functions map[string]Function
	Classes   map[string]Class
	Main      string
	Globals   map[string]value.Value
}
