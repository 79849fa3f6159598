package value

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// wireValue is the on-disk shape of a Value, tagged with the variant's
// name per §6: "Value wire representation... Tagged with the variant's
// name; Integer is signed 64-bit, Float is IEEE-754 64-bit, String is
// UTF-8... references carry a 64-bit unsigned ID." Value's real fields are
// unexported (so program code can't construct an inconsistent tag/payload
// pairing), so encoding/gob and encoding/json both go through this
// exported mirror instead.
type wireValue struct {
	Kind  string
	Int   int64   `json:",omitempty"`
	Float float64 `json:",omitempty"`
	Bool  bool    `json:",omitempty"`
	Str   string  `json:",omitempty"`
	Ref   uint64  `json:",omitempty"`
}

func (v Value) toWire() wireValue {
	w := wireValue{Kind: v.kind.String()}
	switch v.kind {
	case KindInt:
		w.Int = v.i
	case KindFloat:
		w.Float = v.f
	case KindBool:
		w.Bool = v.b
	case KindString:
		w.Str = v.s
	case KindObjectRef, KindArrayRef, KindFunctionRef:
		w.Ref = v.ref
	}
	return w
}

func kindFromWireName(name string) (Kind, error) {
	switch name {
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "bool":
		return KindBool, nil
	case "string":
		return KindString, nil
	case "null":
		return KindNull, nil
	case "object":
		return KindObjectRef, nil
	case "array":
		return KindArrayRef, nil
	case "function":
		return KindFunctionRef, nil
	default:
		return 0, fmt.Errorf("value: unknown wire kind %q", name)
	}
}

func fromWire(w wireValue) (Value, error) {
	k, err := kindFromWireName(w.Kind)
	if err != nil {
		return Value{}, err
	}
	switch k {
	case KindInt:
		return Int(w.Int), nil
	case KindFloat:
		return Float(w.Float), nil
	case KindBool:
		return Bool(w.Bool), nil
	case KindString:
		return String(w.Str), nil
	case KindNull:
		return Null, nil
	case KindObjectRef:
		return ObjectRef(w.Ref), nil
	case KindArrayRef:
		return ArrayRef(w.Ref), nil
	case KindFunctionRef:
		return FunctionRef(w.Ref), nil
	default:
		return Value{}, fmt.Errorf("value: unhandled kind %v", k)
	}
}

// MarshalJSON implements the textual wire representation of §6.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toWire())
}

// UnmarshalJSON implements the textual wire representation of §6.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := fromWire(w)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// GobEncode implements the compact binary wire representation of §6.
func (v Value) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v.toWire()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the compact binary wire representation of §6.
func (v *Value) GobDecode(data []byte) error {
	var w wireValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	parsed, err := fromWire(w)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
