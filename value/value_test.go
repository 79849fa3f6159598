package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loomvm/value"
)

func TestTruthiness(t *testing.T) {
	falsy := []value.Value{
		value.Bool(false),
		value.Null,
		value.Int(0),
		value.Float(0),
		value.String(""),
	}
	for _, v := range falsy {
		assert.Falsef(t, v.IsTruthy(), "%s should be falsy", v.Render())
	}

	truthy := []value.Value{
		value.Bool(true),
		value.Int(1),
		value.Int(-1),
		value.Float(0.1),
		value.String("0"),
		value.String("false"),
		value.ObjectRef(0),
		value.ArrayRef(0),
		value.FunctionRef(0),
	}
	for _, v := range truthy {
		assert.Truef(t, v.IsTruthy(), "%s should be truthy", v.Render())
	}
}

func TestTruthinessIsDeterministic(t *testing.T) {
	v := value.String("hi")
	assert.Equal(t, v.IsTruthy(), v.IsTruthy())
}

func TestTypeName(t *testing.T) {
	cases := map[value.Value]string{
		value.Int(1):            "int",
		value.Float(1):          "float",
		value.Bool(true):        "bool",
		value.String("x"):       "string",
		value.Null:              "null",
		value.ObjectRef(1):      "object",
		value.ArrayRef(1):       "array",
		value.FunctionRef(1):    "function",
	}
	for v, want := range cases {
		assert.Equal(t, want, v.TypeName())
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, "7", value.Int(7).Render())
	assert.Equal(t, "true", value.Bool(true).Render())
	assert.Equal(t, "false", value.Bool(false).Render())
	assert.Equal(t, "null", value.Null.Render())
	assert.Equal(t, "hi", value.String("hi").Render())
	assert.Equal(t, "object#3", value.ObjectRef(3).Render())
	assert.Equal(t, "array#4", value.ArrayRef(4).Render())
	assert.Equal(t, "function#5", value.FunctionRef(5).Render())
}

func TestEqualStructuralAndIdentity(t *testing.T) {
	assert.True(t, value.Int(3).Equal(value.Int(3)))
	assert.False(t, value.Int(3).Equal(value.Int(4)))
	assert.False(t, value.Int(3).Equal(value.Float(3)), "differing variants are never equal")
	assert.True(t, value.ObjectRef(9).Equal(value.ObjectRef(9)), "references compare by ID")
	assert.False(t, value.ObjectRef(9).Equal(value.ObjectRef(10)))
}

func TestRefIDPanicsOnNonRef(t *testing.T) {
	assert.Panics(t, func() { value.Int(1).RefID() })
}

func TestAsNumberWidensInt(t *testing.T) {
	f, ok := value.Int(5).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 5.0, f)
}
