package vmerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loomvm/vmerr"
)

func TestErrorIsNilSafe(t *testing.T) {
	var e *vmerr.Error
	assert.Equal(t, "vm error: unknown", e.Error())
}

func TestInvalidInstructionCarriesOffset(t *testing.T) {
	e := vmerr.NewAt(42, "ALLOC")
	assert.Equal(t, vmerr.InvalidInstruction, e.Kind())
	assert.Equal(t, 42, e.Offset())
	assert.Contains(t, e.Error(), "42")
	assert.Contains(t, e.Error(), "ALLOC")
}

func TestOffsetIsMinusOneForOtherKinds(t *testing.T) {
	e := vmerr.New(vmerr.DivisionByZero, "div by zero")
	assert.Equal(t, -1, e.Offset())
}

func TestCombineNilWhenAllNil(t *testing.T) {
	assert.Nil(t, vmerr.Combine(vmerr.InvalidBytecode, "decode failed", nil, nil))
}

func TestCombineMergesCauses(t *testing.T) {
	binErr := errors.New("bad magic")
	jsonErr := errors.New("unexpected token")
	combined := vmerr.Combine(vmerr.InvalidBytecode, "decode failed", binErr, jsonErr)
	require.NotNil(t, combined)
	assert.Equal(t, vmerr.InvalidBytecode, combined.Kind())
	assert.Contains(t, combined.Error(), "bad magic")
	assert.Contains(t, combined.Error(), "unexpected token")
}
