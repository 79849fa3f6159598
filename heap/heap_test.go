package heap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loomvm/heap"
	"github.com/loom-lang/loomvm/value"
)

func TestAllocateObjectStartsAtRefCountOne(t *testing.T) {
	h := heap.New()
	ref := h.AllocateObject("Point")
	obj, ok := h.GetObject(ref.RefID())
	require.True(t, ok)
	assert.Equal(t, uint32(1), obj.RefCount)
	assert.Equal(t, "Point", obj.ClassName)
	assert.Empty(t, obj.Fields)
}

func TestAllocateArrayFillsWithNull(t *testing.T) {
	h := heap.New()
	ref := h.AllocateArray("int", 3)
	arr, ok := h.GetArray(ref.RefID())
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)
	for _, e := range arr.Elements {
		assert.Equal(t, value.Null, e)
	}
}

func TestIDsAreMonotonicPerStore(t *testing.T) {
	h := heap.New()
	a := h.AllocateObject("A")
	b := h.AllocateObject("B")
	assert.Less(t, a.RefID(), b.RefID())

	x := h.AllocateArray("int", 0)
	y := h.AllocateArray("int", 0)
	assert.Less(t, x.RefID(), y.RefID())
}

func TestUpdateObjectNotFound(t *testing.T) {
	h := heap.New()
	err := h.UpdateObject(heap.Object{ID: 999})
	require.Error(t, err)
}

func TestUpdateObjectReplacesEntry(t *testing.T) {
	h := heap.New()
	ref := h.AllocateObject("Point")
	obj, _ := h.GetObject(ref.RefID())
	obj.Fields["x"] = value.Int(5)
	require.NoError(t, h.UpdateObject(obj))

	reread, ok := h.GetObject(ref.RefID())
	require.True(t, ok)
	x, ok := reread.Fields["x"]
	require.True(t, ok)
	assert.Equal(t, value.Int(5), x)
}

func TestRetainReleaseDrivesEntryToZero(t *testing.T) {
	h := heap.New()
	ref := h.AllocateObject("Point")
	h.Retain(ref) // refcount 2

	h.Release(ref) // back to 1
	_, ok := h.GetObject(ref.RefID())
	assert.True(t, ok, "entry survives while refcount > 0")

	h.Release(ref) // refcount 0, removed
	_, ok = h.GetObject(ref.RefID())
	assert.False(t, ok, "entry removed once refcount reaches 0")
}

func TestRetainReleaseNoopOnNonReference(t *testing.T) {
	h := heap.New()
	assert.NotPanics(t, func() {
		h.Retain(value.Int(3))
		h.Release(value.Int(3))
	})
}

func TestStatsTracksLiveAndPeak(t *testing.T) {
	h := heap.New()
	a := h.AllocateObject("A")
	h.AllocateObject("B")
	h.Release(a)

	stats := h.Stats()
	assert.Equal(t, 1, stats.LiveObjects)
	assert.Equal(t, 2, stats.PeakObjects)
	assert.Equal(t, 0, stats.GCInvocations)
}

func TestGetObjectSnapshotDoesNotAliasHeap(t *testing.T) {
	h := heap.New()
	ref := h.AllocateObject("Point")
	obj, _ := h.GetObject(ref.RefID())
	obj.Fields["x"] = value.Int(99) // mutate the snapshot only

	reread, _ := h.GetObject(ref.RefID())
	_, present := reread.Fields["x"]
	assert.False(t, present, "mutating a snapshot must not mutate the heap")
}
