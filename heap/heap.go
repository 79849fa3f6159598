// Package heap implements the two ID-keyed object/array stores of §4.C:
// allocation, snapshot reads, replace-on-update, and reference counting.
package heap

import (
	"sync"

	"go.uber.org/zap"

	"github.com/loom-lang/loomvm/value"
	"github.com/loom-lang/loomvm/vmerr"
)

// Object is a heap object entry: its assigned ID, the class name given at
// allocation time, its field map, and a reference count.
type Object struct {
	ID        uint64
	ClassName string
	Fields    map[string]value.Value
	RefCount  uint32
}

// Array is a heap array entry: its assigned ID, an informational element
// type name, its elements, and a reference count.
type Array struct {
	ID       uint64
	ElemType string
	Elements []value.Value
	RefCount uint32
}

// Stats reports live/peak counts for the host's "query memory statistics"
// entry point (§6). GCInvocations is always 0: the heap is pure reference
// counting with no cycle collector (§1 Non-goals, §9 "Cycles").
type Stats struct {
	LiveObjects   int
	LiveArrays    int
	PeakObjects   int
	PeakArrays    int
	GCInvocations int
}

// Heap is the reference-counted object/array store. The stores are
// protected by reader/writer locks per §4.C/§5 so that a future embedding
// with auxiliary threads observing the heap (a profiler, a cooperating
// host) can do so safely; within a single engine invocation there is no
// lock contention.
type Heap struct {
	mu         sync.RWMutex
	objects    map[uint64]*Object
	arrays     map[uint64]*Array
	nextObjID  uint64
	nextArrID  uint64
	peakObjects int
	peakArrays  int
}

// New constructs an empty Heap. IDs for both stores start at 1 and are
// monotonically increasing and never reused for the Heap's lifetime.
func New() *Heap {
	return &Heap{
		objects: make(map[uint64]*Object),
		arrays:  make(map[uint64]*Array),
	}
}

func (h *Heap) logger() *zap.Logger { return Logger() }

// AllocateObject creates a new object of the given class, ref-count 1, an
// empty field map, and returns its reference value.
func (h *Heap) AllocateObject(className string) value.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextObjID++
	id := h.nextObjID
	h.objects[id] = &Object{ID: id, ClassName: className, Fields: make(map[string]value.Value), RefCount: 1}
	if len(h.objects) > h.peakObjects {
		h.peakObjects = len(h.objects)
	}
	h.logger().Debug("allocated object", zap.Uint64("id", id), zap.String("class", className))
	return value.ObjectRef(id)
}

// AllocateArray creates a new array of size elements, each initialized to
// Null, ref-count 1, and returns its reference value.
func (h *Heap) AllocateArray(elemType string, size int) value.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextArrID++
	id := h.nextArrID
	elems := make([]value.Value, size)
	for i := range elems {
		elems[i] = value.Null
	}
	h.arrays[id] = &Array{ID: id, ElemType: elemType, Elements: elems, RefCount: 1}
	if len(h.arrays) > h.peakArrays {
		h.peakArrays = len(h.arrays)
	}
	h.logger().Debug("allocated array", zap.Uint64("id", id), zap.Int("size", size))
	return value.ArrayRef(id)
}

// GetObject returns a snapshot copy of the object entry for id, or false
// if absent. The field map is copied so callers cannot mutate the heap's
// internal state except through UpdateObject.
func (h *Heap) GetObject(id uint64) (Object, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obj, ok := h.objects[id]
	if !ok {
		return Object{}, false
	}
	return cloneObject(obj), true
}

// GetArray returns a snapshot copy of the array entry for id, or false if
// absent.
func (h *Heap) GetArray(id uint64) (Array, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	arr, ok := h.arrays[id]
	if !ok {
		return Array{}, false
	}
	return cloneArray(arr), true
}

// UpdateObject replaces the stored entry for entry.ID with entry, or fails
// with Runtime("...not found") if absent (§4.C).
func (h *Heap) UpdateObject(entry Object) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.objects[entry.ID]; !ok {
		return vmerr.Newf(vmerr.Runtime, "object %d not found", entry.ID)
	}
	stored := cloneObject(&entry)
	h.objects[entry.ID] = &stored
	return nil
}

// UpdateArray replaces the stored entry for entry.ID with entry, or fails
// with Runtime("...not found") if absent (§4.C).
func (h *Heap) UpdateArray(entry Array) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.arrays[entry.ID]; !ok {
		return vmerr.Newf(vmerr.Runtime, "array %d not found", entry.ID)
	}
	stored := cloneArray(&entry)
	h.arrays[entry.ID] = &stored
	return nil
}

// Retain increments the heap entry's reference count for reference
// variants; it is a no-op for non-reference values. Per the Addendum to
// §9, the engine calls Retain on every insertion of a reference value into
// a holder (stack push, local/global store, field/element write).
func (h *Heap) Retain(v value.Value) {
	if !v.IsRef() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	switch v.Kind() {
	case value.KindObjectRef:
		if obj, ok := h.objects[v.RefID()]; ok {
			obj.RefCount++
		}
	case value.KindArrayRef:
		if arr, ok := h.arrays[v.RefID()]; ok {
			arr.RefCount++
		}
	case value.KindFunctionRef:
		// FunctionRef is currently unused by the dispatch loop (§3); no
		// heap entry backs it, so there is nothing to retain.
	}
}

// Release decrements the heap entry's reference count for reference
// variants, removing the entry once it reaches zero; no-op for
// non-reference values.
func (h *Heap) Release(v value.Value) {
	if !v.IsRef() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	switch v.Kind() {
	case value.KindObjectRef:
		id := v.RefID()
		obj, ok := h.objects[id]
		if !ok {
			return
		}
		obj.RefCount--
		if obj.RefCount == 0 {
			delete(h.objects, id)
			h.logger().Debug("released object to zero, removed", zap.Uint64("id", id))
		}
	case value.KindArrayRef:
		id := v.RefID()
		arr, ok := h.arrays[id]
		if !ok {
			return
		}
		arr.RefCount--
		if arr.RefCount == 0 {
			delete(h.arrays, id)
			h.logger().Debug("released array to zero, removed", zap.Uint64("id", id))
		}
	case value.KindFunctionRef:
	}
}

// Stats reports current live/peak counts. GCInvocations is always 0.
func (h *Heap) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		LiveObjects: len(h.objects),
		LiveArrays:  len(h.arrays),
		PeakObjects: h.peakObjects,
		PeakArrays:  h.peakArrays,
	}
}

func cloneObject(o *Object) Object {
	fields := make(map[string]value.Value, len(o.Fields))
	for k, v := range o.Fields {
		fields[k] = v
	}
	return Object{ID: o.ID, ClassName: o.ClassName, Fields: fields, RefCount: o.RefCount}
}

func cloneArray(a *Array) Array {
	elems := make([]value.Value, len(a.Elements))
	copy(elems, a.Elements)
	return Array{ID: a.ID, ElemType: a.ElemType, Elements: elems, RefCount: a.RefCount}
}
