// Package atomicx holds small lock-free counters for statistics that may be
// read or updated from more than one goroutine: "most_set" (the best
// targets-covered ratio seen) and "most_moves" (the longest corpus input
// seen). Adapted from the teacher's atomic_float package, generalized with
// an integer counterpart.
package atomicx

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Float64 is a float64 updated without locking, via CompareAndSwap on its
// bit pattern. As with any unsafe.Pointer use, no pointer derived from it
// is held across more than a few lines: the GC may relocate the backing
// float64 between a pointer's creation and a later read.
type Float64 struct {
	val float64
}

// NewFloat64 wraps an initial value for atomic access.
func NewFloat64(val float64) *Float64 {
	return &Float64{val: val}
}

// Load reads the current value, synchronized with main memory.
func (f *Float64) Load() float64 {
	bits := atomic.LoadUint64((*uint64)(unsafe.Pointer(&f.val)))
	return math.Float64frombits(bits)
}

// Add adds addend to the value via compare-and-swap and reports whether it
// won the race. Unlike a retry loop, a losing caller is told so explicitly:
// if the value changed underneath it, it is up to the caller to decide
// whether to retry or drop the update.
func (f *Float64) Add(addend float64) (newVal float64, succeeded bool) {
	old := f.Load()
	newVal = old + addend
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&f.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}

// Set stores newVal via compare-and-swap and reports whether it won.
func (f *Float64) Set(newVal float64) (succeeded bool) {
	old := f.Load()
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&f.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}

// RaiseTo repeatedly attempts to set the value to candidate if candidate is
// greater than the current value, retrying on contention until it either
// wins or observes a value already >= candidate. This is the pattern the
// "most_set"/"most_moves" statistics actually want: the highest value
// reported so far, not a plain add.
func (f *Float64) RaiseTo(candidate float64) {
	for {
		cur := f.Load()
		if candidate <= cur {
			return
		}
		if f.trySet(cur, candidate) {
			return
		}
	}
}

func (f *Float64) trySet(old, newVal float64) bool {
	return atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&f.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
}
