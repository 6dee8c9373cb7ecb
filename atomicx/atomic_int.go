package atomicx

import "sync/atomic"

// Int64 is a thin wrapper over sync/atomic's int64 primitives, kept beside
// Float64 so both of the statistics feedback's counters ("most_moves" as an
// int, "most_set" as a float ratio) share one package and one calling
// convention.
type Int64 struct {
	val int64
}

// NewInt64 wraps an initial value for atomic access.
func NewInt64(val int64) *Int64 {
	return &Int64{val: val}
}

// Load reads the current value.
func (i *Int64) Load() int64 {
	return atomic.LoadInt64(&i.val)
}

// RaiseTo stores candidate if it is greater than the current value,
// retrying under contention, mirroring Float64.RaiseTo.
func (i *Int64) RaiseTo(candidate int64) {
	for {
		cur := atomic.LoadInt64(&i.val)
		if candidate <= cur {
			return
		}
		if atomic.CompareAndSwapInt64(&i.val, cur, candidate) {
			return
		}
	}
}
