// Package alloc counts heap allocations so that benchmarks can report how many
// allocations, and how many bytes, a workload performs per repetition.
package alloc

import "fmt"

// Stats is a point-in-time copy of a pair of allocation counters.
type Stats struct {
	// Allocs is the number of allocations.
	Allocs uint64 `json:"allocs"`
	// Bytes is the number of bytes allocated.
	Bytes uint64 `json:"bytes"`
}

// CounterRegressionError is the panic value of Stats.Sub when the later
// snapshot holds a smaller value than the earlier one.
type CounterRegressionError struct {
	Field   string
	Earlier uint64
	Later   uint64
}

func (e *CounterRegressionError) Error() string {
	return fmt.Sprintf("alloc: %s counter went backwards (%d -> %d)", e.Field, e.Earlier, e.Later)
}

// Sub returns the field-wise difference s - earlier.
//
// The counters are cumulative, so every field of s must be at least the
// matching field of earlier. Sub panics with a *CounterRegressionError
// otherwise rather than wrapping around.
func (s Stats) Sub(earlier Stats) Stats {
	if s.Allocs < earlier.Allocs {
		panic(&CounterRegressionError{Field: "allocs", Earlier: earlier.Allocs, Later: s.Allocs})
	}
	if s.Bytes < earlier.Bytes {
		panic(&CounterRegressionError{Field: "bytes", Earlier: earlier.Bytes, Later: s.Bytes})
	}
	return Stats{
		Allocs: s.Allocs - earlier.Allocs,
		Bytes:  s.Bytes - earlier.Bytes,
	}
}

// Div divides every field by n, rounding down. n must be positive.
func (s Stats) Div(n int) Stats {
	if n <= 0 {
		panic(fmt.Sprintf("alloc: division of stats by non-positive count %d", n))
	}
	return Stats{
		Allocs: s.Allocs / uint64(n),
		Bytes:  s.Bytes / uint64(n),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d allocs, %d bytes", s.Allocs, s.Bytes)
}

// Source is anything that can report its allocation totals.
//
// Taking a snapshot must not change the totals being read.
type Source interface {
	Snapshot() Stats
}
