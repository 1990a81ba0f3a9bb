package alloc

import "sync/atomic"

// Counter is a pair of monotonic allocation counters that may be incremented
// from any number of goroutines.
//
// The two fields are loaded independently by Snapshot, so a snapshot taken
// while another goroutine is recording may pair the allocation count of one
// moment with the byte total of another.
type Counter struct {
	allocs atomic.Uint64
	bytes  atomic.Uint64
}

// Record counts one allocation of size bytes.
func (c *Counter) Record(size int) {
	c.allocs.Add(1)
	c.bytes.Add(uint64(size))
}

// Snapshot implements Source.
func (c *Counter) Snapshot() Stats {
	return Stats{
		Allocs: c.allocs.Load(),
		Bytes:  c.bytes.Load(),
	}
}
