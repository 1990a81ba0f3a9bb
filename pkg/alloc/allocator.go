package alloc

import (
	"math/bits"
	"sync"
)

// Allocator hands out byte buffers.
//
// Alloc returns nil when the request cannot be served. Free gives a buffer
// back; callers must not use it afterwards.
type Allocator interface {
	Alloc(size int) []byte
	Free(b []byte)
}

// HeapAllocator allocates straight from the Go heap. Free is a no-op and the
// garbage collector reclaims the buffer.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}
	return make([]byte, size)
}

func (HeapAllocator) Free([]byte) {}

// PoolAllocator recycles freed buffers through one sync.Pool per
// power-of-two capacity class.
type PoolAllocator struct {
	classes [bits.UintSize]sync.Pool
}

func (p *PoolAllocator) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}
	class := sizeClass(size)
	if v := p.classes[class].Get(); v != nil {
		b := *(v.(*[]byte))
		return b[:size]
	}
	return make([]byte, size, 1<<class)
}

func (p *PoolAllocator) Free(b []byte) {
	c := cap(b)
	if c == 0 || c&(c-1) != 0 {
		// not ours
		return
	}
	b = b[:0]
	p.classes[bits.TrailingZeros(uint(c))].Put(&b)
}

func sizeClass(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

// CountingAllocator sits in front of another Allocator and counts every
// successful allocation made through it.
//
// Frees are passed through untouched: the totals describe allocations
// performed, not memory currently live, and never go down.
type CountingAllocator struct {
	inner Allocator
	stats Counter
}

func NewCountingAllocator(inner Allocator) *CountingAllocator {
	return &CountingAllocator{inner: inner}
}

func (a *CountingAllocator) Alloc(size int) []byte {
	b := a.inner.Alloc(size)
	if b != nil {
		a.stats.Record(size)
	}
	return b
}

func (a *CountingAllocator) Free(b []byte) {
	a.inner.Free(b)
}

// Stats returns the live counters of the allocator.
func (a *CountingAllocator) Stats() *Counter {
	return &a.stats
}

// Snapshot implements Source.
func (a *CountingAllocator) Snapshot() Stats {
	return a.stats.Snapshot()
}
