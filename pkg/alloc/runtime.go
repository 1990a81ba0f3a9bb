package alloc

import (
	"runtime"
	"sync"
)

// RuntimeSource reports the allocation totals of the Go runtime: the
// cumulative count of heap objects allocated and the cumulative bytes
// allocated for them, across all goroutines.
//
// Every heap allocation in the process goes through the runtime, so this is
// the source to use for measuring arbitrary code. Byte totals are in size
// class units: a 100 byte request is counted as the 112 bytes the runtime
// actually hands out.
//
// Snapshot calls runtime.ReadMemStats, which briefly stops the world.
// Allocations made by other goroutines between two snapshots are included in
// their difference.
type RuntimeSource struct{}

// Runtime is the process-wide allocation source. It needs no setup and is
// valid for the lifetime of the process.
var Runtime RuntimeSource

// memStats is reused so that taking a snapshot never allocates itself.
var (
	memStatsMu sync.Mutex
	memStats   runtime.MemStats
)

func (RuntimeSource) Snapshot() Stats {
	memStatsMu.Lock()
	defer memStatsMu.Unlock()
	runtime.ReadMemStats(&memStats)
	return Stats{
		Allocs: memStats.Mallocs,
		Bytes:  memStats.TotalAlloc,
	}
}
