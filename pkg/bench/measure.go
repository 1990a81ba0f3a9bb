package bench

import (
	"fmt"
	"time"

	"github.com/user/gbench/pkg/alloc"
)

// Measure records the cost of a workload and decides whether it has seen
// enough of it.
type Measure interface {
	// Observe calls run exactly once. run receives a reset callback that
	// restarts the measured region; if it is never called, everything run
	// does is measured. Calling it again moves the start once more.
	Observe(run func(reset func()), p Params)
	// Enough reports whether the data gathered so far is sufficient. It
	// must not modify the measure.
	Enough(p Params) bool
	fmt.Stringer
}

// DefaultMinTime is the minimum total time of a TimeMeasure built by
// NewTimeMeasure.
const DefaultMinTime = time.Second

// TimeMeasure measures wall-clock time per repetition and asks for more
// repetitions until one observation lasts at least MinTime.
type TimeMeasure struct {
	MinTime time.Duration `json:"min_time"`
	// Time is the time per repetition. Each observation adds its own
	// per-repetition time to it.
	Time time.Duration `json:"time"`
	// TotalTime is the undivided duration of the latest observation.
	TotalTime time.Duration `json:"total_time"`

	start time.Time
}

func NewTimeMeasure() *TimeMeasure {
	return NewTimeMeasureWithMin(DefaultMinTime)
}

func NewTimeMeasureWithMin(minTime time.Duration) *TimeMeasure {
	return &TimeMeasure{MinTime: minTime}
}

func (m *TimeMeasure) Observe(run func(reset func()), p Params) {
	reset := func() { m.start = time.Now() }
	reset()
	run(reset)
	elapsed := time.Since(m.start)

	m.Time += elapsed / time.Duration(p.Reps())
	m.TotalTime = elapsed
}

func (m *TimeMeasure) Enough(Params) bool {
	return m.TotalTime >= m.MinTime
}

func (m *TimeMeasure) String() string {
	return formatPerOp(m.Time)
}

func formatPerOp(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 1e-6:
		return fmt.Sprintf("%.3f ns/op", secs*1e9)
	case secs < 1e-3:
		return fmt.Sprintf("%.3f us/op", secs*1e6)
	case secs < 1:
		return fmt.Sprintf("%.3f ms/op", secs*1e3)
	default:
		return fmt.Sprintf("%.3f s/op", secs)
	}
}

// MemoryMeasure measures allocations per repetition as reported by an
// alloc.Source. A single observation is enough.
//
// With alloc.Runtime as the source, allocations made by other goroutines
// while the workload runs are attributed to it.
type MemoryMeasure struct {
	// Memory is the allocation count and byte total per repetition,
	// rounded down.
	Memory alloc.Stats `json:"memory"`

	src   alloc.Source
	start alloc.Stats
}

func NewMemoryMeasure(src alloc.Source) *MemoryMeasure {
	return &MemoryMeasure{src: src}
}

func (m *MemoryMeasure) Observe(run func(reset func()), p Params) {
	// built before the first snapshot so that it is not counted
	reset := func() { m.start = m.src.Snapshot() }
	reset()
	run(reset)
	end := m.src.Snapshot()

	m.Memory = end.Sub(m.start).Div(p.Reps())
}

func (m *MemoryMeasure) Enough(Params) bool {
	return true
}

func (m *MemoryMeasure) String() string {
	return fmt.Sprintf("%d allocs/op, %d bytes alloc'ed/op", m.Memory.Allocs, m.Memory.Bytes)
}
