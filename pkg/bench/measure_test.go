package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/gbench/pkg/alloc"
)

func TestTimeMeasureEnough(t *testing.T) {
	tests := []struct {
		total time.Duration
		want  bool
	}{
		{0, false},
		{99 * time.Millisecond, false},
		{100*time.Millisecond - 1, false},
		{100 * time.Millisecond, true},
		{time.Second, true},
	}

	for _, tt := range tests {
		m := NewTimeMeasureWithMin(100 * time.Millisecond)
		m.TotalTime = tt.total
		assert.Equal(t, tt.want, m.Enough(NewRepetitionParams()), "total %v", tt.total)
		// pure: asking twice gives the same answer and changes nothing
		assert.Equal(t, tt.want, m.Enough(NewRepetitionParams()))
		assert.Equal(t, tt.total, m.TotalTime)
	}
}

func TestTimeMeasureObserve(t *testing.T) {
	m := NewTimeMeasureWithMin(10 * time.Millisecond)
	p := &RepetitionParams{Nreps: 4}

	calls := 0
	m.Observe(func(reset func()) {
		calls++
		time.Sleep(20 * time.Millisecond)
	}, p)

	assert.Equal(t, 1, calls)
	assert.GreaterOrEqual(t, m.TotalTime, 20*time.Millisecond)
	assert.Equal(t, m.TotalTime/4, m.Time)
	assert.True(t, m.Enough(p))
}

func TestTimeMeasureResetExcludesSetup(t *testing.T) {
	m := NewTimeMeasureWithMin(time.Hour)
	p := &RepetitionParams{Nreps: 1}

	m.Observe(func(reset func()) {
		time.Sleep(50 * time.Millisecond)
		reset()
		time.Sleep(5 * time.Millisecond)
	}, p)

	assert.GreaterOrEqual(t, m.TotalTime, 5*time.Millisecond)
	assert.Less(t, m.TotalTime, 50*time.Millisecond)
	assert.False(t, m.Enough(p))
}

func TestTimeMeasureLastResetWins(t *testing.T) {
	m := NewTimeMeasureWithMin(time.Hour)

	m.Observe(func(reset func()) {
		reset()
		time.Sleep(40 * time.Millisecond)
		reset()
		time.Sleep(time.Millisecond)
	}, NewRepetitionParams())

	assert.Less(t, m.TotalTime, 40*time.Millisecond)
}

func TestTimeMeasureTimeAccumulates(t *testing.T) {
	m := NewTimeMeasureWithMin(time.Hour)

	m.Observe(func(func()) { time.Sleep(10 * time.Millisecond) }, &RepetitionParams{Nreps: 1})
	first := m.Time
	m.Observe(func(func()) { time.Sleep(20 * time.Millisecond) }, &RepetitionParams{Nreps: 2})

	// time adds up across observations while total time is only the latest
	assert.Equal(t, first+m.TotalTime/2, m.Time)
	assert.GreaterOrEqual(t, m.TotalTime, 20*time.Millisecond)
}

func TestTimeMeasureString(t *testing.T) {
	tests := []struct {
		time time.Duration
		want string
	}{
		{0, "0.000 ns/op"},
		{123 * time.Nanosecond, "123.000 ns/op"},
		{999 * time.Nanosecond, "999.000 ns/op"},
		{time.Microsecond, "1.000 us/op"},
		{1500 * time.Nanosecond, "1.500 us/op"},
		{123456 * time.Nanosecond, "123.456 us/op"},
		{2500 * time.Microsecond, "2.500 ms/op"},
		{10 * time.Millisecond, "10.000 ms/op"},
		{3 * time.Second, "3.000 s/op"},
		{90 * time.Second, "90.000 s/op"},
	}

	for _, tt := range tests {
		m := &TimeMeasure{Time: tt.time}
		assert.Equal(t, tt.want, m.String())
	}
}

func TestNewTimeMeasureDefaults(t *testing.T) {
	assert.Equal(t, time.Second, NewTimeMeasure().MinTime)
	assert.Equal(t, time.Duration(0), NewTimeMeasure().Time)
}

func TestMemoryMeasurePerRepetition(t *testing.T) {
	a := alloc.NewCountingAllocator(alloc.HeapAllocator{})
	m := NewMemoryMeasure(a)
	p := &RepetitionParams{Nreps: 10}

	m.Observe(func(reset func()) {
		for i := 0; i < p.Nreps; i++ {
			a.Alloc(100)
			a.Alloc(100)
			a.Alloc(100)
		}
	}, p)

	assert.Equal(t, alloc.Stats{Allocs: 3, Bytes: 300}, m.Memory)
	assert.Equal(t, "3 allocs/op, 300 bytes alloc'ed/op", m.String())
}

func TestMemoryMeasureFloorsDivision(t *testing.T) {
	var c alloc.Counter
	m := NewMemoryMeasure(&c)

	m.Observe(func(func()) {
		for i := 0; i < 7; i++ {
			c.Record(10)
		}
	}, &RepetitionParams{Nreps: 4})

	assert.Equal(t, alloc.Stats{Allocs: 1, Bytes: 17}, m.Memory)
}

func TestMemoryMeasureResetExcludesSetup(t *testing.T) {
	a := alloc.NewCountingAllocator(&alloc.PoolAllocator{})
	m := NewMemoryMeasure(a)

	m.Observe(func(reset func()) {
		for i := 0; i < 50; i++ {
			a.Alloc(1 << 10)
		}
		reset()
		a.Alloc(64)
	}, NewRepetitionParams())

	assert.Equal(t, alloc.Stats{Allocs: 1, Bytes: 64}, m.Memory)
}

func TestMemoryMeasureDoesNotCountFrees(t *testing.T) {
	a := alloc.NewCountingAllocator(&alloc.PoolAllocator{})
	m := NewMemoryMeasure(a)

	m.Observe(func(func()) {
		for i := 0; i < 8; i++ {
			b := a.Alloc(32)
			a.Free(b)
		}
	}, &RepetitionParams{Nreps: 8})

	assert.Equal(t, alloc.Stats{Allocs: 1, Bytes: 32}, m.Memory)
}

func TestMemoryMeasureAlwaysEnough(t *testing.T) {
	for _, n := range []int{1, 2, 1024, 1 << 20} {
		var c alloc.Counter
		m := NewMemoryMeasure(&c)
		p := &RepetitionParams{Nreps: n}
		m.Observe(func(func()) {}, p)
		assert.True(t, m.Enough(p))
		assert.Equal(t, alloc.Stats{}, m.Memory)
	}
}

var sink [][]byte

func TestMemoryMeasureRuntime(t *testing.T) {
	m := NewMemoryMeasure(alloc.Runtime)
	p := &RepetitionParams{Nreps: 1024}

	m.Observe(func(reset func()) {
		sink = make([][]byte, 0, 3*p.Nreps)
		reset()
		for i := 0; i < p.Nreps; i++ {
			sink = append(sink, make([]byte, 100), make([]byte, 100), make([]byte, 100))
		}
	}, p)
	sink = nil

	require.Equal(t, uint64(3), m.Memory.Allocs)
	assert.GreaterOrEqual(t, m.Memory.Bytes, uint64(300))
	assert.LessOrEqual(t, m.Memory.Bytes, uint64(3*128))
}
