package bench

import "fmt"

// Workload is the code under test. It should do p.Reps() repetitions of the
// work being measured and may call reset once its setup is done.
type Workload[P Params] func(p P, reset func())

// Result holds the final parameters and measure of a benchmark.
type Result[P Params, M Measure] struct {
	Params  P `json:"params"`
	Measure M `json:"measure"`
}

func (r Result[P, M]) String() string {
	return fmt.Sprintf("%s: %s", r.Params, r.Measure)
}

// Observation describes one completed call of the workload.
type Observation[P Params, M Measure] struct {
	// Iteration counts observations from 1.
	Iteration int
	Params    P
	Measure   M
	Enough    bool
}

// Option configures a Benchmark.
type Option[P Params, M Measure] func(*Benchmark[P, M])

// WithObserver registers fn to be called after every observation, once the
// measure has decided whether it has enough data. fn must not modify the
// parameters or the measure.
func WithObserver[P Params, M Measure](fn func(Observation[P, M])) Option[P, M] {
	return func(b *Benchmark[P, M]) {
		b.observers = append(b.observers, fn)
	}
}

// Benchmark runs workloads until the measure is satisfied.
//
// newParams is called once per Run and the parameters it returns are grown in
// place for the whole run. newMeasure is called before every observation, so
// each observation starts from a fresh measure.
type Benchmark[P Params, M Measure] struct {
	newParams  func() P
	newMeasure func() M
	observers  []func(Observation[P, M])
}

func New[P Params, M Measure](newParams func() P, newMeasure func() M, opts ...Option[P, M]) *Benchmark[P, M] {
	b := &Benchmark[P, M]{
		newParams:  newParams,
		newMeasure: newMeasure,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run benchmarks f to the measure's satisfaction. It does not return until
// the measure reports enough data.
func (b *Benchmark[P, M]) Run(f Workload[P]) Result[P, M] {
	params := b.newParams()
	run := func(reset func()) { f(params, reset) }

	for i := 1; ; i++ {
		m := b.newMeasure()
		m.Observe(run, params)

		enough := m.Enough(params)
		for _, fn := range b.observers {
			fn(Observation[P, M]{Iteration: i, Params: params, Measure: m, Enough: enough})
		}
		if enough {
			return Result[P, M]{Params: params, Measure: m}
		}
		params.More()
	}
}
