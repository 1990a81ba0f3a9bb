// Package bench is a small benchmarking harness.
//
// A benchmark consumes parameters (how many repetitions to run) and produces
// a measure (time per repetition, allocations per repetition, ...). After
// every call of the workload the measure decides whether it has seen enough;
// if not, the parameters grow and the workload runs again against a fresh
// measure.
//
//	b := bench.New(bench.NewRepetitionParams, func() *bench.TimeMeasure {
//		return bench.NewTimeMeasureWithMin(100 * time.Millisecond)
//	})
//	res := b.Run(func(p *bench.RepetitionParams, reset func()) {
//		expensiveSetup()
//		reset()
//		for i := 0; i < p.Nreps; i++ {
//			doSomething()
//		}
//	})
//	fmt.Println(res) // 16 reps: 10.052 ms/op
//
// Allocations are measured with a MemoryMeasure reading an alloc.Source,
// usually alloc.Runtime.
//
// Workloads run on the calling goroutine and a Run cannot be interrupted.
package bench
