package workloads

import (
	"fmt"

	"github.com/user/gbench/pkg/bench"
)

type pushWorkload struct {
	name     string
	perRep   int
	prealloc bool
}

func (w *pushWorkload) Name() string {
	return w.name
}

func (w *pushWorkload) Description() string {
	if w.prealloc {
		return fmt.Sprintf("append %d ints per rep to a slice sized up front", w.perRep)
	}
	return fmt.Sprintf("append %d ints per rep to an empty slice", w.perRep)
}

func (w *pushWorkload) Run(p bench.Params, reset func()) {
	n := p.Reps()
	var v []int
	if w.prealloc {
		v = make([]int, 0, n*w.perRep)
	}
	reset()
	for i := 0; i < n; i++ {
		v = pushNumbers(v, w.perRep)
	}
	intSink = v
}

func pushNumbers(v []int, n int) []int {
	for i := 0; i < n; i++ {
		v = append(v, i)
	}
	return v
}
