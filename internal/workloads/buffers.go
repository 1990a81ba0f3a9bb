package workloads

import (
	"fmt"

	"github.com/user/gbench/pkg/bench"
)

// bufferWorkload requests count buffers of size bytes per rep from Allocator.
type bufferWorkload struct {
	name  string
	size  int
	count int
	free  bool
}

func (w *bufferWorkload) Name() string {
	return w.name
}

func (w *bufferWorkload) Description() string {
	if w.free {
		return fmt.Sprintf("allocate and free %d x %d byte pooled buffers per rep", w.count, w.size)
	}
	return fmt.Sprintf("allocate %d x %d byte pooled buffers per rep", w.count, w.size)
}

func (w *bufferWorkload) Run(p bench.Params, reset func()) {
	n := p.Reps()
	held := make([][]byte, 0, n*w.count)
	reset()
	for i := 0; i < n; i++ {
		for j := 0; j < w.count; j++ {
			b := Allocator.Alloc(w.size)
			b[0] = byte(i)
			if w.free {
				Allocator.Free(b)
				continue
			}
			held = append(held, b)
		}
	}
	for _, b := range held {
		Allocator.Free(b)
	}
}
