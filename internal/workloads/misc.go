package workloads

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/user/gbench/pkg/bench"
)

type sleepWorkload struct{}

func (s *sleepWorkload) Name() string {
	return "sleep"
}

func (s *sleepWorkload) Description() string {
	return "sleep 1ms per rep"
}

func (s *sleepWorkload) Run(p bench.Params, reset func()) {
	time.Sleep(time.Duration(p.Reps()) * time.Millisecond)
}

type sha256Workload struct {
	size int
}

func (h *sha256Workload) Name() string {
	return fmt.Sprintf("sha256-%dk", h.size/1024)
}

func (h *sha256Workload) Description() string {
	return fmt.Sprintf("SHA-256 of a %d byte random buffer per rep", h.size)
}

func (h *sha256Workload) Run(p bench.Params, reset func()) {
	buf := make([]byte, h.size)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("sha256 workload: %v", err))
	}
	reset()
	var sum [sha256.Size]byte
	for i := 0; i < p.Reps(); i++ {
		sum = sha256.Sum256(buf)
		buf[0] = sum[0]
	}
	sumSink = sum
}
