package workloads

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"

	"github.com/user/gbench/pkg/alloc"
	"github.com/user/gbench/pkg/bench"
)

var ErrUnknownWorkload = errors.New("unknown workload")

type Workload interface {
	Name() string
	Description() string
	Run(p bench.Params, reset func())
}

// Allocator is the counting allocator used by the buffer workloads. The
// "counted" measure reads its totals.
var Allocator = alloc.NewCountingAllocator(&alloc.PoolAllocator{})

// Sinks keep results reachable so the work is not optimized away. They are
// typed: storing a slice or array in an interface would itself allocate.
var (
	intSink    []int
	sumSink    [sha256.Size]byte
	edKeySink  ed25519.PrivateKey
	ecKeySink  *ecdsa.PrivateKey
	rsaKeySink *rsa.PrivateKey
)

var registry = map[string]Workload{}

func register(w Workload) {
	if _, exists := registry[w.Name()]; exists {
		panic(fmt.Sprintf("workloads: duplicate workload %q", w.Name()))
	}
	registry[w.Name()] = w
}

func init() {
	register(&pushWorkload{name: "push", perRep: 1})
	register(&pushWorkload{name: "push-prealloc", perRep: 1, prealloc: true})
	register(&pushWorkload{name: "push-batch", perRep: 100})
	register(&pushWorkload{name: "push-batch-prealloc", perRep: 100, prealloc: true})
	register(&bufferWorkload{name: "buffers", size: 100, count: 3})
	register(&bufferWorkload{name: "buffers-recycled", size: 100, count: 3, free: true})
	register(&sleepWorkload{})
	register(&sha256Workload{size: 1024})
	register(&ed25519Workload{})
	register(&ecdsaWorkload{bits: 256})
	register(&ecdsaWorkload{bits: 384})
	register(&rsaWorkload{bits: 2048})
}

func Lookup(name string) (Workload, error) {
	w, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorkload, name)
	}
	return w, nil
}

// All returns every registered workload ordered by name.
func All() []Workload {
	all := make([]Workload, 0, len(registry))
	for _, w := range registry {
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}

func Names() []string {
	var names []string
	for _, w := range All() {
		names = append(names, w.Name())
	}
	return names
}
