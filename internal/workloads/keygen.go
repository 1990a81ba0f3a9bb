package workloads

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"github.com/user/gbench/pkg/bench"
)

type ed25519Workload struct{}

func (e *ed25519Workload) Name() string {
	return "ed25519-keygen"
}

func (e *ed25519Workload) Description() string {
	return "generate one Ed25519 key pair per rep"
}

func (e *ed25519Workload) Run(p bench.Params, reset func()) {
	for i := 0; i < p.Reps(); i++ {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		mustGenerate(e.Name(), err)
		edKeySink = priv
	}
}

type ecdsaWorkload struct {
	bits int
}

func (e *ecdsaWorkload) Name() string {
	return fmt.Sprintf("ecdsa-p%d-keygen", e.bits)
}

func (e *ecdsaWorkload) Description() string {
	return fmt.Sprintf("generate one ECDSA P-%d key per rep", e.bits)
}

func (e *ecdsaWorkload) Run(p bench.Params, reset func()) {
	curve, err := curveForSize(e.bits)
	mustGenerate(e.Name(), err)
	reset()
	for i := 0; i < p.Reps(); i++ {
		key, err := ecdsa.GenerateKey(curve, rand.Reader)
		mustGenerate(e.Name(), err)
		ecKeySink = key
	}
}

func curveForSize(bits int) (elliptic.Curve, error) {
	switch bits {
	case 224:
		return elliptic.P224(), nil
	case 256:
		return elliptic.P256(), nil
	case 384:
		return elliptic.P384(), nil
	case 521:
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("unsupported ECDSA key size: %d", bits)
	}
}

type rsaWorkload struct {
	bits int
}

func (r *rsaWorkload) Name() string {
	return fmt.Sprintf("rsa-%d-keygen", r.bits)
}

func (r *rsaWorkload) Description() string {
	return fmt.Sprintf("generate one %d bit RSA key per rep", r.bits)
}

func (r *rsaWorkload) Run(p bench.Params, reset func()) {
	for i := 0; i < p.Reps(); i++ {
		key, err := rsa.GenerateKey(rand.Reader, r.bits)
		mustGenerate(r.Name(), err)
		rsaKeySink = key
	}
}

// Workloads cannot return errors; a failing key generator is a broken
// environment, not a measurement.
func mustGenerate(name string, err error) {
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
}
