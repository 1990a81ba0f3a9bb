package bench

import (
	"fmt"
	"math"
)

// Params decides how much work one observation does.
type Params interface {
	// Reps is the number of repetitions the workload should perform. It is
	// always positive, even for parameters built as zero values.
	Reps() int
	// More grows the repetition count. It is called when a Measure asked
	// for more data.
	More()
	fmt.Stringer
}

// RepetitionParams doubles the repetition count each time more is needed,
// reaching any target in a logarithmic number of observations at the cost of
// overshooting it by up to 2x.
type RepetitionParams struct {
	Nreps int `json:"nreps"`
}

func NewRepetitionParams() *RepetitionParams {
	return &RepetitionParams{Nreps: 1}
}

func (p *RepetitionParams) Reps() int { return atLeastOne(p.Nreps) }

func (p *RepetitionParams) More() { p.Nreps = scale(p.Reps(), 2) }

func (p *RepetitionParams) String() string {
	return fmt.Sprintf("%d reps", p.Reps())
}

// LinearParams adds a fixed step to the repetition count.
type LinearParams struct {
	Nreps int `json:"nreps"`
	Step  int `json:"step"`
}

// NewLinearParams starts at step repetitions and grows by step. A step below
// one is treated as one.
func NewLinearParams(step int) *LinearParams {
	if step < 1 {
		step = 1
	}
	return &LinearParams{Nreps: step, Step: step}
}

func (p *LinearParams) Reps() int { return atLeastOne(p.Nreps) }

func (p *LinearParams) More() {
	n, step := p.Reps(), atLeastOne(p.Step)
	if n > math.MaxInt-step {
		p.Nreps = math.MaxInt
		return
	}
	p.Nreps = n + step
}

func (p *LinearParams) String() string {
	return fmt.Sprintf("%d reps", p.Reps())
}

// ScaledParams multiplies the repetition count by a constant factor.
type ScaledParams struct {
	Nreps  int `json:"nreps"`
	Factor int `json:"factor"`
}

// NewScaledParams starts at one repetition. Factors below two are raised to
// two so that the count keeps growing.
func NewScaledParams(factor int) *ScaledParams {
	if factor < 2 {
		factor = 2
	}
	return &ScaledParams{Nreps: 1, Factor: factor}
}

func (p *ScaledParams) Reps() int { return atLeastOne(p.Nreps) }

func (p *ScaledParams) More() { p.Nreps = scale(p.Reps(), max(p.Factor, 2)) }

func (p *ScaledParams) String() string {
	return fmt.Sprintf("%d reps", p.Reps())
}

func atLeastOne(n int) int {
	return max(n, 1)
}

// scale multiplies n by factor, saturating at math.MaxInt.
func scale(n, factor int) int {
	if n > math.MaxInt/factor {
		return math.MaxInt
	}
	return n * factor
}
