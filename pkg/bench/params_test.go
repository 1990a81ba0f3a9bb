package bench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepetitionParamsDoubles(t *testing.T) {
	p := NewRepetitionParams()
	assert.Equal(t, 1, p.Reps())

	prev := p.Reps()
	for i := 1; i <= 20; i++ {
		p.More()
		assert.Greater(t, p.Reps(), prev)
		assert.Equal(t, 1<<i, p.Reps())
		prev = p.Reps()
	}
}

func TestLinearParams(t *testing.T) {
	p := NewLinearParams(5)
	got := []int{p.Reps()}
	for i := 0; i < 3; i++ {
		p.More()
		got = append(got, p.Reps())
	}
	assert.Equal(t, []int{5, 10, 15, 20}, got)

	assert.Equal(t, 1, NewLinearParams(0).Step)
	assert.Equal(t, 1, NewLinearParams(-4).Reps())
}

func TestScaledParams(t *testing.T) {
	p := NewScaledParams(10)
	got := []int{p.Reps()}
	for i := 0; i < 3; i++ {
		p.More()
		got = append(got, p.Reps())
	}
	assert.Equal(t, []int{1, 10, 100, 1000}, got)

	p = NewScaledParams(1)
	p.More()
	assert.Equal(t, 2, p.Reps())
}

func TestParamsStayPositive(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   []int
	}{
		{"zero repetition", &RepetitionParams{}, []int{1, 2, 4}},
		{"zero linear", &LinearParams{}, []int{1, 2, 3}},
		{"zero factor", &ScaledParams{Nreps: 1}, []int{1, 2, 4}},
		{"negative reps", &ScaledParams{Nreps: -3, Factor: 10}, []int{1, 10, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for i := 0; i < 3; i++ {
				got = append(got, tt.params.Reps())
				tt.params.More()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParamsSaturate(t *testing.T) {
	params := []Params{
		NewRepetitionParams(),
		NewLinearParams(math.MaxInt / 3),
		NewScaledParams(1000),
	}

	for _, p := range params {
		prev := p.Reps()
		for i := 0; i < 100; i++ {
			p.More()
			assert.GreaterOrEqual(t, p.Reps(), prev, "%T", p)
			prev = p.Reps()
		}
		assert.Equal(t, math.MaxInt, p.Reps(), "%T", p)
	}
}

func TestParamsString(t *testing.T) {
	tests := []struct {
		params Params
		want   string
	}{
		{&RepetitionParams{Nreps: 8192}, "8192 reps"},
		{NewRepetitionParams(), "1 reps"},
		{NewLinearParams(3), "3 reps"},
		{&ScaledParams{Nreps: 1000, Factor: 10}, "1000 reps"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.params.String())
	}
}
