package runner

import (
	"errors"
	"fmt"
	"time"

	"github.com/user/gbench/internal/workloads"
	"github.com/user/gbench/pkg/bench"
)

const (
	MeasureTime    = "time"
	MeasureMemory  = "memory"
	MeasureCounted = "counted"

	GrowthDouble = "double"
	GrowthLinear = "linear"
	GrowthScale  = "scale"
)

var (
	ErrUnknownMeasure = errors.New("unknown measure")
	ErrUnknownGrowth  = errors.New("unknown growth policy")
)

type Config struct {
	Workloads    []string      `json:"workloads"`
	Measures     []string      `json:"measures"`
	MinTime      time.Duration `json:"min_time"`
	Growth       string        `json:"growth"`
	GrowthStep   int           `json:"growth_step,omitempty"`
	GrowthFactor int           `json:"growth_factor,omitempty"`
	ShowProgress bool          `json:"show_progress"`
	Verbose      bool          `json:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		Workloads:    []string{"push", "push-prealloc"},
		Measures:     []string{MeasureTime, MeasureMemory},
		MinTime:      bench.DefaultMinTime,
		Growth:       GrowthDouble,
		GrowthStep:   1000,
		GrowthFactor: 10,
	}
}

// Validate reports every problem in the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if len(c.Workloads) == 0 {
		errs = append(errs, errors.New("no workloads selected"))
	}
	for _, name := range c.Workloads {
		if _, err := workloads.Lookup(name); err != nil {
			errs = append(errs, err)
		}
	}

	if len(c.Measures) == 0 {
		errs = append(errs, errors.New("no measures selected"))
	}
	for _, m := range c.Measures {
		switch m {
		case MeasureTime, MeasureMemory, MeasureCounted:
		default:
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownMeasure, m))
		}
	}

	if c.MinTime <= 0 {
		errs = append(errs, fmt.Errorf("min time must be positive, got %s", c.MinTime))
	}

	switch c.Growth {
	case GrowthDouble:
	case GrowthLinear:
		if c.GrowthStep < 1 {
			errs = append(errs, fmt.Errorf("linear growth needs a positive step, got %d", c.GrowthStep))
		}
	case GrowthScale:
		if c.GrowthFactor < 2 {
			errs = append(errs, fmt.Errorf("scaled growth needs a factor of at least 2, got %d", c.GrowthFactor))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownGrowth, c.Growth))
	}

	return errors.Join(errs...)
}

// paramsFactory returns the parameter constructor for the configured growth
// policy. The config must be valid.
func (c Config) paramsFactory() func() bench.Params {
	switch c.Growth {
	case GrowthLinear:
		return func() bench.Params { return bench.NewLinearParams(c.GrowthStep) }
	case GrowthScale:
		return func() bench.Params { return bench.NewScaledParams(c.GrowthFactor) }
	default:
		return func() bench.Params { return bench.NewRepetitionParams() }
	}
}
