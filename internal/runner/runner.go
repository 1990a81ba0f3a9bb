package runner

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/user/gbench/internal/workloads"
	"github.com/user/gbench/pkg/alloc"
	"github.com/user/gbench/pkg/bench"
)

type Result struct {
	Workload     string        `json:"workload"`
	Measure      string        `json:"measure"`
	Reps         int           `json:"reps"`
	Observations int           `json:"observations"`
	NsPerOp      float64       `json:"ns_per_op,omitempty"`
	AllocsPerOp  uint64        `json:"allocs_per_op"`
	BytesPerOp   uint64        `json:"bytes_per_op"`
	Summary      string        `json:"summary"`
	Elapsed      time.Duration `json:"elapsed"`
	CompletedAt  time.Time     `json:"completed_at"`
}

type Report struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Results   []Result  `json:"results"`
}

// ProgressUpdate is sent after every observation of every benchmark.
type ProgressUpdate struct {
	Workload  string `json:"workload"`
	Measure   string `json:"measure"`
	Iteration int    `json:"iteration"`
	Reps      int    `json:"reps"`
	Summary   string `json:"summary"`
	Enough    bool   `json:"enough"`
}

type Runner struct {
	config       Config
	logger       *slog.Logger
	progressChan chan<- ProgressUpdate
}

func NewRunner(config Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{config: config, logger: logger}
}

// SetProgressChannel makes the runner publish observations on ch. Updates
// are dropped when ch is full.
func (r *Runner) SetProgressChannel(ch chan<- ProgressUpdate) {
	r.progressChan = ch
}

// Run benchmarks every configured workload under every configured measure,
// one after the other on the calling goroutine.
func (r *Runner) Run() (*Report, error) {
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	report := &Report{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}

	for _, name := range r.config.Workloads {
		w, err := workloads.Lookup(name)
		if err != nil {
			return nil, err
		}
		for _, measure := range r.config.Measures {
			r.logger.Info("running benchmark", "workload", name, "measure", measure)
			result := r.runSingleBenchmark(w, measure)
			r.logger.Info("benchmark done",
				"workload", name,
				"measure", measure,
				"reps", result.Reps,
				"observations", result.Observations,
				"result", result.Summary,
				"elapsed", result.Elapsed)
			report.Results = append(report.Results, result)
		}
	}

	return report, nil
}

func (r *Runner) runSingleBenchmark(w workloads.Workload, measure string) Result {
	switch measure {
	case MeasureMemory:
		return runMeasure(r, w, measure, func() *bench.MemoryMeasure {
			return bench.NewMemoryMeasure(alloc.Runtime)
		}, fillMemory)
	case MeasureCounted:
		return runMeasure(r, w, measure, func() *bench.MemoryMeasure {
			return bench.NewMemoryMeasure(workloads.Allocator)
		}, fillMemory)
	default:
		return runMeasure(r, w, measure, func() *bench.TimeMeasure {
			return bench.NewTimeMeasureWithMin(r.config.MinTime)
		}, fillTime)
	}
}

func fillTime(m *bench.TimeMeasure, result *Result) {
	result.NsPerOp = float64(m.Time.Nanoseconds())
}

func fillMemory(m *bench.MemoryMeasure, result *Result) {
	result.AllocsPerOp = m.Memory.Allocs
	result.BytesPerOp = m.Memory.Bytes
}

func runMeasure[M bench.Measure](r *Runner, w workloads.Workload, measure string, newMeasure func() M, fill func(M, *Result)) Result {
	var progress *progressbar.ProgressBar
	if r.config.ShowProgress {
		progress = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription(fmt.Sprintf("[%s/%s]", w.Name(), measure)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
	}

	observations := 0
	b := bench.New(r.config.paramsFactory(), newMeasure,
		bench.WithObserver(func(o bench.Observation[bench.Params, M]) {
			observations = o.Iteration
			r.observe(w.Name(), measure, o.Iteration, o.Params, o.Measure, o.Enough, progress)
		}),
	)

	if measure != MeasureTime {
		// start from a quiet heap; collections do not change the counters
		runtime.GC()
	}

	start := time.Now()
	res := b.Run(w.Run)
	elapsed := time.Since(start)

	if progress != nil {
		progress.Finish()
	}

	result := Result{
		Workload:     w.Name(),
		Measure:      measure,
		Reps:         res.Params.Reps(),
		Observations: observations,
		Summary:      res.Measure.String(),
		Elapsed:      elapsed,
		CompletedAt:  time.Now(),
	}
	fill(res.Measure, &result)
	return result
}

func (r *Runner) observe(workload, measure string, iteration int, p bench.Params, m bench.Measure, enough bool, progress *progressbar.ProgressBar) {
	if r.config.Verbose {
		r.logger.Debug("observation",
			"workload", workload,
			"measure", measure,
			"iteration", iteration,
			"params", p.String(),
			"measure_value", m.String(),
			"enough", enough)
	}

	if progress != nil {
		progress.Describe(fmt.Sprintf("[%s/%s] %s", workload, measure, p))
		progress.Add(1)
	}

	if r.progressChan != nil {
		select {
		case r.progressChan <- ProgressUpdate{
			Workload:  workload,
			Measure:   measure,
			Iteration: iteration,
			Reps:      p.Reps(),
			Summary:   m.String(),
			Enough:    enough,
		}:
		default:
		}
	}
}
