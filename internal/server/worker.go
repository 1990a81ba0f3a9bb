package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/user/gbench/internal/metrics"
	"github.com/user/gbench/internal/runner"
)

var (
	ErrQueueFull    = errors.New("job queue is full")
	ErrShuttingDown = errors.New("worker is shutting down")
)

// Worker runs queued jobs one at a time. Benchmarks measure the whole
// process, so two of them must never overlap.
type Worker struct {
	jobQueue chan *BenchmarkJob
	jobStore *JobStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewWorker(queueSize int, jobStore *JobStore, m *metrics.Metrics, logger *slog.Logger) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		jobQueue: make(chan *BenchmarkJob, queueSize),
		jobStore: jobStore,
		metrics:  m,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (wk *Worker) Start() {
	wk.logger.Info("starting benchmark worker", "queue_size", cap(wk.jobQueue))
	wk.wg.Add(1)
	go wk.loop()
}

// Stop waits for the running job, if any, to finish, or for ctx to be done,
// whichever comes first. Benchmarks cannot be interrupted, so a job still
// running when ctx expires keeps its goroutine until it completes. Queued
// jobs are abandoned.
func (wk *Worker) Stop(ctx context.Context) error {
	wk.logger.Info("stopping benchmark worker")
	wk.cancel()

	done := make(chan struct{})
	go func() {
		wk.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wk.logger.Info("benchmark worker stopped")
		return nil
	case <-ctx.Done():
		wk.logger.Warn("benchmark worker still running a job", "error", ctx.Err())
		return ctx.Err()
	}
}

func (wk *Worker) Submit(job *BenchmarkJob) error {
	select {
	case <-wk.ctx.Done():
		return ErrShuttingDown
	default:
	}

	select {
	case wk.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (wk *Worker) loop() {
	defer wk.wg.Done()

	for {
		select {
		case job := <-wk.jobQueue:
			wk.processJob(job)
		case <-wk.ctx.Done():
			return
		}
	}
}

func (wk *Worker) processJob(job *BenchmarkJob) {
	log := wk.logger.With("job_id", job.ID)
	log.Info("processing job", "workloads", job.Config.Workloads, "measures", job.Config.Measures)

	wk.jobStore.UpdateStatus(job.ID, StatusRunning)
	wk.metrics.JobsInProgress.Inc()
	defer wk.metrics.JobsInProgress.Dec()
	defer close(job.Progress)

	r := runner.NewRunner(job.Config, log)
	r.SetProgressChannel(job.Progress)

	report, err := r.Run()
	if err != nil {
		wk.jobStore.CompleteJob(job.ID, nil, err)
		wk.metrics.JobsTotal.WithLabelValues(StatusFailed).Inc()
		log.Error("job failed", "error", err)
		return
	}

	for _, res := range report.Results {
		wk.metrics.RecordBenchmark(res.Measure, res.Observations, res.Elapsed)
	}
	wk.jobStore.CompleteJob(job.ID, report, nil)
	wk.metrics.JobsTotal.WithLabelValues(StatusCompleted).Inc()
	log.Info("job completed", "results", len(report.Results))
}
