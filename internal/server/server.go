package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/user/gbench/internal/metrics"
	"github.com/user/gbench/internal/runner"
	"github.com/user/gbench/internal/workloads"
	"github.com/user/gbench/pkg/sysinfo"
)

type Options struct {
	Port      string
	QueueSize int
	// Defaults fills in fields a submitted config leaves empty.
	Defaults runner.Config
	Logger   *slog.Logger
}

type Server struct {
	router   *mux.Router
	httpSrv  *http.Server
	jobStore *JobStore
	worker   *Worker
	metrics  *metrics.Metrics
	sysInfo  *sysinfo.SystemInfo
	defaults runner.Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

type WorkloadInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	sysInfo, err := sysinfo.Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to collect system info: %w", err)
	}

	jobStore := NewJobStore()
	m := metrics.New()

	s := &Server{
		router:   mux.NewRouter(),
		jobStore: jobStore,
		worker:   NewWorker(opts.QueueSize, jobStore, m, opts.Logger),
		metrics:  m,
		sysInfo:  sysInfo,
		defaults: opts.Defaults,
		logger:   opts.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.httpSrv = &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(s.countRequests)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/system-info", s.handleSystemInfo).Methods("GET")
	api.HandleFunc("/workloads", s.handleListWorkloads).Methods("GET")
	api.HandleFunc("/benchmarks", s.handleCreateBenchmark).Methods("POST")
	api.HandleFunc("/benchmarks", s.handleListBenchmarks).Methods("GET")
	api.HandleFunc("/benchmarks/{id}", s.handleGetBenchmark).Methods("GET")
	api.HandleFunc("/benchmarks/{id}/progress", s.handleBenchmarkProgress).Methods("GET")

	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
}

// Start runs the worker and serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.worker.Start()

	s.logger.Info("gbench server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for the running benchmark
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Join(s.httpSrv.Shutdown(ctx), s.worker.Stop(ctx))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		// websocket upgrades need the raw writer
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			s.metrics.RecordRequest(r.Method, path, http.StatusSwitchingProtocols)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordRequest(r.Method, path, rec.status)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sysInfo)
}

func (s *Server) handleListWorkloads(w http.ResponseWriter, r *http.Request) {
	var list []WorkloadInfo
	for _, wl := range workloads.All() {
		list = append(list, WorkloadInfo{Name: wl.Name(), Description: wl.Description()})
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) applyDefaults(config *runner.Config) {
	if len(config.Workloads) == 0 {
		config.Workloads = s.defaults.Workloads
	}
	if len(config.Measures) == 0 {
		config.Measures = s.defaults.Measures
	}
	if config.MinTime == 0 {
		config.MinTime = s.defaults.MinTime
	}
	if config.Growth == "" {
		config.Growth = s.defaults.Growth
	}
	if config.GrowthStep == 0 {
		config.GrowthStep = s.defaults.GrowthStep
	}
	if config.GrowthFactor == 0 {
		config.GrowthFactor = s.defaults.GrowthFactor
	}
	// nobody is watching a terminal spinner on the server
	config.ShowProgress = false
}

func (s *Server) handleCreateBenchmark(w http.ResponseWriter, r *http.Request) {
	var config runner.Config
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.applyDefaults(&config)
	if err := config.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	job := &BenchmarkJob{
		ID:        uuid.New().String(),
		Config:    config,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		Progress:  make(chan runner.ProgressUpdate, 100),
	}

	s.jobStore.Add(job)
	if err := s.worker.Submit(job); err != nil {
		s.jobStore.Remove(job.ID)
		s.logger.Warn("rejecting benchmark job", "error", err)
		http.Error(w, "Server is busy, please try again later", http.StatusServiceUnavailable)
		return
	}

	s.logger.Info("queued benchmark job", "job_id", job.ID, "workloads", config.Workloads, "measures", config.Measures)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID,
		"status": StatusQueued,
	})
}

func (s *Server) handleListBenchmarks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jobStore.List())
}

func (s *Server) handleGetBenchmark(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, exists := s.jobStore.Get(id)
	if !exists {
		http.Error(w, "Benchmark not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleBenchmarkProgress(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, exists := s.jobStore.Get(id)
	if !exists {
		http.Error(w, "Benchmark not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	sendFinal := func() {
		current, _ := s.jobStore.Get(id)
		conn.WriteJSON(map[string]any{
			"status":    current.Status,
			"completed": true,
			"error":     current.Error,
		})
	}

	for {
		select {
		case update, ok := <-job.Progress:
			if !ok {
				sendFinal()
				return
			}
			if err := conn.WriteJSON(map[string]any{
				"status":    StatusRunning,
				"completed": false,
				"update":    update,
			}); err != nil {
				return
			}
		case <-ticker.C:
			current, exists := s.jobStore.Get(id)
			if !exists {
				return
			}
			if current.Status == StatusCompleted || current.Status == StatusFailed {
				// drain what the runner already published
				for update := range job.Progress {
					conn.WriteJSON(map[string]any{
						"status":    StatusRunning,
						"completed": false,
						"update":    update,
					})
				}
				sendFinal()
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
