package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/user/gbench/internal/config"
	"github.com/user/gbench/internal/logger"
	"github.com/user/gbench/internal/output"
	"github.com/user/gbench/internal/runner"
	"github.com/user/gbench/internal/server"
	"github.com/user/gbench/internal/workloads"
	"github.com/user/gbench/pkg/bench"
	"github.com/user/gbench/pkg/sysinfo"
)

var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config
	log     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gbench",
	Short: "An adaptive micro-benchmarking harness",
	Long: `gbench runs small workloads under a measure (wall-clock time or heap
allocations), growing the repetition count until the measure has seen enough.

Time measures keep doubling the repetitions until a run takes at least
--min-time. Memory measures report allocations per repetition after a single
run.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runBenchmark,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available workloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Workload", "Description"})
		table.SetBorder(false)
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, w := range workloads.All() {
			table.Append([]string{w.Name(), w.Description()})
		}
		table.Render()
		return nil
	},
}

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Print information about the host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := sysinfo.CollectContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to collect system info: %w", err)
		}
		if cfg.Format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		fmt.Fprintln(cmd.OutOrStdout(), info)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run benchmarks on request over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServer,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./gbench.yaml)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringP("format", "f", "table", "Output format ("+strings.Join(output.Formats(), ", ")+")")

	d := runner.DefaultConfig()
	f := rootCmd.Flags()
	f.StringSliceP("workloads", "w", d.Workloads, "Workloads to benchmark (see 'gbench list')")
	f.StringSliceP("measures", "m", d.Measures, "Measures to apply (time, memory, counted)")
	f.Duration("min-time", bench.DefaultMinTime, "Minimum total run time for time measures")
	f.String("growth", d.Growth, "Repetition growth policy (double, linear, scale)")
	f.Int("growth-step", d.GrowthStep, "Repetitions added per round with linear growth")
	f.Int("growth-factor", d.GrowthFactor, "Repetition multiplier with scaled growth")
	f.StringP("output", "o", "", "Output file (default: stdout)")
	f.Bool("progress", true, "Show progress spinner")
	f.BoolP("verbose", "v", false, "Log every observation")

	serveCmd.Flags().String("port", "8080", "Web server port")
	serveCmd.Flags().Int("queue-size", 16, "Maximum number of queued benchmark jobs")

	rootCmd.AddCommand(listCmd, sysinfoCmd, serveCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	if cfg.Runner.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	log = logger.New(os.Stderr, level)
	slog.SetDefault(log)

	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("loaded config file", "path", used)
	}
	return nil
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	sysInfo, err := sysinfo.CollectContext(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to collect system info: %w", err)
	}
	log.Debug("collected system info", "system", sysInfo.String())

	report, err := runner.NewRunner(cfg.Runner, log).Run()
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	formatter, err := output.NewFormatter(cfg.Format)
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	outputData := output.Data{
		SystemInfo: sysInfo,
		Report:     report,
		Config:     cfg.Runner,
	}

	writer := cmd.OutOrStdout()
	if cfg.Output != "" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	if err := formatter.Format(writer, outputData); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if cfg.Output != "" {
		log.Info("wrote results", "path", cfg.Output, "format", cfg.Format)
	}
	return nil
}

func runServer(cmd *cobra.Command, args []string) error {
	srv, err := server.NewServer(server.Options{
		Port:      cfg.Port,
		QueueSize: cfg.QueueSize,
		Defaults:  cfg.Runner,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
