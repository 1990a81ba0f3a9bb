// Package sysinfo describes the machine a benchmark ran on.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

type SystemInfo struct {
	OS           string  `json:"os"`
	Architecture string  `json:"architecture"`
	CPUModel     string  `json:"cpu_model"`
	CPUMhz       float64 `json:"cpu_mhz"`
	CPUCores     int     `json:"cpu_cores"`
	CPUThreads   int     `json:"cpu_threads"`
	GOMAXPROCS   int     `json:"gomaxprocs"`
	TotalMemory  uint64  `json:"total_memory"`
	GoVersion    string  `json:"go_version"`
	Hostname     string  `json:"hostname"`
	Platform     string  `json:"platform"`
	LoadAverage  float64 `json:"load_average"`
}

// Collect gathers what it can. Fields gopsutil cannot read on this platform
// are left empty.
func Collect() (*SystemInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return CollectContext(ctx)
}

func CollectContext(ctx context.Context) (*SystemInfo, error) {
	info := &SystemInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		GoVersion:    runtime.Version(),
		GOMAXPROCS:   runtime.GOMAXPROCS(0),
		CPUThreads:   runtime.NumCPU(),
	}

	cpuInfo, err := cpu.InfoWithContext(ctx)
	if err == nil && len(cpuInfo) > 0 {
		info.CPUModel = strings.TrimSpace(cpuInfo[0].ModelName)
		info.CPUMhz = cpuInfo[0].Mhz
	}

	cores, err := cpu.CountsWithContext(ctx, false)
	if err == nil && cores > 0 {
		info.CPUCores = cores
	} else {
		info.CPUCores = info.CPUThreads
	}

	memInfo, err := mem.VirtualMemoryWithContext(ctx)
	if err == nil {
		info.TotalMemory = memInfo.Total
	}

	hostInfo, err := host.InfoWithContext(ctx)
	if err == nil {
		info.Hostname = hostInfo.Hostname
		info.Platform = hostInfo.Platform
	}

	loadAvg, err := load.AvgWithContext(ctx)
	if err == nil {
		info.LoadAverage = loadAvg.Load1
	}

	if err := ctx.Err(); err != nil {
		return info, fmt.Errorf("collecting system info: %w", err)
	}
	return info, nil
}

// String renders a one-line header such as
// "linux/amd64 go1.23.0, Intel(R) Xeon(R) (8 cores, 16 threads, GOMAXPROCS=16), 31.2 GB RAM, load 0.42".
func (s *SystemInfo) String() string {
	model := s.CPUModel
	if model == "" {
		model = "unknown CPU"
	}
	return fmt.Sprintf("%s/%s %s, %s (%d cores, %d threads, GOMAXPROCS=%d), %.1f GB RAM, load %.2f",
		s.OS, s.Architecture, s.GoVersion, model, s.CPUCores, s.CPUThreads, s.GOMAXPROCS,
		float64(s.TotalMemory)/(1024*1024*1024), s.LoadAverage)
}
