package output

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/gbench/internal/runner"
	"github.com/user/gbench/pkg/sysinfo"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

type Data struct {
	SystemInfo *sysinfo.SystemInfo
	Report     *runner.Report
	Config     runner.Config
}

type Formatter interface {
	Format(w io.Writer, data Data) error
}

func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "table":
		return &TableFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "csv":
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func Formats() []string {
	return []string{"table", "json", "csv"}
}

func totalElapsed(results []runner.Result) time.Duration {
	var total time.Duration
	for _, r := range results {
		total += r.Elapsed
	}
	return total
}

func totalObservations(results []runner.Result) int {
	total := 0
	for _, r := range results {
		total += r.Observations
	}
	return total
}
