package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

type CSVFormatter struct{}

func (c *CSVFormatter) Format(w io.Writer, data Data) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"RunID",
		"Timestamp",
		"Workload",
		"Measure",
		"Reps",
		"Observations",
		"NsPerOp",
		"AllocsPerOp",
		"BytesPerOp",
		"Summary",
		"Elapsed(ms)",
		"OS",
		"Architecture",
		"CPUModel",
	}

	if err := writer.Write(header); err != nil {
		return err
	}

	var osName, arch, cpuModel string
	if data.SystemInfo != nil {
		osName = data.SystemInfo.OS
		arch = data.SystemInfo.Architecture
		cpuModel = data.SystemInfo.CPUModel
	}

	for _, result := range data.Report.Results {
		row := []string{
			data.Report.ID,
			result.CompletedAt.Format(time.RFC3339),
			result.Workload,
			result.Measure,
			fmt.Sprintf("%d", result.Reps),
			fmt.Sprintf("%d", result.Observations),
			fmt.Sprintf("%.3f", result.NsPerOp),
			fmt.Sprintf("%d", result.AllocsPerOp),
			fmt.Sprintf("%d", result.BytesPerOp),
			result.Summary,
			fmt.Sprintf("%.2f", float64(result.Elapsed.Nanoseconds())/1e6),
			osName,
			arch,
			cpuModel,
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}
