package output

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

type TableFormatter struct{}

func (t *TableFormatter) Format(w io.Writer, data Data) error {
	if data.SystemInfo != nil {
		fmt.Fprintln(w, data.SystemInfo)
	}
	fmt.Fprintln(w, "\nBenchmark Results")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Workload",
		"Measure",
		"Reps",
		"Observations",
		"Result",
		"Elapsed",
	})

	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	results := data.Report.Results
	for _, result := range results {
		table.Append([]string{
			result.Workload,
			result.Measure,
			fmt.Sprintf("%d", result.Reps),
			fmt.Sprintf("%d", result.Observations),
			result.Summary,
			formatDuration(result.Elapsed),
		})
	}

	table.Render()

	fmt.Fprintln(w, "\nSummary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "Benchmarks run: %d\n", len(results))
	fmt.Fprintf(w, "Observations: %d\n", totalObservations(results))
	fmt.Fprintf(w, "Total time: %s\n", formatDuration(totalElapsed(results)))

	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000)
	} else if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.2fm", d.Minutes())
}
