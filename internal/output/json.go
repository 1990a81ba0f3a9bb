package output

import (
	"encoding/json"
	"io"
	"time"
)

type JSONFormatter struct{}

type JSONOutput struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SystemInfo any       `json:"system_info"`
	Config     any       `json:"config"`
	Results    any       `json:"results"`
	Summary    struct {
		Benchmarks      int           `json:"benchmarks"`
		Observations    int           `json:"observations"`
		TotalTime       time.Duration `json:"total_time"`
		TotalTimeString string        `json:"total_time_string"`
	} `json:"summary"`
}

func (j *JSONFormatter) Format(w io.Writer, data Data) error {
	output := JSONOutput{
		ID:         data.Report.ID,
		Timestamp:  data.Report.StartedAt,
		SystemInfo: data.SystemInfo,
		Config: map[string]any{
			"workloads":     data.Config.Workloads,
			"measures":      data.Config.Measures,
			"min_time":      data.Config.MinTime.String(),
			"growth":        data.Config.Growth,
			"growth_step":   data.Config.GrowthStep,
			"growth_factor": data.Config.GrowthFactor,
		},
		Results: data.Report.Results,
	}

	total := totalElapsed(data.Report.Results)
	output.Summary.Benchmarks = len(data.Report.Results)
	output.Summary.Observations = totalObservations(data.Report.Results)
	output.Summary.TotalTime = total
	output.Summary.TotalTimeString = total.String()

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
