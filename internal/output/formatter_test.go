package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/gbench/internal/runner"
	"github.com/user/gbench/pkg/sysinfo"
)

func testData() Data {
	return Data{
		SystemInfo: &sysinfo.SystemInfo{
			OS:           "linux",
			Architecture: "amd64",
			CPUModel:     "Test CPU",
			CPUCores:     8,
			TotalMemory:  16000000000,
			GoVersion:    "go1.23.0",
		},
		Report: &runner.Report{
			ID:        "3f1c6f1e-0000-4000-8000-000000000000",
			StartedAt: time.Now(),
			Results: []runner.Result{
				{
					Workload:     "push",
					Measure:      runner.MeasureTime,
					Reps:         8192,
					Observations: 14,
					NsPerOp:      2.5,
					Summary:      "2.500 ns/op",
					Elapsed:      1500 * time.Millisecond,
					CompletedAt:  time.Now(),
				},
				{
					Workload:     "push",
					Measure:      runner.MeasureMemory,
					Reps:         1,
					Observations: 1,
					AllocsPerOp:  4,
					BytesPerOp:   800,
					Summary:      "4 allocs/op, 800 bytes alloc'ed/op",
					Elapsed:      200 * time.Microsecond,
					CompletedAt:  time.Now(),
				},
			},
		},
		Config: runner.DefaultConfig(),
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{"table", false},
		{"json", false},
		{"csv", false},
		{"xml", true},
		{"invalid", true},
	}

	for _, test := range tests {
		_, err := NewFormatter(test.format)
		if test.expectErr && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Expected ErrUnsupportedFormat for format %s, got %v", test.format, err)
		}
		if !test.expectErr && err != nil {
			t.Errorf("Unexpected error for format %s: %v", test.format, err)
		}
	}

	for _, format := range Formats() {
		if _, err := NewFormatter(format); err != nil {
			t.Errorf("Listed format %s is not constructible: %v", format, err)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	formatter := &JSONFormatter{}
	buf := &bytes.Buffer{}

	if err := formatter.Format(buf, testData()); err != nil {
		t.Fatalf("JSON formatting failed: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	for _, key := range []string{"id", "system_info", "config", "results", "summary"} {
		if _, ok := result[key]; !ok {
			t.Errorf("Missing %s in JSON output", key)
		}
	}

	summary := result["summary"].(map[string]any)
	if summary["benchmarks"].(float64) != 2 {
		t.Errorf("Expected 2 benchmarks in summary, got %v", summary["benchmarks"])
	}
	if summary["observations"].(float64) != 15 {
		t.Errorf("Expected 15 observations in summary, got %v", summary["observations"])
	}

	config := result["config"].(map[string]any)
	if config["min_time"] != "1s" {
		t.Errorf("Expected min_time 1s, got %v", config["min_time"])
	}
}

func TestCSVFormatter(t *testing.T) {
	formatter := &CSVFormatter{}
	buf := &bytes.Buffer{}

	if err := formatter.Format(buf, testData()); err != nil {
		t.Fatalf("CSV formatting failed: %v", err)
	}

	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d records", len(records))
	}

	header := strings.Join(records[0], ",")
	for _, col := range []string{"Workload", "Measure", "NsPerOp", "AllocsPerOp", "BytesPerOp"} {
		if !strings.Contains(header, col) {
			t.Errorf("CSV header missing %s field", col)
		}
	}

	if records[2][9] != "4 allocs/op, 800 bytes alloc'ed/op" {
		t.Errorf("Unexpected summary column: %q", records[2][9])
	}
}

func TestCSVFormatterWithoutSystemInfo(t *testing.T) {
	data := testData()
	data.SystemInfo = nil

	buf := &bytes.Buffer{}
	if err := (&CSVFormatter{}).Format(buf, data); err != nil {
		t.Fatalf("CSV formatting failed: %v", err)
	}
}

func TestTableFormatter(t *testing.T) {
	formatter := &TableFormatter{}
	buf := &bytes.Buffer{}

	if err := formatter.Format(buf, testData()); err != nil {
		t.Fatalf("Table formatting failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"Benchmark Results", "push", "8192", "2.500 ns/op", "800 bytes alloc'ed/op", "Summary", "Benchmarks run: 2"} {
		if !strings.Contains(output, want) {
			t.Errorf("Table output missing %q", want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "0.50µs"},
		{1500 * time.Microsecond, "1.50ms"},
		{2500 * time.Millisecond, "2.50s"},
		{150 * time.Second, "2.50m"},
	}

	for _, test := range tests {
		result := formatDuration(test.duration)
		if result != test.expected {
			t.Errorf("For duration %v, expected %s, got %s", test.duration, test.expected, result)
		}
	}
}
