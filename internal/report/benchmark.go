package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/academicworkflow/awap/internal/report/types"
)

// DefaultRegressionThreshold is the percentage a timing must worsen by to
// count as a regression.
const DefaultRegressionThreshold = 10.0

// Baseline is the persisted shape of a saved benchmark baseline.
type Baseline struct {
	Metadata struct {
		Created string `json:"created"`
	} `json:"metadata"`
	Benchmarks map[string]float64 `json:"benchmarks"` // name -> ns/op
	Thresholds struct {
		RegressionPercentage float64 `json:"regression_percentage"`
	} `json:"thresholds"`
}

// BenchmarkAggregator collects benchmark artifacts from a report directory.
type BenchmarkAggregator struct {
	dir       string
	logger    *zap.Logger
	baseline  *Baseline
	threshold float64
}

func NewBenchmarkAggregator(dir string, logger *zap.Logger) *BenchmarkAggregator {
	return &BenchmarkAggregator{dir: dir, logger: logger, threshold: DefaultRegressionThreshold}
}

// SetThreshold overrides the regression threshold percentage.
func (a *BenchmarkAggregator) SetThreshold(threshold float64) {
	a.threshold = threshold
}

// LoadBaseline reads a baseline file for regression comparison.
func (a *BenchmarkAggregator) LoadBaseline(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading baseline: %w", err)
	}
	var baseline Baseline
	if err := json.Unmarshal(contents, &baseline); err != nil {
		return fmt.Errorf("decoding baseline: %w", err)
	}
	a.baseline = &baseline
	if baseline.Thresholds.RegressionPercentage > 0 {
		a.threshold = baseline.Thresholds.RegressionPercentage
	}
	return nil
}

// Load globs the directory for benchmark output files and integration
// results, then compares against the baseline when one is loaded.
func (a *BenchmarkAggregator) Load() *types.BenchmarkSummary {
	summary := &types.BenchmarkSummary{}
	a.loadBenchOutput(summary)
	a.loadIntegrationResults(summary)
	summary.Regressions = a.detectRegressions(summary)
	return summary
}

// Data wraps the summary for rendering.
func (a *BenchmarkAggregator) Data() *types.ReportData {
	return &types.ReportData{
		Title:       "Benchmark Report",
		GeneratedAt: time.Now().UTC(),
		Benchmark:   a.Load(),
	}
}

// SaveBaseline persists the current results as the new baseline.
func (a *BenchmarkAggregator) SaveBaseline(path string, summary *types.BenchmarkSummary) error {
	var baseline Baseline
	baseline.Metadata.Created = time.Now().UTC().Format(time.RFC3339)
	baseline.Benchmarks = make(map[string]float64, len(summary.Results))
	for _, result := range summary.Results {
		baseline.Benchmarks[result.Name] = result.NsPerOp
	}
	baseline.Thresholds.RegressionPercentage = a.threshold

	contents, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}
	if err := os.WriteFile(path, contents, 0600); err != nil {
		return fmt.Errorf("writing baseline: %w", err)
	}
	return nil
}

func (a *BenchmarkAggregator) loadBenchOutput(summary *types.BenchmarkSummary) {
	matches, err := filepath.Glob(filepath.Join(a.dir, "bench_*.txt"))
	if err != nil {
		return
	}
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			a.logger.Warn("skipping unreadable bench output", zap.String("path", path), zap.Error(err))
			continue
		}
		results, err := ParseBenchOutput(f)
		_ = f.Close()
		if err != nil {
			a.logger.Warn("skipping malformed bench output", zap.String("path", path), zap.Error(err))
			continue
		}
		summary.Results = append(summary.Results, results...)
	}
}

// ParseBenchOutput parses `go test -bench` style output lines:
//
//	BenchmarkUpload-8   12345   9876 ns/op   120 B/op   3 allocs/op
//
// Non-benchmark lines are ignored.
func ParseBenchOutput(r io.Reader) ([]types.BenchmarkResult, error) {
	var results []types.BenchmarkResult

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[3] != "ns/op" {
			continue
		}

		iterations, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		nsPerOp, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}

		result := types.BenchmarkResult{
			Name:       strings.SplitN(fields[0], "-", 2)[0],
			Iterations: iterations,
			NsPerOp:    nsPerOp,
		}
		for i := 4; i+1 < len(fields); i += 2 {
			value, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				continue
			}
			switch fields[i+1] {
			case "B/op":
				result.BytesPerOp = value
			case "allocs/op":
				result.AllocsPerOp = value
			}
		}
		results = append(results, result)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning bench output: %w", err)
	}

	return results, nil
}

func (a *BenchmarkAggregator) loadIntegrationResults(summary *types.BenchmarkSummary) {
	matches, err := filepath.Glob(filepath.Join(a.dir, "integration", "*.json"))
	if err != nil {
		return
	}
	for _, path := range matches {
		contents, err := os.ReadFile(path)
		if err != nil {
			a.logger.Warn("skipping unreadable integration result", zap.String("path", path), zap.Error(err))
			continue
		}
		var record struct {
			Benchmark string  `json:"benchmark"`
			NsPerOp   float64 `json:"ns_per_op"`
		}
		if err := json.Unmarshal(contents, &record); err != nil {
			a.logger.Warn("skipping malformed integration result", zap.String("path", path), zap.Error(err))
			continue
		}
		name := record.Benchmark
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".json")
		}
		if summary.Integration == nil {
			summary.Integration = make(map[string]float64)
		}
		summary.Integration[name] = record.NsPerOp
	}
}

func (a *BenchmarkAggregator) detectRegressions(summary *types.BenchmarkSummary) []types.Regression {
	if a.baseline == nil {
		return nil
	}

	var regressions []types.Regression
	for _, result := range summary.Results {
		baselineNs, ok := a.baseline.Benchmarks[result.Name]
		if !ok || baselineNs <= 0 {
			continue
		}
		changePct := (result.NsPerOp - baselineNs) / baselineNs * 100
		if changePct > a.threshold {
			regressions = append(regressions, types.Regression{
				Benchmark: result.Name,
				Baseline:  baselineNs,
				Current:   result.NsPerOp,
				ChangePct: changePct,
			})
		}
	}
	return regressions
}
