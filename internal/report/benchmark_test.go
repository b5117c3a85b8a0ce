package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleBenchOutput = `goos: linux
goarch: amd64
BenchmarkUpload-8         1000    1500000 ns/op    2048 B/op    12 allocs/op
BenchmarkSubmit-8        50000      25000 ns/op
BenchmarkPollOnce         30000      18000 ns/op     512 B/op     4 allocs/op
PASS
ok      example 3.21s
`

func TestParseBenchOutput(t *testing.T) {
	results, err := ParseBenchOutput(strings.NewReader(sampleBenchOutput))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "BenchmarkUpload", results[0].Name)
	assert.Equal(t, 1000, results[0].Iterations)
	assert.Equal(t, 1500000.0, results[0].NsPerOp)
	assert.Equal(t, 2048.0, results[0].BytesPerOp)
	assert.Equal(t, 12.0, results[0].AllocsPerOp)

	assert.Equal(t, "BenchmarkSubmit", results[1].Name)
	assert.Zero(t, results[1].BytesPerOp)

	assert.Equal(t, "BenchmarkPollOnce", results[2].Name)
}

func TestParseBenchOutputIgnoresGarbage(t *testing.T) {
	results, err := ParseBenchOutput(strings.NewReader("Benchmark broken line\nnothing here\n"))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBenchmarkAggregatorLoad(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "bench_client.txt", sampleBenchOutput)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "integration"), 0700))
	writeArtifact(t, filepath.Join(dir, "integration"), "workflow.json",
		`{"benchmark": "FullWorkflow", "ns_per_op": 2500000000}`)

	summary := NewBenchmarkAggregator(dir, zap.NewNop()).Load()

	assert.Len(t, summary.Results, 3)
	require.Contains(t, summary.Integration, "FullWorkflow")
	assert.Equal(t, 2.5e9, summary.Integration["FullWorkflow"])
	assert.Empty(t, summary.Regressions)
}

func TestBenchmarkAggregatorDetectsRegressions(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "bench_client.txt", sampleBenchOutput)

	baseline := Baseline{Benchmarks: map[string]float64{
		"BenchmarkUpload": 1000000, // current 1500000 is +50%
		"BenchmarkSubmit": 24000,   // current 25000 is +4.2%, below threshold
	}}
	contents, err := json.Marshal(baseline)
	require.NoError(t, err)
	baselinePath := filepath.Join(dir, "baseline.json")
	require.NoError(t, os.WriteFile(baselinePath, contents, 0600))

	aggregator := NewBenchmarkAggregator(dir, zap.NewNop())
	require.NoError(t, aggregator.LoadBaseline(baselinePath))
	summary := aggregator.Load()

	require.Len(t, summary.Regressions, 1)
	regression := summary.Regressions[0]
	assert.Equal(t, "BenchmarkUpload", regression.Benchmark)
	assert.Equal(t, 1000000.0, regression.Baseline)
	assert.Equal(t, 1500000.0, regression.Current)
	assert.InDelta(t, 50.0, regression.ChangePct, 0.01)
}

func TestBenchmarkAggregatorBaselineThreshold(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "bench_client.txt", sampleBenchOutput)

	baseline := Baseline{Benchmarks: map[string]float64{"BenchmarkSubmit": 24000}}
	baseline.Thresholds.RegressionPercentage = 2.0
	contents, err := json.Marshal(baseline)
	require.NoError(t, err)
	baselinePath := filepath.Join(dir, "baseline.json")
	require.NoError(t, os.WriteFile(baselinePath, contents, 0600))

	aggregator := NewBenchmarkAggregator(dir, zap.NewNop())
	require.NoError(t, aggregator.LoadBaseline(baselinePath))
	summary := aggregator.Load()

	require.Len(t, summary.Regressions, 1)
	assert.Equal(t, "BenchmarkSubmit", summary.Regressions[0].Benchmark)
}

func TestBenchmarkAggregatorSaveBaselineRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "bench_client.txt", sampleBenchOutput)

	aggregator := NewBenchmarkAggregator(dir, zap.NewNop())
	summary := aggregator.Load()

	baselinePath := filepath.Join(dir, "baseline.json")
	require.NoError(t, aggregator.SaveBaseline(baselinePath, summary))
	require.NoError(t, aggregator.LoadBaseline(baselinePath))

	// Identical results against their own baseline never regress.
	assert.Empty(t, aggregator.Load().Regressions)
}

func TestBenchmarkAggregatorLoadBaselineMissing(t *testing.T) {
	aggregator := NewBenchmarkAggregator(t.TempDir(), zap.NewNop())
	assert.Error(t, aggregator.LoadBaseline("/nonexistent/baseline.json"))
}
