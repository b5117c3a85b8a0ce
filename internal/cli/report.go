package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	"github.com/academicworkflow/awap/internal/config"
	"github.com/academicworkflow/awap/internal/report"
	"github.com/academicworkflow/awap/internal/report/console"
	"github.com/academicworkflow/awap/internal/report/html"
	"github.com/academicworkflow/awap/internal/report/jsonfmt"
	"github.com/academicworkflow/awap/internal/report/markdown"
	"github.com/academicworkflow/awap/internal/report/types"
	"github.com/academicworkflow/awap/internal/report/xlsx"
	"github.com/academicworkflow/awap/pkg/log"
)

const (
	securityReportKind  = "security"
	benchmarkReportKind = "benchmark"
)

var legalReportKinds = []string{securityReportKind, benchmarkReportKind}

type ReportOptions struct {
	InputDir     string
	Formats      []string
	OutputDir    string
	Baseline     string
	SaveBaseline string
	Threshold    float64
}

func DefaultReportOptions() *ReportOptions {
	return &ReportOptions{
		Formats:   []string{string(types.ReportFormatConsole)},
		Threshold: report.DefaultRegressionThreshold,
	}
}

func NewCmdReport() *cobra.Command {
	o := DefaultReportOptions()
	cmd := &cobra.Command{
		Use:   "report (security | benchmark)",
		Short: "Aggregate diagnostic artifacts into a report.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ReportOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.InputDir, "input-dir", "d", o.InputDir, "Directory holding the artifacts to aggregate")
	fs.StringSliceVarP(&o.Formats, "format", "f", o.Formats, fmt.Sprintf("Output formats. Any of: (%s).", strings.Join(types.Formats(), ", ")))
	fs.StringVar(&o.OutputDir, "output-dir", o.OutputDir, "Directory for rendered report files (default: the input directory)")
	fs.StringVar(&o.Baseline, "baseline", o.Baseline, "Benchmark baseline file for regression comparison")
	fs.StringVar(&o.SaveBaseline, "save-baseline", o.SaveBaseline, "Write the aggregated benchmarks as a new baseline file")
	fs.Float64Var(&o.Threshold, "threshold", o.Threshold, "Regression threshold percentage")
}

func (o *ReportOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.InputDir == "" {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		o.InputDir = cfg.Service.ReportDir
	}
	if o.OutputDir == "" {
		o.OutputDir = o.InputDir
	}
	return nil
}

func (o *ReportOptions) Validate(args []string) error {
	if !funk.Contains(legalReportKinds, args[0]) {
		return fmt.Errorf("report kind must be one of %s", strings.Join(legalReportKinds, ", "))
	}
	for _, format := range o.Formats {
		if !funk.Contains(types.Formats(), format) {
			return fmt.Errorf("format must be any of %s", strings.Join(types.Formats(), ", "))
		}
	}
	if args[0] == securityReportKind && (o.Baseline != "" || o.SaveBaseline != "") {
		return fmt.Errorf("baseline flags apply to benchmark reports only")
	}
	return nil
}

func (o *ReportOptions) Run(ctx context.Context, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	logger := log.NewLogger(cfg.Service.LogLevel)
	defer func() { _ = logger.Sync() }()

	var data *types.ReportData
	exitCode := 0

	switch args[0] {
	case securityReportKind:
		aggregator := report.NewSecurityAggregator(o.InputDir, logger)
		data = aggregator.Data()
		exitCode = data.Security.ExitCode()
	case benchmarkReportKind:
		aggregator := report.NewBenchmarkAggregator(o.InputDir, logger)
		aggregator.SetThreshold(o.Threshold)
		if o.Baseline != "" {
			if err := aggregator.LoadBaseline(o.Baseline); err != nil {
				return err
			}
		}
		data = aggregator.Data()
		if o.SaveBaseline != "" {
			if err := aggregator.SaveBaseline(o.SaveBaseline, data.Benchmark); err != nil {
				return err
			}
		}
		if len(data.Benchmark.Regressions) > 0 {
			exitCode = 1
		}
	}

	if err := o.render(data, args[0]); err != nil {
		return err
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

func (o *ReportOptions) render(data *types.ReportData, kind string) error {
	renderers := map[string]types.Renderer{
		string(types.ReportFormatHTML):     html.NewRenderer(),
		string(types.ReportFormatMarkdown): markdown.NewRenderer(),
		string(types.ReportFormatJSON):     jsonfmt.NewRenderer(),
		string(types.ReportFormatConsole):  console.NewRenderer(),
		string(types.ReportFormatXLSX):     xlsx.NewRenderer(),
	}
	extensions := map[string]string{
		string(types.ReportFormatHTML):     ".html",
		string(types.ReportFormatMarkdown): ".md",
		string(types.ReportFormatJSON):     ".json",
		string(types.ReportFormatXLSX):     ".xlsx",
	}

	for _, format := range o.Formats {
		rendered, err := renderers[format].Render(data)
		if err != nil {
			return fmt.Errorf("rendering %s report: %w", format, err)
		}

		if format == string(types.ReportFormatConsole) {
			fmt.Print(rendered)
			continue
		}

		path := filepath.Join(o.OutputDir, fmt.Sprintf("%s_report%s", kind, extensions[format]))
		if err := os.WriteFile(path, []byte(rendered), 0600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Report written to %s\n", path)
	}
	return nil
}
