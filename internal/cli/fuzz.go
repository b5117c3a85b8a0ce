package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/academicworkflow/awap/internal/config"
	"github.com/academicworkflow/awap/internal/fuzz"
	"github.com/academicworkflow/awap/pkg/log"
)

type FuzzOptions struct {
	BaseUrl     string
	MaxRequests int
	Seed        int64
	Timeout     time.Duration
	ReportFile  string
}

func DefaultFuzzOptions() *FuzzOptions {
	return &FuzzOptions{
		BaseUrl:    "http://localhost:8080",
		Timeout:    5 * time.Second,
		ReportFile: "api_fuzz_report.json",
	}
}

func NewCmdFuzz() *cobra.Command {
	o := DefaultFuzzOptions()
	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Probe the API surface with malformed inputs and report findings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *FuzzOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.BaseUrl, "base-url", "u", o.BaseUrl, "Base URL of the API under test")
	fs.IntVar(&o.MaxRequests, "max-requests", o.MaxRequests, "Stop after this many requests (0 means the full grid)")
	fs.Int64Var(&o.Seed, "seed", o.Seed, "Seed for payload generation (0 picks one)")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Per-request timeout")
	fs.StringVar(&o.ReportFile, "report-file", o.ReportFile, "Where to write the JSON findings report")
}

func (o *FuzzOptions) Complete(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("max-requests") && cfg.Fuzz.MaxRequests > 0 {
		o.MaxRequests = cfg.Fuzz.MaxRequests
	}
	if !cmd.Flags().Changed("seed") && cfg.Fuzz.Seed != 0 {
		o.Seed = cfg.Fuzz.Seed
	}
	return nil
}

func (o *FuzzOptions) Run(ctx context.Context, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	logger := log.NewLogger(cfg.Service.LogLevel)
	defer func() { _ = logger.Sync() }()

	harness := fuzz.NewHarness(fuzz.Config{
		BaseURL:     o.BaseUrl,
		Timeout:     o.Timeout,
		MaxRequests: o.MaxRequests,
		Seed:        o.Seed,
	}, logger)

	report, err := harness.Run(ctx)
	if err != nil {
		return fmt.Errorf("fuzzing %s: %w", o.BaseUrl, err)
	}

	if err := fuzz.WriteReport(report, o.ReportFile); err != nil {
		return err
	}

	counts := report.CountBySeverity()
	fmt.Printf("Requests sent: %d\n", report.TotalRequests)
	for _, severity := range fuzz.Severities() {
		fmt.Printf("%-8s %d\n", severity, counts[severity])
	}
	fmt.Printf("Report written to %s\n", o.ReportFile)

	if report.Failed() {
		return fmt.Errorf("found %d critical and %d high severity issues",
			counts[fuzz.SeverityCritical], counts[fuzz.SeverityHigh])
	}
	return nil
}
