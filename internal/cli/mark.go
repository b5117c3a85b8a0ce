package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	"github.com/academicworkflow/awap/internal/client"
)

type MarkOptions struct {
	GlobalOptions

	StudentID    string
	Rubric       string
	AutoFeedback bool
	NoWait       bool
	Output       string
	OutputFile   string
}

func DefaultMarkOptions() *MarkOptions {
	return &MarkOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Rubric:        "standard",
		AutoFeedback:  true,
	}
}

func NewCmdMark() *cobra.Command {
	o := DefaultMarkOptions()
	cmd := &cobra.Command{
		Use:   "mark FILE",
		Short: "Upload a TMA and run the full marking workflow.",
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

func (o *MarkOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.StudentID, "student-id", "s", o.StudentID, "Student identifier submitted with the TMA")
	fs.StringVarP(&o.Rubric, "rubric", "r", o.Rubric, "Rubric used for marking")
	fs.BoolVar(&o.AutoFeedback, "auto-feedback", o.AutoFeedback, "Request generated feedback with the marking")
	fs.BoolVar(&o.NoWait, "no-wait", o.NoWait, "Submit without waiting; print the pending handles")
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.OutputFile, "output-file", o.OutputFile, "Write the output to a file instead of stdout")
}

func (o *MarkOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.StudentID == "" {
		return fmt.Errorf("--student-id is required")
	}
	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

func (o *MarkOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	outcome, err := c.RunWorkflow(ctx, client.WorkflowRequest{
		FilePath:     args[0],
		StudentID:    o.StudentID,
		Rubric:       o.Rubric,
		AutoFeedback: o.AutoFeedback,
		Wait:         !o.NoWait,
	})
	if err != nil {
		return fmt.Errorf("marking %s: %w", args[0], err)
	}

	if outcome.Pending != nil {
		return writeOutput(outcome.Pending, o.Output, o.OutputFile)
	}
	return writeOutput(outcome.Result, o.Output, o.OutputFile)
}
