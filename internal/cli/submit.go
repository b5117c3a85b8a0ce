package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type SubmitOptions struct {
	GlobalOptions

	Rubric       string
	AutoFeedback bool
}

func DefaultSubmitOptions() *SubmitOptions {
	return &SubmitOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Rubric:        "standard",
		AutoFeedback:  true,
	}
}

func NewCmdSubmit() *cobra.Command {
	o := DefaultSubmitOptions()
	cmd := &cobra.Command{
		Use:   "submit TMA_ID",
		Short: "Submit an uploaded TMA for marking.",
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

func (o *SubmitOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Rubric, "rubric", "r", o.Rubric, "Rubric used for marking")
	fs.BoolVar(&o.AutoFeedback, "auto-feedback", o.AutoFeedback, "Request generated feedback with the marking")
}

func (o *SubmitOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	jobID, err := c.Submit(ctx, args[0], o.Rubric, o.AutoFeedback)
	if err != nil {
		return fmt.Errorf("submitting %s: %w", args[0], err)
	}
	fmt.Printf("Job ID: %s\n", jobID)
	return nil
}
