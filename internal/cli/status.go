package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/academicworkflow/awap/internal/client"
)

type StatusOptions struct {
	GlobalOptions

	Watch bool
}

func DefaultStatusOptions() *StatusOptions {
	return &StatusOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdStatus() *cobra.Command {
	o := DefaultStatusOptions()
	cmd := &cobra.Command{
		Use:   "status JOB_ID",
		Short: "Show the status of a marking job.",
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

func (o *StatusOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.BoolVarP(&o.Watch, "watch", "w", o.Watch, "Wait until the job reaches a terminal status")
}

func (o *StatusOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	if o.Watch {
		status, err := c.AwaitCompletion(ctx, args[0], client.PollOptions{})
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && status == client.StatusFailed {
				fmt.Printf("Status: %s\nError: %s\n", status, apiErr.Message)
				return nil
			}
			return fmt.Errorf("watching job %s: %w", args[0], err)
		}
		fmt.Printf("Status: %s\n", status)
		return nil
	}

	snapshot, err := c.PollOnce(ctx, args[0])
	if err != nil {
		return fmt.Errorf("checking job %s: %w", args[0], err)
	}
	return printHuman(&snapshot)
}
