package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/academicworkflow/awap/internal/client"
)

type DoctorOptions struct {
	GlobalOptions
}

func DefaultDoctorOptions() *DoctorOptions {
	return &DoctorOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdDoctor() *cobra.Command {
	o := DefaultDoctorOptions()
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the local configuration and server connectivity.",
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

func (o *DoctorOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
}

func (o *DoctorOptions) Run(ctx context.Context, args []string) error {
	failed := false

	if _, err := os.Stat(o.ConfigFilePath); err == nil {
		if _, err := client.ParseConfigFile(o.ConfigFilePath); err != nil {
			failed = true
			fmt.Printf("FAIL config file %s: %v\n", o.ConfigFilePath, err)
		} else {
			fmt.Printf("OK   config file %s\n", o.ConfigFilePath)
		}
	} else {
		fmt.Printf("OK   no config file at %s, using defaults\n", o.ConfigFilePath)
	}

	c, err := o.Client()
	if err != nil {
		return err
	}

	if err := c.Health(ctx); err != nil {
		failed = true
		fmt.Printf("FAIL server health: %v\n", err)
	} else {
		fmt.Println("OK   server reachable")
	}

	if failed {
		return fmt.Errorf("one or more checks failed")
	}
	return nil
}
