package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type UploadOptions struct {
	GlobalOptions

	StudentID string
	Rubric    string
}

func DefaultUploadOptions() *UploadOptions {
	return &UploadOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Rubric:        "standard",
	}
}

func NewCmdUpload() *cobra.Command {
	o := DefaultUploadOptions()
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a TMA file without submitting it for marking.",
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

func (o *UploadOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.StudentID, "student-id", "s", o.StudentID, "Student identifier submitted with the TMA")
	fs.StringVarP(&o.Rubric, "rubric", "r", o.Rubric, "Rubric used for marking")
}

func (o *UploadOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.StudentID == "" {
		return fmt.Errorf("--student-id is required")
	}
	return nil
}

func (o *UploadOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	tmaID, err := c.Upload(ctx, args[0], o.StudentID, o.Rubric)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", args[0], err)
	}
	fmt.Printf("TMA ID: %s\n", tmaID)
	return nil
}
