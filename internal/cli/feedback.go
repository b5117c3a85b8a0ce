package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	"github.com/academicworkflow/awap/internal/formatter"
)

type FeedbackOptions struct {
	GlobalOptions

	Style      string
	OutputFile string
}

func DefaultFeedbackOptions() *FeedbackOptions {
	return &FeedbackOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Style:         string(formatter.StyleMarkdown),
	}
}

func NewCmdFeedback() *cobra.Command {
	o := DefaultFeedbackOptions()
	cmd := &cobra.Command{
		Use:   "feedback TMA_ID",
		Short: "Fetch a marking result and render its feedback document.",
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

func (o *FeedbackOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Style, "style", o.Style, fmt.Sprintf("Feedback style. One of: (%s).", strings.Join(formatter.Styles(), ", ")))
	fs.StringVar(&o.OutputFile, "output-file", o.OutputFile, "Write the document to a file instead of stdout")
}

func (o *FeedbackOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if !funk.Contains(formatter.Styles(), o.Style) {
		return fmt.Errorf("style must be one of %s", strings.Join(formatter.Styles(), ", "))
	}
	return nil
}

func (o *FeedbackOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	result, err := c.FetchResult(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetching results for %s: %w", args[0], err)
	}

	document, err := formatter.Format(result, formatter.Style(o.Style))
	if err != nil {
		return fmt.Errorf("rendering feedback: %w", err)
	}

	if o.OutputFile == "" {
		fmt.Println(document)
		return nil
	}
	if err := os.WriteFile(o.OutputFile, []byte(document), 0600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
