package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/academicworkflow/awap/internal/client"
)

type BatchOptions struct {
	GlobalOptions

	Rubric       string
	AutoFeedback bool
}

func DefaultBatchOptions() *BatchOptions {
	return &BatchOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Rubric:        "standard",
		AutoFeedback:  true,
	}
}

func NewCmdBatch() *cobra.Command {
	o := DefaultBatchOptions()
	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Mark every TMA file in a directory, one at a time.",
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

func (o *BatchOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Rubric, "rubric", "r", o.Rubric, "Rubric used for marking")
	fs.BoolVar(&o.AutoFeedback, "auto-feedback", o.AutoFeedback, "Request generated feedback with the marking")
}

// Run marks each file sequentially. A failed file is reported and skipped,
// the rest of the batch still runs. The student identifier is derived from
// the file name stem.
func (o *BatchOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(args[0])
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", args[0], err)
	}

	marked, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(args[0], entry.Name())
		studentID := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		outcome, err := c.RunWorkflow(ctx, client.WorkflowRequest{
			FilePath:     path,
			StudentID:    studentID,
			Rubric:       o.Rubric,
			AutoFeedback: o.AutoFeedback,
			Wait:         true,
		})
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", entry.Name(), err)
			continue
		}
		marked++
		fmt.Printf("OK   %s: score %.1f grade %s\n", entry.Name(), outcome.Result.Score, outcome.Result.Grade)
	}

	fmt.Printf("\nMarked %d, failed %d\n", marked, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", failed, marked+failed)
	}
	return nil
}
