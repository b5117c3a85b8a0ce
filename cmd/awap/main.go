package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/academicworkflow/awap/internal/cli"
)

func main() {
	command := NewAwapCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewAwapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "awap [flags] [options]",
		Short: "awap drives the Academic Workflow marking service.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdMark())
	cmd.AddCommand(cli.NewCmdBatch())
	cmd.AddCommand(cli.NewCmdUpload())
	cmd.AddCommand(cli.NewCmdSubmit())
	cmd.AddCommand(cli.NewCmdStatus())
	cmd.AddCommand(cli.NewCmdResults())
	cmd.AddCommand(cli.NewCmdFeedback())
	cmd.AddCommand(cli.NewCmdFuzz())
	cmd.AddCommand(cli.NewCmdReport())
	cmd.AddCommand(cli.NewCmdDoctor())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
