package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"sigs.k8s.io/yaml"

	"github.com/academicworkflow/awap/internal/client"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

// writeOutput marshals value in the requested format to path, or stdout when
// path is empty. The empty format prints a human table for known types.
func writeOutput(value interface{}, output, path string) error {
	var marshalled []byte
	var err error

	switch output {
	case jsonFormat:
		marshalled, err = json.MarshalIndent(value, "", "  ")
	case yamlFormat:
		marshalled, err = yaml.Marshal(value)
	default:
		return printHuman(value)
	}
	if err != nil {
		return fmt.Errorf("marshalling output: %w", err)
	}
	marshalled = append(marshalled, '\n')

	if path == "" {
		fmt.Print(string(marshalled))
		return nil
	}
	if err := os.WriteFile(path, marshalled, 0600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

func printHuman(value interface{}) error {
	switch v := value.(type) {
	case *client.MarkingResult:
		printResultTable(v)
	case *client.PendingMarking:
		fmt.Printf("TMA ID: %s\nJob ID: %s\n", v.TMAID, v.JobID)
	case *client.JobSnapshot:
		fmt.Printf("Job ID: %s\nStatus: %s\n", v.JobID, v.Status)
		if v.Error != "" {
			fmt.Printf("Error: %s\n", v.Error)
		}
	default:
		marshalled, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling output: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
	}
	return nil
}

func printResultTable(result *client.MarkingResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	fmt.Fprintf(w, "TMA ID\t%s\n", result.TMAID)
	fmt.Fprintf(w, "Student\t%s\n", result.StudentID)
	fmt.Fprintf(w, "Score\t%.1f\n", result.Score)
	fmt.Fprintf(w, "Grade\t%s\n", result.Grade)
	if result.Feedback.Summary != "" {
		fmt.Fprintf(w, "Summary\t%s\n", result.Feedback.Summary)
	}
	w.Flush()
}
