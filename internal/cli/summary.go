// summary.go implements the "elicit summary" command.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary PROJECT_ID",
	Short: "Show the requirement counters for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Print the raw summary as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	client := newClient()
	defer client.Close()

	sum, err := client.Summary(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("fetch summary: %w", err)
	}

	out := cmd.OutOrStdout()
	if summaryJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	fmt.Fprintf(out, "Project %s\n\n", args[0])
	fmt.Fprintf(out, "  Requirements:    %d (functional %d, non-functional %d)\n",
		sum.TotalRequirements, sum.FunctionalRequirements, sum.NonFunctionalRequirements)
	fmt.Fprintf(out, "  Ambiguities:     %d/%d resolved\n", sum.AmbiguitiesResolved, sum.TotalAmbiguities)
	fmt.Fprintf(out, "  Contradictions:  %d/%d resolved\n", sum.ContradictionsResolved, sum.TotalContradictions)
	return nil
}
