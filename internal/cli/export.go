// export.go implements the "elicit export" command.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export PROJECT_ID",
	Short: "Write the requirements document to a file",
	Long: `Fetch the rendered requirements document for a project and save it as
requirements_<id>_<date>.txt in the export directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Directory to write into (default export.dir)")
}

func runExport(cmd *cobra.Command, args []string) error {
	client := newClient()
	defer client.Close()

	sess := newSession(client, args[0], exportDir)
	defer sess.Stop()

	path, err := sess.Export(context.Background())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
