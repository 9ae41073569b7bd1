// stub.go implements the "elicit stub" command that serves a local
// stand-in assistant.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/berth-dev/elicit/internal/stub"
)

var stubAddr string

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local stub assistant",
	Long: `Serve the assistant API from memory with keyword-based analysis, for
trying the client without the real backend. Stops on Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runStub,
}

func init() {
	stubCmd.Flags().StringVar(&stubAddr, "addr", "127.0.0.1:5000", "Listen address")
}

func runStub(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	srv, err := stub.NewServer(stubAddr)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stub assistant listening on %s\n", srv.URL())
	logger.Info("stub started", zap.String("addr", srv.Addr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("stub server: %w", err)
	}
	logger.Info("stub stopped")
	return nil
}
