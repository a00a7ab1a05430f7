package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/ui"
)

var pingTimeout time.Duration

var pingCmd = &cobra.Command{
	Use:   "ping [connection]",
	Short: "Probe declared connections",
	Long:  "Establish each declared connection (or just the named one) and report liveness.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  timed("ping", runPing),
}

func init() {
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 10*time.Second, "per-connection timeout")
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	scope, _, err := loadScope()
	if err != nil {
		return err
	}

	names := scope.ConnectionNames()
	if len(args) > 0 {
		names = args
	}

	printers := ui.GetColorPrinters()
	failed := 0

	for _, name := range names {
		spinner, _ := ui.PrintSpinner(fmt.Sprintf("Connecting to %s...", name))

		ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
		_, err := scope.Conn(ctx, name)
		cancel()

		if spinner != nil {
			spinner.Stop()
		}

		if err != nil {
			failed++
			ui.ColorPrint(printers["error"], "✗ %s: %v\n", name, err)
			continue
		}
		ui.ColorPrint(printers["success"], "✓ %s is alive\n", name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d connection(s) failed", failed, len(names))
	}
	return nil
}
