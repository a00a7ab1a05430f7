package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/ui"
	"github.com/satishbabariya/sqlstash/cli/internal/update"
	"github.com/satishbabariya/sqlstash/cli/internal/version"
)

var (
	versionCheck bool
	versionFull  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: timed("version", func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if versionFull {
			fmt.Println(info.FullString())
		} else {
			fmt.Println(info.String())
		}
		if versionCheck {
			if err := update.CheckForUpdates(info.Version); err != nil {
				ui.PrintWarning("%v", err)
			}
		}
		return nil
	}),
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check for a newer release")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include build metadata")
	rootCmd.AddCommand(versionCmd)
}
