package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/ui"
	"github.com/satishbabariya/sqlstash/cli/internal/version"
	"github.com/satishbabariya/sqlstash/internal/debug"
	"github.com/satishbabariya/sqlstash/telemetry"
)

var (
	configPath string
	debugFlag  bool

	rootCmd = &cobra.Command{
		Use:   "sqlstash",
		Short: "Named connection and statement registry for SQL databases",
		Long: `sqlstash manages named database connections and named SQL statements
declared in .sqlstash.yaml. Connections are established lazily and
cached; statements are prepared once and shared.

Common workflow:
  sqlstash init          scaffold a config file
  sqlstash validate      check the declared registry
  sqlstash list          show registered names
  sqlstash ping          probe declared connections
  sqlstash exec <name>   run a named statement`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				debug.Init(true)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			ui.PrintHeader("sqlstash", "named connections and prepared statements")
			cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the sqlstash config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// Execute is the main entry point for the CLI.
func Execute() error {
	telemetry.Init(version.Version, true)
	defer telemetry.Shutdown()
	return rootCmd.Execute()
}
