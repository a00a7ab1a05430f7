package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/ui"
	"github.com/satishbabariya/sqlstash/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered connections and statements",
	Args:  cobra.NoArgs,
	RunE:  timed("list", runList),
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	scope, _, err := loadScope()
	if err != nil {
		return err
	}

	connRows := [][]string{}
	for _, name := range scope.ConnectionNames() {
		spec, _ := scope.ConnectionSpec(name)
		connRows = append(connRows, []string{name, spec.DataSource, spec.User})
	}

	stmtRows := [][]string{}
	for _, name := range scope.StatementNames() {
		spec, _ := scope.StatementSpec(name)
		cache := "cached"
		if spec.Cache == registry.Uncached {
			cache = "uncached"
		}
		stmtRows = append(stmtRows, []string{name, spec.Connection, cache, spec.Template})
	}

	ui.PrintInfo("Connections (%d)", len(connRows))
	ui.PrintTable([]string{"NAME", "DATASOURCE", "USER"}, connRows)

	ui.PrintInfo("Statements (%d)", len(stmtRows))
	ui.PrintTable([]string{"NAME", "CONNECTION", "CACHE", "TEMPLATE"}, stmtRows)
	return nil
}
