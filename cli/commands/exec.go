package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/ui"
)

var execParams []string

var execCmd = &cobra.Command{
	Use:   "exec <statement> [template-args...]",
	Short: "Run a named statement and print its rows",
	Long: `Resolve a registered statement, substitute any template arguments,
execute it with the --param bind values, and print the result as a
table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: timed("exec", runExec),
}

func init() {
	execCmd.Flags().StringArrayVarP(&execParams, "param", "p", nil, "positional bind value (repeatable)")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	scope, _, err := loadScope()
	if err != nil {
		return err
	}

	name := args[0]
	templateArgs := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		templateArgs = append(templateArgs, a)
	}
	bindValues := make([]any, 0, len(execParams))
	for _, p := range execParams {
		bindValues = append(bindValues, p)
	}

	handle, err := scope.Stmt(cmd.Context(), name, templateArgs...)
	if err != nil {
		return err
	}

	if _, err := handle.Execute(cmd.Context(), bindValues...); err != nil {
		return err
	}

	cols, err := handle.Columns()
	if err != nil {
		return err
	}

	rows, err := handle.FetchAllValues()
	if err != nil {
		return err
	}

	if len(cols) == 0 {
		ui.PrintSuccess("Statement %s executed", name)
		return nil
	}

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			cells[i] = fmt.Sprintf("%v", v)
		}
		tableRows = append(tableRows, cells)
	}

	ui.PrintTable(cols, tableRows)
	ui.PrintInfo("%d row(s)", len(rows))
	return nil
}
