package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/ui"
)

const usageDoc = `# sqlstash

Named connection and prepared-statement registry for SQL databases.

## Config file

sqlstash reads ` + "`.sqlstash.yaml`" + ` from the working directory, your home
directory, or ` + "`~/.config/sqlstash`" + `:

    scope: app
    connections:
      - name: main
        datasource: sqlite://file:app.db
    statements:
      - name: byId
        template: select mode,size,name from blobs where id = ?
        connection: main

Credentials can live in ` + "`.env`" + ` / ` + "`.env.local`" + ` instead of the config.

## Semantics

* Connections are established lazily on first use and cached. A cached
  connection that fails its liveness probe is transparently replaced.
* Statements registered with the default ` + "`cached`" + ` policy share one
  prepared handle per name; ` + "`uncached`" + ` statements and statements
  invoked with template arguments are prepared one-shot.
* Templates substitute positional arguments with fmt verbs; ` + "`%%`" + ` is a
  literal percent sign.

## Commands

| Command | Purpose |
|---|---|
| init | scaffold a config file |
| validate | dry-run the declared registrations |
| list | show registered names |
| ping | probe declared connections |
| exec | run a named statement |
| version | version and update check |
`

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show usage documentation",
	Args:  cobra.NoArgs,
	RunE: timed("docs", func(cmd *cobra.Command, args []string) error {
		return ui.PrintMarkdown(usageDoc)
	}),
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
