package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/config"
	"github.com/satishbabariya/sqlstash/cli/internal/ui"
)

const defaultConfigFile = ".sqlstash.yaml"

const configTemplate = `scope: app

connections:
  - name: %s
    datasource: %s
    user: %q
    password: %q
    options:
      raise_error: true

statements:
  - name: example
    template: select 1
    connection: %s
`

var initInteractive bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a sqlstash config file",
	Long:  "Create a starter .sqlstash.yaml in the current directory.",
	Args:  cobra.NoArgs,
	RunE:  timed("init", runInit),
}

func init() {
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "prompt for connection details")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if exists, _ := afero.Exists(config.AppFs, defaultConfigFile); exists {
		return fmt.Errorf("%s already exists", defaultConfigFile)
	}

	name, datasource, user, password := "main", "sqlite://file:app.db", "", ""

	if initInteractive {
		var answers struct {
			Provider   string
			DataSource string
			User       string
			Password   string
		}
		questions := []*survey.Question{
			{
				Name: "provider",
				Prompt: &survey.Select{
					Message: "Database provider:",
					Options: []string{"sqlite", "postgres", "mysql"},
					Default: "sqlite",
				},
			},
			{
				Name: "datasource",
				Prompt: &survey.Input{
					Message: "Data source (host:port/db or file path):",
					Default: "file:app.db",
				},
			},
			{Name: "user", Prompt: &survey.Input{Message: "User:"}},
			{Name: "password", Prompt: &survey.Password{Message: "Password:"}},
		}
		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}
		datasource = answers.Provider + "://" + answers.DataSource
		user = answers.User
		password = answers.Password
	}

	content := fmt.Sprintf(configTemplate, name, datasource, user, password, name)
	if err := afero.WriteFile(config.AppFs, defaultConfigFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", defaultConfigFile, err)
	}

	ui.PrintSuccess("Created %s", defaultConfigFile)
	ui.PrintInfo("Next steps:")
	ui.PrintList([]string{
		"sqlstash validate   check the declared registry",
		"sqlstash ping       probe the connection",
		"sqlstash list       show registered names",
	})
	return nil
}
