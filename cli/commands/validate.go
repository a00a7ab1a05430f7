package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/config"
	"github.com/satishbabariya/sqlstash/cli/internal/ui"
	"github.com/satishbabariya/sqlstash/cli/internal/watch"
	"github.com/satishbabariya/sqlstash/driver/sqldriver"
	"github.com/satishbabariya/sqlstash/registry"
)

var validateWatch bool

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Validate the declared registry",
	Long: `Load the config file and perform a dry-run registration into a fresh
scope, reporting every registration error: duplicate names, statements
bound to unknown connections, and malformed cache policies.`,
	Args: cobra.MaximumNArgs(1),
	RunE: timed("validate", runValidate),
}

func init() {
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "re-validate when the config file changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = defaultConfigFile
	}

	if !validateWatch {
		return validateOnce(path)
	}

	w, err := watch.New(path, func() error {
		if err := validateOnce(path); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		return err
	}
	ui.PrintInfo("Watching %s for changes (ctrl-c to stop)", path)
	select {}
}

func validateOnce(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	scope := registry.NewScope(cfg.Scope, sqldriver.New())
	errs := cfg.Register(scope)
	if len(errs) > 0 {
		for _, err := range errs {
			ui.PrintError("%v", err)
		}
		return fmt.Errorf("%d registration error(s)", len(errs))
	}

	ui.PrintSuccess("%s is valid: %d connection(s), %d statement(s)",
		path, len(scope.ConnectionNames()), len(scope.StatementNames()))
	return nil
}
