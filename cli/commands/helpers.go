package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlstash/cli/internal/config"
	"github.com/satishbabariya/sqlstash/cli/internal/ui"
	"github.com/satishbabariya/sqlstash/driver/sqldriver"
	"github.com/satishbabariya/sqlstash/registry"
	"github.com/satishbabariya/sqlstash/telemetry"
)

// loadScope reads the config and registers everything it declares into
// a fresh scope backed by the database/sql driver.
func loadScope() (*registry.Scope, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	scope := registry.NewScope(cfg.Scope, sqldriver.New())
	if errs := cfg.Register(scope); len(errs) > 0 {
		for _, err := range errs {
			ui.PrintError("%v", err)
		}
		return nil, nil, fmt.Errorf("%d registration error(s)", len(errs))
	}

	return scope, cfg, nil
}

// timed wraps a command handler with duration telemetry.
func timed(name string, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := fn(cmd, args)
		telemetry.RecordCommand(name, "", time.Since(start), err)
		return err
	}
}
