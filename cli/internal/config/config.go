// Package config loads the sqlstash registry declaration from
// .sqlstash.yaml, the environment, and .env files.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/sqlstash/driver"
	"github.com/satishbabariya/sqlstash/registry"
)

// AppFs is the filesystem used for config access. Tests swap in an
// afero.MemMapFs.
var AppFs = afero.NewOsFs()

// Config is the parsed registry declaration.
type Config struct {
	Scope       string             `mapstructure:"scope"`
	Connections []ConnectionConfig `mapstructure:"connections"`
	Statements  []StatementConfig  `mapstructure:"statements"`
}

// ConnectionConfig declares one named connection.
type ConnectionConfig struct {
	Name       string         `mapstructure:"name"`
	DataSource string         `mapstructure:"datasource"`
	User       string         `mapstructure:"user"`
	Password   string         `mapstructure:"password"`
	Options    *OptionsConfig `mapstructure:"options"`
}

// OptionsConfig holds the optional per-connection flags. Pointer fields
// distinguish "absent" from "false" so declared keys win over defaults
// key by key.
type OptionsConfig struct {
	RaiseError *bool `mapstructure:"raise_error"`
	AutoCommit *bool `mapstructure:"auto_commit"`
	PrintError *bool `mapstructure:"print_error"`
}

// Driver converts the declared flags into driver options, starting from
// the defaults.
func (o *OptionsConfig) Driver() *driver.Options {
	if o == nil {
		return nil
	}
	opts := driver.DefaultOptions()
	if o.RaiseError != nil {
		opts.RaiseError = *o.RaiseError
	}
	if o.AutoCommit != nil {
		opts.AutoCommit = *o.AutoCommit
	}
	if o.PrintError != nil {
		opts.PrintError = *o.PrintError
	}
	return &opts
}

// StatementConfig declares one named statement.
type StatementConfig struct {
	Name       string `mapstructure:"name"`
	Template   string `mapstructure:"template"`
	Connection string `mapstructure:"connection"`
	Cache      string `mapstructure:"cache"` // "cached" (default) or "uncached"
}

// Load reads the configuration. With an empty path the usual search
// locations apply: the working directory, the home directory, and
// ~/.config/sqlstash. A .env / .env.local in the working directory is
// loaded first so config values can reference the environment.
func Load(path string) (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetFs(AppFs)

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(".sqlstash")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".config", "sqlstash"))
	}

	viper.SetEnvPrefix("SQLSTASH")
	viper.AutomaticEnv()

	viper.SetDefault("scope", "app")

	// Load .env then .env.local (higher priority), ignoring absence.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing file in the search path just means an empty
		// registry; an explicitly named file must exist.
		if path != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Register applies every declared connection and statement to scope,
// collecting registration failures instead of stopping at the first.
func (c *Config) Register(scope *registry.Scope) []error {
	var errs []error

	for _, conn := range c.Connections {
		err := scope.RegisterConnection(conn.Name, conn.DataSource, conn.User, conn.Password, conn.Options.Driver())
		if err != nil {
			errs = append(errs, err)
		}
	}

	for _, stmt := range c.Statements {
		var opts []registry.StmtOption
		switch stmt.Cache {
		case "", "cached":
		case "uncached":
			opts = append(opts, registry.WithCachePolicy(registry.Uncached))
		default:
			errs = append(errs, fmt.Errorf("statement %q: unknown cache policy %q", stmt.Name, stmt.Cache))
			continue
		}
		if err := scope.RegisterStatement(stmt.Name, stmt.Template, stmt.Connection, opts...); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
