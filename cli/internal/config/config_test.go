package config

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/sqlstash/driver"
	"github.com/satishbabariya/sqlstash/registry"
)

const sampleConfig = `
scope: blog
connections:
  - name: main
    datasource: sqlite://file:blog.db
  - name: replica
    datasource: postgres://replica.internal/blog
    user: reader
    password: hunter2
    options:
      auto_commit: true
statements:
  - name: allPosts
    template: select id,title from posts
    connection: main
  - name: postsBy
    template: select id,title from posts where author = '%s'
    connection: main
    cache: uncached
`

func useMemFs(t *testing.T, files map[string]string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	orig := AppFs
	AppFs = fs
	t.Cleanup(func() {
		AppFs = orig
		viper.Reset()
	})
	viper.Reset()
}

func TestLoadExplicitPath(t *testing.T) {
	useMemFs(t, map[string]string{"/etc/sqlstash.yaml": sampleConfig})

	cfg, err := Load("/etc/sqlstash.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scope != "blog" {
		t.Errorf("Expected scope blog, got %s", cfg.Scope)
	}
	if len(cfg.Connections) != 2 {
		t.Fatalf("Expected 2 connections, got %d", len(cfg.Connections))
	}
	if cfg.Connections[1].User != "reader" {
		t.Errorf("Expected user reader, got %s", cfg.Connections[1].User)
	}
	if len(cfg.Statements) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(cfg.Statements))
	}
	if cfg.Statements[1].Cache != "uncached" {
		t.Errorf("Expected cache uncached, got %s", cfg.Statements[1].Cache)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	useMemFs(t, nil)

	if _, err := Load("/etc/nope.yaml"); err == nil {
		t.Fatal("Expected an error for a missing explicit config file")
	}
}

func TestLoadMissingSearchPathIsEmpty(t *testing.T) {
	useMemFs(t, nil)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scope != "app" {
		t.Errorf("Expected default scope app, got %s", cfg.Scope)
	}
	if len(cfg.Connections) != 0 || len(cfg.Statements) != 0 {
		t.Errorf("Expected an empty registry, got %d connections, %d statements",
			len(cfg.Connections), len(cfg.Statements))
	}
}

func TestRegister(t *testing.T) {
	useMemFs(t, map[string]string{"/etc/sqlstash.yaml": sampleConfig})

	cfg, err := Load("/etc/sqlstash.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	scope := registry.NewScope(cfg.Scope, stubDriver{})
	if errs := cfg.Register(scope); len(errs) != 0 {
		t.Fatalf("Register returned errors: %v", errs)
	}

	if names := scope.ConnectionNames(); len(names) != 2 {
		t.Errorf("Expected 2 registered connections, got %v", names)
	}
	if names := scope.StatementNames(); len(names) != 2 {
		t.Errorf("Expected 2 registered statements, got %v", names)
	}

	spec, ok := scope.ConnectionSpec("replica")
	if !ok {
		t.Fatal("Expected replica to be registered")
	}
	if !spec.Options.AutoCommit {
		t.Error("Expected auto_commit to be applied")
	}
	if !spec.Options.RaiseError {
		t.Error("Expected raise_error to keep its default")
	}
}

func TestRegisterCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Scope: "app",
		Connections: []ConnectionConfig{
			{Name: "main", DataSource: "sqlite://file:a.db"},
			{Name: "main", DataSource: "sqlite://file:b.db"},
		},
		Statements: []StatementConfig{
			{Name: "bad", Template: "select 1", Connection: "missing"},
			{Name: "odd", Template: "select 1", Connection: "main", Cache: "sometimes"},
			{Name: "ok", Template: "select 1", Connection: "main"},
		},
	}

	scope := registry.NewScope(cfg.Scope, stubDriver{})
	errs := cfg.Register(scope)
	if len(errs) != 3 {
		t.Fatalf("Expected 3 errors, got %d: %v", len(errs), errs)
	}
	if names := scope.StatementNames(); len(names) != 1 {
		t.Errorf("Expected only the valid statement to register, got %v", names)
	}
}

func TestOptionsConfigDriver(t *testing.T) {
	var absent *OptionsConfig
	if absent.Driver() != nil {
		t.Error("Expected nil options for an absent block")
	}

	f := false
	tr := true
	opts := (&OptionsConfig{RaiseError: &f, AutoCommit: &tr}).Driver()
	if opts.RaiseError {
		t.Error("Expected raise_error false when declared false")
	}
	if !opts.AutoCommit {
		t.Error("Expected auto_commit true when declared true")
	}
	if opts.PrintError {
		t.Error("Expected print_error to keep its default false")
	}
}

// stubDriver satisfies the adapter contract; Register never connects, so
// Connect is unreachable in these tests.
type stubDriver struct{}

func (stubDriver) Connect(ctx context.Context, info driver.ConnectInfo) (driver.Conn, error) {
	panic("unexpected connect during registration")
}
