package registry

import (
	"errors"
	"testing"
)

func TestRenderTemplate(t *testing.T) {
	cases := []struct {
		name     string
		template string
		args     []any
		want     string
		wantErr  bool
	}{
		{
			name:     "inert without placeholders",
			template: "select mode,size,name from blobs",
			want:     "select mode,size,name from blobs",
		},
		{
			name:     "single substitution",
			template: "select %s from blobs",
			args:     []any{"mode,size,name"},
			want:     "select mode,size,name from blobs",
		},
		{
			name:     "multiple substitutions",
			template: "select %s from %s order by %s",
			args:     []any{"name", "blobs", "size"},
			want:     "select name from blobs order by size",
		},
		{
			name:     "numeric verb",
			template: "select name from blobs limit %d",
			args:     []any{10},
			want:     "select name from blobs limit 10",
		},
		{
			// No placeholders and no arguments: the template passes
			// through untouched, escaped percents included.
			name:     "literal percent is not a placeholder",
			template: "select name from blobs where name like 'a%%'",
			want:     "select name from blobs where name like 'a%%'",
		},
		{
			name:     "literal percent alongside substitution",
			template: "select %s from blobs where name like 'a%%'",
			args:     []any{"name"},
			want:     "select name from blobs where name like 'a%'",
		},
		{
			name:     "too few arguments",
			template: "select %s from %s",
			args:     []any{"name"},
			wantErr:  true,
		},
		{
			name:     "too many arguments",
			template: "select %s from blobs",
			args:     []any{"name", "extra"},
			wantErr:  true,
		},
		{
			name:     "arguments without placeholders",
			template: "select name from blobs",
			args:     []any{"unwanted"},
			wantErr:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := renderTemplate(tc.template, tc.args...)
			if tc.wantErr {
				var usageErr *UsageError
				if !errors.As(err, &usageErr) {
					t.Fatalf("Expected UsageError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("renderTemplate failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCountPlaceholders(t *testing.T) {
	cases := []struct {
		template string
		want     int
	}{
		{"select 1", 0},
		{"select %s", 1},
		{"%s %d %v", 3},
		{"100%%", 0},
		{"%%%s", 1},
		{"%", 1},
	}
	for _, tc := range cases {
		if got := countPlaceholders(tc.template); got != tc.want {
			t.Errorf("countPlaceholders(%q): Expected %d, got %d", tc.template, tc.want, got)
		}
	}
}
