package main

import (
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"absolute path unchanged", "/var/lib/apm"},
		{"relative path unchanged", "reports"},
		{"tilde only", "~"},
		{"tilde prefix", "~/reports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandHome(tt.in)
			if got == "" {
				t.Fatal("expandHome() returned empty path")
			}
			if tt.in[0] != '~' && got != tt.in {
				t.Errorf("expandHome(%q) = %q, want unchanged", tt.in, got)
			}
			if tt.in[0] == '~' && got[0] == '~' {
				t.Skipf("home directory unavailable, got %q", got)
			}
		})
	}
}

func TestDashboardPath(t *testing.T) {
	got := dashboardPath("/data/reports")
	want := filepath.Join("/data/reports", "index.html")
	if got != want {
		t.Errorf("dashboardPath() = %q, want %q", got, want)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"run", "reports", "config", "version"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
