package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slotprobe.yaml")
	content := "trace:\n  enabled: false\nprofile:\n  enabled: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRunCmd()
	if err := cmd.Flags().Parse([]string{"--config", path, "--trace-filter", "gen.*, main.x", "--sort"}); err != nil {
		t.Fatal(err)
	}
	flags := runFlags{configPath: path, traceFilter: "gen.*, main.x", sort: true, checkKinds: true}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if !cfg.Trace.Enabled {
		t.Error("--trace-filter should enable tracing")
	}
	if len(cfg.Trace.Filters) != 2 || cfg.Trace.Filters[1] != "main.x" {
		t.Errorf("filters = %q", cfg.Trace.Filters)
	}
	if !cfg.Profile.Enabled || !cfg.Profile.Sort {
		t.Errorf("profile = %+v", cfg.Profile)
	}
	if !cfg.Debug.CheckKinds {
		t.Error("check_kinds default lost")
	}
}

func TestSplitFilters(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a.*", 1},
		{"a.*, b.x ,c", 3},
	}
	for _, tt := range tests {
		if got := splitFilters(tt.in); len(got) != tt.want {
			t.Errorf("splitFilters(%q) = %q, want %d filters", tt.in, got, tt.want)
		}
	}
}

func TestLoadSuitesOutsideRepositoryRoot(t *testing.T) {
	// go test runs in the package directory, where the bundled path does not resolve
	_, err := loadSuites(nil)
	if err == nil {
		t.Fatal("loadSuites(nil) outside the repository root should fail")
	}
	if !strings.Contains(err.Error(), "repository root") {
		t.Errorf("error = %v, want a hint about the repository root", err)
	}

	tests, err := loadSuites([]string{filepath.Join("..", "..", "conformance", "testdata", "widening.yaml")})
	if err != nil {
		t.Fatalf("loadSuites(explicit path) error: %v", err)
	}
	if len(tests) == 0 {
		t.Error("explicit suite file loaded no tests")
	}
}
