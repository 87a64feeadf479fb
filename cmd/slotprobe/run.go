package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"slotvm/config"
	"slotvm/conformance"
	"slotvm/profile"
	"slotvm/trace"
)

// bundledSuites is where the repository keeps its scenario suites,
// relative to the repository root
var bundledSuites = filepath.Join("conformance", conformance.TestPath)

type runFlags struct {
	configPath  string
	trace       bool
	traceFilter string
	profile     bool
	sort        bool
	kinds       bool
	checkKinds  bool
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run [suite.yaml...]",
		Short: "Run scenario suites (the bundled suites when none are given; run from the repository root)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runSuites(cfg, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Configuration file (YAML)")
	f.BoolVar(&flags.trace, "trace", false, "Enable widening and generator tracing")
	f.StringVar(&flags.traceFilter, "trace-filter", "", "Trace filter pattern (glob on function.slot, comma separated)")
	f.BoolVar(&flags.profile, "profile", false, "Print the write specialization report")
	f.BoolVar(&flags.sort, "sort", false, "Sort the report by write count")
	f.BoolVar(&flags.kinds, "kinds", false, "Print final slot kinds per scenario")
	f.BoolVar(&flags.checkKinds, "check-kinds", true, "Verify typed frame reads against slot kinds")
	return cmd
}

// loadConfig reads the config file, if any, and applies flags the user set
func loadConfig(cmd *cobra.Command, flags runFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		var err error
		if cfg, err = config.Load(flags.configPath); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("trace") {
		cfg.Trace.Enabled = flags.trace
	}
	if changed("trace-filter") {
		cfg.Trace.Enabled = true
		cfg.Trace.Filters = splitFilters(flags.traceFilter)
	}
	if changed("profile") {
		cfg.Profile.Enabled = flags.profile
	}
	if changed("sort") {
		cfg.Profile.Sort = flags.sort
	}
	if changed("kinds") {
		cfg.Profile.Kinds = flags.kinds
	}
	if changed("check-kinds") {
		cfg.Debug.CheckKinds = flags.checkKinds
	}
	return cfg, cfg.Validate()
}

func splitFilters(s string) []string {
	if s == "" {
		return nil
	}
	filters := strings.Split(s, ",")
	for i := range filters {
		filters[i] = strings.TrimSpace(filters[i])
	}
	return filters
}

// loadSuites loads the named suite files, or the bundled suites when paths
// is empty. The bundled suites are only found from the repository root.
func loadSuites(paths []string) ([]conformance.LoadedTest, error) {
	if len(paths) == 0 {
		if _, err := os.Stat(bundledSuites); err != nil {
			return nil, fmt.Errorf("bundled suites not found at %s: run from the repository root or pass suite files", bundledSuites)
		}
	}
	var tests []conformance.LoadedTest
	var err error
	if len(paths) == 0 {
		tests, err = conformance.LoadAllTests(bundledSuites)
	} else {
		tests, err = conformance.LoadFiles(paths...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load suites: %w", err)
	}
	return tests, nil
}

func runSuites(cfg *config.Config, paths []string) error {
	tests, err := loadSuites(paths)
	if err != nil {
		return err
	}

	var tracer *trace.Tracer
	if cfg.Trace.Enabled {
		out := os.Stderr
		if cfg.Trace.Output != "" {
			f, err := os.Create(cfg.Trace.Output)
			if err != nil {
				return fmt.Errorf("failed to open trace output: %w", err)
			}
			defer f.Close()
			out = f
		}
		tracer = trace.New(true, cfg.Trace.Filters, out)
		log.Printf("Tracing enabled (filters: %v)", cfg.Trace.Filters)
	}

	prof := profile.New()
	runner := conformance.NewRunner(conformance.Options{
		CheckKinds: cfg.Debug.CheckKinds,
		Tracer:     tracer,
		Profiler:   prof,
	})
	results := runner.RunAll(tests)

	printResults(results)

	printer := profile.NewPrinter(os.Stdout, cfg.Profile.Sort)
	if cfg.Profile.Enabled {
		printer.PrintWriteResults(prof)
	}
	if cfg.Profile.Kinds {
		for _, r := range results {
			if r.Kinds != nil {
				printer.PrintKinds(r.Kinds)
			}
		}
	}

	stats := conformance.ComputeStats(results)
	log.Print(conformance.FormatStats(stats))
	if stats.Failed > 0 {
		return fmt.Errorf("%d scenario(s) failed", stats.Failed)
	}
	return nil
}

// printResults lists failures and skips grouped by suite file
func printResults(results []conformance.TestResult) {
	byFile := make(map[string][]conformance.TestResult)
	for _, r := range results {
		byFile[r.Test.File] = append(byFile[r.Test.File], r)
	}
	files := maps.Keys(byFile)
	slices.Sort(files)

	for _, file := range files {
		for _, r := range byFile[file] {
			switch {
			case r.Skipped:
				fmt.Printf("SKIP %s: %s (%s)\n", file, r.Test.Test.Name, r.SkipReason)
			case !r.Passed:
				fmt.Printf("FAIL %s: %s: %v\n", file, r.Test.Test.Name, r.Error)
			}
		}
	}
}
