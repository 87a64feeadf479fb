package conformance

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"slotvm/profile"
	"slotvm/trace"
)

func TestConformance(t *testing.T) {
	tests, err := LoadAllTests(TestPath)
	if err != nil {
		t.Fatalf("Failed to load tests: %v", err)
	}
	if len(tests) == 0 {
		t.Fatal("No tests loaded")
	}

	runner := NewRunner(Options{CheckKinds: true})
	results := runner.RunAll(tests)
	stats := ComputeStats(results)

	// Group results by file for organized output
	fileGroups := make(map[string][]TestResult)
	for _, result := range results {
		fileGroups[result.Test.File] = append(fileGroups[result.Test.File], result)
	}
	files := maps.Keys(fileGroups)
	slices.Sort(files)

	for _, file := range files {
		fileResults := fileGroups[file]
		t.Run(file, func(t *testing.T) {
			for _, result := range fileResults {
				result := result
				t.Run(result.Test.Test.Name, func(t *testing.T) {
					if result.Skipped {
						t.Skipf("Skipped: %s", result.SkipReason)
					} else if !result.Passed {
						t.Errorf("Test failed: %v", result.Error)
					}
				})
			}
		})
	}

	t.Logf("\n=== Summary ===\n%s", FormatStats(stats))
}

func TestYAMLParsing(t *testing.T) {
	tests, err := LoadAllTests(TestPath)
	if err != nil {
		t.Fatalf("YAML parsing failed: %v", err)
	}

	for i, test := range tests {
		if test.Test.Name == "" {
			t.Errorf("Test %d in %s has no name", i, test.File)
		}
		if len(test.Test.Steps) == 0 {
			t.Errorf("Test %s in %s has no steps", test.Test.Name, test.File)
		}
		if test.File == "" || test.Suite == nil {
			t.Errorf("Test %s has no source file", test.Test.Name)
		}
	}
}

func loadInline(t *testing.T, doc string) []LoadedTest {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inline.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	tests, err := LoadFiles(path)
	if err != nil {
		t.Fatalf("LoadFiles() error: %v", err)
	}
	return tests
}

func TestFailingExpectations(t *testing.T) {
	tests := loadInline(t, `
name: failing
tests:
  - name: wrong kind
    slots: [x]
    steps:
      - write: x
        value: 1
        expect: {kind: Double}
  - name: wrong value
    slots: [x]
    steps:
      - write: x
        value: 1
      - read: x
        expect: {value: 2}
  - name: missing error
    slots: [x]
    steps:
      - write: x
        value: 1
        expect: {error: unwritten}
  - name: unknown slot
    slots: [x]
    steps:
      - write: y
        value: 1
  - name: skipped
    skip: not relevant
    slots: [x]
    steps:
      - read: x
`)
	results := NewRunner(Options{}).RunAll(tests)
	want := map[string]string{
		"wrong kind":    "expected kind Double, got Int",
		"wrong value":   "expected 2, got 1",
		"missing error": "expected error unwritten",
		"unknown slot":  `unknown slot "y"`,
	}
	for _, r := range results {
		name := r.Test.Test.Name
		if name == "skipped" {
			if !r.Skipped || r.SkipReason != "not relevant" {
				t.Errorf("skipped test result = %+v", r)
			}
			continue
		}
		if r.Passed {
			t.Errorf("%s: passed, want failure", name)
			continue
		}
		if !strings.Contains(r.Error.Error(), want[name]) {
			t.Errorf("%s: error %q, want containing %q", name, r.Error, want[name])
		}
	}

	stats := ComputeStats(results)
	if stats.Failed != 4 || stats.Skipped != 1 || stats.Total != 5 {
		t.Errorf("stats = %+v", stats)
	}
	if got := FormatStats(stats); got != "0 passed, 4 failed, 1 skipped (5 total)" {
		t.Errorf("FormatStats() = %q", got)
	}
}

func TestSharedProfilerAndTracer(t *testing.T) {
	tests := loadInline(t, `
name: shared
tests:
  - name: widen
    function: f
    slots: [x]
    steps:
      - write: x
        value: true
      - write: x
        value: 1
`)
	var buf bytes.Buffer
	prof := profile.New()
	runner := NewRunner(Options{
		Tracer:   trace.New(true, []string{"f.*"}, &buf),
		Profiler: prof,
	})
	results := runner.RunAll(tests)
	if !results[0].Passed {
		t.Fatalf("test failed: %v", results[0].Error)
	}
	if results[0].Kinds == nil || results[0].Kinds.KindOf(0).String() != "Object" {
		t.Errorf("Kinds = %v", results[0].Kinds)
	}

	stats := prof.Results()
	if len(stats) != 1 || stats[0].Writes != 2 || stats[0].Widenings != 2 {
		t.Errorf("profiler results = %+v", stats)
	}
	for _, want := range []string{
		"[TRACE] WIDEN f.x Illegal -> Boolean",
		"[TRACE] WIDEN f.x Boolean -> Object",
		"[TRACE] RESPECIALIZE f.x Boolean -> Object",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("trace missing %q in:\n%s", want, buf.String())
		}
	}
}
