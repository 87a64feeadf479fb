package conformance

import "gopkg.in/yaml.v3"

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tests       []TestCase `yaml:"tests"`
}

// TestCase is one scenario: a function with named slots, an optional
// generator body over those slots, and steps run in order
type TestCase struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Skip        interface{}    `yaml:"skip,omitempty"`     // bool or string
	Function    string         `yaml:"function,omitempty"` // descriptor name, defaults to the test name
	Slots       []string       `yaml:"slots"`
	Generator   *GeneratorSpec `yaml:"generator,omitempty"`
	Steps       []Step         `yaml:"steps"`
}

// GeneratorSpec is the body of the test's generator function
type GeneratorSpec struct {
	Params []string    `yaml:"params,omitempty"`
	Body   []Statement `yaml:"body"`
}

// Statement is one node of a generator body. Exactly one of Write, Yield
// or Repeat is set.
type Statement struct {
	Write  string      `yaml:"write,omitempty"` // slot name
	Value  yaml.Node   `yaml:"value,omitempty"` // expression for Write
	Yield  yaml.Node   `yaml:"yield,omitempty"` // expression to yield
	Repeat int         `yaml:"repeat,omitempty"`
	Body   []Statement `yaml:"body,omitempty"` // statements for Repeat
}

// Step is one action against the test's frames or generator activations.
//
// Write and Read address a named local frame ("main" by default) or, when
// Frame names a started activation, that activation's materialized frame.
// Expressions are literals, {read: slot} or {add: [expr, expr]}; a literal
// tagged !big is an arbitrary precision integer and null is the None
// sentinel.
type Step struct {
	Frame string     `yaml:"frame,omitempty"`
	Write string     `yaml:"write,omitempty"`
	Node  int        `yaml:"node,omitempty"` // write site index for Write, 0 by default
	Value yaml.Node  `yaml:"value,omitempty"`
	Read  string     `yaml:"read,omitempty"`

	Start string      `yaml:"start,omitempty"` // activation name
	Args  []yaml.Node `yaml:"args,omitempty"`
	Next  string      `yaml:"next,omitempty"`
	Close string      `yaml:"close,omitempty"`

	Expect Expectation `yaml:"expect,omitempty"`
}

// Expectation defines what a step must produce. Unset fields are not
// checked.
type Expectation struct {
	Kind    string       `yaml:"kind,omitempty"`  // slot kind after the step
	Value   yaml.Node    `yaml:"value,omitempty"` // written, read or yielded value
	Type    string       `yaml:"type,omitempty"`  // int, float, bool, str, list, bigint, none
	Done    *bool        `yaml:"done,omitempty"`  // Next reported exhaustion
	State   string       `yaml:"state,omitempty"` // activation state after the step
	Error   string       `yaml:"error,omitempty"` // out_of_range, kind_mismatch, unwritten, no_generator_frame, ...
	Profile *ProfileSpec `yaml:"profile,omitempty"`
}

// ProfileSpec checks the counters of the write site used by a Write step
type ProfileSpec struct {
	Writes    *int64 `yaml:"writes,omitempty"`
	Hot       *int64 `yaml:"hot,omitempty"`
	Widenings *int64 `yaml:"widenings,omitempty"`
	Rewrites  *int64 `yaml:"rewrites,omitempty"`
}

// present reports whether a node field was given in the YAML. An explicit
// null is present; it decodes to the None sentinel.
func present(n *yaml.Node) bool {
	return n.Kind != 0
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
