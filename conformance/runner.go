package conformance

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"slotvm/eval"
	"slotvm/frame"
	"slotvm/generator"
	"slotvm/profile"
	"slotvm/trace"
	"slotvm/types"
)

// defaultFrame is the local frame steps use when they name none
const defaultFrame = "main"

// Options configures a Runner
type Options struct {
	CheckKinds bool
	Tracer     *trace.Tracer
	Profiler   *profile.Profiler // shared across tests; a private one is used when nil
}

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
	Kinds      frame.KindView // slot kinds after the last step
}

// Runner executes conformance tests
type Runner struct {
	opts Options
}

// NewRunner creates a test runner
func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts}
}

// scenario is the state of one running test
type scenario struct {
	desc        *frame.Descriptor
	ctx         *eval.Context
	checkKinds  bool
	profiler    *profile.Profiler
	frames      map[string]*frame.Frame
	writes      map[string][]*eval.WriteLocal
	fn          *generator.Function
	manager     *generator.Manager
	activations map[string]*generator.Activation
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	// Check if test should be skipped
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{
			Test:       test,
			Skipped:    true,
			SkipReason: reason,
		}
	}

	s, err := r.newScenario(test.Test)
	if err != nil {
		return TestResult{
			Test:  test,
			Error: fmt.Errorf("setup failed: %w", err),
		}
	}
	defer s.discardAll()

	for i, step := range test.Test.Steps {
		if err := s.run(step); err != nil {
			return TestResult{
				Test:  test,
				Error: fmt.Errorf("step %d: %w", i+1, err),
				Kinds: s.desc,
			}
		}
	}
	return TestResult{Test: test, Passed: true, Kinds: s.desc}
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

func (r *Runner) newScenario(tc TestCase) (*scenario, error) {
	name := tc.Function
	if name == "" {
		name = strings.ReplaceAll(tc.Name, " ", "_")
	}
	desc := frame.NewDescriptor(name)
	for _, slot := range tc.Slots {
		if _, err := desc.AddSlot(slot); err != nil {
			return nil, err
		}
	}
	desc.SetTracer(r.opts.Tracer)

	prof := r.opts.Profiler
	if prof == nil {
		prof = profile.New()
	}

	s := &scenario{
		desc:        desc,
		ctx:         &eval.Context{Tracer: r.opts.Tracer, Profiler: prof},
		checkKinds:  r.opts.CheckKinds,
		profiler:    prof,
		frames:      make(map[string]*frame.Frame),
		writes:      make(map[string][]*eval.WriteLocal),
		activations: make(map[string]*generator.Activation),
		manager: generator.NewManager(generator.Options{
			Tracer:     r.opts.Tracer,
			Profiler:   prof,
			CheckKinds: r.opts.CheckKinds,
		}),
	}

	if tc.Generator != nil {
		body, err := s.statements(tc.Generator.Body)
		if err != nil {
			return nil, fmt.Errorf("generator body: %w", err)
		}
		fn, err := generator.NewFunction(name, desc, tc.Generator.Params, eval.NewBlock(body...))
		if err != nil {
			return nil, err
		}
		s.fn = fn
	}
	return s, nil
}

// discardAll closes every activation so no body goroutine outlives the test
func (s *scenario) discardAll() {
	_ = s.manager.Close()
}

// outcome is what a step produced, for checking against an Expectation
type outcome struct {
	value types.Value
	err   error
	slot  *frame.Slot
	stats *profile.WriteStats
	done  *bool
	act   *generator.Activation
}

func (s *scenario) run(step Step) error {
	switch {
	case step.Write != "":
		slot, err := s.slot(step.Write)
		if err != nil {
			return err
		}
		f, err := s.frameFor(step.Frame)
		if err != nil {
			return err
		}
		value, err := s.expr(&step.Value, eval.LocalFrame)
		if err != nil {
			return err
		}
		w := s.writeNode(slot, step.Node)
		w.Value = value
		ctx := *s.ctx
		ctx.Frame = f
		v, err := w.Execute(&ctx)
		return s.check(step.Expect, outcome{value: v, err: err, slot: slot, stats: s.profiler.Stats(w.Site())})

	case step.Read != "":
		slot, err := s.slot(step.Read)
		if err != nil {
			return err
		}
		f, err := s.frameFor(step.Frame)
		if err != nil {
			return err
		}
		ctx := *s.ctx
		ctx.Frame = f
		v, err := eval.NewReadLocal(slot).Execute(&ctx)
		return s.check(step.Expect, outcome{value: v, err: err, slot: slot})

	case step.Start != "":
		if s.fn == nil {
			return fmt.Errorf("start %s: test has no generator", step.Start)
		}
		args := make([]types.Value, len(step.Args))
		for i := range step.Args {
			v, err := literal(&step.Args[i])
			if err != nil {
				return fmt.Errorf("start %s: %w", step.Start, err)
			}
			args[i] = v
		}
		a, err := s.manager.Start(s.fn, args...)
		if err == nil {
			s.activations[step.Start] = a
		}
		return s.check(step.Expect, outcome{err: err, act: a})

	case step.Next != "":
		a, err := s.activation(step.Next)
		if err != nil {
			return err
		}
		v, done, err := a.Next()
		return s.check(step.Expect, outcome{value: v, err: err, done: &done, act: a})

	case step.Close != "":
		a, err := s.activation(step.Close)
		if err != nil {
			return err
		}
		return s.check(step.Expect, outcome{err: a.Close(), act: a})

	default:
		return fmt.Errorf("step has no action")
	}
}

func (s *scenario) slot(name string) (*frame.Slot, error) {
	slot, ok := s.desc.FindSlot(name)
	if !ok {
		return nil, fmt.Errorf("unknown slot %q", name)
	}
	return slot, nil
}

func (s *scenario) activation(name string) (*generator.Activation, error) {
	a, ok := s.activations[name]
	if !ok {
		return nil, fmt.Errorf("unknown activation %q", name)
	}
	return a, nil
}

// frameFor returns the materialized frame of the named activation, or the
// named local frame, creating it on first use
func (s *scenario) frameFor(name string) (*frame.Frame, error) {
	if name == "" {
		name = defaultFrame
	}
	if a, ok := s.activations[name]; ok {
		if f := a.Frame(); f != nil {
			return f, nil
		}
		return nil, fmt.Errorf("activation %s has released its frame", name)
	}
	f, ok := s.frames[name]
	if !ok {
		f = frame.New(s.desc, frame.CheckKinds(s.checkKinds))
		s.frames[name] = f
	}
	return f, nil
}

// writeNode returns the index'th write site for slot. Steps naming the
// same site reuse one node, so its specialization carries over.
func (s *scenario) writeNode(slot *frame.Slot, index int) *eval.WriteLocal {
	nodes := s.writes[slot.Name]
	for len(nodes) <= index {
		nodes = append(nodes, eval.NewWriteLocal(slot, nil))
	}
	s.writes[slot.Name] = nodes
	return nodes[index]
}

func (s *scenario) statements(stmts []Statement) ([]eval.Node, error) {
	nodes := make([]eval.Node, 0, len(stmts))
	for _, st := range stmts {
		switch {
		case st.Write != "":
			slot, err := s.slot(st.Write)
			if err != nil {
				return nil, err
			}
			value, err := s.expr(&st.Value, eval.GeneratorFrame)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, eval.NewWriteGeneratorLocal(slot, value))
		case present(&st.Yield):
			value, err := s.expr(&st.Yield, eval.GeneratorFrame)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, eval.NewYield(value))
		case st.Repeat > 0:
			body, err := s.statements(st.Body)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, eval.NewRepeat(st.Repeat, eval.NewBlock(body...)))
		default:
			return nil, fmt.Errorf("statement has no write, yield or repeat")
		}
	}
	return nodes, nil
}

// expr builds a node from a YAML expression: {read: slot}, {add: [a, b]}
// or a literal
func (s *scenario) expr(node *yaml.Node, r eval.FrameResolver) (eval.Node, error) {
	if node == nil || !present(node) {
		return nil, fmt.Errorf("missing value")
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		v, err := literal(node)
		if err != nil {
			return nil, err
		}
		return eval.NewLiteral(v), nil
	}

	if len(node.Content) != 2 {
		return nil, fmt.Errorf("line %d: expression must have exactly one key", node.Line)
	}
	key, arg := node.Content[0].Value, node.Content[1]
	switch key {
	case "read":
		slot, err := s.slot(arg.Value)
		if err != nil {
			return nil, err
		}
		if r == eval.GeneratorFrame {
			return eval.NewReadGeneratorLocal(slot), nil
		}
		return eval.NewReadLocal(slot), nil
	case "add":
		if arg.Kind != yaml.SequenceNode || len(arg.Content) != 2 {
			return nil, fmt.Errorf("line %d: add takes two operands", arg.Line)
		}
		left, err := s.expr(arg.Content[0], r)
		if err != nil {
			return nil, err
		}
		right, err := s.expr(arg.Content[1], r)
		if err != nil {
			return nil, err
		}
		return eval.NewAdd(left, right), nil
	default:
		return nil, fmt.Errorf("line %d: unknown expression %q", node.Line, key)
	}
}

// literal converts a YAML scalar or sequence to a runtime value
func literal(node *yaml.Node) (types.Value, error) {
	if node == nil || !present(node) {
		return nil, fmt.Errorf("missing value")
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.SequenceNode:
		elements := make([]types.Value, len(node.Content))
		for i, elem := range node.Content {
			v, err := literal(elem)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return types.NewList(elements), nil
	case yaml.ScalarNode:
	default:
		return nil, fmt.Errorf("line %d: unsupported literal", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		return types.None, nil
	case "!big":
		v, ok := types.ParseBigInt(node.Value)
		if !ok {
			return nil, fmt.Errorf("line %d: bad !big literal %q", node.Line, node.Value)
		}
		return v, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			// Too large for int64
			if v, ok := types.ParseBigInt(node.Value); ok {
				return v, nil
			}
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return types.NewInt(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return types.NewFloat(f), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return types.NewBool(b), nil
	case "!!str":
		return types.NewStr(node.Value), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported tag %s", node.Line, node.Tag)
	}
}

// check checks if the outcome of a step matches the expectation
func (s *scenario) check(expect Expectation, out outcome) error {
	if expect.Error != "" {
		want, ok := errorNameToSentinel(expect.Error)
		if !ok {
			return fmt.Errorf("unknown error name: %s", expect.Error)
		}
		if out.err == nil {
			return fmt.Errorf("expected error %s, got value: %v", expect.Error, out.value)
		}
		if !errors.Is(out.err, want) {
			return fmt.Errorf("expected error %s, got %v", expect.Error, out.err)
		}
	} else if out.err != nil {
		return fmt.Errorf("unexpected error: %w", out.err)
	}

	if present(&expect.Value) {
		want, err := literal(&expect.Value)
		if err != nil {
			return fmt.Errorf("failed to convert expected value: %w", err)
		}
		if out.value == nil {
			return fmt.Errorf("expected %v, got nil", want)
		}
		if !out.value.Equal(want) {
			return fmt.Errorf("expected %v, got %v", want, out.value)
		}
	}

	if expect.Type != "" {
		want, ok := typeNameToCode(expect.Type)
		if !ok {
			return fmt.Errorf("unknown type: %s", expect.Type)
		}
		if out.value == nil || out.value.Type() != want {
			got := "nil"
			if out.value != nil {
				got = typeCodeToName(out.value.Type())
			}
			return fmt.Errorf("expected type %s, got %s", expect.Type, got)
		}
	}

	if expect.Kind != "" {
		want, ok := frame.ParseKind(expect.Kind)
		if !ok {
			return fmt.Errorf("unknown kind: %s", expect.Kind)
		}
		if out.slot == nil {
			return fmt.Errorf("kind expectation on a step without a slot")
		}
		if got := s.desc.KindOf(out.slot.Index); got != want {
			return fmt.Errorf("expected kind %s, got %s", want, got)
		}
	}

	if expect.Done != nil {
		if out.done == nil {
			return fmt.Errorf("done expectation on a step that is not next")
		}
		if *out.done != *expect.Done {
			return fmt.Errorf("expected done=%v, got %v", *expect.Done, *out.done)
		}
	}

	if expect.State != "" {
		if out.act == nil {
			return fmt.Errorf("state expectation on a step without an activation")
		}
		if got := out.act.State().String(); got != strings.ToLower(expect.State) {
			return fmt.Errorf("expected state %s, got %s", expect.State, got)
		}
	}

	if expect.Profile != nil {
		if out.stats == nil {
			return fmt.Errorf("profile expectation on a step that is not a write")
		}
		return checkProfile(expect.Profile, out.stats)
	}
	return nil
}

func checkProfile(want *ProfileSpec, got *profile.WriteStats) error {
	counters := []struct {
		name string
		want *int64
		got  int64
	}{
		{"writes", want.Writes, got.Writes},
		{"hot", want.Hot, got.HotHits},
		{"widenings", want.Widenings, got.Widenings},
		{"rewrites", want.Rewrites, got.Rewrites},
	}
	for _, c := range counters {
		if c.want != nil && *c.want != c.got {
			return fmt.Errorf("expected %s=%d for %s, got %d", c.name, *c.want, got.Site, c.got)
		}
	}
	return nil
}

// errorNameToSentinel converts an error name to the error it must wrap
func errorNameToSentinel(name string) (error, bool) {
	switch strings.ToLower(name) {
	case "out_of_range":
		return frame.ErrSlotOutOfRange, true
	case "kind_mismatch":
		return frame.ErrKindMismatch, true
	case "frozen":
		return frame.ErrFrozenDescriptor, true
	case "duplicate_slot":
		return frame.ErrDuplicateSlot, true
	case "unwritten":
		return frame.ErrUnwritten, true
	case "descriptor_mismatch":
		return frame.ErrDescriptorMismatch, true
	case "no_frame":
		return frame.ErrNoFrame, true
	case "no_generator_frame":
		return frame.ErrNoGeneratorFrame, true
	case "reentrant":
		return generator.ErrReentrant, true
	default:
		return nil, false
	}
}

// typeNameToCode converts type name to TypeCode
func typeNameToCode(name string) (types.TypeCode, bool) {
	switch strings.ToLower(name) {
	case "int":
		return types.TYPE_INT, true
	case "str":
		return types.TYPE_STR, true
	case "list":
		return types.TYPE_LIST, true
	case "float":
		return types.TYPE_FLOAT, true
	case "bool":
		return types.TYPE_BOOL, true
	case "bigint":
		return types.TYPE_BIGINT, true
	case "none":
		return types.TYPE_NONE, true
	default:
		return 0, false
	}
}

// typeCodeToName converts TypeCode to name
func typeCodeToName(code types.TypeCode) string {
	return strings.ToLower(code.String())
}
