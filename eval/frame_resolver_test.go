package eval

import (
	"errors"
	"testing"

	"slotvm/frame"
	"slotvm/types"
)

// fakeGenerator records yields and exposes a fixed frame
type fakeGenerator struct {
	frame  *frame.Frame
	yields []types.Value
}

func (g *fakeGenerator) Frame() *frame.Frame { return g.frame }

func (g *fakeGenerator) Yield(v types.Value) error {
	g.yields = append(g.yields, v)
	return nil
}

func TestGeneratorFrameIndirection(t *testing.T) {
	d, local := newFrame(t, "gen", "u")
	u := slotOf(t, d, "u")
	materialized := frame.New(d).Materialize()
	gen := &fakeGenerator{frame: materialized}

	ctx := NewContext(local).ForGenerator(gen)
	w := NewWriteGeneratorLocal(u, NewLiteral(types.NewInt(9)))
	if w.Resolver() != GeneratorFrame {
		t.Fatalf("resolver = %s, want generator", w.Resolver())
	}
	if _, err := w.Execute(ctx); err != nil {
		t.Fatal(err)
	}

	if v, _ := materialized.GetInt(u.Index); v != 9 {
		t.Errorf("materialized[u] = %d, want 9", v)
	}
	if v, _ := local.GetInt(u.Index); v != 0 {
		t.Errorf("local frame was written: %d", v)
	}

	v, err := NewReadGeneratorLocal(u).Execute(ctx)
	if err != nil || !v.Equal(types.NewInt(9)) {
		t.Errorf("generator read = (%v, %v), want 9", v, err)
	}
}

func TestResolveErrors(t *testing.T) {
	d, f := newFrame(t, "gen", "u")
	u := slotOf(t, d, "u")

	tests := []struct {
		name string
		node Node
		ctx  *Context
		want error
	}{
		{"generator write without activation", NewWriteGeneratorLocal(u, NewLiteral(types.NewInt(1))), NewContext(f), frame.ErrNoGeneratorFrame},
		{"generator read without activation", NewReadGeneratorLocal(u), NewContext(f), frame.ErrNoGeneratorFrame},
		{"released generator frame", NewReadGeneratorLocal(u), NewContext(f).ForGenerator(&fakeGenerator{}), frame.ErrNoGeneratorFrame},
		{"local write without frame", NewWriteLocal(u, NewLiteral(types.NewInt(1))), &Context{}, frame.ErrNoFrame},
		{"yield outside generator", NewYield(NewLiteral(types.NewInt(1))), NewContext(f), frame.ErrNoGeneratorFrame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.node.Execute(tt.ctx)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var ie *frame.InternalError
			if !errors.As(err, &ie) {
				t.Errorf("error %T is not an InternalError", err)
			}
		})
	}
}

func TestYieldHandsValueToGenerator(t *testing.T) {
	gen := &fakeGenerator{frame: frame.New(frame.NewDescriptor("g")).Materialize()}
	ctx := (&Context{}).ForGenerator(gen)
	v, err := NewYield(NewLiteral(types.NewStr("hi"))).Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !types.IsNone(v) {
		t.Errorf("yield evaluated to %s, want None", v)
	}
	if len(gen.yields) != 1 || !gen.yields[0].Equal(types.NewStr("hi")) {
		t.Errorf("yields = %v", gen.yields)
	}
}
