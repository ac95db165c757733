package action

import (
	"context"
	"errors"
	"testing"

	"finbot/core/telegram/args"
	"finbot/core/telegram/menu"
	"finbot/core/telegram/session"
)

type nullTransport struct{ sent []*menu.Screen }

func (n *nullTransport) SendScreen(_ context.Context, _ int64, s *menu.Screen) (menu.MessageRef, error) {
	n.sent = append(n.sent, s)
	return menu.MessageRef{}, nil
}
func (n *nullTransport) EditScreen(context.Context, menu.MessageRef, *menu.Screen) error { return nil }
func (n *nullTransport) DeleteMessage(context.Context, menu.MessageRef) error           { return nil }

type fixture struct {
	reg      *Registry
	sessions session.Manager
	d        *Dispatcher
	tr       *nullTransport
	calls    []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		reg:      NewRegistry(),
		sessions: session.NewMemoryManager("main"),
		tr:       &nullTransport{},
	}
	menus := menu.NewRegistry()
	if err := menus.Register("main", "m", func(context.Context, menu.Request) (*menu.Screen, error) {
		return &menu.Screen{Text: "main menu"}, nil
	}); err != nil {
		t.Fatal(err)
	}
	router := menu.NewRouter(menus, fx.sessions, fx.tr, "m")
	fx.d = NewDispatcher(fx.reg, fx.sessions, router, fx.tr)
	return fx
}

// recordingHandler tracks lifecycle calls under the given tag.
func (fx *fixture) recordingHandler(tag string, startErr, stopErr error) Handler {
	return Handler{
		Start: func(context.Context, *Flow) error {
			fx.calls = append(fx.calls, tag+".start")
			return startErr
		},
		OnMessage: func(_ context.Context, f *Flow, text string) error {
			fx.calls = append(fx.calls, tag+".msg:"+text)
			return nil
		},
		Stop: func(context.Context, *Flow) error {
			fx.calls = append(fx.calls, tag+".stop")
			return stopErr
		},
	}
}

func equalCalls(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStartStopsPreviousActionFirst(t *testing.T) {
	fx := newFixture(t)
	if err := fx.reg.Register("alpha", "al", fx.recordingHandler("A", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := fx.reg.Register("beta", "be", fx.recordingHandler("B", nil, nil)); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fx.d.Start(ctx, "al", nil, 7, nil); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.Start(ctx, "be", nil, 7, nil); err != nil {
		t.Fatal(err)
	}
	want := []string{"A.start", "A.stop", "B.start"}
	if !equalCalls(fx.calls, want) {
		t.Fatalf("call order %v, want %v", fx.calls, want)
	}
	if got := fx.sessions.GetAction(7); got != "beta" {
		t.Fatalf("active action %q", got)
	}
}

func TestStartFailureRevertsToIdle(t *testing.T) {
	fx := newFixture(t)
	boom := errors.New("boom")
	if err := fx.reg.Register("alpha", "al", fx.recordingHandler("A", boom, nil)); err != nil {
		t.Fatal(err)
	}
	err := fx.d.Start(context.Background(), "al", args.Map{"x": int64(1)}, 7, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("start error not surfaced: %v", err)
	}
	if fx.sessions.GetAction(7) != session.ActionNone {
		t.Fatal("failed start left action active")
	}
	if a := fx.sessions.GetActionArgs(7); a != nil {
		t.Fatalf("failed start left args: %v", a)
	}
}

func TestStartUnknownAction(t *testing.T) {
	fx := newFixture(t)
	err := fx.d.Start(context.Background(), "ghost", nil, 7, nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if fx.sessions.InProgress(7) {
		t.Fatal("unknown action activated")
	}
}

func TestStartUnknownActionKeepsActiveFlow(t *testing.T) {
	fx := newFixture(t)
	if err := fx.reg.Register("alpha", "al", fx.recordingHandler("A", nil, nil)); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fx.d.Start(ctx, "al", args.Map{"st": "bal"}, 7, nil); err != nil {
		t.Fatal(err)
	}
	// A stale token naming a retired action must not cancel the live flow.
	if err := fx.d.Start(ctx, "ghost", nil, 7, nil); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if got := fx.sessions.GetAction(7); got != "alpha" {
		t.Fatalf("active action %q, want alpha", got)
	}
	want := []string{"A.start"}
	if !equalCalls(fx.calls, want) {
		t.Fatalf("calls %v, want %v", fx.calls, want)
	}
	if a := fx.sessions.GetActionArgs(7); !args.Equal(a, args.Map{"st": "bal"}) {
		t.Fatalf("args disturbed: %v", a)
	}
}

func TestStopIdleIsNoOp(t *testing.T) {
	fx := newFixture(t)
	if err := fx.reg.Register("alpha", "al", fx.recordingHandler("A", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.Stop(context.Background(), 7, nil); err != nil {
		t.Fatalf("idle stop: %v", err)
	}
	if len(fx.calls) != 0 {
		t.Fatalf("idle stop invoked handlers: %v", fx.calls)
	}
}

func TestStopRunsHandlerWithArgsThenClears(t *testing.T) {
	fx := newFixture(t)
	var seen args.Map
	h := Handler{
		Start: func(context.Context, *Flow) error { return nil },
		Stop: func(_ context.Context, f *Flow) error {
			seen = f.Args()
			return nil
		},
	}
	if err := fx.reg.Register("alpha", "al", h); err != nil {
		t.Fatal(err)
	}
	in := args.Map{"st": "bal", "n": "Checking"}
	ctx := context.Background()
	if err := fx.d.Start(ctx, "al", in, 7, nil); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.Stop(ctx, 7, nil); err != nil {
		t.Fatal(err)
	}
	if !args.Equal(seen, in) {
		t.Fatalf("stop saw args %v, want %v", seen, in)
	}
	if fx.sessions.GetAction(7) != session.ActionNone {
		t.Fatal("stop did not clear action")
	}
}

func TestStopFailureSurfacesAndLeavesHandlerState(t *testing.T) {
	fx := newFixture(t)
	boom := errors.New("persist failed")
	if err := fx.reg.Register("alpha", "al", fx.recordingHandler("A", nil, boom)); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fx.d.Start(ctx, "al", nil, 7, nil); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.Stop(ctx, 7, nil); !errors.Is(err, boom) {
		t.Fatalf("stop error not surfaced: %v", err)
	}
	// The handler did not clear, so the dispatcher must not either.
	if fx.sessions.GetAction(7) != "alpha" {
		t.Fatalf("dispatcher cleared after failed stop: %q", fx.sessions.GetAction(7))
	}
}

func TestOnMessageWhileIdleIsNoOp(t *testing.T) {
	fx := newFixture(t)
	if err := fx.reg.Register("alpha", "al", fx.recordingHandler("A", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(context.Background(), 7, nil, "stray"); err != nil {
		t.Fatalf("idle message errored: %v", err)
	}
	if len(fx.calls) != 0 {
		t.Fatalf("idle message reached a handler: %v", fx.calls)
	}
}

func TestOnMessageRoutesToActiveHandler(t *testing.T) {
	fx := newFixture(t)
	if err := fx.reg.Register("alpha", "al", fx.recordingHandler("A", nil, nil)); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fx.d.Start(ctx, "al", nil, 7, nil); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, nil, "Checking"); err != nil {
		t.Fatal(err)
	}
	want := []string{"A.start", "A.msg:Checking"}
	if !equalCalls(fx.calls, want) {
		t.Fatalf("calls %v, want %v", fx.calls, want)
	}
}

func TestOnMessageWithoutHandlerIsIgnored(t *testing.T) {
	fx := newFixture(t)
	h := Handler{
		Start: func(context.Context, *Flow) error { return nil },
		Stop:  func(context.Context, *Flow) error { return nil },
	}
	if err := fx.reg.Register("alpha", "al", h); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fx.d.Start(ctx, "al", nil, 7, nil); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, nil, "text"); err != nil {
		t.Fatalf("text to button-only action errored: %v", err)
	}
}

func TestFlowArgsAndFinish(t *testing.T) {
	fx := newFixture(t)
	h := Handler{
		Start: func(_ context.Context, f *Flow) error {
			f.SaveArgs(args.Map{"st": "name"})
			return nil
		},
		OnMessage: func(ctx context.Context, f *Flow, text string) error {
			a := f.Args()
			a["n"] = text
			f.SaveArgs(a)
			return f.Finish(ctx)
		},
		Stop: func(ctx context.Context, f *Flow) error {
			return f.Redraw(ctx)
		},
	}
	if err := fx.reg.Register("alpha", "al", h); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fx.d.Start(ctx, "al", nil, 7, nil); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, nil, "Checking"); err != nil {
		t.Fatal(err)
	}
	if fx.sessions.GetAction(7) != session.ActionNone {
		t.Fatal("finish did not clear action")
	}
	if len(fx.tr.sent) == 0 || fx.tr.sent[len(fx.tr.sent)-1].Text != "main menu" {
		t.Fatalf("stop did not redraw recorded menu: %+v", fx.tr.sent)
	}
}

func TestRegistryValidation(t *testing.T) {
	reg := NewRegistry()
	ok := Handler{
		Start: func(context.Context, *Flow) error { return nil },
		Stop:  func(context.Context, *Flow) error { return nil },
	}
	if err := reg.Register("alpha", "al", ok); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("alpha", "a2", ok); err == nil {
		t.Fatal("duplicate name accepted")
	}
	if err := reg.Register("beta", "al", ok); err == nil {
		t.Fatal("duplicate short accepted")
	}
	if err := reg.Register("gamma", "ga", Handler{Start: ok.Start}); err == nil {
		t.Fatal("handler without stop accepted")
	}
}
