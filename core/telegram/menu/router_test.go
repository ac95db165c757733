package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"finbot/core/telegram/args"
	"finbot/core/telegram/session"
)

type sentScreen struct {
	userID int64
	screen *Screen
	edited bool
}

type fakeTransport struct {
	sent    []sentScreen
	sendErr error
}

func (f *fakeTransport) SendScreen(_ context.Context, userID int64, s *Screen) (MessageRef, error) {
	if f.sendErr != nil {
		return MessageRef{}, f.sendErr
	}
	f.sent = append(f.sent, sentScreen{userID: userID, screen: s})
	return MessageRef{ChatID: userID, MessageID: fmt.Sprint(len(f.sent))}, nil
}

func (f *fakeTransport) EditScreen(_ context.Context, ref MessageRef, s *Screen) error {
	f.sent = append(f.sent, sentScreen{userID: ref.ChatID, screen: s, edited: true})
	return nil
}

func (f *fakeTransport) DeleteMessage(context.Context, MessageRef) error { return nil }

func (f *fakeTransport) last(t *testing.T) sentScreen {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("nothing sent")
	}
	return f.sent[len(f.sent)-1]
}

func staticMenu(text string) Renderer {
	return func(_ context.Context, req Request) (*Screen, error) {
		return &Screen{Text: text}, nil
	}
}

func newTestRouter(t *testing.T) (*Router, *Registry, session.Manager, *fakeTransport) {
	t.Helper()
	reg := NewRegistry()
	if err := reg.Register("main", "m", staticMenu("main menu")); err != nil {
		t.Fatal(err)
	}
	sessions := session.NewMemoryManager("main")
	tr := &fakeTransport{}
	return NewRouter(reg, sessions, tr, "m"), reg, sessions, tr
}

func TestRegistryDuplicateIsError(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("accounts", "acc", staticMenu("a")); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("accounts", "ac2", staticMenu("b")); err == nil {
		t.Fatal("duplicate full name accepted")
	}
	if err := reg.Register("archive", "acc", staticMenu("c")); err == nil {
		t.Fatal("duplicate short name accepted")
	}
	if err := reg.Register("", "x", staticMenu("d")); err == nil {
		t.Fatal("empty name accepted")
	}
}

func TestResolveShortThenFullName(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("accounts", "acc", staticMenu("a")); err != nil {
		t.Fatal(err)
	}
	if _, name, ok := reg.Resolve("acc"); !ok || name != "accounts" {
		t.Fatalf("short resolve: %q %v", name, ok)
	}
	if _, name, ok := reg.Resolve("accounts"); !ok || name != "accounts" {
		t.Fatalf("full-name fallback: %q %v", name, ok)
	}
	if _, _, ok := reg.Resolve("nope"); ok {
		t.Fatal("unknown ref resolved")
	}
}

func TestSendMenuRecordsSession(t *testing.T) {
	r, reg, sessions, tr := newTestRouter(t)
	if err := reg.Register("account", "a", staticMenu("account detail")); err != nil {
		t.Fatal(err)
	}
	in := args.Map{"a": int64(5)}
	if err := r.SendMenu(context.Background(), "a", in, 7, nil); err != nil {
		t.Fatal(err)
	}
	if got := tr.last(t).screen.Text; got != "account detail" {
		t.Fatalf("sent %q", got)
	}
	name, a := sessions.GetMenu(7)
	if name != "account" || !args.Equal(a, in) {
		t.Fatalf("session records %q %v", name, a)
	}
}

func TestSendMenuUnknownName(t *testing.T) {
	r, _, sessions, tr := newTestRouter(t)
	err := r.SendMenu(context.Background(), "ghost", nil, 7, nil)
	if !errors.Is(err, ErrUnknownMenu) {
		t.Fatalf("expected ErrUnknownMenu, got %v", err)
	}
	if len(tr.sent) != 0 {
		t.Fatal("screen sent for unknown menu")
	}
	if name, _ := sessions.GetMenu(7); name != "main" {
		t.Fatalf("session moved to %q", name)
	}
}

func TestRendererErrorDegradesToFallback(t *testing.T) {
	r, reg, sessions, tr := newTestRouter(t)
	err := reg.Register("broken", "br", func(context.Context, Request) (*Screen, error) {
		return nil, errors.New("boom")
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SendMenu(context.Background(), "br", nil, 7, nil); err != nil {
		t.Fatalf("renderer error escaped: %v", err)
	}
	last := tr.last(t)
	if !strings.Contains(last.screen.Text, "Something went wrong") {
		t.Fatalf("expected fallback screen, got %q", last.screen.Text)
	}
	if len(last.screen.Keyboard) != 1 || len(last.screen.Keyboard[0]) != 1 {
		t.Fatalf("fallback keyboard not a single back button: %v", last.screen.Keyboard)
	}
	if last.screen.Keyboard[0][0].Token != "g:m" {
		t.Fatalf("back button token %q", last.screen.Keyboard[0][0].Token)
	}
	// The session stays on the previously recorded menu.
	if name, _ := sessions.GetMenu(7); name != "main" {
		t.Fatalf("session moved to %q after renderer failure", name)
	}
}

func TestChangeMenuEditsInPlace(t *testing.T) {
	r, _, _, tr := newTestRouter(t)
	ref := MessageRef{ChatID: 7, MessageID: "41"}
	if err := r.ChangeMenu(context.Background(), ref, "m", nil, 7, nil); err != nil {
		t.Fatal(err)
	}
	if last := tr.last(t); !last.edited {
		t.Fatal("ChangeMenu sent a new message instead of editing")
	}
}

func TestRedrawUsesRecordedMenu(t *testing.T) {
	r, reg, sessions, tr := newTestRouter(t)
	if err := reg.Register("accounts", "acc", staticMenu("accounts page")); err != nil {
		t.Fatal(err)
	}
	sessions.SetMenu(7, "accounts", args.Map{"p": int64(2)})
	if err := r.Redraw(context.Background(), 7, nil); err != nil {
		t.Fatal(err)
	}
	if got := tr.last(t).screen.Text; got != "accounts page" {
		t.Fatalf("redraw sent %q", got)
	}
}
