package session

import (
	"testing"

	"finbot/core/telegram/args"
)

func TestDefaultSession(t *testing.T) {
	m := NewMemoryManager("main")
	name, a := m.GetMenu(7)
	if name != "main" || len(a) != 0 {
		t.Fatalf("default menu: %q %v", name, a)
	}
	if m.GetAction(7) != ActionNone {
		t.Fatal("new user not idle")
	}
	if m.InProgress(7) {
		t.Fatal("new user in progress")
	}
}

func TestSetMenuRoundTrip(t *testing.T) {
	m := NewMemoryManager("main")
	in := args.Map{"a": int64(3), "p": int64(1)}
	m.SetMenu(7, "account", in)
	name, out := m.GetMenu(7)
	if name != "account" || !args.Equal(in, out) {
		t.Fatalf("got %q %v", name, out)
	}
	// Stored args must not alias the caller's map.
	in["a"] = int64(99)
	_, out = m.GetMenu(7)
	if v, _ := out.Int64("a"); v != 3 {
		t.Fatal("menu args alias caller map")
	}
}

func TestSetActionClearsArgs(t *testing.T) {
	m := NewMemoryManager("main")
	m.SetAction(7, "createAccount")
	m.SetActionArgs(7, args.Map{"st": "name"})
	m.SetAction(7, "addRecord")
	if a := m.GetActionArgs(7); len(a) != 0 {
		t.Fatalf("stale args survived action switch: %v", a)
	}
	if m.GetAction(7) != "addRecord" {
		t.Fatalf("action = %q", m.GetAction(7))
	}
}

func TestActionArgsRequireActiveAction(t *testing.T) {
	m := NewMemoryManager("main")
	m.SetActionArgs(7, args.Map{"st": "name"})
	if a := m.GetActionArgs(7); a != nil {
		t.Fatalf("args written while idle: %v", a)
	}

	m.SetAction(7, "createAccount")
	m.SetActionArgs(7, args.Map{"st": "name"})
	m.ClearAction(7)
	if m.GetAction(7) != ActionNone {
		t.Fatal("clear did not reset action")
	}
	if a := m.GetActionArgs(7); a != nil {
		t.Fatalf("args survived clear: %v", a)
	}
	// The late write after cancel is discarded.
	m.SetActionArgs(7, args.Map{"st": "bal"})
	if a := m.GetActionArgs(7); a != nil {
		t.Fatalf("stale write raced a cancel: %v", a)
	}
}

func TestClearActionKeepsMenu(t *testing.T) {
	m := NewMemoryManager("main")
	m.SetMenu(7, "accounts", args.Map{"p": int64(2)})
	m.SetAction(7, "addRecord")
	m.ClearAction(7)
	name, a := m.GetMenu(7)
	if name != "accounts" {
		t.Fatalf("menu lost on clear: %q", name)
	}
	if v, _ := a.Int64("p"); v != 2 {
		t.Fatalf("menu args lost on clear: %v", a)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	m := NewMemoryManager("main")
	m.SetAction(1, "createAccount")
	if m.InProgress(2) {
		t.Fatal("state leaked between users")
	}
}
