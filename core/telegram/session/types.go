package session

import "finbot/core/telegram/args"

// ActionNone marks a session with no active action.
const ActionNone = ""

// Session stores the conversational position of one user.
type Session struct {
	Menu       string
	MenuArgs   args.Map
	Action     string
	ActionArgs args.Map
}

// Manager owns the per-user session table. All components go through it; the
// underlying map is never handed out.
type Manager interface {
	// GetMenu returns the last recorded menu and its render arguments.
	GetMenu(userID int64) (string, args.Map)
	// SetMenu records the menu currently on screen.
	SetMenu(userID int64, name string, a args.Map)

	// GetAction returns the active action name, or ActionNone.
	GetAction(userID int64) string
	// SetAction activates an action, clearing any previous action args in
	// the same step.
	SetAction(userID int64, name string)
	// GetActionArgs returns a copy of the active action's argument map.
	GetActionArgs(userID int64) args.Map
	// SetActionArgs replaces the active action's arguments. It is a silent
	// no-op while no action is active, so a late write cannot race a cancel
	// into resurrecting state.
	SetActionArgs(userID int64, a args.Map)
	// ClearAction returns the user to the idle state, dropping action args.
	ClearAction(userID int64)

	// InProgress reports whether the user has an active action.
	InProgress(userID int64) bool
}
