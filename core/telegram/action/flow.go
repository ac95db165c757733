package action

import (
	"context"

	"finbot/core/telegram/args"
	"finbot/core/telegram/menu"
	"finbot/core/telegram/session"
)

// Flow is the handle passed to action handlers. It scopes every capability a
// handler needs to the one user it is running for.
type Flow struct {
	UserID  int64
	Profile any

	name string
	d    *Dispatcher
}

// Name returns the canonical name of the running action.
func (f *Flow) Name() string { return f.name }

// Args returns a copy of the action's current argument map.
func (f *Flow) Args() args.Map {
	return f.d.sessions.GetActionArgs(f.UserID)
}

// SaveArgs persists the action's argument map. The write is dropped silently
// if the action was cancelled in the meantime.
func (f *Flow) SaveArgs(a args.Map) {
	f.d.sessions.SetActionArgs(f.UserID, a)
}

// Menu returns the session's recorded menu, the screen the user came from.
func (f *Flow) Menu() (string, args.Map) {
	return f.d.sessions.GetMenu(f.UserID)
}

// SetMenu records where the user should land after the flow, without
// drawing anything. The stop handler's Redraw sends it.
func (f *Flow) SetMenu(name string, a args.Map) {
	f.d.sessions.SetMenu(f.UserID, name, a)
}

// Redraw sends the session's recorded menu as a fresh message.
func (f *Flow) Redraw(ctx context.Context) error {
	return f.d.menus.Redraw(ctx, f.UserID, f.Profile)
}

// Prompt sends a plain text message to the user, with the shared cancel
// button unless other keyboard rows are given.
func (f *Flow) Prompt(ctx context.Context, text string, rows ...[]menu.Button) error {
	kb := rows
	if len(kb) == 0 {
		kb = [][]menu.Button{{menu.CancelButton("✖ Cancel")}}
	}
	_, err := f.d.transport.SendScreen(ctx, f.UserID, &menu.Screen{Text: text, Keyboard: kb})
	return err
}

// Finish runs the shared stop-continuation: the action's Stop handler, then
// the transition back to idle. Completion and cancellation share this path.
func (f *Flow) Finish(ctx context.Context) error {
	return f.d.Stop(ctx, f.UserID, f.Profile)
}

// Active reports whether this flow's action is still the session's active
// action. A stop handler can use it to detect an override in progress.
func (f *Flow) Active() bool {
	return f.d.sessions.GetAction(f.UserID) != session.ActionNone
}
