package action

import (
	"context"
	"fmt"
	"log/slog"

	"finbot/core/logger"
	"finbot/core/telegram/args"
	"finbot/core/telegram/menu"
	"finbot/core/telegram/session"
)

// Dispatcher drives the per-user action lifecycle against the session store.
// All transitions for one user are expected to run one update at a time; the
// dispatcher itself adds no locking beyond the session store's.
type Dispatcher struct {
	reg       *Registry
	sessions  session.Manager
	menus     *menu.Router
	transport menu.Transport
}

// NewDispatcher wires the action dispatcher.
func NewDispatcher(reg *Registry, sessions session.Manager, menus *menu.Router, transport menu.Transport) *Dispatcher {
	return &Dispatcher{reg: reg, sessions: sessions, menus: menus, transport: transport}
}

// InProgress reports whether the user has an active action.
func (d *Dispatcher) InProgress(userID int64) bool {
	return d.sessions.InProgress(userID)
}

// Start activates the named action for the user. If another action is
// active it is stopped to completion first, so stop handlers are always the
// last code to touch the outgoing action's args. The session records the new
// action before its Start runs; a Start failure reverts the user to idle and
// surfaces the error.
func (d *Dispatcher) Start(ctx context.Context, name string, a args.Map, userID int64, profile any) error {
	// Resolve before touching the session: a stale token naming an action
	// that no longer exists must not cancel the user's live flow.
	h, canonical, ok := d.reg.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}

	if current := d.sessions.GetAction(userID); current != session.ActionNone {
		logger.Debug(ctx, "tg.action", "start.override",
			slog.Int64("user_id", userID),
			slog.String("action", current),
			slog.String("next", canonical),
		)
		if err := d.Stop(ctx, userID, profile); err != nil {
			return fmt.Errorf("action %q: stop before %q: %w", current, canonical, err)
		}
	}

	d.sessions.SetAction(userID, canonical)
	d.sessions.SetActionArgs(userID, a)

	f := d.flow(canonical, userID, profile)
	if err := h.Start(ctx, f); err != nil {
		d.sessions.ClearAction(userID)
		logger.Warn(ctx, "tg.action", "start.fail",
			slog.Int64("user_id", userID),
			slog.String("action", canonical),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("action %q: start: %w", canonical, err)
	}
	return nil
}

// OnMessage routes a free-text message to the active action. A message while
// idle is an accepted out-of-order event: logged at warning level, no-op. An
// action without an OnMessage handler ignores text.
func (d *Dispatcher) OnMessage(ctx context.Context, userID int64, profile any, text string) error {
	name := d.sessions.GetAction(userID)
	if name == session.ActionNone {
		logger.Warn(ctx, "tg.action", "message.idle",
			slog.Int64("user_id", userID),
		)
		return nil
	}
	h, canonical, ok := d.reg.Resolve(name)
	if !ok {
		// Session points at an action that no longer exists (hot redeploy,
		// renamed handler). Reset rather than strand the user.
		d.sessions.ClearAction(userID)
		return fmt.Errorf("%w: session referenced %q", ErrUnknownAction, name)
	}
	if h.OnMessage == nil {
		logger.Debug(ctx, "tg.action", "message.ignored",
			slog.Int64("user_id", userID),
			slog.String("action", canonical),
		)
		return nil
	}
	return h.OnMessage(ctx, d.flow(canonical, userID, profile), text)
}

// Stop ends the active action. Stopping an idle user is a successful no-op
// and invokes no handler. The handler's Stop runs with the action still
// recorded so it can read the args; on success the session is cleared. On
// handler failure the error is logged and surfaced and the session is left
// exactly as the handler chose. A handler that fails to stop cleanly must
// still clear or the user is stuck; that is its documented responsibility.
func (d *Dispatcher) Stop(ctx context.Context, userID int64, profile any) error {
	name := d.sessions.GetAction(userID)
	if name == session.ActionNone {
		return nil
	}
	h, canonical, ok := d.reg.Resolve(name)
	if !ok {
		d.sessions.ClearAction(userID)
		return fmt.Errorf("%w: session referenced %q", ErrUnknownAction, name)
	}
	if err := h.Stop(ctx, d.flow(canonical, userID, profile)); err != nil {
		logger.Warn(ctx, "tg.action", "stop.fail",
			slog.Int64("user_id", userID),
			slog.String("action", canonical),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("action %q: stop: %w", canonical, err)
	}
	d.sessions.ClearAction(userID)
	return nil
}

func (d *Dispatcher) flow(name string, userID int64, profile any) *Flow {
	return &Flow{
		UserID:  userID,
		Profile: profile,
		name:    name,
		d:       d,
	}
}
