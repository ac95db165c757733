package menu

import (
	"context"
	"fmt"
	"log/slog"

	"finbot/core/logger"
	"finbot/core/telegram/args"
	"finbot/core/telegram/session"
)

// Router resolves goto references, renders the target menu, and keeps the
// session's recorded menu in sync with what is actually on screen.
type Router struct {
	reg       *Registry
	sessions  session.Manager
	transport Transport
	homeShort string
}

// NewRouter wires the menu router. homeShort is the short name of the
// landing menu, used as the escape target of the fallback screen.
func NewRouter(reg *Registry, sessions session.Manager, transport Transport, homeShort string) *Router {
	return &Router{reg: reg, sessions: sessions, transport: transport, homeShort: homeShort}
}

// SendMenu renders the named menu and sends it as a new message, recording
// it as the session's current menu. An unregistered name yields
// ErrUnknownMenu; a renderer failure degrades to the uniform fallback screen
// and is not propagated, so a broken menu never takes the dispatcher down.
func (r *Router) SendMenu(ctx context.Context, name string, a args.Map, userID int64, profile any) error {
	screen, canonical, err := r.render(ctx, name, a, userID, profile)
	if err != nil {
		return err
	}
	if _, err := r.transport.SendScreen(ctx, userID, screen); err != nil {
		return fmt.Errorf("menu %q: send: %w", canonical, err)
	}
	if canonical != "" {
		r.sessions.SetMenu(userID, canonical, a)
	}
	return nil
}

// ChangeMenu renders the named menu and replaces an existing message in
// place. Semantics match SendMenu otherwise.
func (r *Router) ChangeMenu(ctx context.Context, ref MessageRef, name string, a args.Map, userID int64, profile any) error {
	screen, canonical, err := r.render(ctx, name, a, userID, profile)
	if err != nil {
		return err
	}
	if err := r.transport.EditScreen(ctx, ref, screen); err != nil {
		return fmt.Errorf("menu %q: edit: %w", canonical, err)
	}
	if canonical != "" {
		r.sessions.SetMenu(userID, canonical, a)
	}
	return nil
}

// Redraw re-sends the session's recorded menu, typically after an action
// finished and the user should land back on a fresh screen.
func (r *Router) Redraw(ctx context.Context, userID int64, profile any) error {
	name, a := r.sessions.GetMenu(userID)
	return r.SendMenu(ctx, name, a, userID, profile)
}

// Fallback sends the uniform failure screen as a new message.
func (r *Router) Fallback(ctx context.Context, userID int64) error {
	_, err := r.transport.SendScreen(ctx, userID, FallbackScreen(r.homeShort))
	return err
}

// FallbackEdit replaces an existing message with the failure screen.
func (r *Router) FallbackEdit(ctx context.Context, ref MessageRef) error {
	return r.transport.EditScreen(ctx, ref, FallbackScreen(r.homeShort))
}

// render resolves and runs the renderer. On renderer error the uniform
// fallback screen is returned with an empty canonical name so the session's
// recorded menu stays untouched.
func (r *Router) render(ctx context.Context, name string, a args.Map, userID int64, profile any) (*Screen, string, error) {
	render, canonical, ok := r.reg.Resolve(name)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownMenu, name)
	}
	screen, err := render(ctx, Request{UserID: userID, Profile: profile, Args: a.Clone()})
	if err != nil {
		logger.Warn(ctx, "tg.menu", "render.fail",
			slog.String("menu", canonical),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return FallbackScreen(r.homeShort), "", nil
	}
	return screen, canonical, nil
}
