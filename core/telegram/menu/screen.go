// Package menu holds the registry and router for named, re-renderable
// screens. A menu is looked up by its short name (the alias that keeps button
// tokens small), rendered from the arguments carried in the token, and drawn
// either as a new message or in place of an existing one.
package menu

import (
	"context"

	"finbot/core/telegram/args"
	"finbot/core/telegram/callbacks"
)

// Button is one cell of an inline keyboard grid.
type Button struct {
	Label string
	Token string
}

// ModeMarkdown is the parse mode value for Telegram's legacy markdown. The
// menu package stays transport-agnostic, so the value is spelled here rather
// than taken from the bot library.
const ModeMarkdown = "Markdown"

// Screen is a renderable message: text plus an inline keyboard.
type Screen struct {
	Text      string
	ParseMode string
	Keyboard  [][]Button
}

// Request carries everything a renderer may use. Profile is the caller's
// domain profile; renderers assert the concrete type they were wired with.
type Request struct {
	UserID  int64
	Profile any
	Args    args.Map
}

// Renderer produces a screen for one menu.
type Renderer func(ctx context.Context, req Request) (*Screen, error)

// MessageRef identifies a previously sent message so it can be edited or
// deleted. MessageID is a string to match the transport's stored-message
// shape.
type MessageRef struct {
	ChatID    int64
	MessageID string
}

// Transport is the outbound side of the chat platform, narrowed to what the
// menu and action machinery needs.
type Transport interface {
	SendScreen(ctx context.Context, userID int64, s *Screen) (MessageRef, error)
	EditScreen(ctx context.Context, ref MessageRef, s *Screen) error
	DeleteMessage(ctx context.Context, ref MessageRef) error
}

// GotoButton builds a navigation button. The error surfaces tokens that
// would exceed the callback data limit.
func GotoButton(label, short string, a args.Map) (Button, error) {
	token, err := callbacks.Goto(short, a)
	if err != nil {
		return Button{}, err
	}
	return Button{Label: label, Token: token}, nil
}

// ActionButton builds a button that starts an action.
func ActionButton(label, short string, a args.Map) (Button, error) {
	token, err := callbacks.Action(short, a)
	if err != nil {
		return Button{}, err
	}
	return Button{Label: label, Token: token}, nil
}

// CancelButton builds the shared cancel button.
func CancelButton(label string) Button {
	return Button{Label: label, Token: callbacks.TokenCancel}
}

// DummyButton builds a no-op button, used for spacers and disabled cells.
func DummyButton(label string) Button {
	return Button{Label: label, Token: callbacks.TokenDummy}
}
