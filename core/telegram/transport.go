package telegram

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"

	"finbot/core/telegram/keyboard"
	"finbot/core/telegram/menu"
	tgsender "finbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// ErrTransportUnbound reports a screen operation before the bot is running.
var ErrTransportUnbound = errors.New("telegram: transport not bound to a bot")

// BotTransport sends and edits menu screens through a live bot. Sends and
// edits run synchronously because callers branch on their errors; deletes go
// through the outbound dispatcher when one is attached.
type BotTransport struct {
	bot        *tele.Bot
	dispatcher *tgsender.Dispatcher
}

// NewBotTransport wraps a running bot. dispatcher may be nil.
func NewBotTransport(bot *tele.Bot, dispatcher *tgsender.Dispatcher) *BotTransport {
	return &BotTransport{bot: bot, dispatcher: dispatcher}
}

// SendScreen delivers the screen as a fresh message to the user's chat.
func (t *BotTransport) SendScreen(_ context.Context, userID int64, s *menu.Screen) (menu.MessageRef, error) {
	msg, err := t.bot.Send(tele.ChatID(userID), s.Text, sendOptions(s))
	if err != nil {
		return menu.MessageRef{}, err
	}
	return menu.MessageRef{ChatID: msg.Chat.ID, MessageID: strconv.Itoa(msg.ID)}, nil
}

// EditScreen replaces the referenced message's text and keyboard in place.
func (t *BotTransport) EditScreen(_ context.Context, ref menu.MessageRef, s *menu.Screen) error {
	stored := tele.StoredMessage{MessageID: ref.MessageID, ChatID: ref.ChatID}
	_, err := t.bot.Edit(stored, s.Text, sendOptions(s))
	return err
}

// DeleteMessage removes the referenced message, asynchronously when a
// dispatcher is attached.
func (t *BotTransport) DeleteMessage(ctx context.Context, ref menu.MessageRef) error {
	stored := tele.StoredMessage{MessageID: ref.MessageID, ChatID: ref.ChatID}
	run := func() error { return t.bot.Delete(stored) }
	if t.dispatcher == nil {
		return run()
	}
	if err := t.dispatcher.Enqueue(ctx, "delete.message", "deleteMessage", run); err != nil {
		return run()
	}
	return nil
}

func sendOptions(s *menu.Screen) *tele.SendOptions {
	return &tele.SendOptions{
		ParseMode:   s.ParseMode,
		ReplyMarkup: keyboard.FromScreen(s.Keyboard),
	}
}

// LazyTransport is a menu.Transport that can be wired before the bot exists.
// The menu router and action dispatcher are built during bootstrap; the bot
// only comes to life inside RunTelegram, which binds it here via OnStart.
type LazyTransport struct {
	inner atomic.Pointer[BotTransport]
}

// Bind attaches the live bot transport. Safe to call from OnStart.
func (l *LazyTransport) Bind(bot *tele.Bot, dispatcher *tgsender.Dispatcher) {
	l.inner.Store(NewBotTransport(bot, dispatcher))
}

// Unbind detaches the transport, typically on shutdown.
func (l *LazyTransport) Unbind() {
	l.inner.Store(nil)
}

func (l *LazyTransport) get() (*BotTransport, error) {
	t := l.inner.Load()
	if t == nil {
		return nil, ErrTransportUnbound
	}
	return t, nil
}

func (l *LazyTransport) SendScreen(ctx context.Context, userID int64, s *menu.Screen) (menu.MessageRef, error) {
	t, err := l.get()
	if err != nil {
		return menu.MessageRef{}, err
	}
	return t.SendScreen(ctx, userID, s)
}

func (l *LazyTransport) EditScreen(ctx context.Context, ref menu.MessageRef, s *menu.Screen) error {
	t, err := l.get()
	if err != nil {
		return err
	}
	return t.EditScreen(ctx, ref, s)
}

func (l *LazyTransport) DeleteMessage(ctx context.Context, ref menu.MessageRef) error {
	t, err := l.get()
	if err != nil {
		return err
	}
	return t.DeleteMessage(ctx, ref)
}
