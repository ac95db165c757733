package router

import (
	"time"

	tg "finbot/core/telegram"
	tghelpers "finbot/core/telegram/helpers"
	"finbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls fallback behaviour for text updates that match no
// active action and no command.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoute builds the free-text handler. A user with an action in progress
// owns every text message they send; otherwise the text is matched against
// the command registry, then the fallback.
func TextRoute(deps Deps, reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()
		userID := c.Sender().ID
		ctx := tghelpers.BuildContext(c)

		if deps.Actions != nil && deps.Actions.InProgress(userID) {
			return handleWithSummary(c, "action_message", start, "", "", func() error {
				profile, err := deps.resolveProfile(ctx, userID)
				if err != nil {
					return err
				}
				return deps.Actions.OnMessage(ctx, userID, profile, text)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
