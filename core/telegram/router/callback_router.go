package router

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tg "finbot/core/telegram"
	"finbot/core/telegram/action"
	tghelpers "finbot/core/telegram/helpers"
	"finbot/core/telegram/menu"
	"finbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// ProfileResolver loads the domain profile attached to an update's sender.
// Routes pass the result through to renderers and action handlers untouched.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID int64) (any, error)
}

// Deps bundles everything the update routes dispatch into.
type Deps struct {
	Menus    *menu.Router
	Actions  *action.Dispatcher
	Profiles ProfileResolver
}

var decisionNames = map[DecisionKind]string{
	DecisionMalformed: "malformed",
	DecisionDummy:     "dummy",
	DecisionCancel:    "cancel",
	DecisionMenu:      "menu",
	DecisionAction:    "action",
}

// CallbackRoute returns the single handler for all inline button presses.
// Every press is acknowledged immediately; the token then decides what runs.
func CallbackRoute(deps Deps) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		_ = c.Respond()

		raw := strings.TrimPrefix(cb.Data, "\f")
		d := Classify(raw)
		name := "callback." + decisionNames[d.Kind]
		extras := []slog.Attr{slog.String("cb_key", logKey(d, raw))}

		ctx := tghelpers.BuildContext(c)
		userID := c.Sender().ID

		switch d.Kind {
		case DecisionDummy:
			logHandlerSummary(c, name, start, "skip", "ok", nil, extras...)
			return nil

		case DecisionMalformed:
			// Stale or tampered payload. Drop it; the screen stays as is.
			extras = append(extras, slog.String("reason", "malformed"))
			logHandlerSummary(c, name, start, "skip", "drop", nil, extras...)
			return nil

		case DecisionCancel:
			return handleWithSummary(c, name, start, "", "", func() error {
				profile, err := deps.resolveProfile(ctx, userID)
				if err != nil {
					return err
				}
				return deps.Actions.Stop(ctx, userID, profile)
			}, extras...)

		case DecisionMenu:
			return handleWithSummary(c, name, start, "", "", func() error {
				profile, err := deps.resolveProfile(ctx, userID)
				if err != nil {
					return err
				}
				ref := messageRef(cb)
				err = deps.Menus.ChangeMenu(ctx, ref, d.Ref, d.Args, userID, profile)
				if errors.Is(err, menu.ErrUnknownMenu) {
					return deps.Menus.FallbackEdit(ctx, ref)
				}
				return err
			}, extras...)

		case DecisionAction:
			return handleWithSummary(c, name, start, "", "", func() error {
				profile, err := deps.resolveProfile(ctx, userID)
				if err != nil {
					return err
				}
				err = deps.Actions.Start(ctx, d.Ref, d.Args, userID, profile)
				if errors.Is(err, action.ErrUnknownAction) {
					return deps.Menus.Fallback(ctx, userID)
				}
				return err
			}, extras...)
		}
		return nil
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

func (d Deps) resolveProfile(ctx context.Context, userID int64) (any, error) {
	if d.Profiles == nil {
		return nil, nil
	}
	return d.Profiles.Resolve(ctx, userID)
}

// messageRef locates the message carrying the pressed keyboard so menu
// transitions can edit it in place.
func messageRef(cb *tele.Callback) menu.MessageRef {
	ref := menu.MessageRef{}
	if cb.Message != nil {
		ref.MessageID = strconv.Itoa(cb.Message.ID)
		if cb.Message.Chat != nil {
			ref.ChatID = cb.Message.Chat.ID
		}
	}
	return ref
}

// logKey renders a compact identifier for the summary line: the token's kind
// and reference without its args.
func logKey(d Decision, raw string) string {
	switch d.Kind {
	case DecisionMenu:
		return "g:" + d.Ref
	case DecisionAction:
		return "a:" + d.Ref
	case DecisionMalformed:
		if len(raw) > 24 {
			raw = raw[:24]
		}
		return raw
	default:
		return decisionNames[d.Kind]
	}
}
