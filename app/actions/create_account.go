package actions

import (
	"context"
	"errors"
	"strings"

	"finbot/finance"

	"finbot/core/telegram/action"
	"finbot/core/telegram/args"
)

const (
	stageName    = "name"
	stageBalance = "bal"
)

// createAccount walks the user through opening an account: name first, then
// the opening balance. The currency can be preset via the "c" start arg.
func createAccount(svc Finance, opts Options) action.Handler {
	return action.Handler{
		Start: func(ctx context.Context, f *action.Flow) error {
			a := f.Args()
			if a == nil {
				a = args.Map{}
			}
			a[stageKey] = stageName
			f.SaveArgs(a)
			return f.Prompt(ctx, "Send the name for the new account.")
		},

		OnMessage: func(ctx context.Context, f *action.Flow, text string) error {
			a := f.Args()
			stage, _ := a.String(stageKey)
			switch stage {
			case stageName:
				name := strings.TrimSpace(text)
				if name == "" {
					return f.Prompt(ctx, "The name cannot be empty. Send the account name.")
				}
				a["n"] = name
				a[stageKey] = stageBalance
				f.SaveArgs(a)
				return f.Prompt(ctx, "Send the opening balance, e.g. 100.50.")

			case stageBalance:
				opening, err := finance.ParseAmount(text)
				if errors.Is(err, finance.ErrBadAmount) {
					return f.Prompt(ctx, "That does not look like an amount. Try something like 100.50.")
				}
				if err != nil {
					return err
				}
				profile, err := profileOf(f)
				if err != nil {
					return err
				}
				name, _ := a.String("n")
				currency, ok := a.String("c")
				if !ok {
					currency = opts.DefaultCurrency
				}
				acc, err := svc.CreateAccount(ctx, finance.NewAccount{
					ProfileID: profile.ID,
					Name:      name,
					Currency:  currency,
					Opening:   opening,
				})
				if err != nil {
					return err
				}
				f.SetMenu("account", args.Map{"a": acc.ID})
				return f.Finish(ctx)
			}
			return f.Prompt(ctx, "Send the name for the new account.")
		},

		Stop: func(ctx context.Context, f *action.Flow) error {
			return f.Redraw(ctx)
		},
	}
}
