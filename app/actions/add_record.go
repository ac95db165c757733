package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finbot/finance"

	"finbot/core/telegram/action"
	tghelpers "finbot/core/telegram/helpers"
)

const (
	stageAmount = "amount"
	stageDate   = "date"
)

// addRecord adds one balance movement to the account the button was pressed
// on. The "a" start arg carries the account ID; the category arg "c" starts
// as an explicit null and stays null until category picking is wired in.
func addRecord(svc Finance) action.Handler {
	return action.Handler{
		Start: func(ctx context.Context, f *action.Flow) error {
			a := f.Args()
			if _, ok := a.Int64("a"); !ok {
				return fmt.Errorf("add_record: missing account id")
			}
			a["c"] = nil
			a[stageKey] = stageAmount
			f.SaveArgs(a)
			return f.Prompt(ctx, "Send the amount. Use a minus for spending, e.g. -12.40.")
		},

		OnMessage: func(ctx context.Context, f *action.Flow, text string) error {
			a := f.Args()
			stage, _ := a.String(stageKey)
			switch stage {
			case stageAmount:
				amount, err := finance.ParseAmount(text)
				if errors.Is(err, finance.ErrBadAmount) {
					return f.Prompt(ctx, "That does not look like an amount. Try something like -12.40.")
				}
				if err != nil {
					return err
				}
				a["am"] = int64(amount)
				a[stageKey] = stageDate
				f.SaveArgs(a)
				return f.Prompt(ctx, "Send the date, e.g. 2026-08-31, or \"-\" for today.")

			case stageDate:
				spentAt := time.Now()
				if s := strings.TrimSpace(text); s != "-" {
					t, ok := tghelpers.ParseFlexibleDate(s)
					if !ok {
						return f.Prompt(ctx, "I can't read that date. Use 2026-08-31, or \"-\" for today.")
					}
					spentAt = t
				}
				accountID, _ := a.Int64("a")
				amount, _ := a.Int64("am")
				_, err := svc.AddRecord(ctx, finance.NewRecord{
					AccountID: accountID,
					Amount:    finance.Money(amount),
					SpentAt:   spentAt,
				})
				if err != nil {
					return err
				}
				f.SetMenu("account", a.Without(stageKey, "am", "c"))
				return f.Finish(ctx)
			}
			return f.Prompt(ctx, "Send the amount, e.g. -12.40.")
		},

		Stop: func(ctx context.Context, f *action.Flow) error {
			return f.Redraw(ctx)
		},
	}
}
