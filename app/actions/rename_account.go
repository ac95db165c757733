package actions

import (
	"context"
	"fmt"
	"strings"

	"finbot/core/telegram/action"
	"finbot/core/telegram/args"
)

// renameAccount asks for a new name and applies it to the account the button
// was pressed on.
func renameAccount(svc Finance) action.Handler {
	return action.Handler{
		Start: func(ctx context.Context, f *action.Flow) error {
			if _, ok := f.Args().Int64("a"); !ok {
				return fmt.Errorf("rename_account: missing account id")
			}
			return f.Prompt(ctx, "Send the new name for this account.")
		},

		OnMessage: func(ctx context.Context, f *action.Flow, text string) error {
			name := strings.TrimSpace(text)
			if name == "" {
				return f.Prompt(ctx, "The name cannot be empty. Send the new name.")
			}
			a := f.Args()
			accountID, _ := a.Int64("a")
			if err := svc.RenameAccount(ctx, accountID, name); err != nil {
				return err
			}
			f.SetMenu("account", args.Map{"a": accountID})
			return f.Finish(ctx)
		},

		Stop: func(ctx context.Context, f *action.Flow) error {
			return f.Redraw(ctx)
		},
	}
}
