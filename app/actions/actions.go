// Package actions implements the bot's guided flows. A flow walks one user
// through a short dialogue, stage by stage, keeping its progress in the
// session's action args so a redeploy or a cancel never leaves half-written
// domain state.
package actions

import (
	"context"
	"fmt"

	"finbot/finance"

	"finbot/core/telegram/action"
)

// Short names used in button tokens.
const (
	ShortCreateAccount = "ca"
	ShortAddRecord     = "ar"
	ShortRename        = "ra"
)

// stageKey is the args key tracking which step of a flow the user is on.
const stageKey = "st"

// Finance is the slice of the domain service the flows write through.
type Finance interface {
	CreateAccount(ctx context.Context, in finance.NewAccount) (finance.Account, error)
	RenameAccount(ctx context.Context, id int64, name string) error
	AddRecord(ctx context.Context, in finance.NewRecord) (finance.Record, error)
}

// Options carry bot-level defaults into the flows.
type Options struct {
	DefaultCurrency string
}

// Register adds all flows to the registry.
func Register(reg *action.Registry, svc Finance, opts Options) error {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	entries := []struct {
		name    string
		short   string
		handler action.Handler
	}{
		{"create_account", ShortCreateAccount, createAccount(svc, opts)},
		{"add_record", ShortAddRecord, addRecord(svc)},
		{"rename_account", ShortRename, renameAccount(svc)},
	}
	for _, e := range entries {
		if err := reg.Register(e.name, e.short, e.handler); err != nil {
			return err
		}
	}
	return nil
}

func profileOf(f *action.Flow) (finance.Profile, error) {
	p, ok := f.Profile.(finance.Profile)
	if !ok {
		return finance.Profile{}, fmt.Errorf("%s: no profile for user %d", f.Name(), f.UserID)
	}
	return p, nil
}
