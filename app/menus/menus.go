// Package menus defines the bot's screens. Every renderer is a pure function
// of the request: the same name and args always redraw the same screen.
package menus

import (
	"context"
	"fmt"
	"strings"

	"finbot/finance"

	"finbot/core/telegram/args"
	"finbot/core/telegram/format"
	"finbot/core/telegram/menu"
)

// Short names, kept tiny because they ride inside button tokens.
const (
	ShortMain       = "m"
	ShortAccounts   = "acc"
	ShortAccount    = "a"
	ShortCategories = "cat"
)

// Action shorts referenced by buttons on these screens.
const (
	ActionCreateAccount = "ca"
	ActionAddRecord     = "ar"
	ActionRename        = "ra"
)

// Finance is the slice of the domain service the screens read from.
type Finance interface {
	ListAccounts(ctx context.Context, profileID int64) ([]finance.Account, error)
	GetAccount(ctx context.Context, id int64) (finance.Account, error)
	AccountBalance(ctx context.Context, id int64) (finance.Money, error)
	ListRecords(ctx context.Context, accountID int64, limit int) ([]finance.Record, error)
	ListCategories(ctx context.Context) ([]finance.Category, error)
}

// recentRecords is how many movements the account screen shows.
const recentRecords = 5

// Register adds all screens to the registry.
func Register(reg *menu.Registry, svc Finance, pageSize int) error {
	if pageSize <= 0 {
		pageSize = 5
	}
	entries := []struct {
		name   string
		short  string
		render menu.Renderer
	}{
		{"main", ShortMain, renderMain},
		{"accounts", ShortAccounts, renderAccounts(svc, pageSize)},
		{"account", ShortAccount, renderAccount(svc)},
		{"categories", ShortCategories, renderCategories(svc)},
	}
	for _, e := range entries {
		if err := reg.Register(e.name, e.short, e.render); err != nil {
			return err
		}
	}
	return nil
}

func profileOf(req menu.Request) (finance.Profile, bool) {
	p, ok := req.Profile.(finance.Profile)
	return p, ok
}

func renderMain(_ context.Context, _ menu.Request) (*menu.Screen, error) {
	accounts, err := menu.GotoButton("💼 Accounts", ShortAccounts, nil)
	if err != nil {
		return nil, err
	}
	categories, err := menu.GotoButton("🏷 Categories", ShortCategories, nil)
	if err != nil {
		return nil, err
	}
	create, err := menu.ActionButton("➕ New account", ActionCreateAccount, nil)
	if err != nil {
		return nil, err
	}
	return &menu.Screen{
		Text: "💰 Finance tracker\n\nTrack accounts, records and categories.",
		Keyboard: [][]menu.Button{
			{accounts},
			{categories},
			{create},
		},
	}, nil
}

func renderAccounts(svc Finance, pageSize int) menu.Renderer {
	return func(ctx context.Context, req menu.Request) (*menu.Screen, error) {
		profile, ok := profileOf(req)
		if !ok {
			return nil, fmt.Errorf("accounts: no profile for user %d", req.UserID)
		}
		list, err := svc.ListAccounts(ctx, profile.ID)
		if err != nil {
			return nil, err
		}

		p, _ := req.Args.Int64("p")
		page := int(p)
		if page < 0 {
			page = 0
		}
		pages := (len(list) + pageSize - 1) / pageSize
		if pages == 0 {
			pages = 1
		}
		if page >= pages {
			page = pages - 1
		}

		lo := page * pageSize
		hi := lo + pageSize
		if hi > len(list) {
			hi = len(list)
		}

		var kb [][]menu.Button
		for _, a := range list[lo:hi] {
			btn, err := menu.GotoButton(a.Name, ShortAccount, args.Map{"a": a.ID})
			if err != nil {
				return nil, err
			}
			kb = append(kb, []menu.Button{btn})
		}
		if pages > 1 {
			nav, err := pagerRow(page, pages)
			if err != nil {
				return nil, err
			}
			kb = append(kb, nav)
		}
		create, err := menu.ActionButton("➕ New account", ActionCreateAccount, nil)
		if err != nil {
			return nil, err
		}
		back, err := menu.GotoButton("« Back", ShortMain, nil)
		if err != nil {
			return nil, err
		}
		kb = append(kb, []menu.Button{create}, []menu.Button{back})

		text := "💼 Your accounts"
		if len(list) == 0 {
			text = "💼 You have no accounts yet. Create one to get started."
		} else if pages > 1 {
			text = fmt.Sprintf("💼 Your accounts (page %d of %d)", page+1, pages)
		}
		return &menu.Screen{Text: text, Keyboard: kb}, nil
	}
}

// pagerRow builds prev/next navigation. Edge buttons are dummies so the grid
// keeps its shape and a press on a disabled arrow costs nothing.
func pagerRow(page, pages int) ([]menu.Button, error) {
	prev := menu.DummyButton("·")
	next := menu.DummyButton("·")
	if page > 0 {
		b, err := menu.GotoButton("« Prev", ShortAccounts, args.Map{"p": int64(page - 1)})
		if err != nil {
			return nil, err
		}
		prev = b
	}
	if page < pages-1 {
		b, err := menu.GotoButton("Next »", ShortAccounts, args.Map{"p": int64(page + 1)})
		if err != nil {
			return nil, err
		}
		next = b
	}
	return []menu.Button{prev, next}, nil
}

func renderAccount(svc Finance) menu.Renderer {
	return func(ctx context.Context, req menu.Request) (*menu.Screen, error) {
		id, ok := req.Args.Int64("a")
		if !ok {
			return nil, fmt.Errorf("account: missing account id")
		}
		a, err := svc.GetAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		balance, err := svc.AccountBalance(ctx, id)
		if err != nil {
			return nil, err
		}
		recent, err := svc.ListRecords(ctx, id, recentRecords)
		if err != nil {
			return nil, err
		}

		addRecord, err := menu.ActionButton("➕ Add record", ActionAddRecord, args.Map{"a": id})
		if err != nil {
			return nil, err
		}
		rename, err := menu.ActionButton("✏️ Rename", ActionRename, args.Map{"a": id})
		if err != nil {
			return nil, err
		}
		back, err := menu.GotoButton("« Back", ShortAccounts, nil)
		if err != nil {
			return nil, err
		}
		// Account names and notes are user input; escape them so a stray
		// asterisk cannot break the markdown screen.
		name, err := format.EscapeMarkdown(a.Name, format.MarkdownV1)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "💼 *%s*\nBalance: %s", name, balance.FormatWith(a.Currency))
		if len(recent) > 0 {
			b.WriteString("\n\nRecent:")
			for _, r := range recent {
				fmt.Fprintf(&b, "\n%s  %s", r.SpentAt.Format("02.01"), r.Amount.FormatWith(a.Currency))
				if r.Note != "" {
					note, err := format.EscapeMarkdown(r.Note, format.MarkdownV1)
					if err != nil {
						return nil, err
					}
					b.WriteString("  ")
					b.WriteString(note)
				}
			}
		}
		return &menu.Screen{
			Text:      b.String(),
			ParseMode: menu.ModeMarkdown,
			Keyboard: [][]menu.Button{
				{addRecord},
				{rename},
				{back},
			},
		}, nil
	}
}

func renderCategories(svc Finance) menu.Renderer {
	return func(ctx context.Context, req menu.Request) (*menu.Screen, error) {
		list, err := svc.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteString("🏷 Categories\n")
		if len(list) == 0 {
			b.WriteString("\nNo categories yet.")
		}
		for _, c := range list {
			b.WriteString("\n• ")
			b.WriteString(c.Name)
		}
		back, err := menu.GotoButton("« Back", ShortMain, nil)
		if err != nil {
			return nil, err
		}
		return &menu.Screen{
			Text:     b.String(),
			Keyboard: [][]menu.Button{{back}},
		}, nil
	}
}
