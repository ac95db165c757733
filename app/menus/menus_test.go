package menus

import (
	"context"
	"strings"
	"testing"
	"time"

	"finbot/finance"

	"finbot/core/telegram/args"
	"finbot/core/telegram/menu"
)

type fakeFinance struct {
	accounts []finance.Account
	records  []finance.Record
}

func (f *fakeFinance) ListAccounts(_ context.Context, _ int64) ([]finance.Account, error) {
	return f.accounts, nil
}

func (f *fakeFinance) GetAccount(_ context.Context, id int64) (finance.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return finance.Account{}, finance.ErrNotFound
}

func (f *fakeFinance) AccountBalance(_ context.Context, _ int64) (finance.Money, error) {
	var sum finance.Money
	for _, r := range f.records {
		sum += r.Amount
	}
	return sum, nil
}

func (f *fakeFinance) ListRecords(_ context.Context, _ int64, limit int) ([]finance.Record, error) {
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func (f *fakeFinance) ListCategories(context.Context) ([]finance.Category, error) {
	return nil, nil
}

func TestAccountScreenEscapesUserText(t *testing.T) {
	svc := &fakeFinance{
		accounts: []finance.Account{{ID: 3, ProfileID: 1, Name: "cash_b*x", Currency: "USD"}},
		records: []finance.Record{
			{ID: 1, AccountID: 3, Amount: -500, Note: "milk *2", SpentAt: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)},
		},
	}
	render := renderAccount(svc)

	screen, err := render(context.Background(), menu.Request{
		UserID:  7,
		Profile: finance.Profile{ID: 1},
		Args:    args.Map{"a": int64(3)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if screen.ParseMode != menu.ModeMarkdown {
		t.Fatalf("parse mode %q", screen.ParseMode)
	}
	if !strings.Contains(screen.Text, `cash\_b\*x`) {
		t.Fatalf("account name not escaped: %q", screen.Text)
	}
	if !strings.Contains(screen.Text, `milk \*2`) {
		t.Fatalf("record note not escaped: %q", screen.Text)
	}
	if strings.Contains(screen.Text, "cash_b*x") {
		t.Fatalf("raw name leaked into markdown text: %q", screen.Text)
	}
}

func TestAccountsPagination(t *testing.T) {
	svc := &fakeFinance{}
	for i := int64(1); i <= 7; i++ {
		svc.accounts = append(svc.accounts, finance.Account{ID: i, ProfileID: 1, Name: "acc"})
	}
	render := renderAccounts(svc, 5)

	screen, err := render(context.Background(), menu.Request{
		UserID:  7,
		Profile: finance.Profile{ID: 1},
		Args:    args.Map{"p": int64(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(screen.Text, "page 2 of 2") {
		t.Fatalf("text %q", screen.Text)
	}
	// 2 accounts on the last page, pager row, create, back.
	if got := len(screen.Keyboard); got != 5 {
		t.Fatalf("keyboard rows %d", got)
	}
}
