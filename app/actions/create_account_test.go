package actions

import (
	"context"
	"fmt"
	"testing"

	"finbot/finance"

	"finbot/core/telegram/action"
	"finbot/core/telegram/args"
	"finbot/core/telegram/menu"
	"finbot/core/telegram/session"
)

type fakeFinance struct {
	accounts []finance.NewAccount
	records  []finance.NewRecord
	renames  map[int64]string
	nextID   int64
}

func (f *fakeFinance) CreateAccount(_ context.Context, in finance.NewAccount) (finance.Account, error) {
	f.accounts = append(f.accounts, in)
	f.nextID++
	return finance.Account{ID: f.nextID, ProfileID: in.ProfileID, Name: in.Name, Currency: in.Currency}, nil
}

func (f *fakeFinance) RenameAccount(_ context.Context, id int64, name string) error {
	if f.renames == nil {
		f.renames = make(map[int64]string)
	}
	f.renames[id] = name
	return nil
}

func (f *fakeFinance) AddRecord(_ context.Context, in finance.NewRecord) (finance.Record, error) {
	f.records = append(f.records, in)
	return finance.Record{ID: int64(len(f.records)), AccountID: in.AccountID, Amount: in.Amount}, nil
}

type recordingTransport struct{ sent []*menu.Screen }

func (r *recordingTransport) SendScreen(_ context.Context, _ int64, s *menu.Screen) (menu.MessageRef, error) {
	r.sent = append(r.sent, s)
	return menu.MessageRef{}, nil
}
func (r *recordingTransport) EditScreen(_ context.Context, _ menu.MessageRef, s *menu.Screen) error {
	r.sent = append(r.sent, s)
	return nil
}
func (r *recordingTransport) DeleteMessage(context.Context, menu.MessageRef) error { return nil }

func (r *recordingTransport) lastText(t *testing.T) string {
	t.Helper()
	if len(r.sent) == 0 {
		t.Fatal("nothing sent")
	}
	return r.sent[len(r.sent)-1].Text
}

type flowFixture struct {
	svc      *fakeFinance
	sessions session.Manager
	tr       *recordingTransport
	d        *action.Dispatcher
	profile  finance.Profile
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()
	fx := &flowFixture{
		svc:      &fakeFinance{nextID: 41},
		sessions: session.NewMemoryManager("main"),
		tr:       &recordingTransport{},
		profile:  finance.Profile{ID: 1, TelegramID: 7},
	}

	menuReg := menu.NewRegistry()
	if err := menuReg.Register("main", "m", func(context.Context, menu.Request) (*menu.Screen, error) {
		return &menu.Screen{Text: "main menu"}, nil
	}); err != nil {
		t.Fatal(err)
	}
	err := menuReg.Register("account", "a", func(_ context.Context, req menu.Request) (*menu.Screen, error) {
		id, ok := req.Args.Int64("a")
		if !ok {
			return nil, fmt.Errorf("no account id")
		}
		return &menu.Screen{Text: fmt.Sprintf("account %d", id)}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	menus := menu.NewRouter(menuReg, fx.sessions, fx.tr, "m")
	actionReg := action.NewRegistry()
	if err := Register(actionReg, fx.svc, Options{DefaultCurrency: "USD"}); err != nil {
		t.Fatal(err)
	}
	fx.d = action.NewDispatcher(actionReg, fx.sessions, menus, fx.tr)
	return fx
}

func TestCreateAccountFlow(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	if err := fx.d.Start(ctx, ShortCreateAccount, nil, 7, fx.profile); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "Checking"); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "100.50"); err != nil {
		t.Fatal(err)
	}

	if len(fx.svc.accounts) != 1 {
		t.Fatalf("created %d accounts", len(fx.svc.accounts))
	}
	got := fx.svc.accounts[0]
	if got.Name != "Checking" || got.Opening != 10050 || got.Currency != "USD" || got.ProfileID != 1 {
		t.Fatalf("created account %+v", got)
	}

	if fx.sessions.InProgress(7) {
		t.Fatal("flow still active after completion")
	}
	name, a := fx.sessions.GetMenu(7)
	if name != "account" {
		t.Fatalf("landed on %q", name)
	}
	if id, _ := a.Int64("a"); id != 42 {
		t.Fatalf("account menu args %v", a)
	}
	if text := fx.tr.lastText(t); text != "account 42" {
		t.Fatalf("final screen %q", text)
	}
}

func TestCreateAccountRejectsBadAmount(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	if err := fx.d.Start(ctx, ShortCreateAccount, nil, 7, fx.profile); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "Checking"); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "a lot"); err != nil {
		t.Fatal(err)
	}

	if len(fx.svc.accounts) != 0 {
		t.Fatal("account created from unparseable amount")
	}
	if !fx.sessions.InProgress(7) {
		t.Fatal("flow aborted instead of re-prompting")
	}
	// A correction still lands.
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "100.50"); err != nil {
		t.Fatal(err)
	}
	if len(fx.svc.accounts) != 1 {
		t.Fatal("corrected amount not accepted")
	}
}

func TestCreateAccountCancelMidFlow(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	if err := fx.d.Start(ctx, ShortCreateAccount, nil, 7, fx.profile); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "Checking"); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.Stop(ctx, 7, fx.profile); err != nil {
		t.Fatal(err)
	}

	if len(fx.svc.accounts) != 0 {
		t.Fatal("cancel persisted a half-entered account")
	}
	if fx.sessions.InProgress(7) {
		t.Fatal("still active after cancel")
	}
	if name, _ := fx.sessions.GetMenu(7); name != "main" {
		t.Fatalf("cancel moved the menu to %q", name)
	}
	if text := fx.tr.lastText(t); text != "main menu" {
		t.Fatalf("cancel redrew %q", text)
	}
}

func TestAddRecordFlow(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	if err := fx.d.Start(ctx, ShortAddRecord, args.Map{"a": int64(9)}, 7, fx.profile); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "-12.40"); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "-"); err != nil {
		t.Fatal(err)
	}

	if len(fx.svc.records) != 1 {
		t.Fatalf("created %d records", len(fx.svc.records))
	}
	rec := fx.svc.records[0]
	if rec.AccountID != 9 || rec.Amount != -1240 || rec.CategoryID != nil {
		t.Fatalf("record %+v", rec)
	}
	name, a := fx.sessions.GetMenu(7)
	if name != "account" {
		t.Fatalf("landed on %q", name)
	}
	if id, _ := a.Int64("a"); id != 9 {
		t.Fatalf("account menu args %v", a)
	}
}

func TestAddRecordRequiresAccount(t *testing.T) {
	fx := newFlowFixture(t)
	if err := fx.d.Start(context.Background(), ShortAddRecord, nil, 7, fx.profile); err == nil {
		t.Fatal("start without account id accepted")
	}
	if fx.sessions.InProgress(7) {
		t.Fatal("failed start left the flow active")
	}
}

func TestRenameAccountFlow(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	if err := fx.d.Start(ctx, ShortRename, args.Map{"a": int64(9)}, 7, fx.profile); err != nil {
		t.Fatal(err)
	}
	if err := fx.d.OnMessage(ctx, 7, fx.profile, "  Savings  "); err != nil {
		t.Fatal(err)
	}
	if got := fx.svc.renames[9]; got != "Savings" {
		t.Fatalf("renamed to %q", got)
	}
	if fx.sessions.InProgress(7) {
		t.Fatal("flow still active")
	}
}
