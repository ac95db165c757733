package finance

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a lookup that matched no row.
var ErrNotFound = errors.New("finance: not found")

// Profile is the bot-side identity of one Telegram user.
type Profile struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Username   string    `db:"username"`
	CreatedAt  time.Time `db:"created_at"`
}

// Account is a named money store owned by a profile. Its balance is derived
// from records, never stored.
type Account struct {
	ID        int64     `db:"id"`
	ProfileID int64     `db:"profile_id"`
	Name      string    `db:"name"`
	Currency  string    `db:"currency"`
	CreatedAt time.Time `db:"created_at"`
}

// Category labels records. Categories are global for now.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Record is one balance movement on an account. CategoryID is nil for
// uncategorised records, the opening balance included.
type Record struct {
	ID         int64     `db:"id"`
	AccountID  int64     `db:"account_id"`
	CategoryID *int64    `db:"category_id"`
	Amount     Money     `db:"amount"`
	Note       string    `db:"note"`
	SpentAt    time.Time `db:"spent_at"`
	CreatedAt  time.Time `db:"created_at"`
}

// NewAccount carries the fields needed to open an account.
type NewAccount struct {
	ProfileID int64
	Name      string
	Currency  string
	Opening   Money
}

// NewRecord carries the fields needed to add a record.
type NewRecord struct {
	AccountID  int64
	CategoryID *int64
	Amount     Money
	Note       string
	SpentAt    time.Time
}

// Storage is the persistence boundary of the domain.
type Storage interface {
	GetProfileByTelegramID(ctx context.Context, telegramID int64) (Profile, error)
	CreateProfile(ctx context.Context, telegramID int64, username string) (Profile, error)

	CreateAccount(ctx context.Context, in NewAccount) (Account, error)
	GetAccount(ctx context.Context, id int64) (Account, error)
	ListAccounts(ctx context.Context, profileID int64) ([]Account, error)
	RenameAccount(ctx context.Context, id int64, name string) error
	AccountBalance(ctx context.Context, id int64) (Money, error)

	ListCategories(ctx context.Context) ([]Category, error)

	CreateRecord(ctx context.Context, in NewRecord) (Record, error)
	ListRecords(ctx context.Context, accountID int64, limit int) ([]Record, error)
}
