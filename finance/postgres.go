package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStorage implements Storage on a sqlx Postgres pool.
type PostgresStorage struct {
	db *sqlx.DB
}

// NewPostgresStorage wraps the connection pool.
func NewPostgresStorage(db *sqlx.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// GetProfileByTelegramID fetches a profile by the Telegram user ID.
func (s *PostgresStorage) GetProfileByTelegramID(ctx context.Context, telegramID int64) (Profile, error) {
	var p Profile
	err := s.db.GetContext(ctx, &p,
		`SELECT id, telegram_id, username, created_at FROM profiles WHERE telegram_id = $1`,
		telegramID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, fmt.Errorf("profile tg=%d: %w", telegramID, ErrNotFound)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// CreateProfile inserts a profile for the Telegram user.
func (s *PostgresStorage) CreateProfile(ctx context.Context, telegramID int64, username string) (Profile, error) {
	var p Profile
	err := s.db.GetContext(ctx, &p,
		`INSERT INTO profiles (telegram_id, username)
		 VALUES ($1, $2)
		 ON CONFLICT (telegram_id) DO UPDATE SET username = EXCLUDED.username
		 RETURNING id, telegram_id, username, created_at`,
		telegramID, username,
	)
	if err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// CreateAccount opens an account and writes its opening balance record in
// one transaction, so an account can never exist with a lost opening amount.
func (s *PostgresStorage) CreateAccount(ctx context.Context, in NewAccount) (Account, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Account{}, fmt.Errorf("create account: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var a Account
	err = tx.GetContext(ctx, &a,
		`INSERT INTO accounts (profile_id, name, currency)
		 VALUES ($1, $2, $3)
		 RETURNING id, profile_id, name, currency, created_at`,
		in.ProfileID, in.Name, in.Currency,
	)
	if err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}

	if in.Opening != 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (account_id, amount, note, spent_at)
			 VALUES ($1, $2, 'opening balance', $3)`,
			a.ID, in.Opening, time.Now(),
		)
		if err != nil {
			return Account{}, fmt.Errorf("create account: opening record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Account{}, fmt.Errorf("create account: commit: %w", err)
	}
	return a, nil
}

// GetAccount fetches one account by ID.
func (s *PostgresStorage) GetAccount(ctx context.Context, id int64) (Account, error) {
	var a Account
	err := s.db.GetContext(ctx, &a,
		`SELECT id, profile_id, name, currency, created_at FROM accounts WHERE id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// ListAccounts returns the profile's accounts, oldest first.
func (s *PostgresStorage) ListAccounts(ctx context.Context, profileID int64) ([]Account, error) {
	var list []Account
	err := s.db.SelectContext(ctx, &list,
		`SELECT id, profile_id, name, currency, created_at
		 FROM accounts WHERE profile_id = $1 ORDER BY id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return list, nil
}

// RenameAccount updates the account name.
func (s *PostgresStorage) RenameAccount(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("rename account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return nil
}

// AccountBalance sums the account's records.
func (s *PostgresStorage) AccountBalance(ctx context.Context, id int64) (Money, error) {
	var balance Money
	err := s.db.GetContext(ctx, &balance,
		`SELECT COALESCE(SUM(amount), 0)::bigint FROM records WHERE account_id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("account balance: %w", err)
	}
	return balance, nil
}

// ListCategories returns all categories, alphabetically.
func (s *PostgresStorage) ListCategories(ctx context.Context) ([]Category, error) {
	var list []Category
	err := s.db.SelectContext(ctx, &list, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// ListRecords returns the account's most recent records, newest first.
func (s *PostgresStorage) ListRecords(ctx context.Context, accountID int64, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	var list []Record
	err := s.db.SelectContext(ctx, &list,
		`SELECT id, account_id, category_id, amount, note, spent_at, created_at
		 FROM records WHERE account_id = $1
		 ORDER BY spent_at DESC, id DESC LIMIT $2`,
		accountID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return list, nil
}

// CreateRecord inserts one balance movement.
func (s *PostgresStorage) CreateRecord(ctx context.Context, in NewRecord) (Record, error) {
	spentAt := in.SpentAt
	if spentAt.IsZero() {
		spentAt = time.Now()
	}
	var r Record
	err := s.db.GetContext(ctx, &r,
		`INSERT INTO records (account_id, category_id, amount, note, spent_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, account_id, category_id, amount, note, spent_at, created_at`,
		in.AccountID, in.CategoryID, in.Amount, in.Note, spentAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("create record: %w", err)
	}
	return r, nil
}
