package finance

import (
	"context"
	"log/slog"

	"finbot/core/logger"
)

// Service wraps Storage with the small amount of domain logic the bot needs
// and with per-operation logging.
type Service struct {
	store Storage
}

// NewService wires the domain service.
func NewService(store Storage) *Service {
	return &Service{store: store}
}

// GetOrCreateProfile resolves the Telegram user to a profile, creating one
// on first contact.
func (s *Service) GetOrCreateProfile(ctx context.Context, telegramID int64) (Profile, error) {
	return s.GetOrCreateProfileNamed(ctx, telegramID, "")
}

// GetOrCreateProfileNamed is GetOrCreateProfile with the username recorded
// when the profile has to be created.
func (s *Service) GetOrCreateProfileNamed(ctx context.Context, telegramID int64, username string) (Profile, error) {
	p, err := s.store.GetProfileByTelegramID(ctx, telegramID)
	if err == nil {
		return p, nil
	}
	p, err = s.store.CreateProfile(ctx, telegramID, username)
	if err != nil {
		logger.SVCProfiles.LogAttrs(ctx, slog.LevelError, "profile.create.fail",
			slog.Int64("user_id", telegramID),
			slog.String("err", err.Error()),
		)
		return Profile{}, err
	}
	logger.SVCProfiles.LogAttrs(ctx, slog.LevelInfo, "profile.created",
		slog.Int64("user_id", telegramID),
		slog.Int64("profile_id", p.ID),
	)
	return p, nil
}

// CreateAccount opens an account with an opening balance.
func (s *Service) CreateAccount(ctx context.Context, in NewAccount) (Account, error) {
	a, err := s.store.CreateAccount(ctx, in)
	if err != nil {
		logger.SVCAccounts.LogAttrs(ctx, slog.LevelError, "account.create.fail",
			slog.Int64("profile_id", in.ProfileID),
			slog.String("err", err.Error()),
		)
		return Account{}, err
	}
	logger.SVCAccounts.LogAttrs(ctx, slog.LevelInfo, "account.created",
		slog.Int64("profile_id", in.ProfileID),
		slog.Int64("account_id", a.ID),
		slog.String("amount", in.Opening.Format()),
	)
	return a, nil
}

// GetAccount fetches one account.
func (s *Service) GetAccount(ctx context.Context, id int64) (Account, error) {
	return s.store.GetAccount(ctx, id)
}

// ListAccounts returns the profile's accounts.
func (s *Service) ListAccounts(ctx context.Context, profileID int64) ([]Account, error) {
	return s.store.ListAccounts(ctx, profileID)
}

// RenameAccount updates an account's name.
func (s *Service) RenameAccount(ctx context.Context, id int64, name string) error {
	if err := s.store.RenameAccount(ctx, id, name); err != nil {
		logger.SVCAccounts.LogAttrs(ctx, slog.LevelError, "account.rename.fail",
			slog.Int64("account_id", id),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.SVCAccounts.LogAttrs(ctx, slog.LevelInfo, "account.renamed",
		slog.Int64("account_id", id),
	)
	return nil
}

// AccountBalance sums the account's records.
func (s *Service) AccountBalance(ctx context.Context, id int64) (Money, error) {
	return s.store.AccountBalance(ctx, id)
}

// ListCategories returns all spending categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

// ListRecords returns the account's most recent records.
func (s *Service) ListRecords(ctx context.Context, accountID int64, limit int) ([]Record, error) {
	return s.store.ListRecords(ctx, accountID, limit)
}

// AddRecord stores one balance movement.
func (s *Service) AddRecord(ctx context.Context, in NewRecord) (Record, error) {
	r, err := s.store.CreateRecord(ctx, in)
	if err != nil {
		logger.SVCRecords.LogAttrs(ctx, slog.LevelError, "record.create.fail",
			slog.Int64("account_id", in.AccountID),
			slog.String("err", err.Error()),
		)
		return Record{}, err
	}
	logger.SVCRecords.LogAttrs(ctx, slog.LevelInfo, "record.created",
		slog.Int64("account_id", in.AccountID),
		slog.Int64("record_id", r.ID),
		slog.String("amount", in.Amount.Format()),
	)
	return r, nil
}
