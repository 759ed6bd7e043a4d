package service

import (
	"context"
	"log/slog"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
	"github.com/riteshkumar/clientes-api/internal/repository"
)

// DefaultAccounts is the account set seeded before serving begins.
var DefaultAccounts = []models.Account{
	{ID: 1, Limit: 100000},
	{ID: 2, Limit: 80000},
	{ID: 3, Limit: 1000000},
	{ID: 4, Limit: 10000000},
	{ID: 5, Limit: 500000},
}

type AccountService interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	SeedAccounts(ctx context.Context, accounts []models.Account) (int, error)
}

type AccountServiceImpl struct {
	txManager   repository.TxManager
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

func NewAccountService(txManager repository.TxManager, accountRepo repository.AccountRepository, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		txManager:   txManager,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccount inserts an account and its balance atomically.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := s.validateCreateRequest(account); err != nil {
		s.logger.Warn("invalid create account request",
			"account_id", account.ID,
			"error", err.Error(),
		)
		return err
	}

	err := s.txManager.WithinTx(ctx, nil, func(ctx context.Context, q repository.Querier) error {
		return s.accountRepo.CreateAccount(ctx, q, account)
	})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			s.logger.Warn("account already exists",
				"account_id", account.ID,
			)
			return err
		}

		s.logger.Error("failed to create account",
			"account_id", account.ID,
			"error", err.Error(),
		)
		return err
	}

	s.logger.Info("account created successfully",
		"account_id", account.ID,
		"limit", account.Limit,
	)
	return nil
}

// SeedAccounts creates every account that does not exist yet and reports how
// many were inserted. Running it twice is harmless.
func (s *AccountServiceImpl) SeedAccounts(ctx context.Context, accounts []models.Account) (int, error) {
	created := 0
	for i := range accounts {
		account := accounts[i]

		var exists bool
		err := s.txManager.WithinTx(ctx, nil, func(ctx context.Context, q repository.Querier) error {
			var err error
			exists, err = s.accountRepo.AccountExists(ctx, q, account.ID)
			return err
		})
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		if err := s.CreateAccount(ctx, &account); err != nil {
			// a concurrent seeder got there first
			if errors.IsAlreadyExists(err) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *AccountServiceImpl) validateCreateRequest(account *models.Account) error {
	if account.ID <= 0 {
		return errors.ErrInvalidAccountID
	}
	if account.Limit < 0 {
		return errors.NewValidationError("limit", "must not be negative")
	}
	if account.Total < -account.Limit {
		return errors.NewValidationError("total", "must not be below -limit")
	}
	return nil
}
