package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
	"github.com/riteshkumar/clientes-api/internal/repository"
)

type StatementService interface {
	GetStatement(ctx context.Context, accountID int32) (*models.Statement, error)
}

type StatementServiceImpl struct {
	txManager       repository.TxManager
	balanceRepo     repository.BalanceRepository
	transactionRepo repository.TransactionRepository
	logger          *slog.Logger
	now             Clock
}

func NewStatementService(txManager repository.TxManager, balanceRepo repository.BalanceRepository, transactionRepo repository.TransactionRepository, logger *slog.Logger) *StatementServiceImpl {
	return &StatementServiceImpl{
		txManager:       txManager,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
		now:             UTCClock,
	}
}

// WithClock replaces the time source used for extracted_at.
func (s *StatementServiceImpl) WithClock(clock Clock) *StatementServiceImpl {
	s.now = clock
	return s
}

// Both reads share one snapshot, so the balance always matches the listed tail.
var readerTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// GetStatement returns the balance and newest transactions of one account.
func (s *StatementServiceImpl) GetStatement(ctx context.Context, accountID int32) (*models.Statement, error) {
	statement := &models.Statement{}

	err := s.txManager.WithinTx(ctx, readerTxOptions, func(ctx context.Context, q repository.Querier) error {
		balance, err := s.balanceRepo.GetByAccountID(ctx, q, accountID)
		if err != nil {
			if errors.IsNotFound(err) {
				return err
			}
			return errors.NewTransactionError("get balance", err)
		}

		transactions, err := s.transactionRepo.GetLatestByAccountID(ctx, q, accountID, models.StatementSize)
		if err != nil {
			return errors.NewTransactionError("get latest transactions", err)
		}

		statement.Balance = *balance
		statement.Transactions = transactions
		return nil
	})
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account not found",
				"account_id", accountID,
			)
			return nil, err
		}
		s.logger.Error("failed to read statement",
			"account_id", accountID,
			"error", err.Error(),
		)
		return nil, err
	}

	statement.ExtractedAt = s.now()
	return statement, nil
}
