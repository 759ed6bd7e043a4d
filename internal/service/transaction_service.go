package service

import (
	"context"
	"database/sql"
	"log/slog"
	"math"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
	"github.com/riteshkumar/clientes-api/internal/repository"
)

type TransactionService interface {
	Apply(ctx context.Context, cmd *models.PostCommand) (*models.BalanceResult, error)
}

type TransactionServiceImpl struct {
	txManager       repository.TxManager
	balanceRepo     repository.BalanceRepository
	transactionRepo repository.TransactionRepository
	logger          *slog.Logger
	now             Clock
}

func NewTransactionService(txManager repository.TxManager, balanceRepo repository.BalanceRepository, transactionRepo repository.TransactionRepository, logger *slog.Logger) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		txManager:       txManager,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
		now:             UTCClock,
	}
}

// WithClock replaces the time source used for occurred_at.
func (s *TransactionServiceImpl) WithClock(clock Clock) *TransactionServiceImpl {
	s.now = clock
	return s
}

// mutatorTxOptions takes the balance row lock under READ COMMITTED. A waiter
// re-reads the row committed by the previous holder; under REPEATABLE READ or
// SERIALIZABLE it would fail with a serialization error instead.
var mutatorTxOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// Apply credits or debits one account. The balance row is locked, checked,
// updated and the transaction row appended within one store transaction that
// commits before Apply returns. It is not idempotent.
func (s *TransactionServiceImpl) Apply(ctx context.Context, cmd *models.PostCommand) (*models.BalanceResult, error) {
	var result *models.BalanceResult

	err := s.txManager.WithinTx(ctx, mutatorTxOptions, func(ctx context.Context, q repository.Querier) error {
		// Lock and get balance
		balance, err := s.balanceRepo.GetByAccountIDForUpdate(ctx, q, cmd.AccountID)
		if err != nil {
			if errors.IsNotFound(err) {
				return err
			}
			return errors.NewTransactionError("lock balance", err)
		}

		newTotal, err := nextTotal(balance, cmd)
		if err != nil {
			return err
		}

		if err := s.balanceRepo.UpdateTotal(ctx, q, balance.ID, newTotal); err != nil {
			return errors.NewTransactionError("update balance", err)
		}

		// occurred_at is taken while the lock is held so it follows commit order
		transaction := &models.Transaction{
			AccountID:   cmd.AccountID,
			Amount:      cmd.Amount,
			Kind:        cmd.Kind,
			Description: cmd.Description,
			OccurredAt:  s.now(),
		}
		if err := s.transactionRepo.Create(ctx, q, transaction); err != nil {
			return errors.NewTransactionError("create transaction record", err)
		}

		result = &models.BalanceResult{Limit: balance.Limit, Total: newTotal}
		return nil
	})
	if err != nil {
		s.logApplyError(cmd, err)
		return nil, err
	}

	return result, nil
}

// nextTotal computes the balance total after cmd, enforcing total >= -limit.
func nextTotal(balance *models.Balance, cmd *models.PostCommand) (int64, error) {
	switch cmd.Kind {
	case models.KindCredit:
		total := balance.Total + cmd.Amount
		if total > math.MaxInt32 {
			return 0, errors.NewTransactionError("apply credit", errors.ErrBalanceOverflow)
		}
		return total, nil
	case models.KindDebit:
		if !balance.Allows(cmd.Amount) {
			return 0, errors.ErrNotEnoughFunds
		}
		return balance.Total - cmd.Amount, nil
	}
	return 0, errors.NewValidationError("tipo", "must be \"c\" or \"d\"")
}

func (s *TransactionServiceImpl) logApplyError(cmd *models.PostCommand, err error) {
	attrs := []any{
		"account_id", cmd.AccountID,
		"amount", cmd.Amount,
		"kind", string(cmd.Kind),
		"error", err.Error(),
	}
	switch {
	case errors.IsNotFound(err):
		s.logger.Warn("account not found", attrs...)
	case errors.IsNotEnoughFunds(err):
		s.logger.Debug("debit rejected by limit", attrs...)
	case errors.IsValidationError(err):
		s.logger.Warn("invalid transaction command", attrs...)
	default:
		s.logger.Error("failed to apply transaction", attrs...)
	}
}
