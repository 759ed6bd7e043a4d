package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/riteshkumar/clientes-api/internal/errors"
)

// Querier is the subset of *sql.DB and *sql.Tx the repositories need.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager runs a function inside one store transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, q Querier) error) error
}

type PostgresTxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *PostgresTxManager {
	return &PostgresTxManager{db: db}
}

func (m *PostgresTxManager) WithinTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, q Querier) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return errors.NewTransactionError("begin", classify(err))
	}

	// Ensure rollback on every exit path before commit, including panics
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewTransactionError("commit", classify(err))
	}

	// Nullify tx to avoid rollback in defer
	tx = nil
	return nil
}

// Postgres error codes the service distinguishes.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// balanceWithinLimit is the schema constraint backing total >= -limit.
const balanceWithinLimit = "balances_within_limit"

// ErrConflict marks a serialization failure or deadlock reported by the store.
var ErrConflict = stderrors.New("concurrent update conflict")

// classify maps driver errors onto the domain taxonomy, keeping the cause.
func classify(err error) error {
	var pqErr *pq.Error
	if !stderrors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %v", errors.ErrAccountAlreadyExists, err)
	case codeCheckViolation:
		if pqErr.Constraint == balanceWithinLimit {
			return fmt.Errorf("%w: %v", errors.ErrNotEnoughFunds, err)
		}
	case codeNumericOutOfRange:
		return fmt.Errorf("%w: %v", errors.ErrBalanceOverflow, err)
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
