package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
)

type BalanceRepository interface {
	GetByAccountID(ctx context.Context, q Querier, accountID int32) (*models.Balance, error)
	GetByAccountIDForUpdate(ctx context.Context, q Querier, accountID int32) (*models.Balance, error)
	UpdateTotal(ctx context.Context, q Querier, balanceID int64, total int64) error
}

type PostgresBalanceRepository struct{}

func NewBalanceRepository() *PostgresBalanceRepository {
	return &PostgresBalanceRepository{}
}

func (r *PostgresBalanceRepository) GetByAccountID(ctx context.Context, q Querier, accountID int32) (*models.Balance, error) {
	query := `SELECT balance_id, account_id, total, limit_amount FROM balances WHERE account_id = $1`

	balance, err := scanBalance(q.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get balance by account ID: %w", classify(err))
	}
	return balance, nil
}

// GetByAccountIDForUpdate reads the balance and holds its row lock until the
// surrounding transaction ends.
func (r *PostgresBalanceRepository) GetByAccountIDForUpdate(ctx context.Context, q Querier, accountID int32) (*models.Balance, error) {
	query := `SELECT balance_id, account_id, total, limit_amount FROM balances WHERE account_id = $1 FOR UPDATE`

	balance, err := scanBalance(q.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get balance by account ID for update: %w", classify(err))
	}
	return balance, nil
}

func (r *PostgresBalanceRepository) UpdateTotal(ctx context.Context, q Querier, balanceID int64, total int64) error {
	query := `UPDATE balances SET total = $1 WHERE balance_id = $2`

	result, err := q.ExecContext(ctx, query, total, balanceID)
	if err != nil {
		return fmt.Errorf("failed to update balance total: %w", classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating balance total: %w", err)
	}

	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}

	return nil
}

func scanBalance(row *sql.Row) (*models.Balance, error) {
	balance := &models.Balance{}
	if err := row.Scan(&balance.ID, &balance.AccountID, &balance.Total, &balance.Limit); err != nil {
		return nil, err
	}
	return balance, nil
}
