package repository

import (
	"context"
	"fmt"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
)

// AccountRepository creates accounts out-of-band. The request path never calls it.
type AccountRepository interface {
	CreateAccount(ctx context.Context, q Querier, account *models.Account) error
	AccountExists(ctx context.Context, q Querier, id int32) (bool, error)
}

type PostgresAccountRepository struct{}

func NewAccountRepository() *PostgresAccountRepository {
	return &PostgresAccountRepository{}
}

// CreateAccount inserts the account row and its balance. Run it inside a
// transaction so both rows appear together.
func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, q Querier, account *models.Account) error {
	query := `INSERT INTO accounts (account_id, created_at)
		VALUES ($1, CURRENT_TIMESTAMP)
		RETURNING created_at`

	err := q.QueryRowContext(ctx, query, account.ID).Scan(&account.CreatedAt)
	if err != nil {
		err = classify(err)
		if errors.IsAlreadyExists(err) {
			return errors.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	query = `INSERT INTO balances (account_id, total, limit_amount) VALUES ($1, $2, $3)`
	if _, err := q.ExecContext(ctx, query, account.ID, account.Total, account.Limit); err != nil {
		return fmt.Errorf("failed to create balance: %w", classify(err))
	}
	return nil
}

func (r *PostgresAccountRepository) AccountExists(ctx context.Context, q Querier, id int32) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_id = $1)`

	var exists bool
	err := q.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if account exists: %w", err)
	}

	return exists, nil
}
