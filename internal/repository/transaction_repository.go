package repository

import (
	"context"
	"fmt"

	"github.com/riteshkumar/clientes-api/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, q Querier, transaction *models.Transaction) error
	GetLatestByAccountID(ctx context.Context, q Querier, accountID int32, limit int) ([]*models.Transaction, error)
}

type PostgresTransactionRepository struct{}

func NewTransactionRepository() *PostgresTransactionRepository {
	return &PostgresTransactionRepository{}
}

// Create appends a transaction row and fills in its store-assigned ID.
func (r *PostgresTransactionRepository) Create(ctx context.Context, q Querier, transaction *models.Transaction) error {
	query := `INSERT INTO transactions (account_id, amount, kind, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING transaction_id`

	err := q.QueryRowContext(ctx, query,
		transaction.AccountID,
		transaction.Amount,
		string(transaction.Kind),
		transaction.Description.String(),
		transaction.OccurredAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", classify(err))
	}
	return nil
}

// GetLatestByAccountID returns up to limit transactions, newest first. Ties on
// occurred_at fall back to insertion order.
func (r *PostgresTransactionRepository) GetLatestByAccountID(ctx context.Context, q Querier, accountID int32, limit int) ([]*models.Transaction, error) {
	query := `SELECT transaction_id, account_id, amount, kind, description, occurred_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY occurred_at DESC, transaction_id DESC
		LIMIT $2`

	rows, err := q.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions by account ID: %w", classify(err))
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0, limit)
	for rows.Next() {
		var kind, description string
		transaction := &models.Transaction{}
		err := rows.Scan(&transaction.ID, &transaction.AccountID, &transaction.Amount, &kind, &description, &transaction.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transaction.Kind = models.Kind(kind)
		transaction.Description = models.Description(description)
		transactions = append(transactions, transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}
	return transactions, nil
}
