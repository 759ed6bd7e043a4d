package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
	"github.com/riteshkumar/clientes-api/internal/repository"
)

// memoryStore serializes whole transactions behind one mutex and restores the
// previous state when fn fails, which is enough to model row locking for a
// single account.
type memoryStore struct {
	mu           sync.Mutex
	balances     map[int32]*models.Balance
	transactions []*models.Transaction
	nextID       int64

	failCreate error
	lastOpts   *sql.TxOptions
	commits    int
	rollbacks  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{balances: make(map[int32]*models.Balance)}
}

func (m *memoryStore) addAccount(id int32, total, limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[id] = &models.Balance{ID: int64(id) * 100, AccountID: id, Total: total, Limit: limit}
}

func (m *memoryStore) balance(id int32) models.Balance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.balances[id]
}

func (m *memoryStore) transactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}

func (m *memoryStore) WithinTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, q repository.Querier) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.NewTransactionError("begin", err)
	}
	m.lastOpts = opts

	saved := make(map[int32]models.Balance, len(m.balances))
	for id, b := range m.balances {
		saved[id] = *b
	}
	savedLen, savedID := len(m.transactions), m.nextID

	err := fn(ctx, nil)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		for id, b := range saved {
			restored := b
			m.balances[id] = &restored
		}
		m.transactions = m.transactions[:savedLen]
		m.nextID = savedID
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type memoryBalanceRepo struct {
	store *memoryStore
}

func (r *memoryBalanceRepo) GetByAccountID(ctx context.Context, q repository.Querier, accountID int32) (*models.Balance, error) {
	b, ok := r.store.balances[accountID]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memoryBalanceRepo) GetByAccountIDForUpdate(ctx context.Context, q repository.Querier, accountID int32) (*models.Balance, error) {
	return r.GetByAccountID(ctx, q, accountID)
}

func (r *memoryBalanceRepo) UpdateTotal(ctx context.Context, q repository.Querier, balanceID int64, total int64) error {
	for _, b := range r.store.balances {
		if b.ID == balanceID {
			b.Total = total
			return nil
		}
	}
	return errors.ErrAccountNotFound
}

type memoryTransactionRepo struct {
	store *memoryStore
}

func (r *memoryTransactionRepo) Create(ctx context.Context, q repository.Querier, transaction *models.Transaction) error {
	if r.store.failCreate != nil {
		return r.store.failCreate
	}
	r.store.nextID++
	transaction.ID = r.store.nextID
	copied := *transaction
	r.store.transactions = append(r.store.transactions, &copied)
	return nil
}

func (r *memoryTransactionRepo) GetLatestByAccountID(ctx context.Context, q repository.Querier, accountID int32, limit int) ([]*models.Transaction, error) {
	matching := make([]*models.Transaction, 0)
	for _, t := range r.store.transactions {
		if t.AccountID == accountID {
			copied := *t
			matching = append(matching, &copied)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].OccurredAt.Equal(matching[j].OccurredAt) {
			return matching[i].OccurredAt.After(matching[j].OccurredAt)
		}
		return matching[i].ID > matching[j].ID
	})
	if len(matching) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

type memoryAccountRepo struct {
	store *memoryStore
}

func (r *memoryAccountRepo) CreateAccount(ctx context.Context, q repository.Querier, account *models.Account) error {
	if _, ok := r.store.balances[account.ID]; ok {
		return errors.ErrAccountAlreadyExists
	}
	r.store.balances[account.ID] = &models.Balance{
		ID:        int64(account.ID) * 100,
		AccountID: account.ID,
		Total:     account.Total,
		Limit:     account.Limit,
	}
	account.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return nil
}

func (r *memoryAccountRepo) AccountExists(ctx context.Context, q repository.Querier, id int32) (bool, error) {
	_, ok := r.store.balances[id]
	return ok, nil
}

// steppingClock returns start, start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) Clock {
	var calls int64
	return func() time.Time {
		n := atomic.AddInt64(&calls, 1) - 1
		return start.Add(time.Duration(n) * step)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store        *memoryStore
	transactions *TransactionServiceImpl
	statements   *StatementServiceImpl
}

var clockStart = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	store := newMemoryStore()
	balances := &memoryBalanceRepo{store: store}
	transactions := &memoryTransactionRepo{store: store}
	logger := discardLogger()
	return &fixture{
		store: store,
		transactions: NewTransactionService(store, balances, transactions, logger).
			WithClock(steppingClock(clockStart, time.Millisecond)),
		statements: NewStatementService(store, balances, transactions, logger).
			WithClock(steppingClock(clockStart.Add(time.Hour), time.Second)),
	}
}

func command(accountID int32, amount int64, kind models.Kind, description string) *models.PostCommand {
	return &models.PostCommand{
		AccountID:   accountID,
		Amount:      amount,
		Kind:        kind,
		Description: models.Description(description),
	}
}
