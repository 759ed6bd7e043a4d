package service

import (
	"context"
	"testing"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
)

func newAccountService(store *memoryStore) *AccountServiceImpl {
	return NewAccountService(store, &memoryAccountRepo{store: store}, discardLogger())
}

func TestSeedAccounts_IsIdempotent(t *testing.T) {
	store := newMemoryStore()
	store.addAccount(3, 0, 1000000)
	svc := newAccountService(store)

	created, err := svc.SeedAccounts(context.Background(), DefaultAccounts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != len(DefaultAccounts)-1 {
		t.Fatalf("created=%d want=%d", created, len(DefaultAccounts)-1)
	}

	created, err = svc.SeedAccounts(context.Background(), DefaultAccounts)
	if err != nil || created != 0 {
		t.Fatalf("second seed created=%d err=%v, want 0 and nil", created, err)
	}

	for _, account := range DefaultAccounts {
		b := store.balance(account.ID)
		if b.Limit != account.Limit || b.Total != 0 {
			t.Fatalf("account %d balance=%+v, want limit=%d total=0", account.ID, b, account.Limit)
		}
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	tests := []struct {
		name    string
		account models.Account
		check   func(error) bool
	}{
		{name: "zero id", account: models.Account{ID: 0, Limit: 10}, check: errors.IsValidationError},
		{name: "negative limit", account: models.Account{ID: 9, Limit: -1}, check: errors.IsValidationError},
		{name: "total below -limit", account: models.Account{ID: 9, Limit: 10, Total: -11}, check: errors.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAccountService(newMemoryStore())
			account := tt.account
			if err := svc.CreateAccount(context.Background(), &account); !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateAccount_AlreadyExists(t *testing.T) {
	store := newMemoryStore()
	svc := newAccountService(store)

	account := models.Account{ID: 1, Limit: 1000}
	if err := svc.CreateAccount(context.Background(), &account); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if account.CreatedAt.IsZero() {
		t.Fatalf("created_at not populated")
	}
	if err := svc.CreateAccount(context.Background(), &models.Account{ID: 1, Limit: 5}); !errors.IsAlreadyExists(err) {
		t.Fatalf("want ErrAccountAlreadyExists, got %v", err)
	}
	if got := store.balance(1).Limit; got != 1000 {
		t.Fatalf("limit overwritten: %d", got)
	}
}
