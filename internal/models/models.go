package models

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/riteshkumar/clientes-api/internal/errors"
)

// StatementSize is the number of most recent transactions shown in a statement.
const StatementSize = 10

const (
	MinDescriptionLength = 1
	MaxDescriptionLength = 10
)

// Kind is the direction of a transaction. Its value is the wire and storage encoding.
type Kind string

const (
	KindCredit Kind = "c"
	KindDebit  Kind = "d"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCredit, KindDebit:
		return Kind(s), nil
	}
	return "", errors.NewValidationError("tipo", "must be \"c\" or \"d\"")
}

// Description is a transaction description holding between 1 and 10 characters.
// Values are only built through NewDescription.
type Description string

func NewDescription(s string) (Description, error) {
	n := utf8.RuneCountInString(s)
	if n < MinDescriptionLength {
		return "", errors.NewValidationError("descricao", "is too short")
	}
	if n > MaxDescriptionLength {
		return "", errors.NewValidationError("descricao", "is too long")
	}
	return Description(s), nil
}

func (d Description) String() string {
	return string(d)
}

// Account is a client account together with its seeded balance.
type Account struct {
	ID        int32     `json:"id"`
	Limit     int64     `json:"limit"`
	Total     int64     `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is the mutable running total of one account.
// Invariant: Total >= -Limit at every committed state.
type Balance struct {
	ID        int64
	AccountID int32
	Total     int64
	Limit     int64
}

// Allows reports whether debiting amount keeps the balance within its limit.
func (b *Balance) Allows(amount int64) bool {
	return b.Total-amount >= -b.Limit
}

type Transaction struct {
	ID          int64
	AccountID   int32
	Amount      int64
	Kind        Kind
	Description Description
	OccurredAt  time.Time
}

// Statement is a consistent snapshot of a balance and its newest transactions,
// newest first.
type Statement struct {
	Balance      Balance
	ExtractedAt  time.Time
	Transactions []*Transaction
}

// PostCommand is a validated request to credit or debit one account.
type PostCommand struct {
	AccountID   int32
	Amount      int64
	Kind        Kind
	Description Description
}

// BalanceResult is the committed balance after a PostCommand was applied.
type BalanceResult struct {
	Limit int64
	Total int64
}

type CreateTransactionRequest struct {
	Valor     json.RawMessage `json:"valor"`
	Tipo      *string         `json:"tipo"`
	Descricao *string         `json:"descricao"`
}

type TransactionResponse struct {
	Limite int64 `json:"limite"`
	Saldo  int64 `json:"saldo"`
}

type StatementResponse struct {
	Saldo             StatementBalance       `json:"saldo"`
	UltimasTransacoes []StatementTransaction `json:"ultimas_transacoes"`
}

type StatementBalance struct {
	Total       int64     `json:"total"`
	Limite      int64     `json:"limite"`
	DataExtrato time.Time `json:"data_extrato"`
}

type StatementTransaction struct {
	Valor       int64     `json:"valor"`
	Tipo        Kind      `json:"tipo"`
	Descricao   string    `json:"descricao"`
	RealizadaEm time.Time `json:"realizada_em"`
}

// NewStatementResponse converts a statement into its wire shape. The transaction
// list is never null on the wire.
func NewStatementResponse(s *Statement) StatementResponse {
	resp := StatementResponse{
		Saldo: StatementBalance{
			Total:       s.Balance.Total,
			Limite:      s.Balance.Limit,
			DataExtrato: s.ExtractedAt.UTC(),
		},
		UltimasTransacoes: make([]StatementTransaction, 0, len(s.Transactions)),
	}
	for _, t := range s.Transactions {
		resp.UltimasTransacoes = append(resp.UltimasTransacoes, StatementTransaction{
			Valor:       t.Amount,
			Tipo:        t.Kind,
			Descricao:   t.Description.String(),
			RealizadaEm: t.OccurredAt.UTC(),
		})
	}
	return resp
}

type HealthResponse struct {
	Status string `json:"status"`
}
