package service

import (
	"encoding/json"
	"strconv"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
)

// ParseAccountID parses a path segment as a signed 32-bit account ID.
func ParseAccountID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errors.ErrInvalidAccountID
	}
	return int32(id), nil
}

// ValidatePostRequest turns a decoded request body into a PostCommand.
// It has no side effects; every failure is a *errors.ValidationError.
func ValidatePostRequest(accountID int32, req *models.CreateTransactionRequest) (*models.PostCommand, error) {
	if req == nil {
		return nil, errors.NewValidationError("body", "must be present")
	}

	amount, err := parseAmount(req.Valor)
	if err != nil {
		return nil, err
	}

	if req.Tipo == nil {
		return nil, errors.NewValidationError("tipo", "must be present")
	}
	kind, err := models.ParseKind(*req.Tipo)
	if err != nil {
		return nil, err
	}

	if req.Descricao == nil {
		return nil, errors.NewValidationError("descricao", "must be present")
	}
	description, err := models.NewDescription(*req.Descricao)
	if err != nil {
		return nil, err
	}

	return &models.PostCommand{
		AccountID:   accountID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
	}, nil
}

// parseAmount accepts only a bare JSON integer in 1..MaxInt32. Strings,
// fractions and exponents are rejected.
func parseAmount(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, errors.NewValidationError("valor", "must be present")
	}
	amount, err := strconv.ParseInt(string(raw), 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("valor", "must be a 32-bit integer")
	}
	if amount <= 0 {
		return 0, errors.NewValidationError("valor", "must be positive")
	}
	return amount, nil
}
