package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/clientes-api/internal/errors"
	"github.com/riteshkumar/clientes-api/internal/models"
	"github.com/riteshkumar/clientes-api/internal/service"
	u "github.com/riteshkumar/clientes-api/internal/utils"
)

// maxBodyBytes bounds POST bodies; a valid one is well under 100 bytes.
const maxBodyBytes = 4 << 10

type ClientHandler struct {
	transactionService service.TransactionService
	statementService   service.StatementService
	logger             *slog.Logger
}

func NewClientHandler(transactionService service.TransactionService, statementService service.StatementService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		transactionService: transactionService,
		statementService:   statementService,
		logger:             logger,
	}
}

func (h *ClientHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/clientes/{id}/transacoes", h.CreateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/clientes/{id}/extrato", h.GetStatement).Methods(http.MethodGet)
}

func (h *ClientHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, err := service.ParseAccountID(mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, r, err, "create transaction")
		return
	}

	var req models.CreateTransactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Debug("invalid create transaction request",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err.Error(),
		)
		u.WriteStatus(w, http.StatusUnprocessableEntity)
		return
	}

	cmd, err := service.ValidatePostRequest(accountID, &req)
	if err != nil {
		h.handleServiceError(w, r, err, "create transaction")
		return
	}

	result, err := h.transactionService.Apply(r.Context(), cmd)
	if err != nil {
		h.handleServiceError(w, r, err, "create transaction")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.TransactionResponse{
		Limite: result.Limit,
		Saldo:  result.Total,
	})
}

func (h *ClientHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	accountID, err := service.ParseAccountID(mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, r, err, "get statement")
		return
	}

	statement, err := h.statementService.GetStatement(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, r, err, "get statement")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.NewStatementResponse(statement))
}

func (h *ClientHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteStatus(w, http.StatusNotFound)
	case errors.IsNotEnoughFunds(err):
		u.WriteStatus(w, http.StatusUnprocessableEntity)
	case errors.IsValidationError(err):
		h.logger.Debug("rejected malformed request during "+operation,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err.Error(),
		)
		u.WriteStatus(w, http.StatusUnprocessableEntity)
	default:
		h.logger.Error("internal server error during "+operation,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err.Error(),
		)
		u.WriteStatus(w, http.StatusInternalServerError)
	}
}
