package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imtiaz478/Sellora-full/internal/auth"
	"github.com/imtiaz478/Sellora-full/internal/http/respond"
	"github.com/imtiaz478/Sellora-full/internal/models/dto"
	"github.com/imtiaz478/Sellora-full/internal/storage"
)

// TransactionHandler exposes the caller's transactions. Every route expects an
// auth.Identity in the request context.
type TransactionHandler struct {
	store  storage.TransactionStore
	logger *slog.Logger
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(store storage.TransactionStore, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{store: store, logger: logger}
}

// Routes attaches the transaction routes relative to the mount point.
func (h *TransactionHandler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type createdResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, auth.ErrUnauthorized)
		return
	}

	var req dto.CreateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	tx, err := req.Transaction(caller.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	created, err := h.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, createdResponse{
		Message: "Transaction created successfully",
		ID:      created.ID,
	})
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, auth.ErrUnauthorized)
		return
	}

	items, err := h.store.ListTransactions(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.NewTransactionList(items))
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, auth.ErrUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req dto.UpdateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	patch, err := req.Patch()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if _, err := h.store.UpdateTransaction(r.Context(), id, caller.UserID, patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond.Message(w, http.StatusOK, "Transaction updated successfully")
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, auth.ErrUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.store.DeleteTransaction(r.Context(), id, caller.UserID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond.Message(w, http.StatusOK, "Transaction deleted successfully")
}
