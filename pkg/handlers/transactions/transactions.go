package transactions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paxol/money-tracker/pkg/api"
	"github.com/paxol/money-tracker/pkg/handlers"
	"github.com/paxol/money-tracker/pkg/importer"
	"github.com/paxol/money-tracker/pkg/ledger"
	"github.com/paxol/money-tracker/pkg/mapping"
	"github.com/paxol/money-tracker/pkg/middleware"
	"github.com/paxol/money-tracker/pkg/storage"
)

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Engine *ledger.Engine
	Store  storage.TransactionReader
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(engine *ledger.Engine, store storage.TransactionReader) *TransactionsHandler {
	return &TransactionsHandler{Engine: engine, Store: store}
}

// Routes mounts the transaction endpoints.
func (h *TransactionsHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTransactions)
	r.Post("/", h.CreateTransaction)
	r.Post("/import", h.ImportTransactions)
	r.Post("/import/parse", h.ParseImport)
	r.Put("/{transactionId}", h.UpdateTransaction)
	r.Delete("/{transactionId}", h.DeleteTransaction)
}

// CreateTransaction handles the logic for creating a new transaction.
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req api.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ownerID := middleware.OwnerFromContext(r.Context())

	tx, err := h.Engine.Create(r.Context(), ownerID, mapping.ToDraft(&req))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// UpdateTransaction handles the logic for replacing a transaction's field set.
func (h *TransactionsHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req api.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ownerID := middleware.OwnerFromContext(r.Context())
	txID := chi.URLParam(r, "transactionId")

	tx, err := h.Engine.Update(r.Context(), ownerID, txID, mapping.ToDraft(&req))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// DeleteTransaction handles the logic for deleting a transaction.
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())
	txID := chi.URLParam(r, "transactionId")

	if err := h.Engine.Delete(r.Context(), ownerID, txID); err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportTransactions handles the bulk import of drafted transactions.
func (h *TransactionsHandler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	var req api.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ownerID := middleware.OwnerFromContext(r.Context())

	drafts := make([]ledger.Draft, len(req.Transactions))
	for i := range req.Transactions {
		drafts[i] = mapping.ToDraft(&req.Transactions[i])
	}

	if err := h.Engine.BulkCreate(r.Context(), ownerID, drafts); err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ParseImport turns pasted tabular text into drafted rows with per-field
// validation. Nothing is persisted; the caller reviews the drafts and submits
// the valid ones to the import endpoint.
func (h *TransactionsHandler) ParseImport(w http.ResponseWriter, r *http.Request) {
	var req api.ImportParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Text to parse is required", http.StatusBadRequest)
		return
	}

	rows := importer.Parse(req.Text, importer.Options{
		DefaultWalletId:      req.DefaultWalletId,
		DefaultInCategoryId:  req.DefaultInCategoryId,
		DefaultOutCategoryId: req.DefaultOutCategoryId,
		NumberStyle:          importer.NumberStyle(req.NumberStyle),
	})

	apiRows := make([]api.ImportRow, len(rows))
	for i := range rows {
		apiRows[i] = mapping.ToApiImportRow(&rows[i])
	}

	handlers.WriteJSON(w, http.StatusOK, apiRows)
}

// ListTransactions handles the logic for retrieving transactions in a date range.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "Invalid 'from' query parameter", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "Invalid 'to' query parameter", http.StatusBadRequest)
		return
	}

	domainTxs, err := h.Store.ListTransactionsRange(r.Context(), ownerID, from, to)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	apiTxs := make([]*api.Transaction, len(domainTxs))
	for i := range domainTxs {
		apiTxs[i] = mapping.ToApiTransaction(&domainTxs[i])
	}

	handlers.WriteJSON(w, http.StatusOK, apiTxs)
}
