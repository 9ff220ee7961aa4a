package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/paxol/money-tracker/pkg/ledger"
)

// WriteError maps the ledger error taxonomy to HTTP status codes. Anything
// outside the taxonomy is an internal error and its detail stays out of the
// response body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrFutureNotSupported):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ledger.ErrConflict):
		http.Error(w, "Conflicting concurrent update, retry the request", http.StatusConflict)
	default:
		slog.Error("internal error", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// WriteJSON encodes the payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
