package wallets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paxol/money-tracker/pkg/api"
	"github.com/paxol/money-tracker/pkg/handlers"
	"github.com/paxol/money-tracker/pkg/mapping"
	"github.com/paxol/money-tracker/pkg/middleware"
	"github.com/paxol/money-tracker/pkg/storage"
)

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Store storage.WalletStore
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(store storage.WalletStore) *WalletsHandler {
	return &WalletsHandler{Store: store}
}

// Routes mounts the wallet endpoints.
func (h *WalletsHandler) Routes(r chi.Router) {
	r.Get("/", h.ListWallets)
	r.Post("/", h.CreateWallet)
	r.Get("/{walletId}", h.GetWallet)
	r.Delete("/{walletId}", h.DeleteWallet)
}

// CreateWallet handles the logic for creating a new wallet.
func (h *WalletsHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var newWallet api.NewWallet
	if err := json.NewDecoder(r.Body).Decode(&newWallet); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newWallet.Name == "" {
		http.Error(w, "Wallet name is required", http.StatusBadRequest)
		return
	}

	ownerID := middleware.OwnerFromContext(r.Context())
	domainWallet := mapping.ToDomainNewWallet(&newWallet, ownerID)

	createdWallet, err := h.Store.CreateWallet(r.Context(), domainWallet)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			http.Error(w, "Wallet already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create wallet", http.StatusInternalServerError)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiWallet(createdWallet))
}

// GetWallet handles the logic for retrieving a single wallet.
func (h *WalletsHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())
	walletID := chi.URLParam(r, "walletId")

	domainWallet, err := h.Store.GetWallet(r.Context(), ownerID, walletID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Wallet not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve wallet", http.StatusInternalServerError)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiWallet(domainWallet))
}

// DeleteWallet handles the logic for soft-deleting a wallet. The row stays in
// place so its transaction history remains consistent.
func (h *WalletsHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())
	walletID := chi.URLParam(r, "walletId")

	if err := h.Store.SoftDeleteWallet(r.Context(), ownerID, walletID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Wallet not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete wallet", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListWallets handles the logic for retrieving all of the caller's wallets.
func (h *WalletsHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())

	domainWallets, err := h.Store.ListWallets(r.Context(), ownerID)
	if err != nil {
		http.Error(w, "Failed to retrieve wallets", http.StatusInternalServerError)
		return
	}

	apiWallets := make([]*api.Wallet, len(domainWallets))
	for i := range domainWallets {
		apiWallets[i] = mapping.ToApiWallet(&domainWallets[i])
	}

	handlers.WriteJSON(w, http.StatusOK, apiWallets)
}
