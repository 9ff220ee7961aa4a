package wallets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/paxol/money-tracker/pkg/api"
	"github.com/paxol/money-tracker/pkg/middleware"
	"github.com/paxol/money-tracker/pkg/models"
	"github.com/paxol/money-tracker/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
)

const testOwner = "owner-1"

func newTestRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()

	store := memory.New()
	handler := NewWalletsHandler(store)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithOwner(req.Context(), testOwner)))
		})
	})
	r.Route("/wallets", handler.Routes)

	return r, store
}

func TestCreateWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, store := newTestRouter(t)

		body, _ := json.Marshal(api.NewWallet{Name: "Checking", Kind: string(models.Cash), InitialValue: 10000})
		req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var created api.Wallet
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
		assert.NotEmpty(t, created.Id)
		assert.Equal(t, "Checking", created.Name)
		// The materialized balance starts at the initial value.
		assert.Equal(t, int64(10000), created.CurrentValue)

		stored, err := store.GetWallet(context.Background(), testOwner, created.Id)
		assert.NoError(t, err)
		assert.Equal(t, int64(10000), stored.CurrentValue)
	})

	t.Run("Missing name", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body, _ := json.Marshal(api.NewWallet{Kind: string(models.Cash)})
		req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewReader([]byte("{")))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, store := newTestRouter(t)
		_, err := store.CreateWallet(context.Background(), &models.Wallet{Id: "wallet-1", OwnerId: testOwner, Name: "Checking", CurrentValue: 500})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/wallets/wallet-1", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.Wallet
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, int64(500), got.CurrentValue)
	})

	t.Run("Not Found", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/wallets/wallet-missing", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Foreign wallet", func(t *testing.T) {
		router, store := newTestRouter(t)
		_, err := store.CreateWallet(context.Background(), &models.Wallet{Id: "wallet-x", OwnerId: "owner-2"})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/wallets/wallet-x", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeleteWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, store := newTestRouter(t)
		_, err := store.CreateWallet(context.Background(), &models.Wallet{Id: "wallet-1", OwnerId: testOwner, Name: "Checking"})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/wallets/wallet-1", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		// The row survives as soft-deleted.
		stored, err := store.GetWallet(context.Background(), testOwner, "wallet-1")
		assert.NoError(t, err)
		assert.True(t, stored.Deleted)
	})

	t.Run("Not Found", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodDelete, "/wallets/wallet-missing", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListWallets(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	_, err := store.CreateWallet(ctx, &models.Wallet{Id: "wallet-1", OwnerId: testOwner, Name: "Checking"})
	assert.NoError(t, err)
	_, err = store.CreateWallet(ctx, &models.Wallet{Id: "wallet-2", OwnerId: testOwner, Name: "Savings"})
	assert.NoError(t, err)
	_, err = store.CreateWallet(ctx, &models.Wallet{Id: "wallet-x", OwnerId: "owner-2", Name: "Other"})
	assert.NoError(t, err)
	assert.NoError(t, store.SoftDeleteWallet(ctx, testOwner, "wallet-2"))

	req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var wallets []api.Wallet
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&wallets))
	assert.Len(t, wallets, 1)
	assert.Equal(t, "wallet-1", wallets[0].Id)
}
