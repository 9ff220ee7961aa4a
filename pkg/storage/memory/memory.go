// Package memory provides an in-memory Storage implementation with the same
// commit semantics as the DynamoDB store. It backs the engine's property
// tests and doubles as a full-scan balance verifier.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paxol/money-tracker/pkg/models"
	"github.com/paxol/money-tracker/pkg/storage"
)

// Store is a mutex-guarded in-memory Storage.
type Store struct {
	mu           sync.Mutex
	wallets      map[string]models.Wallet
	categories   map[string]models.Category
	transactions map[string]models.Transaction
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		wallets:      make(map[string]models.Wallet),
		categories:   make(map[string]models.Category),
		transactions: make(map[string]models.Transaction),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) GetTransaction(ctx context.Context, ownerID, txID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[txID]
	if !ok || tx.OwnerId != ownerID {
		return nil, storage.ErrNotFound
	}
	return &tx, nil
}

func (s *Store) ListTransactionsRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.OwnerId != ownerID {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) ListDueFutureTransactions(ctx context.Context, cutoff time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.IsFuture && !tx.Date.After(cutoff) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) GetWallet(ctx context.Context, ownerID, walletID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[walletID]
	if !ok || w.OwnerId != ownerID {
		return nil, storage.ErrNotFound
	}
	return &w, nil
}

func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.wallets[wallet.Id]; exists {
		return nil, fmt.Errorf("wallet %s: %w", wallet.Id, storage.ErrConflict)
	}
	s.wallets[wallet.Id] = *wallet
	return wallet, nil
}

func (s *Store) SoftDeleteWallet(ctx context.Context, ownerID, walletID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[walletID]
	if !ok || w.OwnerId != ownerID {
		return fmt.Errorf("wallet %s: %w", walletID, storage.ErrNotFound)
	}
	w.Deleted = true
	s.wallets[walletID] = w
	return nil
}

func (s *Store) ListWallets(ctx context.Context, ownerID string) ([]models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Wallet
	for _, w := range s.wallets {
		if w.OwnerId == ownerID && !w.Deleted {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, ownerID, categoryID string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[categoryID]
	if !ok || c.OwnerId != ownerID {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[category.Id]; exists {
		return nil, fmt.Errorf("category %s: %w", category.Id, storage.ErrConflict)
	}
	s.categories[category.Id] = *category
	return category, nil
}

func (s *Store) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Category
	for _, c := range s.categories {
		if c.OwnerId == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Apply commits the mutation atomically under the store lock: every condition
// is checked before any write happens, so a failure leaves no partial state.
func (s *Store) Apply(ctx context.Context, m storage.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check all conditions first.
	for _, put := range m.Puts {
		existing, exists := s.transactions[put.Transaction.Id]
		switch {
		case put.RequireFuture:
			if !exists || existing.OwnerId != put.Transaction.OwnerId || !existing.IsFuture {
				return fmt.Errorf("transaction %s: %w", put.Transaction.Id, storage.ErrConflict)
			}
		case put.Replace:
			if !exists || existing.OwnerId != put.Transaction.OwnerId {
				return fmt.Errorf("transaction %s: %w", put.Transaction.Id, storage.ErrConflict)
			}
		default:
			if exists {
				return fmt.Errorf("transaction %s: %w", put.Transaction.Id, storage.ErrConflict)
			}
		}
		if !put.ReadUpdatedAt.IsZero() && !existing.UpdatedAt.Equal(put.ReadUpdatedAt) {
			return fmt.Errorf("transaction %s: %w", put.Transaction.Id, storage.ErrConflict)
		}
	}
	for _, del := range m.Deletes {
		existing, exists := s.transactions[del.TxId]
		if !exists || existing.OwnerId != del.OwnerId {
			return fmt.Errorf("transaction %s: %w", del.TxId, storage.ErrConflict)
		}
		if !del.ReadUpdatedAt.IsZero() && !existing.UpdatedAt.Equal(del.ReadUpdatedAt) {
			return fmt.Errorf("transaction %s: %w", del.TxId, storage.ErrConflict)
		}
	}
	for _, delta := range m.WalletDeltas {
		w, ok := s.wallets[delta.WalletId]
		if !ok || w.OwnerId != delta.OwnerId {
			return fmt.Errorf("wallet %s: %w", delta.WalletId, storage.ErrNotFound)
		}
	}

	// All conditions hold; apply.
	for _, put := range m.Puts {
		s.transactions[put.Transaction.Id] = *put.Transaction
	}
	for _, del := range m.Deletes {
		delete(s.transactions, del.TxId)
	}
	for _, delta := range m.WalletDeltas {
		w := s.wallets[delta.WalletId]
		w.CurrentValue += delta.Delta
		s.wallets[delta.WalletId] = w
	}

	return nil
}

// RecomputeBalance rebuilds a wallet's balance from scratch: initial value
// plus the effects of every non-future transaction touching it. Used by tests
// to verify the materialized balance.
func (s *Store) RecomputeBalance(ownerID, walletID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[walletID]
	if !ok || w.OwnerId != ownerID {
		return 0, storage.ErrNotFound
	}

	total := w.InitialValue
	for _, tx := range s.transactions {
		if tx.OwnerId != ownerID || tx.IsFuture {
			continue
		}
		switch {
		case tx.Kind == models.Income && tx.WalletId == walletID:
			total += tx.Amount
		case tx.Kind == models.Expense && tx.WalletId == walletID:
			total -= tx.Amount
		case tx.Kind == models.Transfer && tx.WalletId == walletID:
			total -= tx.Amount
		}
		if tx.Kind == models.Transfer && tx.WalletToId == walletID {
			total += tx.Amount
		}
	}
	return total, nil
}
