package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paxol/money-tracker/pkg/models"
	"github.com/paxol/money-tracker/pkg/storage"
)

// Engine keeps each wallet's materialized balance consistent with its
// transactions. Every operation computes the balance effects of the change,
// nets them per wallet, and commits transaction rows and wallet deltas as one
// atomic unit through the storage layer.
type Engine struct {
	Store storage.Storage

	// Clock supplies "now" for the future flag. Overridden in tests.
	Clock func() time.Time
}

// NewEngine creates a new Engine backed by the given store.
func NewEngine(store storage.Storage) *Engine {
	return &Engine{Store: store, Clock: time.Now}
}

// Create validates the draft, computes its balance effects and persists the
// new transaction together with the wallet updates in one atomic commit.
func (e *Engine) Create(ctx context.Context, ownerID string, draft Draft) (*models.Transaction, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := e.Clock()
	tx := draft.transaction(uuid.New().String(), ownerID, now)

	// Wallets are only loaded (and therefore only required to exist) when the
	// transaction affects balances now. Categories are always checked.
	if err := e.checkCategory(ctx, ownerID, &draft); err != nil {
		return nil, err
	}
	if !tx.IsFuture {
		if err := e.checkWallets(ctx, ownerID, &draft); err != nil {
			return nil, err
		}
	}

	effects, err := EffectsOf(tx)
	if err != nil {
		return nil, fmt.Errorf("compute effects: %w", err)
	}

	m := storage.Mutation{
		Puts:         []storage.TransactionPut{{Transaction: tx}},
		WalletDeltas: walletDeltas(ownerID, NetEffects(effects)),
	}
	if err := e.Store.Apply(ctx, m); err != nil {
		return nil, e.storeError(err)
	}

	slog.Log(ctx, slog.LevelDebug, "transaction created", "id", tx.Id, "kind", tx.Kind, "future", tx.IsFuture)
	return tx, nil
}

// Update replaces a transaction's full field set. It always diffs the old and
// new effect sets; when the net wallet delta is empty (the common
// description/date/category edit) the commit degenerates to a row-only write
// and no balance is touched.
func (e *Engine) Update(ctx context.Context, ownerID, txID string, draft Draft) (*models.Transaction, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	old, err := e.Store.GetTransaction(ctx, ownerID, txID)
	if err != nil {
		return nil, e.storeError(err)
	}

	now := e.Clock()
	tx := draft.transaction(txID, ownerID, now)
	tx.CreatedAt = old.CreatedAt

	if err := e.checkCategory(ctx, ownerID, &draft); err != nil {
		return nil, err
	}
	if !tx.IsFuture {
		if err := e.checkWallets(ctx, ownerID, &draft); err != nil {
			return nil, err
		}
	}

	oldEffects, err := EffectsOf(old)
	if err != nil {
		return nil, fmt.Errorf("compute old effects: %w", err)
	}
	newEffects, err := EffectsOf(tx)
	if err != nil {
		return nil, fmt.Errorf("compute new effects: %w", err)
	}

	// The reversal of the old effects is only valid against the row as read;
	// the commit is conditioned on it being unchanged.
	m := storage.Mutation{
		Puts:         []storage.TransactionPut{{Transaction: tx, Replace: true, ReadUpdatedAt: old.UpdatedAt}},
		WalletDeltas: walletDeltas(ownerID, NetEffects(Negated(oldEffects), newEffects)),
	}
	if err := e.Store.Apply(ctx, m); err != nil {
		return nil, e.storeError(err)
	}

	return tx, nil
}

// Delete removes a transaction, reversing its effects on the wallet(s) it
// touched in the same atomic commit.
func (e *Engine) Delete(ctx context.Context, ownerID, txID string) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}

	tx, err := e.Store.GetTransaction(ctx, ownerID, txID)
	if err != nil {
		return e.storeError(err)
	}

	effects, err := EffectsOf(tx)
	if err != nil {
		return fmt.Errorf("compute effects: %w", err)
	}

	m := storage.Mutation{
		Deletes:      []storage.TransactionDelete{{OwnerId: ownerID, TxId: tx.Id, ReadUpdatedAt: tx.UpdatedAt}},
		WalletDeltas: walletDeltas(ownerID, NetEffects(Negated(effects))),
	}
	if err := e.Store.Apply(ctx, m); err != nil {
		return e.storeError(err)
	}

	return nil
}

// BulkCreate persists an ordered list of drafts as one atomic commit: a
// failure on any item aborts the whole batch. Per-wallet deltas are
// aggregated across the batch, so later items see the cumulative effect of
// earlier ones. Future-dated drafts are rejected outright.
func (e *Engine) BulkCreate(ctx context.Context, ownerID string, drafts []Draft) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}
	if len(drafts) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalidArgument)
	}

	now := e.Clock()

	var effects []Effect
	puts := make([]storage.TransactionPut, 0, len(drafts))
	for i := range drafts {
		draft := drafts[i]
		if err := draft.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		tx := draft.transaction(uuid.New().String(), ownerID, now)
		if tx.IsFuture {
			return fmt.Errorf("item %d: %w", i, ErrFutureNotSupported)
		}
		if err := e.checkCategory(ctx, ownerID, &draft); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := e.checkWallets(ctx, ownerID, &draft); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}

		itemEffects, err := EffectsOf(tx)
		if err != nil {
			return fmt.Errorf("item %d: compute effects: %w", i, err)
		}
		effects = append(effects, itemEffects...)
		puts = append(puts, storage.TransactionPut{Transaction: tx})
	}

	m := storage.Mutation{
		Puts:         puts,
		WalletDeltas: walletDeltas(ownerID, NetEffects(effects)),
	}
	if m.Size() > storage.MaxMutationSize {
		return fmt.Errorf("%w: batch of %d drafts exceeds the atomic commit limit", ErrInvalidArgument, len(drafts))
	}
	if err := e.Store.Apply(ctx, m); err != nil {
		return e.storeError(err)
	}

	slog.Log(ctx, slog.LevelDebug, "bulk import committed", "owner", ownerID, "count", len(drafts))
	return nil
}

// Materialize applies a due future transaction: it clears the future flag and
// applies the transaction's effects in one conditional commit. The flag flip
// is the commit's condition, so racing materializers apply the effects
// exactly once. Transactions that are not yet due, or no longer future, are
// left untouched.
func (e *Engine) Materialize(ctx context.Context, ownerID, txID string) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}

	tx, err := e.Store.GetTransaction(ctx, ownerID, txID)
	if err != nil {
		return e.storeError(err)
	}
	if !tx.IsFuture {
		return nil
	}
	now := e.Clock()
	if tx.Date.After(now) {
		return nil
	}

	updated := *tx
	updated.IsFuture = false
	updated.FuturePK = ""
	updated.UpdatedAt = now

	effects, err := EffectsOf(&updated)
	if err != nil {
		return fmt.Errorf("compute effects: %w", err)
	}

	// Wallets must still exist; a dangling future transaction surfaces here
	// as NotFound and stays unapplied.
	for _, eff := range NetEffects(effects) {
		if err := e.checkWallet(ctx, ownerID, eff.WalletId); err != nil {
			return err
		}
	}

	m := storage.Mutation{
		Puts:         []storage.TransactionPut{{Transaction: &updated, Replace: true, RequireFuture: true, ReadUpdatedAt: tx.UpdatedAt}},
		WalletDeltas: walletDeltas(ownerID, NetEffects(effects)),
	}
	if err := e.Store.Apply(ctx, m); err != nil {
		// Another writer materialized or edited the row first. A row that is
		// still future and due gets picked up again by the next scan.
		if errors.Is(err, storage.ErrConflict) {
			slog.Log(ctx, slog.LevelDebug, "transaction already materialized", "id", txID)
			return nil
		}
		return e.storeError(err)
	}

	return nil
}

// checkWallets verifies existence and ownership of the wallet(s) a draft
// touches.
func (e *Engine) checkWallets(ctx context.Context, ownerID string, draft *Draft) error {
	if err := e.checkWallet(ctx, ownerID, draft.WalletId); err != nil {
		return err
	}
	if draft.Kind == models.Transfer {
		if err := e.checkWallet(ctx, ownerID, draft.WalletToId); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) checkWallet(ctx context.Context, ownerID, walletID string) error {
	wallet, err := e.Store.GetWallet(ctx, ownerID, walletID)
	if err != nil {
		return e.storeError(err)
	}
	if wallet.Deleted {
		return fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}
	return nil
}

func (e *Engine) checkCategory(ctx context.Context, ownerID string, draft *Draft) error {
	if draft.Kind == models.Transfer {
		return nil
	}
	if _, err := e.Store.GetCategory(ctx, ownerID, draft.CategoryId); err != nil {
		return e.storeError(err)
	}
	return nil
}

// storeError translates storage sentinels into the engine's error taxonomy
// and hides storage detail otherwise.
func (e *Engine) storeError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w", ErrNotFound)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w", ErrConflict)
	default:
		return fmt.Errorf("ledger storage: %w", err)
	}
}

func walletDeltas(ownerID string, effects []Effect) []storage.WalletDelta {
	if len(effects) == 0 {
		return nil
	}
	deltas := make([]storage.WalletDelta, len(effects))
	for i, eff := range effects {
		deltas[i] = storage.WalletDelta{OwnerId: ownerID, WalletId: eff.WalletId, Delta: eff.Delta}
	}
	return deltas
}
