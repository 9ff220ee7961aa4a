package storage

import (
	"context"
	"time"

	"github.com/paxol/money-tracker/pkg/models"
)

// MaxMutationSize is the largest number of items one atomic commit may touch.
// DynamoDB caps a transact-write at 100 items; splitting a mutation would
// break its all-or-nothing guarantee, so oversized mutations are rejected
// upstream instead.
const MaxMutationSize = 100

// TransactionPut is a transaction row write inside a Mutation.
type TransactionPut struct {
	Transaction *models.Transaction

	// Replace requires the row to already exist and belong to the owner
	// (update path). When false the put requires the row to not exist yet
	// (create path).
	Replace bool

	// RequireFuture additionally requires the stored row to still be flagged
	// future. Used by materialization so a transaction's effects can never be
	// applied twice: the winning writer flips the flag, every other commit is
	// cancelled. Implies Replace.
	RequireFuture bool

	// ReadUpdatedAt, when set, requires the stored row's updated_at to still
	// equal the value the caller read before building this mutation. Reversal
	// deltas are computed from that read; committing them against a row
	// another writer has since replaced would reverse the old effects twice.
	ReadUpdatedAt time.Time
}

// TransactionDelete is a transaction row removal inside a Mutation.
type TransactionDelete struct {
	OwnerId string
	TxId    string

	// ReadUpdatedAt guards the delete the same way it guards a replace put:
	// the row must not have changed since the reversal deltas were computed.
	ReadUpdatedAt time.Time
}

// WalletDelta is an atomic increment of a wallet's materialized balance.
// Deltas are applied as storage-level increments, never read-modify-write,
// so concurrent commits against the same wallet compose instead of clobbering
// each other. A Mutation carries at most one delta per wallet.
type WalletDelta struct {
	OwnerId  string
	WalletId string
	Delta    int64
}

// Mutation is one atomic unit of work: transaction row changes plus the net
// wallet balance deltas they imply. Either every part commits or none does.
type Mutation struct {
	Puts         []TransactionPut
	Deletes      []TransactionDelete
	WalletDeltas []WalletDelta
}

// Empty reports whether the mutation contains no writes.
func (m *Mutation) Empty() bool {
	return len(m.Puts) == 0 && len(m.Deletes) == 0 && len(m.WalletDeltas) == 0
}

// Size returns the number of storage items the mutation touches.
func (m *Mutation) Size() int {
	return len(m.Puts) + len(m.Deletes) + len(m.WalletDeltas)
}

// LedgerWriter defines the highly-privileged interface for committing ledger
// mutations. It should only be exposed to the ledger engine.
type LedgerWriter interface {
	// Apply commits the mutation atomically. On failure no partial state is
	// ever visible. Returns ErrNotFound when a wallet condition fails
	// (missing or foreign) and ErrConflict when another writer won a race on
	// one of the touched records, including a ReadUpdatedAt mismatch. Deltas
	// still apply to soft-deleted wallets: reversing a historic effect must
	// work after its wallet is hidden.
	Apply(ctx context.Context, m Mutation) error
}
