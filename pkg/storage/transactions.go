package storage

import (
	"context"
	"time"

	"github.com/paxol/money-tracker/pkg/models"
)

// TransactionReader defines the interface for reading transaction data.
// All reads are scoped by owner.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, ownerID, txID string) (*models.Transaction, error)

	// ListTransactionsRange retrieves all transactions for an owner whose
	// date falls within [from, to], most recent first.
	ListTransactionsRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Transaction, error)

	// ListDueFutureTransactions retrieves transactions still flagged future
	// whose date is not after the cutoff. Used by the reconciliation job;
	// results span all owners.
	ListDueFutureTransactions(ctx context.Context, cutoff time.Time) ([]models.Transaction, error)
}

// TransactionStore is the full transaction surface. Writes go through the
// LedgerWriter so that balance updates and row changes commit together.
type TransactionStore interface {
	TransactionReader
}
