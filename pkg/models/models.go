package models

import (
	"time"
)

// TransactionKind defines the possible kinds of a transaction.
type TransactionKind string

const (
	Income   TransactionKind = "income"
	Expense  TransactionKind = "expense"
	Transfer TransactionKind = "transfer"
)

// WalletKind defines the possible kinds of a wallet.
type WalletKind string

const (
	Cash       WalletKind = "cash"
	Investment WalletKind = "investment"
)

// CategoryDirection marks a category as an inflow or outflow bucket.
type CategoryDirection string

const (
	In  CategoryDirection = "in"
	Out CategoryDirection = "out"
)

// FuturePartitionKey is the sparse GSI partition value set on transactions
// that are still flagged future, so the reconciler can query them by due date.
const FuturePartitionKey = "FUTURE"

// Transaction represents the internal domain model for a transaction.
// Amount is stored in minor units (cents) and is always positive; the kind
// decides the sign of the balance effect.
type Transaction struct {
	Id          string          `dynamodbav:"id"`
	OwnerId     string          `dynamodbav:"owner_id"`
	Amount      int64           `dynamodbav:"amount"`
	Date        time.Time       `dynamodbav:"date"`
	Description string          `dynamodbav:"description"`
	Kind        TransactionKind `dynamodbav:"kind"`
	CategoryId  string          `dynamodbav:"category_id,omitempty"`
	WalletId    string          `dynamodbav:"wallet_id"`
	WalletToId  string          `dynamodbav:"wallet_to_id,omitempty"`
	IsFuture    bool            `dynamodbav:"is_future"`
	// FuturePK mirrors IsFuture for the sparse due-date index. Empty on
	// non-future rows so they never appear in the index.
	FuturePK  string    `dynamodbav:"future_pk,omitempty"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// Wallet represents the internal domain model for a user's wallet.
// CurrentValue is the materialized balance in minor units; it is written only
// by the ledger engine after creation.
type Wallet struct {
	Id           string     `json:"id" dynamodbav:"id"`
	OwnerId      string     `json:"owner_id" dynamodbav:"owner_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Kind         WalletKind `json:"kind" dynamodbav:"kind"`
	CurrentValue int64      `json:"current_value" dynamodbav:"current_value"`
	InitialValue int64      `json:"initial_value" dynamodbav:"initial_value"`
	Deleted      bool       `json:"deleted" dynamodbav:"deleted"`
	CreatedAt    time.Time  `json:"created_at" dynamodbav:"created_at"`
}

// Category labels income and expense transactions. The engine only checks
// existence and ownership; CountsTowardBalance is consumed by reporting.
type Category struct {
	Id                  string            `json:"id" dynamodbav:"id"`
	OwnerId             string            `json:"owner_id" dynamodbav:"owner_id"`
	Name                string            `json:"name" dynamodbav:"name"`
	Direction           CategoryDirection `json:"direction" dynamodbav:"direction"`
	CountsTowardBalance bool              `json:"counts_toward_balance" dynamodbav:"counts_toward_balance"`
}
