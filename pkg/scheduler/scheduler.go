package scheduler

import (
	"context"
)

// MaterializationMessage identifies a due future transaction that should have
// its effects applied.
type MaterializationMessage struct {
	OwnerId       string `json:"owner_id"`
	TransactionId string `json:"transaction_id"`
}

// Scheduler defines the interface for a component that enqueues due future
// transactions for materialization.
type Scheduler interface {
	// ScheduleMaterialization enqueues a transaction for asynchronous
	// materialization.
	ScheduleMaterialization(ctx context.Context, msg MaterializationMessage) error
}
