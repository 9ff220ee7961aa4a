package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/paxol/money-tracker/pkg/models"
)

// Draft is the caller-supplied field set for creating or replacing a
// transaction. The kind acts as a tagged union: transfers carry a destination
// wallet, income and expense carry a category.
type Draft struct {
	Amount      int64
	Date        time.Time
	Description string
	Kind        models.TransactionKind
	CategoryId  string
	WalletId    string
	WalletToId  string
}

// Validate enforces the draft shape before any transaction is constructed.
// All failures wrap ErrInvalidArgument.
func (d *Draft) Validate() error {
	if d.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(d.WalletId) == "" {
		return fmt.Errorf("%w: wallet is required", ErrInvalidArgument)
	}

	switch d.Kind {
	case models.Income, models.Expense:
		if strings.TrimSpace(d.CategoryId) == "" {
			return fmt.Errorf("%w: category is required for %s", ErrInvalidArgument, d.Kind)
		}
		if d.WalletToId != "" {
			return fmt.Errorf("%w: destination wallet is only valid for transfers", ErrInvalidArgument)
		}
	case models.Transfer:
		if strings.TrimSpace(d.WalletToId) == "" {
			return fmt.Errorf("%w: destination wallet is required for transfers", ErrInvalidArgument)
		}
		if d.WalletToId == d.WalletId {
			return fmt.Errorf("%w: source and destination wallets must differ", ErrInvalidArgument)
		}
		if d.CategoryId != "" {
			return fmt.Errorf("%w: category is not valid for transfers", ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidArgument, d.Kind)
	}

	return nil
}

// transaction builds the stored record for this draft. The future flag is
// fixed here, at write time, by comparing the draft date to the clock.
func (d *Draft) transaction(id, ownerID string, now time.Time) *models.Transaction {
	tx := &models.Transaction{
		Id:          id,
		OwnerId:     ownerID,
		Amount:      d.Amount,
		Date:        d.Date,
		Description: d.Description,
		Kind:        d.Kind,
		CategoryId:  d.CategoryId,
		WalletId:    d.WalletId,
		WalletToId:  d.WalletToId,
		IsFuture:    d.Date.After(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if tx.IsFuture {
		tx.FuturePK = models.FuturePartitionKey
	}
	return tx
}
