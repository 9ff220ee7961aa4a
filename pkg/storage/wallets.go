package storage

import (
	"context"

	"github.com/paxol/money-tracker/pkg/models"
)

// WalletStore defines the interface for managing wallets. The materialized
// balance is never written through this interface; it changes only via
// LedgerWriter deltas.
type WalletStore interface {
	// GetWallet retrieves a wallet by its ID, scoped to the owner.
	GetWallet(ctx context.Context, ownerID, walletID string) (*models.Wallet, error)

	// CreateWallet creates a new wallet. The caller is expected to have set
	// CurrentValue equal to InitialValue.
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)

	// SoftDeleteWallet marks a wallet as deleted. Wallets are never removed
	// physically once they have transactions.
	SoftDeleteWallet(ctx context.Context, ownerID, walletID string) error

	// ListWallets retrieves all non-deleted wallets for an owner.
	ListWallets(ctx context.Context, ownerID string) ([]models.Wallet, error)
}
