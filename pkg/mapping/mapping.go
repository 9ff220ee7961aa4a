package mapping

import (
	"time"

	"github.com/google/uuid"
	"github.com/paxol/money-tracker/pkg/api"
	"github.com/paxol/money-tracker/pkg/importer"
	"github.com/paxol/money-tracker/pkg/ledger"
	"github.com/paxol/money-tracker/pkg/models"
)

// ToDraft converts an API TransactionRequest to a ledger draft. The draft is
// validated by the engine, not here.
func ToDraft(req *api.TransactionRequest) ledger.Draft {
	draft := ledger.Draft{
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		Kind:        models.TransactionKind(req.Kind),
		WalletId:    req.WalletId,
	}
	if req.CategoryId != nil {
		draft.CategoryId = *req.CategoryId
	}
	if req.WalletToId != nil {
		draft.WalletToId = *req.WalletToId
	}
	return draft
}

// ToApiImportRow converts a parsed import row to its API representation. The
// draft comes back in the same shape the create and import calls accept.
func ToApiImportRow(row *importer.Row) api.ImportRow {
	draft := api.TransactionRequest{
		Amount:      row.Draft.Amount,
		Date:        row.Draft.Date,
		Description: row.Draft.Description,
		Kind:        string(row.Draft.Kind),
		WalletId:    row.Draft.WalletId,
	}
	if row.Draft.CategoryId != "" {
		categoryID := row.Draft.CategoryId
		draft.CategoryId = &categoryID
	}
	if row.Draft.WalletToId != "" {
		walletToID := row.Draft.WalletToId
		draft.WalletToId = &walletToID
	}

	out := api.ImportRow{
		Id:          row.Id,
		SourceIndex: row.SourceIndex,
		SourceLine:  row.SourceLine,
		Draft:       draft,
		Valid:       row.Valid(),
	}
	if len(row.Errors) > 0 {
		out.Errors = row.Errors
	}
	return out
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	out := &api.Transaction{
		Id:          tx.Id,
		Amount:      tx.Amount,
		Date:        tx.Date,
		Description: tx.Description,
		Kind:        string(tx.Kind),
		WalletId:    tx.WalletId,
		IsFuture:    tx.IsFuture,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
	if tx.CategoryId != "" {
		categoryID := tx.CategoryId
		out.CategoryId = &categoryID
	}
	if tx.WalletToId != "" {
		walletToID := tx.WalletToId
		out.WalletToId = &walletToID
	}
	return out
}

// ToDomainNewWallet converts an API NewWallet model to a domain Wallet model.
// The materialized balance starts equal to the initial value; from then on it
// is written only by the ledger engine.
func ToDomainNewWallet(newWallet *api.NewWallet, ownerID string) *models.Wallet {
	return &models.Wallet{
		Id:           uuid.New().String(),
		OwnerId:      ownerID,
		Name:         newWallet.Name,
		Kind:         models.WalletKind(newWallet.Kind),
		CurrentValue: newWallet.InitialValue,
		InitialValue: newWallet.InitialValue,
		CreatedAt:    time.Now(),
	}
}

// ToApiWallet converts a domain Wallet model to an API Wallet model.
func ToApiWallet(wallet *models.Wallet) *api.Wallet {
	return &api.Wallet{
		Id:           wallet.Id,
		Name:         wallet.Name,
		Kind:         string(wallet.Kind),
		CurrentValue: wallet.CurrentValue,
		InitialValue: wallet.InitialValue,
		CreatedAt:    wallet.CreatedAt,
	}
}

// ToDomainNewCategory converts an API NewCategory model to a domain Category model.
func ToDomainNewCategory(newCategory *api.NewCategory, ownerID string) *models.Category {
	return &models.Category{
		Id:                  uuid.New().String(),
		OwnerId:             ownerID,
		Name:                newCategory.Name,
		Direction:           models.CategoryDirection(newCategory.Direction),
		CountsTowardBalance: newCategory.CountsTowardBalance,
	}
}

// ToApiCategory converts a domain Category model to an API Category model.
func ToApiCategory(category *models.Category) *api.Category {
	return &api.Category{
		Id:                  category.Id,
		Name:                category.Name,
		Direction:           string(category.Direction),
		CountsTowardBalance: category.CountsTowardBalance,
	}
}
