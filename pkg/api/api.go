// Package api defines the JSON request and response types exposed over HTTP.
package api

import "time"

// TransactionRequest is the caller-supplied field set for creating or
// replacing a transaction. Kind decides which optional fields are required:
// transfers carry WalletToId, income and expense carry CategoryId. Amount is
// in minor units.
type TransactionRequest struct {
	Amount      int64     `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	CategoryId  *string   `json:"category_id,omitempty"`
	WalletId    string    `json:"wallet_id"`
	WalletToId  *string   `json:"wallet_to_id,omitempty"`
}

// ImportRequest is the body of a bulk import call.
type ImportRequest struct {
	Transactions []TransactionRequest `json:"transactions"`
}

// ImportParseRequest is the body of a paste-parse call: raw tabular text plus
// the defaults to fill into every drafted row.
type ImportParseRequest struct {
	Text                 string `json:"text"`
	DefaultWalletId      string `json:"default_wallet_id"`
	DefaultInCategoryId  string `json:"default_in_category_id"`
	DefaultOutCategoryId string `json:"default_out_category_id"`
	NumberStyle          string `json:"number_style,omitempty"`
}

// ImportRow is one parsed line of a paste: the drafted transaction plus a
// per-field error map. The caller edits the drafts and submits the valid ones
// through the import call.
type ImportRow struct {
	Id          string             `json:"id"`
	SourceIndex int                `json:"source_index"`
	SourceLine  string             `json:"source_line"`
	Draft       TransactionRequest `json:"draft"`
	Errors      map[string]string  `json:"errors,omitempty"`
	Valid       bool               `json:"valid"`
}

// Transaction is the API representation of a stored transaction.
type Transaction struct {
	Id          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	CategoryId  *string   `json:"category_id,omitempty"`
	WalletId    string    `json:"wallet_id"`
	WalletToId  *string   `json:"wallet_to_id,omitempty"`
	IsFuture    bool      `json:"is_future"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewWallet is the body of a wallet creation call. The materialized balance
// starts equal to the initial value.
type NewWallet struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	InitialValue int64  `json:"initial_value"`
}

// Wallet is the API representation of a wallet.
type Wallet struct {
	Id           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	CurrentValue int64     `json:"current_value"`
	InitialValue int64     `json:"initial_value"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCategory is the body of a category creation call.
type NewCategory struct {
	Name                string `json:"name"`
	Direction           string `json:"direction"`
	CountsTowardBalance bool   `json:"counts_toward_balance"`
}

// Category is the API representation of a category.
type Category struct {
	Id                  string `json:"id"`
	Name                string `json:"name"`
	Direction           string `json:"direction"`
	CountsTowardBalance bool   `json:"counts_toward_balance"`
}
