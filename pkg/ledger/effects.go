package ledger

import (
	"fmt"

	"github.com/paxol/money-tracker/pkg/models"
)

// Effect is a signed balance delta produced by a transaction against one wallet.
type Effect struct {
	WalletId string
	Delta    int64
}

// EffectsOf maps a transaction to the balance deltas it applies: one positive
// delta for income, one negative for expense, and a matched negative/positive
// pair for a transfer. Future transactions produce no effects.
//
// A transfer without a destination or an income/expense without a category is
// an invariant violation; drafts are validated before a transaction is ever
// constructed, so hitting one of these here is a programming error.
func EffectsOf(tx *models.Transaction) ([]Effect, error) {
	if tx.IsFuture {
		return nil, nil
	}

	switch tx.Kind {
	case models.Income:
		if tx.CategoryId == "" {
			return nil, fmt.Errorf("income transaction %s has no category", tx.Id)
		}
		return []Effect{{WalletId: tx.WalletId, Delta: tx.Amount}}, nil
	case models.Expense:
		if tx.CategoryId == "" {
			return nil, fmt.Errorf("expense transaction %s has no category", tx.Id)
		}
		return []Effect{{WalletId: tx.WalletId, Delta: -tx.Amount}}, nil
	case models.Transfer:
		if tx.WalletToId == "" {
			return nil, fmt.Errorf("transfer transaction %s has no destination wallet", tx.Id)
		}
		return []Effect{
			{WalletId: tx.WalletId, Delta: -tx.Amount},
			{WalletId: tx.WalletToId, Delta: tx.Amount},
		}, nil
	default:
		return nil, fmt.Errorf("unknown transaction kind %q", tx.Kind)
	}
}

// Negated returns the reversal of the given effects, used when a transaction
// is deleted or replaced.
func Negated(effects []Effect) []Effect {
	out := make([]Effect, len(effects))
	for i, e := range effects {
		out[i] = Effect{WalletId: e.WalletId, Delta: -e.Delta}
	}
	return out
}

// NetEffects merges effect lists into at most one delta per wallet, dropping
// wallets whose deltas cancel out. One atomic commit may touch a wallet from
// both the old and the new version of a transaction, and the storage layer
// accepts only a single write per wallet per commit.
//
// Order is first-seen, so commits are deterministic.
func NetEffects(lists ...[]Effect) []Effect {
	totals := make(map[string]int64)
	var order []string

	for _, effects := range lists {
		for _, e := range effects {
			if _, seen := totals[e.WalletId]; !seen {
				order = append(order, e.WalletId)
			}
			totals[e.WalletId] += e.Delta
		}
	}

	var out []Effect
	for _, id := range order {
		if totals[id] != 0 {
			out = append(out, Effect{WalletId: id, Delta: totals[id]})
		}
	}
	return out
}
