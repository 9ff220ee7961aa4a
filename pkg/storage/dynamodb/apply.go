package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/paxol/money-tracker/pkg/storage"
)

// itemRole records what each transact-write item is, in order, so a
// cancellation reason can be mapped back to the right sentinel error.
type itemRole int

const (
	roleTxCreate itemRole = iota
	roleTxReplace
	roleTxDelete
	roleWalletDelta
)

// Apply commits the mutation as a single TransactWriteItems call. Wallet
// balance changes are expressed as ADD increments, never read-modify-write,
// so concurrent commits against the same wallet compose; condition
// expressions guard existence and ownership of every touched row.
func (s *Store) Apply(ctx context.Context, m storage.Mutation) error {
	if m.Empty() {
		return nil
	}
	if m.Size() > storage.MaxMutationSize {
		return fmt.Errorf("mutation of %d items exceeds the transact-write limit", m.Size())
	}

	items := make([]types.TransactWriteItem, 0, m.Size())
	roles := make([]itemRole, 0, m.Size())

	for _, put := range m.Puts {
		txAV, err := attributevalue.MarshalMap(put.Transaction)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction: %w", err)
		}

		item := types.Put{
			TableName: aws.String(s.TransactionsTableName),
			Item:      txAV,
		}
		role := roleTxCreate

		switch {
		case put.RequireFuture:
			item.ConditionExpression = aws.String("attribute_exists(id) AND owner_id = :owner AND is_future = :true")
			item.ExpressionAttributeValues = map[string]types.AttributeValue{
				":owner": &types.AttributeValueMemberS{Value: put.Transaction.OwnerId},
				":true":  &types.AttributeValueMemberBOOL{Value: true},
			}
			role = roleTxReplace
		case put.Replace:
			item.ConditionExpression = aws.String("attribute_exists(id) AND owner_id = :owner")
			item.ExpressionAttributeValues = map[string]types.AttributeValue{
				":owner": &types.AttributeValueMemberS{Value: put.Transaction.OwnerId},
			}
			role = roleTxReplace
		default:
			item.ConditionExpression = aws.String("attribute_not_exists(id)")
		}

		// The caller's reversal deltas were derived from the row it read; the
		// commit must fail if another writer replaced that row since.
		if role == roleTxReplace && !put.ReadUpdatedAt.IsZero() {
			readAt, err := attributevalue.Marshal(put.ReadUpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to marshal read timestamp: %w", err)
			}
			item.ConditionExpression = aws.String(*item.ConditionExpression + " AND updated_at = :read_at")
			item.ExpressionAttributeValues[":read_at"] = readAt
		}

		items = append(items, types.TransactWriteItem{Put: &item})
		roles = append(roles, role)
	}

	for _, del := range m.Deletes {
		item := types.Delete{
			TableName: aws.String(s.TransactionsTableName),
			Key: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: del.TxId},
			},
			ConditionExpression: aws.String("attribute_exists(id) AND owner_id = :owner"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":owner": &types.AttributeValueMemberS{Value: del.OwnerId},
			},
		}
		if !del.ReadUpdatedAt.IsZero() {
			readAt, err := attributevalue.Marshal(del.ReadUpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to marshal read timestamp: %w", err)
			}
			item.ConditionExpression = aws.String(*item.ConditionExpression + " AND updated_at = :read_at")
			item.ExpressionAttributeValues[":read_at"] = readAt
		}

		items = append(items, types.TransactWriteItem{Delete: &item})
		roles = append(roles, roleTxDelete)
	}

	for _, delta := range m.WalletDeltas {
		deltaAV, err := attributevalue.Marshal(delta.Delta)
		if err != nil {
			return fmt.Errorf("failed to marshal wallet delta: %w", err)
		}

		// No deleted-check here: reversing a historic effect must still work
		// on a soft-deleted wallet.
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.WalletsTableName),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: delta.WalletId},
				},
				UpdateExpression:    aws.String("ADD current_value :delta"),
				ConditionExpression: aws.String("attribute_exists(id) AND owner_id = :owner"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":delta": deltaAV,
					":owner": &types.AttributeValueMemberS{Value: delta.OwnerId},
				},
			},
		})
		roles = append(roles, roleWalletDelta)
	}

	input := &dynamodb.TransactWriteItemsInput{TransactItems: items}

	_, err := s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return s.cancellationError(tce, roles)
		}
		return fmt.Errorf("failed to execute ledger commit: %w", err)
	}

	return nil
}

// cancellationError maps the per-item cancellation reasons of a failed
// transact-write to a sentinel: a failed wallet condition means the wallet is
// missing or foreign, any other failed condition or a transaction conflict
// means a concurrent writer won the race.
func (s *Store) cancellationError(tce *types.TransactionCanceledException, roles []itemRole) error {
	for i, reason := range tce.CancellationReasons {
		if reason.Code == nil {
			continue
		}
		switch *reason.Code {
		case "ConditionalCheckFailed":
			if i < len(roles) && roles[i] == roleWalletDelta {
				return fmt.Errorf("wallet condition failed: %w", storage.ErrNotFound)
			}
			return fmt.Errorf("transaction row condition failed: %w", storage.ErrConflict)
		case "TransactionConflict":
			return fmt.Errorf("transact-write conflict: %w", storage.ErrConflict)
		}
	}
	return fmt.Errorf("ledger commit cancelled: %w", tce)
}
