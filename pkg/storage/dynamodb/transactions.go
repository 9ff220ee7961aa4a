package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/paxol/money-tracker/pkg/models"
	"github.com/paxol/money-tracker/pkg/storage"
)

const (
	ownerDateIndex  = "owner_id-date-index"
	futureDateIndex = "future_pk-date-index"
)

// GetTransaction retrieves a transaction from DynamoDB by its ID, scoped to
// the owner.
func (s *Store) GetTransaction(ctx context.Context, ownerID, txID string) (*models.Transaction, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": txID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	if tx.OwnerId != ownerID {
		return nil, storage.ErrNotFound
	}

	return &tx, nil
}

// ListTransactionsRange retrieves all transactions for an owner within the
// inclusive date range, most recent first.
func (s *Store) ListTransactionsRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Transaction, error) {
	fromStr, err := from.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal range start: %w", err)
	}
	toStr, err := to.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal range end: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(ownerDateIndex),
		KeyConditionExpression: aws.String("owner_id = :owner AND #date BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#date": "date",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
			":from":  &types.AttributeValueMemberS{Value: string(fromStr)},
			":to":    &types.AttributeValueMemberS{Value: string(toStr)},
		},
		ScanIndexForward: aws.Bool(false), // Sort by date in descending order
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	return transactions, nil
}

// ListDueFutureTransactions retrieves transactions still flagged future whose
// date is not after the cutoff. The sparse future_pk index only contains
// future rows, so the query stays small regardless of table size.
func (s *Store) ListDueFutureTransactions(ctx context.Context, cutoff time.Time) ([]models.Transaction, error) {
	cutoffStr, err := cutoff.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(futureDateIndex),
		KeyConditionExpression: aws.String("future_pk = :pk AND #date <= :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#date": "date",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: models.FuturePartitionKey},
			":cutoff": &types.AttributeValueMemberS{Value: string(cutoffStr)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query due future transactions: %w", err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal due future transactions: %w", err)
	}

	return transactions, nil
}
