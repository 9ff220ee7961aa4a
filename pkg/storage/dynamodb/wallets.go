package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/paxol/money-tracker/pkg/models"
	"github.com/paxol/money-tracker/pkg/storage"
)

const walletOwnerIndex = "owner_id-index"

// GetWallet retrieves a wallet from DynamoDB by its ID, scoped to the owner.
func (s *Store) GetWallet(ctx context.Context, ownerID, walletID string) (*models.Wallet, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": walletID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.WalletsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	// A foreign wallet is reported exactly like a missing one.
	if wallet.OwnerId != ownerID {
		return nil, storage.ErrNotFound
	}

	return &wallet, nil
}

// CreateWallet creates a new wallet record in DynamoDB.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	walletAV, err := attributevalue.MarshalMap(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.WalletsTableName),
		Item:                walletAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"), // Prevent overwriting existing wallets.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("wallet %s: %w", wallet.Id, storage.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create wallet in DynamoDB: %w", err)
	}

	return wallet, nil
}

// SoftDeleteWallet marks a wallet as deleted. The row and its materialized
// balance stay in place so historic transactions remain reversible.
func (s *Store) SoftDeleteWallet(ctx context.Context, ownerID, walletID string) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.WalletsTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: walletID},
		},
		UpdateExpression:    aws.String("SET deleted = :true"),
		ConditionExpression: aws.String("attribute_exists(id) AND owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":  &types.AttributeValueMemberBOOL{Value: true},
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("wallet %s: %w", walletID, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to soft-delete wallet in DynamoDB: %w", err)
	}

	return nil
}

// ListWallets retrieves all non-deleted wallets for an owner.
func (s *Store) ListWallets(ctx context.Context, ownerID string) ([]models.Wallet, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.WalletsTableName),
		IndexName:              aws.String(walletOwnerIndex),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		FilterExpression:       aws.String("deleted = :false"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}

	var wallets []models.Wallet
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &wallets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
	}

	return wallets, nil
}
