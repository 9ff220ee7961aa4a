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

const categoryOwnerIndex = "owner_id-index"

// GetCategory retrieves a category from DynamoDB by its ID, scoped to the owner.
func (s *Store) GetCategory(ctx context.Context, ownerID, categoryID string) (*models.Category, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": categoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal category ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.CategoriesTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get category from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var category models.Category
	if err := attributevalue.UnmarshalMap(result.Item, &category); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category: %w", err)
	}

	if category.OwnerId != ownerID {
		return nil, storage.ErrNotFound
	}

	return &category, nil
}

// CreateCategory creates a new category record in DynamoDB.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	categoryAV, err := attributevalue.MarshalMap(category)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal category: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.CategoriesTableName),
		Item:                categoryAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("category %s: %w", category.Id, storage.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create category in DynamoDB: %w", err)
	}

	return category, nil
}

// ListCategories retrieves all categories for an owner.
func (s *Store) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.CategoriesTableName),
		IndexName:              aws.String(categoryOwnerIndex),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	var categories []models.Category
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	return categories, nil
}
