package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/paxol/money-tracker/pkg/models"
	"github.com/paxol/money-tracker/pkg/storage"
	"github.com/paxol/money-tracker/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetCategory(t *testing.T) {
	category := &models.Category{Id: "cat-1", OwnerId: "owner-1", Name: "Food", Direction: models.Out, CountsTowardBalance: true}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		categoryAV, _ := attributevalue.MarshalMap(category)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: categoryAV}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		retrieved, err := store.GetCategory(context.Background(), "owner-1", "cat-1")

		assert.NoError(t, err)
		assert.Equal(t, category, retrieved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.GetCategory(context.Background(), "owner-1", "cat-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Foreign category reads as not found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		categoryAV, _ := attributevalue.MarshalMap(category)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: categoryAV}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.GetCategory(context.Background(), "owner-2", "cat-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestCreateCategory(t *testing.T) {
	category := &models.Category{Id: "cat-1", OwnerId: "owner-1", Name: "Food"}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		created, err := store.CreateCategory(context.Background(), category)

		assert.NoError(t, err)
		assert.Equal(t, category, created)
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.CreateCategory(context.Background(), category)

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.CreateCategory(context.Background(), category)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create category in DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListCategories(t *testing.T) {
	categories := []models.Category{
		{Id: "cat-1", OwnerId: "owner-1", Name: "Food"},
		{Id: "cat-2", OwnerId: "owner-1", Name: "Salary"},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		var categoriesAV []map[string]types.AttributeValue
		for _, c := range categories {
			av, err := attributevalue.MarshalMap(c)
			assert.NoError(t, err)
			categoriesAV = append(categoriesAV, av)
		}
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return *input.IndexName == categoryOwnerIndex
		})).Return(&dynamodb.QueryOutput{Items: categoriesAV}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		retrieved, err := store.ListCategories(context.Background(), "owner-1")

		assert.NoError(t, err)
		assert.Equal(t, categories, retrieved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.ListCategories(context.Background(), "owner-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query categories")
		mockClient.AssertExpectations(t)
	})
}
