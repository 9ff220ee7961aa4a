package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/paxol/money-tracker/pkg/models"
	"github.com/paxol/money-tracker/pkg/storage"
	"github.com/paxol/money-tracker/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetTransaction(t *testing.T) {
	tx := &models.Transaction{
		Id: "tx-1", OwnerId: "owner-1", Amount: 300,
		Kind: models.Expense, CategoryId: "cat-1", WalletId: "wallet-a",
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		txAV, _ := attributevalue.MarshalMap(tx)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: txAV}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		retrieved, err := store.GetTransaction(context.Background(), "owner-1", "tx-1")

		assert.NoError(t, err)
		assert.Equal(t, tx.Id, retrieved.Id)
		assert.Equal(t, tx.Amount, retrieved.Amount)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.GetTransaction(context.Background(), "owner-1", "tx-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Foreign transaction reads as not found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		txAV, _ := attributevalue.MarshalMap(tx)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: txAV}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.GetTransaction(context.Background(), "owner-2", "tx-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.GetTransaction(context.Background(), "owner-1", "tx-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get transaction from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListTransactionsRange(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		txs := []models.Transaction{
			{Id: "tx-2", OwnerId: "owner-1", Date: from.AddDate(0, 0, 10)},
			{Id: "tx-1", OwnerId: "owner-1", Date: from.AddDate(0, 0, 5)},
		}
		var txsAV []map[string]types.AttributeValue
		for _, tx := range txs {
			av, err := attributevalue.MarshalMap(tx)
			assert.NoError(t, err)
			txsAV = append(txsAV, av)
		}

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return *input.IndexName == ownerDateIndex && !*input.ScanIndexForward
		})).Return(&dynamodb.QueryOutput{Items: txsAV}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		retrieved, err := store.ListTransactionsRange(context.Background(), "owner-1", from, to)

		assert.NoError(t, err)
		assert.Len(t, retrieved, 2)
		assert.Equal(t, "tx-2", retrieved[0].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.ListTransactionsRange(context.Background(), "owner-1", from, to)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query transactions")
		mockClient.AssertExpectations(t)
	})
}

func TestListDueFutureTransactions(t *testing.T) {
	cutoff := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Queries the sparse future index", func(t *testing.T) {
		tx := models.Transaction{Id: "tx-1", OwnerId: "owner-1", IsFuture: true, FuturePK: models.FuturePartitionKey}
		txAV, err := attributevalue.MarshalMap(tx)
		assert.NoError(t, err)

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			pk, ok := input.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS)
			return *input.IndexName == futureDateIndex && ok && pk.Value == models.FuturePartitionKey
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{txAV}}, nil)

		store := New(mockClient, "transactions", "wallets", "categories")
		due, err := store.ListDueFutureTransactions(context.Background(), cutoff)

		assert.NoError(t, err)
		assert.Len(t, due, 1)
		assert.Equal(t, "tx-1", due[0].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "transactions", "wallets", "categories")
		_, err := store.ListDueFutureTransactions(context.Background(), cutoff)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query due future transactions")
		mockClient.AssertExpectations(t)
	})
}
