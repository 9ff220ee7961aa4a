package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/paxol/money-tracker/pkg/ledger"
	"github.com/paxol/money-tracker/pkg/scheduler"
	dydbstore "github.com/paxol/money-tracker/pkg/storage/dynamodb"
)

var engine *ledger.Engine

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	walletsTable := os.Getenv("DYNAMODB_WALLETS_TABLE_NAME")
	categoriesTable := os.Getenv("DYNAMODB_CATEGORIES_TABLE_NAME")

	if transactionsTable == "" || walletsTable == "" || categoriesTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store := dydbstore.New(dbClient, transactionsTable, walletsTable, categoriesTable)
	engine = ledger.NewEngine(store)
}

// HandleRequest processes SQS messages and materializes the due transactions.
// Materialization is conditional on the stored future flag, so re-delivered
// messages are harmless.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var msg scheduler.MaterializationMessage
		if err := json.Unmarshal([]byte(message.Body), &msg); err != nil {
			log.Printf("ERROR: failed to unmarshal message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		log.Printf("Attempting to materialize transaction %s", msg.TransactionId)

		if err := engine.Materialize(ctx, msg.OwnerId, msg.TransactionId); err != nil {
			log.Printf("ERROR: failed to materialize transaction %s: %v", msg.TransactionId, err)
			// In a production system, persistent failures would be sent to a DLQ.
			return err
		}

		log.Printf("Successfully materialized transaction %s", msg.TransactionId)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
