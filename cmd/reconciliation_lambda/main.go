package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/paxol/money-tracker/pkg/scheduler"
	"github.com/paxol/money-tracker/pkg/storage"
	dydbstore "github.com/paxol/money-tracker/pkg/storage/dynamodb"
)

var store storage.TransactionReader
var sqsScheduler scheduler.Scheduler

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	sqsClient := sqs.NewFromConfig(cfg)

	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	sqsScheduler = scheduler.NewSQSScheduler(sqsClient, sqsQueueURL)

	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	walletsTable := os.Getenv("DYNAMODB_WALLETS_TABLE_NAME")
	categoriesTable := os.Getenv("DYNAMODB_CATEGORIES_TABLE_NAME")

	if transactionsTable == "" || walletsTable == "" || categoriesTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store = dydbstore.New(dbClient, transactionsTable, walletsTable, categoriesTable)
}

// HandleRequest is triggered by an EventBridge Schedule. It finds future
// transactions whose date has passed and enqueues each one for
// materialization.
func HandleRequest(ctx context.Context) error {
	log.Println("Scanning for due future transactions...")

	dueTxs, err := store.ListDueFutureTransactions(ctx, time.Now())
	if err != nil {
		log.Printf("ERROR: failed to list due future transactions: %v", err)
		return err
	}

	if len(dueTxs) == 0 {
		log.Println("No due future transactions found.")
		return nil
	}

	log.Printf("Found %d due future transactions. Enqueuing them...", len(dueTxs))

	for _, tx := range dueTxs {
		msg := scheduler.MaterializationMessage{OwnerId: tx.OwnerId, TransactionId: tx.Id}
		if err := sqsScheduler.ScheduleMaterialization(ctx, msg); err != nil {
			log.Printf("ERROR: failed to enqueue transaction %s: %v", tx.Id, err)
			// Continue to the next transaction, don't let one failure stop the whole batch.
			continue
		}
		log.Printf("Successfully enqueued transaction %s", tx.Id)
	}

	log.Println("Reconciliation scan finished.")
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
