package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/paxol/money-tracker/pkg/handlers/categories"
	"github.com/paxol/money-tracker/pkg/handlers/transactions"
	"github.com/paxol/money-tracker/pkg/handlers/wallets"
	"github.com/paxol/money-tracker/pkg/ledger"
	custommw "github.com/paxol/money-tracker/pkg/middleware"
	dydbstore "github.com/paxol/money-tracker/pkg/storage/dynamodb"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// AWS Session
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

	apiTokens := os.Getenv("API_TOKENS")
	if apiTokens == "" {
		log.Fatal("API_TOKENS environment variable not set")
	}
	authenticator := custommw.ParseStaticTokens(apiTokens)

	// Create our storage implementation and the ledger engine on top of it.
	store := dydbstore.New(dbClient, transactionsTable, walletsTable, categoriesTable)
	engine := ledger.NewEngine(store)

	// Create our handlers.
	transactionsHandler := transactions.NewTransactionsHandler(engine, store)
	walletsHandler := wallets.NewWalletsHandler(store)
	categoriesHandler := categories.NewCategoriesHandler(store)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Create a new Chi router.
	router := chi.NewRouter()
	router.Use(custommw.NewStructuredLogger(logger))
	router.Use(custommw.RequireOwner(authenticator))

	router.Route("/transactions", transactionsHandler.Routes)
	router.Route("/wallets", walletsHandler.Routes)
	router.Route("/categories", categoriesHandler.Routes)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	// Start the server
	err = http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
