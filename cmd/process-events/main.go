package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/config"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/repository/postgres"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/service"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/shopify"
)

// One-shot queue drain for operators: processes a single batch of queued
// webhook events and exits. The server runs the same logic on a poll loop.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	batchSize := cfg.Processor.BatchSize
	if len(os.Args) > 1 {
		parsed, err := strconv.Atoi(os.Args[1])
		if err != nil || parsed < 1 {
			fmt.Fprintf(os.Stderr, "Invalid batch size: %s\n", os.Args[1])
			os.Exit(1)
		}
		batchSize = parsed
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	gql := shopify.NewClient(cfg.Shopify, logger)
	splitSvc := service.NewSplitService(gql, repos, logger)

	splitSvc.ProcessPendingEvents(context.Background(), batchSize)
	fmt.Println("Done.")
}
