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
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/list-logs/main.go <shop> [limit]")
		fmt.Println("Example: go run cmd/list-logs/main.go my-store.myshopify.com 20")
		os.Exit(1)
	}

	shop := os.Args[1]
	limit := 50
	if len(os.Args) > 2 {
		parsed, err := strconv.Atoi(os.Args[2])
		if err != nil || parsed < 1 {
			fmt.Fprintf(os.Stderr, "Invalid limit: %s\n", os.Args[2])
			os.Exit(1)
		}
		limit = parsed
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
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

	logs, err := repos.SplitLog.ListByShop(context.Background(), shop, limit, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list split logs: %v\n", err)
		os.Exit(1)
	}

	if len(logs) == 0 {
		fmt.Printf("No split log entries for %s\n", shop)
		return
	}

	for _, row := range logs {
		orderName := "-"
		if row.OriginalOrderID != nil {
			orderName = *row.OriginalOrderID
		}
		splitIDs := "-"
		if row.SplitOrderIDs != nil && *row.SplitOrderIDs != "" {
			splitIDs = *row.SplitOrderIDs
		}
		fmt.Printf("%s  order=%s retained=%v splits=%s\n    %s\n",
			row.CreatedAt.Format("2006-01-02 15:04:05"),
			orderName, row.Retained, splitIDs, row.Message)
	}
}
