package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/config"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/add-mapping/main.go <shop> <location-code> <location-gid>")
		fmt.Println("Example: go run cmd/add-mapping/main.go my-store.myshopify.com \"NY\" gid://shopify/Location/123456789")
		os.Exit(1)
	}

	shop := os.Args[1]
	locationCode := os.Args[2]
	locationGID := os.Args[3]

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	mapping := &domain.LocationMapping{
		ID:           uuid.New(),
		Shop:         shop,
		LocationCode: locationCode,
		LocationGID:  locationGID,
	}

	err = repos.LocationMapping.Create(context.Background(), mapping)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create location mapping: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Location mapping created successfully!\n\n")
	fmt.Printf("Shop: %s\n", mapping.Shop)
	fmt.Printf("Location code: %s\n", mapping.LocationCode)
	fmt.Printf("Location GID: %s\n", mapping.LocationGID)
}
