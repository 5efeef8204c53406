package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/config"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/repository/postgres"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/shopify"
)

// Debug tool: fetches an order the way the splitter sees it and prints the
// classification-relevant fields (tags, financial status, per-line pre-sale
// flags and location codes).
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run cmd/get-order/main.go <shop> <order-id>")
		fmt.Println("Example: go run cmd/get-order/main.go my-store.myshopify.com 5678901234")
		os.Exit(1)
	}

	shop := os.Args[1]
	orderID := os.Args[2]

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

	shopRow, err := repos.Shop.GetByDomain(context.Background(), shop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load shop: %v\n", err)
		os.Exit(1)
	}

	client := shopify.NewClient(cfg.Shopify, logger)
	resp, err := client.ExecuteWithRetry(context.Background(), shop, shopRow.AccessToken,
		shopify.GetOrderDetailsQuery, map[string]interface{}{
			"id": "gid://shopify/Order/" + orderID,
		})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch order: %v\n", err)
		os.Exit(1)
	}

	var result struct {
		Order *shopify.Order `json:"order"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse order response: %v\n", err)
		os.Exit(1)
	}
	if result.Order == nil {
		fmt.Fprintf(os.Stderr, "Order %s not found on %s\n", orderID, shop)
		os.Exit(1)
	}

	order := result.Order
	fmt.Printf("Order: %s (%s)\n", order.Name, order.ID)
	fmt.Printf("Financial status: %s\n", order.DisplayFinancialStatus)
	fmt.Printf("Tags: %v\n", order.Tags)
	fmt.Printf("Has split_id metafield: %v\n", order.HasMetafield("custom", "split_id"))
	fmt.Println("Line items:")
	for _, li := range order.LineItems.Nodes {
		code := li.LocationCode()
		if code == "" {
			code = "DEFAULT"
		}
		fmt.Printf("  %s qty=%d presale=%v locationCode=%s\n", li.ID, li.Quantity, li.Presale(), code)
	}
}
