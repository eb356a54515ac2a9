package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/repository/postgres"
	"github.com/jafarshop/storefront/pkg/errors"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-order/main.go <order-id>")
		fmt.Println("Example: go run cmd/find-order/main.go 3f1c2a8e-5b7d-4c1e-9f0a-2d6b8e4c7a91")
		os.Exit(1)
	}

	orderID := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	ctx := context.Background()

	fmt.Printf("Looking up order: %s\n\n", orderID)

	order, err := repos.Order.GetByID(ctx, orderID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			fmt.Printf("Order %s not found\n", orderID)
			fmt.Println("Guest orders (GUEST-...) are never stored.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Failed to load order: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Status:   %s\n", order.Status)
	fmt.Printf("Customer: %s <%s>\n", order.CustomerName, order.CustomerEmail)
	fmt.Printf("Ship to:  %s, %s %s, %s\n", order.ShippingAddress.Street, order.ShippingAddress.City,
		order.ShippingAddress.PostalCode, order.ShippingAddress.Country)
	fmt.Printf("Shipping: %s\n", order.ShippingMethod)
	fmt.Printf("Payment:  %s (ref %s)\n", order.PaymentSummary, order.PaymentRef)
	fmt.Printf("Placed:   %s\n\n", order.CreatedAt.Format("2006-01-02 15:04:05"))

	for _, item := range order.Items {
		fmt.Printf("  %d x %s @ %s\n", item.Quantity, item.Name, item.Price.StringFixed(2))
	}
	fmt.Printf("\nSubtotal: %s\n", order.Totals.Subtotal.StringFixed(2))
	fmt.Printf("Shipping: %s\n", order.Totals.Shipping.StringFixed(2))
	fmt.Printf("Tax:      %s\n", order.Totals.Tax.StringFixed(2))
	fmt.Printf("Total:    %s\n", order.Totals.Total.StringFixed(2))

	events, err := repos.OrderEvent.ListByOrderID(ctx, orderID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load order events: %v\n", err)
		os.Exit(1)
	}
	if len(events) > 0 {
		fmt.Printf("\nEvents:\n")
		for _, e := range events {
			data, _ := json.Marshal(e.EventData)
			fmt.Printf("  %s  %s  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.EventType, data)
		}
	}
}
