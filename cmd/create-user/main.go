package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/create-user/main.go <email> [--admin]")
		fmt.Println("Example: go run cmd/create-user/main.go \"jane@example.com\"")
		os.Exit(1)
	}

	email := os.Args[1]
	isAdmin := len(os.Args) > 2 && os.Args[2] == "--admin"

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

	if err := postgres.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	// Generate the API token
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}
	token := "sf_" + hex.EncodeToString(raw)

	tokenHash, err := bcrypt.GenerateFromPassword([]byte(token), cfg.Auth.TokenCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash API token: %v\n", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db, logger)

	user := &domain.User{
		Email:       email,
		TokenLookup: postgres.TokenLookup(token),
		TokenHash:   string(tokenHash),
		IsAdmin:     isAdmin,
		IsActive:    true,
	}

	if err := repos.User.Create(context.Background(), user); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created\n\n")
	fmt.Printf("User ID: %s\n", user.ID.String())
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Admin: %t\n", user.IsAdmin)
	fmt.Printf("API Token: %s\n", token)
	fmt.Printf("\nSave this token now. Only its hash is stored.\n")
	fmt.Printf("\nUse it in the Authorization header:\n")
	fmt.Printf("Authorization: Bearer %s\n", token)
}
