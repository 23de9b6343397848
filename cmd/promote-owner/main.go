package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/officehub/internal/config"
	"github.com/dimitrije/officehub/internal/server"
	"github.com/dimitrije/officehub/internal/services"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: promote-owner <email>")
		os.Exit(1)
	}

	email := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	backend, err := server.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	user, err := services.NewUserService(backend.Store, cfg.OwnerEmails).Promote(ctx, email)
	if errors.Is(err, services.ErrUserNotFound) {
		log.Fatalf("No user found with email: %s", email)
	}
	if err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	fmt.Printf("Successfully promoted %s (%s) to owner\n", user.Email, user.UID)
}
