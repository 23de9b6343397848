package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dimitrije/officehub/internal/config"
	"github.com/dimitrije/officehub/internal/server"
	"github.com/dimitrije/officehub/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	backend, err := server.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	tokens := services.NewTokenService(backend.Store)

	lambda.Start(func(ctx context.Context, event events.CloudWatchEvent) error {
		log.Printf("Scheduled cleanup triggered by event %s", event.ID)

		removed, err := tokens.CleanupExpired(ctx)
		if err != nil {
			log.Printf("Scheduled cleanup failed: %v", err)
			return err
		}

		log.Printf("Scheduled cleanup removed %d expired refresh tokens", removed)
		return nil
	})
}
