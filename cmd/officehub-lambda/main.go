package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dimitrije/officehub/internal/config"
	"github.com/dimitrije/officehub/internal/server"
	"github.com/dimitrije/officehub/internal/sse"
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

	streams := sse.NewHub(cfg.MaxStreamsPerUser)
	go streams.Run()

	router := server.NewRouter(cfg, backend, server.NewServices(cfg, backend), streams)
	lambda.Start(server.LambdaHandler(router))
}
