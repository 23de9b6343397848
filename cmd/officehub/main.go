package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/officehub/internal/config"
	"github.com/dimitrije/officehub/internal/server"
	"github.com/dimitrije/officehub/internal/sse"
)

func main() {
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

	svc := server.NewServices(cfg, backend)

	streams := sse.NewHub(cfg.MaxStreamsPerUser)
	go streams.Run()

	if !svc.Email.IsConfigured() {
		log.Println("SendGrid is not configured, email notifications are disabled")
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			removed, err := svc.Tokens.CleanupExpired(context.Background())
			if err != nil {
				log.Printf("Failed to clean up refresh tokens: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Removed %d expired refresh tokens", removed)
			}
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: server.NewRouter(cfg, backend, svc, streams),
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
