package server

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dimitrije/officehub/internal/blob"
	"github.com/dimitrije/officehub/internal/config"
	"github.com/dimitrije/officehub/internal/database"
	"github.com/dimitrije/officehub/internal/firebase"
	"github.com/dimitrije/officehub/internal/hub"
	"github.com/dimitrije/officehub/internal/oauth"
	"github.com/dimitrije/officehub/internal/store"
)

// Backend is the storage and identity infrastructure the API runs on.
type Backend struct {
	Store     store.Store
	Blobs     blob.Store
	Verifiers map[string]oauth.Verifier

	closers []func()
}

// Close releases the connections opened by Open, newest first.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func (b *Backend) onClose(fn func()) {
	b.closers = append(b.closers, fn)
}

// Open connects the record store selected by cfg.StoreBackend, the document
// blob store and the configured ID token verifiers. Firebase is initialized
// when the Firestore backend is selected or a Firebase project is configured.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Verifiers: make(map[string]oauth.Verifier)}

	changes := hub.NewHub()
	go changes.Run()

	var fb *firebase.App
	if cfg.StoreBackend == config.BackendFirestore || cfg.Firebase.ProjectID != "" {
		app, err := firebase.New(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		fb = app
	}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		b.onClose(db.Close)
		if err := db.Migrate(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		b.Store = store.NewPostgresStore(db, changes)

	case config.BackendFirestore:
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		b.onClose(func() { _ = client.Close() })
		b.Store = store.NewFirestoreStore(client)

	case config.BackendMongo:
		db, err := database.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		b.onClose(func() { _ = db.Close(context.Background()) })
		s, err := store.NewMongoStore(ctx, db, changes)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Store = s

	case config.BackendMemory:
		log.Println("Using in-memory store, data is lost on restart")
		b.Store = store.NewMemoryStore(changes)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if fb != nil && cfg.Firebase.StorageBucket != "" {
		bucket, name, err := fb.Bucket(ctx)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Blobs = blob.NewGCSStore(bucket, name)
	} else {
		b.Blobs = blob.NewMemoryStore(strings.TrimSuffix(cfg.BaseURL, "/") + "/files")
	}

	if fb != nil {
		client, err := fb.Auth(ctx)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Verifiers["firebase"] = oauth.NewFirebaseVerifier(client)
	}
	if cfg.Google.ClientID != "" {
		b.Verifiers["google"] = oauth.NewGoogleIDTokenVerifier(cfg.Google.ClientID)
	}

	log.Printf("Record store: %s", cfg.StoreBackend)
	return b, nil
}
