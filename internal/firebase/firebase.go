// Package firebase bootstraps the Firebase Admin SDK shared by the Firestore
// record store, ID token sign-in and the document bucket.
package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/dimitrije/officehub/internal/config"
	"google.golang.org/api/option"
)

type App struct {
	app    *firebase.App
	bucket string
}

// New initializes the SDK. Without inline credentials it falls back to the
// application default credentials of the environment.
func New(ctx context.Context, cfg config.FirebaseConfig) (*App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}
	return &App{app: app, bucket: cfg.StorageBucket}, nil
}

func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := a.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	client, err := a.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth client: %w", err)
	}
	return client, nil
}

// Bucket returns the default storage bucket and its name.
func (a *App) Bucket(ctx context.Context) (*gcs.BucketHandle, string, error) {
	client, err := a.app.Storage(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("storage client: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, "", fmt.Errorf("default bucket: %w", err)
	}
	return bucket, a.bucket, nil
}
