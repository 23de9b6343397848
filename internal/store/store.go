package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrVersionConflict  = errors.New("version conflict: record has been modified")
	ErrInvalidPath      = errors.New("invalid record path")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// Record is one node of the hierarchical store. Data is the JSON object stored
// at Path; Key is the last path segment.
type Record struct {
	Path      string          `json:"path"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Snapshot is the full content of a collection at one point in time.
type Snapshot struct {
	Path    string   `json:"path"`
	Records []Record `json:"records"`
}

// Store is a hierarchical key-value store addressed by slash separated paths.
type Store interface {
	Get(ctx context.Context, path string) (*Record, error)
	List(ctx context.Context, path string) (Snapshot, error)
	Subscribe(ctx context.Context, path string) (*Subscription, error)
	Set(ctx context.Context, path string, value any) (*Record, error)
	// Update merges fields into the record at path. A non-zero expectedVersion
	// makes the write conditional on the stored version.
	Update(ctx context.Context, path string, fields map[string]any, expectedVersion int64) (*Record, error)
	Push(ctx context.Context, collection string, value any) (*Record, error)
	Delete(ctx context.Context, path string) error
}

// Subscription delivers a full snapshot of the watched collection on C, first
// the current state and then one per change. C is closed when the subscription
// ends; Err reports why.
type Subscription struct {
	C <-chan Snapshot

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
	err    error
}

func newSubscription(ctx context.Context, run func(ctx context.Context, out chan<- Snapshot) error) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Snapshot, 1)
	sub := &Subscription{
		C:      out,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(out)
		err := run(ctx, out)
		if err != nil && !errors.Is(err, context.Canceled) {
			sub.mu.Lock()
			sub.err = err
			sub.mu.Unlock()
		}
	}()

	return sub
}

// Close stops the subscription and waits for its goroutine to exit.
func (s *Subscription) Close() {
	s.cancel()
	for range s.C {
	}
	<-s.done
}

func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

func Parent(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

func Key(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

func Validate(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return nil
}

// NewKey returns a child key that sorts after every key generated before it.
func NewKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Fields converts a value into the JSON field map stored at a path, so every
// backend stores the same shapes. id and version are record metadata and never
// stored in the data itself.
func Fields(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("record must be an object: %w", err)
	}
	delete(m, "id")
	delete(m, "version")
	return m, nil
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer("officehub/store").Start(ctx, name)
}
