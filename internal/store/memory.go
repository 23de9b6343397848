package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dimitrije/officehub/internal/hub"
)

var errNoHub = errors.New("store has no change hub")

// MemoryStore keeps records in process. It backs local development
// (STORE_BACKEND=memory) and service tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	hub     *hub.Hub
	now     func() time.Time
}

func NewMemoryStore(h *hub.Hub) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		hub:     h,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, path string) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[path]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) List(ctx context.Context, path string) (Snapshot, error) {
	if err := Validate(path); err != nil {
		return Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Path: path, Records: []Record{}}
	for p, rec := range s.records {
		if Parent(p) == path {
			snap.Records = append(snap.Records, rec)
		}
	}
	sort.Slice(snap.Records, func(i, j int) bool {
		return snap.Records[i].Key < snap.Records[j].Key
	})
	return snap, nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, path string) (*Subscription, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	if s.hub == nil {
		return nil, errNoHub
	}
	return watch(ctx, s.hub, path, s.List), nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, value any) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	fields, err := Fields(value)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	rec := Record{Path: path, Key: Key(path), Data: data, Version: 1, UpdatedAt: s.now()}
	if old, ok := s.records[path]; ok {
		rec.Version = old.Version + 1
	}
	s.records[path] = rec
	s.mu.Unlock()

	publish(s.hub, path)
	return &rec, nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]any, expectedVersion int64) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	fields, err := Fields(fields)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	s.mu.Lock()
	old, ok := s.records[path]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if expectedVersion != 0 && old.Version != expectedVersion {
		s.mu.Unlock()
		return nil, ErrVersionConflict
	}

	merged := map[string]any{}
	if err := json.Unmarshal(old.Data, &merged); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	rec := Record{Path: path, Key: old.Key, Data: data, Version: old.Version + 1, UpdatedAt: s.now()}
	s.records[path] = rec
	s.mu.Unlock()

	publish(s.hub, path)
	return &rec, nil
}

func (s *MemoryStore) Push(ctx context.Context, collection string, value any) (*Record, error) {
	if err := Validate(collection); err != nil {
		return nil, err
	}
	return s.Set(ctx, Join(collection, NewKey()), value)
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	if err := Validate(path); err != nil {
		return err
	}

	s.mu.Lock()
	for p := range s.records {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(s.records, p)
		}
	}
	s.mu.Unlock()

	publish(s.hub, path)
	return nil
}
