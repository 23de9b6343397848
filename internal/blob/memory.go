package blob

import (
	"context"
	"sync"
)

// MemoryStore keeps blobs in process for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
	baseURL string
	chunk   int
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		baseURL: baseURL,
		chunk:   chunkSize,
	}
}

func (s *MemoryStore) Upload(ctx context.Context, path, contentType string, data []byte) *Upload {
	up := newUpload()
	total := int64(len(data))

	go func() {
		up.report(0, total)
		for sent := 0; sent < len(data); {
			if err := ctx.Err(); err != nil {
				up.finish("", err)
				return
			}
			sent = min(sent+s.chunk, len(data))
			up.report(int64(sent), total)
		}

		buf := make([]byte, len(data))
		copy(buf, data)
		s.mu.Lock()
		s.objects[path] = buf
		s.types[path] = contentType
		s.mu.Unlock()

		up.finish(s.baseURL+"/"+path, nil)
	}()

	return up
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	delete(s.objects, path)
	delete(s.types, path)
	s.mu.Unlock()
	return nil
}

// Object returns a stored blob and its content type.
func (s *MemoryStore) Object(path string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[path]
	return data, s.types[path], ok
}
