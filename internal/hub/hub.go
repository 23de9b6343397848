package hub

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Subscriber is notified whenever a record at, above or below Path changes.
// Notify has a buffer of one; pending notifications coalesce.
type Subscriber struct {
	ID     string
	Path   string
	Notify chan struct{}
}

type Hub struct {
	subscribers map[string]*Subscriber
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan string
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan string, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub.ID] = sub
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub.ID]; ok {
				delete(h.subscribers, sub.ID)
				close(sub.Notify)
			}
			h.mu.Unlock()

		case path := <-h.broadcast:
			h.mu.RLock()
			for _, sub := range h.subscribers {
				if !Affects(path, sub.Path) {
					continue
				}
				select {
				case sub.Notify <- struct{}{}:
				default:
					// already pending
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Subscribe registers a new subscriber for path. The caller must Unsubscribe it.
func (h *Hub) Subscribe(path string) *Subscriber {
	sub := &Subscriber{
		ID:     uuid.New().String(),
		Path:   path,
		Notify: make(chan struct{}, 1),
	}
	h.register <- sub
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.unregister <- sub
}

// Publish reports that the record at path was written or deleted.
func (h *Hub) Publish(path string) {
	h.broadcast <- path
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Affects reports whether a write at changed is visible to a watcher of watched:
// the same path, a descendant of it, or an ancestor that was replaced or removed.
func Affects(changed, watched string) bool {
	if changed == watched {
		return true
	}
	if strings.HasPrefix(changed, watched+"/") {
		return true
	}
	return strings.HasPrefix(watched, changed+"/")
}
