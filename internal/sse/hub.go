// Package sse keeps track of the open realtime event streams.
package sse

import (
	"errors"
	"sync"
)

var ErrTooManyStreams = errors.New("too many open event streams")

// Client is one open event stream.
type Client struct {
	ID     string
	UserID string
	Paths  []string
	// Done is closed when the hub drops the client.
	Done chan struct{}
}

func NewClient(id, userID string, paths []string) *Client {
	return &Client{ID: id, UserID: userID, Paths: paths, Done: make(chan struct{})}
}

type registration struct {
	client *Client
	result chan error
}

type Hub struct {
	clients    map[string]*Client
	register   chan registration
	unregister chan *Client
	disconnect chan string
	maxPerUser int
	mu         sync.RWMutex
}

// NewHub returns a hub allowing maxPerUser concurrent streams per user. Zero
// means no limit.
func NewHub(maxPerUser int) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan registration),
		unregister: make(chan *Client),
		disconnect: make(chan string),
		maxPerUser: maxPerUser,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			h.mu.Lock()
			if h.maxPerUser > 0 && h.countLocked(reg.client.UserID) >= h.maxPerUser {
				h.mu.Unlock()
				reg.result <- ErrTooManyStreams
				continue
			}
			h.clients[reg.client.ID] = reg.client
			h.mu.Unlock()
			reg.result <- nil

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client.ID)
			h.mu.Unlock()

		case userID := <-h.disconnect:
			h.mu.Lock()
			for id, client := range h.clients {
				if client.UserID == userID {
					h.dropLocked(id)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) dropLocked(id string) {
	if client, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(client.Done)
	}
}

func (h *Hub) countLocked(userID string) int {
	n := 0
	for _, client := range h.clients {
		if client.UserID == userID {
			n++
		}
	}
	return n
}

// Register adds a client, failing with ErrTooManyStreams when its user is at
// the limit.
func (h *Hub) Register(client *Client) error {
	result := make(chan error, 1)
	h.register <- registration{client: client, result: result}
	return <-result
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// DisconnectUser ends every stream the user has open.
func (h *Hub) DisconnectUser(userID string) {
	h.disconnect <- userID
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked(userID)
}
