package store

import (
	"context"

	"github.com/dimitrije/officehub/internal/hub"
)

type lister func(ctx context.Context, path string) (Snapshot, error)

// watch re-reads the collection at path every time the hub reports a write
// affecting it. Registration happens before the first read so no write between
// the two is missed.
func watch(ctx context.Context, h *hub.Hub, path string, list lister) *Subscription {
	return newSubscription(ctx, func(ctx context.Context, out chan<- Snapshot) error {
		sub := h.Subscribe(path)
		defer h.Unsubscribe(sub)

		for {
			snap, err := list(ctx, path)
			if err != nil {
				return err
			}

			select {
			case out <- snap:
			case <-ctx.Done():
				return ctx.Err()
			}

			select {
			case _, ok := <-sub.Notify:
				if !ok {
					return nil
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}

func publish(h *hub.Hub, path string) {
	if h != nil {
		h.Publish(path)
	}
}
