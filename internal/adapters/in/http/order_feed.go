package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/ports"
)

// OrderFeed fans order change notifications out to connected driver clients
// as server-sent events. Each event carries only the order id; clients
// re-fetch the available pool, since the pool may have changed again by the
// time the event arrives.
type OrderFeed struct {
	feed   ports.OrderChangeFeed
	logger *slog.Logger

	mu          sync.Mutex
	subscribers map[chan ports.OrderChange]struct{}
}

// NewOrderFeed creates the fan-out for the given change feed.
func NewOrderFeed(feed ports.OrderChangeFeed, logger *slog.Logger) *OrderFeed {
	return &OrderFeed{
		feed:        feed,
		logger:      logger.With("component", "order_feed"),
		subscribers: make(map[chan ports.OrderChange]struct{}),
	}
}

// RegisterRoutes mounts the feed endpoint on the echo instance.
func (f *OrderFeed) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/orders/feed", f.Stream)
}

// Start subscribes to the underlying change feed and begins fanning events
// out until ctx is cancelled.
func (f *OrderFeed) Start(ctx context.Context) error {
	changes, err := f.feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for change := range changes {
			f.broadcast(change)
		}
		f.logger.InfoContext(ctx, "order change feed closed")
	}()

	return nil
}

// Stream handles GET /api/v1/orders/feed - an SSE stream of order changes.
func (f *OrderFeed) Stream(ctx echo.Context) error {
	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	events := f.subscribe()
	defer f.unsubscribe(events)

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case change := <-events:
			if _, err := fmt.Fprintf(resp, "event: order_changed\ndata: %s\n\n",
				change.OrderID.String()); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}

func (f *OrderFeed) subscribe() chan ports.OrderChange {
	events := make(chan ports.OrderChange, 16)
	f.mu.Lock()
	f.subscribers[events] = struct{}{}
	f.mu.Unlock()
	return events
}

func (f *OrderFeed) unsubscribe(events chan ports.OrderChange) {
	f.mu.Lock()
	delete(f.subscribers, events)
	f.mu.Unlock()
}

func (f *OrderFeed) broadcast(change ports.OrderChange) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for events := range f.subscribers {
		// A slow client drops events rather than blocking the fan-out;
		// it refreshes on the next one it does receive.
		select {
		case events <- change:
		default:
		}
	}
}
