package http

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChangeFeed struct {
	changes chan ports.OrderChange
}

func (s *stubChangeFeed) Subscribe(_ context.Context) (<-chan ports.OrderChange, error) {
	return s.changes, nil
}

func Test_OrderFeed_BroadcastsToAllSubscribers(t *testing.T) {
	source := &stubChangeFeed{changes: make(chan ports.OrderChange, 1)}
	feed := NewOrderFeed(source, slog.Default())

	err := feed.Start(context.Background())
	require.NoError(t, err)

	first := feed.subscribe()
	second := feed.subscribe()
	defer feed.unsubscribe(first)
	defer feed.unsubscribe(second)

	orderID := kernel.NewUUID()
	source.changes <- ports.OrderChange{OrderID: orderID}

	for _, events := range []chan ports.OrderChange{first, second} {
		select {
		case change := <-events:
			assert.Equal(t, orderID, change.OrderID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the change")
		}
	}
}

func Test_OrderFeed_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	source := &stubChangeFeed{changes: make(chan ports.OrderChange, 32)}
	feed := NewOrderFeed(source, slog.Default())

	err := feed.Start(context.Background())
	require.NoError(t, err)

	slow := feed.subscribe()
	fast := feed.subscribe()
	defer feed.unsubscribe(slow)
	defer feed.unsubscribe(fast)

	// Overflow the slow subscriber's buffer; the fast one drains as it goes.
	var last kernel.UUID
	for i := 0; i < 20; i++ {
		last = kernel.NewUUID()
		source.changes <- ports.OrderChange{OrderID: last}

		select {
		case <-fast:
		case <-time.After(time.Second):
			t.Fatal("fast subscriber starved by slow one")
		}
	}

	// The slow subscriber kept only its buffer's worth, never blocking.
	assert.LessOrEqual(t, len(slow), cap(slow))
}
