// Package pglisten implements the order change feed on Postgres
// LISTEN/NOTIFY. The startup migration installs a trigger on the orders
// table that notifies the channel with the order id on every insert and
// update; this adapter turns those notifications into feed events.
//
// Notifications are delivery hints, not state. Consumers must re-read the
// order, because between NOTIFY and receipt the order may have been claimed,
// released or cancelled again.
package pglisten

import (
	"context"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const (
	channelName = "order_changes"

	minReconnectInterval = time.Second
	maxReconnectInterval = 30 * time.Second

	// How often to ping the connection when no notifications arrive.
	idleCheckInterval = 90 * time.Second
)

// PqOrderChangeFeed subscribes to the order_changes Postgres channel.
type PqOrderChangeFeed struct {
	dsn    string
	logger *slog.Logger
}

// NewPqOrderChangeFeed creates a feed that connects with the given DSN.
func NewPqOrderChangeFeed(dsn string, logger *slog.Logger) (*PqOrderChangeFeed, error) {
	if dsn == "" {
		return nil, errs.NewValueIsRequiredError("dsn")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &PqOrderChangeFeed{
		dsn:    dsn,
		logger: logger.With("component", "order_change_feed"),
	}, nil
}

// Subscribe opens a dedicated listener connection and streams change events
// until ctx is cancelled. Reconnects are handled by the listener itself; a
// dropped connection only delays events, it never wedges the channel.
func (f *PqOrderChangeFeed) Subscribe(ctx context.Context) (<-chan ports.OrderChange, error) {
	listener := pq.NewListener(f.dsn, minReconnectInterval, maxReconnectInterval, f.onListenerEvent)
	if err := listener.Listen(channelName); err != nil {
		_ = listener.Close()
		return nil, err
	}

	changes := make(chan ports.OrderChange)
	go f.pump(ctx, listener, changes)
	return changes, nil
}

func (f *PqOrderChangeFeed) pump(ctx context.Context, listener *pq.Listener, changes chan<- ports.OrderChange) {
	defer close(changes)
	defer func() {
		if err := listener.Close(); err != nil {
			f.logger.WarnContext(ctx, "failed to close listener", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case notification := <-listener.Notify:
			// A nil notification signals a reconnect; events missed while
			// disconnected are gone, consumers refresh on the next one.
			if notification == nil {
				continue
			}

			orderID, err := kernel.UUIDFromString(notification.Extra)
			if err != nil {
				f.logger.WarnContext(ctx, "discarding malformed notification",
					"payload", notification.Extra, "error", err)
				continue
			}

			select {
			case changes <- ports.OrderChange{OrderID: orderID}:
			case <-ctx.Done():
				return
			}

		case <-time.After(idleCheckInterval):
			if err := listener.Ping(); err != nil {
				f.logger.WarnContext(ctx, "listener ping failed", "error", err)
			}
		}
	}
}

func (f *PqOrderChangeFeed) onListenerEvent(event pq.ListenerEventType, err error) {
	if err != nil {
		f.logger.Warn("listener event", "event", int(event), "error", err)
	}
}
