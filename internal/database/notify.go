package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Notifier publishes notifications with pg_notify.
type Notifier struct {
	pool *pgxpool.Pool
}

func NewNotifier(pool *pgxpool.Pool) *Notifier {
	return &Notifier{pool: pool}
}

func (n *Notifier) Notify(ctx context.Context, channel, payload string) error {
	if _, err := n.pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, payload); err != nil {
		return fmt.Errorf("failed to notify %s: %w", channel, err)
	}
	return nil
}

// Listen holds a pool connection subscribed to channel and calls fn for every notification
// until ctx is done or the connection fails. ready is called once the subscription is active.
// Errors returned by fn are logged and do not stop listening.
func Listen(ctx context.Context, pool *pgxpool.Pool, channel string, ready func(), fn func(ctx context.Context, payload string) error) error {
	pooled, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for %s: %w", channel, err)
	}
	// LISTEN is session state, the connection must not go back to the pool.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", channel, err)
	}
	log.Infof("listening for notifications on %s", channel)
	if ready != nil {
		ready()
	}

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("waiting for notification on %s: %w", channel, err)
		}
		if err := fn(ctx, notification.Payload); err != nil {
			log.Errorf("failed to handle notification on %s: %v", channel, err)
		}
	}
}
