package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"
)

// Listener holds a dedicated Postgres connection LISTENing on the change
// channels and feeds decoded payloads into the hub. The connection is
// separate from the pool: LISTEN binds to a single session and must not be
// handed back between queries.
type Listener struct {
	dsn string
	hub *Hub
	log *slog.Logger

	// listenFn is l.listen in production; tests swap it to drive the
	// reconnect loop without a database.
	listenFn func(ctx context.Context) error

	// healthySession is how long a connection must stay up before a later
	// drop counts as a fresh outage rather than a continuation of the
	// previous one.
	healthySession time.Duration
}

// NewListener constructs a Listener. dsn is the same connection string the
// pool uses.
func NewListener(dsn string, hub *Hub, log *slog.Logger) *Listener {
	if log == nil {
		log = slog.Default()
	}
	l := &Listener{dsn: dsn, hub: hub, log: log, healthySession: 30 * time.Second}
	l.listenFn = l.listen
	return l
}

// Run connects and listens until ctx is cancelled, reconnecting with capped
// fibonacci backoff when the connection drops. The backoff state lives for
// one outage only: a drop after a healthy session starts over from the base
// delay instead of inheriting the accumulated waits of earlier reconnects.
// Returns nil on clean shutdown.
func (l *Listener) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		b := retry.WithCappedDuration(10*time.Second, retry.NewFibonacci(500*time.Millisecond))

		err := retry.Do(ctx, b, func(ctx context.Context) error {
			started := time.Now()
			err := l.listenFn(ctx)
			if ctx.Err() != nil {
				return nil
			}
			l.log.WarnContext(ctx, "realtime listener disconnected; retrying", "error", err)
			if time.Since(started) >= l.healthySession {
				// Surface the drop so the outer loop restarts with a
				// fresh backoff.
				return err
			}
			return retry.RetryableError(err)
		})
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			return nil
		}
	}
	return nil
}

// listen opens the dedicated connection, subscribes to both channels, and
// dispatches notifications until the connection or ctx fails.
func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	for _, channel := range []string{DaysChannel, PlansChannel} {
		if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
			return fmt.Errorf("listen %s: %w", channel, err)
		}
	}
	l.log.InfoContext(ctx, "realtime listener connected",
		"channels", []string{DaysChannel, PlansChannel})

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait: %w", err)
		}

		var c Change
		if err := json.Unmarshal([]byte(n.Payload), &c); err != nil {
			l.log.WarnContext(ctx, "malformed notify payload",
				"channel", n.Channel, "payload", n.Payload, "error", err)
			continue
		}
		l.hub.Broadcast(c)
	}
}
