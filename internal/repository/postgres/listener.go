package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"portfolio/internal/database/migration"
	"portfolio/internal/logger"
	"portfolio/internal/repository"
)

// notificationConn is the part of *pgx.Conn used by the listener.
type notificationConn interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// Listener forwards NOTIFY payloads on the change channel to a Fanout.
type Listener struct {
	dsn     string
	feed    *repository.Fanout
	log     *slog.Logger
	connect func(ctx context.Context, dsn string) (notificationConn, error)
}

func NewListener(dsn string, feed *repository.Fanout, log *slog.Logger) *Listener {
	return &Listener{dsn: dsn, feed: feed, log: log, connect: listen}
}

func listen(ctx context.Context, dsn string) (notificationConn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("listener connect: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+migration.Channel); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("listen %s: %w", migration.Channel, err)
	}
	return conn, nil
}

// Run blocks until ctx is done or the connection fails. On failure every
// watcher channel is closed so subscribers observe the lost feed.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := l.connect(ctx, l.dsn)
	if err != nil {
		if ctx.Err() == nil {
			l.feed.Fail(err)
		}
		return err
	}
	defer func() { _ = conn.Close(context.Background()) }()

	l.log.Info("postgres change listener started", slog.String("channel", migration.Channel))
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			err = fmt.Errorf("wait for notification: %w", err)
			l.log.Error("postgres change listener stopped", logger.Err(err))
			l.feed.Fail(err)
			return err
		}
		l.feed.Publish(repository.Collection(n.Payload))
	}
}
