package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"portfolio/internal/config"
)

const pingTimeout = 5 * time.Second

var sqlOpen = sql.Open

// Postgres is a traced connection pool together with the DSN it was opened
// with. The change listener dials its own LISTEN connection from DSN.
type Postgres struct {
	DB  *sql.DB
	DSN string
}

// Close releases the pool.
func (p *Postgres) Close() error {
	return p.DB.Close()
}

// PostgresDSN renders c as a postgres:// URL. application_name tags every
// session so pg_stat_activity shows which process holds it.
func PostgresDSN(c config.DatabaseConfig) (string, error) {
	if c.Host == "" || c.Port == "" || c.User == "" || c.Name == "" {
		return "", fmt.Errorf("invalid database config: host, port, user, and name are required")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.AppName != "" {
		q.Set("application_name", c.AppName)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// NewPostgres opens the pgx pool behind otelsql, applies the pool limits and
// pings once. The pool is closed again when the ping fails.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*Postgres, error) {
	dsn, err := PostgresDSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL, semconv.DBName(c.Name)),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	applyPool(db, c)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping %s/%s: %w", c.Host, c.Name, err)
	}

	return &Postgres{DB: db, DSN: dsn}, nil
}

func applyPool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}
