package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// sqliteDriver is mattn's sqlite3 with a Unicode-aware lower(); the builtin
// folds ASCII only.
const sqliteDriver = "sqlite3_shareit"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			return c.RegisterFunc("lower", strings.ToLower, true)
		},
	})
	sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)
}

// DB owns the connection pool. Its embedded Store runs statements outside
// any transaction; WithTx hands out a Store bound to one transaction.
type DB struct {
	*Store
	conn   *sqlx.DB
	driver string
	retry  config.RetryConfig
	logger *zerolog.Logger
}

var _ domain.Repository = (*DB)(nil)

// NewDB opens the configured database and brings its schema up to date.
func NewDB(cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}

	dsn, err := dataSource(driver, cfg)
	if err != nil {
		return nil, err
	}

	sqlDriver := driver
	if driver == config.DriverSQLite {
		sqlDriver = sqliteDriver
	}

	conn, err := sqlx.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch driver {
	case config.DriverSQLite:
		// one connection keeps :memory: databases alive and serialises writers
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
	case config.DriverPostgres:
		if cfg.Postgres.MaxConnections > 0 {
			conn.SetMaxOpenConns(cfg.Postgres.MaxConnections)
		}
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		Store:  &Store{ext: conn},
		conn:   conn,
		driver: driver,
		retry:  cfg.Retry,
		logger: logger,
	}

	if err := db.migrate(ctx, cfg.Postgres.MigrationTable); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info().Str("driver", driver).Msg("database initialized")
	return db, nil
}

func dataSource(driver string, cfg config.DatabaseConfig) (string, error) {
	switch driver {
	case config.DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite path is empty")
		}
		if !strings.HasPrefix(cfg.Path, ":memory:") && !strings.HasPrefix(cfg.Path, "file:") {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return "", fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return cfg.Path + "?_foreign_keys=on&_busy_timeout=5000", nil
	case config.DriverPostgres:
		return cfg.Postgres.DSN(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (db *DB) Driver() string { return db.driver }

func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// WithTx runs fn inside a transaction, retrying the whole function when
// the database reports a transient conflict. fn must therefore be safe to
// run more than once and must only use the Store it is given.
func (db *DB) WithTx(ctx context.Context, fn func(domain.Store) error) error {
	for attempt := 1; ; attempt++ {
		err := db.runTx(ctx, fn)
		if err == nil || !isRetryable(err) || attempt > db.retry.MaxRetries {
			return err
		}

		delay := backoff(db.retry, attempt)
		db.logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("retrying transaction")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// backoff is the pause before retry number attempt (1-based): InitialDelay
// grown by Factor per attempt and capped at MaxDelay.
func backoff(cfg config.RetryConfig, attempt int) time.Duration {
	delay := cfg.InitialDelay
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}
	factor := cfg.Factor
	if factor < 1 {
		factor = 2
	}

	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * factor)
		if cfg.MaxDelay > 0 && delay >= cfg.MaxDelay {
			return cfg.MaxDelay
		}
	}
	return delay
}

func (db *DB) runTx(ctx context.Context, fn func(domain.Store) error) (err error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&Store{ext: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Store implements domain.Store on top of either the pool or a transaction.
type Store struct {
	ext sqlx.ExtContext
}

func (s *Store) get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, s.ext, dest, s.ext.Rebind(query), args...)
}

func (s *Store) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, s.ext, dest, s.ext.Rebind(query), args...)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.ext.ExecContext(ctx, s.ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// pageClause renders LIMIT/OFFSET for a bounded page; an unbounded page
// renders nothing.
func pageClause(p models.Page) (string, []any) {
	if p.Limit() <= 0 {
		return "", nil
	}
	return " LIMIT ? OFFSET ?", []any{p.Limit(), p.Offset()}
}

// utc normalises timestamps so that both drivers compare them the same way.
func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
