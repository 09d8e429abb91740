package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DBTX is the query surface shared by the pool and an open transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Transactor runs fn inside a single transaction: committed when fn returns nil, rolled back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx DBTX) error) error
}

// DB wraps the connection pool. Queries are written with ? placeholders and rebound for the dialect.
type DB struct {
	sql     *sql.DB
	dialect Dialect
}

var (
	_ DBTX       = (*DB)(nil)
	_ Transactor = (*DB)(nil)
)

// Wrap adapts an already opened pool.
func Wrap(sqlDB *sql.DB, dialect Dialect) *DB {
	return &DB{sql: sqlDB, dialect: dialect}
}

// ConnectAndMigrate opens the database named by dbURL and applies pending migrations.
// postgres:// and postgresql:// URLs use pgx; sqlite://<path> uses the embedded SQLite driver.
func ConnectAndMigrate(dbURL string, logger zerolog.Logger) (*DB, error) {
	db, err := Open(dbURL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to migrate database")
		db.Close()
		return nil, err
	}

	logger.Info().Str("dialect", db.dialect.String()).Msg("database ready")
	return db, nil
}

// Open connects without migrating.
func Open(dbURL string) (*DB, error) {
	var (
		sqlDB   *sql.DB
		dialect Dialect
		err     error
	)

	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		dialect = Postgres
		sqlDB, err = sql.Open("pgx", dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)

	case strings.HasPrefix(dbURL, "sqlite://"):
		dialect = SQLite
		sqlDB, err = openSQLite(strings.TrimPrefix(dbURL, "sqlite://"))
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.New("unsupported DB_URL: expected postgres://, postgresql:// or sqlite://")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{sql: sqlDB, dialect: dialect}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite DB_URL has no path")
	}

	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		pragmas += "&_pragma=journal_mode(WAL)"
	}

	sqlDB, err := sql.Open("sqlite", path+"?"+pragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if memory {
		sqlDB.SetMaxOpenConns(1)
	}
	return sqlDB, nil
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.sql.ExecContext(ctx, d.dialect.Rebind(query), args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.sql.QueryContext(ctx, d.dialect.Rebind(query), args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.sql.QueryRowContext(ctx, d.dialect.Rebind(query), args...)
}

// WithinTx implements Transactor.
func (d *DB) WithinTx(ctx context.Context, fn func(tx DBTX) error) (err error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txConn{tx: tx, dialect: d.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Check runs a trivial query to prove the database answers.
func (d *DB) Check(ctx context.Context) error {
	var result int
	if err := d.sql.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("unexpected health check result: %d", result)
	}
	return nil
}

func (d *DB) Close() error {
	return d.sql.Close()
}

type txConn struct {
	tx      *sql.Tx
	dialect Dialect
}

func (c *txConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.tx.ExecContext(ctx, c.dialect.Rebind(query), args...)
}

func (c *txConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.tx.QueryContext(ctx, c.dialect.Rebind(query), args...)
}

func (c *txConn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.tx.QueryRowContext(ctx, c.dialect.Rebind(query), args...)
}
