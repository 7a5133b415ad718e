// Package rdb stores risks in a relational database through database/sql.
// SQLite (modernc.org/sqlite) and PostgreSQL (pgx) share one schema.
package rdb

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects the SQL flavor and driver
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) driver() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS risks (
		id TEXT PRIMARY KEY,
		risk_no TEXT NOT NULL,
		department TEXT NOT NULL,
		department_key TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		impact TEXT NOT NULL,
		likelihood TEXT NOT NULL,
		status TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		created_by_user_id TEXT NOT NULL,
		identification TEXT NOT NULL,
		existing_control_in_place TEXT NOT NULL,
		plan_of_action TEXT NOT NULL,
		category TEXT NOT NULL,
		level TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		UNIQUE (department_key, risk_no)
	)`,
	`CREATE INDEX IF NOT EXISTS risks_created_at ON risks (created_at)`,
	`CREATE TABLE IF NOT EXISTS risk_history (
		id TEXT PRIMARY KEY,
		risk_id TEXT NOT NULL,
		changed_at BIGINT NOT NULL,
		changed_by_user_id TEXT NOT NULL,
		field_name TEXT NOT NULL,
		old_value TEXT NOT NULL,
		new_value TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS risk_history_risk_id ON risk_history (risk_id, changed_at)`,
	`CREATE TABLE IF NOT EXISTS owners (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		department TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS incidents (
		id TEXT PRIMARY KEY,
		risk_id TEXT NOT NULL,
		summary TEXT NOT NULL,
		description TEXT NOT NULL,
		mitigation_steps TEXT NOT NULL,
		current_status_text TEXT NOT NULL,
		occurred_at BIGINT NOT NULL,
		closed_date BIGINT,
		department TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS incidents_risk_id ON incidents (risk_id)`,
	`CREATE TABLE IF NOT EXISTS sweeps (
		name TEXT PRIMARY KEY,
		last_swept_at BIGINT NOT NULL
	)`,
}

type RDB struct {
	db       *sql.DB
	risk     *riskRepository
	history  *historyRepository
	owner    *ownerRepository
	user     *userRepository
	incident *incidentRepository
	sweep    *sweepRepository
}

var _ interfaces.Repository = &RDB{}

// New opens the database, verifies the connection and applies the schema
func New(ctx context.Context, dialect Dialect, dsn string) (*RDB, error) {
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, goerr.New("unsupported dialect", goerr.V("dialect", dialect))
	}

	db, err := sql.Open(dialect.driver(), dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("dialect", dialect))
	}
	if dialect == DialectSQLite {
		// SQLite allows one writer at a time
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(errors.Join(model.ErrStoreUnavailable, err), "failed to connect database", goerr.V("dialect", dialect))
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, goerr.Wrap(err, "failed to apply schema", goerr.V("dialect", dialect))
		}
	}

	c := &conn{db: db, dialect: dialect}
	return &RDB{
		db:       db,
		risk:     &riskRepository{c: c},
		history:  &historyRepository{c: c},
		owner:    &ownerRepository{c: c},
		user:     &userRepository{c: c},
		incident: &incidentRepository{c: c},
		sweep:    &sweepRepository{c: c},
	}, nil
}

func (r *RDB) Risk() interfaces.RiskRepository {
	return r.risk
}

func (r *RDB) History() interfaces.HistoryRepository {
	return r.history
}

func (r *RDB) Owner() interfaces.OwnerRepository {
	return r.owner
}

func (r *RDB) User() interfaces.UserRepository {
	return r.user
}

func (r *RDB) Incident() interfaces.IncidentRepository {
	return r.incident
}

func (r *RDB) Sweep() interfaces.SweepRepository {
	return r.sweep
}

func (r *RDB) Close() error {
	return r.db.Close()
}

// querier is implemented by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type conn struct {
	db      *sql.DB
	dialect Dialect
}

// rebind rewrites '?' placeholders into the dialect's native form
func (c *conn) rebind(query string) string {
	if c.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (c *conn) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, c.rebind(query), args...)
}

func (c *conn) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, c.rebind(query), args...)
}

func (c *conn) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, c.rebind(query), args...)
}

// inTx runs fn in a transaction, committing when fn returns nil
func (c *conn) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

// storeError classifies a database failure into the domain error taxonomy
func storeError(err error, msg string, opts ...goerr.Option) error {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrConflict):
		return goerr.Wrap(err, msg, opts...)
	case isUniqueViolation(err):
		return goerr.Wrap(errors.Join(model.ErrConflict, err), msg, opts...)
	default:
		return goerr.Wrap(errors.Join(model.ErrStoreUnavailable, err), msg, opts...)
	}
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
