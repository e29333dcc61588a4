package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// connectTimeout bounds the connection verification ping.
const connectTimeout = 5 * time.Second

// SQLStore keeps entries in a two-column table
// (key TEXT PRIMARY KEY, value TEXT NOT NULL).
type SQLStore struct {
	db     *sql.DB
	driver string
	table  string
	owned  bool
}

// OpenSQL opens a relational store with the given database/sql driver
// ("sqlite3" or "postgres"), verifies the connection, and creates the
// table if it doesn't exist.
func OpenSQL(ctx context.Context, driver, dsn, table string) (*SQLStore, error) {
	table, err := validateCollection(table)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, connErr("connect", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, connErr("connect", err)
	}

	s := &SQLStore{db: db, driver: driver, table: table, owned: true}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// WrapSQL wraps an existing database handle. The caller keeps ownership;
// Close never closes the handle. The driver name selects the placeholder
// dialect ("sqlite3" or "postgres").
func WrapSQL(ctx context.Context, db *sql.DB, driver, table string) (*SQLStore, error) {
	table, err := validateCollection(table)
	if err != nil {
		return nil, err
	}
	s := &SQLStore{db: db, driver: driver, table: table}
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) ensureTable(ctx context.Context) error {
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)", s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return connErr("create table", err)
	}
	return nil
}

// rebind rewrites ? placeholders to the $n form PostgreSQL expects.
func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	query := s.rebind(fmt.Sprintf("SELECT value FROM %s WHERE key = ?", s.table))

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", connErr("get", err)
	}
	return value, nil
}

func (s *SQLStore) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT key, value FROM %s", s.table))
	if err != nil {
		return nil, connErr("get all", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, connErr("get all", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, connErr("get all", err)
	}
	return result, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query := s.rebind(fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?)", s.table))

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		if isDuplicateErr(err) {
			return fmt.Errorf("set %q: %w", key, ErrDuplicateKey)
		}
		return connErr("set", err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, key, value string) error {
	query := s.rebind(fmt.Sprintf("UPDATE %s SET value = ? WHERE key = ?", s.table))

	res, err := s.db.ExecContext(ctx, query, value, key)
	if err != nil {
		return connErr("update", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return connErr("update", err)
	}
	if affected == 0 {
		return fmt.Errorf("update %q: %w", key, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := s.rebind(fmt.Sprintf("DELETE FROM %s WHERE key = ?", s.table))

	res, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return connErr("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return connErr("delete", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// isDuplicateErr reports whether err is a primary key violation from
// either supported driver.
func isDuplicateErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	return false
}
