package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL keeps every collection in a single kv_entries table, one row
// per key with the JSON document as the value. REPLACE swaps the row
// in one statement, which preserves the atomic-replacement guarantee
// of the Store contract. Meant for the server-backed deployment of
// the same service surface.
type MySQL struct {
	db *sql.DB
}

// OpenMySQL connects, verifies the connection and ensures the
// kv_entries table exists.
func OpenMySQL(user, pass, host, port, name string) (*MySQL, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS kv_entries (
			k VARCHAR(191) NOT NULL PRIMARY KEY,
			v LONGBLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) CHARACTER SET utf8mb4`); err != nil {
		return nil, fmt.Errorf("ensure kv_entries: %w", err)
	}
	return &MySQL{db: db}, nil
}

func (m *MySQL) Read(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := m.db.QueryRowContext(ctx,
		"SELECT v FROM kv_entries WHERE k=? LIMIT 1", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (m *MySQL) Write(ctx context.Context, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx,
		"REPLACE INTO kv_entries (k, v) VALUES (?,?)", key, value)
	return err
}

func (m *MySQL) Remove(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE k=?", key)
	return err
}

// Close releases the underlying connection pool.
func (m *MySQL) Close() error { return m.db.Close() }
