package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Database é um wrapper fino em torno de *sql.DB para facilitar testes (sqlmock).
type Database struct {
	conn *sql.DB
}

func NewDatabase() *Database { return &Database{} }

// NewWithConn usa uma conexão já aberta.
func NewWithConn(conn *sql.DB) *Database { return &Database{conn: conn} }

// Connect abre conexão PostgreSQL usando lib/pq e valida com Ping().
func (d *Database) Connect(ctx context.Context, dsn string) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open conn: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("ping: %w", err)
	}
	d.conn = conn
	return nil
}

func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS leakcheck_scans (
	scan_id          UUID PRIMARY KEY,
	repository       TEXT        NOT NULL,
	started_at       TIMESTAMPTZ NOT NULL,
	finished_at      TIMESTAMPTZ NOT NULL,
	commits_scanned  INTEGER     NOT NULL,
	files_scanned    INTEGER     NOT NULL,
	clean            BOOLEAN     NOT NULL,
	ignore_advisory  TEXT        NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS leakcheck_rule_results (
	id                UUID PRIMARY KEY,
	scan_id           UUID    NOT NULL REFERENCES leakcheck_scans (scan_id),
	rule_name         TEXT    NOT NULL,
	found_in_tree     BOOLEAN NOT NULL,
	found_in_history  BOOLEAN NOT NULL,
	match_count       INTEGER NOT NULL,
	UNIQUE (scan_id, rule_name)
);
CREATE TABLE IF NOT EXISTS leakcheck_secrets_files (
	id           UUID PRIMARY KEY,
	scan_id      UUID NOT NULL REFERENCES leakcheck_scans (scan_id),
	commit_hash  TEXT NOT NULL,
	path         TEXT NOT NULL,
	UNIQUE (scan_id, commit_hash, path)
);`

// Migrate cria as tabelas se ainda não existirem.
func (d *Database) Migrate(ctx context.Context) error {
	if _, err := d.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
