package database

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Database is the session journal store
type Database struct {
	DB *sql.DB
}

// New opens the connection and checks it with a ping
func New(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return &Database{DB: db}, nil
}

// Init creates the journal tables if they don't exist
func (d *Database) Init(ctx context.Context) error {
	createTables := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		stopped_at TIMESTAMP,
		applications INTEGER NOT NULL DEFAULT 0,
		alerts_raised INTEGER NOT NULL DEFAULT 0,
		last_scenario TEXT NOT NULL DEFAULT 'normal',
		elapsed_seconds BIGINT NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS scenario_events (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		scenario TEXT NOT NULL,
		alert BOOLEAN NOT NULL,
		alert_message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	`

	_, err := d.DB.ExecContext(ctx, createTables)
	return err
}

func (d *Database) Close() error {
	return d.DB.Close()
}
