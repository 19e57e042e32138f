package db

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	_ "github.com/lib/pq"
)

type DB struct {
	chainID *big.Int
	db      *sql.DB

	EventDB *EventDB

	testing bool
}

// NewDB connects to Postgres and makes sure the archive table exists.
func NewDB(ctx context.Context, chainID *big.Int, connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{
		chainID: chainID,
		db:      db,
	}
	d.EventDB = &EventDB{p: d}

	if err = d.EventDB.ensureExists(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

// SetTesting drops the tables on Close.
func (d *DB) SetTesting() {
	d.testing = true
}

func (d *DB) Close() error {
	if d.testing {
		d.EventDB.drop(context.Background())
	}

	return d.db.Close()
}

func (d *DB) eventsTableName() string {
	return fmt.Sprintf("t_agreement_events_%s", d.chainID.String())
}

func (d *DB) checkTableExists(ctx context.Context, tname string) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, `
    SELECT EXISTS (
        SELECT 1
        FROM information_schema.tables
        WHERE table_schema = 'public'
        AND table_name = $1
    );
    `, tname).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
