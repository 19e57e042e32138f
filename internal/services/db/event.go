package db

import (
	"context"
	"fmt"

	"github.com/agreementchain/agreements/pkg/agreement"
)

// EventDB archives agreement events. It implements watch.Store.
type EventDB struct {
	p *DB
}

func (db *EventDB) Create(ctx context.Context) error {
	_, err := db.p.db.ExecContext(ctx, fmt.Sprintf(`
	CREATE TABLE %s(
		contract text NOT NULL,
		kind text NOT NULL,
		action_id text NOT NULL,
		action_type integer NOT NULL,
		key text NOT NULL,
		value text NOT NULL,
		tx_hash text NOT NULL,
		block_number bigint NOT NULL,
		log_index integer NOT NULL,
		created_at timestamp NOT NULL DEFAULT now(),
		UNIQUE (contract, kind, action_id, key)
	);
	`, db.p.eventsTableName()))
	if err != nil {
		return err
	}

	_, err = db.p.db.ExecContext(ctx, fmt.Sprintf(`
	CREATE INDEX idx_%s_contract_block ON %s (contract, block_number, log_index);
	`, db.p.eventsTableName(), db.p.eventsTableName()))

	return err
}

func (db *EventDB) drop(ctx context.Context) error {
	_, err := db.p.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, db.p.eventsTableName()))
	return err
}

func (db *EventDB) ensureExists(ctx context.Context) error {
	exists, err := db.p.checkTableExists(ctx, db.p.eventsTableName())
	if err != nil {
		return err
	}

	if !exists {
		return db.Create(ctx)
	}

	return nil
}

// AddEvents inserts evs, ignoring the ones already archived.
func (db *EventDB) AddEvents(ctx context.Context, evs []agreement.EventRecord) error {
	if len(evs) == 0 {
		return nil
	}

	tx, err := db.p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO %s (contract, kind, action_id, action_type, key, value, tx_hash, block_number, log_index)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (contract, kind, action_id, key) DO NOTHING
	`, db.p.eventsTableName()))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range evs {
		_, err = stmt.ExecContext(ctx, ev.Contract, ev.Kind, ev.ActionID, int(ev.ActionType), ev.Key, ev.Value, ev.TransactionHash, int64(ev.BlockNumber), int(ev.LogIndex))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Events returns the archived events of a contract in chain order.
func (db *EventDB) Events(ctx context.Context, contract string) ([]agreement.EventRecord, error) {
	rows, err := db.p.db.QueryContext(ctx, fmt.Sprintf(`
	SELECT kind, contract, action_id, action_type, key, value, tx_hash, block_number, log_index
	FROM %s
	WHERE contract = $1
	ORDER BY block_number ASC, log_index ASC
	`, db.p.eventsTableName()), contract)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evs := []agreement.EventRecord{}
	for rows.Next() {
		var ev agreement.EventRecord
		var actionType, logIndex int
		var block int64

		err = rows.Scan(&ev.Kind, &ev.Contract, &ev.ActionID, &actionType, &ev.Key, &ev.Value, &ev.TransactionHash, &block, &logIndex)
		if err != nil {
			return nil, err
		}

		ev.ActionType = agreement.ActionType(actionType)
		ev.BlockNumber = uint64(block)
		ev.LogIndex = uint(logIndex)

		evs = append(evs, ev)
	}

	return evs, rows.Err()
}
