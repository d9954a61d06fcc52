package db

import (
	"context"
	"fmt"
)

type migration struct {
	name  string
	stmts []string
}

// migrations are applied in order; the schema version is the index of the
// last applied entry plus one, stored in PRAGMA user_version. Append only.
var migrations = []migration{
	{
		name: "balance snapshots",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS balance_snapshots (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				faucet_id TEXT NOT NULL,
				raw_balance TEXT NOT NULL,
				timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_balance_snapshots_faucet_time
				ON balance_snapshots(faucet_id, timestamp)`,
		},
	},
	{
		name: "transactions",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS transactions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
				faucet_id TEXT NOT NULL,
				kind TEXT NOT NULL,
				status TEXT NOT NULL,
				address TEXT NOT NULL,
				amount_mist TEXT NOT NULL DEFAULT '0',
				digest TEXT,
				error TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_address ON transactions(address)`,
		},
	},
}

// SchemaVersion reports how many migrations have been applied.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

func (db *DB) migrate(ctx context.Context) error {
	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", current, len(migrations))
	}

	for i := current; i < len(migrations); i++ {
		m := migrations[i]
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %q: %w", m.name, err)
		}
		for _, stmt := range m.stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %q failed: %w", m.name, err)
			}
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %q: %w", m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %q: %w", m.name, err)
		}
	}
	return nil
}
