package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/j-veylop/sui-faucet-tui/internal/models"
)

var timeFormats = []string{
	timeFormat,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 +0000 UTC",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InsertSnapshot records a faucet balance reading.
func (db *DB) InsertSnapshot(snapshot *models.BalanceSnapshot) error {
	query := `
		INSERT INTO balance_snapshots (faucet_id, raw_balance, timestamp)
		VALUES (?, ?, ?)
	`

	timestamp := snapshot.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		snapshot.FaucetID,
		strconv.FormatUint(snapshot.RawBalance, 10),
		timestamp.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert balance snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		snapshot.ID = id
	}

	return nil
}

// GetBalanceHistory returns the snapshots of faucetID within tr, oldest
// first.
func (db *DB) GetBalanceHistory(faucetID string, tr models.TimeRange) (*models.BalanceHistory, error) {
	query := `
		SELECT id, faucet_id, raw_balance, timestamp
		FROM balance_snapshots
		WHERE faucet_id = ?
	`
	args := []any{faucetID}
	if days := tr.Days(); days > 0 {
		query += " " + sqlTimeFilterClause
		args = append(args, fmt.Sprintf("-%d days", days))
	}
	query += " ORDER BY timestamp ASC, id ASC"

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	history := &models.BalanceHistory{FaucetID: faucetID, TimeRange: tr}
	for rows.Next() {
		var s models.BalanceSnapshot
		var raw, ts string
		if err := rows.Scan(&s.ID, &s.FaucetID, &raw, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan balance snapshot: %w", err)
		}
		s.RawBalance, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid balance %q in snapshot %d: %w", raw, s.ID, err)
		}
		s.Timestamp, _ = parseTimeString(ts)
		history.Snapshots = append(history.Snapshots, s)
	}

	return history, rows.Err()
}

// GetLatestSnapshot returns the newest snapshot of faucetID, or nil.
func (db *DB) GetLatestSnapshot(faucetID string) (*models.BalanceSnapshot, error) {
	history, err := db.GetBalanceHistory(faucetID, models.TimeRangeAllTime)
	if err != nil {
		return nil, err
	}
	latest, ok := history.Latest()
	if !ok {
		return nil, nil
	}
	return &latest, nil
}

// Prune deletes snapshots and transactions older than retention.
func (db *DB) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Format(timeFormat)

	var total int64
	for _, table := range []string{"balance_snapshots", "transactions"} {
		res, err := db.ExecContext(context.Background(),
			"DELETE FROM "+table+" WHERE timestamp < ?", cutoff)
		if err != nil {
			return total, fmt.Errorf("failed to prune %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
