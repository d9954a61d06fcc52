package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/j-veylop/sui-faucet-tui/internal/logger"
	"github.com/j-veylop/sui-faucet-tui/internal/models"
)

// InsertTransaction logs a claim or deposit attempt.
func (db *DB) InsertTransaction(rec *models.TransactionRecord) error {
	query := `
		INSERT INTO transactions (
			timestamp, faucet_id, kind, status, address, amount_mist, digest, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := rec.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		timestamp.UTC().Format(timeFormat),
		rec.FaucetID,
		string(rec.Kind),
		string(rec.Status),
		rec.Address,
		strconv.FormatUint(rec.AmountMist, 10),
		nullString(rec.Digest),
		nullString(rec.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		rec.ID = id
	}

	return nil
}

// GetRecentTransactions returns the newest transactions first. An empty
// address matches all addresses.
func (db *DB) GetRecentTransactions(address string, limit int) ([]models.TransactionRecord, error) {
	query := `
		SELECT id, timestamp, faucet_id, kind, status, address, amount_mist, digest, error
		FROM transactions
		WHERE (? = '' OR address = ?)
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, address, address, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var records []models.TransactionRecord
	for rows.Next() {
		var rec models.TransactionRecord
		var ts, kind, status, amount string
		var digest, errStr sql.NullString

		err := rows.Scan(
			&rec.ID,
			&ts,
			&rec.FaucetID,
			&kind,
			&status,
			&rec.Address,
			&amount,
			&digest,
			&errStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		rec.Timestamp, _ = parseTimeString(ts)
		rec.Kind = models.TxKind(kind)
		rec.Status = models.TxStatus(status)
		rec.AmountMist, _ = strconv.ParseUint(amount, 10, 64)
		rec.Digest = digest.String
		rec.Error = errStr.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetTransactionSummary aggregates the transactions of address.
func (db *DB) GetTransactionSummary(address string) (*models.TransactionSummary, error) {
	records, err := db.GetRecentTransactions(address, -1)
	if err != nil {
		return nil, err
	}

	var s models.TransactionSummary
	for _, rec := range records {
		if !rec.Succeeded() {
			s.Failures++
			continue
		}
		switch rec.Kind {
		case models.TxKindClaim:
			s.Claims++
			s.ClaimedMist += rec.AmountMist
			if rec.Timestamp.After(s.LastClaim) {
				s.LastClaim = rec.Timestamp
			}
		case models.TxKindDeposit:
			s.Deposits++
			s.DepositedMist += rec.AmountMist
		}
	}
	return &s, nil
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
