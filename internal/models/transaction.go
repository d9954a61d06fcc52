package models

import "time"

// TxKind identifies a faucet write operation.
type TxKind string

const (
	TxKindClaim   TxKind = "claim"
	TxKindDeposit TxKind = "deposit"
)

// TxStatus is the outcome of a submitted transaction.
type TxStatus string

const (
	TxStatusSuccess  TxStatus = "success"
	TxStatusFailure  TxStatus = "failure"
	TxStatusRejected TxStatus = "rejected"
)

// TransactionRecord is a claim or deposit attempted from this client.
type TransactionRecord struct {
	Timestamp  time.Time
	Kind       TxKind
	Status     TxStatus
	Address    string
	Digest     string
	Error      string
	FaucetID   string
	ID         int64
	AmountMist uint64
}

// Succeeded reports whether the transaction was accepted by the network.
func (r TransactionRecord) Succeeded() bool {
	return r.Status == TxStatusSuccess
}

// TransactionSummary aggregates transactions for one address.
type TransactionSummary struct {
	LastClaim     time.Time
	Claims        int
	Deposits      int
	Failures      int
	ClaimedMist   uint64
	DepositedMist uint64
}
