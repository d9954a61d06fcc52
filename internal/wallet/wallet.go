package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"

	"github.com/j-veylop/sui-faucet-tui/internal/logger"
	"github.com/j-veylop/sui-faucet-tui/internal/sui"
)

// Coin selection limits.
const (
	coinPageSize   = 50
	maxCoinPages   = 10
	maxGasPayments = 256
)

// ErrInsufficientGas is returned when the owned SUI coins cannot cover the
// budget plus the amount spent from the gas coin.
var ErrInsufficientGas = errors.New("insufficient SUI balance for gas")

// Ledger is the subset of the RPC client a wallet needs to submit
// transactions.
type Ledger interface {
	GetCoins(ctx context.Context, owner, coinType string, cursor *string, limit int) (*sui.CoinPage, error)
	GetReferenceGasPrice(ctx context.Context) (uint64, error)
	ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string, opts sui.ExecuteOptions, reqType sui.RequestType) (*sui.TransactionBlockResponse, error)
}

// Wallet signs and submits transactions for one key.
type Wallet struct {
	ledger    Ledger
	signer    Signer
	gasBudget uint64
}

// New creates a wallet.
func New(ledger Ledger, signer Signer, gasBudget uint64) *Wallet {
	return &Wallet{
		ledger:    ledger,
		signer:    signer,
		gasBudget: gasBudget,
	}
}

// Address returns the canonical address of the wallet key.
func (w *Wallet) Address() string {
	return w.signer.Address().String()
}

// Signer returns the wallet key.
func (w *Wallet) Signer() Signer {
	return w.signer
}

// SignAndExecute fills in sender and gas, signs and submits pt. spend is the
// amount the transaction itself takes from the gas coin (for example with
// SplitCoins), on top of the gas budget.
func (w *Wallet) SignAndExecute(ctx context.Context, pt sui.ProgrammableTransaction, spend uint64) (*sui.TransactionBlockResponse, error) {
	owner := w.signer.Address()

	payment, err := w.selectGas(ctx, owner.String(), w.gasBudget+spend)
	if err != nil {
		return nil, err
	}

	price, err := w.ledger.GetReferenceGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	tx := sui.TransactionData{
		Kind:   pt,
		Sender: owner,
		Gas: sui.GasData{
			Payment: payment,
			Owner:   owner,
			Price:   price,
			Budget:  w.gasBudget,
		},
	}
	txBytes := sui.Marshal(tx)

	sig, err := SignTransaction(w.signer, txBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	logger.Debug("Submitting transaction", "sender", owner.String(), "gas_coins", len(payment), "gas_price", price)

	return w.ledger.ExecuteTransactionBlock(ctx,
		base64.StdEncoding.EncodeToString(txBytes),
		[]string{sig},
		sui.ExecuteOptions{ShowEffects: true},
		sui.WaitForLocalExecution,
	)
}

// selectGas picks the largest SUI coins until their sum covers need.
func (w *Wallet) selectGas(ctx context.Context, owner string, need uint64) ([]sui.ObjectRef, error) {
	var coins []sui.Coin
	var cursor *string

	for page := 0; page < maxCoinPages; page++ {
		resp, err := w.ledger.GetCoins(ctx, owner, sui.SuiCoinType, cursor, coinPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list gas coins: %w", err)
		}
		coins = append(coins, resp.Data...)
		if !resp.HasNextPage || resp.NextCursor == nil {
			break
		}
		cursor = resp.NextCursor
	}

	sort.SliceStable(coins, func(i, j int) bool {
		return coins[i].Balance > coins[j].Balance
	})

	var refs []sui.ObjectRef
	var total uint64
	for _, c := range coins {
		if total >= need || len(refs) == maxGasPayments {
			break
		}
		ref, err := c.Ref()
		if err != nil {
			logger.Warn("Skipping malformed coin", "coin", c.CoinObjectID, "error", err)
			continue
		}
		refs = append(refs, ref)
		total += uint64(c.Balance)
	}

	if total < need {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientGas, total, need)
	}
	return refs, nil
}
