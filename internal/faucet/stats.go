// Package faucet holds the faucet domain: stats derivation, the claim and
// deposit transactions, and the controller that talks to the ledger.
package faucet

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/j-veylop/sui-faucet-tui/internal/config"
)

// CooldownMs is the claim cooldown in milliseconds.
const CooldownMs int64 = config.CooldownHours * 60 * 60 * 1000

// ClockSource records where CurrentTime came from.
type ClockSource string

const (
	ClockLedger ClockSource = "ledger"
	ClockLocal  ClockSource = "local"
)

// FaucetStats is one snapshot of the faucet as seen by one address. It is
// replaced wholesale and never mutated after publication.
type FaucetStats struct {
	Balance            string
	ClaimAmount        string
	CooldownPeriod     string
	LastClaimTime      int64
	CanClaim           bool
	TimeUntilNextClaim int64

	RawBalance  uint64
	CurrentTime int64
	ClockSource ClockSource
	FetchedAt   time.Time
}

// NewStats derives a snapshot from raw ledger values.
func NewStats(rawBalance uint64, lastClaim, now int64, source ClockSource) FaucetStats {
	canClaim, wait := ComputeEligibility(lastClaim, now)
	return FaucetStats{
		Balance:            FormatBalance(rawBalance),
		ClaimAmount:        strconv.Itoa(config.ClaimAmount),
		CooldownPeriod:     strconv.Itoa(config.CooldownHours),
		LastClaimTime:      lastClaim,
		CanClaim:           canClaim,
		TimeUntilNextClaim: wait,
		RawBalance:         rawBalance,
		CurrentTime:        now,
		ClockSource:        source,
		FetchedAt:          time.Now(),
	}
}

// ComputeEligibility applies the cooldown rule. lastClaim <= 0 means never
// claimed.
func ComputeEligibility(lastClaim, now int64) (canClaim bool, timeUntilNext int64) {
	if lastClaim <= 0 {
		return true, 0
	}
	elapsed := now - lastClaim
	if elapsed >= CooldownMs {
		return true, 0
	}
	return false, CooldownMs - elapsed
}

// Remaining returns the wait left at wall time now, counting down from the
// snapshot. It never goes below zero.
func (s FaucetStats) Remaining(now time.Time) time.Duration {
	if s.CanClaim {
		return 0
	}
	left := time.Duration(s.TimeUntilNextClaim)*time.Millisecond - now.Sub(s.FetchedAt)
	if left < 0 {
		return 0
	}
	return left
}

// LowBalance reports whether the faucet cannot cover one more claim.
func (s FaucetStats) LowBalance() bool {
	return s.RawBalance < uint64(config.ClaimAmount)*config.MistPerSui
}

func mistToSui(mist uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(mist), -9)
}

// FormatBalance renders a mist amount as SUI with two decimals.
func FormatBalance(mist uint64) string {
	return mistToSui(mist).StringFixed(2)
}

// FormatSui renders a mist amount as SUI without trailing zeros.
func FormatSui(mist uint64) string {
	return mistToSui(mist).String()
}

// ParseDepositAmount converts a SUI amount typed by the user to mist,
// truncating below one mist. Anything that does not yield a strictly
// positive u64 is rejected.
func ParseDepositAmount(input string) (uint64, error) {
	invalid := func(err error) error {
		return &Error{Kind: KindInvalidInput, Op: "deposit", Msg: MsgInvalidAmount, Err: err}
	}

	d, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return 0, invalid(err)
	}

	mist := d.Shift(9).Truncate(0)
	if !mist.IsPositive() {
		return 0, invalid(nil)
	}

	n := mist.BigInt()
	if !n.IsUint64() {
		return 0, invalid(fmt.Errorf("amount %s overflows u64", input))
	}
	return n.Uint64(), nil
}

// FormatCountdown renders milliseconds as "HHh MMm SSs".
func FormatCountdown(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02dh %02dm %02ds", h, m, s)
}

// TruncateID shortens an id to its first 8 and last 6 characters.
func TruncateID(id string) string {
	if len(id) <= 17 {
		return id
	}
	return id[:8] + "..." + id[len(id)-6:]
}
