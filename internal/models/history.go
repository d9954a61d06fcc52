// Package models defines data structures and domain types.
package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// TimeRange24Hours shows data from the last 24 hours.
	TimeRange24Hours TimeRange = iota
	// TimeRange7Days shows data from the last 7 days.
	TimeRange7Days
	// TimeRange30Days shows data from the last 30 days.
	TimeRange30Days
	// TimeRangeAllTime shows all available historical data.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Days returns the number of days for the time range (0 = unlimited).
func (t TimeRange) Days() int {
	switch t {
	case TimeRange24Hours:
		return 1
	case TimeRange7Days:
		return 7
	case TimeRange30Days:
		return 30
	case TimeRangeAllTime:
		return 0
	default:
		return 30
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// BalanceSnapshot is one observed faucet balance.
type BalanceSnapshot struct {
	Timestamp  time.Time
	FaucetID   string
	ID         int64
	RawBalance uint64 // mist
}

// BalanceHistory is the balance series for one faucet over a time range.
type BalanceHistory struct {
	FaucetID  string
	Snapshots []BalanceSnapshot // oldest first
	TimeRange TimeRange
}

// HasData returns true if at least one snapshot was recorded.
func (h *BalanceHistory) HasData() bool {
	return h != nil && len(h.Snapshots) > 0
}

// Series returns balances in SUI, oldest first, for charting.
func (h *BalanceHistory) Series(mistPerUnit uint64) []float64 {
	if !h.HasData() || mistPerUnit == 0 {
		return nil
	}
	out := make([]float64, len(h.Snapshots))
	for i, s := range h.Snapshots {
		out[i] = float64(s.RawBalance) / float64(mistPerUnit)
	}
	return out
}

// Range returns the lowest and highest raw balance in the series.
func (h *BalanceHistory) Range() (lo, hi uint64) {
	if !h.HasData() {
		return 0, 0
	}
	lo, hi = h.Snapshots[0].RawBalance, h.Snapshots[0].RawBalance
	for _, s := range h.Snapshots[1:] {
		lo = min(lo, s.RawBalance)
		hi = max(hi, s.RawBalance)
	}
	return lo, hi
}

// Latest returns the newest snapshot.
func (h *BalanceHistory) Latest() (BalanceSnapshot, bool) {
	if !h.HasData() {
		return BalanceSnapshot{}, false
	}
	return h.Snapshots[len(h.Snapshots)-1], true
}
