package models

import (
	"testing"
	"time"
)

func TestTimeRange_String(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want string
	}{
		{"24Hours", TimeRange24Hours, "24 Hours"},
		{"7Days", TimeRange7Days, "7 Days"},
		{"30Days", TimeRange30Days, "30 Days"},
		{"AllTime", TimeRangeAllTime, "All Time"},
		{"Unknown", TimeRange(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.String(); got != tt.want {
				t.Errorf("TimeRange.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Days(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want int
	}{
		{"24Hours", TimeRange24Hours, 1},
		{"7Days", TimeRange7Days, 7},
		{"30Days", TimeRange30Days, 30},
		{"AllTime", TimeRangeAllTime, 0},
		{"Unknown", TimeRange(999), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Days(); got != tt.want {
				t.Errorf("TimeRange.Days() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Next(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want TimeRange
	}{
		{"24Hours -> 7Days", TimeRange24Hours, TimeRange7Days},
		{"7Days -> 30Days", TimeRange7Days, TimeRange30Days},
		{"30Days -> AllTime", TimeRange30Days, TimeRangeAllTime},
		{"AllTime -> 24Hours", TimeRangeAllTime, TimeRange24Hours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Next(); got != tt.want {
				t.Errorf("TimeRange.Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBalanceHistory(t *testing.T) {
	var empty *BalanceHistory
	if empty.HasData() {
		t.Error("nil history should have no data")
	}
	if got := empty.Series(1_000_000_000); got != nil {
		t.Errorf("Series() on empty = %v, want nil", got)
	}

	now := time.Now()
	h := &BalanceHistory{Snapshots: []BalanceSnapshot{
		{RawBalance: 3_000_000_000, Timestamp: now.Add(-2 * time.Hour)},
		{RawBalance: 500_000_000, Timestamp: now.Add(-time.Hour)},
		{RawBalance: 7_000_000_000, Timestamp: now},
	}}

	if !h.HasData() {
		t.Fatal("HasData() = false, want true")
	}

	series := h.Series(1_000_000_000)
	want := []float64{3, 0.5, 7}
	for i := range want {
		if series[i] != want[i] {
			t.Errorf("Series()[%d] = %v, want %v", i, series[i], want[i])
		}
	}

	lo, hi := h.Range()
	if lo != 500_000_000 || hi != 7_000_000_000 {
		t.Errorf("Range() = (%d, %d), want (500000000, 7000000000)", lo, hi)
	}

	latest, ok := h.Latest()
	if !ok || latest.RawBalance != 7_000_000_000 {
		t.Errorf("Latest() = %v, %v", latest, ok)
	}
}

func TestTransactionRecord_Succeeded(t *testing.T) {
	tests := []struct {
		status TxStatus
		want   bool
	}{
		{TxStatusSuccess, true},
		{TxStatusFailure, false},
		{TxStatusRejected, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := (TransactionRecord{Status: tt.status}).Succeeded(); got != tt.want {
				t.Errorf("Succeeded() = %v, want %v", got, tt.want)
			}
		})
	}
}
