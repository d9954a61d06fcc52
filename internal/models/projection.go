package models

import (
	"fmt"
	"math"
	"time"
)

// ProjectionStatus indicates how soon the faucet is expected to run dry.
type ProjectionStatus string

const (
	ProjectionSafe     ProjectionStatus = "SAFE"
	ProjectionWarning  ProjectionStatus = "WARNING"
	ProjectionCritical ProjectionStatus = "CRITICAL"
	ProjectionUnknown  ProjectionStatus = "UNKNOWN"
)

// DrainProjection estimates when the faucet balance runs out from the
// recorded snapshots. Rates are in mist per hour.
type DrainProjection struct {
	FaucetID      string
	Balance       uint64        // latest observed balance, mist
	DrainPerHour  float64       // outflow (claims)
	RefillPerHour float64       // inflow (deposits)
	HoursLeft     float64       // +Inf when the faucet is not draining
	DepleteAt     time.Time     // zero when HoursLeft is infinite
	ClaimsLeft    uint64        // full claims the balance still covers
	Window        time.Duration // span of the snapshots used
	DataPoints    int
	Status        ProjectionStatus
	Confidence    string // "low", "medium", "high"
	VsEarlier     string // recent net drain compared with the earlier half
	LastUpdated   time.Time
}

// NetPerHour returns drain minus refill.
func (p *DrainProjection) NetPerHour() float64 {
	if p == nil {
		return 0
	}
	return p.DrainPerHour - p.RefillPerHour
}

// Draining reports whether the balance is trending down.
func (p *DrainProjection) Draining() bool {
	return p.NetPerHour() > 0
}

// FormatTimeLeft renders HoursLeft for display.
func (p *DrainProjection) FormatTimeLeft() string {
	if p == nil || p.Status == ProjectionUnknown {
		return "not enough data"
	}
	if math.IsInf(p.HoursLeft, 1) {
		return "not draining"
	}
	switch {
	case p.HoursLeft < 1:
		return fmt.Sprintf("~%d min", int(p.HoursLeft*60))
	case p.HoursLeft < 48:
		return fmt.Sprintf("~%.1f hours", p.HoursLeft)
	default:
		return fmt.Sprintf("~%.0f days", p.HoursLeft/24)
	}
}
