// Package projection estimates when the faucet runs dry from recorded
// balance snapshots.
package projection

import (
	"math"
	"sync"
	"time"

	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/logger"
	"github.com/j-veylop/sui-faucet-tui/internal/models"
)

const (
	lowConfThreshold = 6
	medConfThreshold = 24

	minWindow = 10 * time.Minute

	criticalHours = 24
	warningHours  = 72

	lookback = models.TimeRange7Days
)

// SnapshotStore is the slice of the database the projection reads.
type SnapshotStore interface {
	GetBalanceHistory(faucetID string, tr models.TimeRange) (*models.BalanceHistory, error)
}

type Service struct {
	mu    sync.RWMutex
	store SnapshotStore
	cache map[string]*models.DrainProjection
}

func New(store SnapshotStore) *Service {
	return &Service{
		store: store,
		cache: make(map[string]*models.DrainProjection),
	}
}

// Calculate projects the faucet balance over the last week of snapshots and
// caches the result.
func (s *Service) Calculate(faucetID string, now time.Time) (*models.DrainProjection, error) {
	history, err := s.store.GetBalanceHistory(faucetID, lookback)
	if err != nil {
		logger.Error("failed to load balance history", "faucet", faucetID, "error", err)
		return nil, err
	}

	proj := Project(history, now)
	proj.FaucetID = faucetID

	s.mu.Lock()
	s.cache[faucetID] = proj
	s.mu.Unlock()

	return proj, nil
}

// Cached returns the last projection for faucetID, or nil.
func (s *Service) Cached(faucetID string) *models.DrainProjection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[faucetID]
}

// Project derives drain and refill rates from consecutive snapshots. A
// drop between two snapshots counts as drain and a rise as refill.
func Project(history *models.BalanceHistory, now time.Time) *models.DrainProjection {
	proj := &models.DrainProjection{
		HoursLeft:   math.Inf(1),
		Status:      models.ProjectionUnknown,
		Confidence:  confidence(0),
		LastUpdated: now,
	}
	if !history.HasData() {
		return proj
	}

	snaps := history.Snapshots
	latest := snaps[len(snaps)-1]
	proj.FaucetID = history.FaucetID
	proj.Balance = latest.RawBalance
	proj.ClaimsLeft = latest.RawBalance / (uint64(config.ClaimAmount) * config.MistPerSui)
	proj.DataPoints = len(snaps)
	proj.Confidence = confidence(len(snaps))
	proj.Window = latest.Timestamp.Sub(snaps[0].Timestamp)

	if len(snaps) < 2 || proj.Window < minWindow {
		return proj
	}

	drain, refill := flows(snaps)
	hours := proj.Window.Hours()
	proj.DrainPerHour = drain / hours
	proj.RefillPerHour = refill / hours

	net := proj.NetPerHour()
	if net <= 0 {
		proj.Status = models.ProjectionSafe
	} else {
		proj.HoursLeft = float64(proj.Balance) / net
		proj.DepleteAt = now.Add(time.Duration(proj.HoursLeft * float64(time.Hour)))
		switch {
		case proj.HoursLeft < criticalHours:
			proj.Status = models.ProjectionCritical
		case proj.HoursLeft < warningHours:
			proj.Status = models.ProjectionWarning
		default:
			proj.Status = models.ProjectionSafe
		}
	}

	if len(snaps) >= 4 {
		mid := len(snaps) / 2
		proj.VsEarlier = compareRates(netRate(snaps[mid:]), netRate(snaps[:mid+1]))
	}

	return proj
}

func flows(snaps []models.BalanceSnapshot) (drain, refill float64) {
	for i := 1; i < len(snaps); i++ {
		prev, cur := snaps[i-1].RawBalance, snaps[i].RawBalance
		if cur < prev {
			drain += float64(prev - cur)
		} else {
			refill += float64(cur - prev)
		}
	}
	return drain, refill
}

func netRate(snaps []models.BalanceSnapshot) float64 {
	if len(snaps) < 2 {
		return 0
	}
	hours := snaps[len(snaps)-1].Timestamp.Sub(snaps[0].Timestamp).Hours()
	if hours <= 0 {
		return 0
	}
	drain, refill := flows(snaps)
	return (drain - refill) / hours
}

func confidence(points int) string {
	switch {
	case points < lowConfThreshold:
		return "low"
	case points < medConfThreshold:
		return "medium"
	default:
		return "high"
	}
}

func compareRates(recent, earlier float64) string {
	if earlier <= 0 {
		if recent > 0 {
			return "Started draining recently"
		}
		return "Stable"
	}
	diff := ((recent - earlier) / earlier) * 100
	switch {
	case math.Abs(diff) < 10:
		return "Steady drain"
	case diff > 0:
		return "Draining faster than earlier"
	default:
		return "Draining slower than earlier"
	}
}
