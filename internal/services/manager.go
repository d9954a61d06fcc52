// Package services provides service orchestration for the TUI and CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/db"
	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/logger"
	"github.com/j-veylop/sui-faucet-tui/internal/models"
	"github.com/j-veylop/sui-faucet-tui/internal/services/projection"
	"github.com/j-veylop/sui-faucet-tui/internal/sui"
	"github.com/j-veylop/sui-faucet-tui/internal/wallet"
)

// Activity log housekeeping.
const (
	snapshotInterval = time.Minute
	retention        = 90 * 24 * time.Hour
)

type (
	// RefreshStartedEvent is emitted when a stats refresh begins.
	RefreshStartedEvent struct {
		Address string
	}

	// StatsUpdatedEvent is emitted after a successful stats refresh.
	StatsUpdatedEvent struct {
		Address       string
		Stats         faucet.FaucetStats
		WalletBalance *uint64 // mist; nil when the balance lookup failed
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Address string
		Error   error
	}

	// WalletEvent is emitted when the wallet connects, disconnects or
	// switches address.
	WalletEvent struct {
		Type    wallet.EventType
		Address string
		Error   error
	}

	// ActionResultEvent is emitted when a claim or deposit finishes.
	ActionResultEvent struct {
		Kind   faucet.ActionKind
		Result faucet.ActionResult
		Error  error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (RefreshStartedEvent) isServiceEvent() {}
func (StatsUpdatedEvent) isServiceEvent()   {}
func (ErrorEvent) isServiceEvent()          {}
func (WalletEvent) isServiceEvent()         {}
func (ActionResultEvent) isServiceEvent()   {}

// notify is swapped in tests.
var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolling enables or disables the periodic refresh while connected.
func WithPolling(enabled bool) Option {
	return func(m *Manager) {
		m.polling = enabled
	}
}

// WithRefreshInterval overrides the polling interval.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.interval = d
	}
}

// WithSettleDelay overrides the delay before the refresh that follows a
// successful action.
func WithSettleDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.settle = d
	}
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	client      *sui.Client
	wallets     *wallet.Service
	controller  *faucet.Controller
	poller      *faucet.Poller
	subscriber  *sui.Subscriber
	database    *db.DB
	projections *projection.Service
	ledgerChan  chan sui.Event
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	polling  bool
	interval time.Duration
	settle   time.Duration

	lastStats    *faucet.FaucetStats
	lastSnapshot models.BalanceSnapshot
	closeOnce    sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:        cfg,
		ledgerChan: make(chan sui.Event, 16),
		stopChan:   make(chan struct{}),
		polling:    true,
		interval:   config.RefreshInterval,
		settle:     config.SettleDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.client = sui.NewClient(cfg.RPCURL)

	var err error
	m.controller, err = faucet.NewController(m.client, cfg.PackageID, cfg.FaucetObjectID)
	if err != nil {
		m.cancel()
		return nil, err
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		m.cancel()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if n, err := m.database.Prune(retention); err != nil {
		logger.Warn("Failed to prune activity log", "error", err)
	} else if n > 0 {
		logger.Info("Pruned activity log", "rows", n)
		_ = m.database.Vacuum()
	}

	m.projections = projection.New(m.database)

	m.wallets, err = wallet.NewService(cfg.KeystorePath, cfg.Address, m.client, cfg.GasBudget)
	if err != nil {
		m.cancel()
		_ = m.database.Close()
		return nil, err
	}

	m.poller = faucet.NewPoller(m.interval, m.refreshTick)

	if cfg.WSURL != "" {
		m.subscriber = sui.NewSubscriber(cfg.WSURL, sui.EventFilter{
			MoveEventModule: &sui.MoveModule{Package: m.controller.PackageID(), Module: config.FaucetModule},
		}, nil)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			_ = m.subscriber.Run(m.ctx, m.ledgerChan)
		}()
	}

	m.wg.Add(1)
	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	defer m.wg.Done()

	for {
		select {
		case event := <-m.wallets.Events():
			m.handleWalletEvent(event)

		case event := <-m.ledgerChan:
			logger.Debug("Faucet event", "type", event.Type, "tx", event.ID.TxDigest)
			m.poller.RefreshAfter(0)

		case <-m.stopChan:
			return
		}
	}
}

// handleWalletEvent starts polling on connect, restarts it on an address
// switch and stops it on disconnect.
func (m *Manager) handleWalletEvent(event wallet.Event) {
	if event.Type == wallet.EventError {
		m.broadcast(ErrorEvent{Service: "wallet", Error: event.Error})
		return
	}

	// Stop first so an in-flight refresh for the old address has returned
	// before the stats are cleared.
	m.poller.Stop()
	m.resetStats()
	m.broadcast(WalletEvent{Type: event.Type, Address: event.Address, Error: event.Error})

	switch event.Type {
	case wallet.EventConnected, wallet.EventAddressChanged:
		if m.polling {
			m.poller.Start(m.ctx)
		}
	}
}

func (m *Manager) resetStats() {
	m.mu.Lock()
	m.lastStats = nil
	m.mu.Unlock()
}

func (m *Manager) refreshTick(ctx context.Context) {
	_, _ = m.RefreshStats(ctx)
}

// RefreshStats refreshes the faucet stats for the connected address and
// broadcasts the outcome.
func (m *Manager) RefreshStats(ctx context.Context) (faucet.FaucetStats, error) {
	address := m.wallets.Address()
	if address == "" {
		return faucet.FaucetStats{}, &faucet.Error{Kind: faucet.KindNotConnected, Op: "refresh", Msg: faucet.MsgNotConnected}
	}

	m.broadcast(RefreshStartedEvent{Address: address})

	stats, err := m.controller.RefreshStats(ctx, address)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("Stats refresh failed", "address", address, "error", err)
			m.broadcast(ErrorEvent{Service: "faucet", Address: address, Error: err})
		}
		return faucet.FaucetStats{}, err
	}

	m.mu.Lock()
	if err := m.staleRefresh(ctx, address); err != nil {
		m.mu.Unlock()
		logger.Debug("Dropping stale refresh", "address", address, "reason", err)
		return faucet.FaucetStats{}, err
	}
	prev := m.lastStats
	m.lastStats = &stats
	m.mu.Unlock()

	m.recordSnapshot(stats)
	if m.cfg.Notifications {
		checkNotifications(prev, &stats)
	}

	event := StatsUpdatedEvent{Address: address, Stats: stats}
	if bal, err := m.client.GetBalance(ctx, address, sui.SuiCoinType); err == nil {
		v := uint64(bal.TotalBalance)
		event.WalletBalance = &v
	} else {
		logger.Debug("Wallet balance unavailable", "error", err)
	}
	m.broadcast(event)

	return stats, nil
}

var errStaleRefresh = errors.New("wallet changed during refresh")

// staleRefresh reports why a finished refresh must not be published: its
// context was cancelled or the wallet no longer has address.
func (m *Manager) staleRefresh(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.wallets.Address() != address {
		return errStaleRefresh
	}
	return nil
}

// recordSnapshot logs the faucet balance when it changed or the last
// snapshot is older than snapshotInterval.
func (m *Manager) recordSnapshot(stats faucet.FaucetStats) {
	m.mu.Lock()
	last := m.lastSnapshot
	due := last.Timestamp.IsZero() ||
		last.RawBalance != stats.RawBalance ||
		stats.FetchedAt.Sub(last.Timestamp) >= snapshotInterval
	if due {
		m.lastSnapshot = models.BalanceSnapshot{RawBalance: stats.RawBalance, Timestamp: stats.FetchedAt}
	}
	m.mu.Unlock()

	if !due {
		return
	}
	snap := &models.BalanceSnapshot{
		FaucetID:   m.controller.FaucetID(),
		RawBalance: stats.RawBalance,
		Timestamp:  stats.FetchedAt,
	}
	if err := m.database.InsertSnapshot(snap); err != nil {
		logger.Warn("Failed to record balance snapshot", "error", err)
	}
}

// checkNotifications sends a desktop notification when the cooldown ends
// and when the faucet balance drops below one claim.
func checkNotifications(prev, cur *faucet.FaucetStats) {
	if prev == nil {
		return
	}

	if !prev.CanClaim && cur.CanClaim {
		body := fmt.Sprintf("You can claim %s SUI again.", cur.ClaimAmount)
		if err := notify("Faucet ready", body); err != nil {
			logger.Debug("Notification failed", "error", err)
		}
	}

	if cur.LowBalance() && !prev.LowBalance() {
		body := fmt.Sprintf("Faucet balance is down to %s SUI.", cur.Balance)
		if err := notify("Faucet running low", body); err != nil {
			logger.Debug("Notification failed", "error", err)
		}
	}
}

// executor returns the connected wallet as an Executor, or nil.
func (m *Manager) executor() faucet.Executor {
	if w := m.wallets.Wallet(); w != nil {
		return w
	}
	return nil
}

// Claim submits a claim for the connected wallet.
func (m *Manager) Claim(ctx context.Context) (faucet.ActionResult, error) {
	res, err := m.controller.Claim(ctx, m.executor())
	m.finishAction(faucet.ActionClaim, res, err, uint64(config.ClaimAmount)*config.MistPerSui)
	return res, err
}

// Deposit submits a deposit of amount SUI from the connected wallet.
func (m *Manager) Deposit(ctx context.Context, amount string) (faucet.ActionResult, error) {
	res, err := m.controller.Deposit(ctx, m.executor(), amount)
	var mist uint64
	if err == nil {
		mist = res.AmountMist
	} else if v, perr := faucet.ParseDepositAmount(amount); perr == nil {
		mist = v
	}
	m.finishAction(faucet.ActionDeposit, res, err, mist)
	return res, err
}

// finishAction logs the attempt, broadcasts the result and schedules the
// settle refresh after a success.
func (m *Manager) finishAction(kind faucet.ActionKind, res faucet.ActionResult, err error, mist uint64) {
	m.broadcast(ActionResultEvent{Kind: kind, Result: res, Error: err})

	if err != nil {
		switch faucet.KindOf(err) {
		case faucet.KindNotConnected, faucet.KindInvalidInput:
			return
		}
		logger.Warn("Faucet action failed", "kind", kind, "error", err)
	} else {
		m.poller.RefreshAfter(m.settle)
	}

	rec := &models.TransactionRecord{
		Kind:       models.TxKind(kind),
		Status:     models.TxStatusSuccess,
		Address:    m.wallets.Address(),
		AmountMist: mist,
		Digest:     res.Digest,
		FaucetID:   m.controller.FaucetID(),
	}
	if err != nil {
		rec.Status = models.TxStatusFailure
		if faucet.IsKind(err, faucet.KindSubmissionRejected) {
			rec.Status = models.TxStatusRejected
		}
		rec.Error = err.Error()
	}
	if err := m.database.InsertTransaction(rec); err != nil {
		logger.Warn("Failed to record transaction", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Connect connects the configured wallet key.
func (m *Manager) Connect() error {
	_, err := m.wallets.Connect()
	return err
}

// Disconnect disconnects the wallet.
func (m *Manager) Disconnect() {
	m.wallets.Disconnect()
}

// Address returns the connected address or "".
func (m *Manager) Address() string {
	return m.wallets.Address()
}

// Stats returns the last successfully refreshed stats, or nil.
func (m *Manager) Stats() *faucet.FaucetStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastStats
}

// Polling reports whether the periodic refresh is running.
func (m *Manager) Polling() bool {
	return m.poller.Running()
}

// GetBalanceHistory returns the recorded faucet balance over timeRange.
func (m *Manager) GetBalanceHistory(timeRange models.TimeRange) (*models.BalanceHistory, error) {
	if m.database == nil {
		return nil, errors.New("database not initialized")
	}
	return m.database.GetBalanceHistory(m.controller.FaucetID(), timeRange)
}

// GetRecentTransactions returns the newest logged claims and deposits of
// the connected address, or of all addresses when disconnected.
func (m *Manager) GetRecentTransactions(limit int) ([]models.TransactionRecord, error) {
	if m.database == nil {
		return nil, errors.New("database not initialized")
	}
	return m.database.GetRecentTransactions(m.wallets.Address(), limit)
}

// GetTransactionSummary aggregates the logged transactions of the connected
// address.
func (m *Manager) GetTransactionSummary() (*models.TransactionSummary, error) {
	if m.database == nil {
		return nil, errors.New("database not initialized")
	}
	return m.database.GetTransactionSummary(m.wallets.Address())
}

// GetDrainProjection estimates when the faucet runs dry from the recorded
// balance snapshots.
func (m *Manager) GetDrainProjection() (*models.DrainProjection, error) {
	if m.projections == nil {
		return nil, errors.New("database not initialized")
	}
	return m.projections.Calculate(m.controller.FaucetID(), time.Now())
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Controller returns the faucet controller.
func (m *Manager) Controller() *faucet.Controller {
	return m.controller
}

// Wallets returns the wallet service.
func (m *Manager) Wallets() *wallet.Service {
	return m.wallets
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close stops polling and the event subscription and releases resources.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		m.cancel()
		close(m.stopChan)
		m.wg.Wait()
		m.poller.Stop()

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.wallets.Close(); err != nil {
			errs = append(errs, err)
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
