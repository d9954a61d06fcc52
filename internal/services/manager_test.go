package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/models"
	"github.com/j-veylop/sui-faucet-tui/internal/wallet"
)

const (
	testPackage = "0xec19251f25823e9b5e65dc5f9083433eb2dae55be421e866d30aa0c7170cf1b5"
	testFaucet  = "0xdab98545a6dea43786a6e4b733a6a92f08553d4fb3061a8711f0a6b3ac41b36e"
	testDigest  = "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw"
)

// fakeNode answers the JSON-RPC methods the manager uses.
type fakeNode struct {
	mu          sync.Mutex
	balance     string
	missing     bool
	execStatus  string
	calls       map[string]int
	executeHits atomic.Int32

	// holdInspect, when set, parks devInspect requests until the client
	// gives up, reporting each one on inspecting.
	holdInspect bool
	inspecting  chan struct{}
}

func newFakeNode(t *testing.T) (*fakeNode, *httptest.Server) {
	t.Helper()
	n := &fakeNode{
		balance:    "5000000000",
		execStatus: "success",
		calls:      map[string]int{},
		inspecting: make(chan struct{}, 1),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64            `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		n.mu.Lock()
		n.calls[req.Method]++
		hold := n.holdInspect && req.Method == "sui_devInspectTransactionBlock"
		result := n.result(req.Method, req.Params)
		n.mu.Unlock()

		if hold {
			select {
			case n.inspecting <- struct{}{}:
			default:
			}
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(server.Close)
	return n, server
}

func (n *fakeNode) result(method string, params []json.RawMessage) json.RawMessage {
	switch method {
	case "sui_getObject":
		var id string
		_ = json.Unmarshal(params[0], &id)
		if id == config.ClockObjectID {
			return json.RawMessage(`{"data":{"objectId":"0x6","version":"1","digest":"` + testDigest + `",
				"content":{"dataType":"moveObject","fields":{"timestamp_ms":"1700000000000"}}}}`)
		}
		if n.missing {
			return json.RawMessage(`{"error":{"code":"notExists","object_id":"` + testFaucet + `"}}`)
		}
		return json.RawMessage(`{"data":{"objectId":"` + testFaucet + `","version":"9","digest":"` + testDigest + `",
			"owner":{"Shared":{"initial_shared_version":7}},
			"content":{"dataType":"moveObject","fields":{"balance":"` + n.balance + `"}}}}`)

	case "sui_devInspectTransactionBlock":
		return json.RawMessage(`{"results":[{"returnValues":[[[0,0,0,0,0,0,0,0],"u64"]]}]}`)

	case "suix_getBalance":
		return json.RawMessage(`{"coinType":"0x2::sui::SUI","coinObjectCount":1,"totalBalance":"2000000000"}`)

	case "suix_getCoins":
		return json.RawMessage(`{"data":[{"coinType":"0x2::sui::SUI","coinObjectId":"0x01",
			"version":"3","digest":"` + testDigest + `","balance":"50000000000"}],"nextCursor":null,"hasNextPage":false}`)

	case "suix_getReferenceGasPrice":
		return json.RawMessage(`"1000"`)

	case "sui_executeTransactionBlock":
		n.executeHits.Add(1)
		return json.RawMessage(`{"digest":"Dg1","effects":{"status":{"status":"` + n.execStatus + `","error":"MoveAbort(faucet, 1)"}}}`)
	}
	return json.RawMessage(`null`)
}

func (n *fakeNode) set(fn func(n *fakeNode)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n)
}

func (n *fakeNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func testConfig(t *testing.T, rpcURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	keys, err := json.Marshal([]string{wallet.EncodeKey(wallet.SchemeEd25519, seed)})
	if err != nil {
		t.Fatal(err)
	}
	keystore := filepath.Join(dir, "sui.keystore")
	if err := os.WriteFile(keystore, keys, 0o600); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		RPCURL:         rpcURL,
		KeystorePath:   keystore,
		PackageID:      testPackage,
		FaucetObjectID: testFaucet,
		GasBudget:      config.DefaultGasBudget,
		DatabasePath:   filepath.Join(dir, "activity.db"),
	}
}

func newTestManager(t *testing.T, cfg *config.Config, opts ...Option) *Manager {
	t.Helper()
	mgr, err := NewManager(cfg, opts...)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

// waitFor returns the first event of type T, skipping others.
func waitFor[T ServiceEvent](t *testing.T, ch <-chan ServiceEvent) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatal("event channel closed")
			}
			if typed, ok := ev.(T); ok {
				return typed
			}
		case <-timeout:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestNewManager(t *testing.T) {
	_, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL))

	if mgr.Wallets() == nil {
		t.Error("Wallet service should be initialized")
	}
	if mgr.Controller() == nil {
		t.Error("Controller should be initialized")
	}
	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.Address() != "" {
		t.Error("Manager should start disconnected")
	}
	if mgr.Polling() {
		t.Error("Poller should not run before connecting")
	}
}

func TestNewManager_InvalidFaucetID(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.FaucetObjectID = "nope"

	if _, err := NewManager(cfg); err == nil {
		t.Fatal("NewManager should reject an invalid faucet id")
	}
}

func TestManager_ConnectStartsPolling(t *testing.T) {
	_, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL), WithRefreshInterval(time.Hour))
	ch, _ := mgr.Subscribe()

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	connected := waitFor[WalletEvent](t, ch)
	if connected.Type != wallet.EventConnected || connected.Address != mgr.Address() {
		t.Errorf("unexpected wallet event %+v", connected)
	}

	started := waitFor[RefreshStartedEvent](t, ch)
	if started.Address != mgr.Address() {
		t.Errorf("refresh started for %q, want %q", started.Address, mgr.Address())
	}

	updated := waitFor[StatsUpdatedEvent](t, ch)
	if updated.Stats.Balance != "5.00" {
		t.Errorf("Balance = %q, want 5.00", updated.Stats.Balance)
	}
	if !updated.Stats.CanClaim {
		t.Error("address without a prior claim should be eligible")
	}
	if updated.Stats.ClockSource != faucet.ClockLedger {
		t.Errorf("ClockSource = %v, want ledger", updated.Stats.ClockSource)
	}
	if updated.WalletBalance == nil || *updated.WalletBalance != 2_000_000_000 {
		t.Errorf("WalletBalance = %v, want 2000000000", updated.WalletBalance)
	}
	if !mgr.Polling() {
		t.Error("Poller should run while connected")
	}
	if s := mgr.Stats(); s == nil || s.RawBalance != 5_000_000_000 {
		t.Errorf("Stats() = %+v", s)
	}

	history, err := mgr.GetBalanceHistory(models.TimeRange24Hours)
	if err != nil {
		t.Fatalf("GetBalanceHistory failed: %v", err)
	}
	if len(history.Snapshots) != 1 {
		t.Errorf("recorded %d snapshots, want 1", len(history.Snapshots))
	}
}

func TestManager_DisconnectStopsPolling(t *testing.T) {
	_, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL), WithRefreshInterval(time.Hour))
	ch, _ := mgr.Subscribe()

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	waitFor[StatsUpdatedEvent](t, ch)

	mgr.Disconnect()
	ev := waitFor[WalletEvent](t, ch)
	if ev.Type != wallet.EventDisconnected {
		t.Fatalf("got %v, want disconnected", ev.Type)
	}
	deadline := time.Now().Add(time.Second)
	for mgr.Polling() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if mgr.Polling() {
		t.Error("Poller should stop on disconnect")
	}
	if mgr.Stats() != nil {
		t.Error("Stats should be cleared on disconnect")
	}

	_, err := mgr.RefreshStats(context.Background())
	if !faucet.IsKind(err, faucet.KindNotConnected) {
		t.Errorf("RefreshStats while disconnected = %v, want not connected", err)
	}
}

func TestManager_DisconnectDuringRefresh(t *testing.T) {
	node, server := newFakeNode(t)
	node.set(func(n *fakeNode) { n.holdInspect = true })

	mgr := newTestManager(t, testConfig(t, server.URL), WithRefreshInterval(time.Hour))
	ch, _ := mgr.Subscribe()

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	select {
	case <-node.inspecting:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never reached the claim-time lookup")
	}

	mgr.Disconnect()
	deadline := time.Now().Add(2 * time.Second)
	for mgr.Polling() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if mgr.Polling() {
		t.Fatal("Poller should stop on disconnect")
	}
	// Let the cancelled refresh finish unwinding.
	time.Sleep(50 * time.Millisecond)

	if s := mgr.Stats(); s != nil {
		t.Errorf("Stats() = %+v after disconnect, want nil", s)
	}

	history, err := mgr.GetBalanceHistory(models.TimeRangeAllTime)
	if err != nil {
		t.Fatalf("GetBalanceHistory failed: %v", err)
	}
	if len(history.Snapshots) != 0 {
		t.Errorf("recorded %d snapshots from a cancelled refresh", len(history.Snapshots))
	}

	for {
		select {
		case ev := <-ch:
			if e, ok := ev.(StatsUpdatedEvent); ok {
				t.Errorf("cancelled refresh published stats: %+v", e.Stats)
			}
			continue
		default:
		}
		break
	}
}

func TestManager_RefreshError(t *testing.T) {
	node, server := newFakeNode(t)
	node.set(func(n *fakeNode) { n.missing = true })

	mgr := newTestManager(t, testConfig(t, server.URL), WithPolling(false))
	ch, _ := mgr.Subscribe()

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	_, err := mgr.RefreshStats(context.Background())
	if !faucet.IsKind(err, faucet.KindNotFound) {
		t.Fatalf("RefreshStats error = %v, want not found", err)
	}

	ev := waitFor[ErrorEvent](t, ch)
	if ev.Service != "faucet" {
		t.Errorf("Service = %q, want faucet", ev.Service)
	}
	if got := ev.Error.Error(); got != "Failed to fetch faucet stats: Faucet object not found" {
		t.Errorf("error message = %q", got)
	}
	if node.count("sui_devInspectTransactionBlock") != 0 {
		t.Error("refresh should abort before the inspect call")
	}
}

func TestManager_Claim(t *testing.T) {
	node, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL), WithPolling(false))
	ch, _ := mgr.Subscribe()

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	res, err := mgr.Claim(context.Background())
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if res.Message != "Successfully claimed 10 SUI! Digest: Dg1" {
		t.Errorf("Message = %q", res.Message)
	}

	ev := waitFor[ActionResultEvent](t, ch)
	if ev.Kind != faucet.ActionClaim || ev.Error != nil || ev.Result.Digest != "Dg1" {
		t.Errorf("unexpected action event %+v", ev)
	}
	if node.executeHits.Load() != 1 {
		t.Errorf("execute called %d times, want 1", node.executeHits.Load())
	}

	recs, err := mgr.GetRecentTransactions(10)
	if err != nil {
		t.Fatalf("GetRecentTransactions failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("logged %d transactions, want 1", len(recs))
	}
	if recs[0].Kind != models.TxKindClaim || recs[0].Status != models.TxStatusSuccess || recs[0].AmountMist != 10_000_000_000 {
		t.Errorf("unexpected record %+v", recs[0])
	}
}

func TestManager_ClaimRejectedOnChain(t *testing.T) {
	node, server := newFakeNode(t)
	node.set(func(n *fakeNode) { n.execStatus = "failure" })
	mgr := newTestManager(t, testConfig(t, server.URL), WithPolling(false))

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	_, err := mgr.Claim(context.Background())
	if err == nil || err.Error() != "MoveAbort(faucet, 1)" {
		t.Fatalf("Claim error = %v, want effects error text", err)
	}

	summary, err := mgr.GetTransactionSummary()
	if err != nil {
		t.Fatalf("GetTransactionSummary failed: %v", err)
	}
	if summary.Failures != 1 || summary.Claims != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestManager_DepositInvalidAmount(t *testing.T) {
	node, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL), WithPolling(false))
	ch, _ := mgr.Subscribe()

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	_, err := mgr.Deposit(context.Background(), "-1")
	if !faucet.IsKind(err, faucet.KindInvalidInput) {
		t.Fatalf("Deposit error = %v, want invalid input", err)
	}

	ev := waitFor[ActionResultEvent](t, ch)
	if ev.Error == nil || ev.Error.Error() != "Please enter a valid amount" {
		t.Errorf("unexpected action event %+v", ev)
	}
	if node.executeHits.Load() != 0 {
		t.Error("invalid deposit must not reach the network")
	}

	recs, _ := mgr.GetRecentTransactions(10)
	if len(recs) != 0 {
		t.Errorf("invalid deposit was logged: %+v", recs)
	}
}

func TestManager_DepositSchedulesRefresh(t *testing.T) {
	node, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL),
		WithRefreshInterval(time.Hour), WithSettleDelay(10*time.Millisecond))
	ch, _ := mgr.Subscribe()

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	waitFor[StatsUpdatedEvent](t, ch)

	node.set(func(n *fakeNode) { n.balance = "6500000000" })
	res, err := mgr.Deposit(context.Background(), "1.5")
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if res.Message != "Successfully deposited 1.5 SUI!" {
		t.Errorf("Message = %q", res.Message)
	}

	updated := waitFor[StatsUpdatedEvent](t, ch)
	if updated.Stats.Balance != "6.50" {
		t.Errorf("Balance after settle refresh = %q, want 6.50", updated.Stats.Balance)
	}
}

func TestManager_ActionsRequireWallet(t *testing.T) {
	_, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL), WithPolling(false))

	if _, err := mgr.Claim(context.Background()); !faucet.IsKind(err, faucet.KindNotConnected) {
		t.Errorf("Claim without wallet = %v", err)
	}
	if _, err := mgr.Deposit(context.Background(), "1"); !faucet.IsKind(err, faucet.KindNotConnected) {
		t.Errorf("Deposit without wallet = %v", err)
	}
}

func TestCheckNotifications(t *testing.T) {
	var got []string
	orig := notify
	notify = func(title, _ string) error {
		got = append(got, title)
		return errors.New("no notification daemon")
	}
	defer func() { notify = orig }()

	cooling := faucet.NewStats(20_000_000_000, 1_000, 2_000, faucet.ClockLocal)
	ready := faucet.NewStats(20_000_000_000, 0, 2_000, faucet.ClockLocal)
	low := faucet.NewStats(1_000_000_000, 0, 2_000, faucet.ClockLocal)

	checkNotifications(nil, &ready)
	if len(got) != 0 {
		t.Fatalf("first refresh should not notify, got %v", got)
	}

	checkNotifications(&cooling, &ready)
	checkNotifications(&ready, &ready)
	checkNotifications(&ready, &low)
	checkNotifications(&low, &low)

	want := []string{"Faucet ready", "Faucet running low"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("notifications = %v, want %v", got, want)
	}
}

func TestManager_Broadcast(t *testing.T) {
	_, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL))

	ch1, _ := mgr.Subscribe()
	ch2, _ := mgr.Subscribe()

	mgr.broadcast(ErrorEvent{Service: "test", Error: errors.New("boom")})

	for i, ch := range []chan ServiceEvent{ch1, ch2} {
		select {
		case ev := <-ch:
			if e, ok := ev.(ErrorEvent); !ok || e.Service != "test" {
				t.Errorf("subscriber %d got %+v", i, ev)
			}
		case <-time.After(time.Second):
			t.Errorf("subscriber %d got nothing", i)
		}
	}

	mgr.Unsubscribe(ch1)
	if _, ok := <-ch1; ok {
		t.Error("unsubscribed channel should be closed")
	}
}

func TestManager_BroadcastWithoutSubscribers(t *testing.T) {
	_, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL))

	// Events with nobody listening are dropped, not queued for later.
	for i := 0; i < 500; i++ {
		mgr.broadcast(ErrorEvent{Service: "early", Error: errors.New("boom")})
	}

	ch, _ := mgr.Subscribe()
	mgr.broadcast(ErrorEvent{Service: "late", Error: errors.New("boom")})

	select {
	case ev := <-ch:
		if e, ok := ev.(ErrorEvent); !ok || e.Service != "late" {
			t.Errorf("first event = %+v, want the late one", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber got nothing")
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- RefreshStartedEvent{Address: "0x1"}

	msg := WaitForEvent(ch)()
	if ev, ok := msg.(RefreshStartedEvent); !ok || ev.Address != "0x1" {
		t.Errorf("WaitForEvent() = %#v", msg)
	}

	close(ch)
	if msg := WaitForEvent(ch)(); msg != nil {
		t.Errorf("WaitForEvent() on closed channel = %#v, want nil", msg)
	}
}

func TestManager_Close(t *testing.T) {
	_, server := newFakeNode(t)
	mgr, err := NewManager(testConfig(t, server.URL))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	ch, _ := mgr.Subscribe()

	if err := mgr.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed")
	}
}

func TestManager_GetDrainProjection(t *testing.T) {
	_, server := newFakeNode(t)
	mgr := newTestManager(t, testConfig(t, server.URL), WithPolling(false))

	proj, err := mgr.GetDrainProjection()
	if err != nil {
		t.Fatalf("GetDrainProjection failed: %v", err)
	}
	if proj.DataPoints != 0 || proj.Status != models.ProjectionUnknown {
		t.Errorf("empty log should give an unknown projection, got %+v", proj)
	}

	if err := mgr.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if _, err := mgr.RefreshStats(context.Background()); err != nil {
		t.Fatalf("RefreshStats failed: %v", err)
	}

	proj, err = mgr.GetDrainProjection()
	if err != nil {
		t.Fatalf("GetDrainProjection failed: %v", err)
	}
	if proj.DataPoints != 1 || proj.Balance == 0 {
		t.Errorf("projection should see the recorded snapshot, got %+v", proj)
	}
	if proj.FaucetID != mgr.Controller().FaucetID() {
		t.Errorf("FaucetID = %q", proj.FaucetID)
	}
}
