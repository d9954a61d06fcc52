package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/sui-faucet-tui/internal/app"
	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/services"
	"github.com/j-veylop/sui-faucet-tui/internal/wallet"
)

const testAddress = "0x7a1c5e2f9b3d4c6a8e0f1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0cb9d3"

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTab(t *testing.T, stats *faucet.FaucetStats) (*Model, *app.State) {
	t.Helper()
	state := app.NewState()
	state.Apply(func(v faucet.ViewState) faucet.ViewState { return v.Connected(testAddress) })
	if stats != nil {
		s := *stats
		state.Apply(func(v faucet.ViewState) faucet.ViewState { return v.RefreshSucceeded(s) })
	}
	m := New(state)
	m.SetSize(120, 60)
	return m, state
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestView_Disconnected(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(120, 40)

	view := m.View()
	if !strings.Contains(view, "Press c to connect your wallet") {
		t.Error("disconnected view should prompt for a wallet")
	}
	if strings.Contains(view, "Faucet Balance") {
		t.Error("stats should not render without a wallet")
	}
}

func TestView_LoadingWithoutStats(t *testing.T) {
	m, _ := newTab(t, nil)
	view := m.View()
	if !strings.Contains(view, "Loading faucet stats") {
		t.Error("connected view without stats should show the spinner")
	}
}

func TestView_Eligible(t *testing.T) {
	stats := faucet.NewStats(50_000_000_000, 0, 1_000, faucet.ClockLedger)
	m, _ := newTab(t, &stats)

	view := m.View()
	for _, want := range []string{"Faucet Balance", "50.00 SUI", "Claim Amount", "10 SUI", "24 hours", "never", "Claim 10 SUI"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Next claim in") {
		t.Error("an eligible wallet should not see a countdown")
	}
}

func TestView_Cooldown(t *testing.T) {
	now := time.Now().UnixMilli()
	stats := faucet.NewStats(50_000_000_000, now-time.Hour.Milliseconds(), now, faucet.ClockLedger)
	m, _ := newTab(t, &stats)
	m.now = func() time.Time { return stats.FetchedAt }

	view := m.View()
	if !strings.Contains(view, "Next claim in") {
		t.Error("cooldown view should show the countdown")
	}
	if !strings.Contains(view, "23h 00m 00s") {
		t.Error("countdown should read 23h 00m 00s")
	}
}

func TestView_LowBalance(t *testing.T) {
	stats := faucet.NewStats(1_000_000_000, 0, 1_000, faucet.ClockLedger)
	m, _ := newTab(t, &stats)
	if !strings.Contains(m.View(), "below one claim") {
		t.Error("low balance should warn")
	}
}

func TestView_Messages(t *testing.T) {
	stats := faucet.NewStats(50_000_000_000, 0, 1_000, faucet.ClockLedger)
	m, state := newTab(t, &stats)

	state.Apply(func(v faucet.ViewState) faucet.ViewState { return v.ActionFailed("boom") })
	if !strings.Contains(m.View(), "boom") {
		t.Error("error banner missing")
	}

	state.Apply(func(v faucet.ViewState) faucet.ViewState {
		return v.ActionSucceeded(faucet.ClaimSuccessMessage("Dg1"), "Dg1")
	})
	view := m.View()
	if !strings.Contains(view, "Successfully claimed") {
		t.Error("success banner missing")
	}
	if strings.Contains(view, "boom") {
		t.Error("success should replace the error")
	}
}

func TestView_Submitting(t *testing.T) {
	stats := faucet.NewStats(50_000_000_000, 0, 1_000, faucet.ClockLedger)
	m, state := newTab(t, &stats)
	state.Apply(faucet.ViewState.BeginAction)

	if !strings.Contains(m.View(), "Claiming...") {
		t.Error("submitting view should show the pending claim")
	}
}

func TestView_WalletBalance(t *testing.T) {
	stats := faucet.NewStats(50_000_000_000, 0, 1_000, faucet.ClockLedger)
	m, state := newTab(t, &stats)
	bal := uint64(3_500_000_000)
	state.SetWalletBalance(&bal)

	if !strings.Contains(m.View(), "3.50 SUI") {
		t.Error("header should show the wallet balance")
	}
}

func TestUpdate_ClaimKey(t *testing.T) {
	m, _ := newTab(t, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should request a claim")
	}
	if _, ok := cmd().(app.ClaimMsg); !ok {
		t.Error("enter should produce ClaimMsg")
	}
}

func TestUpdate_DepositFlow(t *testing.T) {
	m, state := newTab(t, nil)

	m.Update(runes("d"))
	if !m.deposit.Focused() || !state.InputFocused() {
		t.Fatal("d should focus the deposit field")
	}
	if len(m.ShortHelp()) != 2 || m.ShortHelp()[0].Help().Desc != "submit deposit" {
		t.Error("help should switch to the form bindings")
	}

	m.Update(runes("2"))
	m.Update(runes("."))
	m.Update(runes("5"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should submit")
	}
	msg, ok := cmd().(app.DepositMsg)
	if !ok {
		t.Fatalf("expected DepositMsg, got %T", cmd())
	}
	if msg.Amount != "2.5" {
		t.Errorf("Amount = %q, want 2.5", msg.Amount)
	}
	if m.deposit.Focused() || state.InputFocused() {
		t.Error("submitting should release focus")
	}
	if m.deposit.Value() != "2.5" {
		t.Error("amount should stay until the deposit lands")
	}

	m.Update(app.ServiceEventMsg{Event: services.ActionResultEvent{Kind: faucet.ActionDeposit}})
	if m.deposit.Value() != "" {
		t.Error("a successful deposit should clear the field")
	}
}

func TestUpdate_DepositFailureKeepsAmount(t *testing.T) {
	m, _ := newTab(t, nil)
	m.deposit.SetValue("abc")

	m.Update(app.ServiceEventMsg{Event: services.ActionResultEvent{
		Kind:  faucet.ActionDeposit,
		Error: errors.New("rejected"),
	}})
	if m.deposit.Value() != "abc" {
		t.Error("a failed deposit should keep the amount for correction")
	}
}

func TestUpdate_DepositCancel(t *testing.T) {
	m, state := newTab(t, nil)
	m.Update(runes("d"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("esc should not emit a command")
	}
	if m.deposit.Focused() || state.InputFocused() {
		t.Error("esc should blur the field")
	}
}

func TestUpdate_DepositNeedsWallet(t *testing.T) {
	state := app.NewState()
	m := New(state)

	m.Update(runes("d"))
	if m.deposit.Focused() || state.InputFocused() {
		t.Error("deposit form should stay closed without a wallet")
	}
}

func TestUpdate_DisconnectBlursInput(t *testing.T) {
	m, state := newTab(t, nil)
	m.Update(runes("d"))
	m.Update(runes("1"))

	m.Update(app.ServiceEventMsg{Event: services.WalletEvent{Type: wallet.EventDisconnected, Address: testAddress}})
	if m.deposit.Focused() || state.InputFocused() || m.deposit.Value() != "" {
		t.Error("disconnect should reset the deposit form")
	}
}

func TestHelp(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) != 2 {
		t.Errorf("ShortHelp has %d bindings, want 2", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp has %d groups, want 2", len(m.FullHelp()))
	}
}
