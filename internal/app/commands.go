package app

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	refreshTimeout = 30 * time.Second
	actionTimeout  = 2 * time.Minute
)

// Backend is the part of the service manager the UI drives.
type Backend interface {
	Subscribe() (chan services.ServiceEvent, tea.Cmd)
	RefreshStats(ctx context.Context) (faucet.FaucetStats, error)
	Claim(ctx context.Context) (faucet.ActionResult, error)
	Deposit(ctx context.Context, amount string) (faucet.ActionResult, error)
	Connect() error
	Disconnect()
	Address() string
}

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// refreshCmd refreshes the stats of the connected address.
func refreshCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_, err := b.RefreshStats(ctx)
		return RefreshDoneMsg{Err: err}
	}
}

// claimCmd submits a claim. The outcome arrives as an ActionResultEvent.
func claimCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		_, _ = b.Claim(ctx)
		return nil
	}
}

// depositCmd submits a deposit. The outcome arrives as an ActionResultEvent.
func depositCmd(b Backend, amount string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		_, _ = b.Deposit(ctx, amount)
		return nil
	}
}

// toggleWalletCmd connects or disconnects the wallet. Both outcomes are
// reported through wallet events.
func toggleWalletCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		if b.Address() != "" {
			b.Disconnect()
			return nil
		}
		_ = b.Connect()
		return nil
	}
}

// copyCmd writes text to the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return ClipboardResultMsg{}
		}
		err := clipboardWrite(text)
		return ClipboardResultMsg{Text: text, Success: err == nil, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(b Backend) tea.Cmd {
	ch, _ := b.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands provides a public interface to the command functions.
type Commands struct {
	backend Backend
}

// NewCommands creates a new Commands instance.
func NewCommands(b Backend) *Commands {
	return &Commands{backend: b}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// Refresh returns a command that refreshes the faucet stats.
func (c *Commands) Refresh() tea.Cmd {
	if c.backend == nil {
		return nil
	}
	return refreshCmd(c.backend)
}

// Claim returns a command that submits a claim.
func (c *Commands) Claim() tea.Cmd {
	if c.backend == nil {
		return nil
	}
	return claimCmd(c.backend)
}

// Deposit returns a command that submits a deposit.
func (c *Commands) Deposit(amount string) tea.Cmd {
	if c.backend == nil {
		return nil
	}
	return depositCmd(c.backend, amount)
}

// ToggleWallet returns a command that connects or disconnects the wallet.
func (c *Commands) ToggleWallet() tea.Cmd {
	if c.backend == nil {
		return nil
	}
	return toggleWalletCmd(c.backend)
}

// Copy returns a command that copies text to the clipboard.
func (c *Commands) Copy(text string) tea.Cmd {
	return copyCmd(text)
}

// SubscribeToServices returns a command that subscribes to service events.
func (c *Commands) SubscribeToServices() tea.Cmd {
	if c.backend == nil {
		return nil
	}
	return subscribeToServicesCmd(c.backend)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}

// Batch combines multiple commands into one.
func (c *Commands) Batch(cmds ...tea.Cmd) tea.Cmd {
	return tea.Batch(cmds...)
}
