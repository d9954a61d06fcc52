package app

import (
	"time"

	"github.com/j-veylop/sui-faucet-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// RefreshMsg requests a stats refresh.
type RefreshMsg struct{}

// RefreshDoneMsg carries the outcome of a manual refresh. Successful and
// failed refreshes are also reported through service events.
type RefreshDoneMsg struct {
	Err error
}

// ToggleWalletMsg connects the wallet when disconnected and disconnects
// it otherwise.
type ToggleWalletMsg struct{}

// ClaimMsg requests a claim from the faucet.
type ClaimMsg struct{}

// DepositMsg requests a deposit of Amount SUI.
type DepositMsg struct {
	Amount string
}

// CopyDigestMsg copies the last transaction digest to the clipboard.
type CopyDigestMsg struct{}

// CopyToClipboardMsg copies arbitrary text to the clipboard.
type CopyToClipboardMsg struct {
	Text string
}

// ClipboardResultMsg contains the result of a clipboard operation.
type ClipboardResultMsg struct {
	Text    string
	Success bool
	Error   error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// QuitMsg requests the application to quit.
type QuitMsg struct{}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
