// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// State is shared by the root model and the tabs. The faucet view is held
// as an immutable faucet.ViewState; writers swap in a new value.
type State struct {
	mu sync.RWMutex

	view          faucet.ViewState
	walletBalance *uint64
	inputFocused  bool
	lastUpdated   time.Time

	notifications []Notification
}

// NewState returns an empty, disconnected state.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
	}
}

// View returns the current faucet view.
func (s *State) View() faucet.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Apply replaces the view with fn(view) and returns the new value.
func (s *State) Apply(fn func(faucet.ViewState) faucet.ViewState) faucet.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.view.Stats
	s.view = fn(s.view)
	if s.view.Stats != prev && s.view.Stats != nil {
		s.lastUpdated = time.Now()
	}
	if !s.view.IsConnected() {
		s.walletBalance = nil
	}
	return s.view
}

// Address returns the connected address or "".
func (s *State) Address() string {
	return s.View().Address
}

// Stats returns the latest faucet stats or nil.
func (s *State) Stats() *faucet.FaucetStats {
	return s.View().Stats
}

// SetWalletBalance records the connected wallet's SUI balance in mist.
func (s *State) SetWalletBalance(mist *uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.walletBalance = mist
}

// WalletBalance returns the wallet balance in mist, nil when unknown.
func (s *State) WalletBalance() *uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.walletBalance
}

// SetInputFocused marks a text input as owning the keyboard.
func (s *State) SetInputFocused(focused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputFocused = focused
}

// InputFocused reports whether a text input owns the keyboard.
func (s *State) InputFocused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputFocused
}

// GetLastUpdated returns when stats were last replaced.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.lastUpdated)
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
