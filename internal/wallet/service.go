package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/sui-faucet-tui/internal/logger"
)

// ErrNotConnected is returned by operations that need a connected wallet.
var ErrNotConnected = errors.New("wallet not connected")

// afterReload runs between reading the keystore and installing the result.
var afterReload = func() {}

// EventType defines the type of wallet event.
type EventType int

const (
	EventConnected EventType = iota
	EventDisconnected
	EventAddressChanged
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventAddressChanged:
		return "address_changed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event represents a wallet connection change.
type Event struct {
	Type    EventType
	Address string
	Error   error
}

// Service owns the wallet connection and reloads the keystore when it
// changes on disk.
type Service struct {
	mu            sync.RWMutex
	keystorePath  string
	address       string
	ledger        Ledger
	gasBudget     uint64
	wallet        *Wallet
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// NewService creates a disconnected wallet service. address selects the key;
// empty means the first key in the keystore. The keystore directory is
// watched when it exists.
func NewService(keystorePath, address string, ledger Ledger, gasBudget uint64) (*Service, error) {
	s := &Service{
		keystorePath: keystorePath,
		address:      address,
		ledger:       ledger,
		gasBudget:    gasBudget,
		eventChan:    make(chan Event, 100),
		stopChan:     make(chan struct{}),
	}

	if _, err := os.Stat(filepath.Dir(keystorePath)); err == nil {
		if err := s.startWatcher(); err != nil {
			return nil, fmt.Errorf("failed to start keystore watcher: %w", err)
		}
	} else {
		logger.Warn("Keystore directory missing, not watching", "path", keystorePath)
	}

	return s, nil
}

// Events returns the event channel for subscribing to wallet changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// KeystorePath returns the watched keystore file.
func (s *Service) KeystorePath() string {
	return s.keystorePath
}

// Connect loads the keystore and selects the configured key.
func (s *Service) Connect() (*Wallet, error) {
	w, err := s.load()
	if err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return nil, err
	}

	s.mu.Lock()
	s.wallet = w
	s.mu.Unlock()

	logger.Info("Wallet connected", "address", w.Address())
	s.sendEvent(Event{Type: EventConnected, Address: w.Address()})
	return w, nil
}

// Disconnect forgets the active key.
func (s *Service) Disconnect() {
	s.mu.Lock()
	was := s.wallet
	s.wallet = nil
	s.mu.Unlock()

	if was == nil {
		return
	}
	logger.Info("Wallet disconnected", "address", was.Address())
	s.sendEvent(Event{Type: EventDisconnected, Address: was.Address()})
}

// Wallet returns the connected wallet or nil.
func (s *Service) Wallet() *Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet
}

// Connected reports whether a wallet is connected.
func (s *Service) Connected() bool {
	return s.Wallet() != nil
}

// Address returns the connected address or "".
func (s *Service) Address() string {
	if w := s.Wallet(); w != nil {
		return w.Address()
	}
	return ""
}

func (s *Service) load() (*Wallet, error) {
	ks, err := LoadKeystore(s.keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keystore: %w", err)
	}
	signer, err := ks.Find(s.address)
	if err != nil {
		return nil, err
	}
	return New(s.ledger, signer, s.gasBudget), nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory to catch atomic replaces of the keystore
	if err := watcher.Add(filepath.Dir(s.keystorePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		s.watcher = nil
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.keystorePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange re-reads the keystore while connected. A missing key
// disconnects; a different key is reported as an address change.
func (s *Service) handleFileChange() {
	s.mu.RLock()
	current := s.wallet
	s.mu.RUnlock()

	if current == nil {
		return
	}

	w, err := s.load()
	afterReload()

	s.mu.Lock()
	if s.wallet != current {
		// Disconnected or reconnected while the keystore was being read.
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.wallet = nil
		s.mu.Unlock()
		logger.Warn("Keystore changed, disconnecting", "error", err)
		s.sendEvent(Event{Type: EventDisconnected, Address: current.Address(), Error: err})
		return
	}
	s.wallet = w
	s.mu.Unlock()

	if w.Address() != current.Address() {
		logger.Info("Wallet address changed", "from", current.Address(), "to", w.Address())
		s.sendEvent(Event{Type: EventAddressChanged, Address: w.Address()})
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
