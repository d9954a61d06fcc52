package wallet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitEvent(t *testing.T, s *Service, want EventType) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
			return Event{}
		}
	}
}

func TestService_ConnectDisconnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sui.keystore")
	writeKeystore(t, path, EncodeKey(SchemeEd25519, fill(1)))

	s, err := NewService(path, "", &fakeLedger{}, 1)
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.Connected())
	assert.Empty(t, s.Address())

	w, err := s.Connect()
	require.NoError(t, err)
	assert.True(t, s.Connected())
	assert.Equal(t, w.Address(), s.Address())

	ev := waitEvent(t, s, EventConnected)
	assert.Equal(t, w.Address(), ev.Address)

	s.Disconnect()
	assert.False(t, s.Connected())
	ev = waitEvent(t, s, EventDisconnected)
	assert.Equal(t, w.Address(), ev.Address)
}

func TestService_ConnectMissingKeystore(t *testing.T) {
	s, err := NewService(filepath.Join(t.TempDir(), "nope", "sui.keystore"), "", &fakeLedger{}, 1)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Connect()
	assert.Error(t, err)
	assert.False(t, s.Connected())
	waitEvent(t, s, EventError)
}

func TestService_ConnectUnknownAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sui.keystore")
	writeKeystore(t, path, EncodeKey(SchemeEd25519, fill(1)))

	s, err := NewService(path, "0x1234", &fakeLedger{}, 1)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Connect()
	assert.ErrorContains(t, err, "not found")
}

func TestService_WatchAddressChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sui.keystore")
	writeKeystore(t, path, EncodeKey(SchemeEd25519, fill(1)))

	s, err := NewService(path, "", &fakeLedger{}, 1)
	require.NoError(t, err)
	defer s.Close()

	first, err := s.Connect()
	require.NoError(t, err)
	waitEvent(t, s, EventConnected)

	writeKeystore(t, path, EncodeKey(SchemeEd25519, fill(2)))
	ev := waitEvent(t, s, EventAddressChanged)
	assert.NotEqual(t, first.Address(), ev.Address)
	assert.Equal(t, ev.Address, s.Address())

	require.NoError(t, os.Remove(path))
	ev = waitEvent(t, s, EventDisconnected)
	assert.Error(t, ev.Error)
	assert.False(t, s.Connected())
}

func TestService_DisconnectDuringReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sui.keystore")
	writeKeystore(t, path, EncodeKey(SchemeEd25519, fill(1)))

	s, err := NewService(path, "", &fakeLedger{}, 1)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Connect()
	require.NoError(t, err)
	waitEvent(t, s, EventConnected)

	afterReload = s.Disconnect
	t.Cleanup(func() { afterReload = func() {} })

	s.handleFileChange()
	assert.False(t, s.Connected(), "reload must not undo a disconnect")
	assert.Empty(t, s.Address())

	waitEvent(t, s, EventDisconnected)
	select {
	case ev := <-s.Events():
		t.Errorf("unexpected event after disconnect: %s", ev.Type)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestService_CloseIdempotent(t *testing.T) {
	s, err := NewService(filepath.Join(t.TempDir(), "sui.keystore"), "", &fakeLedger{}, 1)
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "connected", EventConnected.String())
	assert.Equal(t, "address_changed", EventAddressChanged.String())
	assert.Equal(t, "unknown", EventType(42).String())
}
