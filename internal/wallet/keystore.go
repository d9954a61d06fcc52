package wallet

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/j-veylop/sui-faucet-tui/internal/logger"
	"github.com/j-veylop/sui-faucet-tui/internal/sui"
)

// ErrNoKeys is returned when a keystore holds no usable key.
var ErrNoKeys = errors.New("keystore has no usable keys")

// Keystore is the set of keys from a Sui CLI keystore file.
type Keystore struct {
	signers []Signer
}

// LoadKeystore reads a Sui keystore: a JSON array of base64 flag || key.
// Entries that cannot be decoded are skipped.
func LoadKeystore(path string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseKeystore(data)
}

// ParseKeystore parses keystore file contents.
func ParseKeystore(data []byte) (*Keystore, error) {
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}

	ks := &Keystore{}
	for i, entry := range entries {
		s, err := ParseKey(entry)
		if err != nil {
			logger.Warn("Skipping keystore entry", "index", i, "error", err)
			continue
		}
		ks.signers = append(ks.signers, s)
	}

	if len(ks.signers) == 0 {
		return nil, ErrNoKeys
	}
	return ks, nil
}

// ParseKey decodes one base64 keystore entry.
func ParseKey(entry string) (Signer, error) {
	entry = strings.TrimSpace(entry)
	if strings.HasPrefix(entry, "suiprivkey") {
		return nil, errors.New("bech32 suiprivkey entries are not supported")
	}

	raw, err := base64.StdEncoding.DecodeString(entry)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(raw) != 33 {
		return nil, fmt.Errorf("key is %d bytes, want 33", len(raw))
	}
	return NewSigner(Scheme(raw[0]), raw[1:])
}

// EncodeKey is the inverse of ParseKey for a raw private key.
func EncodeKey(scheme Scheme, key []byte) string {
	raw := make([]byte, 0, 1+len(key))
	raw = append(raw, byte(scheme))
	raw = append(raw, key...)
	return base64.StdEncoding.EncodeToString(raw)
}

// Signers returns all keys in file order.
func (k *Keystore) Signers() []Signer {
	return append([]Signer(nil), k.signers...)
}

// Addresses returns the address of every key.
func (k *Keystore) Addresses() []string {
	out := make([]string, len(k.signers))
	for i, s := range k.signers {
		out[i] = s.Address().String()
	}
	return out
}

// Find returns the signer for address. An empty address selects the first
// key.
func (k *Keystore) Find(address string) (Signer, error) {
	if address == "" {
		return k.signers[0], nil
	}

	want, err := sui.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	for _, s := range k.signers {
		if s.Address() == want {
			return s, nil
		}
	}
	return nil, fmt.Errorf("address %s not found in keystore", want)
}
