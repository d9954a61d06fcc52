// Package sui is a small client for the Sui JSON-RPC API and the BCS
// transaction format.
package sui

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the byte length of addresses and object ids.
const AddressLength = 32

// Address is a Sui account address or object id.
type Address [AddressLength]byte

// ParseAddress parses a 0x-prefixed hex string. Short forms such as "0x6" are
// left-padded with zeros.
func ParseAddress(s string) (Address, error) {
	var a Address

	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if h == "" || len(h) > AddressLength*2 {
		return a, fmt.Errorf("invalid address %q", s)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}

	b, err := hex.DecodeString(h)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}

	copy(a[AddressLength-len(b):], b)
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error. Use only for
// constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the canonical 0x-prefixed, 64 hex character form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// NormalizeAddress returns the canonical form of s, or s unchanged when it is
// not a valid address.
func NormalizeAddress(s string) string {
	a, err := ParseAddress(s)
	if err != nil {
		return s
	}
	return a.String()
}
