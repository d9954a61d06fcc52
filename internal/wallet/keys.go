// Package wallet signs Sui transactions with keys from a local Sui keystore.
package wallet

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"

	"github.com/j-veylop/sui-faucet-tui/internal/sui"
)

// Scheme is the signature scheme flag byte.
type Scheme byte

// Supported signature schemes.
const (
	SchemeEd25519   Scheme = 0x00
	SchemeSecp256k1 Scheme = 0x01
)

func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	default:
		return fmt.Sprintf("scheme(0x%02x)", byte(s))
	}
}

// PublicKeySize returns the public key length for the scheme, or 0.
func (s Scheme) PublicKeySize() int {
	switch s {
	case SchemeEd25519:
		return ed25519.PublicKeySize
	case SchemeSecp256k1:
		return 33
	default:
		return 0
	}
}

// Signer holds one key pair.
type Signer interface {
	Scheme() Scheme
	PublicKey() []byte
	Address() sui.Address
	// Sign signs a 32-byte transaction digest and returns the raw 64-byte
	// signature.
	Sign(digest []byte) ([]byte, error)
}

// DeriveAddress returns blake2b-256(flag || pubkey).
func DeriveAddress(scheme Scheme, pub []byte) sui.Address {
	buf := make([]byte, 0, 1+len(pub))
	buf = append(buf, byte(scheme))
	buf = append(buf, pub...)
	return sui.Address(blake2b.Sum256(buf))
}

type ed25519Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	addr sui.Address
}

// NewEd25519Signer builds a signer from a 32-byte seed.
func NewEd25519Signer(seed []byte) (Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &ed25519Signer{
		priv: priv,
		pub:  pub,
		addr: DeriveAddress(SchemeEd25519, pub),
	}, nil
}

func (s *ed25519Signer) Scheme() Scheme       { return SchemeEd25519 }
func (s *ed25519Signer) PublicKey() []byte    { return s.pub }
func (s *ed25519Signer) Address() sui.Address { return s.addr }

func (s *ed25519Signer) Sign(digest []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, digest), nil
}

type secp256k1Signer struct {
	priv *ecdsa.PrivateKey
	pub  []byte
	addr sui.Address
}

// NewSecp256k1Signer builds a signer from a 32-byte private scalar.
func NewSecp256k1Signer(key []byte) (Signer, error) {
	priv, err := crypto.ToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("secp256k1 key: %w", err)
	}
	pub := crypto.CompressPubkey(&priv.PublicKey)
	return &secp256k1Signer{
		priv: priv,
		pub:  pub,
		addr: DeriveAddress(SchemeSecp256k1, pub),
	}, nil
}

func (s *secp256k1Signer) Scheme() Scheme       { return SchemeSecp256k1 }
func (s *secp256k1Signer) PublicKey() []byte    { return s.pub }
func (s *secp256k1Signer) Address() sui.Address { return s.addr }

// Sign hashes the digest with SHA-256 and returns the compact [R || S] form.
func (s *secp256k1Signer) Sign(digest []byte) ([]byte, error) {
	h := sha256.Sum256(digest)
	sig, err := crypto.Sign(h[:], s.priv)
	if err != nil {
		return nil, fmt.Errorf("secp256k1 sign: %w", err)
	}
	return sig[:64], nil
}

// NewSigner builds a signer for the given scheme and raw private key.
func NewSigner(scheme Scheme, key []byte) (Signer, error) {
	switch scheme {
	case SchemeEd25519:
		return NewEd25519Signer(key)
	case SchemeSecp256k1:
		return NewSecp256k1Signer(key)
	default:
		return nil, fmt.Errorf("unsupported key scheme %s", scheme)
	}
}
