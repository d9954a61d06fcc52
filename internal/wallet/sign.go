package wallet

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"

	"github.com/j-veylop/sui-faucet-tui/internal/sui"
)

// transactionIntent is IntentScope::TransactionData, IntentVersion::V0,
// AppId::Sui.
var transactionIntent = []byte{0, 0, 0}

const signatureSize = 64

// TransactionDigest returns blake2b-256(intent || txBytes), the message
// every scheme signs.
func TransactionDigest(txBytes []byte) [32]byte {
	msg := make([]byte, 0, len(transactionIntent)+len(txBytes))
	msg = append(msg, transactionIntent...)
	msg = append(msg, txBytes...)
	return blake2b.Sum256(msg)
}

// SignTransaction signs BCS transaction bytes and returns the serialized
// signature flag || sig || pubkey, base64 encoded.
func SignTransaction(s Signer, txBytes []byte) (string, error) {
	digest := TransactionDigest(txBytes)

	sig, err := s.Sign(digest[:])
	if err != nil {
		return "", err
	}
	if len(sig) != signatureSize {
		return "", fmt.Errorf("signature is %d bytes, want %d", len(sig), signatureSize)
	}

	pub := s.PublicKey()
	out := make([]byte, 0, 1+signatureSize+len(pub))
	out = append(out, byte(s.Scheme()))
	out = append(out, sig...)
	out = append(out, pub...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// VerifyTransaction checks a serialized signature against txBytes and
// returns the address of the signer.
func VerifyTransaction(txBytes []byte, serialized string) (sui.Address, error) {
	var zero sui.Address

	raw, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		return zero, fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) < 1+signatureSize {
		return zero, errors.New("signature too short")
	}

	scheme := Scheme(raw[0])
	sig := raw[1 : 1+signatureSize]
	pub := raw[1+signatureSize:]
	if size := scheme.PublicKeySize(); size == 0 || len(pub) != size {
		return zero, fmt.Errorf("bad public key for %s", scheme)
	}

	digest := TransactionDigest(txBytes)

	switch scheme {
	case SchemeEd25519:
		if _, err := new(edwards25519.Point).SetBytes(pub); err != nil {
			return zero, fmt.Errorf("ed25519 public key not on curve: %w", err)
		}
		if !ed25519.Verify(pub, digest[:], sig) {
			return zero, errors.New("invalid ed25519 signature")
		}
	case SchemeSecp256k1:
		h := sha256.Sum256(digest[:])
		if !crypto.VerifySignature(pub, h[:], sig) {
			return zero, errors.New("invalid secp256k1 signature")
		}
	}

	return DeriveAddress(scheme, pub), nil
}
