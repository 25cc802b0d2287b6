// Package address encodes and decodes wallet addresses: the human-facing
// string form of a (public spend key, public view key) pair, using a
// hex-plus-checksum encoding in the same spirit as other unlock-hash style
// address formats.
package address

import (
	"encoding/hex"
	"errors"

	"github.com/rivinelabs/subwallet/crypto"
)

// ChecksumSize is the number of checksum bytes appended to an address, a
// typo guard rather than a cryptographic checksum.
const ChecksumSize = 4

// ErrInvalidAddress is returned when a string fails to decode as an
// address: wrong length, bad hex, or a bad checksum.
var ErrInvalidAddress = errors.New("invalid address")

// AddressToKeys decodes an address back into its public spend and view
// keys.
func AddressToKeys(addr string) (spendKey, viewKey crypto.PublicKey, err error) {
	raw, err := hex.DecodeString(addr)
	if err != nil {
		return crypto.PublicKey{}, crypto.PublicKey{}, ErrInvalidAddress
	}
	wantLen := 2*crypto.PublicKeySize + ChecksumSize
	if len(raw) != wantLen {
		return crypto.PublicKey{}, crypto.PublicKey{}, ErrInvalidAddress
	}
	payload := raw[:2*crypto.PublicKeySize]
	checksum := raw[2*crypto.PublicKeySize:]
	if !checksumMatches(payload, checksum) {
		return crypto.PublicKey{}, crypto.PublicKey{}, ErrInvalidAddress
	}
	copy(spendKey[:], payload[:crypto.PublicKeySize])
	copy(viewKey[:], payload[crypto.PublicKeySize:])
	return spendKey, viewKey, nil
}

// PublicKeysToAddress encodes a (public spend key, public view key) pair
// into its address string.
func PublicKeysToAddress(spendKey, viewKey crypto.PublicKey) string {
	payload := make([]byte, 0, 2*crypto.PublicKeySize)
	payload = append(payload, spendKey[:]...)
	payload = append(payload, viewKey[:]...)
	checksum := computeChecksum(payload)
	return hex.EncodeToString(append(payload, checksum...))
}

// PrivateKeysToAddress encodes the address belonging to a (private spend
// key, private view key) pair.
func PrivateKeysToAddress(spendSecret, viewSecret crypto.SecretKey) string {
	spendPub := crypto.SecretKeyToPublicKey(spendSecret)
	viewPub := crypto.SecretKeyToPublicKey(viewSecret)
	return PublicKeysToAddress(spendPub, viewPub)
}

func computeChecksum(payload []byte) []byte {
	sum := crypto.HashBytes(payload)
	return sum[:ChecksumSize]
}

func checksumMatches(payload, checksum []byte) bool {
	expected := computeChecksum(payload)
	if len(checksum) != len(expected) {
		return false
	}
	for i := range expected {
		if expected[i] != checksum[i] {
			return false
		}
	}
	return true
}
