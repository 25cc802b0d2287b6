// Package crypto implements the cryptographic primitives the sub-wallet
// container depends on but does not itself define the protocol for:
// keypair generation, hashing, and key-image derivation. A real daemon
// would swap this package for one backed by the chain's actual curve
// arithmetic; the core only ever talks to the small surface declared here.
package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/NebulousLabs/fastrand"
	"golang.org/x/crypto/ed25519"
)

const (
	// EntropySize is the amount of entropy, in bytes, used to derive a
	// keypair deterministically.
	EntropySize = 32

	// PublicKeySize is the size of a PublicKey in bytes.
	PublicKeySize = ed25519.PublicKeySize

	// SecretKeySize is the size of a SecretKey in bytes.
	SecretKeySize = ed25519.PrivateKeySize

	// HashSize is the size of a Hash in bytes.
	HashSize = sha256.Size
)

type (
	// PublicKey is a spend or view public key.
	PublicKey [PublicKeySize]byte

	// SecretKey is a spend or view private key.
	SecretKey [SecretKeySize]byte

	// Hash is a generic 32-byte digest, used both as a standalone hash and
	// as the underlying type of transaction/block identifiers.
	Hash [HashSize]byte
)

// IsNil reports whether sk is the all-zero secret key.
func (sk SecretKey) IsNil() bool {
	return sk == SecretKey{}
}

// IsNil reports whether pk is the all-zero public key.
func (pk PublicKey) IsNil() bool {
	return pk == PublicKey{}
}

// SecureWipe overwrites a secret key's bytes with zeroes, so it does not
// linger in memory once no longer needed (e.g. when dropping a view-wallet
// upgrade path that was never taken).
func SecureWipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateKeyPair creates a new public/secret keypair, seeded from a true
// entropy source (fastrand, the same CSPRNG used elsewhere for shuffling
// candidate inputs).
func GenerateKeyPair() (pk PublicKey, sk SecretKey) {
	epk, esk, _ := ed25519.GenerateKey(fastrand.Reader)
	copy(pk[:], epk)
	copy(sk[:], esk)
	return
}

// GenerateKeyPairDeterministic derives a keypair from 32 bytes of caller-
// supplied entropy, producing the same keypair every time for the same
// entropy.
func GenerateKeyPairDeterministic(entropy [EntropySize]byte) (pk PublicKey, sk SecretKey) {
	epk, esk, _ := ed25519.GenerateKey(bytes.NewReader(entropy[:]))
	copy(pk[:], epk)
	copy(sk[:], esk)
	return
}

// SecretKeyToPublicKey derives the public key matching a secret key.
func SecretKeyToPublicKey(sk SecretKey) PublicKey {
	var pk PublicKey
	copy(pk[:], sk[SecretKeySize-PublicKeySize:])
	return pk
}

// HashBytes hashes an arbitrary byte slice.
func HashBytes(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// HashAll hashes the concatenation of the binary representation of every
// argument. Supported argument types are the ones the wallet core needs:
// byte slices/arrays, fixed-size crypto types, and uint64s. Grounded on the
// teacher's crypto.HashAll(seed, index) call shape in modules/wallet/seed.go.
func HashAll(objs ...interface{}) Hash {
	h := sha256.New()
	for _, obj := range objs {
		switch v := obj.(type) {
		case []byte:
			h.Write(v)
		case Hash:
			h.Write(v[:])
		case PublicKey:
			h.Write(v[:])
		case SecretKey:
			h.Write(v[:])
		case KeyImage:
			h.Write(v[:])
		case KeyDerivation:
			h.Write(v[:])
		case uint64:
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], v)
			h.Write(buf[:])
		case string:
			h.Write([]byte(v))
		default:
			// Programmer error: an unsupported type was hashed.
			panic("crypto.HashAll: unsupported argument type")
		}
	}
	var sum Hash
	copy(sum[:], h.Sum(nil))
	return sum
}
