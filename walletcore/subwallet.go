package walletcore

import (
	"github.com/rivinelabs/subwallet/address"
	"github.com/rivinelabs/subwallet/crypto"
	"github.com/rivinelabs/subwallet/currency"
)

// SubWallet is one deterministic key pair within a Container, sharing the
// Container's private view key, plus the Input Ledger of UTXOs it owns.
type SubWallet struct {
	publicSpendKey  crypto.PublicKey
	privateSpendKey crypto.SecretKey // zero value in a view wallet
	address         string

	// syncStartHeight and syncStartTimestamp are mutually exclusive: at
	// most one is nonzero.
	syncStartHeight    Height
	syncStartTimestamp Timestamp

	isPrimary bool

	ledger *InputLedger
}

// newSubWallet constructs a SubWallet for a full (spend-capable) wallet.
func newSubWallet(spendPublic crypto.PublicKey, spendSecret crypto.SecretKey, viewPublic crypto.PublicKey, syncStartHeight Height, syncStartTimestamp Timestamp, isPrimary bool) *SubWallet {
	return &SubWallet{
		publicSpendKey:     spendPublic,
		privateSpendKey:    spendSecret,
		address:            address.PublicKeysToAddress(spendPublic, viewPublic),
		syncStartHeight:    syncStartHeight,
		syncStartTimestamp: syncStartTimestamp,
		isPrimary:          isPrimary,
		ledger:             NewInputLedger(),
	}
}

// newViewSubWallet constructs a SubWallet for a view wallet: no private
// spend key is ever stored.
func newViewSubWallet(spendPublic crypto.PublicKey, viewPublic crypto.PublicKey, syncStartHeight Height, syncStartTimestamp Timestamp, isPrimary bool) *SubWallet {
	return &SubWallet{
		publicSpendKey:     spendPublic,
		address:            address.PublicKeysToAddress(spendPublic, viewPublic),
		syncStartHeight:    syncStartHeight,
		syncStartTimestamp: syncStartTimestamp,
		isPrimary:          isPrimary,
		ledger:             NewInputLedger(),
	}
}

// PublicSpendKey returns the sub-wallet's public spend key.
func (s *SubWallet) PublicSpendKey() crypto.PublicKey { return s.publicSpendKey }

// PrivateSpendKey returns the sub-wallet's private spend key, the zero key
// if this is a view wallet's sub-wallet.
func (s *SubWallet) PrivateSpendKey() crypto.SecretKey { return s.privateSpendKey }

// Address returns the sub-wallet's encoded address.
func (s *SubWallet) Address() string { return s.address }

// IsPrimaryAddress reports whether this is the one sub-wallet created at
// container construction.
func (s *SubWallet) IsPrimaryAddress() bool { return s.isPrimary }

// SyncStartHeight returns the height this sub-wallet's scan should begin
// from, 0 if a timestamp was used instead.
func (s *SubWallet) SyncStartHeight() Height { return s.syncStartHeight }

// SyncStartTimestamp returns the timestamp this sub-wallet's scan should
// begin from, 0 if a height was used instead.
func (s *SubWallet) SyncStartTimestamp() Timestamp { return s.syncStartTimestamp }

// HasKeyImage reports whether this sub-wallet's ledger owns ki.
func (s *SubWallet) HasKeyImage(ki crypto.KeyImage) bool { return s.ledger.HasKeyImage(ki) }

// GetBalance delegates to the Input Ledger.
func (s *SubWallet) GetBalance(currentHeight Height, now Timestamp, consts currency.Constants) (unlocked, locked Amount) {
	return s.ledger.GetBalance(currentHeight, now, consts)
}
