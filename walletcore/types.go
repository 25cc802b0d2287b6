// Package walletcore implements the sub-wallet container: the set of
// deterministic key pairs sharing one view key, and the wallet-side ledger
// state derived from synchronizing with a blockchain (confirmed
// transactions, locked transactions, and spendable outputs).
package walletcore

import (
	"github.com/rivinelabs/subwallet/crypto"
)

// Amount denominates atomic currency units.
type Amount uint64

// Height is a block index.
type Height uint64

// Timestamp is a UNIX time in seconds.
type Timestamp uint64

// TransactionInput is one output observed on-chain that belongs to a
// sub-wallet. Two TransactionInputs are equal iff their KeyImage fields are
// equal, so in a full wallet KeyImage doubles as the map key the Input
// Ledger stores them under; a view wallet's inputs, which have no key
// image, are stored under a key derived from their on-chain position.
type TransactionInput struct {
	KeyImage crypto.KeyImage
	Amount   Amount

	// BlockHeight is the inclusion height, used for fork rollback.
	BlockHeight Height

	TransactionPublicKey crypto.PublicKey
	TransactionIndex     uint64
	GlobalOutputIndex    uint64

	// Key is the derived one-time output public key.
	Key crypto.PublicKey

	ParentTransactionHash crypto.Hash

	// SpendHeight is 0 if the output is unspent; otherwise the height its
	// spend was confirmed at.
	SpendHeight Height

	// UnlockTime is dual-purpose: above currency.Constants.MaxBlockNumber it
	// is a UNIX timestamp, otherwise a block height. The output first
	// becomes spendable once it has passed.
	UnlockTime uint64

	// Locked is set while a spend of this input is in flight (submitted but
	// not yet confirmed or cancelled).
	Locked bool

	// IsCoinbase marks an output produced by a coinbase transaction, which
	// additionally must clear MinedMoneyUnlockWindow blocks past
	// BlockHeight before it is spendable.
	IsCoinbase bool
}

// ScannedOutput is one newly-discovered output the scanner hands to
// AddConfirmedTransaction, carrying the derivation data needed to compute
// its key image alongside the candidate input itself.
type ScannedOutput struct {
	Derivation  crypto.KeyDerivation
	OutputIndex uint64
	Input       TransactionInput
}

// Transfer is one sub-wallet's net signed contribution to a Transaction:
// positive for incoming, negative for outgoing.
type Transfer struct {
	PublicSpendKey crypto.PublicKey
	Amount         int64
}

// Transaction is a Transaction Journal entry.
type Transaction struct {
	Hash        crypto.Hash
	BlockHeight Height
	Timestamp   Timestamp
	UnlockTime  uint64
	PaymentID   string
	Fee         Amount
	IsCoinbase  bool

	// Transfers maps, conceptually, a sub-wallet's public spend key to its
	// net signed amount; one hash may touch many sub-wallets. Represented
	// as a slice rather than a map so entries keep a stable order and a
	// given public spend key is permitted to appear at most once.
	Transfers []Transfer
}

// IsFusion reports whether tx is a fusion transaction: any non-coinbase
// entry with zero fee.
func (tx Transaction) IsFusion() bool {
	return !tx.IsCoinbase && tx.Fee == 0
}

// TransferFor returns the net amount tx contributes to the sub-wallet
// identified by pk, and whether that sub-wallet is touched at all.
func (tx Transaction) TransferFor(pk crypto.PublicKey) (int64, bool) {
	for _, t := range tx.Transfers {
		if t.PublicSpendKey == pk {
			return t.Amount, true
		}
	}
	return 0, false
}
