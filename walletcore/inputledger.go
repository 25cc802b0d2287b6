package walletcore

import (
	"github.com/rivinelabs/subwallet/build"
	"github.com/rivinelabs/subwallet/crypto"
	"github.com/rivinelabs/subwallet/currency"
)

// InputOutput is one entry returned by InputLedger.GetInputs: the
// unspent, unlocked input alongside the keypair that owns it.
type InputOutput struct {
	Input           TransactionInput
	PublicSpendKey  crypto.PublicKey
	PrivateSpendKey crypto.SecretKey
}

// InputLedger owns the UTXOs belonging to one spend key and classifies
// their spendability, keyed by key image, with a lock/unlock lifecycle
// tracking in-flight spends.
//
// A view wallet's UTXOs have no key image to key off (invariant: no UTXO
// in a view wallet has a computed key image), yet they still need a stable
// per-output identity so two distinct outputs never collide in storage.
// The ledger keys its map on a storageKey instead of raw KeyImage: for
// full wallets that is just the computed key image; for view wallets it is
// a value derived from the output's on-chain position, never written back
// onto the stored TransactionInput itself.
type InputLedger struct {
	inputs map[crypto.KeyImage]*TransactionInput

	// lockedBy records which transaction hash caused a given storageKey to
	// be locked, so RemoveCancelledTransactions can unlock exactly the
	// inputs a cancelled submission locked rather than re-scanning by
	// guesswork.
	lockedBy map[crypto.KeyImage]crypto.Hash
}

// viewWalletStorageKey derives a stand-in storage identity for a
// view-wallet UTXO from its on-chain position, since it has no key image.
// Amount and BlockHeight are folded in too, purely as extra disambiguation
// for callers that have not populated GlobalOutputIndex/ParentTransaction
// Hash distinctly; a real scanner feed always gives every output a unique
// GlobalOutputIndex on its own.
func viewWalletStorageKey(input TransactionInput) crypto.KeyImage {
	return crypto.KeyImage(crypto.HashAll(input.ParentTransactionHash, input.GlobalOutputIndex, input.KeyImage, uint64(input.Amount), uint64(input.BlockHeight)))
}

// NewInputLedger returns an empty InputLedger.
func NewInputLedger() *InputLedger {
	return &InputLedger{
		inputs:   make(map[crypto.KeyImage]*TransactionInput),
		lockedBy: make(map[crypto.KeyImage]crypto.Hash),
	}
}

// CompleteAndStoreInput finalizes a candidate UTXO discovered by the
// scanner. If isViewWallet is false, the key image is derived from
// derivation, outputIndex, and the owning keypair before storing; for view
// wallets the input is stored without one. Storing an input whose key
// image is already known is a no-op, so repeated scanner delivery of the
// same output never double-counts it.
func (l *InputLedger) CompleteAndStoreInput(derivation crypto.KeyDerivation, outputIndex uint64, input TransactionInput, spendPublic crypto.PublicKey, spendSecret crypto.SecretKey, isViewWallet bool) {
	key := viewWalletStorageKey(input)
	if !isViewWallet {
		input.KeyImage = crypto.DeriveKeyImage(derivation, outputIndex, spendPublic, spendSecret)
		key = input.KeyImage
	}
	if _, exists := l.inputs[key]; exists {
		build.Severe("complete_and_store_input: duplicate delivery of an already-stored input, ignoring")
		return
	}
	cp := input
	l.inputs[key] = &cp
}

// GetInputs returns every unspent, unlocked input. Ownership keys are
// supplied by the caller (the Sub-wallet Record) since the ledger itself
// does not hold the keypair; view wallets must not call this.
func (l *InputLedger) GetInputs(spendPublic crypto.PublicKey, spendSecret crypto.SecretKey) []InputOutput {
	var out []InputOutput
	for _, in := range l.inputs {
		if in.SpendHeight != 0 || in.Locked {
			continue
		}
		out = append(out, InputOutput{Input: *in, PublicSpendKey: spendPublic, PrivateSpendKey: spendSecret})
	}
	return out
}

// MarkInputAsLocked sets the Locked flag on the input identified by ki and
// records that txHash is what locked it. Unknown key images are ignored:
// the output may already have been spent or reorged away by the time the
// lock request arrives.
func (l *InputLedger) MarkInputAsLocked(ki crypto.KeyImage, txHash crypto.Hash) {
	in, ok := l.inputs[ki]
	if !ok {
		return
	}
	in.Locked = true
	l.lockedBy[ki] = txHash
}

// MarkInputAsSpent records spendHeight and clears Locked on the input
// identified by ki. Calling it twice with the same arguments is equivalent
// to calling it once.
func (l *InputLedger) MarkInputAsSpent(ki crypto.KeyImage, spendHeight Height) {
	in, ok := l.inputs[ki]
	if !ok {
		return
	}
	in.SpendHeight = spendHeight
	in.Locked = false
	delete(l.lockedBy, ki)
}

// RemoveForkedInputs rolls the ledger back to a chain state that never saw
// blocks at or above forkHeight: inputs received at or after forkHeight
// are deleted outright, and inputs spent at or after forkHeight have their
// spend undone.
func (l *InputLedger) RemoveForkedInputs(forkHeight Height) {
	for ki, in := range l.inputs {
		if in.BlockHeight >= forkHeight {
			delete(l.inputs, ki)
			delete(l.lockedBy, ki)
			continue
		}
		if in.SpendHeight != 0 && in.SpendHeight >= forkHeight {
			in.SpendHeight = 0
			in.Locked = false
			delete(l.lockedBy, ki)
		}
	}
}

// RemoveCancelledTransactions clears Locked on every input that was locked
// by one of the given transaction hashes.
func (l *InputLedger) RemoveCancelledTransactions(hashes map[crypto.Hash]struct{}) {
	for ki, h := range l.lockedBy {
		if _, cancelled := hashes[h]; !cancelled {
			continue
		}
		if in, ok := l.inputs[ki]; ok {
			in.Locked = false
		}
		delete(l.lockedBy, ki)
	}
}

// Reset drops every input received at or after scanHeight and clears every
// remaining Locked flag, returning the ledger to the state a rescan from
// scanHeight would produce.
func (l *InputLedger) Reset(scanHeight Height) {
	for ki, in := range l.inputs {
		if in.BlockHeight >= scanHeight {
			delete(l.inputs, ki)
			delete(l.lockedBy, ki)
			continue
		}
		in.Locked = false
	}
	for ki := range l.lockedBy {
		if _, ok := l.inputs[ki]; !ok {
			delete(l.lockedBy, ki)
		}
	}
}

// GetBalance returns the unlocked and locked totals of this ledger's
// inputs as of currentHeight, per the dual-mode unlock-time rule and
// coinbase maturity.
func (l *InputLedger) GetBalance(currentHeight Height, now Timestamp, consts currency.Constants) (unlocked, locked Amount) {
	for _, in := range l.inputs {
		if in.SpendHeight != 0 {
			continue
		}
		if l.isUnlocked(in, currentHeight, now, consts) {
			unlocked += in.Amount
		} else {
			locked += in.Amount
		}
	}
	return unlocked, locked
}

// HasKeyImage reports whether ki is tracked by this ledger, in any
// spendability state.
func (l *InputLedger) HasKeyImage(ki crypto.KeyImage) bool {
	_, ok := l.inputs[ki]
	return ok
}

func (l *InputLedger) isUnlocked(in *TransactionInput, currentHeight Height, now Timestamp, consts currency.Constants) bool {
	if in.Locked {
		return false
	}
	if !unlockTimeReached(in.UnlockTime, currentHeight, now, consts) {
		return false
	}
	if in.IsCoinbase && uint64(currentHeight) < uint64(in.BlockHeight)+consts.MinedMoneyUnlockWindow {
		return false
	}
	return true
}

// unlockTimeReached implements the dual-mode unlock_time rule: zero means
// always unlocked, a value above MaxBlockNumber is a UNIX timestamp to
// compare against wall-clock time, anything else is a height to compare
// against currentHeight.
func unlockTimeReached(unlockTime uint64, currentHeight Height, now Timestamp, consts currency.Constants) bool {
	if unlockTime == 0 {
		return true
	}
	if consts.IsTimestamp(unlockTime) {
		return uint64(now) >= unlockTime
	}
	return uint64(currentHeight) >= unlockTime
}
