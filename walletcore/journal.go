package walletcore

import "github.com/rivinelabs/subwallet/crypto"

// Journal holds confirmed and locked (unconfirmed, user-submitted)
// transactions in insertion order, tracking the submit/confirm/cancel
// lifecycle a transaction moves through.
type Journal struct {
	confirmed []Transaction
	locked    []Transaction
}

// NewJournal returns an empty Journal.
func NewJournal() *Journal {
	return &Journal{}
}

// AddUnconfirmed appends tx to the locked transaction list.
func (j *Journal) AddUnconfirmed(tx Transaction) {
	j.locked = append(j.locked, tx)
}

// AddConfirmed removes any locked entry with the same hash as tx (the
// scanner has now observed what the user submitted) and appends tx to the
// confirmed list. Calling AddUnconfirmed(tx) then AddConfirmed(tx) leaves
// tx in the confirmed list exactly once and absent from the locked list.
func (j *Journal) AddConfirmed(tx Transaction) {
	j.eraseLockedWhere(func(t Transaction) bool { return t.Hash == tx.Hash })
	j.confirmed = append(j.confirmed, tx)
}

// RemoveForked drops every confirmed entry at or above forkHeight.
func (j *Journal) RemoveForked(forkHeight Height) {
	j.eraseConfirmedWhere(func(t Transaction) bool { return t.BlockHeight >= forkHeight })
}

// RemoveCancelled drops every locked entry whose hash is in hashes.
func (j *Journal) RemoveCancelled(hashes map[crypto.Hash]struct{}) {
	j.eraseLockedWhere(func(t Transaction) bool {
		_, ok := hashes[t.Hash]
		return ok
	})
}

// Reset clears every locked entry and drops confirmed entries at or above
// scanHeight.
func (j *Journal) Reset(scanHeight Height) {
	j.locked = nil
	j.eraseConfirmedWhere(func(t Transaction) bool { return t.BlockHeight >= scanHeight })
}

// LockedHashes returns the hash of every currently locked transaction.
func (j *Journal) LockedHashes() map[crypto.Hash]struct{} {
	out := make(map[crypto.Hash]struct{}, len(j.locked))
	for _, t := range j.locked {
		out[t.Hash] = struct{}{}
	}
	return out
}

// AllConfirmed returns every confirmed transaction, in insertion order.
func (j *Journal) AllConfirmed() []Transaction {
	out := make([]Transaction, len(j.confirmed))
	copy(out, j.confirmed)
	return out
}

// AllUnconfirmed returns every locked transaction, in insertion order.
func (j *Journal) AllUnconfirmed() []Transaction {
	out := make([]Transaction, len(j.locked))
	copy(out, j.locked)
	return out
}

// eraseConfirmedWhere removes every confirmed entry matching pred, not
// just the first one found.
func (j *Journal) eraseConfirmedWhere(pred func(Transaction) bool) {
	kept := j.confirmed[:0]
	for _, t := range j.confirmed {
		if !pred(t) {
			kept = append(kept, t)
		}
	}
	j.confirmed = kept
}

func (j *Journal) eraseLockedWhere(pred func(Transaction) bool) {
	kept := j.locked[:0]
	for _, t := range j.locked {
		if !pred(t) {
			kept = append(kept, t)
		}
	}
	j.locked = kept
}
