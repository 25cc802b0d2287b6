// Package walletcoretest provides deterministic test fixtures for exercising
// walletcore: a fake clock, test constants, and small helpers for building
// inputs, key images and hashes without touching real entropy or
// wall-clock time. Grounded on the
// walletTester helper pattern, trimmed of the consensus set/gateway/tpool
// dependencies a networked test harness would otherwise need.
package walletcoretest

import (
	"github.com/rivinelabs/subwallet/crypto"
	"github.com/rivinelabs/subwallet/currency"
	"github.com/rivinelabs/subwallet/walletcore"
)

// FakeClock is a build.Clock whose Now() is whatever was last set,
// letting tests advance or rewind time without sleeping.
type FakeClock struct {
	now uint64
}

// NewFakeClock returns a FakeClock initialized to t.
func NewFakeClock(t uint64) *FakeClock {
	return &FakeClock{now: t}
}

// Now returns the clock's current value.
func (c *FakeClock) Now() uint64 { return c.now }

// Set advances (or rewinds) the clock to t.
func (c *FakeClock) Set(t uint64) { c.now = t }

// Constants returns a Constants set tuned for literal test scenarios: a
// genesis timestamp of zero and a one-second block time, so
// ScanHeightToTimestamp(h) == h and small example heights/timestamps in a
// test read naturally against one another.
func Constants() currency.Constants {
	c := currency.DefaultConstants()
	c.GenesisTimestamp = 0
	c.BlockTimeSeconds = 1
	c.MinedMoneyUnlockWindow = 60
	c.FusionTxMinInputCount = 4
	return c
}

// NewInput builds a spendable TransactionInput with the given key image,
// amount, and inclusion height, zero unlock time (always unlocked) and not
// a coinbase output.
func NewInput(ki crypto.KeyImage, amount walletcore.Amount, blockHeight walletcore.Height) walletcore.TransactionInput {
	return walletcore.TransactionInput{
		KeyImage:    ki,
		Amount:      amount,
		BlockHeight: blockHeight,
	}
}

// KeyImageFromByte returns a KeyImage whose first byte is b, zero
// elsewhere: enough distinctness for table-driven tests without pulling in
// real key derivation.
func KeyImageFromByte(b byte) crypto.KeyImage {
	var ki crypto.KeyImage
	ki[0] = b
	return ki
}

// HashFromByte returns a Hash whose first byte is b, zero elsewhere.
func HashFromByte(b byte) crypto.Hash {
	var h crypto.Hash
	h[0] = b
	return h
}
