package walletcore

import (
	"testing"

	"github.com/rivinelabs/subwallet/crypto"
	"github.com/rivinelabs/subwallet/currency"
	"github.com/rivinelabs/subwallet/walletcore/walletcoretest"
)

func testConstants() currency.Constants {
	return walletcoretest.Constants()
}

func kiFromByte(b byte) crypto.KeyImage {
	return walletcoretest.KeyImageFromByte(b)
}

func hashFromByte(b byte) crypto.Hash {
	return walletcoretest.HashFromByte(b)
}

// storeTestInput stores in as a full (non-view) wallet's output at
// outputIndex and returns the key image it was assigned, so the rest of
// the test can address it the same way a real caller would: by the value
// CompleteAndStoreInput actually computed, not a value the test made up.
func storeTestInput(l *InputLedger, outputIndex uint64, in TransactionInput, spendPublic crypto.PublicKey, spendSecret crypto.SecretKey) crypto.KeyImage {
	l.CompleteAndStoreInput(crypto.KeyDerivation{}, outputIndex, in, spendPublic, spendSecret, false)
	return crypto.DeriveKeyImage(crypto.KeyDerivation{}, outputIndex, spendPublic, spendSecret)
}

func TestCompleteAndStoreInputIdempotent(t *testing.T) {
	l := NewInputLedger()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey
	in := TransactionInput{Amount: 100, BlockHeight: 5}

	ki := storeTestInput(l, 0, in, spendPub, spendSec)
	storeTestInput(l, 0, in, spendPub, spendSec)

	outs := l.GetInputs(spendPub, spendSec)
	if len(outs) != 1 {
		t.Fatalf("expected exactly one stored input after duplicate delivery, got %d", len(outs))
	}
	if outs[0].Input.KeyImage != ki {
		t.Fatalf("expected the stored input's key image to match the derived one")
	}
}

func TestMarkInputAsSpentIdempotent(t *testing.T) {
	l := NewInputLedger()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey
	ki := storeTestInput(l, 0, TransactionInput{Amount: 50}, spendPub, spendSec)

	l.MarkInputAsSpent(ki, 10)
	l.MarkInputAsSpent(ki, 10)

	in := l.inputs[ki]
	if in.SpendHeight != 10 || in.Locked {
		t.Fatalf("unexpected state after idempotent spend: %+v", in)
	}
}

func TestMarkInputAsLockedUnknownKeyImageIsNoop(t *testing.T) {
	l := NewInputLedger()
	l.MarkInputAsLocked(kiFromByte(9), hashFromByte(1))
	if len(l.inputs) != 0 {
		t.Fatalf("expected no inputs to be created by locking an unknown key image")
	}
}

func TestRemoveCancelledTransactionsUnlocksOnlyNamedHashes(t *testing.T) {
	l := NewInputLedger()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey
	h1, h2 := hashFromByte(1), hashFromByte(2)

	ki1 := storeTestInput(l, 0, TransactionInput{Amount: 1}, spendPub, spendSec)
	ki2 := storeTestInput(l, 1, TransactionInput{Amount: 1}, spendPub, spendSec)
	l.MarkInputAsLocked(ki1, h1)
	l.MarkInputAsLocked(ki2, h2)

	l.RemoveCancelledTransactions(map[crypto.Hash]struct{}{h1: {}})

	if l.inputs[ki1].Locked {
		t.Fatalf("input locked by the cancelled transaction should be unlocked")
	}
	if !l.inputs[ki2].Locked {
		t.Fatalf("input locked by a different transaction should remain locked")
	}
}

func TestRemoveForkedInputsDeletesAndUnspends(t *testing.T) {
	l := NewInputLedger()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey

	kiDeleted := storeTestInput(l, 0, TransactionInput{Amount: 1, BlockHeight: 25}, spendPub, spendSec)
	kiUnspent := storeTestInput(l, 1, TransactionInput{Amount: 1, BlockHeight: 5}, spendPub, spendSec)
	l.MarkInputAsSpent(kiUnspent, 25)

	l.RemoveForkedInputs(20)

	if l.HasKeyImage(kiDeleted) {
		t.Fatalf("input received at or after the fork height should be deleted")
	}
	in := l.inputs[kiUnspent]
	if in.SpendHeight != 0 || in.Locked {
		t.Fatalf("input spent at or after the fork height should be unspent, got %+v", in)
	}
}

func TestGetBalanceUnlockTimeHeightMode(t *testing.T) {
	l := NewInputLedger()
	consts := testConstants()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey
	storeTestInput(l, 0, TransactionInput{Amount: 100, UnlockTime: 50}, spendPub, spendSec)

	unlocked, locked := l.GetBalance(40, 0, consts)
	if unlocked != 0 || locked != 100 {
		t.Fatalf("expected input locked before its unlock height, got unlocked=%d locked=%d", unlocked, locked)
	}

	unlocked, locked = l.GetBalance(50, 0, consts)
	if unlocked != 100 || locked != 0 {
		t.Fatalf("expected input unlocked at its unlock height, got unlocked=%d locked=%d", unlocked, locked)
	}
}

func TestGetBalanceUnlockTimeTimestampMode(t *testing.T) {
	l := NewInputLedger()
	consts := testConstants()
	unlockTime := consts.MaxBlockNumber + 100
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey
	storeTestInput(l, 0, TransactionInput{Amount: 100, UnlockTime: unlockTime}, spendPub, spendSec)

	unlocked, _ := l.GetBalance(0, Timestamp(unlockTime-1), consts)
	if unlocked != 0 {
		t.Fatalf("expected input locked before its unlock timestamp")
	}
	unlocked, _ = l.GetBalance(0, Timestamp(unlockTime), consts)
	if unlocked != 100 {
		t.Fatalf("expected input unlocked at its unlock timestamp")
	}
}

func TestGetBalanceCoinbaseMaturity(t *testing.T) {
	l := NewInputLedger()
	consts := testConstants()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey
	storeTestInput(l, 0, TransactionInput{Amount: 100, BlockHeight: 10, IsCoinbase: true}, spendPub, spendSec)

	unlocked, locked := l.GetBalance(10+consts.MinedMoneyUnlockWindow-1, 0, consts)
	if unlocked != 0 || locked != 100 {
		t.Fatalf("expected coinbase output still immature, got unlocked=%d locked=%d", unlocked, locked)
	}
	unlocked, locked = l.GetBalance(10+consts.MinedMoneyUnlockWindow, 0, consts)
	if unlocked != 100 || locked != 0 {
		t.Fatalf("expected coinbase output mature, got unlocked=%d locked=%d", unlocked, locked)
	}
}

func TestGetBalanceSpentContributesToNeither(t *testing.T) {
	l := NewInputLedger()
	consts := testConstants()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey
	ki := storeTestInput(l, 0, TransactionInput{Amount: 100}, spendPub, spendSec)
	l.MarkInputAsSpent(ki, 5)

	unlocked, locked := l.GetBalance(100, 0, consts)
	if unlocked != 0 || locked != 0 {
		t.Fatalf("expected spent input to contribute to neither bucket, got unlocked=%d locked=%d", unlocked, locked)
	}
}

func TestResetDropsNewAndUnlocksRest(t *testing.T) {
	l := NewInputLedger()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey
	kiOld := storeTestInput(l, 0, TransactionInput{Amount: 1, BlockHeight: 5}, spendPub, spendSec)
	kiNew := storeTestInput(l, 1, TransactionInput{Amount: 1, BlockHeight: 15}, spendPub, spendSec)
	l.MarkInputAsLocked(kiOld, hashFromByte(1))

	l.Reset(10)

	if l.HasKeyImage(kiNew) {
		t.Fatalf("expected input at or after scan height to be dropped by reset")
	}
	if l.inputs[kiOld].Locked {
		t.Fatalf("expected reset to clear the remaining input's locked flag")
	}
}

func TestCompleteAndStoreInputViewWalletDistinctOutputs(t *testing.T) {
	l := NewInputLedger()
	var spendPub crypto.PublicKey
	var spendSec crypto.SecretKey

	l.CompleteAndStoreInput(crypto.KeyDerivation{}, 0, TransactionInput{Amount: 1, GlobalOutputIndex: 0}, spendPub, spendSec, true)
	l.CompleteAndStoreInput(crypto.KeyDerivation{}, 0, TransactionInput{Amount: 2, GlobalOutputIndex: 1}, spendPub, spendSec, true)

	if len(l.inputs) != 2 {
		t.Fatalf("expected two distinct view-wallet outputs to be stored separately, got %d", len(l.inputs))
	}
	for _, in := range l.inputs {
		if in.KeyImage != (crypto.KeyImage{}) {
			t.Fatalf("expected a view-wallet input to keep a zero key image, got %+v", in.KeyImage)
		}
	}
}
