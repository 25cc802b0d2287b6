package walletcore

import (
	"testing"

	"github.com/rivinelabs/subwallet/address"
	"github.com/rivinelabs/subwallet/crypto"
	"github.com/rivinelabs/subwallet/walletcore/walletcoretest"
)

func newFullContainerForTest(t *testing.T) (*Container, crypto.SecretKey, crypto.SecretKey) {
	t.Helper()
	_, spendSecret := crypto.GenerateKeyPair()
	_, viewSecret := crypto.GenerateKeyPair()
	c := NewContainer(spendSecret, viewSecret, 0, false, testConstants())
	return c, spendSecret, viewSecret
}

// TestNewContainerSeedsSyncTimestampFromInjectedClock exercises newWallet=true
// through the injectable-clock constructor: the fake clock, not wall-clock
// time, must be what seeds the primary sub-wallet's sync start timestamp.
func TestNewContainerSeedsSyncTimestampFromInjectedClock(t *testing.T) {
	_, spendSecret := crypto.GenerateKeyPair()
	_, viewSecret := crypto.GenerateKeyPair()
	clock := walletcoretest.NewFakeClock(1234567890)

	c := NewContainerWithClock(spendSecret, viewSecret, 0, true, testConstants(), clock)

	got := c.subWallets[c.primaryPublicKey].SyncStartTimestamp()
	if got != Timestamp(1234567890) {
		t.Fatalf("expected sync start timestamp seeded from the injected clock (1234567890), got %d", got)
	}
}

// TestNewViewContainerSeedsSyncTimestampFromInjectedClock is the view-wallet
// counterpart of TestNewContainerSeedsSyncTimestampFromInjectedClock.
func TestNewViewContainerSeedsSyncTimestampFromInjectedClock(t *testing.T) {
	_, spendSecret := crypto.GenerateKeyPair()
	_, viewSecret := crypto.GenerateKeyPair()
	spendPublic := crypto.SecretKeyToPublicKey(spendSecret)
	viewPublic := crypto.SecretKeyToPublicKey(viewSecret)
	addr := address.PublicKeysToAddress(spendPublic, viewPublic)
	clock := walletcoretest.NewFakeClock(42)

	c, err := NewViewContainerWithClock(viewSecret, addr, 0, true, testConstants(), clock)
	if err != nil {
		t.Fatalf("unexpected error constructing view container: %v", err)
	}

	got := c.subWallets[c.primaryPublicKey].SyncStartTimestamp()
	if got != Timestamp(42) {
		t.Fatalf("expected sync start timestamp seeded from the injected clock (42), got %d", got)
	}
}

func TestViewWalletSendRefused(t *testing.T) {
	_, spendSecret := crypto.GenerateKeyPair()
	_, viewSecret := crypto.GenerateKeyPair()
	spendPublic := crypto.SecretKeyToPublicKey(spendSecret)
	viewPublic := crypto.SecretKeyToPublicKey(viewSecret)
	addr := address.PublicKeysToAddress(spendPublic, viewPublic)

	c, err := NewViewContainer(viewSecret, addr, 0, false, testConstants())
	if err != nil {
		t.Fatalf("unexpected error constructing view container: %v", err)
	}

	_, _, err = c.GetTransactionInputsForAmount(1, true, nil)
	if KindOf(err) != IllegalViewWalletOperation {
		t.Fatalf("expected ILLEGAL_VIEW_WALLET_OPERATION, got %v", err)
	}
}

func TestDuplicateImportSubWallet(t *testing.T) {
	c, _, _ := newFullContainerForTest(t)
	_, importedSecret := crypto.GenerateKeyPair()

	if _, err := c.ImportSubWallet(importedSecret, 0, false); err != nil {
		t.Fatalf("first import should succeed, got %v", err)
	}
	_, err := c.ImportSubWallet(importedSecret, 0, false)
	if KindOf(err) != SubWalletAlreadyExists {
		t.Fatalf("expected SUBWALLET_ALREADY_EXISTS on duplicate import, got %v", err)
	}
}

func TestImportViewSubWalletOnFullWalletFails(t *testing.T) {
	c, _, _ := newFullContainerForTest(t)
	pub, _ := crypto.GenerateKeyPair()
	_, err := c.ImportViewSubWallet(pub, 0, false)
	if KindOf(err) != IllegalNonViewWalletOperation {
		t.Fatalf("expected ILLEGAL_NON_VIEW_WALLET_OPERATION, got %v", err)
	}
}

func TestForkRollback(t *testing.T) {
	c, spendSecret, _ := newFullContainerForTest(t)
	spendPublic := crypto.SecretKeyToPublicKey(spendSecret)

	outs := map[crypto.PublicKey][]ScannedOutput{
		spendPublic: {
			{OutputIndex: 0, Input: TransactionInput{Amount: 10, BlockHeight: 10}},
			{OutputIndex: 1, Input: TransactionInput{Amount: 20, BlockHeight: 20}},
			{OutputIndex: 2, Input: TransactionInput{Amount: 30, BlockHeight: 30}},
		},
	}
	c.AddConfirmedTransaction(Transaction{Hash: hashFromByte(1), BlockHeight: 10}, outs)
	ki10 := crypto.DeriveKeyImage(crypto.KeyDerivation{}, 0, spendPublic, spendSecret)
	ki20 := crypto.DeriveKeyImage(crypto.KeyDerivation{}, 1, spendPublic, spendSecret)
	ki30 := crypto.DeriveKeyImage(crypto.KeyDerivation{}, 2, spendPublic, spendSecret)
	c.MarkInputAsSpent(ki20, 25)

	c.RemoveForkedTransactions(20)

	sw := c.subWallets[spendPublic]
	if sw.HasKeyImage(ki20) || sw.HasKeyImage(ki30) {
		t.Fatalf("expected inputs at or after the fork height to be removed")
	}
	if !sw.HasKeyImage(ki10) {
		t.Fatalf("expected the height-10 input to survive the fork")
	}
}

// TestGetMinInitialSyncStartTimestampWins is the literal scenario where the
// timestamp-mode sub-wallet's point is earlier than the height-mode one's
// converted point, so the timestamp wins.
func TestGetMinInitialSyncStartTimestampWins(t *testing.T) {
	c, _, _ := newFullContainerForTest(t)
	spendPublic := c.primaryPublicKey
	c.subWallets[spendPublic].syncStartHeight = 400000
	c.subWallets[spendPublic].syncStartTimestamp = 0

	_, secondSecret := crypto.GenerateKeyPair()
	if _, err := c.ImportSubWallet(secondSecret, 0, false); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	secondPublic := crypto.SecretKeyToPublicKey(secondSecret)
	c.subWallets[secondPublic].syncStartHeight = 0
	c.subWallets[secondPublic].syncStartTimestamp = 300000

	// With GenesisTimestamp=0, BlockTimeSeconds=1, height 400000 converts to
	// timestamp 400000, which is not earlier than 300000, so the timestamp
	// (the earlier point) wins.
	height, timestamp := c.GetMinInitialSyncStart()
	if height != 0 || timestamp != 300000 {
		t.Fatalf("expected (0, 300000), got (%d, %d)", height, timestamp)
	}
}

// TestGetMinInitialSyncStartHeightWins is the literal scenario where the
// height-mode sub-wallet's converted point is earlier than the
// timestamp-mode one's, so the height wins.
func TestGetMinInitialSyncStartHeightWins(t *testing.T) {
	c, _, _ := newFullContainerForTest(t)
	spendPublic := c.primaryPublicKey
	c.subWallets[spendPublic].syncStartHeight = 400000
	c.subWallets[spendPublic].syncStartTimestamp = 0

	_, secondSecret := crypto.GenerateKeyPair()
	if _, err := c.ImportSubWallet(secondSecret, 0, false); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	secondPublic := crypto.SecretKeyToPublicKey(secondSecret)
	c.subWallets[secondPublic].syncStartHeight = 0
	c.subWallets[secondPublic].syncStartTimestamp = 500000

	// Height 400000 converts to timestamp 400000, earlier than 500000, so
	// the height wins.
	height, timestamp := c.GetMinInitialSyncStart()
	if height != 400000 || timestamp != 0 {
		t.Fatalf("expected (400000, 0), got (%d, %d)", height, timestamp)
	}
}

func TestGetTransactionInputsForAmountZeroReturnsEmpty(t *testing.T) {
	c, _, _ := newFullContainerForTest(t)
	inputs, sum, err := c.GetTransactionInputsForAmount(0, true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inputs) != 0 || sum != 0 {
		t.Fatalf("expected no inputs selected for a zero-amount request, got %d inputs sum %d", len(inputs), sum)
	}
}

func TestGetTransactionInputsForAmountNotEnoughFunds(t *testing.T) {
	c, _, _ := newFullContainerForTest(t)
	_, _, err := c.GetTransactionInputsForAmount(100, true, nil)
	if KindOf(err) != NotEnoughFunds {
		t.Fatalf("expected NOT_ENOUGH_FUNDS against an empty ledger, got %v", err)
	}
}
