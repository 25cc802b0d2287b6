package walletcore

import (
	"sync"

	"github.com/NebulousLabs/fastrand"
	"github.com/NebulousLabs/threadgroup"

	"github.com/rivinelabs/subwallet/address"
	"github.com/rivinelabs/subwallet/build"
	"github.com/rivinelabs/subwallet/crypto"
	"github.com/rivinelabs/subwallet/currency"
	"github.com/rivinelabs/subwallet/persist"
)

// Container owns a keyed collection of Sub-wallet Records, the Transaction
// Journal, and the shared private view key, and exposes every externally
// visible wallet operation. A single mutex serializes access; no operation
// may block on I/O while holding it.
type Container struct {
	mu sync.Mutex
	tg threadgroup.ThreadGroup

	consts currency.Constants
	clock  build.Clock

	subWallets       map[crypto.PublicKey]*SubWallet
	publicSpendKeys  []crypto.PublicKey
	primaryPublicKey crypto.PublicKey

	journal *Journal

	privateViewKey crypto.SecretKey
	publicViewKey  crypto.PublicKey
	isViewWallet   bool

	// logger is the optional observability hook an embedding daemon
	// attaches via SetLogger; a nil logger makes every log call below a
	// silent no-op.
	logger *persist.Logger
}

// SetLogger attaches logger for lifecycle observability: Close writes its
// shutdown line to it. Invariant violations are not written to this logger.
// Passing nil detaches any previously attached logger.
func (c *Container) SetLogger(logger *persist.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// NewContainer constructs a full (spend-capable) Container from an
// existing private spend key and private view key. scanHeight paces the
// primary sub-wallet's initial scan; newWallet additionally seeds
// sync_start_timestamp from the current time, since a brand new wallet
// has no history to scan from a fixed height.
func NewContainer(privateSpendKey, privateViewKey crypto.SecretKey, scanHeight Height, newWallet bool, consts currency.Constants) *Container {
	return NewContainerWithClock(privateSpendKey, privateViewKey, scanHeight, newWallet, consts, build.StdClock{})
}

// NewContainerWithClock is NewContainer with an injectable time source, so
// tests can exercise sync-start-timestamp seeding without depending on
// wall-clock time.
func NewContainerWithClock(privateSpendKey, privateViewKey crypto.SecretKey, scanHeight Height, newWallet bool, consts currency.Constants, clock build.Clock) *Container {
	publicViewKey := crypto.SecretKeyToPublicKey(privateViewKey)
	publicSpendKey := crypto.SecretKeyToPublicKey(privateSpendKey)

	var syncTimestamp Timestamp
	if newWallet {
		syncTimestamp = Timestamp(clock.Now())
	}

	primary := newSubWallet(publicSpendKey, privateSpendKey, publicViewKey, scanHeight, syncTimestamp, true)

	c := &Container{
		consts:           consts,
		clock:            clock,
		subWallets:       map[crypto.PublicKey]*SubWallet{publicSpendKey: primary},
		publicSpendKeys:  []crypto.PublicKey{publicSpendKey},
		primaryPublicKey: publicSpendKey,
		journal:          NewJournal(),
		privateViewKey:   privateViewKey,
		publicViewKey:    publicViewKey,
		isViewWallet:     false,
	}
	return c
}

// NewViewContainer constructs a view-only Container from a private view
// key and the address of the primary sub-wallet to track. View containers
// never hold a private spend key and never compute key images.
func NewViewContainer(privateViewKey crypto.SecretKey, primaryAddress string, scanHeight Height, newWallet bool, consts currency.Constants) (*Container, error) {
	return NewViewContainerWithClock(privateViewKey, primaryAddress, scanHeight, newWallet, consts, build.StdClock{})
}

// NewViewContainerWithClock is NewViewContainer with an injectable time
// source, for deterministic tests.
func NewViewContainerWithClock(privateViewKey crypto.SecretKey, primaryAddress string, scanHeight Height, newWallet bool, consts currency.Constants, clock build.Clock) (*Container, error) {
	spendPublic, viewPublic, err := address.AddressToKeys(primaryAddress)
	if err != nil {
		return nil, err
	}

	var syncTimestamp Timestamp
	if newWallet {
		syncTimestamp = Timestamp(clock.Now())
	}

	primary := newViewSubWallet(spendPublic, viewPublic, scanHeight, syncTimestamp, true)

	c := &Container{
		consts:           consts,
		clock:            clock,
		subWallets:       map[crypto.PublicKey]*SubWallet{spendPublic: primary},
		publicSpendKeys:  []crypto.PublicKey{spendPublic},
		primaryPublicKey: spendPublic,
		journal:          NewJournal(),
		privateViewKey:   privateViewKey,
		publicViewKey:    viewPublic,
		isViewWallet:     true,
	}
	return c, nil
}

// Close stops accepting new work and waits for in-flight operations to
// finish before releasing resources.
func (c *Container) Close() error {
	c.mu.Lock()
	logger := c.logger
	c.mu.Unlock()

	if logger != nil {
		logger.Println("sub-wallet container shutting down")
	}
	return c.tg.Stop()
}

// IsViewWallet reports whether this Container holds no private spend keys.
func (c *Container) IsViewWallet() bool {
	return c.isViewWallet
}

// PrimaryAddress returns the address of the sub-wallet created at
// construction.
func (c *Container) PrimaryAddress() (string, error) {
	if err := c.tg.Add(); err != nil {
		return "", err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	sw, ok := c.subWallets[c.primaryPublicKey]
	if !ok {
		return "", newError(NoPrimaryAddress, "no sub-wallet is marked primary")
	}
	return sw.Address(), nil
}

// AddSubWallet generates a fresh spend keypair and adds it as a new,
// non-primary sub-wallet. Fails on view wallets.
func (c *Container) AddSubWallet(scanHeight Height) (string, error) {
	if err := c.tg.Add(); err != nil {
		return "", err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isViewWallet {
		return "", newError(IllegalViewWalletOperation, "cannot add a spend-capable sub-wallet to a view wallet")
	}

	spendPublic, spendSecret := crypto.GenerateKeyPair()
	sw := newSubWallet(spendPublic, spendSecret, c.publicViewKey, scanHeight, 0, false)
	c.subWallets[spendPublic] = sw
	c.publicSpendKeys = append(c.publicSpendKeys, spendPublic)
	return sw.Address(), nil
}

// ImportSubWallet adds a sub-wallet from a known private spend key. Fails
// on view wallets, or if the derived public spend key already exists.
func (c *Container) ImportSubWallet(privateSpendKey crypto.SecretKey, scanHeight Height, newWallet bool) (string, error) {
	if err := c.tg.Add(); err != nil {
		return "", err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isViewWallet {
		return "", newError(IllegalViewWalletOperation, "cannot import a spend-capable sub-wallet into a view wallet")
	}

	spendPublic := crypto.SecretKeyToPublicKey(privateSpendKey)
	if _, exists := c.subWallets[spendPublic]; exists {
		return "", newError(SubWalletAlreadyExists, "a sub-wallet with this public spend key already exists")
	}

	var syncTimestamp Timestamp
	if newWallet {
		syncTimestamp = Timestamp(c.clock.Now())
	}
	sw := newSubWallet(spendPublic, privateSpendKey, c.publicViewKey, scanHeight, syncTimestamp, false)
	c.subWallets[spendPublic] = sw
	c.publicSpendKeys = append(c.publicSpendKeys, spendPublic)
	return sw.Address(), nil
}

// ImportViewSubWallet adds a view-only sub-wallet from a known public
// spend key. Fails on full (spend-capable) wallets, or if the public spend
// key already exists.
func (c *Container) ImportViewSubWallet(publicSpendKey crypto.PublicKey, scanHeight Height, newWallet bool) (string, error) {
	if err := c.tg.Add(); err != nil {
		return "", err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isViewWallet {
		return "", newError(IllegalNonViewWalletOperation, "cannot import a view-only sub-wallet into a spend-capable wallet")
	}
	if _, exists := c.subWallets[publicSpendKey]; exists {
		return "", newError(SubWalletAlreadyExists, "a sub-wallet with this public spend key already exists")
	}

	var syncTimestamp Timestamp
	if newWallet {
		syncTimestamp = Timestamp(c.clock.Now())
	}
	sw := newViewSubWallet(publicSpendKey, c.publicViewKey, scanHeight, syncTimestamp, false)
	c.subWallets[publicSpendKey] = sw
	c.publicSpendKeys = append(c.publicSpendKeys, publicSpendKey)
	return sw.Address(), nil
}

// GetMinInitialSyncStart returns (height, timestamp) with at most one
// nonzero: the earliest point any sub-wallet needs its scan to begin from.
//
// Since a sub-wallet uses at most one of (SyncStartHeight,
// SyncStartTimestamp), a zero in either field means that sub-wallet simply
// isn't constraining that dimension, not that it wants to sync from block
// zero or the UNIX epoch. The minimum in each dimension is therefore taken
// over the sub-wallets that actually use it; a dimension nobody uses
// collapses to 0.
func (c *Container) GetMinInitialSyncStart() (Height, Timestamp) {
	if err := c.tg.Add(); err != nil {
		return 0, 0
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	var minHeight Height
	var minTimestamp Timestamp
	haveHeight, haveTimestamp := false, false
	for _, pk := range c.publicSpendKeys {
		sw := c.subWallets[pk]
		h, t := sw.SyncStartHeight(), sw.SyncStartTimestamp()
		if h != 0 && (!haveHeight || h < minHeight) {
			minHeight = h
			haveHeight = true
		}
		if t != 0 && (!haveTimestamp || t < minTimestamp) {
			minTimestamp = t
			haveTimestamp = true
		}
	}

	if minHeight == 0 || minTimestamp == 0 {
		return minHeight, minTimestamp
	}

	heightAsTimestamp := Timestamp(c.consts.ScanHeightToTimestamp(uint64(minHeight)))
	if heightAsTimestamp < minTimestamp {
		return minHeight, 0
	}
	return 0, minTimestamp
}

// GetKeyImageOwner reports whether any sub-wallet owns ki and, if so,
// which public spend key it belongs to. View wallets never own key images
// and always return (false, zero key).
func (c *Container) GetKeyImageOwner(ki crypto.KeyImage) (bool, crypto.PublicKey) {
	if err := c.tg.Add(); err != nil {
		return false, crypto.PublicKey{}
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isViewWallet {
		return false, crypto.PublicKey{}
	}
	for _, pk := range c.publicSpendKeys {
		if c.subWallets[pk].HasKeyImage(ki) {
			return true, pk
		}
	}
	return false, crypto.PublicKey{}
}

// candidateKeys resolves the effective sub-wallet set for an operation:
// all sub-wallets if takeFromAll is set, otherwise exactly the ones named.
func (c *Container) candidateKeys(takeFromAll bool, subWalletKeys []crypto.PublicKey) []crypto.PublicKey {
	if takeFromAll {
		return c.publicSpendKeys
	}
	return subWalletKeys
}

func (c *Container) gatherSpendableInputs(keys []crypto.PublicKey) []InputOutput {
	var all []InputOutput
	for _, pk := range keys {
		sw, ok := c.subWallets[pk]
		if !ok {
			continue
		}
		all = append(all, sw.ledger.GetInputs(sw.PublicSpendKey(), sw.PrivateSpendKey())...)
	}
	return all
}

func shuffleInputs(in []InputOutput) {
	perm := fastrand.Perm(len(in))
	shuffled := make([]InputOutput, len(in))
	for i, p := range perm {
		shuffled[i] = in[p]
	}
	copy(in, shuffled)
}

// GetTransactionInputsForAmount selects spendable inputs whose total meets
// or exceeds amount, shuffled uniformly at random before accumulation so
// no deterministic ordering leaks wallet structure. Fails on view wallets,
// and fails with NotEnoughFunds if the candidate set cannot reach amount.
func (c *Container) GetTransactionInputsForAmount(amount Amount, takeFromAll bool, subWalletKeys []crypto.PublicKey) ([]InputOutput, Amount, error) {
	if err := c.tg.Add(); err != nil {
		return nil, 0, err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isViewWallet {
		return nil, 0, newError(IllegalViewWalletOperation, "cannot select spend inputs on a view wallet")
	}

	keys := c.candidateKeys(takeFromAll, subWalletKeys)
	candidates := c.gatherSpendableInputs(keys)
	shuffleInputs(candidates)

	var sum Amount
	var selected []InputOutput
	for _, in := range candidates {
		if sum >= amount {
			break
		}
		selected = append(selected, in)
		sum += in.Input.Amount
	}
	if sum < amount {
		return nil, 0, newError(NotEnoughFunds, "insufficient spendable balance for requested amount")
	}
	return selected, sum, nil
}

// GetBalance sums (unlocked, locked) across the specified sub-wallets as
// of currentHeight.
func (c *Container) GetBalance(subWalletKeys []crypto.PublicKey, takeFromAll bool, currentHeight Height) (unlocked, locked Amount) {
	if err := c.tg.Add(); err != nil {
		return 0, 0
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	now := Timestamp(c.clock.Now())
	keys := c.candidateKeys(takeFromAll, subWalletKeys)
	for _, pk := range keys {
		sw, ok := c.subWallets[pk]
		if !ok {
			continue
		}
		u, l := sw.GetBalance(currentHeight, now, c.consts)
		unlocked += u
		locked += l
	}
	return unlocked, locked
}

// MarkInputAsLocked locks the input identified by ki in whichever
// sub-wallet owns it, recording txHash as the cause.
func (c *Container) MarkInputAsLocked(ki crypto.KeyImage, txHash crypto.Hash) error {
	if err := c.tg.Add(); err != nil {
		return err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isViewWallet {
		return newError(IllegalViewWalletOperation, "cannot lock inputs on a view wallet")
	}
	for _, pk := range c.publicSpendKeys {
		sw := c.subWallets[pk]
		if sw.HasKeyImage(ki) {
			sw.ledger.MarkInputAsLocked(ki, txHash)
			return nil
		}
	}
	return nil
}

// MarkInputAsSpent marks the input identified by ki spent at spendHeight
// in whichever sub-wallet owns it.
func (c *Container) MarkInputAsSpent(ki crypto.KeyImage, spendHeight Height) {
	if err := c.tg.Add(); err != nil {
		return
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, pk := range c.publicSpendKeys {
		sw := c.subWallets[pk]
		if sw.HasKeyImage(ki) {
			sw.ledger.MarkInputAsSpent(ki, spendHeight)
			return
		}
	}
}

// AddConfirmedTransaction routes a scanner-observed transaction into the
// journal and stores any new outputs it produced for this container's
// sub-wallets.
func (c *Container) AddConfirmedTransaction(tx Transaction, newOutputs map[crypto.PublicKey][]ScannedOutput) {
	if err := c.tg.Add(); err != nil {
		return
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.journal.AddConfirmed(tx)
	for pk, outs := range newOutputs {
		sw, ok := c.subWallets[pk]
		if !ok {
			continue
		}
		for _, o := range outs {
			sw.ledger.CompleteAndStoreInput(o.Derivation, o.OutputIndex, o.Input, sw.PublicSpendKey(), sw.PrivateSpendKey(), c.isViewWallet)
		}
	}
}

// AddUnconfirmedTransaction appends tx to the locked transaction journal,
// for a transaction this container just submitted.
func (c *Container) AddUnconfirmedTransaction(tx Transaction) {
	if err := c.tg.Add(); err != nil {
		return
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.journal.AddUnconfirmed(tx)
}

// RemoveForkedTransactions rolls back every confirmed journal entry and
// every sub-wallet's ledger to a state that never saw blocks at or above
// forkHeight.
func (c *Container) RemoveForkedTransactions(forkHeight Height) {
	if err := c.tg.Add(); err != nil {
		return
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.journal.RemoveForked(forkHeight)
	for _, pk := range c.publicSpendKeys {
		c.subWallets[pk].ledger.RemoveForkedInputs(forkHeight)
	}
}

// RemoveCancelledTransactions drops the named locked journal entries and
// unlocks the inputs each one had locked.
func (c *Container) RemoveCancelledTransactions(hashes map[crypto.Hash]struct{}) error {
	if err := c.tg.Add(); err != nil {
		return err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isViewWallet {
		return newError(IllegalViewWalletOperation, "cannot cancel transactions on a view wallet")
	}
	c.journal.RemoveCancelled(hashes)
	for _, pk := range c.publicSpendKeys {
		c.subWallets[pk].ledger.RemoveCancelledTransactions(hashes)
	}
	return nil
}

// LockedHashes returns the hash of every currently locked transaction.
// Fails on view wallets, since only a spend-capable wallet can have
// submitted one.
func (c *Container) LockedHashes() (map[crypto.Hash]struct{}, error) {
	if err := c.tg.Add(); err != nil {
		return nil, err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isViewWallet {
		return nil, newError(IllegalViewWalletOperation, "a view wallet has no locked transactions of its own")
	}
	return c.journal.LockedHashes(), nil
}

// Reset clears all locked journal entries, drops confirmed entries at or
// above scanHeight, and resets every sub-wallet's ledger to match.
func (c *Container) Reset(scanHeight Height) {
	if err := c.tg.Add(); err != nil {
		return
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.journal.Reset(scanHeight)
	for _, pk := range c.publicSpendKeys {
		c.subWallets[pk].ledger.Reset(scanHeight)
	}
}
