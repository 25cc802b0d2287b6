// Package currency holds the protocol-level parameters the wallet core
// consumes but does not itself define: the height/timestamp boundary,
// coinbase maturity window, and fusion transaction sizing.
package currency

// Constants groups the protocol parameters the wallet core needs. A real
// daemon would populate this from its genesis/chain configuration.
type Constants struct {
	// MaxBlockNumber is the boundary value of TransactionInput.UnlockTime:
	// values at or below it are a block height, values above it are a UNIX
	// timestamp.
	MaxBlockNumber uint64

	// MinedMoneyUnlockWindow is the number of blocks a coinbase output must
	// wait, on top of its inclusion height, before it is spendable.
	MinedMoneyUnlockWindow uint64

	// FusionTxMaxSize is the maximum serialized size, in bytes, of a fusion
	// transaction.
	FusionTxMaxSize uint64

	// FusionTxMinInOutCountRatio is the minimum ratio of inputs to outputs a
	// fusion transaction must have to be worth submitting.
	FusionTxMinInOutCountRatio uint64

	// FusionTxMinInputCount is the minimum number of same-bucket inputs
	// required for a bucket to be considered "full" during fusion selection.
	FusionTxMinInputCount int

	// GenesisTimestamp and BlockTimeSeconds anchor the height/timestamp
	// conversion ScanHeightToTimestamp performs.
	GenesisTimestamp uint64
	BlockTimeSeconds uint64
}

// DefaultConstants returns the parameter set used by tests and by any
// caller that has not been handed its own chain-specific constants.
func DefaultConstants() Constants {
	return Constants{
		MaxBlockNumber:             500000000,
		MinedMoneyUnlockWindow:     60,
		FusionTxMaxSize:            1024 * 16,
		FusionTxMinInOutCountRatio: 4,
		FusionTxMinInputCount:      12,
		GenesisTimestamp:           1400000000,
		BlockTimeSeconds:           120,
	}
}

// ScanHeightToTimestamp converts a block height into the UNIX timestamp a
// scanner should use as its rescan starting point, anchored to this chain's
// genesis timestamp and average block time.
func (c Constants) ScanHeightToTimestamp(height uint64) uint64 {
	return ScanHeightToTimestamp(height, c.GenesisTimestamp, c.BlockTimeSeconds)
}
