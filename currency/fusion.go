package currency

// ApproxMaxInputCount estimates how many inputs a fusion transaction of at
// most maxSize bytes can hold while keeping the required input-to-output
// ratio, given the approximate serialized size of a single input and
// output. It divides FusionTxMaxSize by an estimated per-input cost rather
// than computing an exact serialized size.
func (c Constants) ApproxMaxInputCount(approxInputSize, approxOutputSize uint64) int {
	if approxInputSize == 0 {
		return 0
	}
	ratio := c.FusionTxMinInOutCountRatio
	if ratio == 0 {
		ratio = 1
	}
	// An output is produced for every ratio inputs consumed, so the
	// per-input budget amortizes a fractional output cost alongside it.
	perInput := approxInputSize + approxOutputSize/ratio
	if perInput == 0 {
		return 0
	}
	return int(c.FusionTxMaxSize / perInput)
}

// ScanHeightToTimestamp converts a block height into the UNIX timestamp a
// scanner should use as its rescan starting point, given the chain's
// genesis timestamp and average block time.
func ScanHeightToTimestamp(height uint64, genesisTimestamp, blockTimeSeconds uint64) uint64 {
	return genesisTimestamp + height*blockTimeSeconds
}

// IsTimestamp reports whether an UnlockTime value should be interpreted as
// a UNIX timestamp rather than a block height, per the MaxBlockNumber
// threshold.
func (c Constants) IsTimestamp(unlockTime uint64) bool {
	return unlockTime > c.MaxBlockNumber
}

// AmountBucket returns the fusion-selection bucket an amount falls into:
// floor(log10(amount)), with amount 0 pinned to bucket 0 since log10(0) is
// undefined and a zero-value output still needs a deterministic home.
func AmountBucket(amount uint64) int {
	if amount == 0 {
		return 0
	}
	bucket := 0
	for amount >= 10 {
		amount /= 10
		bucket++
	}
	return bucket
}
