package walletcore

import (
	"github.com/NebulousLabs/fastrand"

	"github.com/rivinelabs/subwallet/crypto"
	"github.com/rivinelabs/subwallet/currency"
)

// GetFusionTransactionInputs selects inputs for a zero-fee consolidation
// transaction: candidates are bucketed by floor(log10(amount)), and
// "full" buckets (at least FusionTxMinInputCount members) are preferred
// over the full candidate set, on the theory that consolidating
// same-denomination inputs does the most to reduce wallet fragmentation.
// It fails on view wallets; otherwise, unlike GetTransactionInputsForAmount,
// it never fails for lack of funds, and callers decide whether the returned
// inputs are worth submitting.
func (c *Container) GetFusionTransactionInputs(takeFromAll bool, subWalletKeys []crypto.PublicKey, mixin uint64) ([]InputOutput, int, Amount, error) {
	if err := c.tg.Add(); err != nil {
		return nil, 0, 0, err
	}
	defer c.tg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isViewWallet {
		return nil, 0, 0, newError(IllegalViewWalletOperation, "cannot select fusion inputs on a view wallet")
	}

	keys := c.candidateKeys(takeFromAll, subWalletKeys)
	candidates := c.gatherSpendableInputs(keys)

	approxInputSize, approxOutputSize := approxSizesForMixin(mixin)
	maxInputs := c.consts.ApproxMaxInputCount(approxInputSize, approxOutputSize)

	shuffleInputs(candidates)

	buckets := bucketByAmount(candidates)
	chosen := selectFusionBuckets(buckets, c.consts.FusionTxMinInputCount)

	var selected []InputOutput
	var foundMoney Amount
	for _, in := range chosen {
		if len(selected) >= maxInputs {
			break
		}
		selected = append(selected, in)
		foundMoney += in.Input.Amount
	}
	return selected, maxInputs, foundMoney, nil
}

// approxSizesForMixin estimates the serialized byte size of a single
// ring-signature input (which grows with the mixin count) and of a single
// output, for feeding into ApproxMaxInputCount. The constants are rough
// CryptoNote-family ballpark figures, not a precise wire-format
// computation, matching the "approx" contract of the function they feed.
func approxSizesForMixin(mixin uint64) (inputSize, outputSize uint64) {
	const baseInputSize = 32
	const perRingMemberSize = 32
	const outputSizeConst = 34
	return baseInputSize + mixin*perRingMemberSize, outputSizeConst
}

// bucketByAmount groups candidates by currency.AmountBucket, preserving
// each bucket's relative order from the (already shuffled) input slice.
func bucketByAmount(candidates []InputOutput) map[int][]InputOutput {
	buckets := make(map[int][]InputOutput)
	for _, in := range candidates {
		b := currency.AmountBucket(uint64(in.Input.Amount))
		buckets[b] = append(buckets[b], in)
	}
	return buckets
}

// selectFusionBuckets returns, in order: one randomly-chosen full bucket if
// any bucket has at least minInputCount members, or the concatenation of
// every bucket otherwise.
func selectFusionBuckets(buckets map[int][]InputOutput, minInputCount int) []InputOutput {
	var fullBucketKeys []int
	for b, members := range buckets {
		if len(members) >= minInputCount {
			fullBucketKeys = append(fullBucketKeys, b)
		}
	}

	if len(fullBucketKeys) == 0 {
		var all []InputOutput
		for _, members := range buckets {
			all = append(all, members...)
		}
		return all
	}

	choice := fullBucketKeys[fastrand.Intn(len(fullBucketKeys))]
	return buckets[choice]
}
