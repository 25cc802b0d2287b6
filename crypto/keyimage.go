package crypto

// KeyDerivation is the shared secret computed between a transaction's
// public key and a recipient's private view key (8 * a * R in CryptoNote
// notation). The core never computes it itself — it is handed one by an
// external scanner — but owns the type since it flows through
// DeriveKeyImage.
type KeyDerivation [HashSize]byte

// KeyImage is the unique, one-way identity of a spend opportunity: it lets
// the chain recognize a double-spend without revealing which output was
// actually spent. Two UTXOs with the same key image are the same output.
type KeyImage [HashSize]byte

// DeriveKeyImage computes the key image for an output at outputIndex within
// the transaction that derivation was computed from, owned by the spend
// keypair (spendPublic, spendSecret). It is deterministic: the same inputs
// always produce the same key image, and the secret key is required, so a
// view-only wallet (which never holds a private spend key) can never
// compute one.
//
// This is a simplified stand-in for the real CryptoNote construction
// (I = x * Hp(P), computed via scalar multiplication on the output's
// one-time public key); the ed25519 implementation this package builds on
// exposes no scalar-multiplication primitive, so the binding here is built
// from HashAll
// instead, preserving the properties DeriveKeyImage's callers rely on
// (deterministic, requires the secret key, unique per output).
func DeriveKeyImage(derivation KeyDerivation, outputIndex uint64, spendPublic PublicKey, spendSecret SecretKey) KeyImage {
	h := HashAll(derivation[:], outputIndex, spendPublic, spendSecret)
	return KeyImage(h)
}
