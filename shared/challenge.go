package shared

import "github.com/zeebo/blake3"

// Challenge is the 32-byte opaque value a protocol epoch supplies to the
// prover; it seeds nonce-group key derivation and k3 verification
// subsampling.
type Challenge [ChallengeSize]byte

// Commitment derives the 32-byte commitment binding an identity to a
// commitment ATX id: Blake3(identity || commitmentAtxId).
func Commitment(identity, commitmentAtxId []byte) [CommitmentSize]byte {
	h := blake3.New()
	h.Write(identity)
	h.Write(commitmentAtxId)
	var out [CommitmentSize]byte
	copy(out[:], h.Sum(nil))
	return out
}
