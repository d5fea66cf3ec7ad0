// Package cipher implements the AES-128 batched PRF kernel from spec
// §4.3: for a challenge and a single label-nonce, it derives a pair of
// AES-128 keys and runs ECB-mode block encryption over batches of labels
// to produce the C0/C1 streams. The proving and verifying pipelines key
// one Kernel per nonce (each of the 16 nonces of a group gets its own
// keys) and sieve against C0 only.
//
// There is no AES-NI/ARMv8 binding in the example corpus to ground a
// hardware-accelerated path on (see DESIGN.md); this is the one
// standard-library-only component of the kernel, using crypto/aes +
// crypto/cipher directly. Its output is required to be bit-identical to
// any hardware path, so a portable implementation is also the correct
// reference.
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/spacemeshos/postcore/shared"
)

// GroupKeys holds the two AES-128 keys derived for one nonce value: K0
// feeds the difficulty test; K1 feeds the C1 stream, which no pipeline in
// this module consumes.
type GroupKeys struct {
	K0, K1 [16]byte
}

// DeriveGroupKeys computes K0, K1 from challenge and a nonce value (the
// callers pass the individual label-nonce, not the group index): each key
// is the first 16 bytes of Blake3(challenge || nonce_le || domain_tag).
func DeriveGroupKeys(challenge shared.Challenge, group uint32) GroupKeys {
	return GroupKeys{
		K0: deriveKey(challenge, group, 0),
		K1: deriveKey(challenge, group, 1),
	}
}

func deriveKey(challenge shared.Challenge, group uint32, domain byte) [16]byte {
	h := blake3.New()
	h.Write(challenge[:])
	var groupBuf [4]byte
	binary.LittleEndian.PutUint32(groupBuf[:], group)
	h.Write(groupBuf[:])
	h.Write([]byte{domain})

	var key [16]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Kernel runs the AES-128 ECB cipher under one GroupKeys pair (one
// label-nonce), over whatever label batch it is handed.
type Kernel struct {
	block0, block1 cipher.Block
}

// NewKernel constructs a Kernel for the given group keys.
func NewKernel(keys GroupKeys) (*Kernel, error) {
	b0, err := aes.NewCipher(keys.K0[:])
	if err != nil {
		return nil, fmt.Errorf("aes cipher for K0: %w", err)
	}
	b1, err := aes.NewCipher(keys.K1[:])
	if err != nil {
		return nil, fmt.Errorf("aes cipher for K1: %w", err)
	}
	return &Kernel{block0: b0, block1: b1}, nil
}

// Encrypt0 runs C0 = AES_ENC(K0, labels) over a batch of labels (each 16
// bytes), used for the per-label difficulty test.
func (k *Kernel) Encrypt0(labels []byte) ([]byte, error) {
	return encryptBatch(k.block0, labels)
}

// Encrypt1 runs C1 = AES_ENC(K1, labels). The proving and verifying
// pipelines do not call it.
func (k *Kernel) Encrypt1(labels []byte) ([]byte, error) {
	return encryptBatch(k.block1, labels)
}

func encryptBatch(block cipher.Block, labels []byte) ([]byte, error) {
	if len(labels)%shared.LabelSize != 0 {
		return nil, fmt.Errorf("label batch length %d not a multiple of %d", len(labels), shared.LabelSize)
	}
	out := make([]byte, len(labels))
	for off := 0; off < len(labels); off += aes.BlockSize {
		block.Encrypt(out[off:off+aes.BlockSize], labels[off:off+aes.BlockSize])
	}
	return out, nil
}

// LeadingUint64 reinterprets the first 8 bytes of a 16-byte AES output
// block as a little-endian uint64, the value compared against D_nonce.
func LeadingUint64(block []byte) uint64 {
	return binary.LittleEndian.Uint64(block[:8])
}
