// Package certifier implements the HTTP signing oracle from spec §4.8: it
// verifies a PoST proof with the shared Verifier and, on success, signs
// the node identity (and an optional expiration) with an Ed25519 key.
// Grounded in go-spacemesh's activation/certifier.go for the request/
// response JSON shapes and cmd/bootstrapper/server.go for the plain
// net/http + errgroup service pattern.
package certifier

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/spacemeshos/ed25519"
)

// Signer holds the certifier's Ed25519 signing key.
type Signer struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// NewSigner derives a Signer from a 32-byte seed (the config-provided
// signing key).
func NewSigner(seed []byte) (*Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing key seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Signer{pub: pub, priv: priv}, nil
}

// GenerateSigner creates a fresh random keypair, for the `generate-keys`
// CLI subcommand.
func GenerateSigner() (*Signer, []byte, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return &Signer{pub: pub, priv: priv}, priv.Seed(), nil
}

// PublicKey returns the 32-byte Ed25519 public key.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.pub
}

// Sign signs nodeID, optionally appended with a little-endian expiration
// timestamp, per spec §4.8: signature = Ed25519(signing_key, node_id ||
// expiration_le_if_present).
func (s *Signer) Sign(nodeID []byte, expirationUnix *int64) []byte {
	msg := make([]byte, 0, len(nodeID)+8)
	msg = append(msg, nodeID...)
	if expirationUnix != nil {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(*expirationUnix))
		msg = append(msg, buf[:]...)
	}
	return ed25519.Sign(s.priv, msg)
}
