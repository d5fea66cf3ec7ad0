package certifier

import (
	"time"

	"github.com/spacemeshos/postcore/config"
)

// Config holds the certifier HTTP service's own settings, layered on top
// of the shared PoST Config it verifies proofs against.
type Config struct {
	Addr        string `mapstructure:"addr"`
	MetricsAddr string `mapstructure:"metrics-addr"`

	MaxConcurrentRequests int   `mapstructure:"max-concurrent-requests"`
	MaxPendingRequests    int   `mapstructure:"max-pending-requests"`
	MaxBodySize           int64 `mapstructure:"max-body-size"`

	// SigningKeySeed is the raw 32-byte Ed25519 seed, base64-encoded in
	// the on-disk config (spec §6.4 "Signing key file").
	SigningKeySeed []byte `mapstructure:"signing-key-seed"`

	// CertificateTTL is the optional lifetime added to now() to produce
	// the certificate's expiration; zero disables expiration.
	CertificateTTL time.Duration `mapstructure:"certificate-ttl"`

	K3 int `mapstructure:"k3"`

	Post config.Config `mapstructure:"post"`
}

func DefaultConfig() Config {
	return Config{
		Addr:                  ":8080",
		MetricsAddr:           ":8081",
		MaxConcurrentRequests: config.DefaultMaxConcurrentRequests,
		MaxPendingRequests:    config.DefaultMaxPendingRequests,
		MaxBodySize:           config.DefaultMaxBodySize,
		Post:                  config.DefaultConfig(),
	}
}
