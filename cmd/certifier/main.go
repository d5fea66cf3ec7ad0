// Command certifier runs the PoST certifier HTTP service (spec §4.8),
// verifying submitted proofs and signing accepted node identities.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/postcore/certifier"
)

var rootCmd = &cobra.Command{
	Use:   "certifier",
	Short: "PoST certifier: verify proofs and issue signed certificates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cfg)
	},
}

var generateKeysCmd = &cobra.Command{
	Use:   "generate-keys",
	Short: "generate a fresh Ed25519 signing keypair and print it as base64 JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, seed, err := certifier.GenerateSigner()
		if err != nil {
			return err
		}
		out := struct {
			PublicKey string `json:"public_key"`
			SecretKey string `json:"secret_key"`
		}{
			PublicKey: base64.StdEncoding.EncodeToString(signer.PublicKey()),
			SecretKey: base64.StdEncoding.EncodeToString(seed),
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	},
}

func init() {
	setFlags(rootCmd, defaultCLIConfig())
	rootCmd.AddCommand(generateKeysCmd)
}

func run(cfg *cliConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	signer, err := certifier.NewSigner(cfg.SigningKeySeed)
	if err != nil {
		return fmt.Errorf("loading signing key: %w", err)
	}

	svc := certifier.NewService(cfg.Config, signer, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting certifier", zap.String("addr", cfg.Addr), zap.String("metrics-addr", cfg.MetricsAddr))
	return svc.Start(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
