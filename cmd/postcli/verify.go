package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/postcore/verifying"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "verify a proof document produced by the prove subcommand",
	RunE: func(cmd *cobra.Command, args []string) error {
		proof, metadata, err := readProofDocument(cfg.ProofFile)
		if err != nil {
			return err
		}

		logger := newLogger()
		defer logger.Sync()

		opts := verifying.Options{K3: int(cfg.Post.K3)}
		if err := verifying.Verify(proof, metadata, cfg.Post, opts); err != nil {
			logger.Error("proof rejected", zap.Error(err))
			return fmt.Errorf("proof invalid: %w", err)
		}

		logger.Info("proof valid", zap.String("file", cfg.ProofFile))
		return nil
	},
}
