package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/postcore/persistence"
	"github.com/spacemeshos/postcore/proving"
	"github.com/spacemeshos/postcore/shared"
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "generate a proof against an already-initialized dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID, err := cfg.nodeID()
		if err != nil {
			return err
		}
		atxID, err := cfg.commitmentAtxID()
		if err != nil {
			return err
		}

		challengeBytes, err := hex.DecodeString(cfg.ChallengeHex)
		if err != nil || len(challengeBytes) != shared.ChallengeSize {
			return fmt.Errorf("--challenge must be %d hex-encoded bytes", shared.ChallengeSize)
		}
		var challenge shared.Challenge
		copy(challenge[:], challengeBytes)

		logger := newLogger()
		defer logger.Sync()

		popts := proving.DefaultOptions()
		popts.Logger = logger

		proof, err := proving.Generate(cmd.Context(), cfg.Post, cfg.Init, nodeID, atxID, challenge, popts)
		if err != nil {
			return fmt.Errorf("generating proof: %w", err)
		}

		metadata := &shared.ProofMetadata{
			NodeId:          nodeID,
			CommitmentAtxId: atxID,
			Challenge:       challenge,
			NumUnits:        cfg.Init.NumUnits,
			LabelsPerUnit:   cfg.Post.LabelsPerUnit,
			K1:              cfg.Post.K1,
			K2:              cfg.Post.K2,
		}
		if err := writeProofDocument(cfg.ProofFile, proof, metadata); err != nil {
			return fmt.Errorf("writing proof file: %w", err)
		}
		if err := persistence.SaveProofScale(cfg.ProofFile+".scale", proof); err != nil {
			return fmt.Errorf("writing compact proof cache: %w", err)
		}

		logger.Info("proof generated",
			zap.String("file", cfg.ProofFile),
			zap.Uint32("nonce", proof.Nonce),
			zap.Uint64("pow", proof.Pow),
		)
		return nil
	},
}
