package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/postcore/initialization"
)

var resetBeforeInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "initialize PoST data for an identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID, err := cfg.nodeID()
		if err != nil {
			return err
		}
		atxID, err := cfg.commitmentAtxID()
		if err != nil {
			return err
		}

		logger := newLogger()
		defer logger.Sync()

		init, err := initialization.New(cfg.Post, cfg.Init, nodeID, atxID, initialization.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("building initializer: %w", err)
		}

		if resetBeforeInit {
			if err := init.Reset(); err != nil {
				return fmt.Errorf("resetting datadir: %w", err)
			}
		}

		state, err := init.Status()
		if err != nil {
			return fmt.Errorf("checking datadir state: %w", err)
		}
		if state == initialization.StateCompleted {
			logger.Info("datadir already initialized", zap.String("state", state.String()))
			return nil
		}

		logger.Info("starting initialization", zap.String("state", state.String()))
		if err := init.Initialize(cmd.Context()); err != nil {
			return fmt.Errorf("initializing: %w", err)
		}

		commitment := init.Commitment()
		logger.Info("initialization complete", zap.String("commitment", fmt.Sprintf("%x", commitment)))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&resetBeforeInit, "reset", false, "delete any existing dataset in datadir before initializing")
}
