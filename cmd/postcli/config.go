package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spacemeshos/postcore/config"
)

const postcliConfigPathEnv = "POSTCLI_CONFIG_PATH"

type cliConfig struct {
	ConfigFile string `mapstructure:"config"`

	NodeIDHex string `mapstructure:"node-id"`
	AtxIDHex  string `mapstructure:"commitment-atx-id"`

	ProofFile    string `mapstructure:"proof-file"`
	ChallengeHex string `mapstructure:"challenge"`

	Post config.Config   `mapstructure:",squash"`
	Init config.InitOpts `mapstructure:",squash"`
}

func defaultCLIConfig() *cliConfig {
	return &cliConfig{
		Post:      config.DefaultConfig(),
		Init:      config.DefaultInitOpts(),
		ProofFile: "proof.json",
	}
}

func setFlags(cmd *cobra.Command, cfg *cliConfig) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "path to configuration file")
	flags.StringVar(&cfg.NodeIDHex, "node-id", cfg.NodeIDHex, "hex-encoded 32-byte node id")
	flags.StringVar(&cfg.AtxIDHex, "commitment-atx-id", cfg.AtxIDHex, "hex-encoded 32-byte commitment atx id")
	flags.StringVar(&cfg.Init.DataDir, "datadir", cfg.Init.DataDir, "filesystem datadir path")
	flags.Uint32Var(&cfg.Init.NumUnits, "num-units", cfg.Init.NumUnits, "number of space units")
	flags.UintVar(&cfg.Init.NumFiles, "num-files", cfg.Init.NumFiles, "number of dataset files to split across")
	flags.Uint64Var(&cfg.Post.LabelsPerUnit, "labels-per-unit", cfg.Post.LabelsPerUnit, "labels per space unit")
	flags.Uint32Var(&cfg.Post.K1, "k1", cfg.Post.K1, "k1 difficulty parameter")
	flags.Uint32Var(&cfg.Post.K2, "k2", cfg.Post.K2, "k2 proof-of-work gate parameter")
	flags.Uint32Var(&cfg.Post.K3, "k3", cfg.Post.K3, "k3 verification subsample parameter")
	flags.StringVar(&cfg.ChallengeHex, "challenge", cfg.ChallengeHex, "hex-encoded 32-byte challenge")
	flags.StringVar(&cfg.ProofFile, "proof-file", cfg.ProofFile, "path to read/write the proof JSON document")
}

func loadConfig(cmd *cobra.Command, cfg *cliConfig) error {
	vip := viper.New()
	_ = vip.BindEnv("config", postcliConfigPathEnv)

	fileLocation := vip.GetString("config")
	if fileLocation == "" {
		fileLocation, _ = cmd.Flags().GetString("config")
	}
	if fileLocation == "" {
		return nil
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %q: %w", fileLocation, err)
	}
	return vip.Unmarshal(cfg)
}

func (c *cliConfig) nodeID() ([]byte, error) {
	if c.NodeIDHex == "" {
		return nil, fmt.Errorf("--node-id is required")
	}
	return hex.DecodeString(c.NodeIDHex)
}

func (c *cliConfig) commitmentAtxID() ([]byte, error) {
	if c.AtxIDHex == "" {
		return nil, fmt.Errorf("--commitment-atx-id is required")
	}
	return hex.DecodeString(c.AtxIDHex)
}
