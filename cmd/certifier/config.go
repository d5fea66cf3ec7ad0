package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spacemeshos/postcore/certifier"
)

const certifierConfigPathEnv = "CERTIFIER_CONFIG_PATH"

type cliConfig struct {
	ConfigFile        string `mapstructure:"config"`
	SigningKeySeedB64 string `mapstructure:"signing-key"`
	certifier.Config  `mapstructure:",squash"`
}

func defaultCLIConfig() *cliConfig {
	return &cliConfig{Config: certifier.DefaultConfig()}
}

func setFlags(cmd *cobra.Command, cfg *cliConfig) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to configuration file")
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "certifier HTTP listen address")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "metrics HTTP listen address")
	flags.IntVar(&cfg.MaxConcurrentRequests, "max-concurrent-requests", cfg.MaxConcurrentRequests, "bounded semaphore size for CPU-bound verification")
	flags.IntVar(&cfg.MaxPendingRequests, "max-pending-requests", cfg.MaxPendingRequests, "bounded admission queue depth")
	flags.StringVar(&cfg.SigningKeySeedB64, "signing-key", cfg.SigningKeySeedB64, "base64-encoded 32-byte Ed25519 seed")
}

func loadConfig(cmd *cobra.Command) (*cliConfig, error) {
	cfg := defaultCLIConfig()

	vip := viper.New()
	vip.SetEnvPrefix("")
	_ = vip.BindEnv("config", certifierConfigPathEnv)

	fileLocation := vip.GetString("config")
	if fileLocation == "" {
		fileLocation, _ = cmd.PersistentFlags().GetString("config")
	}
	if fileLocation != "" {
		vip.SetConfigFile(fileLocation)
		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", fileLocation, err)
		}
	}
	// Flags set on the command line take precedence over the config file.
	if err := vip.BindPFlags(cmd.PersistentFlags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.SigningKeySeedB64 != "" {
		seed, err := base64.StdEncoding.DecodeString(cfg.SigningKeySeedB64)
		if err != nil {
			return nil, fmt.Errorf("decoding signing key: %w", err)
		}
		cfg.SigningKeySeed = seed
	}

	return cfg, nil
}
