package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spacemeshos/postcore/internal/randomx"
)

const k2PowConfigPathEnv = "K2POW_CONFIG_PATH"

type cliConfig struct {
	ConfigFile  string `mapstructure:"config"`
	Addr        string `mapstructure:"addr"`
	MetricsAddr string `mapstructure:"metrics-addr"`
	Threads     int    `mapstructure:"threads"`
	MaxNonce    uint64 `mapstructure:"max-nonce"`
	Fast        bool   `mapstructure:"fast"`
}

func defaultCLIConfig() *cliConfig {
	return &cliConfig{
		Addr:        ":9090",
		MetricsAddr: ":9091",
		Threads:     0,
		MaxNonce:    1 << 32,
	}
}

func (c *cliConfig) mode() randomx.Mode {
	if c.Fast {
		return randomx.ModeFast
	}
	return randomx.ModeLight
}

func setFlags(cmd *cobra.Command, cfg *cliConfig) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to configuration file")
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "K2-PoW HTTP listen address")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus /metrics listen address")
	flags.IntVar(&cfg.Threads, "threads", cfg.Threads, "worker threads for the RandomX search (0 = NumCPU)")
	flags.Uint64Var(&cfg.MaxNonce, "max-nonce", cfg.MaxNonce, "upper bound on the searched nonce space per job")
	flags.BoolVar(&cfg.Fast, "fast", cfg.Fast, "use the Fast (full-dataset) RandomX mode instead of Light")
}

func loadConfig(cmd *cobra.Command) (*cliConfig, error) {
	cfg := defaultCLIConfig()

	vip := viper.New()
	_ = vip.BindEnv("config", k2PowConfigPathEnv)

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
	return cfg, nil
}
