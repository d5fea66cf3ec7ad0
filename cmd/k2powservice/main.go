// Command k2powservice runs the out-of-process K2 PoW worker (spec
// §4.7), an HTTP front door around the RandomX-based K2 PoW engine with
// single-slot admission control and a process-lifetime result cache.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/postcore/k2pow"
)

var rootCmd = &cobra.Command{
	Use:   "k2powservice",
	Short: "K2-PoW service: RandomX proof-of-work search over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cfg)
	},
}

func init() {
	setFlags(rootCmd, defaultCLIConfig())
}

func run(cfg *cliConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	svc := k2pow.NewService(cfg.mode(), cfg.Threads, cfg.MaxNonce, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting k2pow service", zap.String("addr", cfg.Addr), zap.String("metrics_addr", cfg.MetricsAddr))
	return svc.Start(ctx, cfg.Addr, cfg.MetricsAddr)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
