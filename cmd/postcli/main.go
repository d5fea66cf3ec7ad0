// Command postcli drives the dataset initialization, proving and
// verification pipelines (spec §6.3) from a single binary, following the
// teacher's v2/cmd/postcli cobra-subcommand layout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg = defaultCLIConfig()

var rootCmd = &cobra.Command{
	Use:   "postcli",
	Short: "PoST initialization, proving and verification CLI",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd, cfg)
	},
}

func init() {
	setFlags(rootCmd, cfg)
	rootCmd.AddCommand(initCmd, proveCmd, verifyCmd)
}

func newLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
