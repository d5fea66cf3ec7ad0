package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/postcore/initialization"
	"github.com/spacemeshos/postcore/persistence"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "print the initialization state of a datadir",
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID, err := cfg.nodeID()
		if err != nil {
			return err
		}
		atxID, err := cfg.commitmentAtxID()
		if err != nil {
			return err
		}

		init, err := initialization.New(cfg.Post, cfg.Init, nodeID, atxID)
		if err != nil {
			return fmt.Errorf("building initializer: %w", err)
		}

		state, err := init.Status()
		if err != nil {
			return fmt.Errorf("checking datadir state: %w", err)
		}

		row := []string{cfg.Init.DataDir, state.String(), "-", "-"}
		if metadata, err := persistence.LoadMetadata(cfg.Init.DataDir); err == nil {
			row[2] = fmt.Sprintf("%d", metadata.NumUnits)
			if metadata.Nonce != nil {
				row[3] = fmt.Sprintf("%d", *metadata.Nonce)
			}
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"datadir", "state", "num-units", "vrf-nonce"})
		table.SetBorder(true)
		table.Append(row)
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
