package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/box3check/box3-engine/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "box3",
	Short: "Box 3 refund profitability engine",
	Long:  "Assesses Dutch Box 3 wealth-tax dossiers: compares deemed and actual returns per year, splits refunds across fiscal partners, nets advisory costs and recommends the next step.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
