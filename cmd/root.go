package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arbor-analytics/causalprep/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "causalprep",
	Short: "Causal-inference dataset preparation pipeline",
	Long:  "Filters a raw survey dataset to the eligible population, binarizes the treatment column by median split, flips the cost target, one-hot encodes categorical features, and writes stratified train/valid/test partitions.",
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
