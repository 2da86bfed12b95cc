package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vaultnet/vaultd/logx"
)

var rootCmd = &cobra.Command{
	Use:   "vaultd",
	Short: "vaultd ledger node CLI",
	Long:  "Command line interface for running a vaultd ledger node and its client tools.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
