package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vaultnet/vaultd/config"
	"github.com/vaultnet/vaultd/db"
	"github.com/vaultnet/vaultd/events"
	"github.com/vaultnet/vaultd/exception"
	"github.com/vaultnet/vaultd/host"
	"github.com/vaultnet/vaultd/jsonrpc"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/monitoring"
	"github.com/vaultnet/vaultd/store"
	"github.com/vaultnet/vaultd/types"
)

var nodeConfigPath string

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Run the vaultd ledger node",
	Long:  "Runs the ledger node: slot storage, the vault program host, and the JSON-RPC surface clients submit instructions to.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNode(nodeConfigPath)
	},
}

func init() {
	rootCmd.AddCommand(nodeCmd)

	nodeCmd.Flags().StringVarP(&nodeConfigPath, "config", "c", "node.yml", "path to the node configuration file")
}

func runNode(configPath string) error {
	cfg, err := config.LoadNodeConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load node config: %w", err)
	}

	programID, err := types.IdentityFromString(cfg.ProgramID)
	if err != nil {
		return fmt.Errorf("invalid program_id: %w", err)
	}

	provider, err := db.NewProvider(cfg.Storage.Backend, cfg.Storage.Directory, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	slots, err := store.NewGenericSlotStore(provider)
	if err != nil {
		return fmt.Errorf("failed to init slot store: %w", err)
	}
	defer slots.MustClose()

	bus := events.NewEventBus()
	h := host.NewHost(programID, slots, bus)

	if err := h.CreateAccountsFromGenesis(cfg.Genesis.Accounts); err != nil {
		return fmt.Errorf("failed to provision genesis accounts: %w", err)
	}

	if cfg.MetricsAddr != "" {
		exception.SafeGo("metrics server", func() {
			monitoring.Run(cfg.MetricsAddr)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logx.Info("NODE", fmt.Sprintf("Starting vaultd node | program_id=%s | listen=%s", cfg.ProgramID, cfg.ListenAddr))
	srv := jsonrpc.NewServer(h, bus)
	return srv.Run(ctx, cfg.ListenAddr)
}
