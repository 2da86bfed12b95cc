package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultnet/vaultd/client"
	"github.com/vaultnet/vaultd/config"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/types"
)

var watchConfigPath string

// watchCmd long-polls the pool account and reacts to every observed update
// by depositing the configured amount into the recipient account.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the pool account and trigger transfers on updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(watchConfigPath)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchConfigPath, "config", "c", "watch.yml", "path to the watch configuration file")
}

func runWatch(configPath string) error {
	cfg, err := config.LoadWatchConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load watch config: %w", err)
	}
	owner, err := types.IdentityFromString(cfg.ProgramID)
	if err != nil {
		return fmt.Errorf("invalid program_id: %w", err)
	}
	recipient, err := types.IdentityFromString(cfg.RecipientAddress)
	if err != nil {
		return fmt.Errorf("invalid recipient_address: %w", err)
	}
	amount, err := parseAmount(cfg.Amount)
	if err != nil {
		return err
	}
	wait := 30 * time.Second
	if cfg.WaitMs > 0 {
		wait = time.Duration(cfg.WaitMs) * time.Millisecond
	}

	c := client.New(client.Config{Endpoint: cfg.Endpoint})
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logx.Info("WATCH CLI", fmt.Sprintf("Watching pool account %s", cfg.PoolAddress))
	for ctx.Err() == nil {
		update, err := c.WatchAccount(ctx, cfg.PoolAddress, wait)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logx.Warn("WATCH CLI", fmt.Sprintf("Watch failed: %v", err))
			time.Sleep(time.Second)
			continue
		}
		if update == nil {
			// Wait window elapsed without a change; poll again.
			continue
		}

		logx.Info("WATCH CLI", fmt.Sprintf("Pool account updated | balance=%d seq=%d", update.Balance, update.Seq))
		deposit, err := client.BuildDepositInstruction(amount, owner)
		if err != nil {
			return err
		}
		if err := c.SendInstruction(ctx, recipient, deposit, true); err != nil {
			logx.Error("WATCH CLI", fmt.Sprintf("Transfer to %s failed: %v", cfg.RecipientAddress, err))
			continue
		}
		fmt.Printf("Transfer sent to %s after pool update (seq %d)\n", cfg.RecipientAddress, update.Seq)
	}
	return nil
}
