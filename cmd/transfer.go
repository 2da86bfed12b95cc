package cmd

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/vaultnet/vaultd/client"
	"github.com/vaultnet/vaultd/config"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/types"
)

var (
	transferConfigPath string
	transferTuningPath string
)

// transferCmd submits one withdraw+deposit pair per configured wallet and
// recipient. The two instructions are deliberately independent units of work:
// the ledger offers no cross-account atomicity.
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Submit batch transfers from the configured wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(transferConfigPath, transferTuningPath)
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().StringVarP(&transferConfigPath, "config", "c", "transfer.yml", "path to the transfer configuration file")
	transferCmd.Flags().StringVarP(&transferTuningPath, "tuning", "t", "", "optional .ini file with retry tuning")
}

type transferResult struct {
	sender    string
	recipient string
	err       error
}

func parseAmount(raw string) (uint64, error) {
	amount, err := uint256.FromDecimal(strings.ReplaceAll(raw, "_", ""))
	if err != nil {
		return 0, fmt.Errorf("could not parse amount string: %w", err)
	}
	if !amount.IsUint64() {
		return 0, fmt.Errorf("amount %s does not fit in 64 bits", raw)
	}
	return amount.Uint64(), nil
}

func runTransfer(configPath, tuningPath string) error {
	cfg, err := config.LoadTransferConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load transfer config: %w", err)
	}
	retryCfg, err := config.LoadRetryConfig(tuningPath)
	if err != nil {
		return fmt.Errorf("failed to load retry config: %w", err)
	}
	amount, err := parseAmount(cfg.Amount)
	if err != nil {
		return err
	}

	c := client.New(client.Config{
		Endpoint:    cfg.Endpoint,
		MaxAttempts: retryCfg.MaxAttempts,
		RetryDelay:  time.Duration(retryCfg.DelayMs) * time.Millisecond,
	})
	defer c.Close()

	ctx := context.Background()

	// Fetch the chain-state reference up front, with bounded retry.
	ref, err := c.GetRecentRefWithRetry(ctx)
	if err != nil {
		return err
	}
	logx.Info("TRANSFER CLI", fmt.Sprintf("Using chain reference %s", ref))

	owner, err := types.IdentityFromString(cfg.ProgramID)
	if err != nil {
		return fmt.Errorf("invalid program_id: %w", err)
	}

	now := time.Now()
	results := make([]transferResult, len(cfg.Wallets))

	var wg sync.WaitGroup
	for i := range cfg.Wallets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = sendPair(ctx, c, owner, cfg.Wallets[i], cfg.Recipients[i], amount)
		}(i)
	}
	wg.Wait()

	fmt.Printf("All transfers submitted in: %s\n", time.Since(now))
	for i, res := range results {
		if res.err != nil {
			fmt.Printf("Transfer %d: %s -> %s failed: %v\n", i+1, res.sender, res.recipient, res.err)
			continue
		}
		fmt.Printf("Transfer %d: %s -> %s ok\n", i+1, res.sender, res.recipient)
	}
	return nil
}

func sendPair(ctx context.Context, c *client.VaultClient, owner types.Identity, walletKey, recipient string, amount uint64) transferResult {
	privKey, err := config.ParseEd25519PrivKey(walletKey)
	if err != nil {
		return transferResult{err: fmt.Errorf("failed to parse wallet key: %w", err)}
	}
	sender := types.IdentityFromPubKey(privKey.Public().(ed25519.PublicKey))
	res := transferResult{sender: sender.String(), recipient: recipient}

	recipientID, err := types.IdentityFromString(recipient)
	if err != nil {
		res.err = fmt.Errorf("invalid recipient address: %w", err)
		return res
	}

	withdraw, err := client.BuildWithdrawInstruction(amount, owner)
	if err != nil {
		res.err = err
		return res
	}
	if err := c.SendInstruction(ctx, sender, withdraw, true); err != nil {
		res.err = fmt.Errorf("withdraw failed: %w", err)
		return res
	}

	deposit, err := client.BuildDepositInstruction(amount, owner)
	if err != nil {
		res.err = err
		return res
	}
	if err := c.SendInstruction(ctx, recipientID, deposit, true); err != nil {
		res.err = fmt.Errorf("deposit failed: %w", err)
		return res
	}
	return res
}
