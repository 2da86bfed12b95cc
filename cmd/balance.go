package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vaultnet/vaultd/client"
	"github.com/vaultnet/vaultd/config"
)

var balanceConfigPath string

// balanceCmd fetches the balances of every configured wallet concurrently,
// one independent round trip per wallet.
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Query balances for the configured wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBalance(balanceConfigPath)
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVarP(&balanceConfigPath, "config", "c", "balance.yml", "path to the balance configuration file")
}

type balanceResult struct {
	wallet  string
	balance uint64
	err     error
}

func runBalance(configPath string) error {
	cfg, err := config.LoadBalanceConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load balance config: %w", err)
	}

	c := client.New(client.Config{Endpoint: cfg.Endpoint})
	defer c.Close()

	ctx := context.Background()
	results := make([]balanceResult, len(cfg.Wallets))

	var wg sync.WaitGroup
	for i, wallet := range cfg.Wallets {
		wg.Add(1)
		go func(i int, wallet string) {
			defer wg.Done()
			view, err := c.GetBalance(ctx, wallet)
			if err != nil {
				results[i] = balanceResult{wallet: wallet, err: err}
				return
			}
			results[i] = balanceResult{wallet: wallet, balance: view.Balance}
		}(i, wallet)
	}
	wg.Wait()

	for _, res := range results {
		if res.err != nil {
			fmt.Printf("Error fetching balance for %s: %v\n", res.wallet, res.err)
			continue
		}
		fmt.Printf("Wallet: %s, Balance: %d\n", res.wallet, res.balance)
	}
	return nil
}
