package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultnet/vaultd/client"
)

type accountCreateConfig struct {
	NodeURL string
	Address string
	Owner   string
	Amount  string
}

var createConfig accountCreateConfig

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage vault accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a new account slot",
	Long: `Provisions an account slot on the node, optionally funded with an
initial balance. The owner defaults to the node's program identity.

Examples:
  # Provision an empty account
  vaultd account create -u http://localhost:8545/rpc -a 5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY

  # Provision an account funded with 1000
  vaultd account create -u http://localhost:8545/rpc -a 5Grw... --amount 1_000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAccountCreate(createConfig)
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd)

	accountCreateCmd.Flags().StringVarP(&createConfig.NodeURL, "node-url", "u", "http://localhost:8545/rpc", "node RPC endpoint")
	accountCreateCmd.Flags().StringVarP(&createConfig.Address, "address", "a", "", "address of the account to provision")
	accountCreateCmd.Flags().StringVarP(&createConfig.Owner, "owner", "o", "", "owner identity (defaults to the node's program)")
	accountCreateCmd.Flags().StringVar(&createConfig.Amount, "amount", "0", "initial balance")
	accountCreateCmd.MarkFlagRequired("address")
}

func runAccountCreate(cfg accountCreateConfig) error {
	amount := uint64(0)
	if cfg.Amount != "" && cfg.Amount != "0" {
		parsed, err := parseAmount(cfg.Amount)
		if err != nil {
			return err
		}
		amount = parsed
	}

	c := client.New(client.Config{Endpoint: cfg.NodeURL})
	defer c.Close()

	if err := c.CreateAccount(context.Background(), cfg.Address, cfg.Owner, amount); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	fmt.Printf("Account %s provisioned with balance %d\n", cfg.Address, amount)
	return nil
}
