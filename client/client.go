// Package client is the SDK the balance, transfer and watch tools use to talk
// to a vaultd node. The endpoint is always explicit configuration; nothing is
// baked in.
package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/vaultnet/vaultd/codec"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/types"
)

type Config struct {
	Endpoint    string
	MaxAttempts int           // bounded retry for transient fetches
	RetryDelay  time.Duration // fixed delay between attempts
}

type VaultClient struct {
	cfg Config
	cli *jrpc2.Client
}

func New(cfg Config) *VaultClient {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	ch := jhttp.NewChannel(cfg.Endpoint, nil)
	return &VaultClient{
		cfg: cfg,
		cli: jrpc2.NewClient(ch, nil),
	}
}

// Close closes the underlying connection
func (c *VaultClient) Close() error {
	return c.cli.Close()
}

// SendInstruction submits raw instruction bytes against the target account
// and awaits settlement.
func (c *VaultClient) SendInstruction(ctx context.Context, target types.Identity, instruction []byte, writable bool) error {
	params := sendInstructionParams{
		Target:      target.String(),
		Instruction: hex.EncodeToString(instruction),
	}
	if !writable {
		params.Writable = &writable
	}
	var res sendInstructionResult
	if err := c.cli.CallResult(ctx, "ledger.sendinstruction", params, &res); err != nil {
		return err
	}
	if !res.Ok {
		return fmt.Errorf("send-instruction failed for %s", target)
	}
	return nil
}

func (c *VaultClient) GetBalance(ctx context.Context, addr string) (*AccountView, error) {
	var res AccountView
	if err := c.cli.CallResult(ctx, "account.getbalance", getBalanceParams{Address: addr}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *VaultClient) CreateAccount(ctx context.Context, addr, owner string, amount uint64) error {
	var res createAccountResult
	return c.cli.CallResult(ctx, "account.create", createAccountParams{Address: addr, Owner: owner, Amount: amount}, &res)
}

// WatchAccount long-polls the next update of addr; nil, nil means the wait
// window elapsed without a change.
func (c *VaultClient) WatchAccount(ctx context.Context, addr string, wait time.Duration) (*AccountUpdate, error) {
	params := watchAccountParams{Address: addr, WaitMs: int(wait / time.Millisecond)}
	var res AccountUpdate
	if err := c.cli.CallResult(ctx, "account.watch", params, &res); err != nil {
		return nil, err
	}
	if !res.Updated {
		return nil, nil
	}
	return &res, nil
}

func (c *VaultClient) GetRecentRef(ctx context.Context) (string, error) {
	var res recentRefResult
	if err := c.cli.CallResult(ctx, "chain.getrecentref", nil, &res); err != nil {
		return "", err
	}
	return res.Ref, nil
}

// GetRecentRefWithRetry fetches the chain-state reference with a bounded
// retry count and a fixed delay between attempts. Exhausting the attempts is
// a terminal failure; logic errors from the node are never retried here.
func (c *VaultClient) GetRecentRefWithRetry(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		ref, err := c.GetRecentRef(ctx)
		if err == nil {
			return ref, nil
		}
		lastErr = err
		logx.Warn("CLIENT", fmt.Sprintf("Attempt %d to fetch recent ref failed: %v", attempt, err))
		if attempt < c.cfg.MaxAttempts {
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("failed to get recent ref after %d attempts: %w", c.cfg.MaxAttempts, lastErr)
}

// BuildDepositInstruction encodes a deposit in the canonical wire form.
func BuildDepositInstruction(amount uint64, intendedOwner types.Identity) ([]byte, error) {
	return codec.EncodeInstruction(&codec.Instruction{
		Command:       codec.Command{Tag: codec.TagDeposit, Amount: amount},
		IntendedOwner: intendedOwner,
	})
}

// BuildWithdrawInstruction encodes a withdraw in the canonical wire form.
func BuildWithdrawInstruction(amount uint64, intendedOwner types.Identity) ([]byte, error) {
	return codec.EncodeInstruction(&codec.Instruction{
		Command:       codec.Command{Tag: codec.TagWithdraw, Amount: amount},
		IntendedOwner: intendedOwner,
	})
}

// BuildCheckBalanceInstruction encodes a balance check in the canonical wire form.
func BuildCheckBalanceInstruction(intendedOwner types.Identity) ([]byte, error) {
	return codec.EncodeInstruction(&codec.Instruction{
		Command:       codec.Command{Tag: codec.TagCheckBalance},
		IntendedOwner: intendedOwner,
	})
}
