package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultnet/vaultd/codec"
	"github.com/vaultnet/vaultd/types"
)

func identity(fill byte) types.Identity {
	var id types.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestBuildInstructionsRoundTrip(t *testing.T) {
	owner := identity(1)

	deposit, err := BuildDepositInstruction(100, owner)
	require.NoError(t, err)
	decoded, err := codec.DecodeInstruction(deposit)
	require.NoError(t, err)
	assert.Equal(t, codec.TagDeposit, decoded.Command.Tag)
	assert.Equal(t, uint64(100), decoded.Command.Amount)
	assert.Equal(t, owner, decoded.IntendedOwner)

	withdraw, err := BuildWithdrawInstruction(50, owner)
	require.NoError(t, err)
	decoded, err = codec.DecodeInstruction(withdraw)
	require.NoError(t, err)
	assert.Equal(t, codec.TagWithdraw, decoded.Command.Tag)
	assert.Equal(t, uint64(50), decoded.Command.Amount)

	check, err := BuildCheckBalanceInstruction(owner)
	require.NoError(t, err)
	decoded, err = codec.DecodeInstruction(check)
	require.NoError(t, err)
	assert.Equal(t, codec.TagCheckBalance, decoded.Command.Tag)
	assert.Equal(t, owner, decoded.IntendedOwner)
}

func TestGetRecentRefWithRetryExhaustsAttempts(t *testing.T) {
	// Nothing listens on this endpoint; every attempt fails with a
	// transport error until the bounded count is exhausted.
	c := New(Config{
		Endpoint:    "http://127.0.0.1:1/rpc",
		MaxAttempts: 3,
		RetryDelay:  10 * time.Millisecond,
	})
	defer c.Close()

	start := time.Now()
	_, err := c.GetRecentRefWithRetry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	// Two delays between three attempts.
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestGetRecentRefWithRetryHonorsCancellation(t *testing.T) {
	c := New(Config{
		Endpoint:    "http://127.0.0.1:1/rpc",
		MaxAttempts: 5,
		RetryDelay:  time.Hour,
	})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetRecentRefWithRetry(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewAppliesRetryDefaults(t *testing.T) {
	c := New(Config{Endpoint: "http://127.0.0.1:1/rpc"})
	defer c.Close()

	assert.Equal(t, 5, c.cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, c.cfg.RetryDelay)
}
