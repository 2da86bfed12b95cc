package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultnet/vaultd/codec"
	"github.com/vaultnet/vaultd/errors"
	"github.com/vaultnet/vaultd/types"
)

var programID = identity(1)

func identity(fill byte) types.Identity {
	var id types.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func newAccount(balance uint64) *types.AccountInfo {
	account := &types.AccountInfo{
		Address:  identity(2),
		Owner:    programID,
		Writable: true,
	}
	if balance > 0 {
		account.Data = codec.EncodeRecord(&types.AccountRecord{Balance: balance})
	}
	return account
}

func instruction(t *testing.T, tag codec.CommandTag, amount uint64, owner types.Identity) []byte {
	t.Helper()
	data, err := codec.EncodeInstruction(&codec.Instruction{
		Command:       codec.Command{Tag: tag, Amount: amount},
		IntendedOwner: owner,
	})
	require.NoError(t, err)
	return data
}

func balanceOf(t *testing.T, account *types.AccountInfo) uint64 {
	t.Helper()
	record, err := codec.DecodeRecord(account.Data)
	require.NoError(t, err)
	return record.Balance
}

func TestDepositIntoEmptyAccount(t *testing.T) {
	account := newAccount(0)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagDeposit, 100, programID))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balanceOf(t, account))
	assert.Len(t, account.Data, types.SlotSize)
}

func TestWithdraw(t *testing.T) {
	account := newAccount(100)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagWithdraw, 50, programID))
	require.NoError(t, err)
	assert.Equal(t, uint64(50), balanceOf(t, account))
}

func TestCheckBalanceDoesNotMutate(t *testing.T) {
	account := newAccount(150)
	before := append([]byte(nil), account.Data...)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagCheckBalance, 0, programID))
	require.NoError(t, err)
	assert.Equal(t, before, account.Data)
	assert.Equal(t, uint64(150), balanceOf(t, account))
}

func TestCheckBalanceOnEmptySlotLeavesItEmpty(t *testing.T) {
	account := newAccount(0)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagCheckBalance, 0, programID))
	require.NoError(t, err)
	assert.Empty(t, account.Data)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	account := newAccount(50)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagWithdraw, 100, programID))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInsufficientFunds, errors.CodeOf(err))
	assert.Equal(t, uint64(50), balanceOf(t, account), "failed withdraw must not mutate balance")
}

func TestDepositOverflow(t *testing.T) {
	account := newAccount(math.MaxUint64 - 10)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagDeposit, 11, programID))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeArithmeticOverflow, errors.CodeOf(err))
	assert.Equal(t, uint64(math.MaxUint64-10), balanceOf(t, account), "overflowing deposit must not mutate balance")
}

func TestDepositUpToMaxSucceeds(t *testing.T) {
	account := newAccount(math.MaxUint64 - 10)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagDeposit, 10, programID))
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), balanceOf(t, account))
}

func TestZeroAmountRejected(t *testing.T) {
	for _, tag := range []codec.CommandTag{codec.TagDeposit, codec.TagWithdraw} {
		account := newAccount(100)

		err := Process(programID, []*types.AccountInfo{account}, instruction(t, tag, 0, programID))
		require.Error(t, err, "tag %s", tag)
		assert.Equal(t, errors.ErrCodeInvalidParams, errors.CodeOf(err))
		assert.Equal(t, uint64(100), balanceOf(t, account))
	}
}

func TestMissingAccount(t *testing.T) {
	err := Process(programID, nil, instruction(t, codec.TagDeposit, 100, programID))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMissingAccount, errors.CodeOf(err))
}

func TestNotWritableFailsBeforeOtherChecks(t *testing.T) {
	account := newAccount(100)
	account.Writable = false

	// Even a malformed instruction against a foreign-owned account reports
	// the writability failure first.
	account.Owner = identity(9)
	err := Process(programID, []*types.AccountInfo{account}, []byte{0xff})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotWritable, errors.CodeOf(err))
}

func TestIncorrectOwnerAccount(t *testing.T) {
	account := newAccount(100)
	account.Owner = identity(9)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagDeposit, 10, identity(9)))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIncorrectOwner, errors.CodeOf(err))
	assert.Equal(t, uint64(100), balanceOf(t, account))
}

func TestIntendedOwnerMismatch(t *testing.T) {
	account := newAccount(100)

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagDeposit, 10, identity(9)))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIncorrectOwner, errors.CodeOf(err))
	assert.Equal(t, uint64(100), balanceOf(t, account), "unauthorized instruction must not mutate balance")
}

func TestMalformedInstruction(t *testing.T) {
	account := newAccount(100)

	err := Process(programID, []*types.AccountInfo{account}, []byte{1, 2, 3})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMalformedInstruction, errors.CodeOf(err))
	assert.Equal(t, uint64(100), balanceOf(t, account))
}

func TestCounterSurvivesMutations(t *testing.T) {
	account := newAccount(0)
	account.Data = codec.EncodeRecord(&types.AccountRecord{Counter: 7, Balance: 100})

	err := Process(programID, []*types.AccountInfo{account}, instruction(t, codec.TagWithdraw, 40, programID))
	require.NoError(t, err)

	record, err := codec.DecodeRecord(account.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), record.Counter, "reserved counter field must ride along unchanged")
	assert.Equal(t, uint64(60), record.Balance)
}
