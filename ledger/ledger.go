// Package ledger implements the vault program: the single-account balance
// state machine invoked once per instruction by the host environment. It is
// pure validate-then-transform compute over already-materialized bytes; the
// host serializes access to each account slot, so there is no locking here.
package ledger

import (
	"fmt"
	"math"

	"github.com/vaultnet/vaultd/codec"
	"github.com/vaultnet/vaultd/errors"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/types"
)

// Process runs one instruction against the first account in accounts under
// the given program identity. Every check is a hard precondition: nothing is
// mutated until validation and arithmetic both succeed, and the updated slot
// bytes are written back into the account's Data buffer only then.
func Process(programID types.Identity, accounts []*types.AccountInfo, data []byte) error {
	if len(accounts) == 0 {
		return errors.New(errors.ErrCodeMissingAccount, errors.ErrMsgMissingAccount)
	}
	account := accounts[0]

	// Writability comes first: a read-only account fails before any other
	// check runs, including instruction decoding.
	if !account.Writable {
		return errors.New(errors.ErrCodeNotWritable, errors.ErrMsgNotWritable)
	}

	// The account must be controlled by the identity this instruction is
	// being processed under.
	if !account.Owner.Equal(programID) {
		return errors.Newf(errors.ErrCodeIncorrectOwner,
			"account %s is owned by %s, not by program %s", account.Address, account.Owner, programID)
	}

	instr, err := codec.DecodeInstruction(data)
	if err != nil {
		return err
	}

	switch instr.Command.Tag {
	case codec.TagDeposit, codec.TagWithdraw:
		if instr.Command.Amount == 0 {
			return errors.New(errors.ErrCodeInvalidParams, errors.ErrMsgInvalidParams)
		}
	}

	// The owner claimed inside the instruction must match the recorded
	// owner. Same error kind as the ownership check above, distinct cause.
	if !instr.IntendedOwner.Equal(account.Owner) {
		return errors.Newf(errors.ErrCodeIncorrectOwner,
			"instruction claims owner %s, account %s is owned by %s", instr.IntendedOwner, account.Address, account.Owner)
	}

	record, err := codec.DecodeRecord(account.Data)
	if err != nil {
		return err
	}

	switch instr.Command.Tag {
	case codec.TagDeposit:
		if record.Balance > math.MaxUint64-instr.Command.Amount {
			return errors.New(errors.ErrCodeArithmeticOverflow, errors.ErrMsgArithmeticOverflow)
		}
		record.Balance += instr.Command.Amount
		logx.Info("LEDGER", fmt.Sprintf("Deposited %d to %s. New balance: %d", instr.Command.Amount, account.Address, record.Balance))
	case codec.TagWithdraw:
		if instr.Command.Amount > record.Balance {
			return errors.Newf(errors.ErrCodeInsufficientFunds,
				"withdraw %d exceeds balance %d", instr.Command.Amount, record.Balance)
		}
		record.Balance -= instr.Command.Amount
		logx.Info("LEDGER", fmt.Sprintf("Withdrew %d from %s. New balance: %d", instr.Command.Amount, account.Address, record.Balance))
	case codec.TagCheckBalance:
		// Read-only: surface the balance, skip persistence entirely.
		logx.Info("LEDGER", fmt.Sprintf("Current balance of %s: %d", account.Address, record.Balance))
		return nil
	}

	persist(account, record)
	return nil
}

// persist overwrites the account's fixed-size slot in place. A slot that was
// empty before this instruction gets its buffer allocated on first write.
func persist(account *types.AccountInfo, record *types.AccountRecord) {
	encoded := codec.EncodeRecord(record)
	if len(account.Data) == types.SlotSize {
		copy(account.Data, encoded)
		return
	}
	account.Data = encoded
}
