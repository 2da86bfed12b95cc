// Package codec implements the fixed binary wire format shared by the vault
// program and its clients: a tagged-variant instruction encoding and the
// fixed-width account record layout. Both forms are canonical: encode and
// decode round-trip byte for byte.
package codec

import (
	"encoding/binary"

	"github.com/vaultnet/vaultd/errors"
	"github.com/vaultnet/vaultd/types"
)

// CommandTag discriminates the instruction variants. Tags and field order
// follow the little-endian layout every deployed client already emits.
type CommandTag uint32

const (
	TagDeposit CommandTag = iota
	TagWithdraw
	TagCheckBalance
)

const (
	tagSize    = 4
	amountSize = 8

	// AmountInstructionSize is the wire size of Deposit and Withdraw:
	// tag, amount, intended owner.
	AmountInstructionSize = tagSize + amountSize + types.IdentitySize

	// BareInstructionSize is the wire size of CheckBalance: tag, intended owner.
	BareInstructionSize = tagSize + types.IdentitySize
)

// Command is one decoded ledger command. Amount is meaningful for Deposit and
// Withdraw only.
type Command struct {
	Tag    CommandTag
	Amount uint64
}

// Instruction is the decoded wire payload: the command plus the identity the
// caller claims authorizes the operation on the target account.
type Instruction struct {
	Command       Command
	IntendedOwner types.Identity
}

func (t CommandTag) String() string {
	switch t {
	case TagDeposit:
		return "deposit"
	case TagWithdraw:
		return "withdraw"
	case TagCheckBalance:
		return "check_balance"
	default:
		return "unknown"
	}
}

func malformed(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrCodeMalformedInstruction, format, args...)
}

// DecodeInstruction deserializes instruction bytes. Unknown tags, truncated
// payloads and trailing bytes are all rejected.
func DecodeInstruction(data []byte) (*Instruction, error) {
	if len(data) < tagSize {
		return nil, malformed("instruction too short: %d bytes", len(data))
	}
	tag := CommandTag(binary.LittleEndian.Uint32(data[:tagSize]))

	var want int
	switch tag {
	case TagDeposit, TagWithdraw:
		want = AmountInstructionSize
	case TagCheckBalance:
		want = BareInstructionSize
	default:
		return nil, malformed("unknown command tag: %d", uint32(tag))
	}
	if len(data) != want {
		return nil, malformed("instruction length mismatch for tag %s: expected %d, got %d", tag, want, len(data))
	}

	instr := &Instruction{Command: Command{Tag: tag}}
	offset := tagSize
	if tag == TagDeposit || tag == TagWithdraw {
		instr.Command.Amount = binary.LittleEndian.Uint64(data[offset : offset+amountSize])
		offset += amountSize
	}
	copy(instr.IntendedOwner[:], data[offset:offset+types.IdentitySize])
	return instr, nil
}

// EncodeInstruction serializes an instruction into its canonical byte form.
func EncodeInstruction(instr *Instruction) ([]byte, error) {
	var out []byte
	switch instr.Command.Tag {
	case TagDeposit, TagWithdraw:
		out = make([]byte, AmountInstructionSize)
		binary.LittleEndian.PutUint32(out[:tagSize], uint32(instr.Command.Tag))
		binary.LittleEndian.PutUint64(out[tagSize:tagSize+amountSize], instr.Command.Amount)
		copy(out[tagSize+amountSize:], instr.IntendedOwner[:])
	case TagCheckBalance:
		out = make([]byte, BareInstructionSize)
		binary.LittleEndian.PutUint32(out[:tagSize], uint32(instr.Command.Tag))
		copy(out[tagSize:], instr.IntendedOwner[:])
	default:
		return nil, malformed("unknown command tag: %d", uint32(instr.Command.Tag))
	}
	return out, nil
}

// DecodeRecord deserializes the persisted slot bytes. An empty slot yields
// the zero record: first use of a freshly provisioned account is the sole
// case where absence is not an error.
func DecodeRecord(data []byte) (*types.AccountRecord, error) {
	if len(data) == 0 {
		return &types.AccountRecord{}, nil
	}
	if len(data) != types.SlotSize {
		return nil, malformed("record length mismatch: expected %d, got %d", types.SlotSize, len(data))
	}
	return &types.AccountRecord{
		Counter: binary.LittleEndian.Uint64(data[0:8]),
		Balance: binary.LittleEndian.Uint64(data[8:16]),
	}, nil
}

// EncodeRecord serializes a record into exactly SlotSize bytes, the
// pre-allocated capacity of every account slot targeting the program.
func EncodeRecord(rec *types.AccountRecord) []byte {
	out := make([]byte, types.SlotSize)
	binary.LittleEndian.PutUint64(out[0:8], rec.Counter)
	binary.LittleEndian.PutUint64(out[8:16], rec.Balance)
	return out
}
