// Package host is the execution environment around the vault program: it
// resolves account slots from the store, invokes the state machine once per
// instruction, persists the updated slot bytes, and publishes account events.
// Per-account serialization is guaranteed here, not inside the program.
package host

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/vaultnet/vaultd/codec"
	"github.com/vaultnet/vaultd/config"
	"github.com/vaultnet/vaultd/errors"
	"github.com/vaultnet/vaultd/events"
	"github.com/vaultnet/vaultd/ledger"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/monitoring"
	"github.com/vaultnet/vaultd/store"
	"github.com/vaultnet/vaultd/types"
)

type Host struct {
	mu        sync.Mutex
	programID types.Identity
	slots     store.SlotStore
	bus       *events.EventBus
	seq       atomic.Uint64
}

func NewHost(programID types.Identity, slots store.SlotStore, bus *events.EventBus) *Host {
	return &Host{
		programID: programID,
		slots:     slots,
		bus:       bus,
	}
}

func (h *Host) ProgramID() types.Identity {
	return h.programID
}

// SubmitInstruction resolves the target account, runs the program over it,
// and persists the slot only when the instruction mutated it. An account
// never seen before is provisioned on the fly with the program as owner and
// an empty slot, matching first-use initialization.
func (h *Host) SubmitInstruction(target types.Identity, instruction []byte, writable bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	slot, err := h.slots.GetByAddr(target)
	if err != nil {
		return errors.Newf(errors.ErrCodeInternal, "failed to load slot %s: %v", target, err)
	}
	if slot == nil {
		slot = &types.SlotAccount{Address: target, Owner: h.programID}
		monitoring.IncreaseAccountCount()
	}

	info := &types.AccountInfo{
		Address:  slot.Address,
		Owner:    slot.Owner,
		Writable: writable,
		Data:     append([]byte(nil), slot.Data...),
	}

	if err := ledger.Process(h.programID, []*types.AccountInfo{info}, instruction); err != nil {
		monitoring.IncreaseRejectedInstruction(string(errors.CodeOf(err)))
		return err
	}
	monitoring.IncreaseProcessedInstruction(commandLabel(instruction))

	if bytes.Equal(info.Data, slot.Data) {
		// Read-only path: nothing changed, nothing to persist.
		return nil
	}

	slot.Data = info.Data
	if err := h.slots.Store(slot); err != nil {
		return errors.Newf(errors.ErrCodeInternal, "failed to persist slot %s: %v", target, err)
	}

	seq := h.seq.Add(1)
	if h.bus != nil {
		record, err := codec.DecodeRecord(slot.Data)
		if err == nil {
			h.bus.Publish(events.AccountEvent{
				Address:   target,
				Balance:   record.Balance,
				Counter:   record.Counter,
				Seq:       seq,
				Timestamp: uint64(time.Now().Unix()),
			})
		}
	}
	return nil
}

func commandLabel(instruction []byte) string {
	instr, err := codec.DecodeInstruction(instruction)
	if err != nil {
		return "unknown"
	}
	return instr.Command.Tag.String()
}

// CreateAccount provisions a slot with the given owner and optional initial
// balance. Fails if the account already exists.
func (h *Host) CreateAccount(addr, owner types.Identity, amount uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	existed, err := h.slots.ExistsByAddr(addr)
	if err != nil {
		return errors.Newf(errors.ErrCodeInternal, "could not check existence of account: %v", err)
	}
	if existed {
		return errors.New(errors.ErrCodeAccountExisted, errors.ErrMsgAccountExisted)
	}

	slot := &types.SlotAccount{Address: addr, Owner: owner}
	if amount > 0 {
		slot.Data = codec.EncodeRecord(&types.AccountRecord{Balance: amount})
	}
	if err := h.slots.Store(slot); err != nil {
		return errors.Newf(errors.ErrCodeInternal, "failed to store account: %v", err)
	}
	monitoring.IncreaseAccountCount()
	return nil
}

// CreateAccountsFromGenesis provisions the configured genesis accounts,
// skipping ones that already exist so node restarts are idempotent.
func (h *Host) CreateAccountsFromGenesis(accounts []config.GenesisAccount) error {
	for _, acc := range accounts {
		addr, err := types.IdentityFromString(acc.Address)
		if err != nil {
			return fmt.Errorf("invalid genesis address %q: %w", acc.Address, err)
		}
		owner := h.programID
		if acc.Owner != "" {
			if owner, err = types.IdentityFromString(acc.Owner); err != nil {
				return fmt.Errorf("invalid genesis owner %q: %w", acc.Owner, err)
			}
		}
		err = h.CreateAccount(addr, owner, acc.Amount)
		if errors.Is(err, errors.ErrCodeAccountExisted) {
			logx.Debug("HOST", fmt.Sprintf("Genesis account %s already provisioned", acc.Address))
			continue
		}
		if err != nil {
			return fmt.Errorf("could not create genesis account %s: %w", acc.Address, err)
		}
		logx.Info("HOST", fmt.Sprintf("Provisioned genesis account %s with balance %d", acc.Address, acc.Amount))
	}
	return nil
}

// GetAccount returns the slot account (nil if not exist)
func (h *Host) GetAccount(addr types.Identity) (*types.SlotAccount, error) {
	return h.slots.GetByAddr(addr)
}

// Balance returns the current balance and counter for addr.
func (h *Host) Balance(addr types.Identity) (*types.AccountRecord, error) {
	slot, err := h.slots.GetByAddr(addr)
	if err != nil {
		return nil, errors.Newf(errors.ErrCodeInternal, "failed to load slot %s: %v", addr, err)
	}
	if slot == nil {
		return nil, errors.New(errors.ErrCodeAccountNotFound, errors.ErrMsgAccountNotFound)
	}
	return codec.DecodeRecord(slot.Data)
}

// RecentRef returns a short-lived chain-state reference clients fetch before
// submitting instructions. It advances with every persisted mutation.
func (h *Host) RecentRef() string {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], h.seq.Load())
	binary.LittleEndian.PutUint64(buf[8:16], uint64(time.Now().UnixNano()))
	sum := blake2b.Sum256(buf[:])
	return hex.EncodeToString(sum[:])
}
