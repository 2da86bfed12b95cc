package store

import (
	"fmt"
	"sync"

	"github.com/vaultnet/vaultd/db"
	"github.com/vaultnet/vaultd/jsonx"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/types"
)

type SlotStore interface {
	Store(account *types.SlotAccount) error
	StoreBatch(accounts []*types.SlotAccount) error
	GetByAddr(addr types.Identity) (*types.SlotAccount, error)
	ExistsByAddr(addr types.Identity) (bool, error)
	MustClose()
}

type GenericSlotStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericSlotStore(dbProvider db.DatabaseProvider) (*GenericSlotStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericSlotStore{
		dbProvider: dbProvider,
	}, nil
}

func (ss *GenericSlotStore) Store(account *types.SlotAccount) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	data, err := jsonx.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal slot account: %w", err)
	}

	if err := ss.dbProvider.Put(ss.getDbKey(account.Address), data); err != nil {
		return fmt.Errorf("failed to write slot account to db: %w", err)
	}

	return nil
}

func (ss *GenericSlotStore) StoreBatch(accounts []*types.SlotAccount) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	batch := ss.dbProvider.Batch()
	for _, account := range accounts {
		data, err := jsonx.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to marshal slot account: %w", err)
		}
		batch.Put(ss.getDbKey(account.Address), data)
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write batch of slot accounts to db: %w", err)
	}

	return nil
}

// GetByAddr returns the slot account from db, both nil if it does not exist
func (ss *GenericSlotStore) GetByAddr(addr types.Identity) (*types.SlotAccount, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	data, err := ss.dbProvider.Get(ss.getDbKey(addr))
	if err != nil {
		return nil, fmt.Errorf("could not get slot account %s from db: %w", addr, err)
	}

	// Account doesn't exist
	if data == nil {
		return nil, nil
	}

	var account types.SlotAccount
	if err := jsonx.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot account %s: %w", addr, err)
	}
	return &account, nil
}

func (ss *GenericSlotStore) ExistsByAddr(addr types.Identity) (bool, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	return ss.dbProvider.Has(ss.getDbKey(addr))
}

func (ss *GenericSlotStore) MustClose() {
	if err := ss.dbProvider.Close(); err != nil {
		logx.Error("SLOT_STORE", "Failed to close db provider:", err.Error())
	}
}

func (ss *GenericSlotStore) getDbKey(addr types.Identity) []byte {
	return []byte(PrefixSlot + addr.String())
}
