package types

// SlotSize is the pre-allocated byte size of every account slot targeting the
// vault program: counter (8 bytes) then balance (8 bytes).
const SlotSize = 16

// AccountRecord is the data shape persisted inside one account slot. Counter
// is reserved: no command reads or writes it yet, but it is part of the
// persisted layout.
type AccountRecord struct {
	Counter uint64 `json:"counter"`
	Balance uint64 `json:"balance"`
}

// SlotAccount is the persisted form of one account slot: the recorded owner
// identity plus the raw slot bytes. Data is empty until the first successful
// mutating instruction.
type SlotAccount struct {
	Address Identity `json:"address"`
	Owner   Identity `json:"owner"`
	Data    []byte   `json:"data"`
}

// AccountInfo is the host-resolved view of one account handed to the program
// for a single instruction: the writable flag comes from the caller, owner
// and data from the slot store. The program mutates Data in place; the host
// persists it after a successful run.
type AccountInfo struct {
	Address  Identity
	Owner    Identity
	Writable bool
	Data     []byte
}
