package events

import "github.com/vaultnet/vaultd/types"

// AccountEvent is published after every persisted slot mutation. Seq is a
// node-local monotonic counter so pollers can detect updates they missed.
type AccountEvent struct {
	Address   types.Identity `json:"address"`
	Balance   uint64         `json:"balance"`
	Counter   uint64         `json:"counter"`
	Seq       uint64         `json:"seq"`
	Timestamp uint64         `json:"timestamp"`
}
