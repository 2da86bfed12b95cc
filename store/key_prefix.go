package store

// Declare database key prefix for objects
const (
	PrefixSlot = "slot:"
)
