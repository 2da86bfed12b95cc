package types

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// IdentitySize is the byte length of every addressable principal.
const IdentitySize = 32

// Identity is the addressable principal (wallet or program) that can own or
// authorize actions on an account. Wallet identities are ed25519 public keys.
type Identity [IdentitySize]byte

var ZeroIdentity Identity

func IdentityFromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != IdentitySize {
		return id, fmt.Errorf("invalid identity length: expected %d, got %d", IdentitySize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// IdentityFromString parses a base58-encoded identity.
func IdentityFromString(s string) (Identity, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid identity %q: %w", s, err)
	}
	return IdentityFromBytes(b)
}

func IdentityFromPubKey(pub ed25519.PublicKey) Identity {
	var id Identity
	copy(id[:], pub)
	return id
}

func (id Identity) String() string {
	return base58.Encode(id[:])
}

func (id Identity) Bytes() []byte {
	out := make([]byte, IdentitySize)
	copy(out, id[:])
	return out
}

func (id Identity) Equal(other Identity) bool {
	return id == other
}

func (id Identity) IsZero() bool {
	return id == ZeroIdentity
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := IdentityFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
