// Package credential provides the one-way secret digests guarding holder
// accounts, the administrator gate, and the signed capability tokens that
// authorize holder renames.
package credential

import (
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

// Params are the argon2id cost parameters, injected from configuration.
type Params struct {
	Time      uint32
	Memory    uint32
	Threads   uint8
	KeyLength uint32
}

// DefaultParams mirrors the argon2id settings recommended for interactive
// logins.
func DefaultParams() Params {
	return Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLength: 32}
}

// Gate turns secrets into digests and verifies presented secrets. The salt
// is deployment-wide and configured at startup, so equal secrets always hash
// identically within one deployment while digests stay useless elsewhere.
type Gate struct {
	salt   []byte
	params Params
}

func NewGate(salt []byte, params Params) *Gate {
	if params.KeyLength == 0 {
		params = DefaultParams()
	}
	return &Gate{salt: salt, params: params}
}

// Hash returns the base64 argon2id digest of the secret.
func (g *Gate) Hash(secret string) string {
	key := argon2.IDKey([]byte(secret), g.salt, g.params.Time, g.params.Memory, g.params.Threads, g.params.KeyLength)
	return base64.StdEncoding.EncodeToString(key)
}

// Verify reports whether the secret matches the stored digest. Comparison is
// constant time; malformed digests verify as false, never as an error.
func (g *Gate) Verify(secret, digest string) bool {
	stored, err := base64.StdEncoding.DecodeString(digest)
	if err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(secret), g.salt, g.params.Time, g.params.Memory, g.params.Threads, g.params.KeyLength)
	return subtle.ConstantTimeCompare(stored, computed) == 1
}
