// Package pseudonym derives stable, non-reversible identifiers for log output.
package pseudonym

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const digestSize = 8

// Hasher produces keyed BLAKE2b pseudonyms.
type Hasher struct {
	key []byte
}

// New builds a hasher. Keys longer than 64 bytes are truncated to the BLAKE2b limit.
func New(key string) *Hasher {
	raw := []byte(key)
	if len(raw) > blake2b.Size {
		raw = raw[:blake2b.Size]
	}
	return &Hasher{key: raw}
}

// Of returns the pseudonym for id. Empty ids map to an empty string.
func (h *Hasher) Of(id string) string {
	if id == "" {
		return ""
	}
	var key []byte
	if h != nil {
		key = h.key
	}
	mac, err := blake2b.New(digestSize, key)
	if err != nil {
		return "invalid-key"
	}
	_, _ = mac.Write([]byte(id))
	return "u_" + hex.EncodeToString(mac.Sum(nil))
}
