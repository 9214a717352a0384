package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HashSize is the size of a chain hash in bytes.
const HashSize = 32

// Hash is a 256-bit chain identifier (block hash, genesis hash, roots).
type Hash [HashSize]byte

// HashFromHex parses a hex string, with or without a 0x prefix, into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("decoding hash: %w", err)
	}
	if len(b) != HashSize {
		return h, fmt.Errorf("wrong hash length: got %d, want %d", len(b), HashSize)
	}
	copy(h[:], b)
	return h, nil
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte { return append([]byte(nil), h[:]...) }

// IsZero reports whether the hash is all zeroes (the default value).
func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := HashFromHex(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
