package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// Hash returns the hex SHA-256 digest of data. Trees are keyed by the hash
// of their raw input.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest hashes values in order, each JSON encoded on its own line, so that
// adjacent values cannot run into each other.
func digest(values ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, v := range values {
		_ = enc.Encode(v)
	}
	return hex.EncodeToString(h.Sum(nil))
}
