package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching processed results
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from raw transaction text. Hashing keeps
// arbitrary-length text out of the key space.
func Key(rawText string) string {
	hash := sha256.Sum256([]byte(rawText))
	return "spendlens:v1:" + hex.EncodeToString(hash[:])
}
