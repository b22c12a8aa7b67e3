package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives deterministic cache keys from a symbol name and its inputs.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from a name and the inputs that shape its value.
	Key(name string, input any) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys.
type DefaultKeyer struct {
	prefix string
}

// NewDefaultKeyer creates a keyer whose keys start with "cache:".
func NewDefaultKeyer() *DefaultKeyer {
	return NewKeyer("cache")
}

// NewKeyer creates a keyer whose keys start with prefix.
func NewKeyer(prefix string) *DefaultKeyer {
	return &DefaultKeyer{prefix: prefix}
}

// Key generates a deterministic cache key.
// Format: <prefix>:<name>:<hash>
// where hash is the first 16 hex characters of SHA-256(JSON(input)).
// encoding/json sorts map keys, so map ordering never changes the key.
func (k *DefaultKeyer) Key(name string, input any) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("cache: failed to encode key input: %w", err)
	}
	sum := sha256.Sum256(data)
	key := fmt.Sprintf("%s:%s:%s", k.prefix, name, hex.EncodeToString(sum[:8]))
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
