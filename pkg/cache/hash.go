package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is part of every key. Bump it when the serialized terrain or an
// artifact changes shape, so old entries are never read back.
const keyVersion = "v1"

// hashKey returns "kind:version:sha256(json(parts))". Parts are plain option
// structs, so json.Marshal cannot fail on them.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + keyVersion + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
