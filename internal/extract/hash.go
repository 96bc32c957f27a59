package extract

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeFileHash returns the hex SHA-256 of file content. Used to record
// what the frontend parsed in the cache file index.
func ComputeFileHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
