package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns the hex encoded sha256 of arg.
// Used to derive fixed length, file system safe cache keys.
func HashKey(arg string) string {
	hasher := sha256.New()
	hasher.Write([]byte(arg))
	return hex.EncodeToString(hasher.Sum(nil))
}
