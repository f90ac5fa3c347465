// Package checksum derives content-addressed names for stored files.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NameLen is the number of hex digits kept in a content name.
const NameLen = 16

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Name returns a stable file name for data: the first NameLen hex digits
// of its digest followed by ext, lowercased.
func Name(data []byte, ext string) string {
	return Sum(data)[:NameLen] + strings.ToLower(ext)
}
