// Package checksum fingerprints source files so unchanged pages can be
// skipped when a tree is reconverted.
package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Text returns the digest of a text source with \r\n and \r line breaks
// read as \n. Sources differing only in line endings convert identically
// and share a digest.
func Text(data []byte) string {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	return Sum(data)
}
