package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
)

// ComputeChecksum computes the hex encoded SHA-256 checksum of data.
func ComputeChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ComputeChecksumReader computes the hex encoded SHA-256 checksum of
// everything read from r.
func ComputeChecksumReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ValidateChecksum compares computed checksum against stored checksum.
// Hex case is ignored. Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored string) error {
	if !strings.EqualFold(computed, stored) {
		return ErrChecksumMismatch
	}
	return nil
}
