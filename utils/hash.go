package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Fingerprint returns the hex-encoded 128-bit content digest of b.
// Deterministic: identical bytes always map to the same digest. Must be
// fed the normalized JPEG bytes, not the raw upload, so re-encoded
// uploads of the same file converge.
func Fingerprint(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// FileFingerprint computes the same digest by streaming the file at path.
func FileFingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read file for hashing: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
