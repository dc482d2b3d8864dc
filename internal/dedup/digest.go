// Package dedup implements content-addressed duplicate detection: a
// fixed-width digest over a file's full bytes, and a run-scoped gate that
// admits each distinct digest exactly once across all workers.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest is the lowercase hex SHA-256 of a file's complete contents. Equal
// digests mean duplicate content, regardless of file name or location.
type Digest string

// HashFile reads path to EOF and returns its content digest. The read is
// streamed through the hash, so large files never need to fit in memory.
//
// On failure the file must be treated as not processed: the caller skips it
// and does not insert anything into the gate.
func HashFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return Digest(hex.EncodeToString(h.Sum(nil))), nil
}
