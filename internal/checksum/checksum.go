// Package checksum verifies file content against a declared digest.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"
)

// ChunkSize is the read buffer size used while hashing.
const ChunkSize = 64 * 1024

// ErrUnsupportedAlgorithm is returned for algorithm names with no known digest.
var ErrUnsupportedAlgorithm = errors.New("unsupported checksum algorithm")

var algorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// Normalize lower-cases an algorithm name and drops dashes, so "SHA-256"
// and "sha256" name the same digest.
func Normalize(algorithm string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(algorithm)), "-", "")
}

// Supported reports whether algorithm names a known digest.
func Supported(algorithm string) bool {
	_, ok := algorithms[Normalize(algorithm)]
	return ok
}

// New returns a fresh hash for algorithm.
func New(algorithm string) (hash.Hash, error) {
	fn, ok := algorithms[Normalize(algorithm)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return fn(), nil
}

// Compute streams r through the named digest in ChunkSize reads and returns
// the lowercase hex digest.
func Compute(r io.Reader, algorithm string) (string, error) {
	h, err := New(algorithm)
	if err != nil {
		return "", err
	}
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(h, onlyReader{r}, buf); err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether the digest of r under algorithm equals expected.
// The comparison ignores case and surrounding whitespace of expected.
// An unsupported algorithm is an error, never a match.
func Verify(r io.Reader, expected, algorithm string) (bool, error) {
	got, err := Compute(r, algorithm)
	if err != nil {
		return false, err
	}
	return got == strings.ToLower(strings.TrimSpace(expected)), nil
}

// onlyReader hides WriterTo/ReaderFrom so io.CopyBuffer always reads
// through the bounded buffer.
type onlyReader struct {
	io.Reader
}
