package hash

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Algorithm identifies a supported content hash algorithm.
type Algorithm string

const (
	// MD5 matches how S3-compatible services derive the ETag of a
	// single-part upload, so local fingerprints compare directly against
	// the bucket listing.
	MD5 Algorithm = "md5"
	// SHA256 selects the standard library SHA-256 implementation.
	SHA256 Algorithm = "sha256"
	// BLAKE3 selects the BLAKE3 implementation (faster on large files).
	BLAKE3 Algorithm = "blake3"
)

// readBufferSize is the copy buffer used when streaming file content.
const readBufferSize = 1 << 20

// Hasher computes hex-encoded content fingerprints of byte streams.
// The fingerprint is a pure function of the bytes; file metadata never
// participates.
type Hasher struct {
	alg Algorithm
}

// New returns a Hasher for the requested algorithm.
// Unknown algorithms fall back to MD5, the ETag-compatible default.
func New(alg Algorithm) Hasher {
	switch alg {
	case MD5, SHA256, BLAKE3:
		return Hasher{alg: alg}
	default:
		return Hasher{alg: MD5}
	}
}

// Algorithm returns the algorithm this Hasher uses.
func (h Hasher) Algorithm() Algorithm {
	if h.alg == "" {
		return MD5
	}
	return h.alg
}

func (h Hasher) newHash() hash.Hash {
	switch h.alg {
	case SHA256:
		return sha256.New()
	case BLAKE3:
		return blake3.New()
	default:
		return md5.New()
	}
}

// Reader hashes arbitrary content from r and returns the hex digest.
func (h Hasher) Reader(r io.Reader) (string, error) {
	d := h.newHash()
	buf := make([]byte, readBufferSize)
	if _, err := io.CopyBuffer(d, r, buf); err != nil {
		return "", fmt.Errorf("hash: copy reader: %w", err)
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

// File computes the content fingerprint of the file at path.
// An unreadable file is a fatal I/O failure for the caller; the error is
// returned unretried.
func (h Hasher) File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash: open %q: %w", path, err)
	}
	defer f.Close()

	digest, err := h.Reader(f)
	if err != nil {
		return "", fmt.Errorf("hash: read %q: %w", path, err)
	}
	return digest, nil
}
