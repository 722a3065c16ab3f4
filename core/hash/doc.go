// Package hash computes content fingerprints for local files.
//
// Fingerprints are hex-encoded digests of file bytes only; metadata is
// deliberately excluded so that changing a Content-Type or cache header
// never forces a re-upload on its own.
//
// # Algorithms
//
// Three algorithms are supported:
//   - md5: matches the ETag an S3-compatible service reports for a
//     single-part upload, so a second sync sees unchanged objects as
//     unchanged (default)
//   - sha256: standard library, for callers who pair it with a custom
//     fingerprint comparison strategy
//   - blake3: considerably faster on large asset trees, same caveat
//
// # Usage
//
//	h := hash.New(hash.MD5)
//	fp, err := h.File("public/index.html")
package hash
