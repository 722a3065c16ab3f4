package manifest

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/confetti-clj/s3-deploy/core/hash"
)

// Entry describes one sync unit: a destination key, the fingerprint used to
// detect content change, and optional metadata overrides. For local entries
// the fingerprint is a content hash and Path points at the source file; for
// remote entries the fingerprint is the storage service's ETag and Path is
// empty.
type Entry struct {
	// Key is the unique destination path inside the bucket.
	Key string

	// Path is the local file backing this entry. Empty for remote entries.
	Path string

	// Fingerprint is the opaque content identity (hash locally, ETag remotely).
	Fingerprint string

	// Metadata holds optional object metadata. Partial by design: keys the
	// caller does not supply are ignored during comparison rather than
	// treated as removals.
	Metadata map[string]string
}

// Rule attaches metadata to every entry whose key matches Pattern.
// Pattern uses path.Match syntax against the entry key; a pattern ending in
// "/" matches every key under that prefix.
type Rule struct {
	Pattern  string
	Metadata map[string]string
}

// FromDir walks the local tree rooted at root and builds the ordered Local
// Manifest. Keys are slash-separated paths relative to root, prefixed with
// prefix. Entries are returned in lexical key order, which becomes the
// caller-significant planning order. An unreadable file aborts the walk.
func FromDir(root, prefix string, h hash.Hasher) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %q: %w", p, err)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relativize %q: %w", p, err)
		}

		fp, err := h.File(p)
		if err != nil {
			return err
		}

		entries = append(entries, Entry{
			Key:         joinKey(prefix, filepath.ToSlash(rel)),
			Path:        p,
			Fingerprint: fp,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir is already lexical per directory; sorting the full key set
	// keeps the order independent of directory nesting.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	return entries, nil
}

// ApplyMetadata merges rule metadata into matching entries. Rules apply in
// order, later rules overriding earlier ones key by key. The input slice is
// modified in place and returned for chaining.
func ApplyMetadata(entries []Entry, rules []Rule) []Entry {
	for i := range entries {
		for _, rule := range rules {
			if !matches(rule.Pattern, entries[i].Key) {
				continue
			}
			if entries[i].Metadata == nil {
				entries[i].Metadata = make(map[string]string, len(rule.Metadata))
			}
			for k, v := range rule.Metadata {
				entries[i].Metadata[k] = v
			}
		}
	}
	return entries
}

func matches(pattern, key string) bool {
	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(key, pattern)
	}
	ok, err := path.Match(pattern, key)
	return err == nil && ok
}

func joinKey(prefix, rel string) string {
	if prefix == "" {
		return rel
	}
	return strings.TrimSuffix(prefix, "/") + "/" + rel
}
