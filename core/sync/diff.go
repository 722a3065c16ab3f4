package sync

import (
	"net/textproto"

	"github.com/confetti-clj/s3-deploy/core/manifest"
)

// Diff computes the four-way partition of keys between the remote snapshot
// and the indexed local manifest using the default fingerprint comparer.
// It is a pure function over the two mappings and never fails on
// well-formed input.
func Diff(remote, local map[string]manifest.Entry) *DiffResult {
	return DiffWith(DefaultComparer, remote, local)
}

// DiffWith is Diff with an explicit fingerprint comparison strategy.
//
// Classification rules:
//   - local-only keys are added; remote-only keys are removed
//   - present-in-both keys with differing content fingerprints are changed,
//     and the superseded remote entry is additionally recorded under
//     removed (the raw diff keeps this overlap; Resolve eliminates it)
//   - present-in-both keys with equal fingerprints compare metadata, keys
//     supplied by the local side only: any differing value means changed,
//     otherwise unchanged
func DiffWith(cmp Comparer, remote, local map[string]manifest.Entry) *DiffResult {
	d := &DiffResult{
		Added:     make(map[string]manifest.Entry),
		Changed:   make(map[string]manifest.Entry),
		Removed:   make(map[string]manifest.Entry),
		Unchanged: make(map[string]manifest.Entry),
	}

	for key, le := range local {
		re, ok := remote[key]
		if !ok {
			d.Added[key] = le
			continue
		}
		if !cmp.Equal(le.Fingerprint, re.Fingerprint) || metadataDiffers(le.Metadata, re.Metadata) {
			d.Changed[key] = le
			d.Removed[key] = re
			continue
		}
		d.Unchanged[key] = le
	}

	for key, re := range remote {
		if _, ok := local[key]; !ok {
			d.Removed[key] = re
		}
	}

	return d
}

// Resolve drops every changed key from the removed mapping: a key that
// changed still exists going forward and must not also be scheduled for
// deletion. Pure set difference on keys, idempotent.
func Resolve(d *DiffResult) *DiffResult {
	removed := make(map[string]manifest.Entry, len(d.Removed))
	for key, e := range d.Removed {
		if _, changed := d.Changed[key]; changed {
			continue
		}
		removed[key] = e
	}
	return &DiffResult{
		Added:     d.Added,
		Changed:   d.Changed,
		Removed:   removed,
		Unchanged: d.Unchanged,
	}
}

// metadataDiffers compares only the metadata keys the local side supplies.
// A key the caller omitted is ignored rather than treated as a removal of
// that attribute, so partially specified manifests stay unchanged as long
// as content matches and no supplied key differs.
func metadataDiffers(local, remote map[string]string) bool {
	for k, v := range local {
		if remote[textproto.CanonicalMIMEHeaderKey(k)] != v {
			return true
		}
	}
	return false
}
