package sync

import (
	"strings"

	"github.com/confetti-clj/s3-deploy/core/manifest"
)

// OpKind is the kind of a planned sync operation.
type OpKind string

const (
	// OpUpload creates an object that does not exist remotely yet.
	OpUpload OpKind = "upload"
	// OpUpdate replaces an object whose content or metadata changed.
	OpUpdate OpKind = "update"
	// OpDelete removes a remote object absent from the local manifest.
	OpDelete OpKind = "delete"
	// OpNone marks a key that is already in sync.
	OpNone OpKind = "no-op"
)

// Operation is one planned action for one key. Operations are produced by
// Plan, consumed exactly once by the executor, and never persisted.
type Operation struct {
	// Kind specifies the action to perform.
	Kind OpKind

	// Key is the destination path inside the bucket.
	Key string

	// Entry is the manifest entry backing the operation: the local entry for
	// uploads and updates, the superseded remote entry for deletions, nil
	// never for a well-formed non-delete operation.
	Entry *manifest.Entry
}

// DiffResult is the four-way classification of keys between the remote
// snapshot and the local manifest. Before Resolve is applied, a key whose
// content changed appears in both Changed (new local entry) and Removed
// (superseded remote entry); Resolve eliminates that overlap.
type DiffResult struct {
	// Added holds local entries with no remote counterpart.
	Added map[string]manifest.Entry

	// Changed holds local entries whose remote counterpart differs in
	// content fingerprint or in an explicitly supplied metadata key.
	Changed map[string]manifest.Entry

	// Removed holds remote entries scheduled for deletion. After Resolve,
	// these are strictly the keys absent from the local manifest.
	Removed map[string]manifest.Entry

	// Unchanged holds local entries already in sync.
	Unchanged map[string]manifest.Entry
}

// Result accumulates the keys affected by one sync run, by category.
// It is the caller-facing summary of what happened.
type Result struct {
	Uploaded  []string
	Updated   []string
	Deleted   []string
	Unchanged []string
}

// Reporter observes each planned operation as the executor reaches it.
// It is a side channel only; its behavior never affects whether the
// operation proceeds.
type Reporter func(op Operation)

// Options controls one execute invocation.
type Options struct {
	// DryRun suppresses all mutating side effects. Reporting and the
	// returned Result are identical to a live run.
	DryRun bool

	// Prune permits deletion of remote keys absent from the local manifest.
	// When false, delete operations are reported as no-ops and their keys
	// are dropped from every result category.
	Prune bool

	// Report is invoked once per planned operation, including suppressed
	// ones. Nil disables reporting.
	Report Reporter

	// Concurrency parallelizes upload/update operations when greater than
	// one. Deletions always start strictly after every upload and update
	// has completed.
	Concurrency int
}

// Comparer decides whether a local content fingerprint and a remote one
// denote the same content. The remote tag format is opaque, so the strategy
// is injectable rather than hard-coded to one hash algorithm.
type Comparer interface {
	Equal(local, remote string) bool
}

// ComparerFunc adapts a function to the Comparer interface.
type ComparerFunc func(local, remote string) bool

func (f ComparerFunc) Equal(local, remote string) bool { return f(local, remote) }

// DefaultComparer compares fingerprints as normalized opaque strings.
// Multipart uploads can yield composite remote tags that no local hash
// reproduces; such objects always classify as changed under this strategy.
var DefaultComparer Comparer = ComparerFunc(func(local, remote string) bool {
	return normalizeFingerprint(local) == normalizeFingerprint(remote)
})

// normalizeFingerprint strips the quoting some services wrap around ETags
// and lowercases the hex so fingerprints from both sides compare cleanly.
func normalizeFingerprint(fp string) string {
	return strings.ToLower(strings.Trim(fp, `"`))
}
