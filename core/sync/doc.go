// Package sync implements the reconciliation engine that keeps a bucket in
// step with a local manifest while minimizing redundant transfer.
//
// # Architecture
//
// The engine is a pipeline of small, separately testable stages:
//
//  1. Adapter: RemoteIndex normalizes a live bucket listing and LocalIndex
//     validates and indexes the caller's manifest, yielding two comparable
//     key-to-fingerprint mappings.
//
//  2. Diff: a pure four-way partition (added, changed, removed, unchanged).
//     The raw diff deliberately records a changed key's superseded remote
//     entry under removed as well; Resolve is a second pure pass that drops
//     that overlap. Two composed functions instead of a single-pass
//     classifier, so each can be tested in isolation.
//
//  3. Plan: converts the resolved diff into an ordered operation sequence.
//     Non-delete operations preserve the caller's manifest order; deletions
//     are appended last in lexical key order. Nothing is ever deleted
//     before every upload and update has been issued, so a concurrent
//     reader of the bucket never sees a file vanish before its replacement
//     exists.
//
//  4. Executor: walks the plan in order, calls the storage client (or
//     suppresses the calls under dry-run), reports each operation to an
//     observer sink, and accumulates the uploaded/updated/deleted/unchanged
//     result sets. Execution is fail-fast and stateless across runs.
//
// # Options
//
// DryRun produces identical reporting and an identical Result to a live
// run, differing only in the absence of mutation. Prune gates deletions:
// when off, delete operations are reported as no-ops and excluded from
// every result set. Concurrency > 1 parallelizes the upload/update phase;
// deletions still begin only after that phase completes.
//
// # Usage Example
//
//	entries, _ := manifest.FromDir("public", "", hash.New(hash.MD5))
//	ex := sync.NewExecutor(client, "www-mysite-com", log)
//	res, err := ex.Sync(ctx, entries, "", sync.Options{Prune: true})
package sync
