// Package manifest builds the desired target state for a deploy: an ordered
// sequence of entries, one per local file, each carrying a destination key,
// a content fingerprint, and optional metadata overrides.
//
// The manifest order is significant. The operation planner preserves it for
// every non-destructive operation, so a deterministic walk here yields a
// deterministic operation sequence downstream.
package manifest
