package sync

import (
	"fmt"
	"sort"

	"github.com/confetti-clj/s3-deploy/core/manifest"
)

// Plan converts the remote snapshot and the local manifest into the ordered
// operation sequence for one sync run. Non-delete operations follow the
// caller-supplied manifest order exactly; delete operations come last, in
// lexical key order. Deletions never precede uploads or updates, so a
// reader of the bucket never observes a key disappear before its
// replacement exists (brief duplicate existence is acceptable).
func Plan(remote map[string]manifest.Entry, local []manifest.Entry) ([]Operation, error) {
	localIdx, err := LocalIndex(local)
	if err != nil {
		return nil, err
	}

	d := Resolve(Diff(remote, localIdx))

	ops := make([]Operation, 0, len(local)+len(d.Removed))
	for i := range local {
		e := local[i]
		var kind OpKind
		switch {
		case hasKey(d.Added, e.Key):
			kind = OpUpload
		case hasKey(d.Changed, e.Key):
			kind = OpUpdate
		case hasKey(d.Unchanged, e.Key):
			kind = OpNone
		default:
			// Every local key must land in exactly one bucket; anything else
			// means the classification itself is broken.
			return nil, fmt.Errorf("invariant violation: key %q classified in no diff bucket (diff: %s)", e.Key, describeDiff(d))
		}
		ops = append(ops, Operation{Kind: kind, Key: e.Key, Entry: &e})
	}

	removedKeys := make([]string, 0, len(d.Removed))
	for key := range d.Removed {
		if _, present := localIdx[key]; present {
			return nil, fmt.Errorf("invariant violation: key %q is scheduled for deletion but present in the local manifest (diff: %s)", key, describeDiff(d))
		}
		removedKeys = append(removedKeys, key)
	}
	sort.Strings(removedKeys)

	for _, key := range removedKeys {
		e := d.Removed[key]
		ops = append(ops, Operation{Kind: OpDelete, Key: key, Entry: &e})
	}

	return ops, nil
}

func hasKey(m map[string]manifest.Entry, key string) bool {
	_, ok := m[key]
	return ok
}

func describeDiff(d *DiffResult) string {
	return fmt.Sprintf("added=%d changed=%d removed=%d unchanged=%d",
		len(d.Added), len(d.Changed), len(d.Removed), len(d.Unchanged))
}
