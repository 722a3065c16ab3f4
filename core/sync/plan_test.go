package sync

import (
	"testing"

	"github.com/confetti-clj/s3-deploy/core/manifest"

	"github.com/stretchr/testify/assert"
)

// TestPlan_Ordering tests that non-delete operations preserve manifest order
// and deletions always come last.
func TestPlan_Ordering(t *testing.T) {
	remote := map[string]manifest.Entry{
		"y": remoteEntry("y", "fp-y-old", nil),
		"z": remoteEntry("z", "fp-z", nil),
		"w": remoteEntry("w", "fp-w", nil),
	}
	local := []manifest.Entry{
		localEntry("x", "fp-x", nil),     // added
		localEntry("y", "fp-y-new", nil), // changed
		localEntry("z", "fp-z", nil),     // unchanged
	}

	ops, err := Plan(remote, local)
	assert.NoError(t, err)
	assert.Len(t, ops, 4)

	assert.Equal(t, OpUpload, ops[0].Kind)
	assert.Equal(t, "x", ops[0].Key)
	assert.Equal(t, OpUpdate, ops[1].Kind)
	assert.Equal(t, "y", ops[1].Key)
	assert.Equal(t, OpNone, ops[2].Kind)
	assert.Equal(t, "z", ops[2].Key)
	assert.Equal(t, OpDelete, ops[3].Kind)
	assert.Equal(t, "w", ops[3].Key)
}

// TestPlan_DeletesSortedLast tests that multiple deletions are appended in
// lexical key order after every non-delete operation.
func TestPlan_DeletesSortedLast(t *testing.T) {
	remote := map[string]manifest.Entry{
		"zz": remoteEntry("zz", "fp", nil),
		"aa": remoteEntry("aa", "fp", nil),
		"mm": remoteEntry("mm", "fp", nil),
	}
	local := []manifest.Entry{
		localEntry("new", "fp", nil),
	}

	ops, err := Plan(remote, local)
	assert.NoError(t, err)
	assert.Len(t, ops, 4)

	assert.Equal(t, OpUpload, ops[0].Kind)
	assert.Equal(t, "aa", ops[1].Key)
	assert.Equal(t, "mm", ops[2].Key)
	assert.Equal(t, "zz", ops[3].Key)
	for _, op := range ops[1:] {
		assert.Equal(t, OpDelete, op.Kind)
	}
}

// TestPlan_ChangedKeyNotDeleted tests that a changed key never yields a
// delete operation even though its old remote entry appears in the raw diff.
func TestPlan_ChangedKeyNotDeleted(t *testing.T) {
	remote := map[string]manifest.Entry{
		"k": remoteEntry("k", "old", nil),
	}
	local := []manifest.Entry{
		localEntry("k", "new", nil),
	}

	ops, err := Plan(remote, local)
	assert.NoError(t, err)
	assert.Len(t, ops, 1)
	assert.Equal(t, OpUpdate, ops[0].Kind)
}

// TestPlan_EmptyRemote tests that a fresh bucket yields uploads only, in
// manifest order.
func TestPlan_EmptyRemote(t *testing.T) {
	local := []manifest.Entry{
		localEntry("b", "fp", nil),
		localEntry("a", "fp", nil),
	}

	ops, err := Plan(map[string]manifest.Entry{}, local)
	assert.NoError(t, err)
	assert.Len(t, ops, 2)
	// Caller order, not lexical order.
	assert.Equal(t, "b", ops[0].Key)
	assert.Equal(t, "a", ops[1].Key)
	assert.Equal(t, OpUpload, ops[0].Kind)
	assert.Equal(t, OpUpload, ops[1].Kind)
}

// TestPlan_DeletePayloadIsRemoteEntry tests that delete operations carry the
// superseded remote entry for reporting.
func TestPlan_DeletePayloadIsRemoteEntry(t *testing.T) {
	remote := map[string]manifest.Entry{
		"gone": remoteEntry("gone", "fp-gone", nil),
	}

	ops, err := Plan(remote, nil)
	assert.NoError(t, err)
	assert.Len(t, ops, 1)
	assert.NotNil(t, ops[0].Entry)
	assert.Equal(t, "fp-gone", ops[0].Entry.Fingerprint)
}

// TestLocalIndex_Validation tests that malformed manifests are rejected
// before any side effect.
func TestLocalIndex_Validation(t *testing.T) {
	t.Run("MissingKey", func(t *testing.T) {
		_, err := LocalIndex([]manifest.Entry{{Path: "local/file", Fingerprint: "fp"}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no key")
	})

	t.Run("DuplicateKey", func(t *testing.T) {
		_, err := LocalIndex([]manifest.Entry{
			localEntry("k", "fp1", nil),
			localEntry("k", "fp2", nil),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicates key")
	})

	t.Run("Valid", func(t *testing.T) {
		idx, err := LocalIndex([]manifest.Entry{
			localEntry("a", "fp", nil),
			localEntry("b", "fp", nil),
		})
		assert.NoError(t, err)
		assert.Len(t, idx, 2)
	})
}
