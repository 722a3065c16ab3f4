package sync

import (
	"context"
	"fmt"
	"net/textproto"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/confetti-clj/s3-deploy/core/manifest"
	"github.com/confetti-clj/s3-deploy/core/storage"
)

// amzMetaPrefix is how listings expose user metadata headers.
const amzMetaPrefix = "X-Amz-Meta-"

// RemoteIndex builds the remote snapshot: one entry per object in the
// bucket under prefix, fingerprinted with the service's ETag and carrying
// whatever user metadata the listing exposes. The snapshot is read once per
// run; a concurrent writer makes it stale, not wrong.
// A listing failure (connectivity, auth) is propagated unmodified and is
// fatal for the run.
func RemoteIndex(ctx context.Context, client storage.Client, bucket, prefix string) (map[string]manifest.Entry, error) {
	index := make(map[string]manifest.Entry)

	objects := client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		WithMetadata: true,
	})

	for oi := range objects {
		if oi.Err != nil {
			return nil, fmt.Errorf("list bucket %q: %w", bucket, oi.Err)
		}
		meta := canonicalMetadata(oi.UserMetadata)
		if oi.ContentType != "" {
			meta["Content-Type"] = oi.ContentType
		}
		index[oi.Key] = manifest.Entry{
			Key:         oi.Key,
			Fingerprint: normalizeFingerprint(oi.ETag),
			Metadata:    meta,
		}
	}

	return index, nil
}

// LocalIndex validates the local manifest and indexes it by key.
// A malformed entry (missing key, duplicate key) is an input validation
// error surfaced here, before any side effect.
func LocalIndex(entries []manifest.Entry) (map[string]manifest.Entry, error) {
	index := make(map[string]manifest.Entry, len(entries))
	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("manifest entry %d has no key", i)
		}
		if _, dup := index[e.Key]; dup {
			return nil, fmt.Errorf("manifest entry %d duplicates key %q", i, e.Key)
		}
		index[e.Key] = e
	}
	return index, nil
}

// canonicalMetadata strips the X-Amz-Meta- listing prefix and canonicalizes
// header keys so local and remote metadata compare by the same names.
func canonicalMetadata(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.TrimPrefix(textproto.CanonicalMIMEHeaderKey(k), amzMetaPrefix)
		out[textproto.CanonicalMIMEHeaderKey(k)] = v
	}
	return out
}
