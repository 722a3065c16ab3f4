package sync

import (
	"context"
	"fmt"
	"net/textproto"
	"os"
	stdsync "sync"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/confetti-clj/s3-deploy/core/contenttype"
	"github.com/confetti-clj/s3-deploy/core/manifest"
	"github.com/confetti-clj/s3-deploy/core/storage"
)

// Executor applies operation plans against one bucket. It holds no state
// across runs; every run re-derives state from a fresh remote snapshot.
type Executor struct {
	client storage.Client
	bucket string
	types  contenttype.Resolver
	log    *zap.Logger
}

// NewExecutor creates an executor bound to a storage client and bucket.
func NewExecutor(client storage.Client, bucket string, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		client: client,
		bucket: bucket,
		types:  contenttype.NewResolver(),
		log:    log,
	}
}

// Sync reconciles the bucket with the local manifest: snapshot the bucket,
// plan, execute. The prefix scopes both the listing and, through the
// manifest keys, the deletions; objects outside it are never touched.
func (e *Executor) Sync(ctx context.Context, local []manifest.Entry, prefix string, opts Options) (*Result, error) {
	exists, err := e.client.BucketExists(ctx, e.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", e.bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", e.bucket)
	}

	remote, err := RemoteIndex(ctx, e.client, e.bucket, prefix)
	if err != nil {
		return nil, err
	}

	ops, err := Plan(remote, local)
	if err != nil {
		return nil, err
	}

	return e.Execute(ctx, ops, opts)
}

// Execute walks the plan strictly in order, invoking side effects (or
// suppressing them under dry-run), reporting every operation, and
// accumulating the per-category result sets. Execution is fail-fast: a
// failed mutating call aborts the run and the returned Result reflects only
// the operations completed before the failure.
func (e *Executor) Execute(ctx context.Context, ops []Operation, opts Options) (*Result, error) {
	if opts.Concurrency > 1 {
		return e.executeParallel(ctx, ops, opts)
	}

	res := newResult()
	for _, op := range ops {
		report(opts, op)
		switch op.Kind {
		case OpUpload, OpUpdate:
			if !opts.DryRun {
				if err := e.put(ctx, op); err != nil {
					return res, err
				}
			}
			res.add(op)
		case OpDelete:
			if !opts.Prune {
				continue
			}
			if !opts.DryRun {
				if err := e.remove(ctx, op.Key); err != nil {
					return res, err
				}
			}
			res.add(op)
		case OpNone:
			res.add(op)
		default:
			return res, fmt.Errorf("invariant violation: unrecognized operation kind %q for key %q", op.Kind, op.Key)
		}
	}
	return res, nil
}

// executeParallel runs uploads and updates concurrently (they are mutually
// independent, one key each) and only then runs deletions, preserving the
// ordering guarantee between the two phases. Reporting still happens in
// plan order, at dispatch time.
func (e *Executor) executeParallel(ctx context.Context, ops []Operation, opts Options) (*Result, error) {
	res := newResult()
	var mu stdsync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, op := range ops {
		if op.Kind == OpDelete {
			continue
		}
		report(opts, op)

		switch op.Kind {
		case OpUpload, OpUpdate:
			op := op
			g.Go(func() error {
				if !opts.DryRun {
					if err := e.put(gctx, op); err != nil {
						return err
					}
				}
				mu.Lock()
				res.add(op)
				mu.Unlock()
				return nil
			})
		case OpNone:
			mu.Lock()
			res.add(op)
			mu.Unlock()
		default:
			err := fmt.Errorf("invariant violation: unrecognized operation kind %q for key %q", op.Kind, op.Key)
			_ = g.Wait()
			return res, err
		}
	}

	if err := g.Wait(); err != nil {
		return res, err
	}

	// Delete phase starts only after every upload and update completed.
	var dels []Operation
	for _, op := range ops {
		if op.Kind != OpDelete {
			continue
		}
		report(opts, op)
		if opts.Prune {
			dels = append(dels, op)
		}
	}
	if len(dels) == 0 {
		return res, nil
	}
	if opts.DryRun {
		for _, op := range dels {
			res.add(op)
		}
		return res, nil
	}
	return res, e.removeBatch(ctx, dels, res)
}

// removeBatch deletes the planned keys in one multi-object call and tallies
// the keys the service confirmed.
func (e *Executor) removeBatch(ctx context.Context, dels []Operation, res *Result) error {
	objectsCh := make(chan minio.ObjectInfo, len(dels))
	for _, op := range dels {
		objectsCh <- minio.ObjectInfo{Key: op.Key}
	}
	close(objectsCh)

	failed := make(map[string]error)
	for rerr := range e.client.RemoveObjects(ctx, e.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			failed[rerr.ObjectName] = rerr.Err
		}
	}

	var firstErr error
	for _, op := range dels {
		if err, ok := failed[op.Key]; ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("delete %q: %w", op.Key, err)
			}
			continue
		}
		res.add(op)
		e.log.Debug("object deleted", zap.String("key", op.Key))
	}
	return firstErr
}

// put uploads the operation's local entry, merging the resolver-derived
// content type with caller metadata overrides.
func (e *Executor) put(ctx context.Context, op Operation) error {
	ent := op.Entry
	if ent == nil || ent.Path == "" {
		return fmt.Errorf("invariant violation: %s operation for key %q has no local source", op.Kind, op.Key)
	}

	f, err := os.Open(ent.Path)
	if err != nil {
		return fmt.Errorf("open %q: %w", ent.Path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %q: %w", ent.Path, err)
	}

	contentType := e.types.TypeOf(ent.Path)
	meta := make(map[string]string, len(ent.Metadata))
	for k, v := range ent.Metadata {
		if textproto.CanonicalMIMEHeaderKey(k) == "Content-Type" {
			contentType = v
			continue
		}
		meta[k] = v
	}

	_, err = e.client.PutObject(ctx, e.bucket, op.Key, f, st.Size(), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: meta,
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", op.Key, err)
	}

	e.log.Debug("object written",
		zap.String("key", op.Key),
		zap.String("kind", string(op.Kind)),
		zap.String("content_type", contentType))
	return nil
}

func (e *Executor) remove(ctx context.Context, key string) error {
	if err := e.client.RemoveObject(ctx, e.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	e.log.Debug("object deleted", zap.String("key", key))
	return nil
}

// report invokes the sink once per planned operation. Prune-gated delete
// operations are reported as no-ops; their keys never reach a result set.
func report(opts Options, op Operation) {
	if opts.Report == nil {
		return
	}
	if op.Kind == OpDelete && !opts.Prune {
		op.Kind = OpNone
	}
	opts.Report(op)
}

func newResult() *Result {
	return &Result{
		Uploaded:  []string{},
		Updated:   []string{},
		Deleted:   []string{},
		Unchanged: []string{},
	}
}

func (r *Result) add(op Operation) {
	switch op.Kind {
	case OpUpload:
		r.Uploaded = append(r.Uploaded, op.Key)
	case OpUpdate:
		r.Updated = append(r.Updated, op.Key)
	case OpDelete:
		r.Deleted = append(r.Deleted, op.Key)
	case OpNone:
		r.Unchanged = append(r.Unchanged, op.Key)
	}
}
