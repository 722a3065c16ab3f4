// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the deploy pipeline needs: verifying bucket access, listing
// remote objects, uploading content, and deleting objects. This abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - ListObjects: Lists objects in a bucket (supports prefix/recursive,
//     optionally with user metadata).
//   - PutObject: Uploads content (with size and options).
//   - RemoveObject / RemoveObjects: Deletes one or many objects.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "www-mysite-com")
package storage
