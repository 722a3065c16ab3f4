// Package contenttype infers MIME types for uploaded objects.
package contenttype

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is returned when no better inference is possible.
const DefaultContentType = "application/octet-stream"

// Resolver infers a MIME type for an object key or local path.
// Resolution is best-effort and never fails; callers always receive a
// valid media type.
type Resolver interface {
	TypeOf(path string) string
}

// NewResolver returns the default resolver. It tries the file extension
// first and falls back to content sniffing for local files without a
// recognizable extension.
func NewResolver() Resolver {
	return &resolver{}
}

type resolver struct{}

func (r *resolver) TypeOf(path string) string {
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	// Sniffing only works for readable local files; for bare bucket keys
	// this returns an error and we keep the default.
	if mtype, err := mimetype.DetectFile(path); err == nil {
		return mtype.String()
	}

	return DefaultContentType
}
