package upload

import (
	"context"
	"fmt"
	"strings"
)

// Source opens a file reference.
type Source interface {
	Open(ctx context.Context, ref string) (*File, error)
}

// Resolver dispatches references to the source for their scheme.
type Resolver struct {
	sources map[string]Source
}

// NewResolver returns a Resolver serving local paths from disk and, when s3
// is non-nil, s3:// references from S3.
func NewResolver(disk Source, s3 Source) *Resolver {
	r := &Resolver{sources: map[string]Source{}}
	if disk != nil {
		r.sources[""] = disk
		r.sources["file"] = disk
	}
	if s3 != nil {
		r.sources["s3"] = s3
	}
	return r
}

// Handle registers src for references starting with scheme://.
func (r *Resolver) Handle(scheme string, src Source) {
	r.sources[scheme] = src
}

// Open opens one reference.
func (r *Resolver) Open(ctx context.Context, ref string) (*File, error) {
	scheme, rest := splitScheme(ref)
	src, ok := r.sources[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, ref)
	}
	if scheme == "file" {
		ref = rest
	}
	return src.Open(ctx, ref)
}

// Resolve opens every reference in order. On failure the files opened so far
// are closed.
func (r *Resolver) Resolve(ctx context.Context, refs []string) ([]*File, error) {
	files := make([]*File, 0, len(refs))
	for _, ref := range refs {
		f, err := r.Open(ctx, ref)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// splitScheme splits "s3://bucket/key" into ("s3", "bucket/key"). References
// without "://" have an empty scheme.
func splitScheme(ref string) (string, string) {
	i := strings.Index(ref, "://")
	if i <= 0 {
		return "", ref
	}
	return strings.ToLower(ref[:i]), ref[i+3:]
}
