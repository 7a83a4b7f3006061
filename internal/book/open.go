package book

import (
	"context"
	"fmt"

	"github.com/gncx-dev/gncx/internal/source"
)

// Open reads the book at path and builds it. The storage format is detected
// from the file header.
func Open(ctx context.Context, path string, opts ...Option) (*Book, error) {
	return OpenFormat(ctx, source.DefaultRegistry(), path, "", opts...)
}

// OpenFormat reads path with the reader registered for format, or the
// detected one when format is empty or "auto", and builds the book.
func OpenFormat(ctx context.Context, reg *source.Registry, path, format string, opts ...Option) (*Book, error) {
	recs, err := reg.ReadFile(ctx, path, format)
	if err != nil {
		return nil, err
	}
	b, err := Build(recs, opts...)
	if err != nil {
		return nil, fmt.Errorf("building book %s: %w", path, err)
	}
	return b, nil
}
