package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/scorecard/internal/domain/record"
	"github.com/okian/scorecard/pkg/logger"
)

// defaultPrefetch is the number of documents decoded ahead of the consumer.
const defaultPrefetch = 8

// Document is one decoded source file. Err is set when the file could not be
// read or decoded; Tree is nil in that case.
type Document struct {
	SourceID string // file base name, the natural key
	Path     string
	Tree     record.Map
	Err      error
}

// Reader streams documents in path order through a bounded channel so that
// file reading overlaps with the consumer's work.
type Reader struct {
	paths    []string
	prefetch int
	readFile func(string) ([]byte, error)
	log      logger.Logger
}

// NewReader creates a reader over paths.
func NewReader(paths []string, opts ...Option) *Reader {
	r := &Reader{
		paths:    paths,
		prefetch: defaultPrefetch,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get().Named("source")
	}
	return r
}

// Len returns the number of paths the reader will emit.
func (r *Reader) Len() int {
	return len(r.paths)
}

// Documents starts reading and returns the stream. The channel is closed after
// the last path or once ctx is done.
func (r *Reader) Documents(ctx context.Context) <-chan Document {
	out := make(chan Document, r.prefetch)
	go func() {
		defer close(out)
		for _, p := range r.paths {
			if ctx.Err() != nil {
				return
			}
			doc := r.Load(ctx, p)
			select {
			case out <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Load reads and decodes a single path.
func (r *Reader) Load(ctx context.Context, path string) Document {
	doc := Document{SourceID: filepath.Base(path), Path: path}
	data, err := r.readFile(path)
	if err != nil {
		doc.Err = fmt.Errorf("read %s: %w", doc.SourceID, err)
		return doc
	}
	tree, err := Decode(data)
	if err != nil {
		r.log.Debug(ctx, "decode failed", logger.String("source_file", doc.SourceID), logger.Error(err))
		doc.Err = fmt.Errorf("decode %s: %w", doc.SourceID, err)
		return doc
	}
	doc.Tree = tree
	return doc
}
