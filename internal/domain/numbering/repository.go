package numbering

import "context"

// TemplateReader reads the active numbering template of a document code.
// It returns (nil, nil) when the code has no active template.
type TemplateReader interface {
	FindActiveByDocCode(ctx context.Context, docCode string) (*DocumentTemplate, error)
}

// TemplateRepository is the read/write store used by template administration
type TemplateRepository interface {
	TemplateReader
	// FindByDocCode returns the template regardless of its active flag, or (nil, nil)
	FindByDocCode(ctx context.Context, docCode string) (*DocumentTemplate, error)
	// Save inserts or updates the template keyed by its document code
	Save(ctx context.Context, template *DocumentTemplate) error
}

// SequenceStore is the concurrency-critical counter primitive.
//
// Reserve atomically advances the counter identified by counterKey by size
// and returns the first number of the reserved block; the block is
// [start, start+size). An unseen key starts at 1. Concurrent callers on the
// same key always receive disjoint blocks. Implementations must return an
// error on any storage failure instead of a default value.
type SequenceStore interface {
	Reserve(ctx context.Context, counterKey string, size int) (int64, error)
	// Peek returns the number the next reservation would start at, without
	// reserving it. The value is informational only.
	Peek(ctx context.Context, counterKey string) (int64, error)
}

// TemplateCache caches active templates by document code.
//
// Every Invalidate advances a per-code generation. A reader that misses
// takes Generation before loading from storage and hands it to Set, which
// drops the write when an Invalidate happened in between, so a copy read
// before an edit can never be cached after it.
type TemplateCache interface {
	Get(ctx context.Context, docCode string) (*DocumentTemplate, bool)
	Generation(ctx context.Context, docCode string) (int64, error)
	// Set reports whether the template was stored
	Set(ctx context.Context, template *DocumentTemplate, generation int64) bool
	Invalidate(ctx context.Context, docCode string)
}
