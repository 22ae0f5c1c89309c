package cache

import (
	"context"

	"github.com/erp/docengine/internal/domain/numbering"
)

// CachedTemplateRepository serves active-template lookups from a cache and
// falls through to the wrapped repository on a miss. Lookups regardless of
// the active flag always go to the repository.
type CachedTemplateRepository struct {
	next  numbering.TemplateRepository
	cache numbering.TemplateCache
}

// NewCachedTemplateRepository wraps next with cache
func NewCachedTemplateRepository(next numbering.TemplateRepository, cache numbering.TemplateCache) *CachedTemplateRepository {
	return &CachedTemplateRepository{next: next, cache: cache}
}

// FindActiveByDocCode returns the active template of a document code
func (r *CachedTemplateRepository) FindActiveByDocCode(ctx context.Context, docCode string) (*numbering.DocumentTemplate, error) {
	if t, ok := r.cache.Get(ctx, docCode); ok {
		return t, nil
	}

	generation, genErr := r.cache.Generation(ctx, docCode)
	t, err := r.next.FindActiveByDocCode(ctx, docCode)
	if err != nil || t == nil {
		return t, err
	}
	if genErr == nil {
		r.cache.Set(ctx, t, generation)
	}
	return t, nil
}

// FindByDocCode returns the template regardless of its active flag
func (r *CachedTemplateRepository) FindByDocCode(ctx context.Context, docCode string) (*numbering.DocumentTemplate, error) {
	return r.next.FindByDocCode(ctx, docCode)
}

// Save stores the template and evicts the cached copy
func (r *CachedTemplateRepository) Save(ctx context.Context, template *numbering.DocumentTemplate) error {
	if err := r.next.Save(ctx, template); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, template.DocCode)
	return nil
}

var _ numbering.TemplateRepository = (*CachedTemplateRepository)(nil)
