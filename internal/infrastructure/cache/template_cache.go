package cache

import (
	"strings"

	"github.com/erp/docengine/internal/domain/numbering"
)

// templateKeyPrefix scopes cached templates. Only active templates are
// cached, so the key carries the active flag. Generation counters live
// beside them and outlive evictions.
const (
	templateKeyPrefix           = "numbering:template:active:"
	templateGenerationKeyPrefix = "numbering:template:gen:"
)

// templateCacheKey generates the cache key for the active template of a document code
func templateCacheKey(docCode string) string {
	return templateKeyPrefix + strings.ToUpper(strings.TrimSpace(docCode))
}

// templateGenerationKey holds the eviction counter of a document code
func templateGenerationKey(docCode string) string {
	return templateGenerationKeyPrefix + strings.ToUpper(strings.TrimSpace(docCode))
}

// cloneTemplate returns a copy so cached values cannot be mutated by callers
func cloneTemplate(t *numbering.DocumentTemplate) *numbering.DocumentTemplate {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
