package cache

import (
	"context"
	"fmt"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/shared"
	"go.uber.org/zap"
)

// TemplateInvalidationHandler evicts cached templates when a template changes
type TemplateInvalidationHandler struct {
	cache  numbering.TemplateCache
	logger *zap.Logger
}

// NewTemplateInvalidationHandler creates a new TemplateInvalidationHandler
func NewTemplateInvalidationHandler(cache numbering.TemplateCache, logger *zap.Logger) *TemplateInvalidationHandler {
	return &TemplateInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *TemplateInvalidationHandler) EventTypes() []string {
	return []string{numbering.EventTypeDocumentTemplateChanged}
}

// Handle evicts the template named by a DocumentTemplateChangedEvent
func (h *TemplateInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*numbering.DocumentTemplateChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			numbering.EventTypeDocumentTemplateChanged, event.EventType())
	}

	h.cache.Invalidate(ctx, changed.DocCode)
	h.logger.Debug("Template cache invalidated",
		zap.String("doc_code", changed.DocCode),
		zap.Bool("is_active", changed.IsActive))
	return nil
}

var _ shared.EventHandler = (*TemplateInvalidationHandler)(nil)
