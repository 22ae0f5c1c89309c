package numbering

import "github.com/erp/docengine/internal/domain/shared"

const (
	// AggregateTypeDocumentTemplate is the aggregate type name for templates
	AggregateTypeDocumentTemplate = "DocumentTemplate"
	// EventTypeDocumentTemplateChanged is published whenever a template is saved or deactivated
	EventTypeDocumentTemplateChanged = "DocumentTemplateChanged"
)

// DocumentTemplateChangedEvent signals that cached copies of a template are stale
type DocumentTemplateChangedEvent struct {
	shared.BaseDomainEvent
	DocCode  string `json:"doc_code"`
	IsActive bool   `json:"is_active"`
}

// NewDocumentTemplateChangedEvent creates the change event for a template
func NewDocumentTemplateChangedEvent(t *DocumentTemplate) *DocumentTemplateChangedEvent {
	return &DocumentTemplateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeDocumentTemplateChanged,
			AggregateTypeDocumentTemplate,
			t.ID,
		),
		DocCode:  t.DocCode,
		IsActive: t.IsActive,
	}
}
