package numbering

import (
	"context"
	"fmt"
	"strings"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/erp/docengine/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SaveTemplateInput is the definition of a template to create or replace
type SaveTemplateInput struct {
	DocCode      string
	FormatString string
	ResetRule    string
	IsActive     bool
}

// TemplateService maintains numbering templates. Every change is announced
// with a DocumentTemplateChanged event so cached copies can be evicted.
type TemplateService struct {
	repo           numbering.TemplateRepository
	eventPublisher shared.EventPublisher
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(repo numbering.TemplateRepository) *TemplateService {
	return &TemplateService{repo: repo}
}

// SetEventPublisher sets the event publisher for template change events
func (s *TemplateService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SaveTemplate creates the template of a document code or replaces its definition
func (s *TemplateService) SaveTemplate(ctx context.Context, input SaveTemplateInput) (*numbering.DocumentTemplate, error) {
	docCode := strings.TrimSpace(input.DocCode)
	existing, err := s.repo.FindByDocCode(ctx, docCode)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeInternal,
			fmt.Sprintf("Failed to load template for %q", docCode), err)
	}

	var template *numbering.DocumentTemplate
	if existing != nil {
		if err := existing.Update(input.FormatString, input.ResetRule, input.IsActive); err != nil {
			return nil, err
		}
		template = existing
	} else {
		template, err = numbering.NewDocumentTemplate(docCode, input.FormatString, input.ResetRule, input.IsActive)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, template); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInternal,
			fmt.Sprintf("Failed to save template for %q", docCode), err)
	}

	s.publishChanged(ctx, template)
	logger.L(ctx).Info("Document template saved",
		zap.String("doc_code", template.DocCode),
		zap.Bool("is_active", template.IsActive),
	)
	return template, nil
}

// DeactivateTemplate marks the template of a document code inactive
func (s *TemplateService) DeactivateTemplate(ctx context.Context, docCode string) (*numbering.DocumentTemplate, error) {
	template, err := s.GetTemplate(ctx, docCode)
	if err != nil {
		return nil, err
	}

	template.Deactivate()
	if err := s.repo.Save(ctx, template); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInternal,
			fmt.Sprintf("Failed to save template for %q", template.DocCode), err)
	}

	s.publishChanged(ctx, template)
	logger.L(ctx).Info("Document template deactivated", zap.String("doc_code", template.DocCode))
	return template, nil
}

// GetTemplate returns the template of a document code, active or not
func (s *TemplateService) GetTemplate(ctx context.Context, docCode string) (*numbering.DocumentTemplate, error) {
	docCode = strings.TrimSpace(docCode)
	if docCode == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Document code is required")
	}
	template, err := s.repo.FindByDocCode(ctx, docCode)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeInternal,
			fmt.Sprintf("Failed to load template for %q", docCode), err)
	}
	if template == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound,
			fmt.Sprintf("Document template %q not found", docCode))
	}
	return template, nil
}

func (s *TemplateService) publishChanged(ctx context.Context, template *numbering.DocumentTemplate) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, numbering.NewDocumentTemplateChangedEvent(template)); err != nil {
		// The template is already stored; cached copies expire by TTL.
		logger.L(ctx).Warn("Failed to publish template change",
			zap.String("doc_code", template.DocCode),
			zap.Error(err),
		)
	}
}
