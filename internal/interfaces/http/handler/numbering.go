package handler

import (
	"context"
	"strings"

	numberingapp "github.com/erp/docengine/internal/application/numbering"
	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// NumberGenerator issues and previews document numbers
type NumberGenerator interface {
	GenerateNumbers(ctx context.Context, docCode string, values map[string]string, quantity int) ([]string, error)
	PreviewNumber(ctx context.Context, docCode string, values map[string]string) (string, error)
}

// TemplateManager maintains numbering templates
type TemplateManager interface {
	SaveTemplate(ctx context.Context, input numberingapp.SaveTemplateInput) (*numbering.DocumentTemplate, error)
	DeactivateTemplate(ctx context.Context, docCode string) (*numbering.DocumentTemplate, error)
	GetTemplate(ctx context.Context, docCode string) (*numbering.DocumentTemplate, error)
}

// NumberingHandler serves number generation and template maintenance
type NumberingHandler struct {
	BaseHandler
	numbers   NumberGenerator
	templates TemplateManager
}

// NewNumberingHandler creates a NumberingHandler
func NewNumberingHandler(numbers NumberGenerator, templates TemplateManager) *NumberingHandler {
	return &NumberingHandler{numbers: numbers, templates: templates}
}

// GenerateNumbers issues quantity consecutive numbers for a document code.
// POST /document-numbers
func (h *NumberingHandler) GenerateNumbers(c *gin.Context) {
	var req dto.GenerateNumbersRequest
	if !h.BindJSON(c, &req) {
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	numbers, err := h.numbers.GenerateNumbers(c.Request.Context(), req.DocCode, req.Context, quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.GenerateNumbersResponse{Numbers: numbers})
}

// PreviewNumber returns the next number without reserving it.
// POST /document-numbers/preview
func (h *NumberingHandler) PreviewNumber(c *gin.Context) {
	var req dto.PreviewNumberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	number, err := h.numbers.PreviewNumber(c.Request.Context(), req.DocCode, req.Context)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.PreviewNumberResponse{Number: number})
}

// SaveTemplate creates or replaces the template of :docCode.
// PUT /document-templates/:docCode
func (h *NumberingHandler) SaveTemplate(c *gin.Context) {
	var req dto.SaveTemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	template, err := h.templates.SaveTemplate(c.Request.Context(), numberingapp.SaveTemplateInput{
		DocCode:      strings.TrimSpace(c.Param("docCode")),
		FormatString: req.FormatString,
		ResetRule:    req.ResetRule,
		IsActive:     isActive,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTemplateResponse(template))
}

// GetTemplate returns the template of :docCode.
// GET /document-templates/:docCode
func (h *NumberingHandler) GetTemplate(c *gin.Context) {
	template, err := h.templates.GetTemplate(c.Request.Context(), c.Param("docCode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTemplateResponse(template))
}

// DeactivateTemplate switches the template of :docCode off.
// POST /document-templates/:docCode/deactivate
func (h *NumberingHandler) DeactivateTemplate(c *gin.Context) {
	template, err := h.templates.DeactivateTemplate(c.Request.Context(), c.Param("docCode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTemplateResponse(template))
}

func toTemplateResponse(t *numbering.DocumentTemplate) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:           t.ID.String(),
		DocCode:      t.DocCode,
		FormatString: t.FormatString,
		ResetRule:    t.ResetRule,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
