package models

import (
	"time"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/google/uuid"
)

// DocumentTemplateModel is the persistence model for numbering templates
type DocumentTemplateModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocCode      string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	FormatString string    `gorm:"type:text;not null"`
	ResetRule    string    `gorm:"type:varchar(255);not null;default:''"`
	IsActive     bool      `gorm:"not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentTemplateModel) TableName() string {
	return "document_templates"
}

// ToDomain converts the persistence model to a domain template
func (m *DocumentTemplateModel) ToDomain() *numbering.DocumentTemplate {
	return &numbering.DocumentTemplate{
		ID:           m.ID,
		DocCode:      m.DocCode,
		FormatString: m.FormatString,
		ResetRule:    m.ResetRule,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// DocumentTemplateModelFromDomain creates a persistence model from a domain template
func DocumentTemplateModelFromDomain(t *numbering.DocumentTemplate) *DocumentTemplateModel {
	return &DocumentTemplateModel{
		ID:           t.ID,
		DocCode:      t.DocCode,
		FormatString: t.FormatString,
		ResetRule:    t.ResetRule,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// DocumentCounterModel holds the last issued value of one counter key
type DocumentCounterModel struct {
	CounterKey string    `gorm:"type:varchar(255);primaryKey"`
	LastValue  int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentCounterModel) TableName() string {
	return "document_counters"
}
