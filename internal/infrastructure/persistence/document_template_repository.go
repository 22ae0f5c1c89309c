package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTemplateRepository implements numbering.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindActiveByDocCode finds the active template of a document code.
// Document codes are matched case-insensitively.
func (r *GormTemplateRepository) FindActiveByDocCode(ctx context.Context, docCode string) (*numbering.DocumentTemplate, error) {
	var model models.DocumentTemplateModel
	err := r.db.WithContext(ctx).
		Where("UPPER(doc_code) = ? AND is_active = ?", strings.ToUpper(strings.TrimSpace(docCode)), true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDocCode finds a template regardless of its active flag
func (r *GormTemplateRepository) FindByDocCode(ctx context.Context, docCode string) (*numbering.DocumentTemplate, error) {
	var model models.DocumentTemplateModel
	err := r.db.WithContext(ctx).
		Where("UPPER(doc_code) = ?", strings.ToUpper(strings.TrimSpace(docCode))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a template by id. The unique doc_code index
// rejects a second template for the same document code.
func (r *GormTemplateRepository) Save(ctx context.Context, template *numbering.DocumentTemplate) error {
	model := models.DocumentTemplateModelFromDomain(template)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"format_string", "reset_rule", "is_active", "updated_at"}),
	}).Create(model).Error
}

// WithTx returns a new repository bound to the given transaction
func (r *GormTemplateRepository) WithTx(tx *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: tx}
}

var _ numbering.TemplateRepository = (*GormTemplateRepository)(nil)
