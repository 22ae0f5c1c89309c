package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/erp/docengine/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// reserveSQL advances a counter in one statement. The row lock taken by the
// upsert serializes concurrent reservations on the same key, and RETURNING
// hands back the post-increment value, so no read-then-write race exists.
const reserveSQL = `INSERT INTO document_counters (counter_key, last_value, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (counter_key) DO UPDATE
SET last_value = document_counters.last_value + excluded.last_value, updated_at = excluded.updated_at
RETURNING last_value`

// GormSequenceStore implements numbering.SequenceStore on the document_counters table
type GormSequenceStore struct {
	db *gorm.DB
}

// NewGormSequenceStore creates a new GormSequenceStore
func NewGormSequenceStore(db *gorm.DB) *GormSequenceStore {
	return &GormSequenceStore{db: db}
}

// Reserve atomically reserves size consecutive numbers for counterKey and
// returns the first one. Storage failures are reported as
// SEQUENCE_RESERVATION_FAILED.
func (s *GormSequenceStore) Reserve(ctx context.Context, counterKey string, size int) (int64, error) {
	if size <= 0 {
		return 0, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Reservation size must be positive, got %d", size))
	}

	now := time.Now()
	var last int64
	row := s.db.WithContext(ctx).Raw(reserveSQL, counterKey, size, now, now).Row()
	if err := row.Scan(&last); err != nil {
		return 0, numbering.NewSequenceReservationError(counterKey, err)
	}
	return last - int64(size) + 1, nil
}

// Peek returns the next number counterKey would issue
func (s *GormSequenceStore) Peek(ctx context.Context, counterKey string) (int64, error) {
	var model models.DocumentCounterModel
	err := s.db.WithContext(ctx).Where("counter_key = ?", counterKey).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil
		}
		return 0, fmt.Errorf("peek counter %q: %w", counterKey, err)
	}
	return model.LastValue + 1, nil
}

var _ numbering.SequenceStore = (*GormSequenceStore)(nil)
