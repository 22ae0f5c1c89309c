package numbering

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return m.err
}

func (m *MockEventPublisher) GetEvents() []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, len(m.events))
	copy(result, m.events)
	return result
}

func TestTemplateService_SaveTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new template and announces it", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		publisher := &MockEventPublisher{}
		svc := NewTemplateService(repo)
		svc.SetEventPublisher(publisher)

		repo.On("FindByDocCode", mock.Anything, "INV").Return(nil, nil).Once()
		repo.On("Save", mock.Anything, mock.AnythingOfType("*numbering.DocumentTemplate")).Return(nil).Once()

		template, err := svc.SaveTemplate(ctx, SaveTemplateInput{
			DocCode:      " INV ",
			FormatString: "INV/{YYYY}/{SEQ:4}",
			ResetRule:    "YYYY",
			IsActive:     true,
		})
		require.NoError(t, err)
		assert.Equal(t, "INV", template.DocCode)
		assert.Equal(t, "YYYY", template.ResetRule)

		events := publisher.GetEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*numbering.DocumentTemplateChangedEvent)
		require.True(t, ok)
		assert.Equal(t, "INV", changed.DocCode)
		assert.True(t, changed.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("updates an existing template in place", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		existing := mustTemplate(t, "INV", "INV-{SEQ:4}", "")
		svc := NewTemplateService(repo)

		repo.On("FindByDocCode", mock.Anything, "INV").Return(existing, nil).Once()
		repo.On("Save", mock.Anything, existing).Return(nil).Once()

		template, err := svc.SaveTemplate(ctx, SaveTemplateInput{
			DocCode:      "INV",
			FormatString: "INV/{SITE}/{SEQ:5}",
			ResetRule:    "SITE",
			IsActive:     true,
		})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, template.ID)
		assert.Equal(t, "INV/{SITE}/{SEQ:5}", template.FormatString)
	})

	t.Run("rejects an invalid definition without saving", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		publisher := &MockEventPublisher{}
		svc := NewTemplateService(repo)
		svc.SetEventPublisher(publisher)

		repo.On("FindByDocCode", mock.Anything, "INV").Return(nil, nil).Once()

		_, err := svc.SaveTemplate(ctx, SaveTemplateInput{DocCode: "INV", FormatString: "INV-{NUM}"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, publisher.GetEvents())
	})

	t.Run("publish failure does not fail the save", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		svc := NewTemplateService(repo)
		svc.SetEventPublisher(&MockEventPublisher{err: errors.New("bus stopped")})

		repo.On("FindByDocCode", mock.Anything, "PO").Return(nil, nil).Once()
		repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.SaveTemplate(ctx, SaveTemplateInput{DocCode: "PO", FormatString: "PO{SEQ:3}", IsActive: true})
		assert.NoError(t, err)
	})
}

func TestTemplateService_DeactivateTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates and announces", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		publisher := &MockEventPublisher{}
		svc := NewTemplateService(repo)
		svc.SetEventPublisher(publisher)
		existing := mustTemplate(t, "INV", "INV-{SEQ:4}", "")

		repo.On("FindByDocCode", mock.Anything, "INV").Return(existing, nil).Once()
		repo.On("Save", mock.Anything, existing).Return(nil).Once()

		template, err := svc.DeactivateTemplate(ctx, "INV")
		require.NoError(t, err)
		assert.False(t, template.IsActive)

		events := publisher.GetEvents()
		require.Len(t, events, 1)
		assert.False(t, events[0].(*numbering.DocumentTemplateChangedEvent).IsActive)
	})

	t.Run("unknown document code", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		svc := NewTemplateService(repo)
		repo.On("FindByDocCode", mock.Anything, "NOPE").Return(nil, nil).Once()

		_, err := svc.DeactivateTemplate(ctx, "NOPE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTemplateService_GetTemplate(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := NewTemplateService(repo)

	_, err := svc.GetTemplate(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	repo.On("FindByDocCode", mock.Anything, "INV").Return(nil, errors.New("db down")).Once()
	_, err = svc.GetTemplate(context.Background(), "INV")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInternal, domainErr.Code)
}
