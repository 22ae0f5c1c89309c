package persistence

import (
	"context"
	"testing"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTemplateRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save then find active", func(t *testing.T) {
		repo := NewGormTemplateRepository(setupSQLiteTestDB(t))
		template, err := numbering.NewDocumentTemplate("INV", "INV/{YYYY}/{SEQ:4}", "YYYY", true)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, template))

		found, err := repo.FindActiveByDocCode(ctx, "inv")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, template.ID, found.ID)
		assert.Equal(t, "INV/{YYYY}/{SEQ:4}", found.FormatString)
		assert.Equal(t, "YYYY", found.ResetRule)
		assert.True(t, found.IsActive)
	})

	t.Run("absent code returns nil without error", func(t *testing.T) {
		repo := NewGormTemplateRepository(setupSQLiteTestDB(t))

		found, err := repo.FindActiveByDocCode(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, found)

		found, err = repo.FindByDocCode(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("save upserts by doc code", func(t *testing.T) {
		db := setupSQLiteTestDB(t)
		repo := NewGormTemplateRepository(db)

		template, err := numbering.NewDocumentTemplate("PO", "PO-{SEQ:3}", "", true)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, template))

		require.NoError(t, template.Update("PO/{SITE}/{SEQ:5}", "SITE", true))
		require.NoError(t, repo.Save(ctx, template))

		var count int64
		require.NoError(t, db.Table("document_templates").Count(&count).Error)
		assert.Equal(t, int64(1), count)

		found, err := repo.FindActiveByDocCode(ctx, "PO")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "PO/{SITE}/{SEQ:5}", found.FormatString)
		assert.Equal(t, "SITE", found.ResetRule)
	})

	t.Run("inactive template is only visible to FindByDocCode", func(t *testing.T) {
		repo := NewGormTemplateRepository(setupSQLiteTestDB(t))
		template, err := numbering.NewDocumentTemplate("GRN", "GRN-{SEQ:3}", "", true)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, template))

		template.Deactivate()
		require.NoError(t, repo.Save(ctx, template))

		active, err := repo.FindActiveByDocCode(ctx, "GRN")
		require.NoError(t, err)
		assert.Nil(t, active)

		stored, err := repo.FindByDocCode(ctx, "GRN")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.False(t, stored.IsActive)
	})
}

func TestGormTemplateRepository_DuplicateDocCode(t *testing.T) {
	ctx := context.Background()
	repo := NewGormTemplateRepository(setupSQLiteTestDB(t))

	first, err := numbering.NewDocumentTemplate("INV", "INV-{SEQ:4}", "", true)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := numbering.NewDocumentTemplate("INV", "X-{SEQ:4}", "", true)
	require.NoError(t, err)
	assert.Error(t, repo.Save(ctx, second))
}
