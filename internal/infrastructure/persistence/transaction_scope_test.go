package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	appamort "github.com/erp/docengine/internal/application/amortization"
	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteTestDB(t)
	purchaseID := seedPurchase(t, db, decimalPtr(1000), nil)
	row := newScheduleRow(purchaseID, amortization.KindTerm, 1, 1)
	require.NoError(t, NewGormScheduleRepository(db).Create(ctx, row))

	boom := errors.New("boom")
	err := NewGormTransactionScope(db).Execute(ctx, func(repos appamort.TransactionalRepositories) error {
		if err := repos.ScheduleRepo().UpdateInvoiceAmount(ctx, row.ID, decimal.NewFromInt(999), "alice", time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := NewGormScheduleRepository(db).FindByPurchase(ctx, purchaseID, amortization.KindTerm)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].InvoiceAmount.IsZero())
	assert.Nil(t, rows[0].UpdatedBy)
}

func TestRecalculationService_WithGormTransactionScope(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteTestDB(t)
	repo := NewGormScheduleRepository(db)

	purchaseID := seedPurchase(t, db, decimalPtr(100000), nil)
	seedReceiptLine(t, db, purchaseID, 80000, true)

	invoice := "INV-001"
	paid := newScheduleRow(purchaseID, amortization.KindTerm, 1, 20)
	paid.InvoiceNumber = &invoice
	paid.InvoiceAmount = decimal.NewFromInt(20000)
	second := newScheduleRow(purchaseID, amortization.KindTerm, 2, 40)
	third := newScheduleRow(purchaseID, amortization.KindTerm, 3, 40)
	period := newScheduleRow(purchaseID, amortization.KindPeriod, 1, 0)
	require.NoError(t, repo.Create(ctx, paid, second, third, period))

	svc := appamort.NewRecalculationService(NewGormTransactionScope(db), nil, "")
	result, err := svc.Recalculate(ctx, purchaseID, "bob")
	require.NoError(t, err)
	assert.Equal(t, amortization.OutcomeApplied, result.Outcome)
	assert.True(t, result.RemainingToPay.Equal(decimal.NewFromInt(60000)))
	assert.Len(t, result.Updates, 3)

	terms, err := repo.FindByPurchase(ctx, purchaseID, amortization.KindTerm)
	require.NoError(t, err)
	require.Len(t, terms, 3)
	assert.True(t, terms[0].InvoiceAmount.Equal(decimal.NewFromInt(20000)), "paid row untouched")
	assert.Nil(t, terms[0].UpdatedBy)
	assert.True(t, terms[1].InvoiceAmount.Equal(decimal.NewFromInt(30000)), terms[1].InvoiceAmount.String())
	assert.True(t, terms[2].InvoiceAmount.Equal(decimal.NewFromInt(30000)), terms[2].InvoiceAmount.String())
	require.NotNil(t, terms[1].UpdatedBy)
	assert.Equal(t, "bob", *terms[1].UpdatedBy)

	periods, err := repo.FindByPurchase(ctx, purchaseID, amortization.KindPeriod)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, periods[0].InvoiceAmount.Equal(decimal.NewFromInt(80000)))

	// a second run is idempotent
	again, err := svc.Recalculate(ctx, purchaseID, "bob")
	require.NoError(t, err)
	for _, u := range again.Updates {
		assert.True(t, u.OldAmount.Equal(u.NewAmount), "row %d changed on rerun", u.Number)
	}
}

func TestRecalculationService_MissingPurchaseIsNoOp(t *testing.T) {
	db := setupSQLiteTestDB(t)
	svc := appamort.NewRecalculationService(NewGormTransactionScope(db), nil, "")

	result, err := svc.Recalculate(context.Background(), seedPurchase(t, db, nil, nil), "")
	require.NoError(t, err)
	assert.True(t, result.IsNoOp())
	assert.Equal(t, amortization.ReasonNonPositiveBaseAmount, result.Reason)
}
