package amortization

import (
	"context"

	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/domain/procurement"
)

// TransactionScope provides transactional access to the repositories a
// recalculation reads and writes. Every operation run inside Execute is
// committed or rolled back as one unit.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories sharing one transaction
type TransactionalRepositories interface {
	// ScheduleRepo returns the schedule row repository scoped to the transaction
	ScheduleRepo() amortization.ScheduleRepository
	// TotalsReader returns the purchase totals reader scoped to the transaction
	TotalsReader() procurement.PurchaseTotalsReader
}

// NoOpTransactionScope runs the function against plain repositories without
// a transaction. It is meant for tests.
type NoOpTransactionScope struct {
	scheduleRepo amortization.ScheduleRepository
	totalsReader procurement.PurchaseTotalsReader
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	scheduleRepo amortization.ScheduleRepository,
	totalsReader procurement.PurchaseTotalsReader,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		scheduleRepo: scheduleRepo,
		totalsReader: totalsReader,
	}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ScheduleRepo returns the schedule repository
func (s *NoOpTransactionScope) ScheduleRepo() amortization.ScheduleRepository {
	return s.scheduleRepo
}

// TotalsReader returns the purchase totals reader
func (s *NoOpTransactionScope) TotalsReader() procurement.PurchaseTotalsReader {
	return s.totalsReader
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
