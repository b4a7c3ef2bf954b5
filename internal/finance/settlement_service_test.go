package finance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-payroll/internal/finance"
)

type fakeFinanceRepository struct {
	finance.Repository

	listFn func(ctx context.Context, companyID, runID string) ([]finance.RunDeductionComponent, error)

	settled     map[string]bool
	decremented []struct {
		recordID string
		amount   float64
	}
	decrementErr error
}

func (f *fakeFinanceRepository) WithTx(tx *sql.Tx) finance.Repository { return f }

func (f *fakeFinanceRepository) ListRunDeductionComponents(ctx context.Context, companyID, runID string) ([]finance.RunDeductionComponent, error) {
	return f.listFn(ctx, companyID, runID)
}

func (f *fakeFinanceRepository) TrySettle(ctx context.Context, companyID, runID, recordID string, amount float64) (bool, error) {
	if f.settled == nil {
		f.settled = map[string]bool{}
	}
	key := runID + "/" + recordID
	if f.settled[key] {
		return false, nil
	}
	f.settled[key] = true
	return true, nil
}

func (f *fakeFinanceRepository) DecrementRemaining(ctx context.Context, companyID, recordID string, amount float64) error {
	if f.decrementErr != nil {
		return f.decrementErr
	}
	f.decremented = append(f.decremented, struct {
		recordID string
		amount   float64
	}{recordID, amount})
	return nil
}

func newSettlementFixture(t *testing.T, repo *fakeFinanceRepository) (finance.SettlementService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return finance.NewSettlementService(db, repo), mock
}

func TestSettleRun_AppliesEachWithheldInstallment(t *testing.T) {
	repo := &fakeFinanceRepository{
		listFn: func(ctx context.Context, companyID, runID string) ([]finance.RunDeductionComponent, error) {
			return []finance.RunDeductionComponent{
				{SourceID: "loan-1", EmployeeID: "emp-1", Amount: 500},
				{SourceID: "adv-1", EmployeeID: "emp-2", Amount: 250},
				{SourceID: "loan-2", EmployeeID: "emp-2", Amount: 0},
			}, nil
		},
	}
	svc, mock := newSettlementFixture(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.SettleRun(context.Background(), "company-1", "run-1")

	assert.NoError(t, err)
	assert.Len(t, repo.decremented, 2)
	assert.Equal(t, "loan-1", repo.decremented[0].recordID)
	assert.Equal(t, 500.0, repo.decremented[0].amount)
	assert.Equal(t, "adv-1", repo.decremented[1].recordID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleRun_RedeliveryDecrementsNothingTwice(t *testing.T) {
	repo := &fakeFinanceRepository{
		listFn: func(ctx context.Context, companyID, runID string) ([]finance.RunDeductionComponent, error) {
			return []finance.RunDeductionComponent{
				{SourceID: "loan-1", EmployeeID: "emp-1", Amount: 500},
				{SourceID: "adv-1", EmployeeID: "emp-2", Amount: 250},
			}, nil
		},
	}
	svc, mock := newSettlementFixture(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.SettleRun(context.Background(), "company-1", "run-1"))

	// Same message delivered again: the ledger rows make the second pass a no-op.
	require.NoError(t, svc.SettleRun(context.Background(), "company-1", "run-1"))

	assert.Len(t, repo.decremented, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleRun_PropagatesRepoError(t *testing.T) {
	repo := &fakeFinanceRepository{
		listFn: func(ctx context.Context, companyID, runID string) ([]finance.RunDeductionComponent, error) {
			return []finance.RunDeductionComponent{{SourceID: "loan-1", Amount: 100}}, nil
		},
		decrementErr: errors.New("deadlock"),
	}
	svc, mock := newSettlementFixture(t, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.SettleRun(context.Background(), "company-1", "run-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodDeduction_CapsAtRemainingBalance(t *testing.T) {
	rec := finance.FinancialRecord{
		TotalAmount:     5000,
		DeductionAmount: 500,
		RemainingAmount: 300,
		EffectiveFrom:   time.Now(),
	}
	assert.Equal(t, 300.0, rec.PeriodDeduction())

	rec.RemainingAmount = 800
	assert.Equal(t, 500.0, rec.PeriodDeduction())

	rec.RemainingAmount = 0
	assert.Equal(t, 0.0, rec.PeriodDeduction())
}
