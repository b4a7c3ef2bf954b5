package finance

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// SettlementService applies the deductions a completed payroll run actually
// withheld back onto the outstanding loan and advance balances. It runs from
// the run-completed consumer, after the run itself has been committed.
//
//go:generate mockgen -source=settlement_service.go -destination=mock/settlement_service_mock.go -package=mock
type SettlementService interface {
	SettleRun(ctx context.Context, companyID, runID string) error
}

type settlementService struct {
	db   *sql.DB
	repo Repository
}

func NewSettlementService(db *sql.DB, repo Repository) SettlementService {
	return &settlementService{db: db, repo: repo}
}

// SettleRun decrements each withheld installment exactly once per run. The
// ledger row and the balance decrement commit together, so a redelivered
// message finds the ledger row and skips the pair.
func (s *settlementService) SettleRun(ctx context.Context, companyID, runID string) error {
	rows, err := s.repo.ListRunDeductionComponents(ctx, companyID, runID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	applied, skipped := 0, 0
	for _, row := range rows {
		if row.Amount <= 0 {
			continue
		}

		inserted, err := qtx.TrySettle(ctx, companyID, runID, row.SourceID, row.Amount)
		if err != nil {
			return err
		}
		if !inserted {
			skipped++
			continue
		}

		if err := qtx.DecrementRemaining(ctx, companyID, row.SourceID, row.Amount); err != nil {
			zap.L().Error("finance settlement failed",
				zap.String("company_id", companyID),
				zap.String("run_id", runID),
				zap.String("record_id", row.SourceID),
				zap.Error(err),
			)
			return err
		}
		applied++
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	zap.L().Info("finance settlement applied",
		zap.String("company_id", companyID),
		zap.String("run_id", runID),
		zap.Int("applied", applied),
		zap.Int("skipped", skipped),
	)
	return nil
}
