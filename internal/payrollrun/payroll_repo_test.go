package payrollrun_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-payroll/internal/payrollrun"
)

func newGormOverMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	return gdb, mock
}

// A repository bound to a service transaction must issue its writes on that
// transaction's connection, never on the gorm pool, so a rollback discards
// every run-level write with it.
func TestRepository_WithTxWritesOnTheTransaction(t *testing.T) {
	gdb, poolMock := newGormOverMock(t)

	txDB, txMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { txDB.Close() })

	txMock.ExpectBegin()
	txMock.ExpectExec(`UPDATE "payroll_runs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectCommit()

	tx, err := txDB.Begin()
	require.NoError(t, err)

	repo := payrollrun.NewRepository(gdb)
	run := &payrollrun.PayrollRun{ID: uuid.New(), RunStatus: payrollrun.RunStatusCalculating}
	require.NoError(t, repo.WithTx(tx).UpdateRun(context.Background(), run))
	require.NoError(t, tx.Commit())

	require.NoError(t, txMock.ExpectationsWereMet())
	// The pool connection never sees the write.
	require.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_WithTxRollbackDropsTheWrite(t *testing.T) {
	gdb, poolMock := newGormOverMock(t)

	txDB, txMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { txDB.Close() })

	txMock.ExpectBegin()
	txMock.ExpectExec(`UPDATE "payroll_runs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectRollback()

	tx, err := txDB.Begin()
	require.NoError(t, err)

	repo := payrollrun.NewRepository(gdb)
	run := &payrollrun.PayrollRun{ID: uuid.New(), RunStatus: payrollrun.RunStatusCalculating}
	require.NoError(t, repo.WithTx(tx).UpdateRun(context.Background(), run))
	require.NoError(t, tx.Rollback())

	require.NoError(t, txMock.ExpectationsWereMet())
	require.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_WithoutTxUsesThePool(t *testing.T) {
	gdb, poolMock := newGormOverMock(t)

	poolMock.ExpectBegin()
	poolMock.ExpectExec(`UPDATE "payroll_runs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	poolMock.ExpectCommit()

	repo := payrollrun.NewRepository(gdb)
	run := &payrollrun.PayrollRun{ID: uuid.New(), RunStatus: payrollrun.RunStatusDraft}
	require.NoError(t, repo.UpdateRun(context.Background(), run))

	require.NoError(t, poolMock.ExpectationsWereMet())
}
