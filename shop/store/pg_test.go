package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockPG(t *testing.T) (*PG, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPG(sqlx.NewDb(db, "postgres")), mock
}

// Removing the last units must be a DELETE, never an UPDATE to zero: the
// cart table carries CHECK (quantity > 0), so an UPDATE landing on zero
// aborts the transaction and the line would survive the removal.
func TestPGReduceCartLineToZeroDeletes(t *testing.T) {
	pg, mock := setupMockPG(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM cart
		  WHERE user_id = $1 AND item_id = $2 AND quantity <= $3`)).
		WithArgs(int64(1), int64(7), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, pg.ReduceCartLine(context.Background(), 1, 7, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGReduceCartLinePartialUpdates(t *testing.T) {
	pg, mock := setupMockPG(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM cart
		  WHERE user_id = $1 AND item_id = $2 AND quantity <= $3`)).
		WithArgs(int64(1), int64(7), 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE cart SET quantity = quantity - $3
		  WHERE user_id = $1 AND item_id = $2`)).
		WithArgs(int64(1), int64(7), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, pg.ReduceCartLine(context.Background(), 1, 7, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGFinalizePaymentDuplicateKeepsCart(t *testing.T) {
	pg, mock := setupMockPG(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO payments (user_id, payment_ref, amount, currency)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, payment_ref) DO NOTHING`)).
		WithArgs(int64(9), "charge-1", int64(100), "XTR").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	recorded, err := pg.FinalizePayment(context.Background(), 9, "charge-1", 100, "XTR")
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
