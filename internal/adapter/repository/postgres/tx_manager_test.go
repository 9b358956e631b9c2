package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/homeledger/internal/domain"
)

func connectionLost() error {
	return &pgconn.PgError{Code: "08006", Message: "connection failure"}
}

func TestTxManager_BeginAndCommit(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectCommit()

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tx)

	require.NoError(t, tx.Commit(context.Background()))

	assertExpectations(t, mockPool)
}

func TestTxManager_BeginErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{name: "connection lost", err: connectionLost(), unavailable: true},
		{name: "deadline", err: context.DeadlineExceeded, unavailable: true},
		{name: "other", err: errors.New("begin failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPool := newMockPool(t)
			mockPool.ExpectBegin().WillReturnError(tt.err)

			tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
			assert.Nil(t, tx)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.unavailable, errors.Is(err, domain.ErrStoreUnavailable))

			assertExpectations(t, mockPool)
		})
	}
}

func TestTx_CommitMapsConnectionLoss(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectCommit().WillReturnError(connectionLost())

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	require.NoError(t, err)

	err = tx.Commit(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "08006", pgErr.Code)

	assertExpectations(t, mockPool)
}

func TestTx_Rollback(t *testing.T) {
	rollbackErr := errors.New("rollback failed")

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "open transaction"},
		{name: "already closed", err: pgx.ErrTxClosed},
		{name: "driver failure", err: rollbackErr, wantErr: rollbackErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPool := newMockPool(t)
			mockPool.ExpectBegin()
			if tt.err != nil {
				mockPool.ExpectRollback().WillReturnError(tt.err)
			} else {
				mockPool.ExpectRollback()
			}

			tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
			require.NoError(t, err)

			err = tx.Rollback(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assertExpectations(t, mockPool)
		})
	}
}

func TestTxQueries(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	require.NoError(t, err)

	q, err := txQueries(tx)
	require.NoError(t, err)
	assert.NotNil(t, q)

	_, err = txQueries(foreignTx{})
	assert.ErrorIs(t, err, errForeignTx)

	_, err = txQueries(nil)
	assert.ErrorIs(t, err, errForeignTx)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	assert.NoError(t, pool.ExpectationsWereMet())
}
