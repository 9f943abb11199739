package repository

import (
	"context"
	"errors"
	"testing"

	custom_error "assetdesk/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransactionCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.WithTransaction(context.Background(), func(tx *goqu.TxDatabase) error {
		_, err := tx.Update("assets").
			Set(goqu.Record{"status": "Available"}).
			Where(goqu.Ex{"id": 1}).
			Executor().
			ExecContext(context.Background())
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	failure := errors.New("history insert rejected")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = repo.WithTransaction(context.Background(), func(tx *goqu.TxDatabase) error {
		return failure
	})

	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionBeginFailureIsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	refused := errors.New("connection refused")

	mock.ExpectBegin().WillReturnError(refused)

	called := false
	err = repo.WithTransaction(context.Background(), func(tx *goqu.TxDatabase) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, custom_error.IsStorage(err))
	assert.ErrorIs(t, err, refused)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionCommitFailureIsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	serialization := errors.New("could not serialize access")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(serialization)

	err = repo.WithTransaction(context.Background(), func(tx *goqu.TxDatabase) error {
		return nil
	})

	assert.True(t, custom_error.IsStorage(err))
	assert.ErrorIs(t, err, serialization)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = repo.WithTransaction(context.Background(), func(tx *goqu.TxDatabase) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerierPrefersTransaction(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	assert.Equal(t, repo.GoquDBWrapper, repo.Querier(nil))
}

func TestBuildConditionsSkipsEmptyFilters(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddCondition("status", "In Use")
	qb.AddCondition("type", "")
	qb.AddCondition("employee_id", int64(0))
	qb.AddCondition("asset_id", int64(4))

	conditions := qb.BuildConditions(map[string]string{"status": "a.status"})

	assert.Equal(t, goqu.Ex{"a.status": "In Use", "asset_id": int64(4)}, conditions)
}
