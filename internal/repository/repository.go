package repository

import (
	"context"
	"database/sql"

	custom_error "assetdesk/pkg/errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

// Querier is satisfied by both *goqu.Database and *goqu.TxDatabase.
type Querier interface {
	From(from ...interface{}) *goqu.SelectDataset
	Select(cols ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

// Transactor runs fn inside a single store transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error
}

// Querier returns tx when a transaction is in progress, the pooled database otherwise.
func (r *Repository) Querier(tx *goqu.TxDatabase) Querier {
	if tx != nil {
		return tx
	}
	return r.GoquDBWrapper
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
	return WithTransaction(ctx, r.GoquDBWrapper, fn)
}

func WithTransaction(ctx context.Context, db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return custom_error.NewStorage("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = custom_error.NewStorage("commit transaction", commitErr)
		}
	}()

	err = fn(tx)
	return
}
