package cvRepository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"portfolio/internal/entity"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var q SQLExecutor
	var commitFunc, rollbackFunc func() error

	q = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		q = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		CVs:      &cvRepository{q: q, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	CVs interface {
		CreateCV(ctx context.Context, cv entity.CV) error
		GetAll(ctx context.Context) ([]entity.CV, error)
		GetByID(ctx context.Context, id string) (entity.CV, error)
		GetActive(ctx context.Context) (entity.CV, error)
		DeactivateAll(ctx context.Context) error
		Activate(ctx context.Context, id string) error
		Delete(ctx context.Context, id string) error
	}

	Commit   func() error
	Rollback func() error
}

type cvRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
