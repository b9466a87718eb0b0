package blogRepository

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
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Blogs:      &blogsRepository{q: sqlExecutor, log: r.log},
		Categories: &categoriesRepository{q: sqlExecutor, log: r.log},
		Commit:     commitFunc,
		Rollback:   rollbackFunc,
	}, nil
}

// BlogFilter narrows a listing; empty fields match everything.
type BlogFilter struct {
	CategoryID string
	Status     entity.BlogStatus
}

// BlogRow is a post together with the category it is filed under.
type BlogRow struct {
	entity.Blog
	CategoryTitle string
	CategorySlug  string
}

type Client struct {
	Blogs interface {
		CreateBlog(ctx context.Context, blog entity.Blog) error
		GetBlogByID(ctx context.Context, id string) (BlogRow, error)
		SlugExists(ctx context.Context, slug string) (bool, error)
		GetBlogs(ctx context.Context, filter BlogFilter, limit, offset int) ([]BlogRow, int, error)
		CountByCategory(ctx context.Context, categoryID string) (int, error)
		UpdateBlog(ctx context.Context, blog entity.Blog) error
		DeleteBlog(ctx context.Context, id string) error
	}

	Categories interface {
		CreateCategory(ctx context.Context, category entity.BlogCategory) error
		GetAllCategories(ctx context.Context) ([]entity.BlogCategory, error)
		GetCategoryByID(ctx context.Context, id string) (entity.BlogCategory, error)
		GetCategoryBySlug(ctx context.Context, slug string) (entity.BlogCategory, error)
		DeleteCategory(ctx context.Context, id string) error
	}

	Commit   func() error
	Rollback func() error
}

type blogsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type categoriesRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
