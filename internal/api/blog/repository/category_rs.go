package blogRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"portfolio/database/postgres"
	"portfolio/internal/api/blog"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
)

type CategoryDB struct {
	ID           sql.NullString `db:"id"`
	Title        sql.NullString `db:"title"`
	Slug         sql.NullString `db:"slug"`
	Description  sql.NullString `db:"description"`
	ThumbnailURL sql.NullString `db:"thumbnail_url"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r *categoriesRepository) CreateCategory(ctx context.Context, category entity.BlogCategory) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":            category.ID,
		"title":         category.Title,
		"slug":          category.Slug,
		"description":   category.Description,
		"thumbnail_url": category.ThumbnailURL,
		"created_at":    category.CreatedAt.UTC(),
	}

	query, args, err := sqlx.Named(queryCreateCategory, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCategory")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"slug":       category.Slug,
			}).Warn("Category slug already exists")
			return blogs.ErrSlugAlreadyExists
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating category")
		return err
	}

	return nil
}

func (r *categoriesRepository) GetAllCategories(ctx context.Context) ([]entity.BlogCategory, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []CategoryDB

	if err := r.q.SelectContext(ctx, &rows, queryGetAllCategories); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllCategories execution err")
		return nil, err
	}

	categories := make([]entity.BlogCategory, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, makeCategory(row))
	}

	return categories, nil
}

func (r *categoriesRepository) GetCategoryByID(ctx context.Context, id string) (entity.BlogCategory, error) {
	return r.getOne(ctx, queryGetCategoryByID, map[string]interface{}{"id": id}, "GetCategoryByID")
}

func (r *categoriesRepository) GetCategoryBySlug(ctx context.Context, slug string) (entity.BlogCategory, error) {
	return r.getOne(ctx, queryGetCategoryBySlug, map[string]interface{}{"slug": slug}, "GetCategoryBySlug")
}

func (r *categoriesRepository) getOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) (entity.BlogCategory, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var category CategoryDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.BlogCategory{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.BlogCategory{}, blogs.ErrCategoryNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return entity.BlogCategory{}, err
	}

	return makeCategory(category), nil
}

func (r *categoriesRepository) DeleteCategory(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteCategory, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCategory named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return blogs.ErrCategoryInUse
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCategory execution err")
		return err
	}

	return expectOneRow(result, blogs.ErrCategoryNotFound)
}

func makeCategory(c CategoryDB) entity.BlogCategory {
	return entity.BlogCategory{
		ID:           c.ID.String,
		Title:        c.Title.String,
		Slug:         c.Slug.String,
		Description:  c.Description.String,
		ThumbnailURL: c.ThumbnailURL.String,
		CreatedAt:    c.CreatedAt.UTC(),
	}
}
