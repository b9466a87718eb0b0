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

type BlogDB struct {
	ID            sql.NullString `db:"id"`
	Title         sql.NullString `db:"title"`
	Slug          sql.NullString `db:"slug"`
	Content       sql.NullString `db:"content"`
	CategoryID    sql.NullString `db:"category_id"`
	CoverImage    sql.NullString `db:"cover_image"`
	Status        sql.NullString `db:"status"`
	PublishedAt   sql.NullTime   `db:"published_at"`
	ReadTime      sql.NullString `db:"read_time"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	CategoryTitle sql.NullString `db:"category_title"`
	CategorySlug  sql.NullString `db:"category_slug"`
}

func blogArgs(blog entity.Blog) map[string]interface{} {
	var publishedAt interface{}
	if blog.PublishedAt != nil {
		publishedAt = blog.PublishedAt.UTC()
	}

	return map[string]interface{}{
		"id":           blog.ID,
		"title":        blog.Title,
		"slug":         blog.Slug,
		"content":      blog.Content,
		"category_id":  blog.CategoryID,
		"cover_image":  blog.CoverImage,
		"status":       string(blog.Status),
		"published_at": publishedAt,
		"read_time":    blog.ReadTime,
		"created_at":   blog.CreatedAt.UTC(),
		"updated_at":   blog.UpdatedAt.UTC(),
	}
}

func (r *blogsRepository) CreateBlog(ctx context.Context, blog entity.Blog) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateBlog, blogArgs(blog))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateBlog")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		return r.mapWriteErr(requestID, err, "CreateBlog")
	}

	return nil
}

func (r *blogsRepository) GetBlogByID(ctx context.Context, id string) (BlogRow, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var blog BlogDB

	query, args, err := sqlx.Named(queryGetBlogByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBlogByID named query preparation err")
		return BlogRow{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&blog); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetBlogByID no rows found")
			return BlogRow{}, blogs.ErrBlogNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBlogByID execution err")
		return BlogRow{}, err
	}

	return makeBlog(blog), nil
}

func (r *blogsRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.count(ctx, querySlugExists, map[string]interface{}{"slug": slug}, "SlugExists")
	return n > 0, err
}

func (r *blogsRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return r.count(ctx, queryCountBlogsByCategory, map[string]interface{}{"category_id": categoryID}, "CountByCategory")
}

func (r *blogsRepository) count(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) (int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var total int

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return 0, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return 0, err
	}

	return total, nil
}

func (r *blogsRepository) GetBlogs(ctx context.Context, filter BlogFilter, limit, offset int) ([]BlogRow, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	filterKV := map[string]interface{}{
		"category_id": filter.CategoryID,
		"status":      string(filter.Status),
	}

	total, err := r.count(ctx, queryCountBlogs, filterKV, "CountBlogs")
	if err != nil {
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"category_id": filter.CategoryID,
		"status":      string(filter.Status),
		"limit":       limit,
		"offset":      offset,
	}

	query, args, err := sqlx.Named(queryGetBlogs, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBlogs named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var rows []BlogDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBlogs execution err")
		return nil, 0, err
	}

	result := make([]BlogRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, makeBlog(row))
	}

	return result, total, nil
}

func (r *blogsRepository) UpdateBlog(ctx context.Context, blog entity.Blog) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryUpdateBlog, blogArgs(blog))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateBlog named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return r.mapWriteErr(requestID, err, "UpdateBlog")
	}

	return expectOneRow(result, blogs.ErrBlogNotFound)
}

func (r *blogsRepository) DeleteBlog(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteBlog, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteBlog named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteBlog execution err")
		return err
	}

	return expectOneRow(result, blogs.ErrBlogNotFound)
}

func (r *blogsRepository) mapWriteErr(requestID string, err error, op string) error {
	switch {
	case postgres.IsUniqueViolation(err):
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn(op + " slug conflict")
		return blogs.ErrSlugAlreadyExists
	case postgres.IsForeignKeyViolation(err):
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn(op + " unknown category")
		return blogs.ErrCategoryNotFound
	}

	r.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"error":      err.Error(),
	}).Error(op + " execution err")
	return err
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func makeBlog(b BlogDB) BlogRow {
	blog := entity.Blog{
		ID:         b.ID.String,
		Title:      b.Title.String,
		Slug:       b.Slug.String,
		Content:    b.Content.String,
		CategoryID: b.CategoryID.String,
		CoverImage: b.CoverImage.String,
		Status:     entity.BlogStatus(b.Status.String),
		ReadTime:   b.ReadTime.String,
		CreatedAt:  b.CreatedAt.UTC(),
		UpdatedAt:  b.UpdatedAt.UTC(),
	}
	if b.PublishedAt.Valid {
		t := b.PublishedAt.Time.UTC()
		blog.PublishedAt = &t
	}

	return BlogRow{
		Blog:          blog,
		CategoryTitle: b.CategoryTitle.String,
		CategorySlug:  b.CategorySlug.String,
	}
}
