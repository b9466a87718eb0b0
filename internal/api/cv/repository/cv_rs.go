package cvRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"portfolio/database/postgres"
	"portfolio/internal/api/cv"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
)

type CVDB struct {
	ID        sql.NullString `db:"id"`
	Title     sql.NullString `db:"title"`
	FilePath  sql.NullString `db:"file_path"`
	IsActive  sql.NullBool   `db:"is_active"`
	Size      sql.NullInt64  `db:"size"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *cvRepository) CreateCV(ctx context.Context, item entity.CV) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         item.ID,
		"title":      item.Title,
		"file_path":  item.FilePath,
		"is_active":  item.IsActive,
		"size":       item.Size,
		"created_at": item.CreatedAt.UTC(),
	}

	query, args, err := sqlx.Named(queryCreateCV, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCV")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating cv")
		return err
	}

	return nil
}

func (r *cvRepository) GetAll(ctx context.Context) ([]entity.CV, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []CVDB

	if err := r.q.SelectContext(ctx, &rows, queryGetAllCVs); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAll execution err")
		return nil, err
	}

	result := make([]entity.CV, 0, len(rows))
	for _, row := range rows {
		result = append(result, makeCV(row))
	}

	return result, nil
}

func (r *cvRepository) GetByID(ctx context.Context, id string) (entity.CV, error) {
	return r.getOne(ctx, queryGetCVByID, map[string]interface{}{"id": id}, cv.ErrCVNotFound, "GetByID")
}

func (r *cvRepository) GetActive(ctx context.Context) (entity.CV, error) {
	return r.getOne(ctx, queryGetActiveCV, map[string]interface{}{}, cv.ErrNoActiveCV, "GetActive")
}

func (r *cvRepository) getOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, notFound error, op string) (entity.CV, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row CVDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.CV{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.CV{}, notFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return entity.CV{}, err
	}

	return makeCV(row), nil
}

func (r *cvRepository) DeactivateAll(ctx context.Context) error {
	requestID := contextPkg.GetRequestID(ctx)

	if _, err := r.q.ExecContext(ctx, queryDeactivateAll); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeactivateAll execution err")
		return err
	}

	return nil
}

// Activate fails with ErrActivationConflict when another row is still active,
// which only happens when a concurrent activation committed first.
func (r *cvRepository) Activate(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryActivateCV, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Activate named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("Concurrent cv activation")
			return cv.ErrActivationConflict
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Activate execution err")
		return err
	}

	return expectOneRow(result)
}

func (r *cvRepository) Delete(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteCV, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Delete named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Delete execution err")
		return err
	}

	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return cv.ErrCVNotFound
	}
	return nil
}

func makeCV(row CVDB) entity.CV {
	return entity.CV{
		ID:        row.ID.String,
		Title:     row.Title.String,
		FilePath:  row.FilePath.String,
		IsActive:  row.IsActive.Bool,
		Size:      row.Size.Int64,
		CreatedAt: row.CreatedAt.UTC(),
	}
}
