package authRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"portfolio/database/postgres"
	"portfolio/internal/api/auth"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
)

type AdminDB struct {
	ID           sql.NullString `db:"id"`
	Email        sql.NullString `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
	CreatedAt    sql.NullTime   `db:"created_at"`
	UpdatedAt    sql.NullTime   `db:"updated_at"`
}

func (r *adminRepository) CreateAdmin(c context.Context, admin entity.Admin) error {
	requestID := contextPkg.GetRequestID(c)
	now := time.Now().UTC()
	argsKV := map[string]interface{}{
		"id":            admin.ID,
		"email":         admin.Email,
		"password_hash": admin.PasswordHash,
		"created_at":    now,
		"updated_at":    now,
	}

	query, args, err := sqlx.Named(queryCreateAdmin, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateAdmin")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Admin email already exists")
			return auth.ErrEmailAlreadyExists
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating admin")
		return err
	}

	return nil
}

func (r *adminRepository) GetByEmail(c context.Context, email string) (entity.Admin, error) {
	return r.getOne(c, queryGetAdminByEmail, map[string]interface{}{"email": email}, "GetByEmail")
}

func (r *adminRepository) getOne(c context.Context, namedQuery string, argsKV map[string]interface{}, op string) (entity.Admin, error) {
	requestID := contextPkg.GetRequestID(c)
	var admin AdminDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.Admin{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&admin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Debug(op + " no rows found")
			return entity.Admin{}, auth.ErrAdminNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return entity.Admin{}, err
	}

	return makeAdmin(admin), nil
}

func makeAdmin(a AdminDB) entity.Admin {
	return entity.Admin{
		ID:           a.ID.String,
		Email:        a.Email.String,
		PasswordHash: a.PasswordHash.String,
		CreatedAt:    a.CreatedAt.Time,
		UpdatedAt:    a.UpdatedAt.Time,
	}
}
