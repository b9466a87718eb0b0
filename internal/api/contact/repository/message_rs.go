package contactRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"portfolio/internal/api/contact"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
)

type MessageDB struct {
	ID        sql.NullString `db:"id"`
	Name      sql.NullString `db:"name"`
	Email     sql.NullString `db:"email"`
	Subject   sql.NullString `db:"subject"`
	Message   sql.NullString `db:"message"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *messageRepository) Create(ctx context.Context, msg entity.ContactMessage) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         msg.ID,
		"name":       msg.Name,
		"email":      msg.Email,
		"subject":    msg.Subject,
		"message":    msg.Message,
		"created_at": msg.CreatedAt.UTC(),
	}

	query, args, err := sqlx.Named(queryCreateMessage, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for Create")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when storing contact message")
		return err
	}

	return nil
}

func (r *messageRepository) GetAll(ctx context.Context) ([]entity.ContactMessage, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []MessageDB

	if err := r.q.SelectContext(ctx, &rows, queryGetAllMessages); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAll execution err")
		return nil, err
	}

	messages := make([]entity.ContactMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, makeMessage(row))
	}

	return messages, nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (entity.ContactMessage, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row MessageDB

	query, args, err := sqlx.Named(queryGetMessageByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.ContactMessage{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ContactMessage{}, contact.ErrMessageNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.ContactMessage{}, err
	}

	return makeMessage(row), nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteMessage, map[string]interface{}{"id": id})
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

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return contact.ErrMessageNotFound
	}

	return nil
}

func makeMessage(row MessageDB) entity.ContactMessage {
	return entity.ContactMessage{
		ID:        row.ID.String,
		Name:      row.Name.String,
		Email:     row.Email.String,
		Subject:   row.Subject.String,
		Message:   row.Message.String,
		CreatedAt: row.CreatedAt.UTC(),
	}
}
