package dashboardRepository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"portfolio/internal/api/dashboard"
	contextPkg "portfolio/pkg/context"
)

const (
	queryCounts = `
		SELECT
			(SELECT COUNT(*) FROM blogs) AS blogs,
			(SELECT COUNT(*) FROM blogs WHERE status = 'published') AS published_blogs,
			(SELECT COUNT(*) FROM blog_categories) AS categories,
			(SELECT COUNT(*) FROM cvs) AS cvs,
			(SELECT COUNT(*) FROM contact_messages) AS contact_messages
	`

	queryActiveCVTitle = `
		SELECT title
		FROM cvs
		WHERE is_active = TRUE
	`
)

type Repository interface {
	Counts(ctx context.Context) (dashboard.Counts, error)
	ActiveCVTitle(ctx context.Context) (string, error)
}

type repository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{db: db, log: log}
}

func (r *repository) Counts(ctx context.Context) (dashboard.Counts, error) {
	var counts dashboard.Counts

	if err := r.db.QueryRowxContext(ctx, queryCounts).StructScan(&counts); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Counts execution err")
		return dashboard.Counts{}, err
	}

	return counts, nil
}

// ActiveCVTitle returns an empty title when no CV is active.
func (r *repository) ActiveCVTitle(ctx context.Context) (string, error) {
	var title string

	err := r.db.QueryRowxContext(ctx, queryActiveCVTitle).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("ActiveCVTitle execution err")
		return "", err
	}

	return title, nil
}
