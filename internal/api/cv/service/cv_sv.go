package cvService

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/cv"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
	"portfolio/pkg/response"
	"portfolio/pkg/s3"
	"portfolio/pkg/upload"
)

func (s *cvService) Upload(ctx context.Context, req cv.UploadCVRequest, file *multipart.FileHeader) (cv.CVResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	// rejected files never reach storage
	if _, err := s.uploader.Validate(file, upload.CVDocument(s.bucket)); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("CV file rejected")
		return cv.CVResponse{}, err
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return cv.CVResponse{}, err
	}

	now := time.Now().UTC()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return cv.CVResponse{}, err
	}

	item := entity.CV{
		ID:        id,
		Title:     req.Title,
		CreatedAt: now,
	}

	_, err = s.uploader.Attach(ctx, file, upload.CVDocument(s.bucket), func(asset upload.Asset) error {
		item.FilePath = asset.Key
		item.Size = asset.Size
		return repo.CVs.CreateCV(ctx, item)
	})
	if err != nil {
		var respErr *response.Error
		if errors.As(err, &respErr) {
			return cv.CVResponse{}, err
		}
		return cv.CVResponse{}, cv.ErrCreateCV
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"cv_id":      item.ID,
		"size":       item.Size,
	}).Info("CV uploaded")

	return s.makeResponse(ctx, item), nil
}

func (s *cvService) GetAll(ctx context.Context) (cv.CVListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return cv.CVListResponse{}, err
	}

	items, err := repo.CVs.GetAll(ctx)
	if err != nil {
		return cv.CVListResponse{}, err
	}

	res := cv.CVListResponse{CVs: make([]cv.CVResponse, 0, len(items))}
	for _, item := range items {
		res.CVs = append(res.CVs, s.makeResponse(ctx, item))
	}

	return res, nil
}

func (s *cvService) GetByID(ctx context.Context, id string) (cv.CVResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return cv.CVResponse{}, err
	}

	item, err := repo.CVs.GetByID(ctx, id)
	if err != nil {
		return cv.CVResponse{}, err
	}

	return s.makeResponse(ctx, item), nil
}

func (s *cvService) GetActive(ctx context.Context) (cv.CVResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return cv.CVResponse{}, err
	}

	item, err := repo.CVs.GetActive(ctx)
	if err != nil {
		return cv.CVResponse{}, err
	}

	return s.makeResponse(ctx, item), nil
}

// SetActive makes id the only active CV. Deactivation and activation commit
// together, so readers never observe zero or two active rows.
func (s *cvService) SetActive(ctx context.Context, id string) (cv.CVResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return cv.CVResponse{}, err
	}
	defer repo.Rollback()

	item, err := repo.CVs.GetByID(ctx, id)
	if err != nil {
		return cv.CVResponse{}, err
	}

	if item.IsActive {
		return s.makeResponse(ctx, item), nil
	}

	if err := repo.CVs.DeactivateAll(ctx); err != nil {
		return cv.CVResponse{}, cv.ErrActivateCV
	}

	if err := repo.CVs.Activate(ctx, id); err != nil {
		if errors.Is(err, cv.ErrActivationConflict) || errors.Is(err, cv.ErrCVNotFound) {
			return cv.CVResponse{}, err
		}
		return cv.CVResponse{}, cv.ErrActivateCV
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return cv.CVResponse{}, cv.ErrActivateCV
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"cv_id":      id,
	}).Info("CV activated")

	item.IsActive = true
	return s.makeResponse(ctx, item), nil
}

// Delete removes the file first and the row second. Storage failures are logged
// and do not block the row removal.
func (s *cvService) Delete(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	item, err := repo.CVs.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, s.bucket, item.FilePath); err != nil {
		entry := s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"cv_id":      id,
			"key":        item.FilePath,
			"error":      err.Error(),
		})
		if errors.Is(err, s3.ErrObjectNotFound) {
			entry.Info("CV file already gone")
		} else {
			entry.Warn("Failed to remove cv file, deleting row anyway")
		}
	}

	if err := repo.CVs.Delete(ctx, id); err != nil {
		if errors.Is(err, cv.ErrCVNotFound) {
			return err
		}
		return cv.ErrDeleteCV
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"cv_id":      id,
		"was_active": item.IsActive,
	}).Info("CV deleted")

	return nil
}

func (s *cvService) Download(ctx context.Context, id string) (string, []byte, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return "", nil, err
	}

	item, err := repo.CVs.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	body, err := s.storage.Download(ctx, s.bucket, item.FilePath)
	if err != nil {
		if errors.Is(err, s3.ErrObjectNotFound) {
			return "", nil, cv.ErrCVFileNotFound
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"cv_id":      id,
			"error":      err.Error(),
		}).Error("Failed to download cv file")
		return "", nil, err
	}

	return DownloadFilename(item.Title), body, nil
}

// ViewURL returns a link the browser can open directly: a signed URL when the
// bucket is private, the anonymous bucket URL otherwise.
func (s *cvService) ViewURL(ctx context.Context, id string) (string, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return "", err
	}

	item, err := repo.CVs.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if s.presignTTL <= 0 {
		return s.storage.PublicURL(s.bucket, item.FilePath), nil
	}

	link, err := s.storage.PresignURL(ctx, s.bucket, item.FilePath, s.presignTTL)
	if err != nil {
		if errors.Is(err, s3.ErrObjectNotFound) {
			return "", cv.ErrCVFileNotFound
		}
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"cv_id":      id,
			"error":      err.Error(),
		}).Error("Failed to sign cv link")
		return "", err
	}

	return link, nil
}
