package cvService

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/cv"
	cvRepository "portfolio/internal/api/cv/repository"
	"portfolio/pkg/s3"
	"portfolio/pkg/upload"
	"portfolio/pkg/utils"
)

type ICVService interface {
	Upload(ctx context.Context, req cv.UploadCVRequest, file *multipart.FileHeader) (cv.CVResponse, error)
	GetAll(ctx context.Context) (cv.CVListResponse, error)
	GetByID(ctx context.Context, id string) (cv.CVResponse, error)
	GetActive(ctx context.Context) (cv.CVResponse, error)
	SetActive(ctx context.Context, id string) (cv.CVResponse, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (filename string, body []byte, err error)
	ViewURL(ctx context.Context, id string) (string, error)
}

type cvService struct {
	log      *logrus.Logger
	repo     cvRepository.Repository
	storage  s3.ItfS3
	uploader *upload.Uploader
	bucket   string
	utils    utils.IUtils

	// presignTTL > 0 means the bucket is private and links are signed.
	presignTTL time.Duration
}

type Option func(*cvService)

// WithPresignedLinks serves CV links as signed URLs valid for ttl instead of
// anonymous bucket URLs.
func WithPresignedLinks(ttl time.Duration) Option {
	return func(s *cvService) {
		s.presignTTL = ttl
	}
}

func New(
	log *logrus.Logger,
	repo cvRepository.Repository,
	storage s3.ItfS3,
	uploader *upload.Uploader,
	bucket string,
	utils utils.IUtils,
	opts ...Option,
) ICVService {
	s := &cvService{
		log:      log,
		repo:     repo,
		storage:  storage,
		uploader: uploader,
		bucket:   bucket,
		utils:    utils,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
