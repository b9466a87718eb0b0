package cvService

import (
	"context"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/cv"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// DownloadFilename turns a CV title into a file name safe for Content-Disposition.
func DownloadFilename(title string) string {
	name := nonWord.ReplaceAllString(strings.TrimSpace(title), "")
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		name = "cv"
	}
	return name + ".pdf"
}

func (s *cvService) makeResponse(ctx context.Context, item entity.CV) cv.CVResponse {
	return cv.CVResponse{
		ID:        item.ID,
		Title:     item.Title,
		FilePath:  item.FilePath,
		IsActive:  item.IsActive,
		Size:      item.Size,
		PublicURL: s.fileURL(ctx, item),
		CreatedAt: item.CreatedAt,
	}
}

// fileURL leaves the link empty when a private object cannot be signed; the
// row itself is still worth returning.
func (s *cvService) fileURL(ctx context.Context, item entity.CV) string {
	if s.presignTTL <= 0 {
		return s.storage.PublicURL(s.bucket, item.FilePath)
	}

	link, err := s.storage.PresignURL(ctx, s.bucket, item.FilePath, s.presignTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"cv_id":      item.ID,
			"error":      err.Error(),
		}).Warn("Failed to sign cv link")
		return ""
	}
	return link
}
