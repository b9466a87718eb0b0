// Package upload moves user-supplied files into object storage.
//
// Every file is checked against a Policy before a single byte reaches storage,
// and Attach pairs the upload with the database write that references it so a
// failed write never leaves an orphaned object behind.
package upload

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"regexp"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"portfolio/pkg/response"
	"portfolio/pkg/s3"
)

const (
	MaxImageSize int64 = 5 * 1024 * 1024
	MaxPDFSize   int64 = 10 * 1024 * 1024
)

var (
	ErrNoFile          = response.NewError(400, "file is required")
	ErrFileTooLarge    = response.NewError(400, "file too large")
	ErrInvalidFileType = response.NewError(400, "invalid file type")
	ErrUploadFailed    = response.NewError(500, "failed to upload file")
)

type Kind string

const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
)

// rasterImages excludes image/svg+xml, which can carry script when served from a public bucket.
var rasterImages = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

func (k Kind) accepts(contentType string) bool {
	switch k {
	case KindImage:
		return rasterImages[contentType]
	case KindPDF:
		return contentType == "application/pdf"
	}
	return false
}

type Policy struct {
	Bucket  string
	MaxSize int64
	Kind    Kind
	Key     func(name string, now time.Time) string
}

var unsafeName = regexp.MustCompile(`[^\w.-]`)

// SafeName replaces every character outside [A-Za-z0-9_.-] with an underscore.
func SafeName(name string) string {
	return unsafeName.ReplaceAllString(name, "_")
}

func CategoryThumbnail(bucket string) Policy {
	return Policy{
		Bucket:  bucket,
		MaxSize: MaxImageSize,
		Kind:    KindImage,
		Key: func(name string, now time.Time) string {
			return fmt.Sprintf("category-%d-%s", now.UnixMilli(), SafeName(name))
		},
	}
}

func BlogCover(bucket string) Policy {
	return Policy{
		Bucket:  bucket,
		MaxSize: MaxImageSize,
		Kind:    KindImage,
		Key: func(name string, now time.Time) string {
			return fmt.Sprintf("blogs/%d-%s", now.UnixMilli(), SafeName(name))
		},
	}
}

func CVDocument(bucket string) Policy {
	return Policy{
		Bucket:  bucket,
		MaxSize: MaxPDFSize,
		Kind:    KindPDF,
		Key: func(name string, now time.Time) string {
			return fmt.Sprintf("cv_%d_%s", now.UnixMilli(), SafeName(name))
		},
	}
}

type Asset struct {
	Bucket      string
	Key         string
	URL         string
	Size        int64
	ContentType string
}

type Uploader struct {
	storage s3.ItfS3
	log     *logrus.Logger
	now     func() time.Time
}

func New(storage s3.ItfS3, log *logrus.Logger) *Uploader {
	return &Uploader{
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// Validate checks presence, size, declared type and sniffed content. It returns
// the sniffed content type on success.
func (u *Uploader) Validate(file *multipart.FileHeader, p Policy) (string, error) {
	if file == nil || file.Size == 0 {
		return "", ErrNoFile
	}

	if file.Size > p.MaxSize {
		return "", ErrFileTooLarge
	}

	declared, _, err := mime.ParseMediaType(file.Header.Get("Content-Type"))
	if err != nil || !p.Kind.accepts(declared) {
		return "", ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}

	sniffed, _, _ := mime.ParseMediaType(detected.String())
	if !p.Kind.accepts(sniffed) {
		return "", ErrInvalidFileType
	}

	return sniffed, nil
}

func (u *Uploader) Upload(ctx context.Context, file *multipart.FileHeader, p Policy) (Asset, error) {
	contentType, err := u.Validate(file, p)
	if err != nil {
		return Asset{}, err
	}

	src, err := file.Open()
	if err != nil {
		return Asset{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := p.Key(file.Filename, u.now())

	if err := u.storage.Upload(ctx, p.Bucket, key, contentType, src); err != nil {
		u.log.WithFields(logrus.Fields{
			"bucket": p.Bucket,
			"key":    key,
			"error":  err.Error(),
		}).Error("Upload to storage failed")
		return Asset{}, ErrUploadFailed
	}

	return Asset{
		Bucket:      p.Bucket,
		Key:         key,
		URL:         u.storage.PublicURL(p.Bucket, key),
		Size:        file.Size,
		ContentType: contentType,
	}, nil
}

// Attach uploads file and hands the stored asset to persist. When persist fails
// the object is removed again and persist's error is returned.
func (u *Uploader) Attach(ctx context.Context, file *multipart.FileHeader, p Policy, persist func(Asset) error) (Asset, error) {
	asset, err := u.Upload(ctx, file, p)
	if err != nil {
		return Asset{}, err
	}

	if err := persist(asset); err != nil {
		u.Discard(ctx, asset)
		return Asset{}, err
	}

	return asset, nil
}

// Discard removes a stored asset, logging instead of failing.
func (u *Uploader) Discard(ctx context.Context, asset Asset) {
	if asset.Key == "" {
		return
	}

	// the request context may already be cancelled when compensation runs
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := u.storage.Delete(cctx, asset.Bucket, asset.Key); err != nil {
		u.log.WithFields(logrus.Fields{
			"bucket": asset.Bucket,
			"key":    asset.Key,
			"error":  err.Error(),
		}).Warn("Failed to remove stored object")
	}
}

// AssetFromURL rebuilds the asset reference of a previously stored public URL.
func (u *Uploader) AssetFromURL(bucket, publicURL string) (Asset, bool) {
	key, ok := u.storage.KeyFromURL(bucket, publicURL)
	if !ok {
		return Asset{}, false
	}
	return Asset{Bucket: bucket, Key: key, URL: publicURL}, true
}
