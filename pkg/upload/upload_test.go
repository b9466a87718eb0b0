package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/testsupport"
)

func newUploader(storage *testsupport.Storage) *Uploader {
	u := New(storage, testsupport.Logger())
	u.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return u
}

func TestPolicyKeys(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	assert.Equal(t, "category-1700000000000-thumb.png", CategoryThumbnail("b").Key("thumb.png", now))
	assert.Equal(t, "blogs/1700000000000-cover.jpg", BlogCover("b").Key("cover.jpg", now))
	assert.Equal(t, "cv_1700000000000_My_CV__2024_.pdf", CVDocument("b").Key("My CV (2024).pdf", now))
}

func TestValidateRejectsBeforeStorage(t *testing.T) {
	storage := testsupport.NewStorage()
	u := newUploader(storage)

	big := testsupport.FileHeader(t, "cv.pdf", "application/pdf", testsupport.Sized(testsupport.PDF, 12*1024*1024))
	_, err := u.Upload(context.Background(), big, CVDocument("cv-files"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	wrongDeclared := testsupport.FileHeader(t, "cv.pdf", "text/plain", testsupport.PDF)
	_, err = u.Upload(context.Background(), wrongDeclared, CVDocument("cv-files"))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	spoofed := testsupport.FileHeader(t, "cv.pdf", "application/pdf", []byte("MZ this is not a pdf at all"))
	_, err = u.Upload(context.Background(), spoofed, CVDocument("cv-files"))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	pdfAsImage := testsupport.FileHeader(t, "cover.png", "image/png", testsupport.PDF)
	_, err = u.Upload(context.Background(), pdfAsImage, BlogCover("blog-images"))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	bigImage := testsupport.FileHeader(t, "cover.png", "image/png", testsupport.Sized(testsupport.PNG, 6*1024*1024))
	_, err = u.Upload(context.Background(), bigImage, BlogCover("blog-images"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	svg := testsupport.FileHeader(t, "logo.svg", "image/svg+xml",
		[]byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`))
	_, err = u.Upload(context.Background(), svg, CategoryThumbnail("blog-images"))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	svgAsPNG := testsupport.FileHeader(t, "logo.png", "image/png",
		[]byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`))
	_, err = u.Upload(context.Background(), svgAsPNG, BlogCover("blog-images"))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = u.Upload(context.Background(), nil, BlogCover("blog-images"))
	assert.ErrorIs(t, err, ErrNoFile)

	assert.Zero(t, storage.Calls("upload"))
	assert.Zero(t, storage.Len())
}

func TestUploadStoresObject(t *testing.T) {
	storage := testsupport.NewStorage()
	u := newUploader(storage)

	file := testsupport.FileHeader(t, "cv.pdf", "application/pdf", testsupport.PDF)
	asset, err := u.Upload(context.Background(), file, CVDocument("cv-files"))
	require.NoError(t, err)

	assert.Equal(t, "cv-files", asset.Bucket)
	assert.Equal(t, "cv_1700000000000_cv.pdf", asset.Key)
	assert.Equal(t, "application/pdf", asset.ContentType)
	assert.Equal(t, int64(len(testsupport.PDF)), asset.Size)
	assert.Equal(t, storage.PublicURL("cv-files", asset.Key), asset.URL)

	obj, ok := storage.Get("cv-files", asset.Key)
	require.True(t, ok)
	assert.Equal(t, testsupport.PDF, obj.Body)
}

func TestUploadStorageFailure(t *testing.T) {
	storage := testsupport.NewStorage()
	storage.UploadErr = testsupport.ErrStorageDown
	u := newUploader(storage)

	file := testsupport.FileHeader(t, "a.png", "image/png", testsupport.PNG)
	_, err := u.Upload(context.Background(), file, CategoryThumbnail("blog-images"))
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestAttachCompensatesOnPersistFailure(t *testing.T) {
	storage := testsupport.NewStorage()
	u := newUploader(storage)
	persistErr := errors.New("insert failed")

	file := testsupport.FileHeader(t, "a.png", "image/png", testsupport.PNG)
	var seen Asset
	_, err := u.Attach(context.Background(), file, CategoryThumbnail("blog-images"), func(a Asset) error {
		seen = a
		assert.True(t, storage.Has(a.Bucket, a.Key))
		return persistErr
	})

	assert.ErrorIs(t, err, persistErr)
	assert.False(t, storage.Has(seen.Bucket, seen.Key))
	assert.Equal(t, 1, storage.Calls("delete"))
}

func TestAttachCompensationFailureKeepsOriginalError(t *testing.T) {
	storage := testsupport.NewStorage()
	u := newUploader(storage)
	persistErr := errors.New("insert failed")

	file := testsupport.FileHeader(t, "a.png", "image/png", testsupport.PNG)
	_, err := u.Attach(context.Background(), file, CategoryThumbnail("blog-images"), func(Asset) error {
		storage.DeleteErr = testsupport.ErrStorageDown
		return persistErr
	})

	assert.ErrorIs(t, err, persistErr)
}

func TestAttachKeepsObjectOnSuccess(t *testing.T) {
	storage := testsupport.NewStorage()
	u := newUploader(storage)

	file := testsupport.FileHeader(t, "a.png", "image/png", testsupport.PNG)
	asset, err := u.Attach(context.Background(), file, BlogCover("blog-images"), func(Asset) error { return nil })
	require.NoError(t, err)
	assert.True(t, storage.Has(asset.Bucket, asset.Key))

	back, ok := u.AssetFromURL("blog-images", asset.URL)
	require.True(t, ok)
	assert.Equal(t, asset.Key, back.Key)
}
