package cvService

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/api/cv"
	cvRepository "portfolio/internal/api/cv/repository"
	"portfolio/internal/testsupport"
	"portfolio/pkg/upload"
	"portfolio/pkg/utils"
)

const bucket = "cv-files"

type fixture struct {
	svc     ICVService
	storage *testsupport.Storage
	db      *sqlx.DB
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()

	db := testsupport.NewDB(t)
	storage := testsupport.NewStorage()
	log := testsupport.Logger()

	return fixture{
		svc:     New(log, cvRepository.New(db, log), storage, upload.New(storage, log), bucket, utils.New(), opts...),
		storage: storage,
		db:      db,
	}
}

func (f fixture) upload(t *testing.T, title string) cv.CVResponse {
	t.Helper()

	res, err := f.svc.Upload(context.Background(), cv.UploadCVRequest{Title: title},
		testsupport.FileHeader(t, "My CV.pdf", "application/pdf", testsupport.PDF))
	require.NoError(t, err)
	return res
}

func (f fixture) activeIDs(t *testing.T) []string {
	t.Helper()

	list, err := f.svc.GetAll(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, item := range list.CVs {
		if item.IsActive {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func TestUpload(t *testing.T) {
	f := newFixture(t)

	res := f.upload(t, "Resume 2025")
	assert.False(t, res.IsActive)
	assert.Equal(t, int64(len(testsupport.PDF)), res.Size)
	assert.Regexp(t, `^cv_\d+_My_CV\.pdf$`, res.FilePath)
	assert.Equal(t, f.storage.PublicURL(bucket, res.FilePath), res.PublicURL)
	assert.True(t, f.storage.Has(bucket, res.FilePath))
}

func TestUploadRejectsBeforeStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		upload func(t *testing.T) error
		want   error
	}{
		{
			name: "twelve megabyte pdf",
			upload: func(t *testing.T) error {
				big := testsupport.Sized(testsupport.PDF, 12*1024*1024)
				_, err := f.svc.Upload(ctx, cv.UploadCVRequest{Title: "Big"}, testsupport.FileHeader(t, "big.pdf", "application/pdf", big))
				return err
			},
			want: upload.ErrFileTooLarge,
		},
		{
			name: "image posing as pdf",
			upload: func(t *testing.T) error {
				_, err := f.svc.Upload(ctx, cv.UploadCVRequest{Title: "Png"}, testsupport.FileHeader(t, "cv.pdf", "application/pdf", testsupport.PNG))
				return err
			},
			want: upload.ErrInvalidFileType,
		},
		{
			name: "missing file",
			upload: func(t *testing.T) error {
				_, err := f.svc.Upload(ctx, cv.UploadCVRequest{Title: "None"}, nil)
				return err
			},
			want: upload.ErrNoFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.upload(t), tt.want)
		})
	}

	assert.Zero(t, f.storage.Calls("upload"))

	list, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.CVs)
}

func TestUploadRemovesFileWhenInsertFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.db.Exec(`CREATE TRIGGER reject_cvs BEFORE INSERT ON cvs
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	_, err = f.svc.Upload(context.Background(), cv.UploadCVRequest{Title: "Doomed"},
		testsupport.FileHeader(t, "cv.pdf", "application/pdf", testsupport.PDF))
	assert.ErrorIs(t, err, cv.ErrCreateCV)
	assert.Equal(t, 1, f.storage.Calls("upload"))
	assert.Zero(t, f.storage.Len())
}

func TestSetActiveKeepsExactlyOneActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.upload(t, "A")
	b := f.upload(t, "B")
	c := f.upload(t, "C")
	assert.Empty(t, f.activeIDs(t))

	for _, id := range []string{a.ID, b.ID, c.ID, b.ID} {
		res, err := f.svc.SetActive(ctx, id)
		require.NoError(t, err)
		assert.True(t, res.IsActive)
		assert.Equal(t, []string{id}, f.activeIDs(t))
	}

	res, err := f.svc.SetActive(ctx, b.ID)
	require.NoError(t, err, "activating the active cv is a no-op")
	assert.Equal(t, b.ID, res.ID)
	assert.Equal(t, []string{b.ID}, f.activeIDs(t))

	_, err = f.svc.SetActive(ctx, "missing")
	assert.ErrorIs(t, err, cv.ErrCVNotFound)
	assert.Equal(t, []string{b.ID}, f.activeIDs(t))

	active, err := f.svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.upload(t, "A")
	b := f.upload(t, "B")
	_, err := f.svc.SetActive(ctx, a.ID)
	require.NoError(t, err)

	t.Run("non-active leaves the flag alone", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, b.ID))
		assert.False(t, f.storage.Has(bucket, b.FilePath))
		assert.Equal(t, []string{a.ID}, f.activeIDs(t))
	})

	t.Run("active leaves none active", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, a.ID))
		assert.Empty(t, f.activeIDs(t))

		_, err := f.svc.GetActive(ctx)
		assert.ErrorIs(t, err, cv.ErrNoActiveCV)
	})

	t.Run("missing row", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Delete(ctx, a.ID), cv.ErrCVNotFound)
	})
}

func TestDeleteToleratesStorageErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gone := f.upload(t, "Gone")
	require.NoError(t, f.storage.Delete(ctx, bucket, gone.FilePath))
	require.NoError(t, f.svc.Delete(ctx, gone.ID))

	stuck := f.upload(t, "Stuck")
	f.storage.DeleteErr = testsupport.ErrStorageDown
	require.NoError(t, f.svc.Delete(ctx, stuck.ID))

	list, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.CVs)
}

func TestDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := f.upload(t, "Jane Doe - CV (2025)!")

	name, body, err := f.svc.Download(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane_Doe_CV_2025.pdf", name)
	assert.Equal(t, testsupport.PDF, body)

	require.NoError(t, f.storage.Delete(ctx, bucket, item.FilePath))
	_, _, err = f.svc.Download(ctx, item.ID)
	assert.ErrorIs(t, err, cv.ErrCVFileNotFound)
}

func TestViewURL(t *testing.T) {
	ctx := context.Background()

	t.Run("public bucket", func(t *testing.T) {
		f := newFixture(t)
		item := f.upload(t, "Resume")

		link, err := f.svc.ViewURL(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, f.storage.PublicURL(bucket, item.FilePath), link)
		assert.Zero(t, f.storage.Calls("presign"))
	})

	t.Run("private bucket", func(t *testing.T) {
		f := newFixture(t, WithPresignedLinks(15*time.Minute))
		item := f.upload(t, "Resume")
		assert.Equal(t, f.storage.PublicURL(bucket, item.FilePath)+"?expires=15m0s", item.PublicURL)

		link, err := f.svc.ViewURL(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.PublicURL, link)

		require.NoError(t, f.storage.Delete(ctx, bucket, item.FilePath))
		_, err = f.svc.ViewURL(ctx, item.ID)
		assert.ErrorIs(t, err, cv.ErrCVFileNotFound)

		list, err := f.svc.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, list.CVs, 1)
		assert.Empty(t, list.CVs[0].PublicURL)
	})

	t.Run("missing row", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ViewURL(ctx, "nope")
		assert.ErrorIs(t, err, cv.ErrCVNotFound)
	})
}

func TestDownloadFilename(t *testing.T) {
	assert.Equal(t, "My_CV.pdf", DownloadFilename("My CV"))
	assert.Equal(t, "cv.pdf", DownloadFilename("!!!"))
	assert.Equal(t, "a_b.pdf", DownloadFilename("  a \t b  "))
}
