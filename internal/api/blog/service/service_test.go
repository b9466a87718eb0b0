package blogService

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/api/blog"
	blogsRepository "portfolio/internal/api/blog/repository"
	"portfolio/internal/testsupport"
	"portfolio/pkg/upload"
	"portfolio/pkg/utils"
)

const bucket = "blog-images"

type fixture struct {
	svc     IBlogsService
	storage *testsupport.Storage
	db      *sqlx.DB
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := testsupport.NewDB(t)
	storage := testsupport.NewStorage()
	log := testsupport.Logger()

	return fixture{
		svc:     NewBlogsService(log, blogsRepository.New(db, log), upload.New(storage, log), bucket, utils.New()),
		storage: storage,
		db:      db,
	}
}

func (f fixture) category(t *testing.T, title string) blogs.CategoryResponse {
	t.Helper()

	res, err := f.svc.CreateCategory(context.Background(), blogs.CreateCategoryRequest{
		Title:       title,
		Description: "about " + title,
	}, testsupport.FileHeader(t, "thumb.png", "image/png", testsupport.PNG))
	require.NoError(t, err)
	return res
}

func (f fixture) blog(t *testing.T, req blogs.CreateBlogRequest) blogs.BlogResponse {
	t.Helper()

	res, err := f.svc.CreateBlog(context.Background(), req, nil)
	require.NoError(t, err)
	return res
}

func TestCreateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.category(t, "Web Dev & Design!")
	assert.Equal(t, "web-dev-design", res.Slug)
	assert.NotEmpty(t, res.ID)

	key, ok := f.storage.KeyFromURL(bucket, res.ThumbnailURL)
	require.True(t, ok)
	assert.Regexp(t, `^category-\d+-thumb\.png$`, key)
	assert.True(t, f.storage.Has(bucket, key))

	t.Run("taken slug is rejected before upload", func(t *testing.T) {
		uploads := f.storage.Calls("upload")
		_, err := f.svc.CreateCategory(ctx, blogs.CreateCategoryRequest{
			Title:       "web dev design",
			Description: "dup",
		}, testsupport.FileHeader(t, "thumb.png", "image/png", testsupport.PNG))
		assert.ErrorIs(t, err, blogs.ErrSlugAlreadyExists)
		assert.Equal(t, uploads, f.storage.Calls("upload"))
	})

	t.Run("thumbnail is required", func(t *testing.T) {
		_, err := f.svc.CreateCategory(ctx, blogs.CreateCategoryRequest{Title: "Other", Description: "x"}, nil)
		assert.ErrorIs(t, err, blogs.ErrThumbnailRequired)
	})

	t.Run("title without letters or digits", func(t *testing.T) {
		_, err := f.svc.CreateCategory(ctx, blogs.CreateCategoryRequest{Title: "!!!", Description: "x"},
			testsupport.FileHeader(t, "thumb.png", "image/png", testsupport.PNG))
		assert.ErrorIs(t, err, blogs.ErrInvalidSlug)
	})

	t.Run("non-image thumbnail", func(t *testing.T) {
		_, err := f.svc.CreateCategory(ctx, blogs.CreateCategoryRequest{Title: "Docs", Description: "x"},
			testsupport.FileHeader(t, "thumb.pdf", "application/pdf", testsupport.PDF))
		assert.ErrorIs(t, err, upload.ErrInvalidFileType)
	})
}

func TestCreateCategoryRemovesThumbnailWhenInsertFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.db.Exec(`CREATE TRIGGER reject_categories BEFORE INSERT ON blog_categories
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	_, err = f.svc.CreateCategory(context.Background(), blogs.CreateCategoryRequest{
		Title:       "Embedded",
		Description: "firmware notes",
	}, testsupport.FileHeader(t, "thumb.png", "image/png", testsupport.PNG))
	assert.ErrorIs(t, err, blogs.ErrCreateCategory)

	assert.Equal(t, 1, f.storage.Calls("upload"))
	assert.Equal(t, 1, f.storage.Calls("delete"))
	assert.Zero(t, f.storage.Len())
}

func TestGetAllCategoriesNewestFirst(t *testing.T) {
	f := newFixture(t)

	empty, err := f.svc.GetAllCategories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty.Categories)
	assert.Empty(t, empty.Categories)

	f.category(t, "First")
	f.category(t, "Second")

	res, err := f.svc.GetAllCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Categories, 2)
	assert.Equal(t, "second", res.Categories[0].Slug)
	assert.Equal(t, "first", res.Categories[1].Slug)
}

func TestDeleteCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.category(t, "IoT")
	post := f.blog(t, blogs.CreateBlogRequest{Title: "MQTT basics", Content: "<p>hello</p>", CategoryID: category.ID})

	err := f.svc.DeleteCategory(ctx, category.ID)
	assert.ErrorIs(t, err, blogs.ErrCategoryInUse)

	require.NoError(t, f.svc.DeleteBlog(ctx, post.ID))
	require.NoError(t, f.svc.DeleteCategory(ctx, category.ID))

	key, _ := f.storage.KeyFromURL(bucket, category.ThumbnailURL)
	assert.False(t, f.storage.Has(bucket, key))

	err = f.svc.DeleteCategory(ctx, category.ID)
	assert.ErrorIs(t, err, blogs.ErrCategoryNotFound)
}

func TestCreateBlog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Robotics")

	res := f.blog(t, blogs.CreateBlogRequest{
		Title:      "Building a Line Follower",
		Content:    `<p>` + words(250) + `</p><script>alert("x")</script>`,
		CategoryID: category.ID,
	})

	assert.Equal(t, "building-a-line-follower", res.Slug)
	assert.Equal(t, "published", res.Status)
	assert.NotNil(t, res.PublishedAt)
	assert.Equal(t, "2 min read", res.ReadTime)
	assert.NotContains(t, res.Content, "script")
	require.NotNil(t, res.Category)
	assert.Equal(t, "robotics", res.Category.Slug)
	assert.Empty(t, res.CoverImage)

	t.Run("slug collision", func(t *testing.T) {
		_, err := f.svc.CreateBlog(ctx, blogs.CreateBlogRequest{
			Title:      "Something else",
			Slug:       "Building a line follower",
			Content:    "<p>x</p>",
			CategoryID: category.ID,
		}, nil)
		assert.ErrorIs(t, err, blogs.ErrSlugAlreadyExists)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.svc.CreateBlog(ctx, blogs.CreateBlogRequest{
			Title:      "Orphan",
			Content:    "<p>x</p>",
			CategoryID: "missing",
		}, nil)
		assert.ErrorIs(t, err, blogs.ErrCategoryNotFound)
	})

	t.Run("draft with cover", func(t *testing.T) {
		draft, err := f.svc.CreateBlog(ctx, blogs.CreateBlogRequest{
			Title:      "Work in progress",
			Content:    "<p>soon</p>",
			CategoryID: category.ID,
			Status:     "draft",
		}, testsupport.FileHeader(t, "my cover.png", "image/png", testsupport.PNG))
		require.NoError(t, err)

		assert.Equal(t, "draft", draft.Status)
		assert.Nil(t, draft.PublishedAt)

		key, ok := f.storage.KeyFromURL(bucket, draft.CoverImage)
		require.True(t, ok)
		assert.Regexp(t, `^blogs/\d+-my_cover\.png$`, key)
	})
}

func TestPublicViewsHideDrafts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Notes")

	published := f.blog(t, blogs.CreateBlogRequest{Title: "Live", Content: "<p>a</p>", CategoryID: category.ID})
	draft := f.blog(t, blogs.CreateBlogRequest{Title: "Hidden", Content: "<p>b</p>", CategoryID: category.ID, Status: "draft"})

	_, err := f.svc.GetBlogByID(ctx, draft.ID, true)
	assert.ErrorIs(t, err, blogs.ErrBlogNotFound)

	got, err := f.svc.GetBlogByID(ctx, draft.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Hidden", got.Title)

	public, err := f.svc.GetBlogs(ctx, blogs.ListBlogsRequest{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, public.Blogs, 1)
	assert.Equal(t, published.ID, public.Blogs[0].ID)
	assert.Equal(t, 1, public.Total)

	all, err := f.svc.GetBlogs(ctx, blogs.ListBlogsRequest{})
	require.NoError(t, err)
	require.Len(t, all.Blogs, 2)
	assert.Equal(t, draft.ID, all.Blogs[0].ID, "newest first")

	page, err := f.svc.GetCategoryBySlug(ctx, "notes")
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, published.ID, page.Blogs[0].ID)

	_, err = f.svc.GetCategoryBySlug(ctx, "nope")
	assert.ErrorIs(t, err, blogs.ErrCategoryNotFound)
}

func TestGetBlogsPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.category(t, "Alpha")
	b := f.category(t, "Beta")

	for i := 0; i < 3; i++ {
		f.blog(t, blogs.CreateBlogRequest{Title: "alpha post " + string(rune('a'+i)), Content: "<p>x</p>", CategoryID: a.ID})
	}
	f.blog(t, blogs.CreateBlogRequest{Title: "beta post", Content: "<p>x</p>", CategoryID: b.ID})

	res, err := f.svc.GetBlogs(ctx, blogs.ListBlogsRequest{CategoryID: a.ID, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Page)
	require.Len(t, res.Blogs, 1)
	assert.Equal(t, "alpha-post-a", res.Blogs[0].Slug)
}

func TestUpdateBlog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.category(t, "First")
	second := f.category(t, "Second")

	created, err := f.svc.CreateBlog(ctx, blogs.CreateBlogRequest{
		Title:      "Original",
		Content:    "<p>short</p>",
		CategoryID: first.ID,
		Status:     "draft",
	}, testsupport.FileHeader(t, "old.png", "image/png", testsupport.PNG))
	require.NoError(t, err)
	oldKey, _ := f.storage.KeyFromURL(bucket, created.CoverImage)

	updated, err := f.svc.UpdateBlog(ctx, created.ID, blogs.UpdateBlogRequest{
		Title:      "Renamed",
		Content:    "<p>" + words(401) + "</p>",
		CategoryID: second.ID,
		Status:     "published",
	}, testsupport.FileHeader(t, "new.png", "image/png", testsupport.PNG))
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "original", updated.Slug, "slug is kept")
	assert.Equal(t, "3 min read", updated.ReadTime)
	assert.Equal(t, second.ID, updated.CategoryID)
	assert.Equal(t, "published", updated.Status)
	assert.NotNil(t, updated.PublishedAt)

	newKey, ok := f.storage.KeyFromURL(bucket, updated.CoverImage)
	require.True(t, ok)
	assert.True(t, f.storage.Has(bucket, newKey))
	assert.False(t, f.storage.Has(bucket, oldKey))

	t.Run("missing post", func(t *testing.T) {
		_, err := f.svc.UpdateBlog(ctx, "missing", blogs.UpdateBlogRequest{Title: "x", Content: "<p>x</p>"}, nil)
		assert.ErrorIs(t, err, blogs.ErrBlogNotFound)
	})

	t.Run("unknown category keeps post intact", func(t *testing.T) {
		_, err := f.svc.UpdateBlog(ctx, created.ID, blogs.UpdateBlogRequest{
			Title:      "Again",
			Content:    "<p>x</p>",
			CategoryID: "missing",
		}, nil)
		assert.ErrorIs(t, err, blogs.ErrCategoryNotFound)

		got, err := f.svc.GetBlogByID(ctx, created.ID, false)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
	})
}

func TestDeleteBlogRemovesCover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Misc")

	post, err := f.svc.CreateBlog(ctx, blogs.CreateBlogRequest{
		Title:      "Bye",
		Content:    "<p>x</p>",
		CategoryID: category.ID,
	}, testsupport.FileHeader(t, "cover.png", "image/png", testsupport.PNG))
	require.NoError(t, err)
	key, _ := f.storage.KeyFromURL(bucket, post.CoverImage)

	require.NoError(t, f.svc.DeleteBlog(ctx, post.ID))
	assert.False(t, f.storage.Has(bucket, key))

	assert.ErrorIs(t, f.svc.DeleteBlog(ctx, post.ID), blogs.ErrBlogNotFound)
}
