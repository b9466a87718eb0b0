package blogHandler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/api/blog"
	blogsRepository "portfolio/internal/api/blog/repository"
	blogsService "portfolio/internal/api/blog/service"
	"portfolio/internal/testsupport"
	"portfolio/pkg/upload"
	"portfolio/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type env struct {
	do   func(method, path string, body *strings.Reader, contentType, auth string) testsupport.Response
	auth string
	t    *testing.T
}

func setup(t *testing.T) env {
	t.Helper()

	db := testsupport.NewDB(t)
	log := testsupport.Logger()
	sessions := testsupport.NewRedis()

	app, api, mw := testsupport.NewApp(t, sessions)
	svc := blogsService.NewBlogsService(log, blogsRepository.New(db, log), upload.New(testsupport.NewStorage(), log), "blog-images", utils.New())
	New(log, validator.New(), mw, svc).Start(api)

	return env{
		t:    t,
		auth: testsupport.SignIn(t, sessions),
		do: func(method, path string, body *strings.Reader, contentType, auth string) testsupport.Response {
			if body == nil {
				return testsupport.Do(t, app, method, path, nil, contentType, auth)
			}
			return testsupport.Do(t, app, method, path, body, contentType, auth)
		},
	}
}

func (e env) multipart(method, path string, fields map[string]string, files map[string]testsupport.File, auth string) testsupport.Response {
	body, boundary := testsupport.MultipartBody(e.t, fields, files)
	return e.do(method, path, strings.NewReader(body.String()), "multipart/form-data; boundary="+boundary, auth)
}

func thumbnail() map[string]testsupport.File {
	return map[string]testsupport.File{"image": {Name: "thumb.png", ContentType: "image/png", Content: testsupport.PNG}}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	e := setup(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/admin/blogs"},
		{http.MethodPost, "/api/v1/admin/blogs"},
		{http.MethodPut, "/api/v1/admin/blogs/x"},
		{http.MethodDelete, "/api/v1/admin/blogs/x"},
		{http.MethodPost, "/api/v1/admin/categories"},
		{http.MethodDelete, "/api/v1/admin/categories/x"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			resp := e.do(r.method, r.path, nil, "", "")
			assert.Equal(t, http.StatusUnauthorized, resp.Status)

			resp = e.do(r.method, r.path, nil, "", "Bearer not-a-token")
			assert.Equal(t, http.StatusUnauthorized, resp.Status)
		})
	}
}

func TestCategoryAndPostFlow(t *testing.T) {
	e := setup(t)

	resp := e.do(http.MethodGet, "/api/v1/categories", nil, "", "")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"categories":[]}`, string(resp.Body))

	resp = e.multipart(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"title":       "Web Dev & Design!",
		"description": "front end notes",
	}, thumbnail(), e.auth)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var category blogs.CategoryResponse
	require.NoError(t, json.Unmarshal(resp.Body, &category))
	assert.Equal(t, "web-dev-design", category.Slug)

	resp = e.multipart(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"title":       "Web dev design",
		"description": "again",
	}, thumbnail(), e.auth)
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = e.multipart(http.MethodPost, "/api/v1/admin/blogs", map[string]string{
		"title":       "Hello World",
		"content":     "<p>first post</p>",
		"category_id": category.ID,
	}, nil, e.auth)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var post blogs.BlogResponse
	require.NoError(t, json.Unmarshal(resp.Body, &post))
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "1 min read", post.ReadTime)

	resp = e.multipart(http.MethodPost, "/api/v1/admin/blogs", map[string]string{
		"title":       "Secret",
		"content":     "<p>draft</p>",
		"category_id": category.ID,
		"status":      "draft",
	}, nil, e.auth)
	require.Equal(t, http.StatusCreated, resp.Status)

	var draft blogs.BlogResponse
	require.NoError(t, json.Unmarshal(resp.Body, &draft))

	resp = e.do(http.MethodGet, "/api/v1/blogs/"+draft.ID, nil, "", "")
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = e.do(http.MethodGet, "/api/v1/admin/blogs/"+draft.ID, nil, "", e.auth)
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = e.do(http.MethodGet, "/api/v1/categories/web-dev-design", nil, "", "")
	require.Equal(t, http.StatusOK, resp.Status)
	var detail blogs.CategoryDetailResponse
	require.NoError(t, json.Unmarshal(resp.Body, &detail))
	require.Len(t, detail.Blogs, 1)
	assert.Equal(t, post.ID, detail.Blogs[0].ID)

	resp = e.do(http.MethodGet, "/api/v1/admin/blogs?limit=1", nil, "", e.auth)
	require.Equal(t, http.StatusOK, resp.Status)
	var list blogs.BlogListResponse
	require.NoError(t, json.Unmarshal(resp.Body, &list))
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Blogs, 1)

	resp = e.do(http.MethodDelete, "/api/v1/admin/categories/"+category.ID, nil, "", e.auth)
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = e.multipart(http.MethodPut, "/api/v1/admin/blogs/"+draft.ID, map[string]string{
		"title":   "Secret no more",
		"content": "<p>out now</p>",
		"status":  "published",
	}, nil, e.auth)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))

	resp = e.do(http.MethodGet, "/api/v1/blogs/"+draft.ID, nil, "", "")
	assert.Equal(t, http.StatusOK, resp.Status)

	for _, id := range []string{post.ID, draft.ID} {
		resp = e.do(http.MethodDelete, "/api/v1/admin/blogs/"+id, nil, "", e.auth)
		assert.Equal(t, http.StatusNoContent, resp.Status)
	}

	resp = e.do(http.MethodDelete, "/api/v1/admin/categories/"+category.ID, nil, "", e.auth)
	assert.Equal(t, http.StatusNoContent, resp.Status)
}

func TestCreateValidation(t *testing.T) {
	e := setup(t)

	resp := e.multipart(http.MethodPost, "/api/v1/admin/categories", map[string]string{"title": "Only title"}, thumbnail(), e.auth)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = e.multipart(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"title":       "No image",
		"description": "x",
	}, nil, e.auth)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = e.multipart(http.MethodPost, "/api/v1/admin/blogs", map[string]string{
		"title":       "Bad status",
		"content":     "<p>x</p>",
		"category_id": "c",
		"status":      "archived",
	}, nil, e.auth)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = e.multipart(http.MethodPost, "/api/v1/admin/blogs", map[string]string{
		"title":       "No category",
		"content":     "<p>x</p>",
		"category_id": "missing",
	}, nil, e.auth)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
