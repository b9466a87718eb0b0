package blogs

import (
	"net/http"

	"portfolio/pkg/response"
)

var (
	ErrBlogNotFound      = response.NewError(http.StatusNotFound, "blog not found")
	ErrCategoryNotFound  = response.NewError(http.StatusNotFound, "blog category not found")
	ErrSlugAlreadyExists = response.NewError(http.StatusConflict, "slug already exists")
	ErrCategoryInUse     = response.NewError(http.StatusConflict, "category still has blog posts")
	ErrInvalidSlug       = response.NewError(http.StatusBadRequest, "title must contain at least one letter or digit")
	ErrInvalidStatus     = response.NewError(http.StatusBadRequest, "status must be published or draft")
	ErrEmptyContent      = response.NewError(http.StatusBadRequest, "content is empty after sanitizing")
	ErrThumbnailRequired = response.NewError(http.StatusBadRequest, "thumbnail image is required")
	ErrCreateBlog        = response.NewError(http.StatusInternalServerError, "failed to create blog")
	ErrUpdateBlog        = response.NewError(http.StatusInternalServerError, "failed to update blog")
	ErrDeleteBlog        = response.NewError(http.StatusInternalServerError, "failed to delete blog")
	ErrCreateCategory    = response.NewError(http.StatusInternalServerError, "failed to create category")
	ErrDeleteCategory    = response.NewError(http.StatusInternalServerError, "failed to delete category")
)
