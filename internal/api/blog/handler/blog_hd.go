package blogHandler

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/api/blog"
	contextPkg "portfolio/pkg/context"
	"portfolio/pkg/handlerUtil"
	"portfolio/pkg/log"
)

func (h *BlogsHandler) CreateBlog(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create blog request")

	req := blogs.CreateBlogRequest{
		Title:      strings.TrimSpace(ctx.FormValue("title")),
		Content:    ctx.FormValue("content"),
		CategoryID: strings.TrimSpace(ctx.FormValue("category_id")),
		Slug:       strings.TrimSpace(ctx.FormValue("slug")),
		Status:     strings.TrimSpace(ctx.FormValue("status")),
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	// Ignore error - image is optional
	image, _ := ctx.FormFile("image")

	res, err := h.blogsService.CreateBlog(c, req, image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_blog")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}

func (h *BlogsHandler) GetBlogByID(ctx *fiber.Ctx) error {
	return h.getBlogByID(ctx, false)
}

func (h *BlogsHandler) GetPublishedBlogByID(ctx *fiber.Ctx) error {
	return h.getBlogByID(ctx, true)
}

func (h *BlogsHandler) getBlogByID(ctx *fiber.Ctx, publishedOnly bool) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.blogsService.GetBlogByID(c, ctx.Params("id"), publishedOnly)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_blog_by_id")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *BlogsHandler) GetAllBlogs(ctx *fiber.Ctx) error {
	return h.getBlogs(ctx, false)
}

func (h *BlogsHandler) GetPublishedBlogs(ctx *fiber.Ctx) error {
	return h.getBlogs(ctx, true)
}

func (h *BlogsHandler) getBlogs(ctx *fiber.Ctx, publishedOnly bool) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	req := blogs.ListBlogsRequest{
		CategoryID:    ctx.Query("category_id"),
		Page:          ctx.QueryInt("page", 1),
		Limit:         ctx.QueryInt("limit", 10),
		PublishedOnly: publishedOnly,
	}

	res, err := h.blogsService.GetBlogs(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_blogs")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *BlogsHandler) UpdateBlog(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	req := blogs.UpdateBlogRequest{
		Title:      strings.TrimSpace(ctx.FormValue("title")),
		Content:    ctx.FormValue("content"),
		CategoryID: strings.TrimSpace(ctx.FormValue("category_id")),
		Status:     strings.TrimSpace(ctx.FormValue("status")),
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	image, _ := ctx.FormFile("image")

	res, err := h.blogsService.UpdateBlog(c, ctx.Params("id"), req, image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_blog")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *BlogsHandler) DeleteBlog(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.blogsService.DeleteBlog(c, ctx.Params("id")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_blog")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
	}
}
