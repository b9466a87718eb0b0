package blogHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	blogsService "portfolio/internal/api/blog/service"
	"portfolio/internal/middleware"
)

type BlogsHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	blogsService blogsService.IBlogsService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	bs blogsService.IBlogsService,
) *BlogsHandler {
	return &BlogsHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		blogsService: bs,
	}
}

func (h *BlogsHandler) Start(srv fiber.Router) {
	// public pages only ever see published posts
	srv.Get("/categories", h.middleware.NewRateLimiter, h.GetAllCategories)
	srv.Get("/categories/:slug", h.middleware.NewRateLimiter, h.GetCategoryBySlug)
	srv.Get("/blogs", h.middleware.NewRateLimiter, h.GetPublishedBlogs)
	srv.Get("/blogs/:id", h.middleware.NewRateLimiter, h.GetPublishedBlogByID)

	admin := srv.Group("/admin")
	admin.Get("/categories", h.middleware.NewTokenMiddleware, h.GetAllCategories)
	admin.Post("/categories", h.middleware.NewTokenMiddleware, h.CreateCategory)
	admin.Delete("/categories/:id", h.middleware.NewTokenMiddleware, h.DeleteCategory)

	admin.Get("/blogs", h.middleware.NewTokenMiddleware, h.GetAllBlogs)
	admin.Get("/blogs/:id", h.middleware.NewTokenMiddleware, h.GetBlogByID)
	admin.Post("/blogs", h.middleware.NewTokenMiddleware, h.CreateBlog)
	admin.Put("/blogs/:id", h.middleware.NewTokenMiddleware, h.UpdateBlog)
	admin.Delete("/blogs/:id", h.middleware.NewTokenMiddleware, h.DeleteBlog)
}
