package cvHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	cvService "portfolio/internal/api/cv/service"
	"portfolio/internal/middleware"
)

type CVHandler struct {
	log        *logrus.Logger
	validator  *validator.Validate
	middleware middleware.Middleware
	cvService  cvService.ICVService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs cvService.ICVService,
) *CVHandler {
	return &CVHandler{
		log:        log,
		validator:  validate,
		middleware: middleware,
		cvService:  cs,
	}
}

func (h *CVHandler) Start(srv fiber.Router) {
	srv.Get("/cv/active", h.middleware.NewRateLimiter, h.GetActive)

	cvs := srv.Group("/admin/cvs")
	cvs.Get("", h.middleware.NewTokenMiddleware, h.GetAll)
	cvs.Post("", h.middleware.NewTokenMiddleware, h.Upload)
	cvs.Put("/:id/active", h.middleware.NewTokenMiddleware, h.SetActive)
	cvs.Get("/:id/view", h.middleware.NewTokenMiddleware, h.View)
	cvs.Get("/:id/download", h.middleware.NewTokenMiddleware, h.Download)
	cvs.Delete("/:id", h.middleware.NewTokenMiddleware, h.Delete)
}
