package contactHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	contactService "portfolio/internal/api/contact/service"
	"portfolio/internal/middleware"
)

type ContactHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	contactService contactService.IContactService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs contactService.IContactService,
) *ContactHandler {
	return &ContactHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		contactService: cs,
	}
}

func (h *ContactHandler) Start(srv fiber.Router) {
	srv.Post("/contact", h.middleware.NewStrictRateLimiter, h.Submit)

	messages := srv.Group("/admin/messages")
	messages.Get("", h.middleware.NewTokenMiddleware, h.List)
	messages.Get("/export", h.middleware.NewTokenMiddleware, h.Export)
	messages.Get("/:id", h.middleware.NewTokenMiddleware, h.GetByID)
	messages.Delete("/:id", h.middleware.NewTokenMiddleware, h.Delete)
}
