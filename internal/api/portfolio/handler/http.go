package portfolioHandler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"portfolio/internal/api/portfolio"
	portfolioService "portfolio/internal/api/portfolio/service"
	"portfolio/internal/middleware"
	"portfolio/pkg/handlerUtil"
)

type PortfolioHandler struct {
	log        *logrus.Logger
	middleware middleware.Middleware
	service    portfolioService.IPortfolioService
}

func New(log *logrus.Logger, middleware middleware.Middleware, ps portfolioService.IPortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		log:        log,
		middleware: middleware,
		service:    ps,
	}
}

func (h *PortfolioHandler) Start(srv fiber.Router) {
	srv.Get("/projects", h.middleware.NewRateLimiter, h.GetProjects)
	srv.Get("/projects/:id", h.middleware.NewRateLimiter, h.GetProjectByID)
	srv.Get("/skills", h.middleware.NewRateLimiter, h.GetSkills)
}

func (h *PortfolioHandler) GetProjects(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	filter := portfolio.ProjectFilter{Category: ctx.Query("category")}
	if raw := ctx.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return errHandler.HandleBadRequest(ctx, requestID, "featured must be true or false")
		}
		filter.Featured = &featured
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.service.GetProjects(filter))
}

func (h *PortfolioHandler) GetProjectByID(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	id, err := ctx.ParamsInt("id")
	if err != nil {
		return errHandler.Handle(ctx, requestID, portfolio.ErrProjectNotFound, ctx.Path(), "get_project")
	}

	project, err := h.service.GetProjectByID(id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_project")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, project)
}

func (h *PortfolioHandler) GetSkills(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	res, err := h.service.GetSkills(ctx.Query("kind"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_skills")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}
