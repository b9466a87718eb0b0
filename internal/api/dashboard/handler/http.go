package dashboardHandler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	dashboardService "portfolio/internal/api/dashboard/service"
	"portfolio/internal/middleware"
	contextPkg "portfolio/pkg/context"
	"portfolio/pkg/handlerUtil"
)

type DashboardHandler struct {
	log        *logrus.Logger
	middleware middleware.Middleware
	service    dashboardService.IDashboardService
}

func New(log *logrus.Logger, middleware middleware.Middleware, ds dashboardService.IDashboardService) *DashboardHandler {
	return &DashboardHandler{
		log:        log,
		middleware: middleware,
		service:    ds,
	}
}

func (h *DashboardHandler) Start(srv fiber.Router) {
	srv.Get("/admin/dashboard", h.middleware.NewTokenMiddleware, h.GetDashboard)
}

func (h *DashboardHandler) GetDashboard(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.service.Summary(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_dashboard")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
