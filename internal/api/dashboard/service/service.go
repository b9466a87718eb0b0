package dashboardService

import (
	"context"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/dashboard"
	dashboardRepository "portfolio/internal/api/dashboard/repository"
)

type IDashboardService interface {
	Summary(ctx context.Context) (dashboard.DashboardResponse, error)
}

type dashboardService struct {
	log  *logrus.Logger
	repo dashboardRepository.Repository
}

func New(log *logrus.Logger, repo dashboardRepository.Repository) IDashboardService {
	return &dashboardService{log: log, repo: repo}
}

func (s *dashboardService) Summary(ctx context.Context) (dashboard.DashboardResponse, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}

	title, err := s.repo.ActiveCVTitle(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}

	return dashboard.DashboardResponse{
		Blogs:           counts.Blogs,
		PublishedBlogs:  counts.PublishedBlogs,
		Categories:      counts.Categories,
		CVs:             counts.CVs,
		ContactMessages: counts.ContactMessages,
		ActiveCVTitle:   title,
	}, nil
}
