package portfolioService

import (
	"strings"

	"portfolio/internal/api/portfolio"
	"portfolio/internal/entity"
)

type IPortfolioService interface {
	GetProjects(filter portfolio.ProjectFilter) portfolio.ProjectListResponse
	GetProjectByID(id int) (entity.Project, error)
	GetSkills(kind string) (portfolio.SkillListResponse, error)
}

type portfolioService struct {
	content portfolio.Content
}

func New(content portfolio.Content) IPortfolioService {
	return &portfolioService{content: content}
}

func (s *portfolioService) GetProjects(filter portfolio.ProjectFilter) portfolio.ProjectListResponse {
	res := portfolio.ProjectListResponse{Projects: make([]entity.Project, 0, len(s.content.Projects))}

	for _, p := range s.content.Projects {
		if filter.Category != "" && !strings.EqualFold(filter.Category, p.Category) {
			continue
		}
		if filter.Featured != nil && *filter.Featured != p.Featured {
			continue
		}
		res.Projects = append(res.Projects, p)
	}

	return res
}

func (s *portfolioService) GetProjectByID(id int) (entity.Project, error) {
	for _, p := range s.content.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return entity.Project{}, portfolio.ErrProjectNotFound
}

func (s *portfolioService) GetSkills(kind string) (portfolio.SkillListResponse, error) {
	want := entity.SkillKind(strings.ToLower(kind))
	if want != "" && !want.Valid() {
		return portfolio.SkillListResponse{}, portfolio.ErrInvalidSkillKind
	}

	res := portfolio.SkillListResponse{Skills: make([]entity.Skill, 0, len(s.content.Skills))}
	for _, skill := range s.content.Skills {
		if want == "" || skill.Kind == want {
			res.Skills = append(res.Skills, skill)
		}
	}

	return res, nil
}
