// Package portfolio serves the static projects and skills shown on the public site.
package portfolio

import (
	_ "embed"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"

	"portfolio/internal/entity"
	"portfolio/pkg/response"
)

//go:embed content.yaml
var defaultContent []byte

var (
	ErrProjectNotFound  = response.NewError(http.StatusNotFound, "project not found")
	ErrInvalidSkillKind = response.NewError(http.StatusBadRequest, "kind must be hard or soft")
)

type Content struct {
	Projects []entity.Project `yaml:"projects"`
	Skills   []entity.Skill   `yaml:"skills"`
}

type ProjectFilter struct {
	Category string
	Featured *bool
}

type ProjectListResponse struct {
	Projects []entity.Project `json:"projects"`
}

type SkillListResponse struct {
	Skills []entity.Skill `json:"skills"`
}

// DefaultContent parses the content compiled into the binary.
func DefaultContent() (Content, error) {
	return ParseContent(defaultContent)
}

func ParseContent(raw []byte) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Content{}, fmt.Errorf("parse portfolio content: %w", err)
	}

	seen := make(map[int]struct{}, len(c.Projects))
	for _, p := range c.Projects {
		if _, dup := seen[p.ID]; dup {
			return Content{}, fmt.Errorf("parse portfolio content: duplicate project id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	for _, s := range c.Skills {
		if !s.Kind.Valid() {
			return Content{}, fmt.Errorf("parse portfolio content: skill %q has kind %q", s.Name, s.Kind)
		}
	}

	return c, nil
}
