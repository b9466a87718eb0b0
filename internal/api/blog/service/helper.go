package blogService

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"portfolio/internal/api/blog"
	blogsRepository "portfolio/internal/api/blog/repository"
	"portfolio/internal/entity"
	"portfolio/pkg/response"
)

const (
	wordsPerMinute = 200

	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// upper bound for the posts listed on a public category page
	categoryPostsLimit = 1000
)

// ReadTime estimates reading time from the visible text of an HTML document.
func ReadTime(content string) string {
	words := 0
	z := html.NewTokenizer(strings.NewReader(content))

	for {
		switch z.Next() {
		case html.ErrorToken:
			minutes := int(math.Ceil(float64(words) / wordsPerMinute))
			if minutes < 1 {
				minutes = 1
			}
			return fmt.Sprintf("%d min read", minutes)
		case html.TextToken:
			words += len(strings.Fields(string(z.Text())))
		}
	}
}

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "pre", "code", "div")
	return p
}

func (s *blogsService) sanitize(content string) (string, error) {
	clean := strings.TrimSpace(s.policy.Sanitize(content))
	if clean == "" {
		return "", blogs.ErrEmptyContent
	}
	return clean, nil
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// passThrough keeps domain errors and replaces anything else with fallback.
func passThrough(err error, fallback error) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return err
	}
	return fallback
}

func makeCategoryResponse(c entity.BlogCategory) blogs.CategoryResponse {
	return blogs.CategoryResponse{
		ID:           c.ID,
		Title:        c.Title,
		Slug:         c.Slug,
		Description:  c.Description,
		ThumbnailURL: c.ThumbnailURL,
		CreatedAt:    c.CreatedAt,
	}
}

func makeBlogResponse(row blogsRepository.BlogRow) blogs.BlogResponse {
	res := blogs.BlogResponse{
		ID:          row.ID,
		Title:       row.Title,
		Slug:        row.Slug,
		Content:     row.Content,
		CategoryID:  row.CategoryID,
		CoverImage:  row.CoverImage,
		Status:      string(row.Status),
		PublishedAt: row.PublishedAt,
		ReadTime:    row.ReadTime,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	if row.CategorySlug != "" {
		res.Category = &blogs.BlogCategoryRef{
			ID:    row.CategoryID,
			Title: row.CategoryTitle,
			Slug:  row.CategorySlug,
		}
	}

	return res
}
