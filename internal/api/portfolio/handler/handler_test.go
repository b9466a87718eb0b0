package portfolioHandler

import (
	"net/http"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/api/portfolio"
	portfolioService "portfolio/internal/api/portfolio/service"
	"portfolio/internal/testsupport"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestPortfolioRoutes(t *testing.T) {
	content, err := portfolio.DefaultContent()
	require.NoError(t, err)

	app, api, mw := testsupport.NewApp(t, testsupport.NewRedis())
	New(testsupport.Logger(), mw, portfolioService.New(content)).Start(api)

	projects := func(query string) portfolio.ProjectListResponse {
		resp := testsupport.Do(t, app, http.MethodGet, "/api/v1/projects"+query, nil, "", "")
		require.Equal(t, http.StatusOK, resp.Status)
		var res portfolio.ProjectListResponse
		require.NoError(t, json.Unmarshal(resp.Body, &res))
		return res
	}

	assert.Len(t, projects("").Projects, 2)
	assert.Len(t, projects("?category=iot").Projects, 1)
	assert.Len(t, projects("?featured=true").Projects, 2)
	assert.Empty(t, projects("?featured=false").Projects)
	assert.Empty(t, projects("?category=Web").Projects)

	resp := testsupport.Do(t, app, http.MethodGet, "/api/v1/projects?featured=maybe", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = testsupport.Do(t, app, http.MethodGet, "/api/v1/projects/2", nil, "", "")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "Manufacturing worker safety device")

	for _, path := range []string{"/api/v1/projects/99", "/api/v1/projects/abc"} {
		resp = testsupport.Do(t, app, http.MethodGet, path, nil, "", "")
		assert.Equal(t, http.StatusNotFound, resp.Status, path)
	}

	resp = testsupport.Do(t, app, http.MethodGet, "/api/v1/skills?kind=soft", nil, "", "")
	require.Equal(t, http.StatusOK, resp.Status)
	var skills portfolio.SkillListResponse
	require.NoError(t, json.Unmarshal(resp.Body, &skills))
	assert.Len(t, skills.Skills, 6)

	resp = testsupport.Do(t, app, http.MethodGet, "/api/v1/skills?kind=magic", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestPublicRoutesAreRateLimited(t *testing.T) {
	content, err := portfolio.DefaultContent()
	require.NoError(t, err)

	app, api, mw := testsupport.NewApp(t, testsupport.NewRedis())
	New(testsupport.Logger(), mw, portfolioService.New(content)).Start(api)

	// the bucket holds 100 requests and refills at 50/s, far slower than this loop
	limited := 0
	for i := 0; i < 250; i++ {
		resp := testsupport.Do(t, app, http.MethodGet, "/api/v1/skills", nil, "", "")
		if resp.Status == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Positive(t, limited)
}
