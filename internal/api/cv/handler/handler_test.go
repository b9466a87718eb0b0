package cvHandler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/api/cv"
	cvRepository "portfolio/internal/api/cv/repository"
	cvService "portfolio/internal/api/cv/service"
	"portfolio/internal/testsupport"
	"portfolio/pkg/upload"
	"portfolio/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestCVRoutes(t *testing.T) {
	db := testsupport.NewDB(t)
	log := testsupport.Logger()
	sessions := testsupport.NewRedis()
	storage := testsupport.NewStorage()

	app, api, mw := testsupport.NewApp(t, sessions)
	svc := cvService.New(log, cvRepository.New(db, log), storage, upload.New(storage, log), "cv-files", utils.New())
	New(log, validator.New(), mw, svc).Start(api)

	auth := testsupport.SignIn(t, sessions)

	post := func(fields map[string]string, files map[string]testsupport.File, auth string) testsupport.Response {
		body, boundary := testsupport.MultipartBody(t, fields, files)
		return testsupport.Do(t, app, http.MethodPost, "/api/v1/admin/cvs", strings.NewReader(body.String()), "multipart/form-data; boundary="+boundary, auth)
	}
	pdf := map[string]testsupport.File{"file": {Name: "resume.pdf", ContentType: "application/pdf", Content: testsupport.PDF}}

	resp := testsupport.Do(t, app, http.MethodGet, "/api/v1/cv/active", nil, "", "")
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = post(map[string]string{"title": "Resume"}, pdf, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = post(map[string]string{"title": "   "}, pdf, auth)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = post(map[string]string{"title": "Resume"}, map[string]testsupport.File{
		"file": {Name: "resume.png", ContentType: "image/png", Content: testsupport.PNG},
	}, auth)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Zero(t, storage.Calls("upload"))

	resp = post(map[string]string{"title": "Jane Doe Resume"}, pdf, auth)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var created cv.CVResponse
	require.NoError(t, json.Unmarshal(resp.Body, &created))

	resp = testsupport.Do(t, app, http.MethodPut, "/api/v1/admin/cvs/"+created.ID+"/active", nil, "", auth)
	require.Equal(t, http.StatusOK, resp.Status)

	resp = testsupport.Do(t, app, http.MethodGet, "/api/v1/cv/active", nil, "", "")
	require.Equal(t, http.StatusOK, resp.Status)
	var active cv.CVResponse
	require.NoError(t, json.Unmarshal(resp.Body, &active))
	assert.Equal(t, created.ID, active.ID)
	assert.Equal(t, created.PublicURL, active.PublicURL)

	resp = testsupport.Do(t, app, http.MethodGet, "/api/v1/admin/cvs/"+created.ID+"/view", nil, "", auth)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, created.PublicURL, resp.Header["Location"])

	resp = testsupport.Do(t, app, http.MethodGet, "/api/v1/admin/cvs/"+created.ID+"/download", nil, "", auth)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/pdf", resp.Header["Content-Type"])
	assert.Equal(t, `attachment; filename="Jane_Doe_Resume.pdf"`, resp.Header["Content-Disposition"])
	assert.Equal(t, testsupport.PDF, resp.Body)

	resp = testsupport.Do(t, app, http.MethodGet, "/api/v1/admin/cvs", nil, "", auth)
	require.Equal(t, http.StatusOK, resp.Status)
	var list cv.CVListResponse
	require.NoError(t, json.Unmarshal(resp.Body, &list))
	require.Len(t, list.CVs, 1)
	assert.True(t, list.CVs[0].IsActive)

	resp = testsupport.Do(t, app, http.MethodDelete, "/api/v1/admin/cvs/"+created.ID, nil, "", auth)
	assert.Equal(t, http.StatusNoContent, resp.Status)

	resp = testsupport.Do(t, app, http.MethodPut, "/api/v1/admin/cvs/"+created.ID+"/active", nil, "", auth)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = testsupport.Do(t, app, http.MethodGet, "/api/v1/cv/active", nil, "", "")
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
