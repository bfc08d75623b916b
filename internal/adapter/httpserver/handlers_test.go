package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resu-med/resu-med-sub000/internal/adapter/httpserver"
	"github.com/resu-med/resu-med-sub000/internal/config"
	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/internal/extract"
	"github.com/resu-med/resu-med-sub000/internal/usecase"
)

const sampleText = "Jane Doe\njane@example.com\n\nWORK EXPERIENCE\nSoftware Engineer at Initech\nJan 2020 - Present\nBuilt internal tooling for invoice processing."

type memProfileRepo struct {
	byID map[string]domain.StoredProfile
	seq  int
}

func (r *memProfileRepo) Create(_ domain.Context, sp domain.StoredProfile) (string, error) {
	r.seq++
	id := "profile-1"
	sp.ID = id
	if r.byID == nil {
		r.byID = map[string]domain.StoredProfile{}
	}
	r.byID[id] = sp
	return id, nil
}

func (r *memProfileRepo) Get(_ domain.Context, id string) (domain.StoredProfile, error) {
	sp, ok := r.byID[id]
	if !ok {
		return domain.StoredProfile{}, domain.ErrNotFound
	}
	return sp, nil
}

type memJobRepo struct{ byID map[string]domain.ParseJob }

func (r *memJobRepo) Create(_ domain.Context, j domain.ParseJob) (string, error) {
	if r.byID == nil {
		r.byID = map[string]domain.ParseJob{}
	}
	j.ID = "job-1"
	r.byID[j.ID] = j
	return j.ID, nil
}

func (r *memJobRepo) Get(_ domain.Context, id string) (domain.ParseJob, error) {
	j, ok := r.byID[id]
	if !ok {
		return domain.ParseJob{}, domain.ErrNotFound
	}
	return j, nil
}

func (r *memJobRepo) UpdateStatus(_ domain.Context, id string, status domain.JobStatus, errMsg *string) error {
	j := r.byID[id]
	j.Status = status
	if errMsg != nil {
		j.Error = *errMsg
	}
	r.byID[id] = j
	return nil
}

func (r *memJobRepo) SetProfileID(_ domain.Context, id, profileID string) error {
	j := r.byID[id]
	j.ProfileID = profileID
	r.byID[id] = j
	return nil
}

type memQueue struct{ err error }

func (q *memQueue) EnqueueParse(_ domain.Context, p domain.ParseTaskPayload) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	return p.JobID, nil
}

func newTestRouter(t *testing.T, queue domain.Queue) http.Handler {
	t.Helper()
	cfg := config.Config{MaxUploadMB: 1}
	parser := usecase.NewParseService(extract.NewEngine(), nil, 0, 0, 0)
	profiles := usecase.NewProfileService(parser, &memProfileRepo{})
	jobs := usecase.NewJobService(&memJobRepo{}, queue, profiles)
	srv := httpserver.NewServer(cfg, profiles, jobs, nil)

	r := chi.NewRouter()
	r.Post("/v1/parse", srv.ParseHandler())
	r.Post("/v1/jobs", srv.SubmitJobHandler())
	r.Get("/v1/jobs/{id}", srv.GetJobHandler())
	r.Get("/v1/profiles/{id}", srv.GetProfileHandler())
	r.Get("/readyz", srv.ReadyzHandler())
	return r
}

func errCode(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &env))
	return env.Error.Code
}

func TestParse_JSONBody(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	body, _ := json.Marshal(map[string]string{"text": sampleText, "filename": "cv.txt"})
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		ID      string         `json:"id"`
		Profile domain.Profile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "profile-1", resp.ID)
	assert.Equal(t, "Jane", resp.Profile.Personal.FirstName)
	require.NotEmpty(t, resp.Profile.Employment)
}

func TestParse_MissingText(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(`{"filename":"cv.txt"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errCode(t, rec.Body))
}

func TestParse_WhitespaceTextRejected(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(`{"text":"  \n\t  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "EMPTY_INPUT", errCode(t, rec.Body))
}

func TestParse_UnsupportedContentType(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("text"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestParse_MultipartUpload(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	buf, ct := multipartBody(t, "resume", "cv.txt", sampleText)
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestParse_MultipartBadExtension(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	buf, ct := multipartBody(t, "resume", "cv.exe", "MZ\x90\x00")
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParse_MultipartMissingFile(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	buf, ct := multipartBody(t, "attachment", "cv.txt", sampleText)
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitJob_Accepted(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	body, _ := json.Marshal(map[string]string{"text": sampleText})
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp.ID)
	assert.Equal(t, string(domain.JobQueued), resp.Status)
}

func TestSubmitJob_QueueDown(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{err: errors.New("broker unreachable")})

	body, _ := json.Marshal(map[string]string{"text": sampleText})
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL", errCode(t, rec.Body))
}

func TestGetJob(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	body, _ := json.Marshal(map[string]string{"text": sampleText})
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/jobs/nope", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errCode(t, rec.Body))
}

func TestGetProfile_NotFound(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, &memQueue{})

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadyz(t *testing.T) {
	t.Parallel()
	cfg := config.Config{MaxUploadMB: 1}
	parser := usecase.NewParseService(extract.NewEngine(), nil, 0, 0, 0)
	profiles := usecase.NewProfileService(parser, &memProfileRepo{})
	jobs := usecase.NewJobService(&memJobRepo{}, &memQueue{}, profiles)
	srv := httpserver.NewServer(cfg, profiles, jobs, nil)
	srv.DBCheck = func(context.Context) error { return nil }
	srv.RedisCheck = func(context.Context) error { return errors.New("redis down") }

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.ReadyzHandler()(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis down")

	srv.RedisCheck = func(context.Context) error { return nil }
	rec = httptest.NewRecorder()
	srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
