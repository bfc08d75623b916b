package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/resu-med/resu-med-sub000/internal/config"
	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/internal/usecase"
	"github.com/resu-med/resu-med-sub000/pkg/textx"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Profiles   usecase.ProfileService
	Jobs       usecase.JobService
	Extractor  domain.TextExtractor
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
	KafkaCheck func(ctx context.Context) error
	TikaCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, profiles usecase.ProfileService, jobs usecase.JobService, extractor domain.TextExtractor) *Server {
	return &Server{Cfg: cfg, Profiles: profiles, Jobs: jobs, Extractor: extractor}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// parseTextRequest is the JSON alternative to a multipart upload.
type parseTextRequest struct {
	Text     string `json:"text" validate:"required"`
	Filename string `json:"filename"`
}

// ParseHandler handles POST /v1/parse: synchronous extraction of a
// structured profile from an uploaded resume or a raw text body.
func (s *Server) ParseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename, text, err := s.resumeText(w, r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		sp, err := s.Profiles.ParseAndStore(r.Context(), filename, text)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":          sp.ID,
			"profile":     sp.Profile,
			"diagnostics": sp.Diagnostics,
		})
	}
}

// SubmitJobHandler handles POST /v1/jobs: async parse submission.
func (s *Server) SubmitJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename, text, err := s.resumeText(w, r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if strings.TrimSpace(text) == "" {
			writeError(w, r, domain.ErrEmptyInput, nil)
			return
		}
		jobID, err := s.Jobs.Submit(r.Context(), filename, text)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"id":     jobID,
			"status": domain.JobQueued,
		})
	}
}

// GetJobHandler handles GET /v1/jobs/{id}.
func (s *Server) GetJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, err := s.Jobs.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		resp := map[string]any{
			"id":         job.ID,
			"status":     job.Status,
			"created_at": job.CreatedAt,
			"updated_at": job.UpdatedAt,
		}
		if job.Error != "" {
			resp["error"] = job.Error
		}
		if job.ProfileID != "" {
			resp["profile_id"] = job.ProfileID
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GetProfileHandler handles GET /v1/profiles/{id}.
func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sp, err := s.Profiles.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":          sp.ID,
			"profile":     sp.Profile,
			"diagnostics": sp.Diagnostics,
			"filename":    sp.Filename,
			"created_at":  sp.CreatedAt,
		})
	}
}

// resumeText obtains the resume text for a request: either a multipart
// "resume" file (extracted via Tika for binary formats) or a JSON body
// with a text field.
func (s *Server) resumeText(w http.ResponseWriter, r *http.Request) (filename, text string, err error) {
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(ct, "multipart/form-data"):
		return s.resumeFromUpload(w, r)
	case strings.Contains(ct, "application/json"):
		var req parseTextRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidArgument, derr)
		}
		if verr := getValidator().Struct(req); verr != nil {
			return "", "", fmt.Errorf("%w: text is required", domain.ErrInvalidArgument)
		}
		return req.Filename, textx.SanitizeText(req.Text), nil
	default:
		return "", "", fmt.Errorf("%w: content-type must be multipart/form-data or application/json", domain.ErrInvalidArgument)
	}
}

func (s *Server) resumeFromUpload(w http.ResponseWriter, r *http.Request) (string, string, error) {
	maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			return "", "", fmt.Errorf("%w: payload exceeds %d MB", domain.ErrInvalidArgument, s.Cfg.MaxUploadMB)
		}
		return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		return "", "", fmt.Errorf("%w: resume file required", domain.ErrInvalidArgument)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err)
	}
	if !allowedExt(header.Filename) {
		return "", "", fmt.Errorf("%w: unsupported file type", domain.ErrInvalidArgument)
	}
	if m := mimetype.Detect(data); !allowedMIME(m.String(), header.Filename) {
		return "", "", fmt.Errorf("%w: unsupported content type %s", domain.ErrInvalidArgument, m.String())
	}
	text, err := s.extractUploadedText(r.Context(), header, data)
	if err != nil {
		return "", "", err
	}
	return header.Filename, text, nil
}

// extractUploadedText extracts text from the uploaded bytes: Tika for
// binary formats, direct sanitization for plain text.
func (s *Server) extractUploadedText(ctx context.Context, h *multipart.FileHeader, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(h.Filename))
	if ext == ".pdf" || ext == ".docx" {
		if s.Extractor == nil {
			return "", fmt.Errorf("%w: %s uploads require the text extractor", domain.ErrInvalidArgument, ext)
		}
		tmp, err := os.CreateTemp("", "resume-*")
		if err != nil {
			return "", err
		}
		defer func() { _ = os.Remove(tmp.Name()); _ = tmp.Close() }()
		if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
			return "", err
		}
		return s.Extractor.ExtractPath(ctx, h.Filename, tmp.Name())
	}
	return textx.SanitizeText(string(data)), nil
}

// allowedExt enforces the upload allowlist: .txt, .pdf, .docx.
func allowedExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

func allowedMIME(m, filename string) bool {
	m = strings.ToLower(m)
	// Detectors misclassify some plain-text resumes; trust the .txt
	// extension for anything text-like.
	if strings.HasSuffix(strings.ToLower(filename), ".txt") && strings.HasPrefix(m, "text/") {
		return true
	}
	if strings.HasPrefix(m, "text/plain") {
		return true
	}
	return m == "application/pdf" ||
		m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
