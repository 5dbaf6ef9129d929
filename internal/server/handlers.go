package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-studio/internal/agent"
	"github.com/jonathan/cv-studio/internal/markdown"
	"github.com/jonathan/cv-studio/internal/store"
)

// ChatRequest is the body of POST /chat. Context selects the assistant mode
// the frontend is in; the marker it adds to the message is advisory.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	Context string `json:"context,omitempty" validate:"omitempty,oneof=cv profile"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response       string `json:"response"`
	ProfileUpdated bool   `json:"profileUpdated"`
}

// ContentRequest carries a whole markdown document, for PUT /profile and
// PUT /cvs/{job}/content.
type ContentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Validate validates the ContentRequest using the validator.
func (r *ContentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// RegenerateRequest is the body of POST /regenerate-pdf.
type RegenerateRequest struct {
	JobName string `json:"job_name" validate:"required"`
}

// Validate validates the RegenerateRequest using the validator.
func (r *RegenerateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// handleChat runs one user message through the agent loop.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// The frontend defaults to CV mode.
	mode := agent.ModeCV
	if req.Context == "profile" {
		mode = agent.ModeProfile
	}

	result, err := s.runner.Run(r.Context(), agent.PrefixMode(mode, req.Message))
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, ChatResponse{
			Response: fmt.Sprintf("❌ Error: %v", err),
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, ChatResponse{
		Response:       result.Text,
		ProfileUpdated: result.ProfileUpdated,
	})
}

// handleGetProfile returns the profile markdown. A missing profile is an
// empty document, not an error.
func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	content, err := s.store.ReadProfile()
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.errorResponse(w, http.StatusInternalServerError, "failed to read profile")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"content": content})
}

// handlePutProfile overwrites the profile markdown.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.WriteProfile(req.Content); err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to save"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// handleProfilePDF serves a PDF preview of the profile, regenerating it when
// the profile has changed since the last render or when ?regenerate=true.
func (s *Server) handleProfilePDF(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("regenerate") == "true"

	if err := s.ensureProfilePDF(force); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate profile PDF")
		return
	}

	w.Header().Set("Content-Disposition", "inline; filename=profile.pdf")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	http.ServeFile(w, r, s.store.ProfilePDFPath())
}

// ensureProfilePDF renders the profile preview when it is missing or stale.
func (s *Server) ensureProfilePDF(force bool) error {
	profileStat, err := os.Stat(s.store.ProfilePath())
	if err != nil {
		return fmt.Errorf("profile not found: %w", err)
	}

	pdfPath := s.store.ProfilePDFPath()
	if !force {
		if pdfStat, statErr := os.Stat(pdfPath); statErr == nil && !pdfStat.ModTime().Before(profileStat.ModTime()) {
			return nil
		}
	}

	htmlPath := strings.TrimSuffix(pdfPath, store.SuffixPDF) + store.SuffixHTML
	result, err := s.renderer.RenderPDF(s.store.ProfilePath(), pdfPath, htmlPath)
	if err != nil {
		return err
	}
	if result.Degraded {
		// The preview endpoint promises a PDF; a browser-printable HTML file
		// does not serve it.
		return fmt.Errorf("no PDF engine available")
	}
	return nil
}

// handleListCVs lists the rendered CV artifacts.
func (s *Server) handleListCVs(w http.ResponseWriter, _ *http.Request) {
	names, err := s.store.ListCVs()
	if err != nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{"cvs": []string{}})
		return
	}
	if names == nil {
		names = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"cvs": names})
}

// handleGetArtifact serves a rendered CV. The path segment accepts either a
// job name or an artifact filename from the /cvs listing.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	param := r.PathValue("job")

	suffix := store.SuffixPDF
	if strings.HasSuffix(param, store.SuffixHTML) {
		suffix = store.SuffixHTML
	}
	jobName := jobNameFromParam(param)

	path := s.store.ArtifactPath(jobName, suffix)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("download") == "true" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	} else {
		w.Header().Set("Content-Disposition", "inline")
	}
	http.ServeFile(w, r, path)
}

// handleGetCVContent returns the stored CV markdown for a job.
func (s *Server) handleGetCVContent(w http.ResponseWriter, r *http.Request) {
	jobName := jobNameFromParam(r.PathValue("job"))

	content, err := s.store.ReadCV(jobName)
	if errors.Is(err, store.ErrNotFound) {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"content": ""})
		return
	}
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"content": ""})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"content": content})
}

// handlePutCVContent overwrites the CV markdown for a job, applying the same
// line-break normalization as the write_cv tool.
func (s *Server) handlePutCVContent(w http.ResponseWriter, r *http.Request) {
	jobName := jobNameFromParam(r.PathValue("job"))

	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.store.WriteCV(jobName, markdown.NormalizeLineBreaks(req.Content)); err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]bool{"success": false})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// handleRegeneratePDF re-renders the artifact for an existing CV without
// going through the agent.
func (s *Server) handleRegeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	jobName := jobNameFromParam(req.JobName)
	if _, err := s.store.ReadCV(jobName); errors.Is(err, store.ErrNotFound) {
		s.jsonResponse(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   fmt.Sprintf("No CV exists for job '%s' yet.", jobName),
		})
		return
	}

	result, err := s.renderer.RenderPDF(
		s.store.CVPath(jobName),
		s.store.ArtifactPath(jobName, store.SuffixPDF),
		s.store.ArtifactPath(jobName, store.SuffixHTML),
	)
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"output":   result.OutputPath,
		"format":   string(result.Format),
		"degraded": result.Degraded,
	})
}

// jobNameFromParam accepts either a bare job name or an artifact filename
// ("cv_google_pm.pdf") and returns the job name.
func jobNameFromParam(param string) string {
	name := strings.TrimPrefix(param, "cv_")
	for _, suffix := range []string{store.SuffixPDF, store.SuffixHTML, ".md"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
