package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"careerpath-agent/internal/export"
	"careerpath-agent/internal/gateway"
	"careerpath-agent/internal/models"
	"careerpath-agent/internal/wizard"
)

// maxResumeSize caps uploaded resume files at 20 MB
const maxResumeSize = 20 << 20

// Server exposes the wizard over HTTP. Each endpoint is a thin view
// contract: collect input, delegate the transition to the wizard, render
// the resulting session snapshot.
type Server struct {
	wizard *wizard.Wizard
}

// NewServer creates a new API server
func NewServer(w *wizard.Wizard) *Server {
	return &Server{
		wizard: w,
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /profile", s.handleProfile)
	mux.HandleFunc("POST /back", s.handleBack)
	mux.HandleFunc("POST /restart", s.handleRestart)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// stateResponse is the session snapshot rendered to the views
type stateResponse struct {
	SessionID   string                    `json:"sessionId"`
	Step        string                    `json:"step"`
	Busy        bool                      `json:"busy"`
	HasCriteria bool                      `json:"hasCriteria"`
	Criteria    *models.JobSearchCriteria `json:"criteria,omitempty"`
	Profile     models.UserProfile        `json:"profile"`
	Advice      *models.CareerAdvice      `json:"advice,omitempty"`
}

func (s *Server) snapshotResponse() stateResponse {
	snap := s.wizard.Snapshot()
	resp := stateResponse{
		SessionID:   snap.SessionID,
		Step:        snap.Step.String(),
		Busy:        snap.Busy,
		HasCriteria: snap.Criteria != nil,
		Profile:     snap.Profile,
		Advice:      snap.Advice,
	}
	if snap.Criteria != nil {
		// The resume payload is withheld from the snapshot; the views only
		// need to know a file is already uploaded.
		resp.Criteria = &models.JobSearchCriteria{
			TargetCountry:  snap.Criteria.TargetCountry,
			TargetJobTitle: snap.Criteria.TargetJobTitle,
			ResumeMimeType: snap.Criteria.ResumeMimeType,
		}
	}
	return resp
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service": "CareerPath Agent",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"GET /state":    "Current wizard session state",
			"POST /upload":  "Submit resume and search criteria",
			"POST /profile": "Submit refined profile for career advice",
			"POST /back":    "Navigate one step back",
			"POST /restart": "Discard the session and start over",
			"GET /export":   "Download the career plan as Excel",
			"GET /health":   "Health check",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

// handleState returns the current session snapshot
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.snapshotResponse())
}

// handleUpload accepts the resume file plus target role and country,
// builds the search criteria and submits them to the wizard
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	targetJobTitle := r.FormValue("target_job_title")
	targetCountry := r.FormValue("target_country")

	criteria := models.JobSearchCriteria{
		TargetJobTitle: targetJobTitle,
		TargetCountry:  targetCountry,
	}

	file, header, err := r.FormFile("resume")
	if err == nil {
		defer file.Close()

		content, readErr := io.ReadAll(io.LimitReader(file, maxResumeSize))
		if readErr != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read uploaded file: %v", readErr))
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = http.DetectContentType(content)
		}

		criteria.ResumeFileBase64 = base64.StdEncoding.EncodeToString(content)
		criteria.ResumeMimeType = mimeType
	}

	if err := s.wizard.SubmitCriteria(r.Context(), criteria); err != nil {
		s.respondWizardError(w, err, "Failed to process resume")
		return
	}

	s.respondJSON(w, http.StatusOK, s.snapshotResponse())
}

// handleProfile accepts the refined profile and submits it for advice
// generation
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse profile JSON: %v", err))
		return
	}

	if err := s.wizard.SubmitProfile(r.Context(), profile); err != nil {
		s.respondWizardError(w, err, "Failed to generate career advice")
		return
	}

	s.respondJSON(w, http.StatusOK, s.snapshotResponse())
}

// handleBack navigates one step backwards
func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.wizard.Back()
	s.respondJSON(w, http.StatusOK, s.snapshotResponse())
}

// handleRestart discards the session and returns to the upload step
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.wizard.Restart()
	s.respondJSON(w, http.StatusOK, s.snapshotResponse())
}

// handleExport streams the career plan workbook for the current results
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap := s.wizard.Snapshot()
	if snap.Advice == nil || snap.Criteria == nil {
		s.respondError(w, http.StatusNotFound, "no career advice available yet, complete the wizard first")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="career-plan.xlsx"`)

	if err := export.WriteExcel(w, snap.Profile, *snap.Criteria, *snap.Advice); err != nil {
		log.Printf("Failed to write Excel export: %v", err)
	}
}

// respondWizardError maps wizard and gateway failures to HTTP responses.
// AI call failures name the failed operation and, when the cause looks
// credential-related, suggest verifying the API key.
func (s *Server) respondWizardError(w http.ResponseWriter, err error, operation string) {
	var validationErr *wizard.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, wizard.ErrBusy):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		message := fmt.Sprintf("%s: %v.", operation, err)
		if gateway.IsCredentialError(err) {
			message += " Please ensure the API key is valid and try again."
		} else {
			message += " Please try again."
		}
		s.respondError(w, http.StatusBadGateway, message)
	}
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
