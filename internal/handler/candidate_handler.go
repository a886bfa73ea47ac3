package handler

import (
	"io"
	"net/http"

	"github.com/Desktoo/WorkEzy-demo/internal/middleware"
	"github.com/Desktoo/WorkEzy-demo/internal/service"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
	"github.com/Desktoo/WorkEzy-demo/pkg/logger"
)

type CandidateHandler struct {
	candidateService service.CandidateService
	validator        *helpers.CustomValidator
	log              *logger.Logger
}

func NewCandidateHandler(candidateService service.CandidateService, validator *helpers.CustomValidator, log *logger.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidateService: candidateService,
		validator:        validator,
		log:              log,
	}
}

// Register handles POST /api/candidates
func (h *CandidateHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName      string  `json:"full_name" validate:"required,min=2,max=100"`
		Mobile        string  `json:"mobile" validate:"required,indian_mobile"`
		Email         *string `json:"email" validate:"omitempty,email"`
		City          string  `json:"city" validate:"required"`
		State         string  `json:"state" validate:"required"`
		ExperienceYrs int32   `json:"experience_yrs" validate:"min=0,max=50"`
		Education     string  `json:"education" validate:"required"`
		ResumeURL     *string `json:"resume_url"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		if err == io.EOF {
			writeError(w, http.StatusBadRequest, "request body is required")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return
	}

	if err := h.validator.Validate(req); err != nil {
		writeValidationErrorWithErrors(w, "The given data was invalid", h.validator.FieldErrors(err))
		return
	}

	candidate, err := h.candidateService.Register(r.Context(), service.RegisterCandidateInput{
		FullName:      req.FullName,
		Mobile:        req.Mobile,
		Email:         req.Email,
		City:          req.City,
		State:         req.State,
		ExperienceYrs: req.ExperienceYrs,
		Education:     req.Education,
		ResumeURL:     req.ResumeURL,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, candidate)
}

// GetProfile handles GET /api/candidates/me
func (h *CandidateHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	candidate, err := h.candidateService.GetProfile(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, candidate)
}

const maxResumeSize = 5 << 20 // 5 MB

// UploadResume handles POST /api/candidates/me/resume
func (h *CandidateHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxResumeSize)
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	candidate, err := h.candidateService.UploadResume(r.Context(), claims.Subject, header.Filename, contentType, file)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resume_url": candidate.ResumeURL,
	})
}

// UpdateProfile handles PUT /api/candidates/me
func (h *CandidateHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req struct {
		FullName      string  `json:"full_name" validate:"required,min=2,max=100"`
		Email         *string `json:"email" validate:"omitempty,email"`
		City          string  `json:"city" validate:"required"`
		State         string  `json:"state" validate:"required"`
		ExperienceYrs int32   `json:"experience_yrs" validate:"min=0,max=50"`
		Education     string  `json:"education" validate:"required"`
		ResumeURL     *string `json:"resume_url"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		writeValidationErrorWithErrors(w, "The given data was invalid", h.validator.FieldErrors(err))
		return
	}

	candidate, err := h.candidateService.UpdateProfile(r.Context(), claims.Subject, service.UpdateCandidateInput{
		FullName:      req.FullName,
		Email:         req.Email,
		City:          req.City,
		State:         req.State,
		ExperienceYrs: req.ExperienceYrs,
		Education:     req.Education,
		ResumeURL:     req.ResumeURL,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, candidate)
}
