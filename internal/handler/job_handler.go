package handler

import (
	"io"
	"net/http"

	"github.com/Desktoo/WorkEzy-demo/internal/middleware"
	"github.com/Desktoo/WorkEzy-demo/internal/service"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
	"github.com/Desktoo/WorkEzy-demo/pkg/logger"
)

type JobHandler struct {
	jobService service.JobService
	validator  *helpers.CustomValidator
	log        *logger.Logger
}

func NewJobHandler(jobService service.JobService, validator *helpers.CustomValidator, log *logger.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		validator:  validator,
		log:        log,
	}
}

type jobRequest struct {
	JobTitle      string `json:"job_title" validate:"required,min=3,max=150"`
	Description   string `json:"description" validate:"required,min=10"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	LocationType  string `json:"location_type" validate:"required,oneof=ONSITE REMOTE HYBRID"`
	JobType       string `json:"job_type" validate:"required,oneof=FULL_TIME PART_TIME CONTRACT"`
	MinExperience int32  `json:"min_experience" validate:"min=0,max=50"`
	MinEducation  string `json:"min_education" validate:"required"`
	MinSalary     int64  `json:"min_salary" validate:"min=0"`
	MaxSalary     int64  `json:"max_salary" validate:"min=0"`

	FilteringQuestions []struct {
		Question       string `json:"question" validate:"required,min=5,max=300"`
		ExpectedAnswer string `json:"expected_answer" validate:"required,yes_no"`
	} `json:"filtering_questions" validate:"omitempty,max=10,dive"`
}

func (req *jobRequest) toInput() service.CreateJobInput {
	input := service.CreateJobInput{
		JobTitle:      req.JobTitle,
		Description:   req.Description,
		City:          req.City,
		State:         req.State,
		LocationType:  req.LocationType,
		JobType:       req.JobType,
		MinExperience: req.MinExperience,
		MinEducation:  req.MinEducation,
		MinSalary:     req.MinSalary,
		MaxSalary:     req.MaxSalary,
	}
	for _, q := range req.FilteringQuestions {
		input.FilteringQuestions = append(input.FilteringQuestions, service.FilteringQuestionInput{
			Question:       q.Question,
			ExpectedAnswer: q.ExpectedAnswer,
		})
	}
	return input
}

// CanPost handles GET /api/jobs/can-post
func (h *JobHandler) CanPost(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	canPost, err := h.jobService.CanPostJob(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"can_post": canPost,
	})
}

// CreateJob handles POST /api/jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req jobRequest
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
	if req.MaxSalary < req.MinSalary {
		writeValidationErrorWithErrors(w, "The max_salary field must not be below min_salary", map[string][]string{
			"max_salary": {"The max_salary field must not be below min_salary"},
		})
		return
	}

	job, err := h.jobService.CreateJob(r.Context(), claims.Subject, req.toInput())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// ListJobs handles GET /api/jobs
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	summaries, err := h.jobService.ListJobs(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	jobs := make([]map[string]interface{}, 0, len(summaries))
	for _, s := range summaries {
		jobs = append(jobs, map[string]interface{}{
			"job":                s.Job,
			"applications_count": s.ApplicationsCount,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": jobs,
	})
}

// GetJob handles GET /api/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	job, err := h.jobService.GetJob(r.Context(), r.PathValue("id"), claims.Subject)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// GetPublicJob handles GET /api/public/jobs/{id}, the candidate-facing view
// with the job's filtering questions (expected answers withheld).
func (h *JobHandler) GetPublicJob(w http.ResponseWriter, r *http.Request) {
	job, questions, err := h.jobService.GetPublicJob(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	publicQuestions := make([]map[string]string, 0, len(questions))
	for _, q := range questions {
		publicQuestions = append(publicQuestions, map[string]string{
			"id":       q.ID,
			"question": q.Question,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job":                 job,
		"filtering_questions": publicQuestions,
	})
}

// UpdateJob handles PUT /api/jobs/{id}
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req jobRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		writeValidationErrorWithErrors(w, "The given data was invalid", h.validator.FieldErrors(err))
		return
	}

	job, err := h.jobService.UpdateJob(r.Context(), claims.Subject, r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// CloseJob handles POST /api/jobs/{id}/close
func (h *JobHandler) CloseJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if err := h.jobService.CloseJob(r.Context(), claims.Subject, r.PathValue("id")); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "job closed",
	})
}
