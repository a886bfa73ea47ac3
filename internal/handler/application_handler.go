package handler

import (
	"io"
	"net/http"

	"github.com/Desktoo/WorkEzy-demo/internal/middleware"
	"github.com/Desktoo/WorkEzy-demo/internal/models"
	"github.com/Desktoo/WorkEzy-demo/internal/service"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
	"github.com/Desktoo/WorkEzy-demo/pkg/logger"
)

type ApplicationHandler struct {
	applicationService service.ApplicationService
	screeningService   service.ScreeningService
	validator          *helpers.CustomValidator
	log                *logger.Logger
}

func NewApplicationHandler(
	applicationService service.ApplicationService,
	screeningService service.ScreeningService,
	validator *helpers.CustomValidator,
	log *logger.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		screeningService:   screeningService,
		validator:          validator,
		log:                log,
	}
}

var allowedStatusFilters = map[string]bool{
	models.ApplicationApplied:    true,
	models.ApplicationInterested: true,
	models.ApplicationAiScreened: true,
	models.ApplicationAiFit:      true,
	models.ApplicationAiNotFit:   true,
}

// Apply handles POST /api/jobs/{id}/apply (candidate session)
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req struct {
		Answers []struct {
			QuestionID      string `json:"question_id" validate:"required"`
			CandidateAnswer string `json:"candidate_answer" validate:"required,yes_no"`
		} `json:"answers" validate:"omitempty,max=10,dive"`
	}
	if err := decodeJSONBody(r, &req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		writeValidationErrorWithErrors(w, "The given data was invalid", h.validator.FieldErrors(err))
		return
	}

	answers := make([]service.FilteringAnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.FilteringAnswerInput{
			QuestionID:      a.QuestionID,
			CandidateAnswer: a.CandidateAnswer,
		})
	}

	application, err := h.applicationService.Apply(r.Context(), r.PathValue("id"), claims.Subject, answers)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, application)
}

// ListByJob handles GET /api/jobs/{id}/applications
func (h *ApplicationHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !allowedStatusFilters[status] {
		writeValidationErrorWithErrors(w, "The selected status is invalid", map[string][]string{
			"status": {"The selected status is invalid"},
		})
		return
	}

	applications, err := h.applicationService.ListByJob(r.Context(), r.PathValue("id"), claims.Subject, status)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applications": applications,
	})
}

// MarkInterested handles POST /api/applications/{id}/interested
func (h *ApplicationHandler) MarkInterested(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if err := h.applicationService.MarkInterested(r.Context(), r.PathValue("id"), claims.Subject); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "application marked interested",
	})
}

// StartAiScreening handles POST /api/jobs/{id}/screening
func (h *ApplicationHandler) StartAiScreening(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req struct {
		ApplicationIDs []string `json:"application_ids" validate:"required,min=1,max=50,dive,required"`
		Questions      []struct {
			Question       string `json:"question" validate:"required,min=5,max=300"`
			ExpectedAnswer string `json:"expected_answer" validate:"required,min=1,max=300"`
		} `json:"questions" validate:"required,min=1,max=10,dive"`
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

	questions := make([]service.AiQuestionInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, service.AiQuestionInput{
			Question:       q.Question,
			ExpectedAnswer: q.ExpectedAnswer,
		})
	}

	err := h.screeningService.StartAiScreening(r.Context(), claims.Subject, r.PathValue("id"), req.ApplicationIDs, questions)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "ai screening started",
	})
}

// SubmitAiAnswers handles POST /api/applications/{id}/answers (candidate session)
func (h *ApplicationHandler) SubmitAiAnswers(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromRequest(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req struct {
		Answers []struct {
			AnswerID        string `json:"answer_id" validate:"required"`
			CandidateAnswer string `json:"candidate_answer" validate:"required,min=1,max=500"`
		} `json:"answers" validate:"required,min=1,max=50,dive"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		writeValidationErrorWithErrors(w, "The given data was invalid", h.validator.FieldErrors(err))
		return
	}

	answers := make([]service.AiAnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.AiAnswerInput{
			AnswerID:        a.AnswerID,
			CandidateAnswer: a.CandidateAnswer,
		})
	}

	if err := h.screeningService.SubmitAiAnswers(r.Context(), r.PathValue("id"), answers); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "answers recorded",
	})
}

// EvaluateAiScreening handles POST /api/applications/{id}/evaluate
func (h *ApplicationHandler) EvaluateAiScreening(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	verdict, err := h.screeningService.EvaluateAiScreening(r.Context(), r.PathValue("id"), claims.Subject)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}
