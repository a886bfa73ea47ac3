package handler

import (
	"io"
	"net/http"

	"github.com/Desktoo/WorkEzy-demo/internal/middleware"
	"github.com/Desktoo/WorkEzy-demo/internal/service"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
	"github.com/Desktoo/WorkEzy-demo/pkg/logger"
)

type EmployerHandler struct {
	employerService service.EmployerService
	accountService  service.AccountService
	validator       *helpers.CustomValidator
	log             *logger.Logger
}

func NewEmployerHandler(
	employerService service.EmployerService,
	accountService service.AccountService,
	validator *helpers.CustomValidator,
	log *logger.Logger,
) *EmployerHandler {
	return &EmployerHandler{
		employerService: employerService,
		accountService:  accountService,
		validator:       validator,
		log:             log,
	}
}

type employerRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Mobile      string  `json:"mobile" validate:"required,indian_mobile"`
	CompanyName string  `json:"company_name" validate:"required,min=2,max=150"`
	CompanyURL  *string `json:"company_url"`
	City        string  `json:"city" validate:"required"`
	State       string  `json:"state" validate:"required"`
	DocsURL     *string `json:"docs_url"`
}

// Register handles POST /api/employers
func (h *EmployerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req employerRequest
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

	employer, err := h.employerService.Register(r.Context(), service.RegisterEmployerInput{
		Name:        req.Name,
		Email:       req.Email,
		Mobile:      req.Mobile,
		CompanyName: req.CompanyName,
		CompanyURL:  req.CompanyURL,
		City:        req.City,
		State:       req.State,
		DocsURL:     req.DocsURL,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, employer)
}

// GetProfile handles GET /api/employers/me
func (h *EmployerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	employer, err := h.employerService.GetProfile(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, employer)
}

// UpdateProfile handles PUT /api/employers/me
func (h *EmployerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req struct {
		Name        string  `json:"name" validate:"required,min=2,max=100"`
		Email       string  `json:"email" validate:"required,email"`
		CompanyName string  `json:"company_name" validate:"required,min=2,max=150"`
		CompanyURL  *string `json:"company_url"`
		City        string  `json:"city" validate:"required"`
		State       string  `json:"state" validate:"required"`
		DocsURL     *string `json:"docs_url"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		writeValidationErrorWithErrors(w, "The given data was invalid", h.validator.FieldErrors(err))
		return
	}

	employer, err := h.employerService.UpdateProfile(r.Context(), claims.Subject, service.UpdateEmployerInput{
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
		CompanyURL:  req.CompanyURL,
		City:        req.City,
		State:       req.State,
		DocsURL:     req.DocsURL,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, employer)
}

// DeleteAccount handles DELETE /api/employers/me
func (h *EmployerHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if err := h.accountService.DeleteEmployerAccount(r.Context(), claims.Subject); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "account deleted",
	})
}
