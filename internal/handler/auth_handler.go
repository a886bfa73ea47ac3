package handler

import (
	"io"
	"net/http"

	"github.com/Desktoo/WorkEzy-demo/internal/service"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
	"github.com/Desktoo/WorkEzy-demo/pkg/logger"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *helpers.CustomValidator
	log         *logger.Logger
}

func NewAuthHandler(authService service.AuthService, validator *helpers.CustomValidator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		log:         log,
	}
}

// SendOTP handles POST /api/auth/otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Destination string `json:"destination" validate:"required"`
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

	if err := h.authService.SendOTP(r.Context(), req.Destination); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "verification code sent",
	})
}

// VerifyOTP handles POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Destination string `json:"destination" validate:"required"`
		Code        string `json:"code" validate:"required,otp_code"`
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

	token, err := h.authService.VerifyOTP(r.Context(), req.Destination, req.Code)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
	})
}
