package helpers

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground validator with marketplace-specific rules
type CustomValidator struct {
	validate *validator.Validate
}

// NewCustomValidator creates a new custom validator
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	// Register custom validators
	v.RegisterValidation("indian_mobile", validateIndianMobile)
	v.RegisterValidation("otp_code", validateOtpCode)
	v.RegisterValidation("yes_no", validateYesNo)

	return &CustomValidator{validate: v}
}

// Validate validates a struct
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// FieldErrors converts a validation error into a field → message map suitable
// for a 422 response body. Returns nil when err is not a validator error.
func (cv *CustomValidator) FieldErrors(err error) map[string][]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		fields[field] = append(fields[field], fieldErrorMessage(field, fe))
	}
	return fields
}

func fieldErrorMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "The " + field + " field is required"
	case "min":
		return "The " + field + " field must be at least " + fe.Param()
	case "max":
		return "The " + field + " field must not exceed " + fe.Param()
	case "email":
		return "The " + field + " field must be a valid email address"
	case "indian_mobile":
		return "The " + field + " field must be a valid 10 digit mobile number"
	case "otp_code":
		return "The " + field + " field must be a 6 digit code"
	case "yes_no":
		return "The " + field + " field must be Yes or No"
	default:
		return "The " + field + " field is invalid"
	}
}

// validateIndianMobile validates Indian mobile numbers (10 digits, 6-9 prefix,
// optional +91 country code)
func validateIndianMobile(fl validator.FieldLevel) bool {
	mobile := strings.TrimSpace(fl.Field().String())
	mobile = strings.TrimPrefix(mobile, "+91")
	mobileRegex := regexp.MustCompile(`^[6-9][0-9]{9}$`)
	return mobileRegex.MatchString(mobile)
}

// validateOtpCode validates 6 digit numeric OTP codes
func validateOtpCode(fl validator.FieldLevel) bool {
	codeRegex := regexp.MustCompile(`^\d{6}$`)
	return codeRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateYesNo validates screening answers (Yes/No, any casing)
func validateYesNo(fl validator.FieldLevel) bool {
	v := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	return v == "yes" || v == "no"
}
