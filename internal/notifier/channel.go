// Package notifier delivers OTP codes over SMS and email.
package notifier

import "context"

// OTPPayload carries one OTP delivery.
type OTPPayload struct {
	Destination string // mobile number or email address
	Code        string
}

// SMSChannel abstracts SMS delivery providers.
type SMSChannel interface {
	SendOTP(ctx context.Context, payload OTPPayload) error
}

// EmailChannel abstracts email delivery providers.
type EmailChannel interface {
	SendOTP(ctx context.Context, payload OTPPayload) error
}
