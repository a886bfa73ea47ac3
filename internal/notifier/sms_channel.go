package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type noopSMSChannel struct{}

// NewSMSChannel returns an SMS channel implementation based on the
// SMS_PROVIDER environment variable. Supported providers: "msg91"
// (defaults to noop if not configured or provider not supported).
func NewSMSChannel() SMSChannel {
	provider := os.Getenv("SMS_PROVIDER")
	authKey := os.Getenv("SMS_AUTH_KEY")
	templateID := os.Getenv("SMS_TEMPLATE_ID")

	switch provider {
	case "msg91":
		if authKey == "" {
			log.Println("Warning: SMS_PROVIDER is 'msg91' but SMS_AUTH_KEY is not set, using noop channel")
			return &noopSMSChannel{}
		}
		return NewMsg91SMSChannel(authKey, templateID)
	default:
		if provider == "" {
			log.Println("Warning: SMS_PROVIDER is not set, using noop channel")
		} else {
			log.Printf("Warning: Unknown SMS_PROVIDER '%s', using noop channel", provider)
		}
		return &noopSMSChannel{}
	}
}

// SendOTP on the noop channel logs the code so local development can log in
// without a provider account.
func (c *noopSMSChannel) SendOTP(ctx context.Context, payload OTPPayload) error {
	log.Printf("noop sms channel: otp for %s is %s", payload.Destination, payload.Code)
	return nil
}

const msg91OtpURL = "https://control.msg91.com/api/v5/otp"

// Msg91SMSChannel delivers OTP SMS via the MSG91 HTTP API.
type Msg91SMSChannel struct {
	authKey    string
	templateID string
	httpClient *http.Client
}

func NewMsg91SMSChannel(authKey, templateID string) *Msg91SMSChannel {
	return &Msg91SMSChannel{
		authKey:    authKey,
		templateID: templateID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Msg91SMSChannel) SendOTP(ctx context.Context, payload OTPPayload) error {
	mobile := strings.TrimSpace(payload.Destination)
	if !strings.HasPrefix(mobile, "+") {
		mobile = "+91" + mobile
	}

	body, err := json.Marshal(map[string]string{
		"template_id": c.templateID,
		"mobile":      mobile,
		"otp":         payload.Code,
	})
	if err != nil {
		return fmt.Errorf("failed to encode otp request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, msg91OtpURL, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authkey", c.authKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("otp sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("otp sms rejected: status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
