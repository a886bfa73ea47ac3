package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Desktoo/WorkEzy-demo/internal/notifier"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
	"github.com/Desktoo/WorkEzy-demo/pkg/helpers"
)

var (
	ErrInvalidDestination = errors.New("invalid mobile number or email")
	ErrInvalidOTPCode     = errors.New("invalid verification code")
	ErrOTPExpired         = errors.New("verification code expired or not requested")
	ErrOTPResendThrottled = errors.New("please wait before requesting another code")
	ErrAccountNotFound    = errors.New("account not found")
)

const (
	otpTTL         = 5 * time.Minute
	otpResendDelay = 60 * time.Second
	otpMaxAttempts = 3
)

var (
	mobileRegex  = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)
	emailRegex   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	otpCodeRegex = regexp.MustCompile(`^\d{6}$`)
)

// AuthService owns the OTP login flow: code generation and delivery, code
// verification, and session token issuance.
type AuthService interface {
	SendOTP(ctx context.Context, destination string) error
	// VerifyOTP checks the code and, on success, resolves the destination
	// to an account and issues a session token.
	VerifyOTP(ctx context.Context, destination, code string) (string, error)
}

type authService struct {
	otpRepo       repository.OtpRepository
	employerRepo  repository.EmployerRepository
	candidateRepo repository.CandidateRepository
	smsChannel    notifier.SMSChannel
	emailChannel  notifier.EmailChannel
	tokenService  TokenService
	idGen         *helpers.IDGenerator
}

func NewAuthService(
	otpRepo repository.OtpRepository,
	employerRepo repository.EmployerRepository,
	candidateRepo repository.CandidateRepository,
	smsChannel notifier.SMSChannel,
	emailChannel notifier.EmailChannel,
	tokenService TokenService,
) AuthService {
	return &authService{
		otpRepo:       otpRepo,
		employerRepo:  employerRepo,
		candidateRepo: candidateRepo,
		smsChannel:    smsChannel,
		emailChannel:  emailChannel,
		tokenService:  tokenService,
		idGen:         helpers.NewIDGenerator(),
	}
}

func (s *authService) SendOTP(ctx context.Context, destination string) error {
	destination = strings.TrimSpace(destination)
	isMobile := mobileRegex.MatchString(destination)
	if !isMobile && !emailRegex.MatchString(destination) {
		return ErrInvalidDestination
	}

	ok, err := s.otpRepo.SetResendLock(ctx, destination, otpResendDelay)
	if err != nil {
		return fmt.Errorf("failed to check resend lock: %w", err)
	}
	if !ok {
		return ErrOTPResendThrottled
	}

	code := s.idGen.GenerateNumericCode(6)

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	if err := s.otpRepo.SetCode(ctx, destination, string(hashed), otpTTL); err != nil {
		return fmt.Errorf("failed to persist otp: %w", err)
	}

	payload := notifier.OTPPayload{Destination: destination, Code: code}
	if isMobile {
		err = s.smsChannel.SendOTP(ctx, payload)
	} else {
		err = s.emailChannel.SendOTP(ctx, payload)
	}
	if err != nil {
		return fmt.Errorf("failed to deliver otp: %w", err)
	}

	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, destination, code string) (string, error) {
	destination = strings.TrimSpace(destination)
	sanitizedCode := strings.TrimSpace(code)
	if !otpCodeRegex.MatchString(sanitizedCode) {
		return "", ErrInvalidOTPCode
	}

	hashed, err := s.otpRepo.GetCode(ctx, destination)
	if err != nil {
		return "", fmt.Errorf("failed to load otp: %w", err)
	}
	if hashed == "" {
		return "", ErrOTPExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(sanitizedCode)); err != nil {
		attempts, cntErr := s.otpRepo.IncrAttempts(ctx, destination, otpTTL)
		if cntErr != nil {
			return "", fmt.Errorf("failed to count otp attempts: %w", cntErr)
		}
		if attempts >= otpMaxAttempts {
			if consumeErr := s.otpRepo.ConsumeCode(ctx, destination); consumeErr != nil {
				return "", fmt.Errorf("failed to consume otp: %w", consumeErr)
			}
		}
		return "", ErrInvalidOTPCode
	}

	if err := s.otpRepo.ConsumeCode(ctx, destination); err != nil {
		return "", fmt.Errorf("failed to consume otp: %w", err)
	}

	accountID, role, err := s.resolveAccount(ctx, destination)
	if err != nil {
		return "", err
	}

	token, err := s.tokenService.Issue(accountID, role)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return token, nil
}

// resolveAccount maps a verified destination to an account. Employers are
// checked first so an employer and candidate sharing a mobile resolve to the
// employer dashboard.
func (s *authService) resolveAccount(ctx context.Context, destination string) (string, string, error) {
	mobile := strings.TrimPrefix(destination, "+91")

	employer, err := s.employerRepo.FindByMobile(ctx, mobile)
	if err != nil {
		return "", "", fmt.Errorf("failed to find employer: %w", err)
	}
	if employer != nil {
		return employer.ID, RoleEmployer, nil
	}

	candidate, err := s.candidateRepo.FindByMobile(ctx, mobile)
	if err != nil {
		return "", "", fmt.Errorf("failed to find candidate: %w", err)
	}
	if candidate != nil {
		return candidate.ID, RoleCandidate, nil
	}

	return "", "", ErrAccountNotFound
}
