package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Desktoo/WorkEzy-demo/internal/notifier"
	"github.com/Desktoo/WorkEzy-demo/internal/repository"
)

// fakeOtpRepo keeps OTP state in memory, standing in for redis.
type fakeOtpRepo struct {
	codes    map[string]string
	attempts map[string]int64
	locked   map[string]bool
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{
		codes:    make(map[string]string),
		attempts: make(map[string]int64),
		locked:   make(map[string]bool),
	}
}

func (f *fakeOtpRepo) SetCode(ctx context.Context, destination, hashedCode string, ttl time.Duration) error {
	f.codes[destination] = hashedCode
	return nil
}

func (f *fakeOtpRepo) GetCode(ctx context.Context, destination string) (string, error) {
	return f.codes[destination], nil
}

func (f *fakeOtpRepo) ConsumeCode(ctx context.Context, destination string) error {
	delete(f.codes, destination)
	delete(f.attempts, destination)
	return nil
}

func (f *fakeOtpRepo) IncrAttempts(ctx context.Context, destination string, ttl time.Duration) (int64, error) {
	f.attempts[destination]++
	return f.attempts[destination], nil
}

func (f *fakeOtpRepo) SetResendLock(ctx context.Context, destination string, ttl time.Duration) (bool, error) {
	if f.locked[destination] {
		return false, nil
	}
	f.locked[destination] = true
	return true, nil
}

type captureSMSChannel struct {
	lastCode string
}

func (c *captureSMSChannel) SendOTP(ctx context.Context, payload notifier.OTPPayload) error {
	c.lastCode = payload.Code
	return nil
}

func newAuthServiceForTest(db *sql.DB, otpRepo repository.OtpRepository, sms notifier.SMSChannel) AuthService {
	return NewAuthService(
		otpRepo,
		repository.NewEmployerRepository(db),
		repository.NewCandidateRepository(db),
		sms,
		notifier.NewEmailChannel(),
		NewTokenService("test-secret", time.Hour),
	)
}

func TestAuthService_SendOTP(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	t.Run("DeliversOverSMS", func(t *testing.T) {
		otpRepo := newFakeOtpRepo()
		sms := &captureSMSChannel{}
		service := newAuthServiceForTest(db, otpRepo, sms)

		err := service.SendOTP(ctx, "+919876543210")
		require.NoError(t, err)
		assert.Len(t, sms.lastCode, 6)
		assert.NotEmpty(t, otpRepo.codes["+919876543210"])
		// Stored form must be a hash, never the raw code.
		assert.NotEqual(t, sms.lastCode, otpRepo.codes["+919876543210"])
	})

	t.Run("ResendThrottled", func(t *testing.T) {
		otpRepo := newFakeOtpRepo()
		service := newAuthServiceForTest(db, otpRepo, &captureSMSChannel{})

		require.NoError(t, service.SendOTP(ctx, "9876543210"))
		err := service.SendOTP(ctx, "9876543210")
		assert.ErrorIs(t, err, ErrOTPResendThrottled)
	})

	t.Run("RejectsBadDestination", func(t *testing.T) {
		service := newAuthServiceForTest(db, newFakeOtpRepo(), &captureSMSChannel{})

		err := service.SendOTP(ctx, "12345")
		assert.ErrorIs(t, err, ErrInvalidDestination)
	})
}

func TestAuthService_VerifyOTP(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	destination := "9876543210"

	seedCode := func(otpRepo *fakeOtpRepo, code string) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
		require.NoError(t, err)
		otpRepo.codes[destination] = string(hashed)
	}

	t.Run("IssuesEmployerToken", func(t *testing.T) {
		otpRepo := newFakeOtpRepo()
		seedCode(otpRepo, "123456")
		service := newAuthServiceForTest(db, otpRepo, &captureSMSChannel{})

		mock.ExpectQuery("SELECT id, name, email, mobile").
			WithArgs(destination).
			WillReturnRows(employerRowsForTest("emp-1"))

		token, err := service.VerifyOTP(ctx, destination, "123456")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := NewTokenService("test-secret", time.Hour).Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "emp-1", claims.Subject)
		assert.Equal(t, RoleEmployer, claims.Role)

		// Code is single use.
		_, err = service.VerifyOTP(ctx, destination, "123456")
		assert.ErrorIs(t, err, ErrOTPExpired)
	})

	t.Run("WrongCodeBurnsAttempts", func(t *testing.T) {
		otpRepo := newFakeOtpRepo()
		seedCode(otpRepo, "123456")
		service := newAuthServiceForTest(db, otpRepo, &captureSMSChannel{})

		for i := 0; i < otpMaxAttempts; i++ {
			_, err := service.VerifyOTP(ctx, destination, "000000")
			assert.ErrorIs(t, err, ErrInvalidOTPCode)
		}

		// Attempt limit consumed the code, so even the right one is gone.
		_, err := service.VerifyOTP(ctx, destination, "123456")
		assert.ErrorIs(t, err, ErrOTPExpired)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		otpRepo := newFakeOtpRepo()
		seedCode(otpRepo, "123456")
		service := newAuthServiceForTest(db, otpRepo, &captureSMSChannel{})

		mock.ExpectQuery("SELECT id, name, email, mobile").
			WithArgs(destination).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT id, full_name, mobile").
			WithArgs(destination).
			WillReturnError(sql.ErrNoRows)

		_, err := service.VerifyOTP(ctx, destination, "123456")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
