package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OtpRepository stores OTP codes in redis with a TTL so codes survive
// process restarts and are shared across server instances.
type OtpRepository interface {
	// SetCode stores the bcrypt hash of an OTP code for the destination.
	SetCode(ctx context.Context, destination, hashedCode string, ttl time.Duration) error
	// GetCode returns the stored hash without consuming it, or "" when the
	// code expired or was never set.
	GetCode(ctx context.Context, destination string) (string, error)
	// ConsumeCode removes the stored hash (successful verification or
	// attempt exhaustion).
	ConsumeCode(ctx context.Context, destination string) error
	// IncrAttempts bumps the failed-verification counter and returns the
	// new value. The counter expires with the code.
	IncrAttempts(ctx context.Context, destination string, ttl time.Duration) (int64, error)
	// SetResendLock guards against rapid resends. Returns false when a
	// lock is already held.
	SetResendLock(ctx context.Context, destination string, ttl time.Duration) (bool, error)
}

type otpRepository struct {
	client *redis.Client
}

func NewOtpRepository(client *redis.Client) OtpRepository {
	return &otpRepository{client: client}
}

func (r *otpRepository) SetCode(ctx context.Context, destination, hashedCode string, ttl time.Duration) error {
	key := fmt.Sprintf("otp:code:%s", destination)
	if err := r.client.Set(ctx, key, hashedCode, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (r *otpRepository) GetCode(ctx context.Context, destination string) (string, error) {
	key := fmt.Sprintf("otp:code:%s", destination)

	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get otp: %w", err)
	}

	return val, nil
}

func (r *otpRepository) ConsumeCode(ctx context.Context, destination string) error {
	codeKey := fmt.Sprintf("otp:code:%s", destination)
	attemptsKey := fmt.Sprintf("otp:attempts:%s", destination)

	if err := r.client.Del(ctx, codeKey, attemptsKey).Err(); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	return nil
}

func (r *otpRepository) IncrAttempts(ctx context.Context, destination string, ttl time.Duration) (int64, error) {
	key := fmt.Sprintf("otp:attempts:%s", destination)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count otp attempts: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, fmt.Errorf("failed to expire otp attempts: %w", err)
		}
	}

	return count, nil
}

func (r *otpRepository) SetResendLock(ctx context.Context, destination string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("otp:resend:%s", destination)

	ok, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set resend lock: %w", err)
	}

	return ok, nil
}
