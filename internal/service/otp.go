package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/souqkw/marketplace/internal/constants"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"github.com/souqkw/marketplace/pkg/store"
)

// OtpPurpose namespaces challenges so the registration and social-linking
// flows cannot consume each other's codes.
type OtpPurpose string

const (
	OtpPurposeRegister OtpPurpose = "register"
	OtpPurposeLink     OtpPurpose = "link"
)

var otpCodeRe = regexp.MustCompile(`^\d{6}$`)

// OtpService issues and verifies single-use phone challenges over the TTL
// store. One challenge per phone per purpose; issuing again replaces the
// previous one.
type OtpService struct {
	kv  store.KV
	ttl time.Duration
}

func NewOtpService(kv store.KV, ttl time.Duration) *OtpService {
	return &OtpService{
		kv:  kv,
		ttl: ttl,
	}
}

// TTLSeconds returns the challenge lifetime in whole seconds.
func (s *OtpService) TTLSeconds() int {
	return int(s.ttl.Seconds())
}

func challengeKey(purpose OtpPurpose, phone string) string {
	if purpose == OtpPurposeLink {
		return constants.StoreKeyOtpLink + phone
	}
	return constants.StoreKeyOtpRegister + phone
}

// Issue generates a zero-padded 6-digit code and stores it under the
// purpose-namespaced key with the configured TTL.
func (s *OtpService) Issue(ctx context.Context, purpose OtpPurpose, phone string) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Issue")

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.kv.Set(ctx, challengeKey(purpose, phone), code, s.ttl); err != nil {
		logger.ErrorWithContext(ctx, "Failed to store OTP challenge").
			String("purpose", string(purpose)).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "OTP challenge issued").
		String("purpose", string(purpose)).
		Int("ttl_seconds", s.TTLSeconds()).
		Log()

	return code, nil
}

// Verify checks the submitted code against the stored challenge and
// consumes it on success. Mismatched or missing challenges leave the
// store untouched.
func (s *OtpService) Verify(ctx context.Context, purpose OtpPurpose, phone, code string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Verify")

	if !otpCodeRe.MatchString(code) {
		return apperrors.ErrInvalidOtpFormat
	}

	key := challengeKey(purpose, phone)

	stored, found, err := s.kv.Get(ctx, key)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to read OTP challenge").
			String("purpose", string(purpose)).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Exact match first, then expiry: an absent key means the challenge
	// expired or was never issued, and both report the same error.
	if !found || stored != code {
		logger.WarnWithContext(ctx, "OTP verification failed").
			String("purpose", string(purpose)).
			Bool("found", found).
			Log()
		return apperrors.ErrInvalidOrExpiredOtp
	}

	// Single use: consume immediately on success.
	if err := s.kv.Delete(ctx, key); err != nil {
		logger.ErrorWithContext(ctx, "Failed to consume OTP challenge").
			String("purpose", string(purpose)).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "OTP verified").
		String("purpose", string(purpose)).
		Log()

	return nil
}

// ValidCodeFormat reports whether the input looks like a 6-digit code.
func ValidCodeFormat(code string) bool {
	return otpCodeRe.MatchString(code)
}
