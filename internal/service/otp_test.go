package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	apperrors "github.com/souqkw/marketplace/internal/errors"
)

func TestIssueProducesSixDigitCodes(t *testing.T) {
	otpService := NewOtpService(newFakeKV(), 10*time.Minute)

	for i := 0; i < 50; i++ {
		code, err := otpService.Issue(context.Background(), OtpPurposeRegister, "12345678")
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.True(t, ValidCodeFormat(code))
	}
}

func TestReissueReplacesPreviousChallenge(t *testing.T) {
	otpService := NewOtpService(newFakeKV(), 10*time.Minute)

	first, err := otpService.Issue(context.Background(), OtpPurposeRegister, "12345678")
	require.NoError(t, err)

	var second string
	for {
		second, err = otpService.Issue(context.Background(), OtpPurposeRegister, "12345678")
		require.NoError(t, err)
		if second != first {
			break
		}
	}

	require.ErrorIs(t, otpService.Verify(context.Background(), OtpPurposeRegister, "12345678", first), apperrors.ErrInvalidOrExpiredOtp)
	require.NoError(t, otpService.Verify(context.Background(), OtpPurposeRegister, "12345678", second))
}

func TestVerifyConsumesChallengeOnSuccess(t *testing.T) {
	otpService := NewOtpService(newFakeKV(), 10*time.Minute)

	code, err := otpService.Issue(context.Background(), OtpPurposeLink, "12345678")
	require.NoError(t, err)

	require.NoError(t, otpService.Verify(context.Background(), OtpPurposeLink, "12345678", code))
	require.ErrorIs(t, otpService.Verify(context.Background(), OtpPurposeLink, "12345678", code), apperrors.ErrInvalidOrExpiredOtp)
}

func TestVerifyPurposesDoNotOverlap(t *testing.T) {
	otpService := NewOtpService(newFakeKV(), 10*time.Minute)

	code, err := otpService.Issue(context.Background(), OtpPurposeRegister, "12345678")
	require.NoError(t, err)

	require.ErrorIs(t, otpService.Verify(context.Background(), OtpPurposeLink, "12345678", code), apperrors.ErrInvalidOrExpiredOtp)
}
