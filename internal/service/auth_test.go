package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*AuthService, *memoryUserRepo, *memorySocialRepo, *fakeKV) {
	userRepo := newMemoryUserRepo()
	socialRepo := newMemorySocialRepo()
	kv := newFakeKV()
	otpService := NewOtpService(kv, 10*time.Minute)
	jwtService := NewJWTService("test-secret", 24*time.Hour)
	authService := NewAuthService(userRepo, socialRepo, otpService, jwtService, kv, 30*time.Minute)
	return authService, userRepo, socialRepo, kv
}

func seedActiveUser(t *testing.T, userRepo *memoryUserRepo, phone, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{
		FullName: "Test User",
		Phone:    phone,
		Password: string(hash),
		Status:   constants.UserStatusActive,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))
	return user
}

func TestLoginRejectsMalformedPhoneWithoutStoreAccess(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()

	for _, phone := range []string{"", "123", "123456789", "12a45678", "+9651234"} {
		_, err := authService.Login(context.Background(), phone, "secret123")
		require.ErrorIs(t, err, apperrors.ErrValidation, "phone %q", phone)
	}

	require.Zero(t, userRepo.accessCount())
}

func TestLoginRejectsShortPasswordWithoutStoreAccess(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()

	_, err := authService.Login(context.Background(), "12345678", "short")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.Zero(t, userRepo.accessCount())
}

func TestLoginUnknownPhoneAndWrongPasswordAreIndistinguishable(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()
	seedActiveUser(t, userRepo, "12345678", "correct-password")

	_, errUnknown := authService.Login(context.Background(), "87654321", "correct-password")
	_, errWrongPass := authService.Login(context.Background(), "12345678", "wrong-password")

	require.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPass, apperrors.ErrInvalidCredentials)
	require.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestLoginSucceedsAndIssuesToken(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()
	seedActiveUser(t, userRepo, "12345678", "correct-password")

	resp, err := authService.Login(context.Background(), "12345678", "correct-password")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "12345678", resp.User.Phone)
}

func TestLoginBlockedForSuspendedAccountWithReason(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()
	user := seedActiveUser(t, userRepo, "12345678", "correct-password")
	user.Status = constants.UserStatusSuspended
	user.StatusReason = "policy violation"
	userRepo.users[0] = user

	_, err := authService.Login(context.Background(), "12345678", "correct-password")
	require.ErrorIs(t, err, apperrors.ErrAccountSuspended)
	require.Contains(t, err.Error(), "policy violation")
	require.Contains(t, err.Error(), constants.SupportContact)
}

func TestLoginBlockedForDeletedAccount(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()
	user := seedActiveUser(t, userRepo, "12345678", "correct-password")
	user.Status = constants.UserStatusDeleted
	userRepo.users[0] = user

	_, err := authService.Login(context.Background(), "12345678", "correct-password")
	require.ErrorIs(t, err, apperrors.ErrAccountDeleted)
}

func TestRegisterRejectsDuplicatePhone(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()
	seedActiveUser(t, userRepo, "12345678", "whatever123")

	_, err := authService.Register(context.Background(), &dto.RegisterRequest{
		FullName:             "Someone Else",
		Phone:                "12345678",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.ErrorIs(t, err, apperrors.ErrPhoneExists)
}

func TestRegisterRejectsMismatchedConfirmation(t *testing.T) {
	authService, _, _, _ := newAuthFixture()

	_, err := authService.Register(context.Background(), &dto.RegisterRequest{
		FullName:             "Someone",
		Phone:                "12345678",
		Password:             "secret123",
		PasswordConfirmation: "different",
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegisterThenVerifyActivatesExactlyOnce(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()

	reg, err := authService.Register(context.Background(), &dto.RegisterRequest{
		FullName:             "New User",
		Phone:                "12345678",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)
	require.Len(t, reg.Otp, 6)

	pending, err := userRepo.GetPendingByPhone(context.Background(), "12345678")
	require.NoError(t, err)
	require.Equal(t, constants.UserStatusInactive, pending.Status)

	resp, err := authService.VerifyOtp(context.Background(), "12345678", reg.Otp)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, constants.UserStatusActive, resp.User.Status)
	require.NotNil(t, resp.User.VerifiedAt)

	// The user is active and the challenge consumed: replaying the same
	// code finds no pending user.
	_, err = authService.VerifyOtp(context.Background(), "12345678", reg.Otp)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestVerifyOtpRejectsMalformedCode(t *testing.T) {
	authService, _, _, _ := newAuthFixture()

	for _, code := range []string{"", "12345", "1234567", "12345a"} {
		_, err := authService.VerifyOtp(context.Background(), "12345678", code)
		require.ErrorIs(t, err, apperrors.ErrInvalidOtpFormat, "code %q", code)
	}
}

func TestVerifyOtpWrongCodeDoesNotConsume(t *testing.T) {
	authService, _, _, _ := newAuthFixture()

	reg, err := authService.Register(context.Background(), &dto.RegisterRequest{
		FullName:             "New User",
		Phone:                "12345678",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)

	wrong := "000000"
	if reg.Otp == wrong {
		wrong = "000001"
	}

	_, err = authService.VerifyOtp(context.Background(), "12345678", wrong)
	require.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredOtp)

	// The correct code still works after a failed attempt.
	_, err = authService.VerifyOtp(context.Background(), "12345678", reg.Otp)
	require.NoError(t, err)
}

func TestVerifyOtpExpiredCodeFails(t *testing.T) {
	authService, _, _, kv := newAuthFixture()

	reg, err := authService.Register(context.Background(), &dto.RegisterRequest{
		FullName:             "New User",
		Phone:                "12345678",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)

	kv.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err = authService.VerifyOtp(context.Background(), "12345678", reg.Otp)
	require.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredOtp)
}

func TestLogoutInvalidatesAllTokens(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()
	user := seedActiveUser(t, userRepo, "12345678", "correct-password")

	require.NoError(t, authService.Logout(context.Background(), user.ID))

	updated, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.TokenVersion+1, updated.TokenVersion)
}

func TestSocialLoginNewAccountRequiresPhoneVerification(t *testing.T) {
	authService, _, socialRepo, _ := newAuthFixture()

	resp, err := authService.SocialLogin(context.Background(), &dto.SocialLoginRequest{
		Provider:       constants.ProviderGoogle,
		ProviderUserID: "google-uid-1",
		Email:          "user@example.com",
		Name:           "Google User",
	}, []byte(`{}`))
	require.NoError(t, err)
	require.True(t, resp.NeedsPhoneVerification)
	require.NotEmpty(t, resp.PendingRef)
	require.Empty(t, resp.Token)

	account, err := socialRepo.GetByProvider(context.Background(), constants.ProviderGoogle, "google-uid-1")
	require.NoError(t, err)
	require.True(t, account.IsPending())
}

func TestSocialLinkFlowCreatesActiveUserAndIssuesToken(t *testing.T) {
	authService, userRepo, socialRepo, _ := newAuthFixture()

	social, err := authService.SocialLogin(context.Background(), &dto.SocialLoginRequest{
		Provider:       constants.ProviderApple,
		ProviderUserID: "apple-uid-1",
		Name:           "Apple User",
	}, []byte(`{}`))
	require.NoError(t, err)
	require.True(t, social.NeedsPhoneVerification)

	sent, err := authService.SendPhoneOtp(context.Background(), "55554444")
	require.NoError(t, err)

	resp, err := authService.VerifyPhoneOtpAndLink(context.Background(), "55554444", sent.Otp, social.PendingRef)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, constants.UserStatusActive, resp.User.Status)
	require.Equal(t, "Apple User", resp.User.FullName)

	account, err := socialRepo.GetByProvider(context.Background(), constants.ProviderApple, "apple-uid-1")
	require.NoError(t, err)
	require.False(t, account.IsPending())

	user, err := userRepo.GetByPhone(context.Background(), "55554444")
	require.NoError(t, err)
	require.Equal(t, *account.UserID, user.ID)

	// Subsequent social logins for the linked account go straight to a
	// token.
	again, err := authService.SocialLogin(context.Background(), &dto.SocialLoginRequest{
		Provider:       constants.ProviderApple,
		ProviderUserID: "apple-uid-1",
	}, []byte(`{}`))
	require.NoError(t, err)
	require.False(t, again.NeedsPhoneVerification)
	require.NotEmpty(t, again.Token)
}

func TestSocialLinkFlowAttachesToExistingUser(t *testing.T) {
	authService, userRepo, _, _ := newAuthFixture()
	existing := seedActiveUser(t, userRepo, "55554444", "secret123")

	social, err := authService.SocialLogin(context.Background(), &dto.SocialLoginRequest{
		Provider:       constants.ProviderGoogle,
		ProviderUserID: "google-uid-2",
	}, []byte(`{}`))
	require.NoError(t, err)

	sent, err := authService.SendPhoneOtp(context.Background(), "55554444")
	require.NoError(t, err)

	resp, err := authService.VerifyPhoneOtpAndLink(context.Background(), "55554444", sent.Otp, social.PendingRef)
	require.NoError(t, err)
	require.Equal(t, existing.ID, resp.User.ID)
}

func TestVerifyPhoneOtpAndLinkRejectsUnknownPendingRef(t *testing.T) {
	authService, _, _, _ := newAuthFixture()

	sent, err := authService.SendPhoneOtp(context.Background(), "55554444")
	require.NoError(t, err)

	_, err = authService.VerifyPhoneOtpAndLink(context.Background(), "55554444", sent.Otp, "no-such-ref")
	require.ErrorIs(t, err, apperrors.ErrNoPendingSocialAccount)
}

func TestLinkOtpIsScopedToTheLinkFlow(t *testing.T) {
	authService, _, _, _ := newAuthFixture()

	// A registration challenge must not satisfy the linking flow even
	// for the same phone.
	reg, err := authService.Register(context.Background(), &dto.RegisterRequest{
		FullName:             "New User",
		Phone:                "12345678",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)

	_, err = authService.VerifyPhoneOtpAndLink(context.Background(), "12345678", reg.Otp, "any-ref")
	require.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredOtp)
}
