package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	"github.com/souqkw/marketplace/internal/repository"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"github.com/souqkw/marketplace/pkg/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var phoneRe = regexp.MustCompile(`^\d{8}$`)

// AuthService authenticates users by phone and password, onboards new
// users through the register-then-verify flow, bridges social logins to a
// phone-verified local account and issues bearer tokens.
type AuthService struct {
	userRepo   repository.UserRepository
	socialRepo repository.SocialAccountRepository
	otpService *OtpService
	jwtService *JWTService
	kv         store.KV
	pendingTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	socialRepo repository.SocialAccountRepository,
	otpService *OtpService,
	jwtService *JWTService,
	kv store.KV,
	pendingTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		socialRepo: socialRepo,
		otpService: otpService,
		jwtService: jwtService,
		kv:         kv,
		pendingTTL: pendingTTL,
	}
}

// ValidPhone reports whether the input is a Kuwait-style 8-digit local
// number.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		FullName:      user.FullName,
		Phone:         user.Phone,
		Email:         user.Email,
		Bio:           user.Bio,
		Avatar:        user.Avatar,
		GovernorateID: user.GovernorateID,
		Status:        user.Status,
		VerifiedAt:    user.VerifiedAt,
		CreatedAt:     user.CreatedAt,
	}
}

// statusGate rejects logins for suspended and deleted accounts, including
// the stored reason text and the support contact in the message.
func statusGate(user *model.User) error {
	var base *apperrors.DomainError
	var label string

	switch user.Status {
	case constants.UserStatusSuspended:
		base = apperrors.ErrAccountSuspended
		label = "suspended"
	case constants.UserStatusDeleted:
		base = apperrors.ErrAccountDeleted
		label = "deleted"
	default:
		return nil
	}

	message := fmt.Sprintf("your account has been %s", label)
	if user.StatusReason != "" {
		message = fmt.Sprintf("%s: %s", message, user.StatusReason)
	}
	message = fmt.Sprintf("%s. Contact %s for assistance", message, constants.SupportContact)

	return apperrors.WithMessage(base, message)
}

// Login authenticates by phone and password. Unknown phone and wrong
// password return the same generic error to avoid user enumeration; the
// input checks run before any store lookup.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	if !ValidPhone(phone) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "phone number must be exactly 8 digits")
	}
	if len(password) < constants.MinPasswordChars {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "password must be at least 6 characters")
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.InfoWithContext(ctx, "Login failed: phone not found").
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		logger.WarnWithContext(ctx, "Login failed: password mismatch").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := statusGate(user); err != nil {
		logger.WarnWithContext(ctx, "Login blocked by account status").
			Uint("user_id", user.ID).
			String("status", user.Status).
			Log()
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last login").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		// Continue even if the stamp fails.
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		Log()

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.jwtService.Expiry().Seconds()),
		User:      toUserResponse(user),
	}, nil
}

// Register creates an inactive user and issues a registration OTP. The
// code is returned to the caller because there is no SMS gateway; a
// production deployment must deliver it out of band instead.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	if !ValidPhone(req.Phone) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "phone number must be exactly 8 digits")
	}
	if len(req.Password) < constants.MinPasswordChars {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "password must be at least 6 characters")
	}
	if req.Password != req.PasswordConfirmation {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "password confirmation does not match")
	}

	exists, err := s.userRepo.PhoneExists(ctx, req.Phone)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrPhoneExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		FullName: req.FullName,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Status:   constants.UserStatusInactive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	code, err := s.otpService.Issue(ctx, OtpPurposeRegister, req.Phone)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User registered, awaiting verification").
		Uint("user_id", user.ID).
		Log()

	return &dto.RegisterResponse{
		Phone:            req.Phone,
		Otp:              code,
		ExpiresInSeconds: s.otpService.TTLSeconds(),
	}, nil
}

// VerifyOtp completes registration: the pending user becomes active, the
// challenge is consumed and a bearer token is issued. A consumed or
// expired challenge never activates anyone.
func (s *AuthService) VerifyOtp(ctx context.Context, phone, code string) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "VerifyOtp")

	if !ValidCodeFormat(code) {
		return nil, apperrors.ErrInvalidOtpFormat
	}

	user, err := s.userRepo.GetPendingByPhone(ctx, phone)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.otpService.Verify(ctx, OtpPurposeRegister, phone, code); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.Activate(ctx, user.ID, now); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user.Status = constants.UserStatusActive
	user.VerifiedAt = &now

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User verified and activated").
		Uint("user_id", user.ID).
		Log()

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.jwtService.Expiry().Seconds()),
		User:      toUserResponse(user),
	}, nil
}

// Logout revokes every outstanding bearer token for the user by bumping
// the token version. Log-out-everywhere is deliberate.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.userRepo.UpdateTokenVersion(ctx, userID, user.TokenVersion+1); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out everywhere").
		Uint("user_id", userID).
		Log()

	return nil
}

// SocialLogin handles a third-party callback. A linked account logs in
// directly; otherwise a pending social account is recorded and the caller
// receives an ephemeral reference to present back after phone
// verification.
func (s *AuthService) SocialLogin(ctx context.Context, req *dto.SocialLoginRequest, rawProfile []byte) (*dto.SocialLoginResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "SocialLogin")

	account, err := s.socialRepo.GetByProvider(ctx, req.Provider, req.ProviderUserID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if account != nil && !account.IsPending() {
		user, err := s.userRepo.GetByID(ctx, *account.UserID)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}

		if err := statusGate(user); err != nil {
			return nil, err
		}

		token, err := s.jwtService.GenerateToken(user)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}

		userResp := toUserResponse(user)
		logger.InfoWithContext(ctx, "Social login for linked account").
			Uint("user_id", user.ID).
			String("provider", req.Provider).
			Log()

		return &dto.SocialLoginResponse{
			Token:     token,
			ExpiresIn: int(s.jwtService.Expiry().Seconds()),
			User:      &userResp,
		}, nil
	}

	if account == nil {
		account = &model.SocialAccount{
			Provider:       req.Provider,
			ProviderUserID: req.ProviderUserID,
			Email:          req.Email,
			Name:           req.Name,
			Profile:        datatypes.JSON(rawProfile),
		}
		if err := s.socialRepo.Create(ctx, account); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	ref := uuid.NewString()
	refKey := constants.StoreKeySocialPending + ref
	if err := s.kv.Set(ctx, refKey, fmt.Sprintf("%d", account.ID), s.pendingTTL); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Social login pending phone verification").
		Uint("social_account_id", account.ID).
		String("provider", req.Provider).
		Log()

	return &dto.SocialLoginResponse{
		NeedsPhoneVerification: true,
		PendingRef:             ref,
	}, nil
}

// SendPhoneOtp issues a linking challenge for the social flow. Demo path:
// the code is returned to the caller.
func (s *AuthService) SendPhoneOtp(ctx context.Context, phone string) (*dto.SendOtpResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "SendPhoneOtp")

	if !ValidPhone(phone) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "phone number must be exactly 8 digits")
	}

	code, err := s.otpService.Issue(ctx, OtpPurposeLink, phone)
	if err != nil {
		return nil, err
	}

	return &dto.SendOtpResponse{
		Phone:            phone,
		Otp:              code,
		ExpiresInSeconds: s.otpService.TTLSeconds(),
	}, nil
}

// VerifyPhoneOtpAndLink validates the linking challenge, resolves the
// pending social account, finds or creates the user for the verified
// phone, links the two and clears every ephemeral key used by the flow.
func (s *AuthService) VerifyPhoneOtpAndLink(ctx context.Context, phone, code, pendingRef string) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "VerifyPhoneOtpAndLink")

	if !ValidPhone(phone) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "phone number must be exactly 8 digits")
	}

	// Challenge first: exact match, then expiry (an expired key is gone
	// from the store). Consumed on success.
	if err := s.otpService.Verify(ctx, OtpPurposeLink, phone, code); err != nil {
		return nil, err
	}

	refKey := constants.StoreKeySocialPending + pendingRef
	rawID, found, err := s.kv.Get(ctx, refKey)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !found {
		return nil, apperrors.ErrNoPendingSocialAccount
	}

	var accountID uint
	if _, err := fmt.Sscanf(rawID, "%d", &accountID); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	account, err := s.socialRepo.GetByID(ctx, accountID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrSocialAccountNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.findOrCreateVerifiedUser(ctx, phone, account)
	if err != nil {
		return nil, err
	}

	if account.IsPending() {
		if err := s.socialRepo.Link(ctx, account.ID, user.ID); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	} else if *account.UserID != user.ID {
		// A linked account never moves to another user.
		return nil, apperrors.ErrSocialAccountNotFound
	}

	// Clear the remaining ephemeral state; the challenge was consumed by
	// Verify above.
	if err := s.kv.Delete(ctx, refKey); err != nil {
		logger.WarnWithContext(ctx, "Failed to clear pending social reference").
			Err(err).
			Log()
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Social account linked to verified phone").
		Uint("user_id", user.ID).
		Uint("social_account_id", account.ID).
		Log()

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.jwtService.Expiry().Seconds()),
		User:      toUserResponse(user),
	}, nil
}

// findOrCreateVerifiedUser resolves the user for a freshly verified phone.
// New users skip the OTP registration step entirely: the phone itself was
// just verified, so they start active with a random unguessable password.
func (s *AuthService) findOrCreateVerifiedUser(ctx context.Context, phone string, account *model.SocialAccount) (*model.User, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user != nil {
		if err := statusGate(user); err != nil {
			return nil, err
		}

		if user.Status == constants.UserStatusInactive {
			now := time.Now()
			if err := s.userRepo.Activate(ctx, user.ID, now); err != nil {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			user.Status = constants.UserStatusActive
			user.VerifiedAt = &now
		}

		return user, nil
	}

	password, err := randomPassword()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	fullName := account.Name
	if fullName == "" {
		fullName = "User " + phone
	}

	now := time.Now()
	user = &model.User{
		FullName:   fullName,
		Phone:      phone,
		Email:      account.Email,
		Password:   string(hashedPassword),
		Status:     constants.UserStatusActive,
		VerifiedAt: &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return user, nil
}

func randomPassword() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random password: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
