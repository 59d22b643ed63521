package dto

import "time"

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required,kwphone"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	FullName             string `json:"full_name" binding:"required,min=2,max=100"`
	Phone                string `json:"phone" binding:"required,kwphone"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

// RegisterResponse returns the challenge directly. Demo behavior only:
// there is no SMS gateway, so the code goes back to the caller.
type RegisterResponse struct {
	Phone            string `json:"phone"`
	Otp              string `json:"otp"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

type VerifyOtpRequest struct {
	Phone string `json:"phone" binding:"required,kwphone"`
	Code  string `json:"code" binding:"required"`
}

type SendOtpRequest struct {
	Phone string `json:"phone" binding:"required,kwphone"`
}

type SendOtpResponse struct {
	Phone            string `json:"phone"`
	Otp              string `json:"otp"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

type SocialLoginRequest struct {
	Provider       string `json:"provider" binding:"required,oneof=apple google"`
	ProviderUserID string `json:"provider_user_id" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Name           string `json:"name"`
}

// SocialLoginResponse either carries a token (account already linked) or a
// pending reference the client must present back after phone verification.
type SocialLoginResponse struct {
	Token                  string        `json:"token,omitempty"`
	ExpiresIn              int           `json:"expires_in,omitempty"`
	User                   *UserResponse `json:"user,omitempty"`
	NeedsPhoneVerification bool          `json:"needs_phone_verification"`
	PendingRef             string        `json:"pending_ref,omitempty"`
}

type LinkPhoneRequest struct {
	Phone      string `json:"phone" binding:"required,kwphone"`
	Code       string `json:"code" binding:"required"`
	PendingRef string `json:"pending_ref" binding:"required"`
}

type UserResponse struct {
	ID            uint       `json:"id"`
	FullName      string     `json:"full_name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email,omitempty"`
	Bio           string     `json:"bio,omitempty"`
	Avatar        string     `json:"avatar,omitempty"`
	GovernorateID *uint      `json:"governorate_id,omitempty"`
	Status        string     `json:"status"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // seconds
	User      UserResponse `json:"user"`
}
