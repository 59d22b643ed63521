package constants

// Application Information
const (
	AppName    = "Souq Marketplace API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Ephemeral Store Key Prefixes
// OTP challenges are namespaced by purpose so the registration and
// social-linking flows can never consume each other's codes.
const (
	StoreKeyPrefix        = "souq:"
	StoreKeyOtpRegister   = StoreKeyPrefix + "otp:register:"
	StoreKeyOtpLink       = StoreKeyPrefix + "otp:link:"
	StoreKeySocialPending = StoreKeyPrefix + "social:pending:"
	StoreKeyRateLimit     = StoreKeyPrefix + "ratelimit:"
)

// Phone / OTP formats
const (
	PhoneLength      = 8 // Kuwait-style local number, digits only
	OtpLength        = 6
	MinPasswordChars = 6
)

// SupportContact is surfaced in suspended/deleted account messages.
const SupportContact = "support@souq-kw.com"

// User lifecycle statuses
const (
	UserStatusInactive  = "inactive"
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusDeleted   = "deleted"
)

// Ad lifecycle statuses
const (
	AdStatusDraft    = "draft"
	AdStatusActive   = "active"
	AdStatusInactive = "inactive"
	AdStatusExpired  = "expired"
	AdStatusSold     = "sold"
	AdStatusDelete   = "delete"
)

// Social providers accepted by the linking flow
const (
	ProviderApple  = "apple"
	ProviderGoogle = "google"
)
