package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FullName          string     `gorm:"column:full_name;not null"`
	Phone             string     `gorm:"column:phone;uniqueIndex;not null;size:8"`
	Email             string     `gorm:"column:email"`
	Password          string     `gorm:"column:password;not null"`
	Status            string     `gorm:"column:status;not null;default:'inactive';index"`
	StatusReason      string     `gorm:"column:status_reason"`
	Bio               string     `gorm:"column:bio"`
	Avatar            string     `gorm:"column:avatar"`
	GovernorateID     *uint      `gorm:"column:governorate_id;index"`
	ProfileViewCounts int64      `gorm:"column:profile_view_counts;not null;default:0"`
	VerifiedAt        *time.Time `gorm:"column:verified_at"`
	LastLogin         time.Time  `gorm:"column:last_login"`
	TokenVersion      int        `gorm:"column:token_version;default:1;not null"`
}

// SocialAccount represents a third-party identity. UserID is nil while the
// account is pending phone verification; once linked it never changes.
type SocialAccount struct {
	gorm.Model
	Provider       string         `gorm:"column:provider;not null;uniqueIndex:idx_social_provider_uid"`
	ProviderUserID string         `gorm:"column:provider_user_id;not null;uniqueIndex:idx_social_provider_uid"`
	Email          string         `gorm:"column:email"`
	Name           string         `gorm:"column:name"`
	UserID         *uint          `gorm:"column:user_id;index"`
	Profile        datatypes.JSON `gorm:"column:profile"`
}

// IsPending reports whether the social account is not yet associated with
// a local user.
func (s *SocialAccount) IsPending() bool {
	return s.UserID == nil
}
