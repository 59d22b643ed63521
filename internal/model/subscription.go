package model

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPlan is admin-edited reference data. Feature flags are
// explicit typed fields, not a duck-typed bag.
type SubscriptionPlan struct {
	gorm.Model
	NameEn            string  `gorm:"column:name_en;not null"`
	NameAr            string  `gorm:"column:name_ar;not null"`
	Price             float64 `gorm:"column:price;not null"`
	MonthsCount       int     `gorm:"column:months_count;not null;default:1"`
	IsLifetime        bool    `gorm:"column:is_lifetime;not null;default:false"`
	AdLimit           int     `gorm:"column:ad_limit;not null"`
	FeaturedAdsCount  int     `gorm:"column:featured_ads_count;not null;default:0"`
	UnlimitedFeatured bool    `gorm:"column:unlimited_featured;not null;default:false"`
	PrioritySupport   bool    `gorm:"column:priority_support;not null;default:false"`
	Analytics         bool    `gorm:"column:analytics;not null;default:false"`
	IsActive          bool    `gorm:"column:is_active;not null;default:true"`
}

// UserSubscription joins a user to a plan. The unique index on user_id
// enforces at most one subscription row per user; plan changes upsert this
// row. Expiry is evaluated lazily wherever the subscription is read.
type UserSubscription struct {
	gorm.Model
	UserID    uint             `gorm:"column:user_id;uniqueIndex;not null"`
	PlanID    uint             `gorm:"column:plan_id;not null"`
	Plan      SubscriptionPlan `gorm:"foreignKey:PlanID"`
	ExpiresAt time.Time        `gorm:"column:expires_at;not null"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
}

// IsLive reports whether the subscription is active and unexpired at t.
func (s *UserSubscription) IsLive(t time.Time) bool {
	return s.IsActive && s.ExpiresAt.After(t)
}
