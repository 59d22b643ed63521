package dto

import "time"

type PlanResponse struct {
	ID                uint    `json:"id"`
	NameEn            string  `json:"name_en"`
	NameAr            string  `json:"name_ar"`
	Price             float64 `json:"price"`
	MonthsCount       int     `json:"months_count"`
	IsLifetime        bool    `json:"is_lifetime"`
	AdLimit           int     `json:"ad_limit"`
	FeaturedAdsCount  int     `json:"featured_ads_count"`
	UnlimitedFeatured bool    `json:"unlimited_featured"`
	PrioritySupport   bool    `json:"priority_support"`
	Analytics         bool    `json:"analytics"`
}

// ActivePlanResponse describes the plan currently governing the user.
// FreeTier is true when no live subscription exists and the baseline
// allowance applies.
type ActivePlanResponse struct {
	FreeTier     bool          `json:"free_tier"`
	Plan         *PlanResponse `json:"plan,omitempty"`
	ExpiresAt    *time.Time    `json:"expires_at,omitempty"`
	AdLimit      int           `json:"ad_limit"`
	ActiveAds    int64         `json:"active_ads"`
	RemainingAds int64         `json:"remaining_ads"`
}

type UpgradeRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

type UpgradePreviewResponse struct {
	PlanID        uint    `json:"plan_id"`
	PlanPrice     float64 `json:"plan_price"`
	RemainingDays int     `json:"remaining_days"`
	Credit        float64 `json:"credit"`
	Cost          float64 `json:"cost"`
}

type UpgradeResponse struct {
	PlanID    uint      `json:"plan_id"`
	Cost      float64   `json:"cost"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Admin plan master-data requests

type CreatePlanRequest struct {
	NameEn            string  `json:"name_en" binding:"required"`
	NameAr            string  `json:"name_ar" binding:"required"`
	Price             float64 `json:"price" binding:"min=0"`
	MonthsCount       int     `json:"months_count" binding:"required_without=IsLifetime,omitempty,min=1"`
	IsLifetime        bool    `json:"is_lifetime"`
	AdLimit           int     `json:"ad_limit" binding:"required,min=1"`
	FeaturedAdsCount  int     `json:"featured_ads_count" binding:"min=0"`
	UnlimitedFeatured bool    `json:"unlimited_featured"`
	PrioritySupport   bool    `json:"priority_support"`
	Analytics         bool    `json:"analytics"`
}

type UpdatePlanRequest struct {
	NameEn            *string  `json:"name_en"`
	NameAr            *string  `json:"name_ar"`
	Price             *float64 `json:"price" binding:"omitempty,min=0"`
	MonthsCount       *int     `json:"months_count" binding:"omitempty,min=1"`
	IsLifetime        *bool    `json:"is_lifetime"`
	AdLimit           *int     `json:"ad_limit" binding:"omitempty,min=1"`
	FeaturedAdsCount  *int     `json:"featured_ads_count" binding:"omitempty,min=0"`
	UnlimitedFeatured *bool    `json:"unlimited_featured"`
	PrioritySupport   *bool    `json:"priority_support"`
	Analytics         *bool    `json:"analytics"`
	IsActive          *bool    `json:"is_active"`
}
