package model

import (
	"gorm.io/gorm"
)

// Ad is a single marketplace listing. Only status=active and approved ads
// are visible on the storefront; moderation and featuring are admin
// controlled.
type Ad struct {
	gorm.Model
	TitleEn       string    `gorm:"column:title_en;not null"`
	TitleAr       string    `gorm:"column:title_ar;not null"`
	DescriptionEn string    `gorm:"column:description_en"`
	DescriptionAr string    `gorm:"column:description_ar"`
	Price         float64   `gorm:"column:price;not null"`
	IsNegotiable  bool      `gorm:"column:is_negotiable;not null;default:false"`
	Status        string    `gorm:"column:status;not null;default:'draft';index"`
	IsApproved    bool      `gorm:"column:is_approved;not null;default:false;index"`
	IsFeatured    bool      `gorm:"column:is_featured;not null;default:false"`
	ViewsCount    int64     `gorm:"column:views_count;not null;default:0"`
	CategoryID    uint      `gorm:"column:category_id;not null;index"`
	Category      Category  `gorm:"foreignKey:CategoryID"`
	ConditionID   uint      `gorm:"column:condition_id;not null"`
	PriceTypeID   uint      `gorm:"column:price_type_id;not null"`
	GovernorateID uint      `gorm:"column:governorate_id;not null;index"`
	UserID        uint      `gorm:"column:user_id;not null;index"`
	Images        []AdImage `gorm:"foreignKey:AdID"`
}

type AdImage struct {
	gorm.Model
	AdID      uint   `gorm:"column:ad_id;not null;index"`
	Path      string `gorm:"column:path;not null"`
	IsPrimary bool   `gorm:"column:is_primary;not null;default:false"`
}
