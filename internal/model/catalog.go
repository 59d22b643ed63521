package model

import (
	"time"

	"gorm.io/gorm"
)

// Catalog reference tables: simple bilingual master data edited by admins.

type Category struct {
	gorm.Model
	NameEn   string `gorm:"column:name_en;not null"`
	NameAr   string `gorm:"column:name_ar;not null"`
	Slug     string `gorm:"column:slug;uniqueIndex;not null"`
	Icon     string `gorm:"column:icon"`
	IsActive bool   `gorm:"column:is_active;not null;default:true"`
}

type Condition struct {
	gorm.Model
	NameEn string `gorm:"column:name_en;not null"`
	NameAr string `gorm:"column:name_ar;not null"`
}

type PriceType struct {
	gorm.Model
	NameEn string `gorm:"column:name_en;not null"`
	NameAr string `gorm:"column:name_ar;not null"`
}

type Governorate struct {
	gorm.Model
	NameEn string `gorm:"column:name_en;not null"`
	NameAr string `gorm:"column:name_ar;not null"`
}

// Banner is storefront promotional content with an active display window.
type Banner struct {
	gorm.Model
	TitleEn   string     `gorm:"column:title_en"`
	TitleAr   string     `gorm:"column:title_ar"`
	Image     string     `gorm:"column:image;not null"`
	Link      string     `gorm:"column:link"`
	Placement string     `gorm:"column:placement;not null;default:'home';index"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	StartsAt  *time.Time `gorm:"column:starts_at"`
	EndsAt    *time.Time `gorm:"column:ends_at"`
}
