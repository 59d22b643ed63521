package database

import (
	"github.com/souqkw/marketplace/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.SocialAccount{},
		&model.SubscriptionPlan{},
		&model.UserSubscription{},
		&model.Category{},
		&model.Condition{},
		&model.PriceType{},
		&model.Governorate{},
		&model.Banner{},
		&model.Ad{},
		&model.AdImage{},
	)
}
