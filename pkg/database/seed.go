package database

import (
	"github.com/souqkw/marketplace/internal/model"
	"gorm.io/gorm"
)

// Seed creates initial master data if the tables are empty. Safe to run on
// every startup.
func Seed(db *gorm.DB) error {
	if err := seedGovernorates(db); err != nil {
		return err
	}
	if err := seedConditions(db); err != nil {
		return err
	}
	if err := seedPriceTypes(db); err != nil {
		return err
	}
	return seedPlans(db)
}

func seedGovernorates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Governorate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	governorates := []model.Governorate{
		{NameEn: "Al Asimah", NameAr: "العاصمة"},
		{NameEn: "Hawalli", NameAr: "حولي"},
		{NameEn: "Farwaniya", NameAr: "الفروانية"},
		{NameEn: "Mubarak Al-Kabeer", NameAr: "مبارك الكبير"},
		{NameEn: "Ahmadi", NameAr: "الأحمدي"},
		{NameEn: "Jahra", NameAr: "الجهراء"},
	}

	return db.Create(&governorates).Error
}

func seedConditions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Condition{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	conditions := []model.Condition{
		{NameEn: "New", NameAr: "جديد"},
		{NameEn: "Like New", NameAr: "شبه جديد"},
		{NameEn: "Used", NameAr: "مستعمل"},
	}

	return db.Create(&conditions).Error
}

func seedPriceTypes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.PriceType{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	priceTypes := []model.PriceType{
		{NameEn: "Fixed", NameAr: "سعر ثابت"},
		{NameEn: "Negotiable", NameAr: "قابل للتفاوض"},
		{NameEn: "Contact Seller", NameAr: "اتصل بالبائع"},
	}

	return db.Create(&priceTypes).Error
}

func seedPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.SubscriptionPlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plans := []model.SubscriptionPlan{
		{
			NameEn:           "Basic",
			NameAr:           "أساسي",
			Price:            5,
			MonthsCount:      1,
			AdLimit:          10,
			FeaturedAdsCount: 1,
		},
		{
			NameEn:           "Plus",
			NameAr:           "بلس",
			Price:            12,
			MonthsCount:      3,
			AdLimit:          30,
			FeaturedAdsCount: 5,
			Analytics:        true,
		},
		{
			NameEn:            "Pro",
			NameAr:            "برو",
			Price:             40,
			MonthsCount:       12,
			AdLimit:           100,
			UnlimitedFeatured: true,
			PrioritySupport:   true,
			Analytics:         true,
		},
	}

	return db.Create(&plans).Error
}
