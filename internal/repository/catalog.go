package repository

import (
	"context"
	"time"

	"github.com/souqkw/marketplace/internal/model"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"gorm.io/gorm"
)

// CatalogRepository serves the reference tables backing the storefront and
// the listing wizard, plus the admin-edited categories and banners.
type CatalogRepository interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	SaveCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, id uint) (*model.Category, error)

	ListConditions(ctx context.Context) ([]model.Condition, error)
	ListPriceTypes(ctx context.Context) ([]model.PriceType, error)
	ListGovernorates(ctx context.Context) ([]model.Governorate, error)

	ListActiveBanners(ctx context.Context, placement string, now time.Time) ([]model.Banner, error)
	CreateBanner(ctx context.Context, banner *model.Banner) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListCategories")

	query := r.db.WithContext(ctx).Model(&model.Category{}).Order("name_en ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.Category
	if err := query.Find(&categories).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list categories").
			Err(err).
			Log()
		return nil, err
	}

	return categories, nil
}

func (r *catalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetCategoryBySlug")

	var category model.Category
	result := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get category by slug").
				String("slug", slug).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &category, nil
}

func (r *catalogRepository) GetCategoryByID(ctx context.Context, id uint) (*model.Category, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetCategoryByID")

	var category model.Category
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&category)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get category").
				Uint("category_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &category, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateCategory")

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create category").
			String("slug", category.Slug).
			Err(err).
			Log()
		return err
	}

	return nil
}

func (r *catalogRepository) SaveCategory(ctx context.Context, category *model.Category) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "SaveCategory")

	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to save category").
			Uint("category_id", category.ID).
			Err(err).
			Log()
		return err
	}

	return nil
}

func (r *catalogRepository) ListConditions(ctx context.Context) ([]model.Condition, error) {
	var conditions []model.Condition
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&conditions).Error; err != nil {
		return nil, err
	}
	return conditions, nil
}

func (r *catalogRepository) ListPriceTypes(ctx context.Context) ([]model.PriceType, error) {
	var priceTypes []model.PriceType
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&priceTypes).Error; err != nil {
		return nil, err
	}
	return priceTypes, nil
}

func (r *catalogRepository) ListGovernorates(ctx context.Context) ([]model.Governorate, error) {
	var governorates []model.Governorate
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&governorates).Error; err != nil {
		return nil, err
	}
	return governorates, nil
}

func (r *catalogRepository) ListActiveBanners(ctx context.Context, placement string, now time.Time) ([]model.Banner, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListActiveBanners")

	var banners []model.Banner
	err := r.db.WithContext(ctx).
		Where("placement = ? AND is_active = ?", placement, true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Order("created_at DESC").
		Find(&banners).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list banners").
			String("placement", placement).
			Err(err).
			Log()
		return nil, err
	}

	return banners, nil
}

func (r *catalogRepository) CreateBanner(ctx context.Context, banner *model.Banner) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateBanner")

	if err := r.db.WithContext(ctx).Create(banner).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create banner").
			Err(err).
			Log()
		return err
	}

	return nil
}
