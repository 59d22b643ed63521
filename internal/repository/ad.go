package repository

import (
	"context"
	"time"

	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"gorm.io/gorm"
)

// AdRepository is the listing store: the storefront query builder, the
// detail fetch with its view-count side effect, and the quota-gated
// insert used by the seller flow.
type AdRepository interface {
	List(ctx context.Context, filter dto.AdFilter) ([]model.Ad, int64, error)
	// GetVisibleByID returns an active approved ad and increments its view
	// counter. Every fetch counts; there is no per-viewer dedup.
	GetVisibleByID(ctx context.Context, id uint) (*model.Ad, error)
	ListByUser(ctx context.Context, userID uint, page, perPage int) ([]model.Ad, int64, error)
	CountActiveByUser(ctx context.Context, userID uint) (int64, error)
	// CreateWithQuota counts the user's active ads and inserts the new ad
	// in one transaction, so two concurrent submissions cannot both pass
	// the quota check.
	CreateWithQuota(ctx context.Context, ad *model.Ad, adLimit int) error
}

type adRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

// buildListQuery assembles the conjunctive filter chain. The bilingual
// text search is the only disjunctive step, scoped by filter.SearchScope.
func (r *adRepository) buildListQuery(ctx context.Context, filter dto.AdFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Ad{}).
		Joins("JOIN categories ON categories.id = ads.category_id").
		Where("ads.status = ? AND ads.is_approved = ?", constants.AdStatusActive, true)

	if filter.CategorySlug != "" {
		query = query.Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.GovernorateID != nil {
		query = query.Where("ads.governorate_id = ?", *filter.GovernorateID)
	}
	if filter.ConditionID != nil {
		query = query.Where("ads.condition_id = ?", *filter.ConditionID)
	}
	if filter.PriceTypeID != nil {
		query = query.Where("ads.price_type_id = ?", *filter.PriceTypeID)
	}
	if filter.MinPrice != nil {
		query = query.Where("ads.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("ads.price <= ?", *filter.MaxPrice)
	}
	if filter.Negotiable != nil {
		query = query.Where("ads.is_negotiable = ?", *filter.Negotiable)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		switch filter.SearchScope {
		case constants.SearchScopeProduct:
			query = query.Where(
				"ads.title_en ILIKE ? OR ads.title_ar ILIKE ? OR ads.description_en ILIKE ? OR ads.description_ar ILIKE ?",
				pattern, pattern, pattern, pattern,
			)
		case constants.SearchScopeCategory:
			query = query.Where(
				"categories.name_en ILIKE ? OR categories.name_ar ILIKE ?",
				pattern, pattern,
			)
		default:
			query = query.Where(
				"ads.title_en ILIKE ? OR ads.title_ar ILIKE ? OR ads.description_en ILIKE ? OR ads.description_ar ILIKE ? OR categories.name_en ILIKE ? OR categories.name_ar ILIKE ?",
				pattern, pattern, pattern, pattern, pattern, pattern,
			)
		}
	}

	return query
}

func orderClause(sort string) string {
	switch sort {
	case constants.SortOldest:
		return "ads.created_at ASC"
	case constants.SortPriceLow:
		return "ads.price ASC"
	case constants.SortPriceHigh:
		return "ads.price DESC"
	case constants.SortPopular:
		return "ads.views_count DESC"
	default:
		return "ads.created_at DESC"
	}
}

func (r *adRepository) List(ctx context.Context, filter dto.AdFilter) ([]model.Ad, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "List")

	start := time.Now()
	query := r.buildListQuery(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count ads").
			Err(err).
			Log()
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage

	var ads []model.Ad
	err := query.
		Preload("Images").
		Order(orderClause(filter.Sort)).
		Limit(filter.PerPage).
		Offset(offset).
		Find(&ads).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list ads").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Ads listed").
		Int64("total", total).
		Int("returned_count", len(ads)).
		String("sort", filter.Sort).
		Duration(time.Since(start)).
		Log()

	return ads, total, nil
}

func (r *adRepository) GetVisibleByID(ctx context.Context, id uint) (*model.Ad, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetVisibleByID")

	var ad model.Ad
	result := r.db.WithContext(ctx).
		Preload("Images").
		Where("id = ? AND status = ? AND is_approved = ?", id, constants.AdStatusActive, true).
		First(&ad)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get ad").
				Uint("ad_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	// Read side effect: each detail fetch counts a view.
	if err := r.db.WithContext(ctx).Model(&model.Ad{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		logger.WarnWithContext(ctx, "Failed to increment ad views").
			Uint("ad_id", id).
			Err(err).
			Log()
		// The read still succeeds.
	} else {
		ad.ViewsCount++
	}

	return &ad, nil
}

func (r *adRepository) ListByUser(ctx context.Context, userID uint, page, perPage int) ([]model.Ad, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListByUser")

	query := r.db.WithContext(ctx).Model(&model.Ad{}).
		Where("user_id = ? AND status <> ?", userID, constants.AdStatusDelete)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ads []model.Ad
	err := query.
		Preload("Images").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&ads).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list user ads").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, 0, err
	}

	return ads, total, nil
}

func (r *adRepository) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountActiveByUser")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Ad{}).
		Where("user_id = ? AND status = ?", userID, constants.AdStatusActive).
		Count(&count).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count active ads").
			Uint("user_id", userID).
			Err(err).
			Log()
		return 0, err
	}

	return count, nil
}

func (r *adRepository) CreateWithQuota(ctx context.Context, ad *model.Ad, adLimit int) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateWithQuota")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Ad{}).
			Where("user_id = ? AND status = ?", ad.UserID, constants.AdStatusActive).
			Count(&count).Error; err != nil {
			return err
		}

		if count >= int64(adLimit) {
			return apperrors.ErrAdLimitReached
		}

		return tx.Create(ad).Error
	})

	if err != nil {
		if apperrors.IsDomainError(err) {
			logger.InfoWithContext(ctx, "Ad creation blocked by quota").
				Uint("user_id", ad.UserID).
				Int("ad_limit", adLimit).
				Log()
		} else {
			logger.ErrorWithContext(ctx, "Failed to create ad").
				Uint("user_id", ad.UserID).
				Duration(time.Since(start)).
				Err(err).
				Log()
		}
		return err
	}

	logger.InfoWithContext(ctx, "Ad created").
		Uint("ad_id", ad.ID).
		Uint("user_id", ad.UserID).
		Duration(time.Since(start)).
		Log()

	return nil
}
