package service

import (
	"context"
	"errors"

	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	"github.com/souqkw/marketplace/internal/repository"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"gorm.io/gorm"
)

// ListingService serves the public storefront view over ads and handles
// seller-side creation under the subscription quota.
type ListingService struct {
	adRepo      repository.AdRepository
	catalogRepo repository.CatalogRepository
	subService  *SubscriptionService
}

func NewListingService(
	adRepo repository.AdRepository,
	catalogRepo repository.CatalogRepository,
	subService *SubscriptionService,
) *ListingService {
	return &ListingService{
		adRepo:      adRepo,
		catalogRepo: catalogRepo,
		subService:  subService,
	}
}

func toAdResponse(ad *model.Ad) dto.AdResponse {
	images := make([]dto.AdImageResponse, 0, len(ad.Images))
	for _, img := range ad.Images {
		images = append(images, dto.AdImageResponse{
			Path:      img.Path,
			IsPrimary: img.IsPrimary,
		})
	}

	return dto.AdResponse{
		ID:            ad.ID,
		TitleEn:       ad.TitleEn,
		TitleAr:       ad.TitleAr,
		DescriptionEn: ad.DescriptionEn,
		DescriptionAr: ad.DescriptionAr,
		Price:         ad.Price,
		IsNegotiable:  ad.IsNegotiable,
		Status:        ad.Status,
		IsFeatured:    ad.IsFeatured,
		ViewsCount:    ad.ViewsCount,
		CategoryID:    ad.CategoryID,
		ConditionID:   ad.ConditionID,
		PriceTypeID:   ad.PriceTypeID,
		GovernorateID: ad.GovernorateID,
		UserID:        ad.UserID,
		Images:        images,
		CreatedAt:     ad.CreatedAt,
	}
}

func toAdResponses(ads []model.Ad) []dto.AdResponse {
	responses := make([]dto.AdResponse, 0, len(ads))
	for i := range ads {
		responses = append(responses, toAdResponse(&ads[i]))
	}
	return responses
}

// List runs the storefront query. The filter is assumed normalized; the
// handler applies the surface's page-size whitelist before calling in.
func (s *ListingService) List(ctx context.Context, filter dto.AdFilter) ([]dto.AdResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListAds")

	ads, total, err := s.adRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toAdResponses(ads), total, nil
}

// GetAd returns one storefront-visible ad. Every fetch counts as a view;
// there is no per-viewer deduplication.
func (s *ListingService) GetAd(ctx context.Context, id uint) (*dto.AdResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetAd")

	ad, err := s.adRepo.GetVisibleByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrAdNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toAdResponse(ad)
	return &resp, nil
}

// CreateAd posts a new listing for the user. The subscription quota is a
// strict precondition: at the limit the request fails outright, nothing
// is queued or partially saved. The count and insert run in one
// transaction so concurrent requests cannot oversubscribe the allowance.
func (s *ListingService) CreateAd(ctx context.Context, userID uint, req *dto.CreateAdRequest) (*dto.AdResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateAd")

	if _, err := s.catalogRepo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	adLimit, err := s.subService.AdLimitFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	images := make([]model.AdImage, 0, len(req.Images))
	for i, path := range req.Images {
		images = append(images, model.AdImage{
			Path:      path,
			IsPrimary: i == 0,
		})
	}

	ad := &model.Ad{
		TitleEn:       req.TitleEn,
		TitleAr:       req.TitleAr,
		DescriptionEn: req.DescriptionEn,
		DescriptionAr: req.DescriptionAr,
		Price:         req.Price,
		IsNegotiable:  req.IsNegotiable,
		Status:        constants.AdStatusActive,
		CategoryID:    req.CategoryID,
		ConditionID:   req.ConditionID,
		PriceTypeID:   req.PriceTypeID,
		GovernorateID: req.GovernorateID,
		UserID:        userID,
		Images:        images,
	}

	if err := s.adRepo.CreateWithQuota(ctx, ad, adLimit); err != nil {
		if errors.Is(err, apperrors.ErrAdLimitReached) {
			logger.InfoWithContext(ctx, "Ad creation blocked by quota").
				Uint("user_id", userID).
				Int("ad_limit", adLimit).
				Log()
			return nil, err
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Ad created").
		Uint("user_id", userID).
		Uint("ad_id", ad.ID).
		Log()

	resp := toAdResponse(ad)
	return &resp, nil
}

// MyAds lists the caller's own ads across every status except deleted.
// Paging arrives already normalized by the handler, like List's filter.
func (s *ListingService) MyAds(ctx context.Context, userID uint, page, perPage int) ([]dto.AdResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "MyAds")

	ads, total, err := s.adRepo.ListByUser(ctx, userID, page, perPage)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toAdResponses(ads), total, nil
}
