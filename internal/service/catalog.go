package service

import (
	"context"
	"time"

	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	"github.com/souqkw/marketplace/internal/repository"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"gorm.io/gorm"
)

// CatalogService exposes the bilingual reference data the storefront and
// ad forms are built from, plus admin maintenance of categories and
// banners.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

func toCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:       c.ID,
		NameEn:   c.NameEn,
		NameAr:   c.NameAr,
		Slug:     c.Slug,
		Icon:     c.Icon,
		IsActive: c.IsActive,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListCategories")

	categories, err := s.catalogRepo.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, toCategoryResponse(&categories[i]))
	}
	return responses, nil
}

func (s *CatalogService) ListConditions(ctx context.Context) ([]dto.ReferenceItemResponse, error) {
	items, err := s.catalogRepo.ListConditions(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.ReferenceItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.ReferenceItemResponse{ID: item.ID, NameEn: item.NameEn, NameAr: item.NameAr})
	}
	return responses, nil
}

func (s *CatalogService) ListPriceTypes(ctx context.Context) ([]dto.ReferenceItemResponse, error) {
	items, err := s.catalogRepo.ListPriceTypes(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.ReferenceItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.ReferenceItemResponse{ID: item.ID, NameEn: item.NameEn, NameAr: item.NameAr})
	}
	return responses, nil
}

func (s *CatalogService) ListGovernorates(ctx context.Context) ([]dto.ReferenceItemResponse, error) {
	items, err := s.catalogRepo.ListGovernorates(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.ReferenceItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.ReferenceItemResponse{ID: item.ID, NameEn: item.NameEn, NameAr: item.NameAr})
	}
	return responses, nil
}

// ListBanners returns the banners currently inside their display window
// for the given placement.
func (s *CatalogService) ListBanners(ctx context.Context, placement string) ([]dto.BannerResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListBanners")

	banners, err := s.catalogRepo.ListActiveBanners(ctx, placement, time.Now())
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.BannerResponse, 0, len(banners))
	for _, b := range banners {
		responses = append(responses, dto.BannerResponse{
			ID:        b.ID,
			TitleEn:   b.TitleEn,
			TitleAr:   b.TitleAr,
			Image:     b.Image,
			Link:      b.Link,
			Placement: b.Placement,
		})
	}
	return responses, nil
}

// Admin maintenance.

func (s *CatalogService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateCategory")

	category := &model.Category{
		NameEn:   req.NameEn,
		NameAr:   req.NameAr,
		Slug:     req.Slug,
		Icon:     req.Icon,
		IsActive: true,
	}
	if err := s.catalogRepo.CreateCategory(ctx, category); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Category created").
		Uint("category_id", category.ID).
		String("slug", category.Slug).
		Log()

	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateCategory")

	category, err := s.catalogRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if req.NameEn != nil {
		category.NameEn = *req.NameEn
	}
	if req.NameAr != nil {
		category.NameAr = *req.NameAr
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.catalogRepo.SaveCategory(ctx, category); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *CatalogService) CreateBanner(ctx context.Context, req *dto.CreateBannerRequest) (*dto.BannerResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateBanner")

	banner := &model.Banner{
		TitleEn:   req.TitleEn,
		TitleAr:   req.TitleAr,
		Image:     req.Image,
		Link:      req.Link,
		Placement: req.Placement,
		IsActive:  true,
	}

	if req.StartsAt != "" {
		t, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "starts_at must be an RFC3339 timestamp")
		}
		banner.StartsAt = &t
	}
	if req.EndsAt != "" {
		t, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "ends_at must be an RFC3339 timestamp")
		}
		banner.EndsAt = &t
	}

	if err := s.catalogRepo.CreateBanner(ctx, banner); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Banner created").
		Uint("banner_id", banner.ID).
		String("placement", banner.Placement).
		Log()

	return &dto.BannerResponse{
		ID:        banner.ID,
		TitleEn:   banner.TitleEn,
		TitleAr:   banner.TitleAr,
		Image:     banner.Image,
		Link:      banner.Link,
		Placement: banner.Placement,
	}, nil
}
