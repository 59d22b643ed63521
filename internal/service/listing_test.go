package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	"gorm.io/gorm"
)

func newListingFixture(freeTierLimit int) (*ListingService, *SubscriptionService, *memoryPlanRepo, *memorySubRepo, *memoryAdRepo, *memoryCatalogRepo) {
	planRepo := &memoryPlanRepo{}
	subRepo := newMemorySubRepo(planRepo)
	adRepo := newMemoryAdRepo()
	catalogRepo := &memoryCatalogRepo{
		categories: []*model.Category{
			{Model: gorm.Model{ID: 1}, NameEn: "Bags", NameAr: "حقائب", Slug: "bags", IsActive: true},
		},
	}
	subService := NewSubscriptionService(planRepo, subRepo, adRepo, freeTierLimit)
	listingService := NewListingService(adRepo, catalogRepo, subService)
	return listingService, subService, planRepo, subRepo, adRepo, catalogRepo
}

func newAdRequest() *dto.CreateAdRequest {
	return &dto.CreateAdRequest{
		TitleEn:       "Leather bag",
		TitleAr:       "حقيبة جلدية",
		Price:         15,
		CategoryID:    1,
		ConditionID:   1,
		PriceTypeID:   1,
		GovernorateID: 1,
	}
}

func TestCreateAdBlockedAtQuotaRegardlessOfOtherStatuses(t *testing.T) {
	listingService, _, planRepo, subRepo, adRepo, _ := newListingFixture(2)

	addPlan(planRepo, 1, 10, 1, 5)
	subscribe(subRepo, 7, 1, time.Now().Add(24*time.Hour))

	// Five active ads plus plenty of inactive ones; only active counts.
	for i := 0; i < 5; i++ {
		adRepo.ads = append(adRepo.ads, &model.Ad{Model: gorm.Model{ID: uint(100 + i)}, UserID: 7, Status: constants.AdStatusActive})
	}
	for i, status := range []string{constants.AdStatusDraft, constants.AdStatusSold, constants.AdStatusExpired} {
		adRepo.ads = append(adRepo.ads, &model.Ad{Model: gorm.Model{ID: uint(200 + i)}, UserID: 7, Status: status})
	}

	_, err := listingService.CreateAd(context.Background(), 7, newAdRequest())
	require.ErrorIs(t, err, apperrors.ErrAdLimitReached)
}

func TestCreateAdSucceedsBelowQuota(t *testing.T) {
	listingService, _, planRepo, subRepo, adRepo, _ := newListingFixture(2)

	addPlan(planRepo, 1, 10, 1, 5)
	subscribe(subRepo, 7, 1, time.Now().Add(24*time.Hour))

	for i := 0; i < 4; i++ {
		adRepo.ads = append(adRepo.ads, &model.Ad{Model: gorm.Model{ID: uint(100 + i)}, UserID: 7, Status: constants.AdStatusActive})
	}

	ad, err := listingService.CreateAd(context.Background(), 7, newAdRequest())
	require.NoError(t, err)
	require.Equal(t, constants.AdStatusActive, ad.Status)
	require.Equal(t, uint(7), ad.UserID)
}

func TestCreateAdUsesFreeTierLimitWithoutSubscription(t *testing.T) {
	listingService, _, _, _, adRepo, _ := newListingFixture(2)

	adRepo.ads = append(adRepo.ads,
		&model.Ad{Model: gorm.Model{ID: 1}, UserID: 7, Status: constants.AdStatusActive},
		&model.Ad{Model: gorm.Model{ID: 2}, UserID: 7, Status: constants.AdStatusActive},
	)

	_, err := listingService.CreateAd(context.Background(), 7, newAdRequest())
	require.ErrorIs(t, err, apperrors.ErrAdLimitReached)
}

func TestCreateAdUnknownCategory(t *testing.T) {
	listingService, _, _, _, _, _ := newListingFixture(2)

	req := newAdRequest()
	req.CategoryID = 42
	_, err := listingService.CreateAd(context.Background(), 7, req)
	require.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestGetAdIncrementsViewsOnEveryFetch(t *testing.T) {
	listingService, _, _, _, adRepo, _ := newListingFixture(2)

	adRepo.ads = append(adRepo.ads, &model.Ad{
		Model:      gorm.Model{ID: 1},
		TitleEn:    "Leather bag",
		UserID:     7,
		Status:     constants.AdStatusActive,
		IsApproved: true,
	})

	first, err := listingService.GetAd(context.Background(), 1)
	require.NoError(t, err)
	second, err := listingService.GetAd(context.Background(), 1)
	require.NoError(t, err)

	// No de-duplication: every fetch counts.
	require.Equal(t, first.ViewsCount+1, second.ViewsCount)
}

func TestGetAdHiddenWhenNotApproved(t *testing.T) {
	listingService, _, _, _, adRepo, _ := newListingFixture(2)

	adRepo.ads = append(adRepo.ads, &model.Ad{
		Model:  gorm.Model{ID: 1},
		UserID: 7,
		Status: constants.AdStatusActive,
	})

	_, err := listingService.GetAd(context.Background(), 1)
	require.ErrorIs(t, err, apperrors.ErrAdNotFound)
}

func TestListPassesNormalizedFilterThrough(t *testing.T) {
	listingService, _, _, _, adRepo, _ := newListingFixture(2)

	filter := dto.RawAdQuery{
		CategorySlug: "bags",
		Search:       "bag",
		SearchScope:  constants.SearchScopeProduct,
		Sort:         "bogus",
		PerPage:      "17",
	}.Normalize(constants.APIPerPageOptions)

	_, _, err := listingService.List(context.Background(), filter)
	require.NoError(t, err)

	require.Equal(t, constants.SearchScopeProduct, adRepo.lastFilter.SearchScope)
	require.Equal(t, constants.SortNewest, adRepo.lastFilter.Sort)
	require.Equal(t, constants.DefaultPerPage, adRepo.lastFilter.PerPage)
}

func TestMyAdsForwardsPagingUnchanged(t *testing.T) {
	listingService, _, _, _, adRepo, _ := newListingFixture(5)
	adRepo.ads = append(adRepo.ads, &model.Ad{Model: gorm.Model{ID: 1}, UserID: 7, Status: constants.AdStatusActive})

	_, _, err := listingService.MyAds(context.Background(), 7, 3, 50)
	require.NoError(t, err)

	require.Equal(t, 3, adRepo.lastPage)
	require.Equal(t, 50, adRepo.lastPerPage)
}
