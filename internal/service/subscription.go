package service

import (
	"context"
	"math"
	"time"

	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	"github.com/souqkw/marketplace/internal/repository"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"gorm.io/gorm"
)

// proRateDivisorDays is the fixed month length used for the current
// plan's daily rate when pro-rating an upgrade. Product rule: it does not
// follow the plan's actual term length.
const proRateDivisorDays = 30

// lifetimeYears approximates "never expires" with a far-future timestamp
// so expiry evaluation stays uniform.
const lifetimeYears = 100

// SubscriptionService resolves the plan currently governing a user,
// prices plan upgrades with pro-rated credit, persists plan changes and
// answers quota questions for ad creation.
type SubscriptionService struct {
	planRepo      repository.PlanRepository
	subRepo       repository.SubscriptionRepository
	adRepo        repository.AdRepository
	freeTierLimit int
	now           func() time.Time
}

func NewSubscriptionService(
	planRepo repository.PlanRepository,
	subRepo repository.SubscriptionRepository,
	adRepo repository.AdRepository,
	freeTierLimit int,
) *SubscriptionService {
	return &SubscriptionService{
		planRepo:      planRepo,
		subRepo:       subRepo,
		adRepo:        adRepo,
		freeTierLimit: freeTierLimit,
		now:           time.Now,
	}
}

func toPlanResponse(plan *model.SubscriptionPlan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:                plan.ID,
		NameEn:            plan.NameEn,
		NameAr:            plan.NameAr,
		Price:             plan.Price,
		MonthsCount:       plan.MonthsCount,
		IsLifetime:        plan.IsLifetime,
		AdLimit:           plan.AdLimit,
		FeaturedAdsCount:  plan.FeaturedAdsCount,
		UnlimitedFeatured: plan.UnlimitedFeatured,
		PrioritySupport:   plan.PrioritySupport,
		Analytics:         plan.Analytics,
	}
}

// ListPlans returns the purchasable plans ordered by price.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListPlans")

	plans, err := s.planRepo.List(ctx, true)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, toPlanResponse(&plans[i]))
	}
	return responses, nil
}

// currentSubscription returns the user's live subscription, or nil when
// none exists or the stored row has lapsed. Expiry is evaluated here and
// nowhere else.
func (s *SubscriptionService) currentSubscription(ctx context.Context, userID uint) (*model.UserSubscription, error) {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !sub.IsLive(s.now()) {
		return nil, nil
	}
	return sub, nil
}

// GetActivePlan reports the plan currently governing the user along with
// the ad allowance consumed so far. With no live subscription the user is
// on the free tier with the baseline allowance.
func (s *SubscriptionService) GetActivePlan(ctx context.Context, userID uint) (*dto.ActivePlanResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetActivePlan")

	sub, err := s.currentSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	activeAds, err := s.adRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := &dto.ActivePlanResponse{
		FreeTier:  true,
		AdLimit:   s.freeTierLimit,
		ActiveAds: activeAds,
	}

	if sub != nil {
		plan := toPlanResponse(&sub.Plan)
		expiresAt := sub.ExpiresAt
		resp.FreeTier = false
		resp.Plan = &plan
		resp.ExpiresAt = &expiresAt
		resp.AdLimit = sub.Plan.AdLimit
	}

	remaining := int64(resp.AdLimit) - activeAds
	if remaining < 0 {
		remaining = 0
	}
	resp.RemainingAds = remaining

	return resp, nil
}

// AdLimitFor returns the ad allowance governing the user right now:
// the live plan's limit, or the free-tier baseline.
func (s *SubscriptionService) AdLimitFor(ctx context.Context, userID uint) (int, error) {
	sub, err := s.currentSubscription(ctx, userID)
	if err != nil {
		return 0, err
	}
	if sub == nil {
		return s.freeTierLimit, nil
	}
	return sub.Plan.AdLimit, nil
}

// ComputeUpgradeCost prices an upgrade to newPlan. With no live
// subscription the cost is the full plan price. Otherwise the unused
// days on the current plan become a credit at a fixed 30-day daily rate,
// and the cost never goes below zero. A strictly cheaper target plan is
// rejected before any arithmetic.
func (s *SubscriptionService) ComputeUpgradeCost(ctx context.Context, userID uint, newPlan *model.SubscriptionPlan) (*dto.UpgradePreviewResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ComputeUpgradeCost")

	preview := &dto.UpgradePreviewResponse{
		PlanID:    newPlan.ID,
		PlanPrice: newPlan.Price,
		Cost:      newPlan.Price,
	}

	sub, err := s.currentSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return preview, nil
	}

	if newPlan.Price < sub.Plan.Price {
		return nil, apperrors.ErrDowngradeNotAllowed
	}

	remainingDays := int(sub.ExpiresAt.Sub(s.now()).Hours() / 24)
	if remainingDays <= 0 {
		return preview, nil
	}

	dailyRate := sub.Plan.Price / proRateDivisorDays
	credit := dailyRate * float64(remainingDays)
	cost := math.Max(0, newPlan.Price-credit)

	preview.RemainingDays = remainingDays
	preview.Credit = credit
	preview.Cost = cost
	return preview, nil
}

// PreviewUpgrade resolves the target plan and prices the switch without
// persisting anything.
func (s *SubscriptionService) PreviewUpgrade(ctx context.Context, userID, planID uint) (*dto.UpgradePreviewResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "PreviewUpgrade")

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.ComputeUpgradeCost(ctx, userID, plan)
}

// UpgradeSubscription switches the user to the target plan. The
// subscription row is upserted, one row per user, and the new expiry is a
// fresh full term from now; residual days from the old plan are only
// reflected in the price discount, never in the new term. Payment
// collection is a placeholder step.
func (s *SubscriptionService) UpgradeSubscription(ctx context.Context, userID, planID uint) (*dto.UpgradeResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpgradeSubscription")

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	preview, err := s.ComputeUpgradeCost(ctx, userID, plan)
	if err != nil {
		return nil, err
	}

	// TODO: integrate the payment gateway once one is selected; the
	// charge for preview.Cost is assumed collected here.

	now := s.now()
	expiresAt := now.AddDate(0, plan.MonthsCount, 0)
	if plan.IsLifetime {
		expiresAt = now.AddDate(lifetimeYears, 0, 0)
	}

	sub := &model.UserSubscription{
		UserID:    userID,
		PlanID:    plan.ID,
		ExpiresAt: expiresAt,
		IsActive:  true,
	}
	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Subscription upgraded").
		Uint("user_id", userID).
		Uint("plan_id", plan.ID).
		Float64("cost", preview.Cost).
		Log()

	return &dto.UpgradeResponse{
		PlanID:    plan.ID,
		Cost:      preview.Cost,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *SubscriptionService) getPlan(ctx context.Context, planID uint) (*model.SubscriptionPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !plan.IsActive {
		return nil, apperrors.ErrPlanNotFound
	}
	return plan, nil
}

// Admin plan master data.

func (s *SubscriptionService) CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreatePlan")

	monthsCount := req.MonthsCount
	if req.IsLifetime {
		monthsCount = 0
	} else if monthsCount < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "months_count must be at least 1 for non-lifetime plans")
	}

	plan := &model.SubscriptionPlan{
		NameEn:            req.NameEn,
		NameAr:            req.NameAr,
		Price:             req.Price,
		MonthsCount:       monthsCount,
		IsLifetime:        req.IsLifetime,
		AdLimit:           req.AdLimit,
		FeaturedAdsCount:  req.FeaturedAdsCount,
		UnlimitedFeatured: req.UnlimitedFeatured,
		PrioritySupport:   req.PrioritySupport,
		Analytics:         req.Analytics,
		IsActive:          true,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toPlanResponse(plan)
	logger.InfoWithContext(ctx, "Plan created").
		Uint("plan_id", plan.ID).
		Log()
	return &resp, nil
}

func (s *SubscriptionService) UpdatePlan(ctx context.Context, planID uint, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdatePlan")

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if req.NameEn != nil {
		plan.NameEn = *req.NameEn
	}
	if req.NameAr != nil {
		plan.NameAr = *req.NameAr
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.MonthsCount != nil {
		plan.MonthsCount = *req.MonthsCount
	}
	if req.IsLifetime != nil {
		plan.IsLifetime = *req.IsLifetime
	}
	if req.AdLimit != nil {
		plan.AdLimit = *req.AdLimit
	}
	if req.FeaturedAdsCount != nil {
		plan.FeaturedAdsCount = *req.FeaturedAdsCount
	}
	if req.UnlimitedFeatured != nil {
		plan.UnlimitedFeatured = *req.UnlimitedFeatured
	}
	if req.PrioritySupport != nil {
		plan.PrioritySupport = *req.PrioritySupport
	}
	if req.Analytics != nil {
		plan.Analytics = *req.Analytics
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toPlanResponse(plan)
	logger.InfoWithContext(ctx, "Plan updated").
		Uint("plan_id", plan.ID).
		Log()
	return &resp, nil
}
