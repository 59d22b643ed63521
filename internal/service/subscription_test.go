package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	"gorm.io/gorm"
)

func newSubscriptionFixture(freeTierLimit int) (*SubscriptionService, *memoryPlanRepo, *memorySubRepo, *memoryAdRepo) {
	planRepo := &memoryPlanRepo{}
	subRepo := newMemorySubRepo(planRepo)
	adRepo := newMemoryAdRepo()
	svc := NewSubscriptionService(planRepo, subRepo, adRepo, freeTierLimit)
	return svc, planRepo, subRepo, adRepo
}

func addPlan(planRepo *memoryPlanRepo, id uint, price float64, months, adLimit int) *model.SubscriptionPlan {
	plan := &model.SubscriptionPlan{
		Model:       gorm.Model{ID: id},
		NameEn:      "Plan",
		NameAr:      "خطة",
		Price:       price,
		MonthsCount: months,
		AdLimit:     adLimit,
		IsActive:    true,
	}
	planRepo.plans = append(planRepo.plans, plan)
	return plan
}

func subscribe(subRepo *memorySubRepo, userID, planID uint, expiresAt time.Time) {
	subRepo.subs[userID] = &model.UserSubscription{
		UserID:    userID,
		PlanID:    planID,
		ExpiresAt: expiresAt,
		IsActive:  true,
	}
}

func TestComputeUpgradeCostWithoutPlanIsFullPrice(t *testing.T) {
	svc, planRepo, _, _ := newSubscriptionFixture(2)
	planB := addPlan(planRepo, 2, 25, 1, 30)

	preview, err := svc.ComputeUpgradeCost(context.Background(), 1, planB)
	require.NoError(t, err)
	require.Equal(t, 25.0, preview.Cost)
	require.Zero(t, preview.RemainingDays)
	require.Zero(t, preview.Credit)
}

func TestComputeUpgradeCostProRatesAgainstFixedThirtyDayMonth(t *testing.T) {
	svc, planRepo, subRepo, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	addPlan(planRepo, 1, 10, 1, 10)
	planB := addPlan(planRepo, 2, 25, 3, 30)
	subscribe(subRepo, 7, 1, now.Add(15*24*time.Hour))

	preview, err := svc.ComputeUpgradeCost(context.Background(), 7, planB)
	require.NoError(t, err)
	require.Equal(t, 15, preview.RemainingDays)
	require.InDelta(t, 5.0, preview.Credit, 1e-9)
	require.InDelta(t, 20.0, preview.Cost, 1e-9)
}

func TestComputeUpgradeCostRejectsDowngradeBeforeArithmetic(t *testing.T) {
	svc, planRepo, subRepo, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	addPlan(planRepo, 1, 40, 12, 100)
	cheaper := addPlan(planRepo, 2, 5, 1, 10)
	subscribe(subRepo, 7, 1, now.Add(300*24*time.Hour))

	_, err := svc.ComputeUpgradeCost(context.Background(), 7, cheaper)
	require.ErrorIs(t, err, apperrors.ErrDowngradeNotAllowed)
}

func TestComputeUpgradeCostWithNoWholeDayLeftIsFullPrice(t *testing.T) {
	svc, planRepo, subRepo, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	addPlan(planRepo, 1, 10, 1, 10)
	planB := addPlan(planRepo, 2, 25, 1, 30)
	subscribe(subRepo, 7, 1, now.Add(12*time.Hour))

	preview, err := svc.ComputeUpgradeCost(context.Background(), 7, planB)
	require.NoError(t, err)
	require.Equal(t, 25.0, preview.Cost)
	require.Zero(t, preview.Credit)
}

func TestComputeUpgradeCostExpiredSubscriptionIsFullPrice(t *testing.T) {
	svc, planRepo, subRepo, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	addPlan(planRepo, 1, 10, 1, 10)
	planB := addPlan(planRepo, 2, 25, 1, 30)
	subscribe(subRepo, 7, 1, now.Add(-24*time.Hour))

	preview, err := svc.ComputeUpgradeCost(context.Background(), 7, planB)
	require.NoError(t, err)
	require.Equal(t, 25.0, preview.Cost)
}

func TestComputeUpgradeCostCreditNeverGoesNegative(t *testing.T) {
	svc, planRepo, subRepo, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// A long-lived current plan can accrue more credit than the new
	// plan's price; the cost floors at zero.
	addPlan(planRepo, 1, 40, 12, 100)
	planB := addPlan(planRepo, 2, 45, 12, 120)
	subscribe(subRepo, 7, 1, now.Add(300*24*time.Hour))

	preview, err := svc.ComputeUpgradeCost(context.Background(), 7, planB)
	require.NoError(t, err)
	require.Equal(t, 0.0, preview.Cost)
}

func TestUpgradeSubscriptionUpsertsFreshTerm(t *testing.T) {
	svc, planRepo, subRepo, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	addPlan(planRepo, 1, 10, 1, 10)
	addPlan(planRepo, 2, 25, 3, 30)
	subscribe(subRepo, 7, 1, now.Add(15*24*time.Hour))

	resp, err := svc.UpgradeSubscription(context.Background(), 7, 2)
	require.NoError(t, err)
	require.InDelta(t, 20.0, resp.Cost, 1e-9)

	// Fresh full term from now; residual days never extend it.
	require.Equal(t, now.AddDate(0, 3, 0), resp.ExpiresAt)

	sub, err := subRepo.GetByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, uint(2), sub.PlanID)
	require.True(t, sub.IsActive)
	require.Len(t, subRepo.subs, 1, "plan change must upsert, not append")
}

func TestUpgradeSubscriptionUnknownPlan(t *testing.T) {
	svc, _, _, _ := newSubscriptionFixture(2)

	_, err := svc.UpgradeSubscription(context.Background(), 7, 99)
	require.ErrorIs(t, err, apperrors.ErrPlanNotFound)
}

func TestUpgradeSubscriptionLifetimePlan(t *testing.T) {
	svc, planRepo, _, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	lifetime := addPlan(planRepo, 1, 99, 0, 500)
	lifetime.IsLifetime = true

	resp, err := svc.UpgradeSubscription(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, now.AddDate(100, 0, 0), resp.ExpiresAt)
}

func TestGetActivePlanFreeTier(t *testing.T) {
	svc, _, _, adRepo := newSubscriptionFixture(2)

	adRepo.ads = append(adRepo.ads, &model.Ad{Model: gorm.Model{ID: 1}, UserID: 7, Status: "active"})

	resp, err := svc.GetActivePlan(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, resp.FreeTier)
	require.Nil(t, resp.Plan)
	require.Equal(t, 2, resp.AdLimit)
	require.Equal(t, int64(1), resp.ActiveAds)
	require.Equal(t, int64(1), resp.RemainingAds)
}

func TestGetActivePlanLapsedSubscriptionFallsBackToFreeTier(t *testing.T) {
	svc, planRepo, subRepo, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	addPlan(planRepo, 1, 10, 1, 10)
	subscribe(subRepo, 7, 1, now.Add(-time.Hour))

	resp, err := svc.GetActivePlan(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, resp.FreeTier)
	require.Equal(t, 2, resp.AdLimit)
}

func TestGetActivePlanLiveSubscription(t *testing.T) {
	svc, planRepo, subRepo, _ := newSubscriptionFixture(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	addPlan(planRepo, 1, 10, 1, 10)
	subscribe(subRepo, 7, 1, now.Add(10*24*time.Hour))

	resp, err := svc.GetActivePlan(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, resp.FreeTier)
	require.NotNil(t, resp.Plan)
	require.Equal(t, 10, resp.AdLimit)
	require.Equal(t, int64(10), resp.RemainingAds)
}
