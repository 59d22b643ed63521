package repository

import (
	"context"
	"time"

	"github.com/souqkw/marketplace/internal/model"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository serves the subscription-plan master data.
type PlanRepository interface {
	List(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error)
	GetByID(ctx context.Context, id uint) (*model.SubscriptionPlan, error)
	Create(ctx context.Context, plan *model.SubscriptionPlan) error
	Save(ctx context.Context, plan *model.SubscriptionPlan) error
}

// SubscriptionRepository persists the one-row-per-user subscription join.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*model.UserSubscription, error)
	// Upsert writes the user's subscription row keyed by user_id,
	// replacing any previous plan.
	Upsert(ctx context.Context, sub *model.UserSubscription) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) List(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "List")

	query := r.db.WithContext(ctx).Model(&model.SubscriptionPlan{}).Order("price ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var plans []model.SubscriptionPlan
	if err := query.Find(&plans).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list plans").
			Err(err).
			Log()
		return nil, err
	}

	return plans, nil
}

func (r *planRepository) GetByID(ctx context.Context, id uint) (*model.SubscriptionPlan, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var plan model.SubscriptionPlan
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&plan)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get plan").
				Uint("plan_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &plan, nil
}

func (r *planRepository) Create(ctx context.Context, plan *model.SubscriptionPlan) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create plan").
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Plan created").
		Uint("plan_id", plan.ID).
		Float64("price", plan.Price).
		Log()

	return nil
}

func (r *planRepository) Save(ctx context.Context, plan *model.SubscriptionPlan) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Save")

	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to save plan").
			Uint("plan_id", plan.ID).
			Err(err).
			Log()
		return err
	}

	return nil
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID uint) (*model.UserSubscription, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByUserID")

	var sub model.UserSubscription
	result := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		First(&sub)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get subscription").
				Uint("user_id", userID).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &sub, nil
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *model.UserSubscription) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Upsert")

	start := time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_id", "expires_at", "is_active", "updated_at",
		}),
	}).Create(sub).Error

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to upsert subscription").
			Uint("user_id", sub.UserID).
			Uint("plan_id", sub.PlanID).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Subscription upserted").
		Uint("user_id", sub.UserID).
		Uint("plan_id", sub.PlanID).
		Duration(time.Since(start)).
		Log()

	return nil
}
