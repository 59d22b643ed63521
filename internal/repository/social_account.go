package repository

import (
	"context"

	"github.com/souqkw/marketplace/internal/model"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"gorm.io/gorm"
)

// SocialAccountRepository persists third-party identities. An account is
// pending until Link associates it with a user; the association is never
// rewritten afterwards.
type SocialAccountRepository interface {
	GetByID(ctx context.Context, id uint) (*model.SocialAccount, error)
	GetByProvider(ctx context.Context, provider, providerUserID string) (*model.SocialAccount, error)
	Create(ctx context.Context, account *model.SocialAccount) error
	Link(ctx context.Context, id, userID uint) error
}

type socialAccountRepository struct {
	db *gorm.DB
}

func NewSocialAccountRepository(db *gorm.DB) SocialAccountRepository {
	return &socialAccountRepository{db: db}
}

func (r *socialAccountRepository) GetByID(ctx context.Context, id uint) (*model.SocialAccount, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var account model.SocialAccount
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&account)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get social account").
				Uint("social_account_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &account, nil
}

func (r *socialAccountRepository) GetByProvider(ctx context.Context, provider, providerUserID string) (*model.SocialAccount, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByProvider")

	var account model.SocialAccount
	result := r.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&account)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get social account by provider").
				String("provider", provider).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &account, nil
}

func (r *socialAccountRepository) Create(ctx context.Context, account *model.SocialAccount) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create social account").
			String("provider", account.Provider).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Social account created").
		Uint("social_account_id", account.ID).
		String("provider", account.Provider).
		Bool("pending", account.IsPending()).
		Log()

	return nil
}

// Link associates a pending account with a user. The user_id guard keeps
// an already-linked account immutable.
func (r *socialAccountRepository) Link(ctx context.Context, id, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Link")

	result := r.db.WithContext(ctx).Model(&model.SocialAccount{}).
		Where("id = ? AND user_id IS NULL", id).
		Update("user_id", userID)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to link social account").
			Uint("social_account_id", id).
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Social account linked").
		Uint("social_account_id", id).
		Uint("user_id", userID).
		Log()

	return nil
}
