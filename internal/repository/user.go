package repository

import (
	"context"
	"time"

	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/model"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"gorm.io/gorm"
)

// UserRepository is the identity-store access surface consumed by the auth
// and subscription services.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	// GetPendingByPhone returns the user only while it awaits OTP
	// verification (status = inactive).
	GetPendingByPhone(ctx context.Context, phone string) (*model.User, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	// Activate flips an inactive user to active and stamps verified_at.
	Activate(ctx context.Context, id uint, verifiedAt time.Time) error
	UpdateLastLogin(ctx context.Context, id uint) error
	// UpdateTokenVersion invalidates all outstanding bearer tokens when
	// bumped.
	UpdateTokenVersion(ctx context.Context, id uint, newVersion int) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by ID").
				Uint("user_id", id).
				Duration(time.Since(start)).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByPhone")

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by phone").
				Duration(time.Since(start)).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) GetPendingByPhone(ctx context.Context, phone string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetPendingByPhone")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("phone = ? AND status = ?", phone, constants.UserStatusInactive).
		First(&user)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get pending user by phone").
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "PhoneExists")

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("phone = ?", phone).
		Count(&count).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to check phone existence").
			Err(err).
			Log()
		return false, err
	}

	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		Uint("user_id", user.ID).
		String("status", user.Status).
		Duration(time.Since(start)).
		Log()

	return nil
}

func (r *userRepository) Activate(ctx context.Context, id uint, verifiedAt time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Activate")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND status = ?", id, constants.UserStatusInactive).
		Updates(map[string]interface{}{
			"status":      constants.UserStatusActive,
			"verified_at": verifiedAt,
		})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to activate user").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User activated").
		Uint("user_id", id).
		Log()

	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateLastLogin")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", time.Now())

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update last login").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

func (r *userRepository) UpdateTokenVersion(ctx context.Context, id uint, newVersion int) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateTokenVersion")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("token_version", newVersion)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update token version").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
