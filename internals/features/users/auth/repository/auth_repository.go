// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "schoolhub_backend/internals/features/users/auth/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByEmailOrUsername(ctx context.Context, db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	ident := strings.TrimSpace(identifier)
	var user userModel.UserModel
	if err := db.WithContext(ctx).
		Where("email = ? OR user_name = ?", strings.ToLower(ident), ident).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IsEmailOrUsernameTaken checks both unique login identifiers in one query.
func IsEmailOrUsernameTaken(ctx context.Context, db *gorm.DB, email, userName string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("email = ? OR user_name = ?", strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(userName)).
		Count(&n).Error
	return n > 0, err
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hash).Error
}

func LinkGoogleID(ctx context.Context, db *gorm.DB, userID uuid.UUID, googleID string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND google_id IS NULL", userID).
		Update("google_id", googleID).Error
}

/* ====================== BLACKLIST TOKEN ====================== */

func BlacklistToken(ctx context.Context, db *gorm.DB, token string, expiredAt time.Time) error {
	return db.WithContext(ctx).Create(&authModel.TokenBlacklist{
		Token:     token,
		ExpiredAt: expiredAt.UTC(),
	}).Error
}

func IsTokenBlacklisted(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token = ?", token).
		Count(&n).Error
	return n > 0, err
}

func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expired_at <= ?", now.UTC()).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
