package seeds

import (
	"context"

	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	authService "schoolhub_backend/internals/features/users/auth/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

type AdminSeed struct {
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func seedAdmin(ctx context.Context, db *gorm.DB, ds Dataset) (int, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("email = ?", ds.Admin.Email).Count(&n).Error; err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	hash, err := authService.HashPassword(configs.GetEnv("SEED_ADMIN_PASSWORD", "admin12345"))
	if err != nil {
		return 0, err
	}
	admin := userModel.UserModel{
		UserName: ds.Admin.UserName,
		FullName: ds.Admin.FullName,
		Email:    ds.Admin.Email,
		Password: &hash,
		Role:     constants.RoleAdmin,
		IsActive: true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return 0, err
	}
	return 1, nil
}
