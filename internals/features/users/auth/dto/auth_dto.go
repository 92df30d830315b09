package dto

import (
	"time"

	"github.com/google/uuid"

	userModel "schoolhub_backend/internals/features/users/user/model"
)

type RegisterRequest struct {
	UserName string  `json:"user_name" validate:"required,min=3,max=50"`
	FullName string  `json:"full_name" validate:"required,min=2,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72,nefield=OldPassword"`
}

type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	UserName string     `json:"user_name"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	IsActive bool       `json:"is_active"`
	ClassID  *uuid.UUID `json:"class_id,omitempty"`
	PhotoURL *string    `json:"photo_url,omitempty"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

func ToUserResponse(u *userModel.UserModel) UserResponse {
	return UserResponse{
		ID:       u.ID,
		UserName: u.UserName,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
		ClassID:  u.ClassID,
		PhotoURL: u.PhotoURL,
	}
}
