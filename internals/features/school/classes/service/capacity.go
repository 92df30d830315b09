package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

// ClassFullError is a capacity conflict; it matches helper.ErrConflict.
type ClassFullError struct {
	Message string
}

func (e *ClassFullError) Error() string { return e.Message }
func (e *ClassFullError) Unwrap() error { return helper.ErrConflict }

// CountStudents counts students currently assigned to the class.
func CountStudents(ctx context.Context, db *gorm.DB, classID uuid.UUID) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("class_id = ? AND role = ?", classID, constants.RoleStudent).
		Count(&n).Error
	return n, err
}

// EnsureCapacity loads the class and checks that incoming more students still fit.
func EnsureCapacity(ctx context.Context, db *gorm.DB, classID uuid.UUID, incoming int) (*classModel.ClassModel, error) {
	var class classModel.ClassModel
	if err := db.WithContext(ctx).First(&class, "class_id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewFieldError("class_id", "class not found")
		}
		return nil, pkgErrors.Wrap(err, "load class")
	}
	current, err := CountStudents(ctx, db, classID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "count students")
	}
	if int(current)+incoming > class.ClassCapacity {
		return nil, &ClassFullError{Message: fmt.Sprintf("Class %s is full (%d/%d)", class.ClassName, current, class.ClassCapacity)}
	}
	return &class, nil
}
