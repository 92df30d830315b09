package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	classService "schoolhub_backend/internals/features/school/classes/service"
	"schoolhub_backend/internals/features/school/students/dto"
	authService "schoolhub_backend/internals/features/users/auth/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	helperOSS "schoolhub_backend/internals/helpers/oss"
)

type StudentService struct {
	DB    *gorm.DB
	Store helperOSS.BlobStore
}

func NewStudentService(db *gorm.DB, store helperOSS.BlobStore) *StudentService {
	return &StudentService{DB: db, Store: store}
}

func (s *StudentService) scope(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("role = ?", constants.RoleStudent)
}

/* =========================================================
   READ
   ========================================================= */

// List pages students; search covers full name, email and student number.
func (s *StudentService) List(ctx context.Context, q helper.ListQuery, f dto.StudentFilter) (helper.Page[userModel.UserModel], error) {
	tx := s.scope(ctx)
	tx = helper.ApplySearch(tx, q.Search, "full_name", "email", "student_number")
	filters := map[string]any{"is_active": f.IsActive}
	if f.ClassID != nil {
		filters["class_id"] = *f.ClassID
	}
	if f.ParentID != nil {
		filters["parent_id"] = *f.ParentID
	}
	tx = helper.ApplyEquals(tx, filters)
	return helper.FetchPage[userModel.UserModel](ctx, tx, q, "full_name ASC")
}

func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	var u userModel.UserModel
	if err := s.scope(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Student not found")
		}
		return nil, pkgErrors.Wrap(err, "load student")
	}
	return &u, nil
}

// ChildrenOf lists the active students linked to a parent.
func (s *StudentService) ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]userModel.UserModel, error) {
	var rows []userModel.UserModel
	err := s.scope(ctx).Where("parent_id = ?", parentID).Order("full_name ASC").Find(&rows).Error
	return rows, err
}

/* =========================================================
   WRITE
   ========================================================= */

// checkDuplicate reports which unique identifier is already taken, "" when none.
func (s *StudentService) checkDuplicate(ctx context.Context, db *gorm.DB, email, studentNumber string, exclude *uuid.UUID) (string, error) {
	checks := []struct {
		field, col, val string
	}{
		{"email", "email", email},
		{"student_number", "student_number", studentNumber},
	}
	for _, ch := range checks {
		if ch.val == "" {
			continue
		}
		tx := db.WithContext(ctx).Unscoped().Model(&userModel.UserModel{}).Where(ch.col+" = ?", ch.val)
		if exclude != nil {
			tx = tx.Where("id <> ?", *exclude)
		}
		var n int64
		if err := tx.Count(&n).Error; err != nil {
			return "", err
		}
		if n > 0 {
			return ch.field, nil
		}
	}
	return "", nil
}

func (s *StudentService) uniqueUserName(ctx context.Context, db *gorm.DB, base string) (string, error) {
	base = strings.ToLower(strings.TrimSpace(base))
	if len(base) > 40 {
		base = base[:40]
	}
	if len(base) < 3 {
		base = "student_" + base
	}
	candidate := base
	for i := 0; i < 5; i++ {
		var n int64
		if err := db.WithContext(ctx).Unscoped().Model(&userModel.UserModel{}).
			Where("user_name = ?", candidate).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%s", base, strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	}
	return candidate, nil
}

func generateStudentNumber(now time.Time) string {
	return fmt.Sprintf("STU-%d-%s", now.Year(), strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6]))
}

func (s *StudentService) ensureParent(ctx context.Context, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND role = ?", *parentID, constants.RoleParent).
		Count(&n).Error; err != nil {
		return pkgErrors.Wrap(err, "check parent")
	}
	if n == 0 {
		return helper.NewFieldError("parent_id", "parent not found")
	}
	return nil
}

// Create validates, checks for duplicates and inserts one student.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*userModel.UserModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}

	field, err := s.checkDuplicate(ctx, s.DB, req.Email, req.StudentNumber, nil)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "duplicate check")
	}
	if field != "" {
		return nil, helper.Conflict(fmt.Sprintf("A student with this %s already exists", strings.ReplaceAll(field, "_", " ")))
	}
	if req.ClassID != nil {
		if _, err := classService.EnsureCapacity(ctx, s.DB, *req.ClassID, 1); err != nil {
			return nil, err
		}
	}
	if err := s.ensureParent(ctx, req.ParentID); err != nil {
		return nil, err
	}

	if req.UserName, err = s.uniqueUserName(ctx, s.DB, req.UserName); err != nil {
		return nil, pkgErrors.Wrap(err, "user name")
	}
	if req.StudentNumber == "" {
		req.StudentNumber = generateStudentNumber(time.Now().UTC())
	}
	m := req.ToModel()
	if req.Password != "" {
		hash, err := authService.HashPassword(req.Password)
		if err != nil {
			return nil, pkgErrors.Wrap(err, "hash password")
		}
		m.Password = &hash
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("A student with the same email or student number already exists")
		}
		return nil, pkgErrors.Wrap(err, "create student")
	}
	return m, nil
}

func (s *StudentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateStudentRequest) (*userModel.UserModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email, number := "", ""
	if req.Email != nil && *req.Email != current.Email {
		email = *req.Email
	}
	if req.StudentNumber != nil {
		number = *req.StudentNumber
	}
	field, err := s.checkDuplicate(ctx, s.DB, email, number, &id)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "duplicate check")
	}
	if field != "" {
		return nil, helper.Conflict(fmt.Sprintf("A student with this %s already exists", strings.ReplaceAll(field, "_", " ")))
	}
	if req.ClassID != nil && (current.ClassID == nil || *current.ClassID != *req.ClassID) {
		if _, err := classService.EnsureCapacity(ctx, s.DB, *req.ClassID, 1); err != nil {
			return nil, err
		}
	}
	if err := s.ensureParent(ctx, req.ParentID); err != nil {
		return nil, err
	}

	updates := req.Updates()
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
			Where("id = ?", id).Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.Conflict("A student with the same email or student number already exists")
			}
			return nil, pkgErrors.Wrap(err, "update student")
		}
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the student.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND role = ?", id, constants.RoleStudent).Delete(&userModel.UserModel{})
	if res.Error != nil {
		return pkgErrors.Wrap(res.Error, "delete student")
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("Student not found")
	}
	return nil
}

// UploadPhoto stores the image as WebP and replaces the previous photo.
func (s *StudentService) UploadPhoto(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*userModel.UserModel, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if fh.Size > helperOSS.MaxUploadSize {
		return nil, helper.NewFieldError("photo", "file exceeds 5MB")
	}
	key, url, err := helperOSS.UploadImage(ctx, s.Store, "students/photos", fh)
	if err != nil {
		if errors.Is(err, helperOSS.ErrUnsupportedImage) {
			return nil, helper.NewFieldError("photo", "unsupported image format")
		}
		return nil, pkgErrors.Wrap(err, "upload photo")
	}
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("id = ?", id).
		Updates(map[string]any{"photo_url": url, "photo_object_key": key}).Error; err != nil {
		_ = s.Store.Delete(ctx, key)
		return nil, pkgErrors.Wrap(err, "save photo")
	}
	if student.PhotoObjectKey != nil && *student.PhotoObjectKey != "" {
		if err := s.Store.Delete(ctx, *student.PhotoObjectKey); err != nil {
			configs.Logger("students").Warn().Err(err).Str("key", *student.PhotoObjectKey).Msg("[STUDENT][PHOTO] old object not deleted")
		}
	}
	return s.Get(ctx, id)
}
