package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	"schoolhub_backend/internals/features/school/teachers/dto"
	teacherModel "schoolhub_backend/internals/features/school/teachers/model"
	authService "schoolhub_backend/internals/features/users/auth/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

type TeacherService struct {
	DB *gorm.DB
}

func NewTeacherService(db *gorm.DB) *TeacherService {
	return &TeacherService{DB: db}
}

func (s *TeacherService) scope(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("role = ?", constants.RoleTeacher)
}

// List searches full name, email and specialization.
func (s *TeacherService) List(ctx context.Context, q helper.ListQuery, isActive *bool) (helper.Page[userModel.UserModel], error) {
	tx := s.scope(ctx)
	tx = helper.ApplySearch(tx, q.Search, "full_name", "email", "specialization")
	tx = helper.ApplyEquals(tx, map[string]any{"is_active": isActive})
	return helper.FetchPage[userModel.UserModel](ctx, tx, q, "full_name ASC")
}

func (s *TeacherService) Get(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	var u userModel.UserModel
	if err := s.scope(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Teacher not found")
		}
		return nil, pkgErrors.Wrap(err, "load teacher")
	}
	return &u, nil
}

func (s *TeacherService) Subjects(ctx context.Context, teacherID uuid.UUID) ([]subjectModel.SubjectModel, error) {
	var rows []subjectModel.SubjectModel
	err := s.DB.WithContext(ctx).Model(&subjectModel.SubjectModel{}).
		Joins("JOIN teacher_subjects ts ON ts.teacher_subject_subject_id = subjects.subject_id").
		Where("ts.teacher_subject_teacher_id = ?", teacherID).
		Order("subjects.subject_code ASC").
		Find(&rows).Error
	return rows, err
}

func (s *TeacherService) Create(ctx context.Context, req dto.CreateTeacherRequest) (*userModel.UserModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if req.Salary != nil && req.Salary.IsNegative() {
		return nil, helper.NewFieldError("salary", "salary must not be negative")
	}

	var n int64
	if err := s.DB.WithContext(ctx).Unscoped().Model(&userModel.UserModel{}).
		Where("email = ? OR user_name = ?", req.Email, req.UserName).Count(&n).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "check duplicate teacher")
	}
	if n > 0 {
		return nil, helper.Conflict("Email or user name already registered")
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "hash password")
	}
	u := req.ToModel()
	u.Password = &hash
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("Email or user name already registered")
		}
		return nil, pkgErrors.Wrap(err, "create teacher")
	}
	configs.Logger("teachers").Info().Str("teacher_id", u.ID.String()).Msg("[TEACHER][CREATE] created")
	return u, nil
}

func (s *TeacherService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTeacherRequest) (*userModel.UserModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if req.Salary != nil && req.Salary.IsNegative() {
		return nil, helper.NewFieldError("salary", "salary must not be negative")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return u, nil
	}
	if err := s.DB.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "update teacher")
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the teacher and clears homeroom and subject assignments.
func (s *TeacherService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&classModel.ClassModel{}).Where("class_teacher_id = ?", id).
			Update("class_teacher_id", nil).Error; err != nil {
			return pkgErrors.Wrap(err, "clear homeroom")
		}
		if err := tx.Model(&classModel.ClassSubjectModel{}).Where("class_subject_teacher_id = ?", id).
			Update("class_subject_teacher_id", nil).Error; err != nil {
			return pkgErrors.Wrap(err, "clear class subjects")
		}
		if err := tx.Where("teacher_subject_teacher_id = ?", id).Delete(&subjectModel.TeacherSubjectModel{}).Error; err != nil {
			return pkgErrors.Wrap(err, "clear teacher subjects")
		}
		return tx.Delete(&userModel.UserModel{}, "id = ?", id).Error
	})
}

// AssignSubjects replaces the teacher's qualified subjects.
func (s *TeacherService) AssignSubjects(ctx context.Context, teacherID uuid.UUID, req dto.AssignSubjectsRequest) ([]subjectModel.SubjectModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, teacherID); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.SubjectIDs))
	seen := map[uuid.UUID]struct{}{}
	for _, id := range req.SubjectIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		var found int64
		if err := s.DB.WithContext(ctx).Model(&subjectModel.SubjectModel{}).
			Where("subject_id IN ?", ids).Count(&found).Error; err != nil {
			return nil, pkgErrors.Wrap(err, "check subjects")
		}
		if int(found) != len(ids) {
			return nil, helper.NewFieldError("subject_ids", "one or more subjects do not exist")
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("teacher_subject_teacher_id = ?", teacherID).Delete(&subjectModel.TeacherSubjectModel{}).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		rows := make([]subjectModel.TeacherSubjectModel, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, subjectModel.TeacherSubjectModel{TeacherSubjectTeacherID: teacherID, TeacherSubjectSubjectID: id})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
	if err != nil {
		return nil, pkgErrors.Wrap(err, "assign subjects")
	}
	return s.Subjects(ctx, teacherID)
}

/* ===================== Reviews ===================== */

func (s *TeacherService) CreateReview(ctx context.Context, teacherID uuid.UUID, reviewerID *uuid.UUID, req dto.CreateReviewRequest) (*teacherModel.PerformanceReviewModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, teacherID); err != nil {
		return nil, err
	}
	m := req.ToModel(teacherID, reviewerID)
	m.ReviewOverallRating = aggregate.OverallRating(m.Scores()...)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "create review")
	}
	return m, nil
}

// Reviews returns all reviews newest first with the average and the trend of the last two.
func (s *TeacherService) Reviews(ctx context.Context, teacherID uuid.UUID) (*dto.ReviewSummary, error) {
	if _, err := s.Get(ctx, teacherID); err != nil {
		return nil, err
	}
	var rows []teacherModel.PerformanceReviewModel
	if err := s.DB.WithContext(ctx).
		Where("review_teacher_id = ?", teacherID).
		Order("review_date DESC, review_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "load reviews")
	}

	ratings := make([]float64, len(rows))
	var sum float64
	for i, r := range rows {
		// oldest first for the trend
		ratings[len(rows)-1-i] = r.ReviewOverallRating
		sum += r.ReviewOverallRating
	}
	out := &dto.ReviewSummary{
		TeacherID:     teacherID,
		ReviewCount:   len(rows),
		AverageRating: aggregate.Round(aggregate.SafeAverage(sum, len(rows)), 1),
		Trend:         aggregate.RatingTrend(ratings),
		Reviews:       rows,
	}
	if len(rows) > 0 {
		latest := rows[0].ReviewOverallRating
		out.LatestRating = &latest
	}
	if out.Reviews == nil {
		out.Reviews = []teacherModel.PerformanceReviewModel{}
	}
	out.TrendStyle = presenter.StatusStyle(presenter.KindTrend, out.Trend)
	return out, nil
}
