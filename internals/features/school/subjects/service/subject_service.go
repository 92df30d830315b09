package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	classModel "schoolhub_backend/internals/features/school/classes/model"
	examModel "schoolhub_backend/internals/features/school/exams/model"
	"schoolhub_backend/internals/features/school/subjects/dto"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	helper "schoolhub_backend/internals/helpers"
)

type SubjectService struct {
	DB *gorm.DB
}

func NewSubjectService(db *gorm.DB) *SubjectService {
	return &SubjectService{DB: db}
}

func (s *SubjectService) List(ctx context.Context, q helper.ListQuery) (helper.Page[subjectModel.SubjectModel], error) {
	tx := s.DB.WithContext(ctx).Model(&subjectModel.SubjectModel{})
	tx = helper.ApplySearch(tx, q.Search, "subject_code", "subject_name")
	return helper.FetchPage[subjectModel.SubjectModel](ctx, tx, q, "subject_code ASC")
}

func (s *SubjectService) Get(ctx context.Context, id uuid.UUID) (*subjectModel.SubjectModel, error) {
	var m subjectModel.SubjectModel
	if err := s.DB.WithContext(ctx).First(&m, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Subject not found")
		}
		return nil, pkgErrors.Wrap(err, "load subject")
	}
	return &m, nil
}

func (s *SubjectService) codeTaken(ctx context.Context, code string, exclude *uuid.UUID) (bool, error) {
	tx := s.DB.WithContext(ctx).Model(&subjectModel.SubjectModel{}).Unscoped().Where("subject_code = ?", code)
	if exclude != nil {
		tx = tx.Where("subject_id <> ?", *exclude)
	}
	var n int64
	err := tx.Count(&n).Error
	return n > 0, err
}

func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*subjectModel.SubjectModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	taken, err := s.codeTaken(ctx, req.SubjectCode, nil)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "check subject code")
	}
	if taken {
		return nil, helper.Conflict("Subject code already exists")
	}
	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("Subject code already exists")
		}
		return nil, pkgErrors.Wrap(err, "create subject")
	}
	return m, nil
}

func (s *SubjectService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSubjectRequest) (*subjectModel.SubjectModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SubjectCode != nil {
		taken, err := s.codeTaken(ctx, *req.SubjectCode, &id)
		if err != nil {
			return nil, pkgErrors.Wrap(err, "check subject code")
		}
		if taken {
			return nil, helper.Conflict("Subject code already exists")
		}
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "update subject")
	}
	return s.Get(ctx, id)
}

// Delete refuses while exams reference the subject; class and teacher links go with it.
func (s *SubjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	var exams int64
	if err := s.DB.WithContext(ctx).Model(&examModel.ExamModel{}).
		Where("exam_subject_id = ?", id).Count(&exams).Error; err != nil {
		return pkgErrors.Wrap(err, "count exams")
	}
	if exams > 0 {
		return helper.Conflict("Subject has exams and cannot be deleted")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_subject_subject_id = ?", id).Delete(&classModel.ClassSubjectModel{}).Error; err != nil {
			return pkgErrors.Wrap(err, "unlink classes")
		}
		if err := tx.Where("teacher_subject_subject_id = ?", id).Delete(&subjectModel.TeacherSubjectModel{}).Error; err != nil {
			return pkgErrors.Wrap(err, "unlink teachers")
		}
		return tx.Delete(&subjectModel.SubjectModel{}, "subject_id = ?", id).Error
	})
}
