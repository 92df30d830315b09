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
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	"schoolhub_backend/internals/features/school/classes/dto"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	examModel "schoolhub_backend/internals/features/school/exams/model"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

type ClassService struct {
	DB *gorm.DB
}

func NewClassService(db *gorm.DB) *ClassService {
	return &ClassService{DB: db}
}

func (s *ClassService) Get(ctx context.Context, id uuid.UUID) (*classModel.ClassModel, error) {
	var m classModel.ClassModel
	if err := s.DB.WithContext(ctx).First(&m, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Class not found")
		}
		return nil, pkgErrors.Wrap(err, "load class")
	}
	return &m, nil
}

// StudentCounts returns student counts keyed by class id.
func (s *ClassService) StudentCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := map[uuid.UUID]int64{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ClassID uuid.UUID
		N       int64
	}
	err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Select("class_id, COUNT(*) AS n").
		Where("role = ? AND class_id IN ?", constants.RoleStudent, ids).
		Group("class_id").
		Scan(&rows).Error
	for _, r := range rows {
		out[r.ClassID] = r.N
	}
	return out, err
}

func (s *ClassService) List(ctx context.Context, q helper.ListQuery, grade int, year string, teacherID *uuid.UUID) (helper.Page[classModel.ClassModel], error) {
	tx := s.DB.WithContext(ctx).Model(&classModel.ClassModel{})
	tx = helper.ApplySearch(tx, q.Search, "class_name", "class_section", "class_academic_year")
	filters := map[string]any{"class_academic_year": year}
	if grade > 0 {
		filters["class_grade"] = grade
	}
	if teacherID != nil {
		filters["class_teacher_id"] = *teacherID
	}
	tx = helper.ApplyEquals(tx, filters)
	return helper.FetchPage[classModel.ClassModel](ctx, tx, q, "class_grade ASC, class_name ASC")
}

func (s *ClassService) ensureTeacher(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND role = ?", *id, constants.RoleTeacher).Count(&n).Error; err != nil {
		return pkgErrors.Wrap(err, "check teacher")
	}
	if n == 0 {
		return helper.NewFieldError("class_teacher_id", "teacher not found")
	}
	return nil
}

func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*classModel.ClassModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_name = ? AND class_academic_year = ?", req.ClassName, req.ClassAcademicYear).
		Count(&n).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "duplicate check")
	}
	if n > 0 {
		return nil, helper.Conflict("A class with this name already exists for the academic year")
	}
	if err := s.ensureTeacher(ctx, req.ClassTeacherID); err != nil {
		return nil, err
	}
	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("A class with this name already exists for the academic year")
		}
		return nil, pkgErrors.Wrap(err, "create class")
	}
	return m, nil
}

func (s *ClassService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClassRequest) (*classModel.ClassModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureTeacher(ctx, req.ClassTeacherID); err != nil {
		return nil, err
	}
	if req.ClassCapacity != nil {
		current, err := CountStudents(ctx, s.DB, id)
		if err != nil {
			return nil, pkgErrors.Wrap(err, "count students")
		}
		if int64(*req.ClassCapacity) < current {
			return nil, helper.NewFieldError("class_capacity", "capacity is below the number of assigned students")
		}
	}
	if updates := req.Updates(); len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
			Where("class_id = ?", id).Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.Conflict("A class with this name already exists for the academic year")
			}
			return nil, pkgErrors.Wrap(err, "update class")
		}
	}
	return s.Get(ctx, id)
}

// Delete refuses classes that still have students.
func (s *ClassService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := CountStudents(ctx, s.DB, id)
	if err != nil {
		return pkgErrors.Wrap(err, "count students")
	}
	if n > 0 {
		return helper.Conflict("Class still has assigned students")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_subject_class_id = ?", id).Delete(&classModel.ClassSubjectModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&classModel.ClassModel{}, "class_id = ?", id).Error
	})
}

// AssignStudents moves students into the class; students already in it are skipped.
// The whole request fails when the class cannot hold the new students.
func (s *ClassService) AssignStudents(ctx context.Context, classID uuid.UUID, req dto.AssignStudentsRequest) (*dto.AssignResult, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	res := &dto.AssignResult{Assigned: []uuid.UUID{}, Skipped: []uuid.UUID{}}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var students []userModel.UserModel
		if err := tx.Select("id", "class_id").
			Where("id IN ? AND role = ?", req.StudentIDs, constants.RoleStudent).
			Find(&students).Error; err != nil {
			return err
		}
		if len(students) != len(uniqueIDs(req.StudentIDs)) {
			return helper.NewFieldError("student_ids", "one or more students were not found")
		}
		var incoming []uuid.UUID
		for _, st := range students {
			if st.ClassID != nil && *st.ClassID == classID {
				res.Skipped = append(res.Skipped, st.ID)
				continue
			}
			incoming = append(incoming, st.ID)
		}
		if len(incoming) == 0 {
			return nil
		}
		if _, err := EnsureCapacity(ctx, tx, classID, len(incoming)); err != nil {
			return err
		}
		if err := tx.Model(&userModel.UserModel{}).Where("id IN ?", incoming).
			Update("class_id", classID).Error; err != nil {
			return err
		}
		res.Assigned = incoming
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// LinkSubjects replaces the class's subject links.
func (s *ClassService) LinkSubjects(ctx context.Context, classID uuid.UUID, req dto.LinkSubjectsRequest) ([]classModel.ClassSubjectModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	var out []classModel.ClassSubjectModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uuid.UUID, 0, len(req.Subjects))
		for _, l := range req.Subjects {
			ids = append(ids, l.SubjectID)
		}
		if len(ids) > 0 {
			var n int64
			if err := tx.Model(&subjectModel.SubjectModel{}).Where("subject_id IN ?", ids).Count(&n).Error; err != nil {
				return err
			}
			if int(n) != len(uniqueIDs(ids)) {
				return helper.NewFieldError("subjects", "one or more subjects were not found")
			}
		}
		if err := tx.Where("class_subject_class_id = ?", classID).Delete(&classModel.ClassSubjectModel{}).Error; err != nil {
			return err
		}
		for _, l := range req.Subjects {
			row := classModel.ClassSubjectModel{
				ClassSubjectClassID:   classID,
				ClassSubjectSubjectID: l.SubjectID,
				ClassSubjectTeacherID: l.TeacherID,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stats never fails on an empty class: occupancy is 0 and attendance is insufficient data.
// Read failures degrade to those defaults and are logged.
func (s *ClassService) Stats(ctx context.Context, classID uuid.UUID) (*dto.ClassStats, error) {
	class, err := s.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	log := configs.Logger("classes")
	var (
		students, subjects, exams int64
		attended, sessions        int64
	)
	errs := helper.FanOutSettled(ctx,
		func(ctx context.Context) (err error) { students, err = CountStudents(ctx, s.DB, classID); return },
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Model(&classModel.ClassSubjectModel{}).
				Where("class_subject_class_id = ?", classID).Count(&subjects).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Model(&examModel.ExamModel{}).
				Where("exam_class_id = ?", classID).Count(&exams).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Model(&attendanceModel.AttendanceRecordModel{}).
				Where("attendance_class_id = ?", classID).Count(&sessions).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Model(&attendanceModel.AttendanceRecordModel{}).
				Where("attendance_class_id = ? AND attendance_status = ?", classID, constants.AttendancePresent).
				Count(&attended).Error
		},
	)
	for _, e := range errs {
		if e != nil {
			log.Error().Err(e).Str("class_id", classID.String()).Msg("[CLASS][STATS] read failed")
		}
	}

	occupancy := 0.0
	if students > 0 {
		occupancy = aggregate.Round(aggregate.Percentage(float64(students), float64(class.ClassCapacity)), 1)
	}
	att := aggregate.AttendanceRate(int(attended), int(sessions))
	return &dto.ClassStats{
		ClassID:           class.ClassID,
		ClassName:         class.ClassName,
		StudentCount:      students,
		Capacity:          class.ClassCapacity,
		OccupancyRate:     occupancy,
		AverageAttendance: att,
		AttendanceText:    presenter.MetricValue(att),
		SubjectCount:      subjects,
		ExamCount:         exams,
	}, nil
}
