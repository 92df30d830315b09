package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	"schoolhub_backend/internals/features/school/exams/dto"
	examModel "schoolhub_backend/internals/features/school/exams/model"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

type ExamService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewExamService(db *gorm.DB) *ExamService {
	return &ExamService{DB: db, Now: time.Now}
}

/* =========================================================
   EXAMS
   ========================================================= */

func (s *ExamService) List(ctx context.Context, q helper.ListQuery, f dto.ExamFilter) (helper.Page[examModel.ExamModel], error) {
	tx := s.DB.WithContext(ctx).Model(&examModel.ExamModel{})
	tx = helper.ApplySearch(tx, q.Search, "exam_title", "exam_type")
	filters := map[string]any{"exam_type": f.Type}
	if f.ClassID != nil {
		filters["exam_class_id"] = *f.ClassID
	}
	if f.SubjectID != nil {
		filters["exam_subject_id"] = *f.SubjectID
	}
	tx = helper.ApplyEquals(tx, filters)
	if f.From != nil {
		tx = tx.Where("exam_date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("exam_date < ?", f.To.AddDate(0, 0, 1))
	}
	return helper.FetchPage[examModel.ExamModel](ctx, tx, q, "exam_date DESC")
}

func (s *ExamService) Get(ctx context.Context, id uuid.UUID) (*examModel.ExamModel, error) {
	var m examModel.ExamModel
	if err := s.DB.WithContext(ctx).First(&m, "exam_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Exam not found")
		}
		return nil, pkgErrors.Wrap(err, "load exam")
	}
	return &m, nil
}

func (s *ExamService) ensureRefs(ctx context.Context, classID, subjectID uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_id = ?", classID).Count(&n).Error; err != nil {
		return pkgErrors.Wrap(err, "check class")
	}
	if n == 0 {
		return helper.NewFieldError("exam_class_id", "class not found")
	}
	if err := s.DB.WithContext(ctx).Model(&subjectModel.SubjectModel{}).
		Where("subject_id = ?", subjectID).Count(&n).Error; err != nil {
		return pkgErrors.Wrap(err, "check subject")
	}
	if n == 0 {
		return helper.NewFieldError("exam_subject_id", "subject not found")
	}
	return nil
}

func (s *ExamService) today() time.Time {
	now := s.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Create rejects pass marks above total marks and exam dates before today.
func (s *ExamService) Create(ctx context.Context, req dto.CreateExamRequest) (*examModel.ExamModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if req.ExamDate.UTC().Before(s.today()) {
		return nil, helper.NewFieldError("exam_date", "exam date must not be in the past")
	}
	if err := s.ensureRefs(ctx, req.ExamClassID, req.ExamSubjectID); err != nil {
		return nil, err
	}
	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsCheckViolation(err) {
			return nil, helper.NewFieldError("exam_pass_marks", "pass marks must not exceed total marks")
		}
		return nil, pkgErrors.Wrap(err, "create exam")
	}
	return m, nil
}

func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateExamRequest) (*examModel.ExamModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	total, pass := m.ExamTotalMarks, m.ExamPassMarks
	if req.ExamTotalMarks != nil {
		total = *req.ExamTotalMarks
	}
	if req.ExamPassMarks != nil {
		pass = *req.ExamPassMarks
	}
	if pass > total {
		return nil, helper.NewFieldError("exam_pass_marks", "pass marks must not exceed total marks")
	}
	if req.ExamTotalMarks != nil {
		var maxMarks sql.NullFloat64
		if err := s.DB.WithContext(ctx).Model(&examModel.ExamResultModel{}).
			Where("exam_result_exam_id = ?", id).
			Select("MAX(exam_result_marks_obtained)").Row().Scan(&maxMarks); err != nil {
			return nil, pkgErrors.Wrap(err, "check recorded marks")
		}
		if maxMarks.Valid && maxMarks.Float64 > total {
			return nil, helper.NewFieldError("exam_total_marks", "total marks is below a recorded result")
		}
	}

	updates := req.Updates()
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "update exam")
	}
	return s.Get(ctx, id)
}

func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_result_exam_id = ?", id).Delete(&examModel.ExamResultModel{}).Error; err != nil {
			return pkgErrors.Wrap(err, "delete results")
		}
		return tx.Delete(&examModel.ExamModel{}, "exam_id = ?", id).Error
	})
}

/* =========================================================
   RESULTS
   ========================================================= */

// RecordResults upserts marks per student. Any entry above total marks rejects the whole batch.
func (s *ExamService) RecordResults(ctx context.Context, examID uuid.UUID, req dto.RecordResultsRequest) ([]dto.ResultResponse, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	exam, err := s.Get(ctx, examID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.Results))
	seen := map[uuid.UUID]struct{}{}
	for i, r := range req.Results {
		if r.MarksObtained > exam.ExamTotalMarks {
			return nil, helper.NewFieldError(
				fmt.Sprintf("results[%d].marks_obtained", i),
				fmt.Sprintf("marks must not exceed total marks (%g)", exam.ExamTotalMarks),
			)
		}
		if _, dup := seen[r.StudentID]; dup {
			return nil, helper.NewFieldError(fmt.Sprintf("results[%d].student_id", i), "duplicate student in batch")
		}
		seen[r.StudentID] = struct{}{}
		ids = append(ids, r.StudentID)
	}

	var found int64
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id IN ? AND role = ?", ids, constants.RoleStudent).Count(&found).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "check students")
	}
	if int(found) != len(ids) {
		return nil, helper.NewFieldError("results", "one or more students do not exist")
	}

	rows := make([]examModel.ExamResultModel, 0, len(req.Results))
	for _, r := range req.Results {
		grade := aggregate.LetterGrade(aggregate.Percentage(r.MarksObtained, exam.ExamTotalMarks))
		rows = append(rows, examModel.ExamResultModel{
			ExamResultExamID:        examID,
			ExamResultStudentID:     r.StudentID,
			ExamResultMarksObtained: r.MarksObtained,
			ExamResultGrade:         &grade,
			ExamResultRemarks:       r.Remarks,
		})
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "exam_result_exam_id"}, {Name: "exam_result_student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"exam_result_marks_obtained", "exam_result_grade", "exam_result_remarks", "exam_result_updated_at",
			}),
		}).Create(&rows).Error
	})
	if err != nil {
		return nil, pkgErrors.Wrap(err, "record results")
	}
	configs.Logger("exams").Info().
		Str("exam_id", examID.String()).Int("results", len(rows)).
		Msg("[EXAM][RESULTS] recorded")
	return s.Results(ctx, examID)
}

type resultRow struct {
	examModel.ExamResultModel
	StudentName string
}

func (s *ExamService) Results(ctx context.Context, examID uuid.UUID) ([]dto.ResultResponse, error) {
	exam, err := s.Get(ctx, examID)
	if err != nil {
		return nil, err
	}
	var rows []resultRow
	if err := s.DB.WithContext(ctx).Table("exam_results").
		Select("exam_results.*, u.full_name AS student_name").
		Joins("JOIN users u ON u.id = exam_results.exam_result_student_id").
		Where("exam_results.exam_result_exam_id = ?", examID).
		Order("u.full_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "load results")
	}

	out := make([]dto.ResultResponse, 0, len(rows))
	for _, r := range rows {
		pct := aggregate.Round(aggregate.Percentage(r.ExamResultMarksObtained, exam.ExamTotalMarks), 1)
		passed := aggregate.Passed(r.ExamResultMarksObtained, exam.ExamPassMarks)
		grade := aggregate.LetterGrade(pct)
		if r.ExamResultGrade != nil && *r.ExamResultGrade != "" {
			grade = *r.ExamResultGrade
		}
		out = append(out, dto.ResultResponse{
			ExamResultID:  r.ExamResultID,
			StudentID:     r.ExamResultStudentID,
			StudentName:   r.StudentName,
			MarksObtained: r.ExamResultMarksObtained,
			Percentage:    pct,
			Grade:         grade,
			Passed:        passed,
			Style:         presenter.StatusStyle(presenter.KindExamResult, passFail(passed)),
			Remarks:       r.ExamResultRemarks,
		})
	}
	return out, nil
}

func passFail(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

/* =========================================================
   STATS
   ========================================================= */

// Stats summarises an exam; no results yields zeros and an empty distribution.
func (s *ExamService) Stats(ctx context.Context, examID uuid.UUID) (*dto.ExamStats, error) {
	exam, err := s.Get(ctx, examID)
	if err != nil {
		return nil, err
	}
	var marks []float64
	if err := s.DB.WithContext(ctx).Model(&examModel.ExamResultModel{}).
		Where("exam_result_exam_id = ?", examID).
		Pluck("exam_result_marks_obtained", &marks).Error; err != nil {
		configs.Logger("exams").Error().Err(err).Msg("[EXAM][STATS] load marks failed")
		marks = nil
	}
	return BuildExamStats(exam, marks), nil
}

func BuildExamStats(exam *examModel.ExamModel, marks []float64) *dto.ExamStats {
	out := &dto.ExamStats{
		ExamID:      exam.ExamID,
		ExamTitle:   exam.ExamTitle,
		TotalMarks:  exam.ExamTotalMarks,
		PassMarks:   exam.ExamPassMarks,
		ResultCount: len(marks),
	}
	percentages := make([]float64, 0, len(marks))
	for _, m := range marks {
		if aggregate.Passed(m, exam.ExamPassMarks) {
			out.PassCount++
		} else {
			out.FailCount++
		}
		percentages = append(percentages, aggregate.Percentage(m, exam.ExamTotalMarks))
	}
	out.Average = aggregate.Round(aggregate.Mean(marks), 2)
	out.Lowest, out.Highest = aggregate.MinMax(marks)
	out.PassRate = aggregate.Round(aggregate.Percentage(float64(out.PassCount), float64(len(marks))), 1)
	out.Distribution = aggregate.GradeDistribution(percentages)

	out.Bars = make([]presenter.Bar, 0, len(aggregate.DistributionBins))
	for _, bin := range aggregate.DistributionBins {
		out.Bars = append(out.Bars, presenter.ProportionBar(bin, float64(out.Distribution[bin]), float64(len(marks))))
	}
	return out
}
