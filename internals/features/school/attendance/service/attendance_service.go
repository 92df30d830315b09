package service

import (
	"context"
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
	"schoolhub_backend/internals/features/school/attendance/dto"
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	studentService "schoolhub_backend/internals/features/school/students/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

type AttendanceService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db, Now: time.Now}
}

/* =========================================================
   ATTENDANCE
   ========================================================= */

// Mark upserts one session for a class; re-marking the same day overwrites status and remarks.
func (s *AttendanceService) Mark(ctx context.Context, markedBy *uuid.UUID, req dto.MarkAttendanceRequest) (*dto.MarkResult, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	date := req.Date()
	if date.After(s.Now().UTC()) {
		return nil, helper.NewFieldError("session_date", "session date must not be in the future")
	}

	var n int64
	if err := s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_id = ?", req.ClassID).Count(&n).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "check class")
	}
	if n == 0 {
		return nil, helper.NewFieldError("class_id", "class not found")
	}

	ids := make([]uuid.UUID, 0, len(req.Records))
	for _, r := range req.Records {
		ids = append(ids, r.StudentID)
	}
	var members []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id IN ? AND role = ? AND class_id = ?", ids, constants.RoleStudent, req.ClassID).
		Pluck("id", &members).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "check students")
	}
	inClass := make(map[uuid.UUID]struct{}, len(members))
	for _, id := range members {
		inClass[id] = struct{}{}
	}

	seen := map[uuid.UUID]struct{}{}
	rows := make([]attendanceModel.AttendanceRecordModel, 0, len(req.Records))
	for i, r := range req.Records {
		if _, ok := inClass[r.StudentID]; !ok {
			return nil, helper.NewFieldError(fmt.Sprintf("records[%d].student_id", i), "student is not in this class")
		}
		if _, dup := seen[r.StudentID]; dup {
			return nil, helper.NewFieldError(fmt.Sprintf("records[%d].student_id", i), "duplicate student in session")
		}
		seen[r.StudentID] = struct{}{}
		rows = append(rows, attendanceModel.AttendanceRecordModel{
			AttendanceStudentID:   r.StudentID,
			AttendanceClassID:     req.ClassID,
			AttendanceSessionDate: date,
			AttendanceStatus:      r.Status,
			AttendanceRemarks:     r.Remarks,
			AttendanceMarkedBy:    markedBy,
		})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_student_id"}, {Name: "attendance_class_id"}, {Name: "attendance_session_date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"attendance_status", "attendance_remarks", "attendance_marked_by", "attendance_updated_at",
			}),
		}).Create(&rows).Error
	})
	if err != nil {
		return nil, pkgErrors.Wrap(err, "mark attendance")
	}
	configs.Logger("attendance").Info().
		Str("class_id", req.ClassID.String()).Str("date", req.SessionDate).Int("records", len(rows)).
		Msg("[ATTENDANCE][MARK] saved")
	return &dto.MarkResult{ClassID: req.ClassID, SessionDate: req.SessionDate, Saved: len(rows)}, nil
}

func (s *AttendanceService) filtered(ctx context.Context, f dto.AttendanceFilter) *gorm.DB {
	tx := s.DB.WithContext(ctx).Model(&attendanceModel.AttendanceRecordModel{})
	filters := map[string]any{"attendance_status": f.Status}
	if f.ClassID != nil {
		filters["attendance_class_id"] = *f.ClassID
	}
	if f.StudentID != nil {
		filters["attendance_student_id"] = *f.StudentID
	}
	tx = helper.ApplyEquals(tx, filters)
	if f.From != nil {
		tx = tx.Where("attendance_session_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		tx = tx.Where("attendance_session_date < ?", f.To.UTC().AddDate(0, 0, 1))
	}
	return tx
}

func (s *AttendanceService) List(ctx context.Context, q helper.ListQuery, f dto.AttendanceFilter) (helper.Page[attendanceModel.AttendanceRecordModel], error) {
	return helper.FetchPage[attendanceModel.AttendanceRecordModel](ctx, s.filtered(ctx, f), q, "attendance_session_date DESC")
}

// Summary counts statuses for the filter and buckets attended sessions by month of year.
func (s *AttendanceService) Summary(ctx context.Context, f dto.AttendanceFilter, year int) (*dto.AttendanceSummary, error) {
	if year == 0 {
		year = s.Now().Year()
	}
	f.From = ptrTime(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC))
	f.To = ptrTime(time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC))

	var rows []struct {
		Status string
		N      int
	}
	var dates []time.Time
	errs := helper.FanOutSettled(ctx,
		func(ctx context.Context) error {
			return s.filtered(ctx, f).
				Select("attendance_status AS status, COUNT(*) AS n").
				Group("attendance_status").
				Scan(&rows).Error
		},
		func(ctx context.Context) error {
			return s.filtered(ctx, f).
				Where("attendance_status = ?", constants.AttendancePresent).
				Pluck("attendance_session_date", &dates).Error
		},
	)
	for _, err := range errs {
		if err != nil {
			configs.Logger("attendance").Error().Err(err).Msg("[ATTENDANCE][SUMMARY] partial read failed")
		}
	}

	counts := map[string]int{}
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	attended, total := studentService.Attended(counts)
	rate := aggregate.AttendanceRate(attended, total)
	return &dto.AttendanceSummary{
		ClassID:   f.ClassID,
		StudentID: f.StudentID,
		Year:      year,
		Present:   counts[constants.AttendancePresent],
		Late:      counts[constants.AttendanceLate],
		Absent:    counts[constants.AttendanceAbsent],
		Sessions:  total,
		Rate:      rate,
		RateText:  presenter.MetricValue(rate),
		Monthly:   aggregate.MonthlyCounts(dates),
		Bars:      presenter.StatusBars(presenter.KindAttendance, constants.AttendanceStatuses, counts),
	}, nil
}

func ptrTime(t time.Time) *time.Time { return &t }

/* =========================================================
   BEHAVIOR
   ========================================================= */

func (s *AttendanceService) RecordBehavior(ctx context.Context, recordedBy *uuid.UUID, req dto.CreateBehaviorRequest) (*attendanceModel.BehaviorRecordModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND role = ?", req.StudentID, constants.RoleStudent).Count(&n).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "check student")
	}
	if n == 0 {
		return nil, helper.NewFieldError("student_id", "student not found")
	}
	m := &attendanceModel.BehaviorRecordModel{
		BehaviorStudentID:   req.StudentID,
		BehaviorType:        req.Type,
		BehaviorDescription: req.Description,
		BehaviorRecordedBy:  recordedBy,
	}
	if req.RecordedAt != nil {
		m.BehaviorRecordedAt = *req.RecordedAt
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "record behavior")
	}
	return m, nil
}

func (s *AttendanceService) ListBehavior(ctx context.Context, q helper.ListQuery, studentID *uuid.UUID, kind string) (helper.Page[attendanceModel.BehaviorRecordModel], error) {
	tx := s.DB.WithContext(ctx).Model(&attendanceModel.BehaviorRecordModel{})
	filters := map[string]any{"behavior_type": kind}
	if studentID != nil {
		filters["behavior_student_id"] = *studentID
	}
	tx = helper.ApplyEquals(tx, filters)
	tx = helper.ApplySearch(tx, q.Search, "behavior_description")
	return helper.FetchPage[attendanceModel.BehaviorRecordModel](ctx, tx, q, "behavior_recorded_at DESC")
}

func (s *AttendanceService) BehaviorSummary(ctx context.Context, studentID uuid.UUID) (*dto.BehaviorSummary, error) {
	pos, neg, err := studentService.BehaviorCounts(ctx, s.DB, studentID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "count behavior")
	}
	return &dto.BehaviorSummary{
		StudentID: studentID,
		Positive:  pos,
		Negative:  neg,
		Score:     aggregate.BehaviorScore(pos, neg),
	}, nil
}
