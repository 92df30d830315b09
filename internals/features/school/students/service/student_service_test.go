package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	"schoolhub_backend/internals/features/reports/aggregate"
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	examModel "schoolhub_backend/internals/features/school/exams/model"
	"schoolhub_backend/internals/features/school/students/dto"
	"schoolhub_backend/internals/features/school/students/service"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	helper "schoolhub_backend/internals/helpers"
	helperOSS "schoolhub_backend/internals/helpers/oss"
)

func newService(t *testing.T) (*service.StudentService, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	return service.NewStudentService(db, helperOSS.NewMemoryBlobStore("http://blob.test")), db
}

func row(i int) dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		FullName: fmt.Sprintf("Student %d", i),
		Email:    fmt.Sprintf("student%d@example.com", i),
	}
}

func TestBulkImport_CreatedAndSkipped(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// two pre-existing students
	for i := 1; i <= 2; i++ {
		_, err := svc.Create(ctx, row(i))
		require.NoError(t, err)
	}

	rows := []dto.CreateStudentRequest{row(1), row(2)}
	for i := 10; i < 15; i++ {
		rows = append(rows, row(i))
	}
	res := svc.BulkImport(ctx, rows)

	assert.Len(t, res.Created, 5)
	assert.Len(t, res.Skipped, 2)
	assert.Len(t, res.Errors, 0)
	assert.Equal(t, 1, res.Skipped[0].Row)
	assert.Equal(t, 2, res.Skipped[1].Row)
}

func TestBulkImport_DuplicateWithinBatchIsSkipped(t *testing.T) {
	svc, _ := newService(t)
	res := svc.BulkImport(context.Background(), []dto.CreateStudentRequest{row(1), row(1)})

	assert.Len(t, res.Created, 1)
	assert.Len(t, res.Skipped, 1)
	assert.Empty(t, res.Errors)
}

func TestBulkImport_InvalidRowIsError(t *testing.T) {
	svc, _ := newService(t)
	bad := row(2)
	bad.Email = "nope"

	res := svc.BulkImport(context.Background(), []dto.CreateStudentRequest{row(1), bad})
	assert.Len(t, res.Created, 1)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, "email", res.Errors[0].Field)
}

func TestCreate_DuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, row(1))
	require.NoError(t, err)

	_, err = svc.Create(ctx, row(1))
	assert.True(t, errors.Is(err, helper.ErrConflict))
}

func TestCreate_ClassCapacity(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	class := classModel.ClassModel{ClassName: "1A", ClassGrade: 1, ClassCapacity: 1, ClassAcademicYear: "2024/2025"}
	require.NoError(t, db.Create(&class).Error)

	first := row(1)
	first.ClassID = &class.ClassID
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := row(2)
	second.ClassID = &class.ClassID
	_, err = svc.Create(ctx, second)
	assert.True(t, errors.Is(err, helper.ErrConflict))
}

func TestList_SearchAndFilter(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		_, err := svc.Create(ctx, row(i))
		require.NoError(t, err)
	}
	inactive := false
	s, err := svc.Create(ctx, dto.CreateStudentRequest{FullName: "Zara Quill", Email: "zara@example.com"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, s.ID, dto.UpdateStudentRequest{IsActive: &inactive})
	require.NoError(t, err)

	page, err := svc.List(ctx, helper.ListQuery{Page: 1, Limit: 2, Search: "STUDENT"}, dto.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(ctx, helper.ListQuery{Page: 1, Limit: 10}, dto.StudentFilter{IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Zara Quill", page.Items[0].FullName)

	page, err = svc.List(ctx, helper.ListQuery{Page: 1, Limit: 10, Search: "nobody"}, dto.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.NotNil(t, page.Items)
}

func TestPerformance_NoRecordsUsesDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	s, err := svc.Create(ctx, row(1))
	require.NoError(t, err)

	perf, err := svc.Performance(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, perf.GPA)
	assert.Equal(t, aggregate.NoGrade, perf.OverallGrade)
	assert.Equal(t, aggregate.StateInsufficient, perf.Attendance.State)
	assert.Equal(t, "N/A", perf.AttendanceText)
	assert.Equal(t, 85, perf.BehaviorScore)
	assert.Empty(t, perf.Subjects)
}

func TestPerformance_Aggregates(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	s, err := svc.Create(ctx, row(1))
	require.NoError(t, err)

	class := classModel.ClassModel{ClassName: "2B", ClassGrade: 2, ClassCapacity: 30, ClassAcademicYear: "2024/2025"}
	require.NoError(t, db.Create(&class).Error)
	subject := subjectModel.SubjectModel{SubjectCode: "math", SubjectName: "Mathematics"}
	require.NoError(t, db.Create(&subject).Error)

	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	for i, marks := range []float64{95, 85} {
		exam := examModel.ExamModel{
			ExamTitle: fmt.Sprintf("Quiz %d", i+1), ExamClassID: class.ClassID, ExamSubjectID: subject.SubjectID,
			ExamType: constants.ExamQuiz, ExamDate: day.AddDate(0, 0, i), ExamTotalMarks: 100, ExamPassMarks: 50,
		}
		require.NoError(t, db.Create(&exam).Error)
		require.NoError(t, db.Create(&examModel.ExamResultModel{
			ExamResultExamID: exam.ExamID, ExamResultStudentID: s.ID, ExamResultMarksObtained: marks,
		}).Error)
	}
	statuses := []string{constants.AttendancePresent, constants.AttendancePresent, constants.AttendanceLate, constants.AttendanceAbsent}
	for i, st := range statuses {
		require.NoError(t, db.Create(&attendanceModel.AttendanceRecordModel{
			AttendanceStudentID: s.ID, AttendanceClassID: class.ClassID,
			AttendanceSessionDate: day.AddDate(0, 0, i), AttendanceStatus: st,
		}).Error)
	}
	require.NoError(t, db.Create(&attendanceModel.BehaviorRecordModel{
		BehaviorStudentID: s.ID, BehaviorType: constants.BehaviorPositive, BehaviorDescription: "Helped a classmate",
	}).Error)

	perf, err := svc.Performance(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, perf.Exams, 2)
	assert.Equal(t, 2, perf.PassedExams)
	assert.Equal(t, 90.0, perf.AveragePercent)
	require.True(t, perf.Attendance.Sufficient())
	assert.Equal(t, 50.0, *perf.Attendance.Value)
	assert.Equal(t, 90, perf.BehaviorScore)
	require.Len(t, perf.Subjects, 1)
	assert.Equal(t, "Mathematics", perf.Subjects[0].SubjectName)
	assert.Equal(t, 90.0, perf.Subjects[0].Average)
}

func TestAttended_CountsOnlyPresent(t *testing.T) {
	attended, total := service.Attended(map[string]int{
		constants.AttendancePresent: 1,
		constants.AttendanceLate:    1,
	})
	assert.Equal(t, 1, attended)
	assert.Equal(t, 2, total)

	attended, total = service.Attended(nil)
	assert.Zero(t, attended)
	assert.Zero(t, total)
}

func TestReportCard_RendersPDF(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	s, err := svc.Create(ctx, row(1))
	require.NoError(t, err)

	data, filename, err := svc.ReportCard(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Contains(t, filename, "report-card-STU-")
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newService(t)
	s := dbtest.User(t, svc.DB, constants.RoleTeacher)

	err := svc.Delete(context.Background(), s.ID)
	assert.True(t, errors.Is(err, helper.ErrNotFound))
}
