package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	"schoolhub_backend/internals/features/school/exams/dto"
	examModel "schoolhub_backend/internals/features/school/exams/model"
	"schoolhub_backend/internals/features/school/exams/service"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	helper "schoolhub_backend/internals/helpers"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	svc     *service.ExamService
	classID uuid.UUID
	subject uuid.UUID
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.New(t)
	svc := service.NewExamService(db)
	svc.Now = func() time.Time { return fixedNow }

	class := classModel.ClassModel{ClassName: "Grade 5 A", ClassGrade: 5, ClassCapacity: 30, ClassAcademicYear: "2024/2025"}
	require.NoError(t, db.Create(&class).Error)
	subject := subjectModel.SubjectModel{SubjectCode: "MATH", SubjectName: "Mathematics"}
	require.NoError(t, db.Create(&subject).Error)
	return fixture{db: db, svc: svc, classID: class.ClassID, subject: subject.SubjectID}
}

func (f fixture) request(total, pass float64, date time.Time) dto.CreateExamRequest {
	return dto.CreateExamRequest{
		ExamTitle: "Midterm", ExamClassID: f.classID, ExamSubjectID: f.subject,
		ExamType: "midterm", ExamDate: date, ExamTotalMarks: total, ExamPassMarks: pass,
	}
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve.Map()
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.request(100, 120, fixedNow))
	assert.Contains(t, fieldsOf(t, err), "exam_pass_marks")

	_, err = f.svc.Create(ctx, f.request(0, 0, fixedNow))
	assert.Contains(t, fieldsOf(t, err), "exam_total_marks")

	_, err = f.svc.Create(ctx, f.request(100, 40, fixedNow.AddDate(0, 0, -1)))
	assert.Contains(t, fieldsOf(t, err), "exam_date")

	m, err := f.svc.Create(ctx, f.request(100, 40, fixedNow))
	require.NoError(t, err)
	assert.Equal(t, "MIDTERM", m.ExamType)
	assert.Equal(t, 60, m.ExamDurationMinutes)
}

func TestCreate_UnknownClass(t *testing.T) {
	f := setup(t)
	req := f.request(100, 40, fixedNow)
	req.ExamClassID = uuid.New()
	_, err := f.svc.Create(context.Background(), req)
	assert.Contains(t, fieldsOf(t, err), "exam_class_id")
}

func TestRecordResults_MarksAboveTotalRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	exam, err := f.svc.Create(ctx, f.request(50, 25, fixedNow))
	require.NoError(t, err)
	st := dbtest.User(t, f.db, constants.RoleStudent)

	_, err = f.svc.RecordResults(ctx, exam.ExamID, dto.RecordResultsRequest{Results: []dto.ResultEntry{{StudentID: st.ID, MarksObtained: 51}}})
	assert.Contains(t, fieldsOf(t, err), "results[0].marks_obtained")

	var n int64
	require.NoError(t, f.db.Model(&examModel.ExamResultModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecordResults_UpsertAndGrade(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	exam, err := f.svc.Create(ctx, f.request(100, 40, fixedNow))
	require.NoError(t, err)
	st := dbtest.User(t, f.db, constants.RoleStudent)

	rows, err := f.svc.RecordResults(ctx, exam.ExamID, dto.RecordResultsRequest{Results: []dto.ResultEntry{{StudentID: st.ID, MarksObtained: 35}}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Passed)
	assert.Equal(t, "F", rows[0].Grade)
	assert.Equal(t, "red", rows[0].Style.Color)

	rows, err = f.svc.RecordResults(ctx, exam.ExamID, dto.RecordResultsRequest{Results: []dto.ResultEntry{{StudentID: st.ID, MarksObtained: 95}}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Passed)
	assert.Equal(t, "A", rows[0].Grade)
	assert.Equal(t, 95.0, rows[0].MarksObtained)
}

func TestRecordResults_UnknownStudent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	exam, err := f.svc.Create(ctx, f.request(100, 40, fixedNow))
	require.NoError(t, err)
	_, err = f.svc.RecordResults(ctx, exam.ExamID, dto.RecordResultsRequest{Results: []dto.ResultEntry{{StudentID: uuid.New(), MarksObtained: 10}}})
	assert.Contains(t, fieldsOf(t, err), "results")
}

func TestStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	exam, err := f.svc.Create(ctx, f.request(100, 50, fixedNow))
	require.NoError(t, err)

	empty, err := f.svc.Stats(ctx, exam.ExamID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.ResultCount)
	assert.Equal(t, 0.0, empty.Average)
	assert.Equal(t, 0.0, empty.PassRate)

	var entries []dto.ResultEntry
	for _, m := range []float64{95, 85, 50, 30} {
		st := dbtest.User(t, f.db, constants.RoleStudent)
		entries = append(entries, dto.ResultEntry{StudentID: st.ID, MarksObtained: m})
	}
	_, err = f.svc.RecordResults(ctx, exam.ExamID, dto.RecordResultsRequest{Results: entries})
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, exam.ExamID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.ResultCount)
	assert.Equal(t, 65.0, stats.Average)
	assert.Equal(t, 95.0, stats.Highest)
	assert.Equal(t, 30.0, stats.Lowest)
	assert.Equal(t, 3, stats.PassCount)
	assert.Equal(t, 1, stats.FailCount)
	assert.Equal(t, 75.0, stats.PassRate)
	assert.Equal(t, map[string]int{"A+": 1, "A": 1, "B": 0, "C": 1, "F": 1}, stats.Distribution)
	assert.Len(t, stats.Bars, 5)
}

func TestBuildExamStats_PassBoundaryWhenPassEqualsTotal(t *testing.T) {
	exam := &examModel.ExamModel{ExamTotalMarks: 20, ExamPassMarks: 20}
	stats := service.BuildExamStats(exam, []float64{20, 19.5})
	assert.Equal(t, 1, stats.PassCount)
	assert.Equal(t, 1, stats.FailCount)
}

func TestUpdate_TotalBelowRecordedMarks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	exam, err := f.svc.Create(ctx, f.request(100, 40, fixedNow))
	require.NoError(t, err)
	st := dbtest.User(t, f.db, constants.RoleStudent)
	_, err = f.svc.RecordResults(ctx, exam.ExamID, dto.RecordResultsRequest{Results: []dto.ResultEntry{{StudentID: st.ID, MarksObtained: 80}}})
	require.NoError(t, err)

	total := 70.0
	_, err = f.svc.Update(ctx, exam.ExamID, dto.UpdateExamRequest{ExamTotalMarks: &total})
	assert.Contains(t, fieldsOf(t, err), "exam_total_marks")
}
