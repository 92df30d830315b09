package service_test

import (
	"context"
	"errors"
	"testing"

	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	"schoolhub_backend/internals/features/reports/aggregate"
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	"schoolhub_backend/internals/features/school/classes/dto"
	"schoolhub_backend/internals/features/school/classes/service"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	helper "schoolhub_backend/internals/helpers"
)

func createClass(t *testing.T, svc *service.ClassService, capacity int) uuid.UUID {
	t.Helper()
	m, err := svc.Create(context.Background(), dto.CreateClassRequest{
		ClassName: "Grade 3 A", ClassGrade: 3, ClassCapacity: capacity, ClassAcademicYear: "2024/2025",
	})
	require.NoError(t, err)
	return m.ClassID
}

func TestStats_EmptyClass(t *testing.T) {
	svc := service.NewClassService(dbtest.New(t))
	id := createClass(t, svc, 30)

	stats, err := svc.Stats(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.StudentCount)
	assert.Equal(t, 0.0, stats.OccupancyRate)
	assert.Equal(t, aggregate.StateInsufficient, stats.AverageAttendance.State)
	assert.Nil(t, stats.AverageAttendance.Value)
	assert.Equal(t, "N/A", stats.AttendanceText)
}

func TestCreate_DuplicateNameSameYear(t *testing.T) {
	svc := service.NewClassService(dbtest.New(t))
	createClass(t, svc, 30)

	_, err := svc.Create(context.Background(), dto.CreateClassRequest{
		ClassName: "Grade 3 A", ClassGrade: 3, ClassCapacity: 10, ClassAcademicYear: "2024/2025",
	})
	assert.True(t, errors.Is(err, helper.ErrConflict))
}

func TestCreate_ValidationNamesField(t *testing.T) {
	svc := service.NewClassService(dbtest.New(t))
	_, err := svc.Create(context.Background(), dto.CreateClassRequest{
		ClassName: "X", ClassGrade: 13, ClassCapacity: 10, ClassAcademicYear: "2024/2025",
	})
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "class_grade")
}

func TestAssignStudents_CapacityAndOccupancy(t *testing.T) {
	db := dbtest.New(t)
	svc := service.NewClassService(db)
	ctx := context.Background()
	id := createClass(t, svc, 2)

	a := dbtest.User(t, db, constants.RoleStudent)
	b := dbtest.User(t, db, constants.RoleStudent)
	c := dbtest.User(t, db, constants.RoleStudent)

	res, err := svc.AssignStudents(ctx, id, dto.AssignStudentsRequest{StudentIDs: []uuid.UUID{a.ID, b.ID}})
	require.NoError(t, err)
	assert.Len(t, res.Assigned, 2)

	res, err = svc.AssignStudents(ctx, id, dto.AssignStudentsRequest{StudentIDs: []uuid.UUID{a.ID}})
	require.NoError(t, err)
	assert.Len(t, res.Skipped, 1)

	_, err = svc.AssignStudents(ctx, id, dto.AssignStudentsRequest{StudentIDs: []uuid.UUID{c.ID}})
	var full *service.ClassFullError
	assert.True(t, errors.As(err, &full))

	stats, err := svc.Stats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.StudentCount)
	assert.Equal(t, 100.0, stats.OccupancyRate)
}

func TestStats_LateIsNotPresent(t *testing.T) {
	db := dbtest.New(t)
	svc := service.NewClassService(db)
	ctx := context.Background()
	id := createClass(t, svc, 30)
	a := dbtest.User(t, db, constants.RoleStudent)
	b := dbtest.User(t, db, constants.RoleStudent)
	_, err := svc.AssignStudents(ctx, id, dto.AssignStudentsRequest{StudentIDs: []uuid.UUID{a.ID, b.ID}})
	require.NoError(t, err)

	day := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	for sid, st := range map[uuid.UUID]string{a.ID: constants.AttendancePresent, b.ID: constants.AttendanceLate} {
		require.NoError(t, db.Create(&attendanceModel.AttendanceRecordModel{
			AttendanceStudentID: sid, AttendanceClassID: id, AttendanceSessionDate: day, AttendanceStatus: st,
		}).Error)
	}

	stats, err := svc.Stats(ctx, id)
	require.NoError(t, err)
	require.True(t, stats.AverageAttendance.Sufficient())
	assert.Equal(t, 50.0, *stats.AverageAttendance.Value)
	assert.Equal(t, "50.0%", stats.AttendanceText)
}

func TestLinkSubjects_Replaces(t *testing.T) {
	db := dbtest.New(t)
	svc := service.NewClassService(db)
	ctx := context.Background()
	id := createClass(t, svc, 30)

	math := subjectModel.SubjectModel{SubjectCode: "MATH", SubjectName: "Mathematics"}
	sci := subjectModel.SubjectModel{SubjectCode: "SCI", SubjectName: "Science"}
	require.NoError(t, db.Create(&math).Error)
	require.NoError(t, db.Create(&sci).Error)

	_, err := svc.LinkSubjects(ctx, id, dto.LinkSubjectsRequest{Subjects: []dto.ClassSubjectLink{{SubjectID: math.SubjectID}, {SubjectID: sci.SubjectID}}})
	require.NoError(t, err)
	links, err := svc.LinkSubjects(ctx, id, dto.LinkSubjectsRequest{Subjects: []dto.ClassSubjectLink{{SubjectID: sci.SubjectID}}})
	require.NoError(t, err)
	assert.Len(t, links, 1)

	stats, err := svc.Stats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.SubjectCount)

	_, err = svc.LinkSubjects(ctx, id, dto.LinkSubjectsRequest{Subjects: []dto.ClassSubjectLink{{SubjectID: uuid.New()}}})
	var ve *helper.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestDelete_WithStudentsIsConflict(t *testing.T) {
	db := dbtest.New(t)
	svc := service.NewClassService(db)
	ctx := context.Background()
	id := createClass(t, svc, 5)
	st := dbtest.User(t, db, constants.RoleStudent)
	_, err := svc.AssignStudents(ctx, id, dto.AssignStudentsRequest{StudentIDs: []uuid.UUID{st.ID}})
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(ctx, id), helper.ErrConflict))
}
