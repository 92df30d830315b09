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
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/school/attendance/dto"
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	"schoolhub_backend/internals/features/school/attendance/service"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*gorm.DB, *service.AttendanceService, uuid.UUID) {
	t.Helper()
	db := dbtest.New(t)
	svc := service.NewAttendanceService(db)
	svc.Now = func() time.Time { return now }
	class := classModel.ClassModel{ClassName: "Grade 2 B", ClassGrade: 2, ClassCapacity: 30, ClassAcademicYear: "2024/2025"}
	require.NoError(t, db.Create(&class).Error)
	return db, svc, class.ClassID
}

func student(t *testing.T, db *gorm.DB, classID uuid.UUID) uuid.UUID {
	t.Helper()
	return dbtest.User(t, db, constants.RoleStudent, func(u *userModel.UserModel) { u.ClassID = &classID }).ID
}

func TestMark_UpsertsSameSession(t *testing.T) {
	db, svc, classID := setup(t)
	ctx := context.Background()
	a, b := student(t, db, classID), student(t, db, classID)

	res, err := svc.Mark(ctx, nil, dto.MarkAttendanceRequest{
		ClassID: classID, SessionDate: "2025-06-02",
		Records: []dto.AttendanceEntry{{StudentID: a, Status: "present"}, {StudentID: b, Status: "ABSENT"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Saved)

	_, err = svc.Mark(ctx, nil, dto.MarkAttendanceRequest{
		ClassID: classID, SessionDate: "2025-06-02",
		Records: []dto.AttendanceEntry{{StudentID: b, Status: "LATE"}},
	})
	require.NoError(t, err)

	var rows []attendanceModel.AttendanceRecordModel
	require.NoError(t, db.Order("attendance_status").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "LATE", rows[0].AttendanceStatus)
	assert.Equal(t, "PRESENT", rows[1].AttendanceStatus)
}

func TestMark_Validation(t *testing.T) {
	db, svc, classID := setup(t)
	ctx := context.Background()
	a := student(t, db, classID)
	outsider := dbtest.User(t, db, constants.RoleStudent).ID

	var ve *helper.ValidationError
	_, err := svc.Mark(ctx, nil, dto.MarkAttendanceRequest{ClassID: classID, SessionDate: "02/06/2025",
		Records: []dto.AttendanceEntry{{StudentID: a, Status: "PRESENT"}}})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "session_date")

	_, err = svc.Mark(ctx, nil, dto.MarkAttendanceRequest{ClassID: classID, SessionDate: "2025-07-01",
		Records: []dto.AttendanceEntry{{StudentID: a, Status: "PRESENT"}}})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "session_date")

	_, err = svc.Mark(ctx, nil, dto.MarkAttendanceRequest{ClassID: classID, SessionDate: "2025-06-02",
		Records: []dto.AttendanceEntry{{StudentID: outsider, Status: "PRESENT"}}})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "records[0].student_id")
}

func TestSummary_EmptyIsInsufficient(t *testing.T) {
	_, svc, classID := setup(t)
	sum, err := svc.Summary(context.Background(), dto.AttendanceFilter{ClassID: &classID}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, sum.Year)
	assert.Equal(t, 0, sum.Sessions)
	assert.Equal(t, aggregate.StateInsufficient, sum.Rate.State)
	assert.Equal(t, "N/A", sum.RateText)
}

func TestSummary_RateAndMonthly(t *testing.T) {
	db, svc, classID := setup(t)
	ctx := context.Background()
	a, b := student(t, db, classID), student(t, db, classID)

	mark := func(date string, sa, sb string) {
		_, err := svc.Mark(ctx, nil, dto.MarkAttendanceRequest{ClassID: classID, SessionDate: date,
			Records: []dto.AttendanceEntry{{StudentID: a, Status: sa}, {StudentID: b, Status: sb}}})
		require.NoError(t, err)
	}
	mark("2025-05-05", "PRESENT", "LATE")
	mark("2025-06-02", "PRESENT", "ABSENT")

	sum, err := svc.Summary(ctx, dto.AttendanceFilter{ClassID: &classID}, 2025)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Sessions)
	assert.Equal(t, 2, sum.Present)
	assert.Equal(t, 1, sum.Late)
	assert.Equal(t, 1, sum.Absent)
	require.True(t, sum.Rate.Sufficient())
	assert.Equal(t, 50.0, *sum.Rate.Value)
	assert.Equal(t, 1, sum.Monthly[4])
	assert.Equal(t, 1, sum.Monthly[5])

	page, err := svc.List(ctx, helper.ListQuery{Page: 1, Limit: 10}, dto.AttendanceFilter{StudentID: &b})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestBehavior_Score(t *testing.T) {
	db, svc, classID := setup(t)
	ctx := context.Background()
	a := student(t, db, classID)

	for _, kind := range []string{"POSITIVE_RECOGNITION", "POSITIVE_RECOGNITION", "MINOR_INFRACTION", "NOTE"} {
		_, err := svc.RecordBehavior(ctx, nil, dto.CreateBehaviorRequest{StudentID: a, Type: kind, Description: "observed"})
		require.NoError(t, err)
	}
	sum, err := svc.BehaviorSummary(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Positive)
	assert.Equal(t, 1, sum.Negative)
	assert.Equal(t, 85, sum.Score)

	_, err = svc.RecordBehavior(ctx, nil, dto.CreateBehaviorRequest{StudentID: uuid.New(), Type: "NOTE", Description: "x"})
	var ve *helper.ValidationError
	assert.True(t, errors.As(err, &ve))
}
