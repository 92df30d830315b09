package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	admissionModel "schoolhub_backend/internals/features/admissions/model"
	"schoolhub_backend/internals/features/dashboard/dto"
	"schoolhub_backend/internals/features/dashboard/service"
	expenseModel "schoolhub_backend/internals/features/finance/expenses/model"
	feeModel "schoolhub_backend/internals/features/finance/fees/model"
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	examModel "schoolhub_backend/internals/features/school/exams/model"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	teacherModel "schoolhub_backend/internals/features/school/teachers/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

var now = time.Date(2024, 9, 10, 8, 0, 0, 0, time.UTC)

func newService(db *gorm.DB) *service.DashboardService {
	svc := service.NewDashboardService(db)
	svc.Now = func() time.Time { return now }
	return svc
}

func class(t *testing.T, db *gorm.DB, name string, grade int, teacher *uuid.UUID) classModel.ClassModel {
	t.Helper()
	c := classModel.ClassModel{
		ClassName: name, ClassGrade: grade, ClassCapacity: 30, ClassAcademicYear: "2024/2025", ClassTeacherID: teacher,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func subject(t *testing.T, db *gorm.DB, code string) subjectModel.SubjectModel {
	t.Helper()
	s := subjectModel.SubjectModel{SubjectCode: code, SubjectName: code}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func exam(t *testing.T, db *gorm.DB, classID, subjectID uuid.UUID, title string, date time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&examModel.ExamModel{
		ExamTitle: title, ExamClassID: classID, ExamSubjectID: subjectID, ExamType: constants.ExamQuiz,
		ExamDate: date, ExamTotalMarks: 100, ExamPassMarks: 50,
	}).Error)
}

func fee(t *testing.T, db *gorm.DB, name string, amount int64, classID *uuid.UUID, due time.Time) feeModel.FeeModel {
	t.Helper()
	f := feeModel.FeeModel{
		FeeName: name, FeeType: "TUITION", FeeAmount: decimal.NewFromInt(amount), FeeDueDate: due,
		FeeClassID: classID, FeeAcademicYear: "2024/2025",
	}
	require.NoError(t, db.Create(&f).Error)
	return f
}

func pay(t *testing.T, db *gorm.DB, feeID, studentID uuid.UUID, status string, amount int64, paidAt *time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&feeModel.FeePaymentModel{
		FeePaymentFeeID: feeID, FeePaymentStudentID: studentID, FeePaymentAmountPaid: decimal.NewFromInt(amount),
		FeePaymentStatus: status, FeePaymentPaidAt: paidAt,
	}).Error)
}

func inClass(id uuid.UUID) func(u *userModel.UserModel) {
	return func(u *userModel.UserModel) { u.ClassID = &id }
}

func TestBuild_UnknownRoleForbidden(t *testing.T) {
	svc := newService(dbtest.New(t))
	_, err := svc.Build(context.Background(), dto.Viewer{ID: uuid.New(), Role: "janitor"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, helper.ErrForbidden))
}

func TestRoles(t *testing.T) {
	svc := newService(dbtest.New(t))
	assert.Equal(t, constants.AllRoles, svc.Roles())
}

func TestBuild_Admin(t *testing.T) {
	db := dbtest.New(t)
	svc := newService(db)
	ctx := context.Background()

	admin := dbtest.User(t, db, constants.RoleAdmin)
	teacher := dbtest.User(t, db, constants.RoleTeacher)
	c := class(t, db, "7A", 7, &teacher.ID)
	s1 := dbtest.User(t, db, constants.RoleStudent, inClass(c.ClassID))
	s2 := dbtest.User(t, db, constants.RoleStudent, inClass(c.ClassID))
	dbtest.User(t, db, constants.RoleStudent, func(u *userModel.UserModel) { u.IsActive = false })

	math := subject(t, db, "MATH")
	exam(t, db, c.ClassID, math.SubjectID, "Past quiz", now.AddDate(0, 0, -3))
	exam(t, db, c.ClassID, math.SubjectID, "Next quiz", now.AddDate(0, 0, 5))

	f := fee(t, db, "Tuition", 1000, nil, now.AddDate(0, 1, 0))
	thisMonth := now.AddDate(0, 0, -2)
	lastMonth := now.AddDate(0, -1, 0)
	pay(t, db, f.FeeID, s1.ID, constants.PaymentPaid, 500, &thisMonth)
	pay(t, db, f.FeeID, s2.ID, constants.PaymentPaid, 700, &lastMonth)

	require.NoError(t, db.Create(&expenseModel.ExpenseModel{
		ExpenseTitle: "Power", ExpenseCategory: constants.ExpenseUtilities, ExpenseStatus: constants.ExpenseApproved,
		ExpenseAmount: decimal.NewFromInt(200), ExpenseDate: now, ExpenseFiscalYear: 2024, ExpenseFiscalMonth: 9,
	}).Error)

	day := time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)
	for i, st := range []string{constants.AttendancePresent, constants.AttendanceAbsent} {
		sid := []uuid.UUID{s1.ID, s2.ID}[i]
		require.NoError(t, db.Create(&attendanceModel.AttendanceRecordModel{
			AttendanceStudentID: sid, AttendanceClassID: c.ClassID, AttendanceSessionDate: day, AttendanceStatus: st,
		}).Error)
	}

	require.NoError(t, db.Create(&admissionModel.ApplicationModel{
		ApplicationNumber: "APP-2024-000001", ApplicationFirstName: "Sarah", ApplicationLastName: "Johnson",
		ApplicationDateOfBirth: time.Date(2012, 3, 15, 0, 0, 0, 0, time.UTC), ApplicationGender: "female",
		ApplicationGrade: 7, ApplicationParentName: "Michael Johnson", ApplicationParentEmail: "m@example.com",
		ApplicationParentPhone: "+1 555 0100", ApplicationStatus: constants.AdmissionPending,
	}).Error)

	d, err := svc.Build(ctx, dto.Viewer{ID: admin.ID, Role: constants.RoleAdmin, Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, d.Role)
	assert.Equal(t, "Welcome back, Ada", d.Greeting)
	assert.False(t, d.Partial)
	assert.NotEmpty(t, d.Cards)

	data, ok := d.Data.(dto.AdminData)
	require.True(t, ok)
	assert.EqualValues(t, 2, data.Students)
	assert.EqualValues(t, 1, data.Teachers)
	assert.EqualValues(t, 1, data.Classes)
	assert.EqualValues(t, 1, data.PendingAdmissions)
	assert.True(t, data.MonthRevenue.Equal(decimal.NewFromInt(500)), data.MonthRevenue.String())
	assert.True(t, data.MonthExpenses.Equal(decimal.NewFromInt(200)), data.MonthExpenses.String())
	require.True(t, data.AttendanceToday.Sufficient())
	assert.InDelta(t, 50.0, *data.AttendanceToday.Value, 0.01)
	require.Len(t, data.UpcomingExams, 1)
	assert.Equal(t, "Next quiz", data.UpcomingExams[0].Title)
	assert.Equal(t, "7A", data.UpcomingExams[0].ClassName)
	require.Len(t, data.RecentApplications, 1)
	assert.NotEmpty(t, data.RecentApplications[0].Style.Color)
}

func TestBuild_Teacher(t *testing.T) {
	db := dbtest.New(t)
	svc := newService(db)

	teacher := dbtest.User(t, db, constants.RoleTeacher)
	home := class(t, db, "5A", 5, &teacher.ID)
	other := class(t, db, "4B", 4, nil)
	class(t, db, "6C", 6, nil)

	math := subject(t, db, "MATH")
	art := subject(t, db, "ART")
	for _, cs := range []classModel.ClassSubjectModel{
		{ClassSubjectClassID: home.ClassID, ClassSubjectSubjectID: math.SubjectID, ClassSubjectTeacherID: &teacher.ID},
		{ClassSubjectClassID: other.ClassID, ClassSubjectSubjectID: math.SubjectID, ClassSubjectTeacherID: &teacher.ID},
	} {
		cs := cs
		require.NoError(t, db.Create(&cs).Error)
	}
	for _, s := range []subjectModel.SubjectModel{math, art} {
		require.NoError(t, db.Create(&subjectModel.TeacherSubjectModel{
			TeacherSubjectTeacherID: teacher.ID, TeacherSubjectSubjectID: s.SubjectID,
		}).Error)
	}
	dbtest.User(t, db, constants.RoleStudent, inClass(home.ClassID))
	dbtest.User(t, db, constants.RoleStudent, inClass(home.ClassID))
	dbtest.User(t, db, constants.RoleStudent, inClass(other.ClassID))
	exam(t, db, other.ClassID, math.SubjectID, "Fractions", now.AddDate(0, 0, 2))

	for _, r := range []float64{4.0, 5.0} {
		require.NoError(t, db.Create(&teacherModel.PerformanceReviewModel{
			ReviewTeacherID: teacher.ID, ReviewPeriod: "2024 S1", ReviewDate: now, ReviewOverallRating: r,
			ReviewTeachingQuality: 4, ReviewClassroomManagement: 4, ReviewStudentEngagement: 4,
			ReviewProfessionalism: 4, ReviewCommunication: 4, ReviewPunctuality: 4,
		}).Error)
	}

	d, err := svc.Build(context.Background(), dto.Viewer{ID: teacher.ID, Role: constants.RoleTeacher})
	require.NoError(t, err)
	data, ok := d.Data.(dto.TeacherData)
	require.True(t, ok)

	require.Len(t, data.Classes, 2)
	assert.Equal(t, "4B", data.Classes[0].Name)
	assert.False(t, data.Classes[0].Homeroom)
	assert.EqualValues(t, 1, data.Classes[0].Students)
	assert.Equal(t, "5A", data.Classes[1].Name)
	assert.True(t, data.Classes[1].Homeroom)
	assert.EqualValues(t, 2, data.Classes[1].Students)

	assert.EqualValues(t, 2, data.Subjects)
	require.Len(t, data.UpcomingExams, 1)
	assert.Equal(t, "Fractions", data.UpcomingExams[0].Title)
	require.True(t, data.AverageRating.Sufficient())
	assert.InDelta(t, 4.5, *data.AverageRating.Value, 0.001)
	assert.Equal(t, 2, data.Reviews)
}

func TestBuild_TeacherWithoutReviews(t *testing.T) {
	db := dbtest.New(t)
	teacher := dbtest.User(t, db, constants.RoleTeacher)

	d, err := newService(db).Build(context.Background(), dto.Viewer{ID: teacher.ID, Role: constants.RoleTeacher})
	require.NoError(t, err)
	data := d.Data.(dto.TeacherData)
	assert.Empty(t, data.Classes)
	assert.NotNil(t, data.UpcomingExams)
	assert.False(t, data.AverageRating.Sufficient())
}

func TestBuild_StudentFeesDue(t *testing.T) {
	db := dbtest.New(t)
	svc := newService(db)

	mine := class(t, db, "3A", 3, nil)
	theirs := class(t, db, "3B", 3, nil)
	student := dbtest.User(t, db, constants.RoleStudent, inClass(mine.ClassID))

	tuition := fee(t, db, "Tuition", 1000, &mine.ClassID, now.AddDate(0, 1, 0))
	books := fee(t, db, "Books", 150, nil, now.AddDate(0, 0, 5))
	fee(t, db, "Lab", 80, &theirs.ClassID, now.AddDate(0, 0, 1))
	trip := fee(t, db, "Trip", 50, nil, now.AddDate(0, 0, 3))

	paid := now.AddDate(0, 0, -1)
	pay(t, db, tuition.FeeID, student.ID, constants.PaymentPartial, 400, &paid)
	pay(t, db, trip.FeeID, student.ID, constants.PaymentPaid, 50, &paid)
	pay(t, db, books.FeeID, student.ID, constants.PaymentPending, 150, nil)

	d, err := svc.Build(context.Background(), dto.Viewer{ID: student.ID, Role: constants.RoleStudent})
	require.NoError(t, err)
	data, ok := d.Data.(dto.StudentData)
	require.True(t, ok)
	require.NotNil(t, data.Performance)
	assert.Equal(t, student.ID, data.Performance.Student.ID)

	require.Len(t, data.FeesDue, 2)
	assert.Equal(t, "Books", data.FeesDue[0].Name)
	assert.True(t, data.FeesDue[0].Outstanding.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "Tuition", data.FeesDue[1].Name)
	assert.True(t, data.FeesDue[1].Paid.Equal(decimal.NewFromInt(400)))
	assert.True(t, data.FeesDue[1].Outstanding.Equal(decimal.NewFromInt(600)))
}

func TestBuild_StudentMissing(t *testing.T) {
	svc := newService(dbtest.New(t))
	_, err := svc.Build(context.Background(), dto.Viewer{ID: uuid.New(), Role: constants.RoleStudent})
	assert.True(t, errors.Is(err, helper.ErrNotFound))
}

func TestBuild_Parent(t *testing.T) {
	db := dbtest.New(t)
	parent := dbtest.User(t, db, constants.RoleParent)
	child := func(name string) func(u *userModel.UserModel) {
		return func(u *userModel.UserModel) { u.ParentID = &parent.ID; u.FullName = name }
	}
	dbtest.User(t, db, constants.RoleStudent, child("Zed"))
	dbtest.User(t, db, constants.RoleStudent, child("Amy"))
	dbtest.User(t, db, constants.RoleStudent)
	fee(t, db, "Books", 100, nil, now.AddDate(0, 0, 5))

	d, err := newService(db).Build(context.Background(), dto.Viewer{ID: parent.ID, Role: constants.RoleParent})
	require.NoError(t, err)
	data, ok := d.Data.(dto.ParentData)
	require.True(t, ok)
	require.Len(t, data.Children, 2)
	assert.Equal(t, "Amy", data.Children[0].Name)
	assert.Equal(t, "Zed", data.Children[1].Name)
	for _, c := range data.Children {
		require.Len(t, c.FeesDue, 1)
		assert.False(t, c.Attendance.Sufficient())
	}
	assert.Equal(t, "Fees Due", d.Cards[1].Title)
}
