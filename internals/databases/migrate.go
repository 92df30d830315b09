package database

import (
	"gorm.io/gorm"

	admissionModel "schoolhub_backend/internals/features/admissions/model"
	expenseModel "schoolhub_backend/internals/features/finance/expenses/model"
	feeModel "schoolhub_backend/internals/features/finance/fees/model"
	payrollModel "schoolhub_backend/internals/features/finance/payroll/model"
	homeModel "schoolhub_backend/internals/features/home/model"
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	examModel "schoolhub_backend/internals/features/school/exams/model"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	teacherModel "schoolhub_backend/internals/features/school/teachers/model"
	authModel "schoolhub_backend/internals/features/users/auth/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&classModel.ClassModel{},
		&classModel.ClassSubjectModel{},
		&subjectModel.SubjectModel{},
		&subjectModel.TeacherSubjectModel{},
		&teacherModel.PerformanceReviewModel{},
		&examModel.ExamModel{},
		&examModel.ExamResultModel{},
		&attendanceModel.AttendanceRecordModel{},
		&attendanceModel.BehaviorRecordModel{},
		&admissionModel.ApplicationModel{},
		&admissionModel.TimelineModel{},
		&admissionModel.DocumentModel{},
		&feeModel.FeeModel{},
		&feeModel.FeePaymentModel{},
		&expenseModel.ExpenseModel{},
		&payrollModel.PayrollRecordModel{},
		&homeModel.NewsPostModel{},
		&homeModel.ProgramModel{},
		&homeModel.ContactMessageModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
