package details

import (
	"github.com/gofiber/fiber/v2"

	attendanceRoute "schoolhub_backend/internals/features/school/attendance/route"
	attendanceService "schoolhub_backend/internals/features/school/attendance/service"
	classRoute "schoolhub_backend/internals/features/school/classes/route"
	classService "schoolhub_backend/internals/features/school/classes/service"
	examRoute "schoolhub_backend/internals/features/school/exams/route"
	examService "schoolhub_backend/internals/features/school/exams/service"
	studentRoute "schoolhub_backend/internals/features/school/students/route"
	studentService "schoolhub_backend/internals/features/school/students/service"
	subjectRoute "schoolhub_backend/internals/features/school/subjects/route"
	subjectService "schoolhub_backend/internals/features/school/subjects/service"
	teacherRoute "schoolhub_backend/internals/features/school/teachers/route"
	teacherService "schoolhub_backend/internals/features/school/teachers/service"
)

// School bundles the academic services.
type School struct {
	Classes    *classService.ClassService
	Subjects   *subjectService.SubjectService
	Teachers   *teacherService.TeacherService
	Students   *studentService.StudentService
	Exams      *examService.ExamService
	Attendance *attendanceService.AttendanceService
}

func SchoolUserRoutes(r fiber.Router, s School) {
	subjectRoute.UserRoutes(r, s.Subjects)
}

func SchoolStaffRoutes(r fiber.Router, s School) {
	classRoute.StaffRoutes(r, s.Classes)
	teacherRoute.StaffRoutes(r, s.Teachers)
	studentRoute.StaffRoutes(r, s.Students)
	examRoute.StaffRoutes(r, s.Exams)
	attendanceRoute.StaffRoutes(r, s.Attendance)
}

func SchoolAdminRoutes(r fiber.Router, s School) {
	classRoute.AdminRoutes(r, s.Classes)
	subjectRoute.AdminRoutes(r, s.Subjects)
	teacherRoute.AdminRoutes(r, s.Teachers)
	studentRoute.AdminRoutes(r, s.Students)
}
