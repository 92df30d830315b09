package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
	studentService "schoolhub_backend/internals/features/school/students/service"
)

// Viewer is the authenticated user a dashboard is built for.
type Viewer struct {
	ID   uuid.UUID
	Role string
	Name string
}

// Dashboard is the common envelope; Data holds the role-specific payload.
type Dashboard struct {
	Role        string               `json:"role"`
	Greeting    string               `json:"greeting"`
	GeneratedAt time.Time            `json:"generated_at"`
	Cards       []presenter.StatCard `json:"cards"`
	Data        any                  `json:"data"`
	Partial     bool                 `json:"partial,omitempty"`
}

type UpcomingExam struct {
	ExamID      uuid.UUID `json:"exam_id" gorm:"column:exam_id"`
	Title       string    `json:"title" gorm:"column:exam_title"`
	Type        string    `json:"type" gorm:"column:exam_type"`
	Date        time.Time `json:"date" gorm:"column:exam_date"`
	ClassName   string    `json:"class_name" gorm:"column:class_name"`
	SubjectName string    `json:"subject_name" gorm:"column:subject_name"`
}

type RecentApplication struct {
	ApplicationID     uuid.UUID       `json:"application_id" gorm:"column:application_id"`
	ApplicationNumber string          `json:"application_number" gorm:"column:application_number"`
	FirstName         string          `json:"first_name" gorm:"column:application_first_name"`
	LastName          string          `json:"last_name" gorm:"column:application_last_name"`
	Grade             int             `json:"grade" gorm:"column:application_grade"`
	Status            string          `json:"status" gorm:"column:application_status"`
	SubmittedAt       time.Time       `json:"submitted_at" gorm:"column:application_submitted_at"`
	Style             presenter.Style `json:"style" gorm:"-"`
}

type AdminData struct {
	Students           int64               `json:"students"`
	Teachers           int64               `json:"teachers"`
	Classes            int64               `json:"classes"`
	PendingAdmissions  int64               `json:"pending_admissions"`
	MonthRevenue       decimal.Decimal     `json:"month_revenue"`
	MonthExpenses      decimal.Decimal     `json:"month_expenses"`
	AttendanceToday    aggregate.Metric    `json:"attendance_today"`
	UpcomingExams      []UpcomingExam      `json:"upcoming_exams"`
	RecentApplications []RecentApplication `json:"recent_applications"`
}

type TeachingClass struct {
	ClassID  uuid.UUID `json:"class_id" gorm:"column:class_id"`
	Name     string    `json:"name" gorm:"column:class_name"`
	Grade    int       `json:"grade" gorm:"column:class_grade"`
	Homeroom bool      `json:"homeroom" gorm:"-"`
	Students int64     `json:"students" gorm:"-"`
}

type TeacherData struct {
	Classes       []TeachingClass  `json:"classes"`
	Subjects      int64            `json:"subjects"`
	UpcomingExams []UpcomingExam   `json:"upcoming_exams"`
	AverageRating aggregate.Metric `json:"average_rating"`
	Reviews       int              `json:"reviews"`
}

type FeeDue struct {
	FeeID       uuid.UUID       `json:"fee_id"`
	Name        string          `json:"name"`
	DueDate     time.Time       `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type StudentData struct {
	Performance   *studentService.Performance `json:"performance"`
	UpcomingExams []UpcomingExam              `json:"upcoming_exams"`
	FeesDue       []FeeDue                    `json:"fees_due"`
}

type ChildSummary struct {
	StudentID     uuid.UUID        `json:"student_id"`
	Name          string           `json:"name"`
	GPA           float64          `json:"gpa"`
	OverallGrade  string           `json:"overall_grade"`
	Attendance    aggregate.Metric `json:"attendance"`
	BehaviorScore int              `json:"behavior_score"`
	Status        string           `json:"status"`
	StatusStyle   presenter.Style  `json:"status_style"`
	FeesDue       []FeeDue         `json:"fees_due"`
}

type ParentData struct {
	Children []ChildSummary `json:"children"`
}
